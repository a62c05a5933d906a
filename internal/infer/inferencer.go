package infer

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pal-budget/internal/ai"
)

// Call-specific timeout ceilings. Vision payloads and the larger vision
// model take longer than plain text parsing.
const (
	textParseTimeout = 30 * time.Second
	visionTimeout    = 60 * time.Second
)

// Inferencer turns free text and receipt images into structured
// transactions. The AI path is attempted first when configured; every
// failure degrades silently to the deterministic path. Both entry points are
// total: they return a structurally valid result for any input.
type Inferencer struct {
	svc           ai.Service
	model         string
	visionModel   string
	visionEnabled bool
	log           zerolog.Logger
}

// New creates an inferencer. visionEnabled is false in the keyless local
// mode, which has no vision model.
func New(svc ai.Service, model, visionModel string, visionEnabled bool, log zerolog.Logger) *Inferencer {
	return &Inferencer{
		svc:           svc,
		model:         model,
		visionModel:   visionModel,
		visionEnabled: visionEnabled,
		log:           log,
	}
}

// ParseText extracts a transaction from a free-text utterance.
func (inf *Inferencer) ParseText(ctx context.Context, text string) ParsedTransaction {
	if inf.svc.Enabled() {
		if tx, ok := inf.parseTextWithModel(ctx, text); ok {
			return tx
		}
	}
	return inf.parseTextWithRules(text)
}

// parseTextWithModel runs the AI attempt. ok is false on any transport or
// parse failure; the caller then takes the rule path.
func (inf *Inferencer) parseTextWithModel(ctx context.Context, text string) (ParsedTransaction, bool) {
	outcome := inf.svc.Complete(ctx, ai.Request{
		Model:       inf.model,
		Messages:    []ai.Message{{Role: ai.RoleUser, Text: voiceParsePrompt(text)}},
		Temperature: 0.3,
		Timeout:     textParseTimeout,
	})
	if !outcome.OK() {
		return ParsedTransaction{}, false
	}

	parsed, ok := ai.ExtractJSONObject(outcome.Content)
	if !ok {
		inf.log.Warn().Msg("model reply contained no JSON object")
		return ParsedTransaction{}, false
	}

	txType := TransactionType(stringField(parsed, "type"))
	category := stringField(parsed, "category")
	if !txType.Valid() || category == "" {
		return ParsedTransaction{}, false
	}

	amount := coerceAmount(parsed["amount"])
	if amount == 0 {
		// The structured field is sometimes empty even when the amount is
		// visible in the model's prose; re-run the cascade on the raw reply.
		amount = ExtractAmount(outcome.Content)
	}

	description := stringField(parsed, "description")
	if description == "" {
		description = text
	}

	return ParsedTransaction{
		Type:        txType,
		Amount:      amount,
		Category:    category,
		Description: description,
	}, true
}

// parseTextWithRules is the deterministic baseline: amount cascade plus
// keyword classification.
func (inf *Inferencer) parseTextWithRules(text string) ParsedTransaction {
	txType, category := ClassifyText(text)
	return ParsedTransaction{
		Type:        txType,
		Amount:      ExtractAmount(text),
		Category:    category,
		Description: text,
	}
}

// ScanReceipt extracts payment details from a receipt or payment screenshot.
// The returned bool reports whether the extraction came from the vision
// model; false means the caller got the editable placeholder.
func (inf *Inferencer) ScanReceipt(ctx context.Context, image []byte, mimeType string) (ReceiptExtraction, bool) {
	if inf.visionEnabled && inf.svc.Enabled() {
		if extraction, ok := inf.scanWithModel(ctx, image, mimeType); ok {
			return extraction, true
		}
	}
	return ReceiptExtraction{
		Category: CategoryShopping,
		Items:    []ReceiptItem{},
	}, false
}

func (inf *Inferencer) scanWithModel(ctx context.Context, image []byte, mimeType string) (ReceiptExtraction, bool) {
	outcome := inf.svc.Complete(ctx, ai.Request{
		Model: inf.visionModel,
		Messages: []ai.Message{{
			Role:  ai.RoleUser,
			Text:  receiptScanPrompt,
			Image: &ai.ImageData{MIMEType: mimeType, Data: image},
		}},
		Temperature: 0.2,
		MaxTokens:   200,
		Timeout:     visionTimeout,
	})
	if !outcome.OK() {
		return ReceiptExtraction{}, false
	}

	parsed, ok := ai.ExtractJSONObject(outcome.Content)
	if !ok {
		inf.log.Warn().Msg("vision reply contained no JSON object")
		return ReceiptExtraction{}, false
	}

	amount := coerceAmount(parsed["amount"])
	if amount == 0 {
		amount = ExtractAmount(outcome.Content)
		if amount > 0 {
			inf.log.Info().Float64("amount", amount).Msg("repaired amount from raw vision reply")
		}
	}

	category := stringField(parsed, "category")
	if category == "" {
		category = CategoryShopping
	}

	return ReceiptExtraction{
		Amount:   amount,
		Merchant: stringField(parsed, "merchant"),
		Category: category,
		Date:     stringField(parsed, "date"),
		Items:    []ReceiptItem{},
	}, true
}

// coerceAmount safely reads a model-provided amount that may arrive as a
// number, a numeric string, null, or garbage. Anything unusable is 0.
func coerceAmount(v any) float64 {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return 0
		}
		return val
	case string:
		s := strings.TrimSpace(val)
		if s == "" || s == "null" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
