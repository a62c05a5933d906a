package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// GeminiClient is a Completer backed by the Gemini API. Selected with
// AI_BACKEND=gemini; credentials come from the genai SDK's own environment
// handling (GOOGLE_API_KEY / GEMINI_API_KEY).
type GeminiClient struct {
	log zerolog.Logger
}

// NewGeminiClient creates a Gemini-backed Completer.
func NewGeminiClient(log zerolog.Logger) *GeminiClient {
	return &GeminiClient{log: log}
}

// Complete implements Completer. Chat roles map onto Gemini's user/model
// turns; a leading system message becomes the system instruction.
func (c *GeminiClient) Complete(ctx context.Context, req Request) Outcome {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("Gemini client unavailable")
		return Unavailable()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Text}},
			}
			continue
		}
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		parts := []*genai.Part{}
		if m.Image != nil {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					MIMEType: m.Image.MIMEType,
					Data:     m.Image.Data,
				},
			})
		}
		parts = append(parts, &genai.Part{Text: m.Text})
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		c.log.Warn().Err(err).Str("model", req.Model).Msg("Gemini generate content failed")
		return Unavailable()
	}

	text := resp.Text()
	if text == "" {
		return Failed(fmt.Errorf("empty response from model"))
	}
	return Ok(text)
}
