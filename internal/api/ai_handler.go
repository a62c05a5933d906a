package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"pal-budget/internal/assistant"
	"pal-budget/internal/config"
	"pal-budget/internal/infer"
)

// maxUploadSize caps receipt uploads at 10 MiB.
const maxUploadSize = 10 << 20

// AIHandler serves the inference endpoints: voice-text parsing, receipt
// scanning and the assistant chat.
type AIHandler struct {
	inferencer *infer.Inferencer
	assistant  *assistant.Assistant
	aiConfig   config.AIConfig
	log        zerolog.Logger
}

// NewAIHandler creates the handler.
func NewAIHandler(inferencer *infer.Inferencer, asst *assistant.Assistant, aiConfig config.AIConfig, log zerolog.Logger) *AIHandler {
	return &AIHandler{
		inferencer: inferencer,
		assistant:  asst,
		aiConfig:   aiConfig,
		log:        log,
	}
}

// ParseVoice handles POST /api/ai/parse-voice.
func (h *AIHandler) ParseVoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx := h.inferencer.ParseText(r.Context(), req.Text)
	WriteJSON(w, http.StatusOK, tx)
}

// ScanReceipt handles POST /api/ai/scan-receipt. The upload must declare an
// image media type; that check is the only failure surfaced to the caller.
func (h *AIHandler) ScanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "无法读取图片文件")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		WriteError(w, http.StatusBadRequest, "请上传图片文件")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "无法读取图片文件")
		return
	}

	extraction, aiRecognized := h.inferencer.ScanReceipt(r.Context(), image, mimeType)
	message := "请手动编辑识别结果"
	if aiRecognized {
		message = "AI 识别成功"
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    extraction,
		"message": message,
	})
}

// Chat handles POST /api/ai/chat.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query   string           `json:"query"`
		History []assistant.Turn `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply := h.assistant.Reply(r.Context(), req.Query, req.History)
	WriteJSON(w, http.StatusOK, map[string]any{
		"reply":      reply.Text,
		"ai_powered": reply.AIPowered,
	})
}

// Config handles GET /api/ai/config.
func (h *AIHandler) Config(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"configured":       h.aiConfig.APIKey != "",
		"api_base":         h.aiConfig.APIBase,
		"model":            h.aiConfig.Model,
		"vision_model":     h.aiConfig.VisionModel,
		"use_ollama":       h.aiConfig.UseOllama,
		"ollama_available": false,
	})
}
