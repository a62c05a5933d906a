package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// chatRequest is the OpenAI-compatible chat-completions wire format shared by
// the hosted API and the local Ollama endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role string `json:"role"`
	// Content is a string for text messages and a []contentPart for
	// vision messages.
	Content any `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatClient is a Completer speaking the OpenAI-compatible chat-completions
// protocol. APIKey may be empty for keyless local endpoints.
type ChatClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewChatClient creates a client for baseURL (e.g. "https://api.example.com/v1").
// The transport connects directly: proxies are explicitly disabled because
// proxied connections to the completion endpoints have proven unreliable.
func NewChatClient(baseURL, apiKey string, log zerolog.Logger) *ChatClient {
	return &ChatClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Transport: &http.Transport{Proxy: nil},
		},
		log: log,
	}
}

// Complete implements Completer. The request timeout is applied here because
// each call carries its own ceiling (text parsing is quicker than vision).
func (c *ChatClient) Complete(ctx context.Context, req Request) Outcome {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(buildChatRequest(req))
	if err != nil {
		return Failed(fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Failed(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("model", req.Model).Msg("AI backend unreachable")
		return Unavailable()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failed(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("model", req.Model).
			Str("body", truncate(string(raw), 500)).
			Msg("AI backend returned non-200")
		return Failed(fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Failed(fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return Failed(fmt.Errorf("response has no choices"))
	}
	return Ok(parsed.Choices[0].Message.Content)
}

// buildChatRequest maps the backend-neutral request onto the wire shape.
// Vision messages become a two-part content array: inline base64 image, then
// the instruction text.
func buildChatRequest(req Request) chatRequest {
	out := chatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		cm := chatMessage{Role: string(m.Role)}
		if m.Image != nil {
			encoded := base64.StdEncoding.EncodeToString(m.Image.Data)
			cm.Content = []contentPart{
				{
					Type: "image_url",
					ImageURL: &imageURL{
						URL: fmt.Sprintf("data:%s;base64,%s", m.Image.MIMEType, encoded),
					},
				},
				{Type: "text", Text: m.Text},
			}
		} else {
			cm.Content = m.Text
		}
		out.Messages = append(out.Messages, cm)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
