package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pal-budget/internal/logger"
)

func chatOK(content string) string {
	quoted, _ := json.Marshal(content)
	return `{"choices": [{"message": {"content": ` + string(quoted) + `}}]}`
}

func TestChatClientComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(chatOK("你好 🐷")))
	}))
	defer server.Close()

	c := NewChatClient(server.URL, "sk-test", logger.Nop())
	out := c.Complete(context.Background(), Request{
		Model:       "test-model",
		Messages:    []Message{{Role: RoleUser, Text: "hi"}},
		Temperature: 0.3,
	})

	if !out.OK() {
		t.Fatalf("Complete() = %+v, want OK", out)
	}
	if out.Content != "你好 🐷" {
		t.Errorf("content = %q", out.Content)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody.Model != "test-model" || len(gotBody.Messages) != 1 {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestChatClientKeylessOmitsAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(chatOK("ok")))
	}))
	defer server.Close()

	c := NewChatClient(server.URL+"/", "", logger.Nop())
	out := c.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Text: "hi"}}})

	if !out.OK() {
		t.Fatalf("Complete() = %+v, want OK", out)
	}
	if gotAuth != "" {
		t.Errorf("auth header = %q, want empty for keyless endpoint", gotAuth)
	}
}

func TestChatClientVisionContentParts(t *testing.T) {
	var rawBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(chatOK("{}")))
	}))
	defer server.Close()

	c := NewChatClient(server.URL, "sk-test", logger.Nop())
	out := c.Complete(context.Background(), Request{
		Model: "vision-model",
		Messages: []Message{{
			Role:  RoleUser,
			Text:  "识别这张小票",
			Image: &ImageData{MIMEType: "image/png", Data: []byte{1, 2, 3}},
		}},
	})
	if !out.OK() {
		t.Fatalf("Complete() = %+v, want OK", out)
	}

	body := string(rawBody)
	if !strings.Contains(body, `"image_url"`) {
		t.Error("vision request body has no image_url part")
	}
	if !strings.Contains(body, "data:image/png;base64,AQID") {
		t.Errorf("vision request body lacks the inline data URL: %s", body)
	}
	if !strings.Contains(body, "识别这张小票") {
		t.Error("vision request body lacks the instruction text")
	}
}

func TestChatClientErrorOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    State
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
			},
			want: StateFailed,
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"choices": []}`))
			},
			want: StateFailed,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			want: StateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := NewChatClient(server.URL, "sk-test", logger.Nop())
			out := c.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Text: "hi"}}})
			if out.State != tt.want {
				t.Errorf("Complete() state = %v, want %v", out.State, tt.want)
			}
		})
	}
}

func TestChatClientUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	c := NewChatClient(server.URL, "sk-test", logger.Nop())
	out := c.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Text: "hi"}}})
	if out.State != StateUnavailable {
		t.Errorf("Complete() state = %v, want StateUnavailable", out.State)
	}
}
