package ai

import (
	"context"
	"time"
)

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImageData is an inline image payload attached to a message.
type ImageData struct {
	MIMEType string
	Data     []byte
}

// Message is one turn of a chat-completion request. Image is nil for plain
// text messages; when set, the message is sent as multi-part content with the
// image first and the text second.
type Message struct {
	Role  Role
	Text  string
	Image *ImageData
}

// Request describes one chat-completion call. Timeout is a hard ceiling for
// the single attempt; there are no retries.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Completer performs one blocking chat-completion call against a backend.
// Implementations never return a Go error: every transport or protocol
// problem is folded into the Outcome so callers always take an explicit
// fallback decision.
type Completer interface {
	Complete(ctx context.Context, req Request) Outcome
}

// Service is the dispatch surface the inference components depend on.
type Service interface {
	Complete(ctx context.Context, req Request) Outcome
	Enabled() bool
}

// State tags an Outcome.
type State int

const (
	// StateOK means the backend replied and Content holds the model text.
	StateOK State = iota
	// StateUnavailable means no backend is configured or it was unreachable.
	StateUnavailable
	// StateFailed means the backend answered but the reply was unusable
	// (non-200, empty choice, malformed body).
	StateFailed
)

// Outcome is the result of one completion attempt. It replaces thrown errors
// on the AI path: callers test OK() and degrade deterministically.
type Outcome struct {
	State   State
	Content string
	Err     error
}

// Ok wraps successful model text.
func Ok(content string) Outcome {
	return Outcome{State: StateOK, Content: content}
}

// Unavailable marks an attempt that never reached a usable backend.
func Unavailable() Outcome {
	return Outcome{State: StateUnavailable}
}

// Failed marks a reachable backend that produced an unusable reply.
func Failed(err error) Outcome {
	return Outcome{State: StateFailed, Err: err}
}

// OK reports whether Content can be consumed.
func (o Outcome) OK() bool {
	return o.State == StateOK
}
