package ai

import (
	"context"

	"github.com/rs/zerolog"
)

// Gateway dispatches Completer calls onto a Runner so that a blocking
// network call never stalls the goroutine serving the request. A nil
// completer means no AI backend is configured; every call then reports
// Unavailable and callers take their deterministic path.
type Gateway struct {
	completer Completer
	runner    Runner
	log       zerolog.Logger
}

// NewGateway creates a gateway. completer may be nil when AI is disabled.
func NewGateway(completer Completer, runner Runner, log zerolog.Logger) *Gateway {
	return &Gateway{completer: completer, runner: runner, log: log}
}

// Enabled implements Service.
func (g *Gateway) Enabled() bool {
	return g != nil && g.completer != nil
}

// Complete implements Service. The call occupies one worker slot for its
// duration. If ctx is cancelled first, the in-flight call is not cancelled:
// it runs to completion on its worker and the result is discarded.
func (g *Gateway) Complete(ctx context.Context, req Request) Outcome {
	if !g.Enabled() {
		return Unavailable()
	}

	out := make(chan Outcome, 1)
	g.runner.Run(func() {
		out <- g.completer.Complete(context.Background(), req)
	})

	select {
	case o := <-out:
		if !o.OK() && o.Err != nil {
			g.log.Warn().Err(o.Err).Str("model", req.Model).Msg("AI completion failed")
		}
		return o
	case <-ctx.Done():
		g.log.Warn().Str("model", req.Model).Msg("caller gone before AI completion; result discarded")
		return Unavailable()
	}
}

var _ Service = (*Gateway)(nil)
