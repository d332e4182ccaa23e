package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
)

func newTestSession(outbox int, limit rate.Limit, burst int) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:      "c1",
		out:     make(chan protocol.Envelope, outbox),
		limiter: rate.NewLimiter(limit, burst),
		log:     zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func TestSession_FullOutboxDropsClient(t *testing.T) {
	s := newTestSession(1, rate.Inf, 1)

	assert.True(t, s.Send(protocol.Envelope{Type: protocol.TypeTimerUpdate}))
	assert.False(t, s.Send(protocol.Envelope{Type: protocol.TypeTimerUpdate}))

	select {
	case <-s.ctx.Done():
	default:
		t.Fatal("session not cancelled after overflow")
	}
	assert.False(t, s.Send(protocol.Envelope{Type: protocol.TypeTimerUpdate}))
}

func TestSession_RateLimitedFramesAreDropped(t *testing.T) {
	s := newTestSession(8, rate.Limit(0.001), 1)

	// The first bad frame spends the only token and is answered; the second
	// is over the limit and never decoded.
	s.handle([]byte(`not json`))
	s.handle([]byte(`not json`))

	assert.Len(t, s.out, 1)
	env := <-s.out
	assert.Equal(t, protocol.TypeErrorMessage, env.Type)
}
