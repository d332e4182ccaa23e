package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
	"github.com/DoyleJ11/sketchparty-backend/internal/registry"
)

type Options struct {
	Rate       rate.Limit
	Burst      int
	OutboxSize int

	// Reads carry no deadline: spectators and idle guessers may send nothing
	// for a whole game. A peer counts as gone once a ping every PingInterval
	// goes unanswered for PingTimeout.
	PingInterval time.Duration
	PingTimeout  time.Duration
	WriteTimeout time.Duration

	OriginPatterns []string
	Logger         *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Rate <= 0 {
		o.Rate = 20
	}
	if o.Burst <= 0 {
		o.Burst = 40
	}
	if o.OutboxSize <= 0 {
		o.OutboxSize = 256
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 3 * time.Second
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func Handler(reg *registry.Registry, opts Options) http.HandlerFunc {
	opts = opts.withDefaults()

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			opts.Logger.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		id := uuid.NewString()
		s := &session{
			id:      id,
			reg:     reg,
			out:     make(chan protocol.Envelope, opts.OutboxSize),
			limiter: rate.NewLimiter(opts.Rate, opts.Burst),
			log:     opts.Logger.With(zap.String("client", id)),
			write:   opts.WriteTimeout,
			ctx:     ctx,
			cancel:  cancel,
		}
		// Disconnect is a leave.
		defer s.leave()

		go s.writeLoop(conn)
		go s.keepalive(conn, opts.PingInterval, opts.PingTimeout)

		s.log.Debug("client connected")
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					s.log.Debug("client disconnected")
				default:
					s.log.Debug("read ended", zap.Error(err))
				}
				return
			}
			s.handle(data)
		}
	}
}
