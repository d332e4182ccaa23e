package ws

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/DoyleJ11/sketchparty-backend/internal/game"
	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
	"github.com/DoyleJ11/sketchparty-backend/internal/registry"
	"github.com/DoyleJ11/sketchparty-backend/internal/room"
)

// session is one websocket connection. It is the room.Sink for its client
// and remembers at most one room.
type session struct {
	id      string
	reg     *registry.Registry
	out     chan protocol.Envelope
	limiter *rate.Limiter
	log     *zap.Logger // shared with the room goroutine via Send; never reassigned
	write   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	room *room.Room
}

// Send never blocks the room. A client that cannot keep up is dropped.
func (s *session) Send(env protocol.Envelope) bool {
	select {
	case s.out <- env:
		return true
	case <-s.ctx.Done():
		return false
	default:
		s.log.Warn("outbox full, closing connection")
		s.cancel()
		return false
	}
}

func (s *session) writeLoop(conn *websocket.Conn) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case env := <-s.out:
			ctx, cancel := context.WithTimeout(s.ctx, s.write)
			err := wsjson.Write(ctx, conn, env)
			cancel()
			if err != nil {
				s.log.Debug("write failed", zap.Error(err))
				s.cancel()
				return
			}
		}
	}
}

// keepalive pings the peer until the session ends. Pongs are only seen while
// the read loop is running, which it always is.
func (s *session) keepalive(conn *websocket.Conn, every, timeout time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(s.ctx, timeout)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				s.log.Debug("ping failed, closing connection", zap.Error(err))
				s.cancel()
				return
			}
		}
	}
}

func (s *session) handle(data []byte) {
	if !s.limiter.Allow() {
		s.log.Debug("rate limited")
		return
	}

	in, err := protocol.Decode(data)
	if err != nil {
		s.log.Debug("bad frame", zap.Error(err))
		s.fail("Invalid message")
		return
	}

	switch ev := in.(type) {
	case *protocol.CreateRoom:
		s.leave()
		settings := game.DefaultSettings().Apply(game.Overrides{
			TotalRounds:  ev.TotalRounds,
			TimePerTurn:  ev.TimePerTurn,
			Championship: ev.IsChampionship,
		})
		rm, err := s.reg.Create(s.ctx, s.id, ev.PlayerName, settings, s)
		if err != nil {
			s.log.Warn("create room failed", zap.Error(err))
			s.fail("Could not create room")
			return
		}
		s.room = rm
		s.log.Debug("entered room", zap.String("room", rm.Code()))

	case *protocol.JoinRoom:
		s.leave()
		rm, err := s.reg.Lookup(s.ctx, ev.RoomCode)
		if err != nil {
			s.fail("Room not found")
			return
		}
		if err := rm.Join(s.ctx, s.id, ev.PlayerName, ev.AsSpectator, s); err != nil {
			if msg, ok := game.PublicMessage(err); ok {
				s.fail(msg)
			} else if errors.Is(err, room.ErrClosed) {
				s.fail("Room not found")
			}
			return
		}
		s.room = rm
		s.log.Debug("entered room", zap.String("room", rm.Code()))

	default:
		if s.room == nil {
			return
		}
		if err := s.room.Send(s.ctx, room.FromClient{ClientID: s.id, Event: in}); err != nil {
			s.room = nil
		}
	}
}

// leave detaches from the current room. It must get through even after the
// connection context is gone.
func (s *session) leave() {
	if s.room == nil {
		return
	}
	_ = s.room.Send(context.Background(), room.Leave{ClientID: s.id})
	s.room = nil
}

func (s *session) fail(msg string) {
	s.Send(protocol.Envelope{Type: protocol.TypeErrorMessage, Data: protocol.ErrorMessage{Message: msg}})
}
