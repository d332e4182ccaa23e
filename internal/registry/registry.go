package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sketchparty-backend/internal/game"
	"github.com/DoyleJ11/sketchparty-backend/internal/room"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeSpaceExhausted = errors.New("no free room code")
	ErrClosed             = errors.New("registry closed")
)

const maxCodeAttempts = 64

type Msg interface{ isRegistryMsg() }

type CreateRoom struct {
	HostID   string
	HostName string
	Settings game.Settings
	Sink     room.Sink
	Reply    chan CreateResult
}

type CreateResult struct {
	Room *room.Room
	Err  error
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

// RemoveRoom drops Code only while it still points at Room.
type RemoveRoom struct {
	Code string
	Room *room.Room
}

type CountRooms struct {
	Reply chan int
}

type Shutdown struct{}

func (CreateRoom) isRegistryMsg() {}
func (GetRoom) isRegistryMsg()    {}
func (RemoveRoom) isRegistryMsg() {}
func (CountRooms) isRegistryMsg() {}
func (Shutdown) isRegistryMsg()   {}

type Options struct {
	Catalog      []string
	Timing       game.Timing
	TickInterval time.Duration
	Logger       *zap.Logger

	// GenerateCode defaults to the crypto/rand generator.
	GenerateCode func() (string, error)
}

type Registry struct {
	inbox  chan Msg
	rooms  map[string]*room.Room
	opts   Options
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, opts Options) *Registry {
	ctx, cancel := context.WithCancel(parent)
	if opts.GenerateCode == nil {
		opts.GenerateCode = GenerateCode
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timing == (game.Timing{}) {
		opts.Timing = game.DefaultTiming()
	}
	r := &Registry{
		inbox:  make(chan Msg, 64),
		rooms:  make(map[string]*room.Room),
		opts:   opts,
		log:    opts.Logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Registry) Inbox() chan<- Msg { return r.inbox }

func (r *Registry) Done() <-chan struct{} { return r.done }

func (r *Registry) send(ctx context.Context, msg Msg) error {
	select {
	case r.inbox <- msg:
		return nil
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Create opens a room under a fresh code with the host already seated.
// ctx only bounds the enqueue: once the request is queued the room may exist,
// so the caller always learns about it.
func (r *Registry) Create(ctx context.Context, hostID, hostName string, settings game.Settings, sink room.Sink) (*room.Room, error) {
	reply := make(chan CreateResult, 1)
	msg := CreateRoom{HostID: hostID, HostName: hostName, Settings: settings, Sink: sink, Reply: reply}
	if err := r.send(ctx, msg); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res.Room, res.Err
	case <-r.done:
		return nil, ErrClosed
	}
}

func (r *Registry) Lookup(ctx context.Context, code string) (*room.Room, error) {
	reply := make(chan *room.Room, 1)
	if err := r.send(ctx, GetRoom{Code: code, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case rm := <-reply:
		if rm == nil {
			return nil, fmt.Errorf("%s: %w", code, ErrRoomNotFound)
		}
		return rm, nil
	case <-r.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) Len(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	if err := r.send(ctx, CountRooms{Reply: reply}); err != nil {
		return 0, err
	}
	select {
	case n := <-reply:
		return n, nil
	case <-r.done:
		return 0, ErrClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Shutdown closes every live room and waits until each has stopped.
func (r *Registry) Shutdown(ctx context.Context) error {
	if err := r.send(ctx, Shutdown{}); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// roomClosed runs on the room goroutine. It must not block once the
// registry has stopped reading.
func (r *Registry) roomClosed(code string, rm *room.Room) {
	select {
	case r.inbox <- RemoveRoom{Code: code, Room: rm}:
	case <-r.ctx.Done():
	}
}

func (r *Registry) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			r.closeAll()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				rm, err := r.create(msg)
				msg.Reply <- CreateResult{Room: rm, Err: err}

			case GetRoom:
				msg.Reply <- r.rooms[msg.Code] // may be nil

			case RemoveRoom:
				if r.rooms[msg.Code] == msg.Room {
					delete(r.rooms, msg.Code)
					r.log.Info("room removed", zap.String("room", msg.Code), zap.Int("live", len(r.rooms)))
				}

			case CountRooms:
				msg.Reply <- len(r.rooms)

			case Shutdown:
				r.cancel()
				r.closeAll()
				return
			}
		}
	}
}

func (r *Registry) create(msg CreateRoom) (*room.Room, error) {
	code, err := r.freeCode()
	if err != nil {
		return nil, err
	}
	rm := room.New(r.ctx, room.Options{
		Code:         code,
		Settings:     msg.Settings,
		Timing:       r.opts.Timing,
		TickInterval: r.opts.TickInterval,
		Catalog:      r.opts.Catalog,
		Logger:       r.log,
		OnClose:      r.roomClosed,
	})
	// A fresh inbox is empty, so this cannot block.
	rm.Inbox() <- room.Open{ClientID: msg.HostID, Name: msg.HostName, Sink: msg.Sink}
	r.rooms[code] = rm
	r.log.Info("room created", zap.String("room", code), zap.Int("live", len(r.rooms)))
	return rm, nil
}

func (r *Registry) freeCode() (string, error) {
	for range maxCodeAttempts {
		code, err := r.opts.GenerateCode()
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := r.rooms[code]; !taken {
			return code, nil
		}
		r.log.Debug("room code collision, regenerating", zap.String("room", code))
	}
	return "", ErrCodeSpaceExhausted
}

func (r *Registry) closeAll() {
	for _, rm := range r.rooms {
		rm.Close()
	}
	for _, rm := range r.rooms {
		<-rm.Done()
	}
	clear(r.rooms)
}
