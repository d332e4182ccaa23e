package room

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/sketchparty-backend/internal/game"
	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
)

var ErrClosed = errors.New("room closed")

// Sink is where a client wants to receive frames. Send must not block.
type Sink interface {
	Send(env protocol.Envelope) bool
}

type Msg interface{ isRoomMsg() }

// Open seats the creator. It is the first message every room receives.
type Open struct {
	ClientID string
	Name     string
	Sink     Sink
}

type Join struct {
	ClientID  string
	Name      string
	Spectator bool
	Sink      Sink
	Reply     chan error
}

type Leave struct{ ClientID string }

type FromClient struct {
	ClientID string
	Event    protocol.Inbound
}

type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (Open) isRoomMsg()       {}
func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (FromClient) isRoomMsg() {}
func (GetState) isRoomMsg()   {}
func (Shutdown) isRoomMsg()   {}

type View struct {
	Summary         game.Summary
	NumClients      int
	TurnTimersLive  bool
	NextTurnPending bool
}

type Options struct {
	Code         string
	Settings     game.Settings
	Timing       game.Timing
	TickInterval time.Duration
	Catalog      []string
	Rand         *rand.Rand
	Logger       *zap.Logger

	// OnClose runs on the room goroutine once the last member has left.
	OnClose func(code string, r *Room)
}

// Room is the actor that owns one game. Client events, countdown ticks, hint
// ticks and the next-turn timer are all handled on its single goroutine.
type Room struct {
	code    string
	inbox   chan Msg
	game    *game.Game
	sinks   map[string]Sink
	tick    time.Duration
	log     *zap.Logger
	onClose func(string, *Room)

	countdown  *time.Ticker
	hints      *time.Ticker
	nextTurn   *time.Timer
	countdownC <-chan time.Time
	hintC      <-chan time.Time
	nextTurnC  <-chan time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, opts Options) *Room {
	ctx, cancel := context.WithCancel(parent)

	tick := opts.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := &Room{
		code:  opts.Code,
		inbox: make(chan Msg, 64),
		game: game.New(game.Options{
			Code:     opts.Code,
			Settings: opts.Settings,
			Timing:   opts.Timing,
			Catalog:  opts.Catalog,
			Rand:     opts.Rand,
		}),
		sinks:   make(map[string]Sink),
		tick:    tick,
		log:     log.With(zap.String("room", opts.Code)),
		onClose: opts.OnClose,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go r.loop()
	return r
}

// Inbox exposes the mailbox so the registry, the socket layer and tests can
// post messages directly.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

// Done is closed once the room goroutine has exited.
func (r *Room) Done() <-chan struct{} { return r.done }

// Close tears the room down without notifying OnClose.
func (r *Room) Close() { r.cancel() }

// Send posts msg unless the room is gone or ctx ends first.
func (r *Room) Send(ctx context.Context, msg Msg) error {
	select {
	case r.inbox <- msg:
		return nil
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join seats a client and waits for the verdict. ctx only bounds the
// enqueue: a queued join is always answered, so a nil error means seated.
func (r *Room) Join(ctx context.Context, clientID, name string, spectator bool, sink Sink) error {
	reply := make(chan error, 1)
	if err := r.Send(ctx, Join{ClientID: clientID, Name: name, Spectator: spectator, Sink: sink, Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-r.done:
		return ErrClosed
	}
}

func (r *Room) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := r.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-r.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (r *Room) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			r.teardown()
			return

		case m := <-r.inbox:
			if closed := r.handle(m); closed {
				return
			}

		case <-r.countdownC:
			if r.apply(r.game.Tick()) {
				return
			}

		case <-r.hintC:
			if r.apply(r.game.HintTick()) {
				return
			}

		case <-r.nextTurnC:
			r.nextTurn, r.nextTurnC = nil, nil
			if r.apply(r.game.StartTurn()) {
				return
			}
		}
	}
}

// handle reports whether the room has shut down.
func (r *Room) handle(m Msg) bool {
	switch msg := m.(type) {
	case Open:
		r.sinks[msg.ClientID] = msg.Sink
		r.log.Info("room opened", zap.String("host", msg.ClientID))
		return r.apply(r.game.Open(msg.ClientID, msg.Name))

	case Join:
		var (
			o   game.Outcome
			err error
		)
		if msg.Spectator {
			o, err = r.game.JoinSpectator(msg.ClientID, msg.Name)
		} else {
			o, err = r.game.Join(msg.ClientID, msg.Name)
		}
		if err != nil {
			r.log.Debug("join refused", zap.String("client", msg.ClientID), zap.Error(err))
			msg.Reply <- err
			return false
		}
		r.sinks[msg.ClientID] = msg.Sink
		closed := r.apply(o)
		msg.Reply <- nil
		return closed

	case Leave:
		if _, ok := r.sinks[msg.ClientID]; !ok {
			return false
		}
		delete(r.sinks, msg.ClientID)
		r.log.Info("client left", zap.String("client", msg.ClientID))
		return r.apply(r.game.Leave(msg.ClientID))

	case FromClient:
		if _, ok := r.sinks[msg.ClientID]; !ok {
			return false
		}
		o, err := r.dispatch(msg)
		if err != nil {
			r.reject(msg.ClientID, err)
			return false
		}
		return r.apply(o)

	case GetState:
		msg.Reply <- View{
			Summary:         r.game.Summary(),
			NumClients:      len(r.sinks),
			TurnTimersLive:  r.countdown != nil || r.hints != nil,
			NextTurnPending: r.nextTurn != nil,
		}
		return false

	case Shutdown:
		r.teardown()
		if r.onClose != nil {
			r.onClose(r.code, r)
		}
		return true
	}
	return false
}

func (r *Room) dispatch(msg FromClient) (game.Outcome, error) {
	id := msg.ClientID
	switch ev := msg.Event.(type) {
	case *protocol.StartGame:
		return r.game.Start(id, game.Overrides{
			TotalRounds:  ev.TotalRounds,
			TimePerTurn:  ev.TimePerTurn,
			Championship: ev.IsChampionship,
		})
	case *protocol.Draw:
		return r.game.Draw(id, ev.Stroke)
	case *protocol.ClearCanvas:
		return r.game.ClearCanvas(id)
	case *protocol.Guess:
		return r.game.Guess(id, ev.Message)
	case *protocol.SkipWord:
		return r.game.Skip(id)
	default:
		return game.Outcome{}, nil
	}
}

// reject tells the client about mistakes it can fix and drops the rest.
func (r *Room) reject(clientID string, err error) {
	text, public := game.PublicMessage(err)
	if !public {
		r.log.Debug("ignored command", zap.String("client", clientID), zap.Error(err))
		return
	}
	if sink, ok := r.sinks[clientID]; ok {
		sink.Send(protocol.Envelope{Type: protocol.TypeErrorMessage, Data: protocol.ErrorMessage{Message: text}})
	}
}

// apply carries out an Outcome and reports whether the room closed.
func (r *Room) apply(o game.Outcome) bool {
	for _, d := range o.Deliveries {
		sink, ok := r.sinks[d.To]
		if !ok {
			continue
		}
		if !sink.Send(d.Msg) {
			r.log.Warn("delivery dropped", zap.String("client", d.To), zap.String("type", d.Msg.Type))
		}
	}

	switch o.TurnTimers {
	case game.TimerStart:
		r.startTurnTimers()
	case game.TimerStop:
		r.stopTurnTimers()
	}
	if o.CancelNextTurn {
		r.stopNextTurn()
	}
	if o.NextTurnIn > 0 {
		r.armNextTurn(o.NextTurnIn)
	}

	if o.Closed {
		r.log.Info("room empty, closing")
		r.teardown()
		if r.onClose != nil {
			r.onClose(r.code, r)
		}
		return true
	}
	return false
}

func (r *Room) startTurnTimers() {
	r.stopTurnTimers()
	r.countdown = time.NewTicker(r.tick)
	r.hints = time.NewTicker(r.tick)
	r.countdownC = r.countdown.C
	r.hintC = r.hints.C
}

// stopTurnTimers also nils the channels so a tick that was already buffered
// can never reach the game.
func (r *Room) stopTurnTimers() {
	if r.countdown != nil {
		r.countdown.Stop()
	}
	if r.hints != nil {
		r.hints.Stop()
	}
	r.countdown, r.hints = nil, nil
	r.countdownC, r.hintC = nil, nil
}

func (r *Room) armNextTurn(d time.Duration) {
	r.stopNextTurn()
	r.nextTurn = time.NewTimer(d)
	r.nextTurnC = r.nextTurn.C
}

func (r *Room) stopNextTurn() {
	if r.nextTurn != nil {
		r.nextTurn.Stop()
	}
	r.nextTurn, r.nextTurnC = nil, nil
}

// teardown cancels countdown, hint and next-turn timers in one step.
func (r *Room) teardown() {
	r.stopTurnTimers()
	r.stopNextTurn()
	clear(r.sinks)
	r.cancel()
}
