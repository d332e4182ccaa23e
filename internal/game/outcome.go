package game

import (
	"time"

	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
)

// Delivery addresses one frame to one client id.
type Delivery struct {
	To  string
	Msg protocol.Envelope
}

type TimerOp int

const (
	TimerKeep TimerOp = iota
	TimerStart
	TimerStop
)

// Outcome is everything the room has to carry out after a game call: frames
// to send and what to do with its timers.
type Outcome struct {
	Deliveries []Delivery

	// TurnTimers starts or stops the countdown and hint tickers together.
	TurnTimers TimerOp

	// NextTurnIn arms the one-shot next-turn timer when > 0.
	NextTurnIn     time.Duration
	CancelNextTurn bool

	// Closed means the room has nobody left and must be torn down.
	Closed bool
}

func (o *Outcome) send(to, typ string, data any) {
	o.Deliveries = append(o.Deliveries, Delivery{To: to, Msg: protocol.Envelope{Type: typ, Data: data}})
}

// For returns the frames addressed to id, in order.
func (o Outcome) For(id string) []protocol.Envelope {
	var out []protocol.Envelope
	for _, d := range o.Deliveries {
		if d.To == id {
			out = append(out, d.Msg)
		}
	}
	return out
}

// Find returns the first frame of type typ addressed to id.
func (o Outcome) Find(id, typ string) (protocol.Envelope, bool) {
	for _, env := range o.For(id) {
		if env.Type == typ {
			return env, true
		}
	}
	return protocol.Envelope{}, false
}
