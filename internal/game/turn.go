package game

import (
	"encoding/json"
	"slices"

	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
)

type endReason int

const (
	endTimeout endReason = iota
	endAllGuessed
	endSkipped
	endDrawerLeft
)

// StartTurn runs when the next-turn timer fires: advance the rotation, pick a
// word and arm the turn timers. Past the round budget the game finishes.
func (g *Game) StartTurn() Outcome {
	var o Outcome
	if g.state != StatePlaying || g.turnActive {
		return o
	}

	n := len(g.playerOrder)
	if n == 0 {
		g.finish(&o)
		return o
	}
	g.drawerIndex = (g.drawerIndex + 1) % n
	g.roundNumber++
	if g.roundNumber > g.settings.TotalRounds {
		g.finish(&o)
		return o
	}

	drawer, ok := g.resolveDrawer()
	if !ok {
		g.finish(&o)
		return o
	}
	word, ok := g.words.Next()
	if !ok {
		g.finish(&o)
		return o
	}

	g.drawerID = drawer.ID
	g.currentWord = word
	g.strokes = nil
	g.correct = g.correct[:0]
	g.hintsRevealed = 0
	g.elapsed = 0
	g.timeRemaining = g.settings.TimePerTurn
	g.turnActive = true

	g.broadcast(&o, protocol.TypeTurnStart, g.turnHeader(Mask(word, 0)))
	o.send(drawer.ID, protocol.TypeYourWord, protocol.YourWord{Word: word})
	o.TurnTimers = TimerStart
	return o
}

// resolveDrawer walks the rotation from drawerIndex, skipping ids that are no
// longer seated. It gives up after one full lap.
func (g *Game) resolveDrawer() (*Player, bool) {
	n := len(g.playerOrder)
	idx := g.drawerIndex
	for range n {
		if p, ok := g.roster.Player(g.playerOrder[idx]); ok {
			g.drawerIndex = idx
			return p, true
		}
		idx = (idx + 1) % n
	}
	return nil, false
}

// Tick is one countdown step.
func (g *Game) Tick() Outcome {
	var o Outcome
	if !g.turnActive {
		return o
	}
	g.timeRemaining = max(0, g.timeRemaining-1)
	g.broadcast(&o, protocol.TypeTimerUpdate, protocol.TimerUpdate{TimeRemaining: g.timeRemaining})
	if g.timeRemaining <= 0 {
		g.endTurn(&o, endTimeout)
	}
	return o
}

// HintTick is one step of the hint clock. When a new tier is due the masked
// word is pushed to every player still guessing.
func (g *Game) HintTick() Outcome {
	var o Outcome
	if !g.turnActive {
		return o
	}
	g.elapsed++
	due := DueTiers(g.currentWord, g.settings.TimePerTurn, g.elapsed)
	if due <= g.hintsRevealed {
		return o
	}
	g.hintsRevealed = due
	hint := protocol.HintUpdate{Hint: Mask(g.currentWord, due)}
	for _, id := range g.roster.PlayerIDs() {
		if id == g.drawerID || g.hasGuessed(id) {
			continue
		}
		o.send(id, protocol.TypeHintUpdate, hint)
	}
	return o
}

func (g *Game) Guess(id, text string) (Outcome, error) {
	var o Outcome
	if !g.turnActive {
		return o, ErrNoActiveTurn
	}
	p, ok := g.roster.Player(id)
	if !ok {
		return o, ErrNotAPlayer
	}
	if id == g.drawerID {
		return o, ErrIsDrawer
	}
	if g.hasGuessed(id) {
		return o, ErrAlreadyGuessed
	}
	if Normalize(text) == "" {
		return o, ErrEmptyGuess
	}

	switch Evaluate(text, g.currentWord) {
	case VerdictCorrect:
		g.award(&o, p)
	case VerdictClose:
		g.broadcast(&o, protocol.TypeChatMessage, protocol.ChatMessage{PlayerID: id, PlayerName: p.Name, Message: text, IsClose: true})
	default:
		g.broadcast(&o, protocol.TypeChatMessage, protocol.ChatMessage{PlayerID: id, PlayerName: p.Name, Message: text})
	}
	return o, nil
}

func (g *Game) award(o *Outcome, p *Player) {
	g.correct = append(g.correct, p.ID)
	ratio := TimeRatio(g.timeRemaining, g.settings.TimePerTurn)
	points := GuesserPoints(ratio, len(g.correct))
	drawerPoints := DrawerPoints(ratio)

	p.Score += points
	if drawer, ok := g.roster.Player(g.drawerID); ok {
		drawer.Score += drawerPoints
	}

	g.broadcast(o, protocol.TypeCorrectGuess, protocol.CorrectGuess{
		PlayerID:     p.ID,
		PlayerName:   p.Name,
		Points:       points,
		DrawerPoints: drawerPoints,
		Players:      g.roster.Standings(),
	})
	o.send(p.ID, protocol.TypeYouGuessedCorrectly, protocol.YouGuessedCorrectly{Word: g.currentWord})

	if g.allGuessed() {
		g.endTurn(o, endAllGuessed)
	}
}

func (g *Game) Draw(id string, stroke json.RawMessage) (Outcome, error) {
	var o Outcome
	if !g.turnActive || id != g.drawerID {
		return o, ErrNotDrawer
	}
	g.strokes = append(g.strokes, stroke)
	g.broadcastExcept(&o, id, protocol.TypeDraw, stroke)
	return o, nil
}

func (g *Game) ClearCanvas(id string) (Outcome, error) {
	var o Outcome
	if !g.turnActive || id != g.drawerID {
		return o, ErrNotDrawer
	}
	g.strokes = nil
	g.broadcastExcept(&o, id, protocol.TypeClearCanvas, nil)
	return o, nil
}

func (g *Game) Skip(id string) (Outcome, error) {
	var o Outcome
	if !g.turnActive || id != g.drawerID {
		return o, ErrNotDrawer
	}
	g.endTurn(&o, endSkipped)
	return o, nil
}

// endTurn reveals the word and schedules the next turn: the short gap when
// the outcome is decisive (all or nobody guessed), the long one otherwise.
func (g *Game) endTurn(o *Outcome, reason endReason) {
	// A skip or a departed drawer reveals the word as not guessed, whatever
	// was scored before it.
	wasGuessed := len(g.correct) > 0 && reason != endDrawerLeft && reason != endSkipped
	everyone := g.allGuessed()

	g.turnActive = false
	o.TurnTimers = TimerStop
	g.broadcast(o, protocol.TypeTurnEnd, protocol.TurnEnd{
		Word:        g.currentWord,
		WasGuessed:  wasGuessed,
		Players:     g.roster.Standings(),
		RoundNumber: g.roundNumber,
		TotalRounds: g.settings.TotalRounds,
	})

	if everyone || !wasGuessed {
		o.NextTurnIn = g.timing.DecisiveGap
	} else {
		o.NextTurnIn = g.timing.PartialGap
	}
}

// finish is terminal: timers are stopped, no further turn is scheduled.
func (g *Game) finish(o *Outcome) {
	if g.state == StateFinished {
		return
	}
	g.state = StateFinished
	g.turnActive = false
	o.TurnTimers = TimerStop
	o.CancelNextTurn = true
	o.NextTurnIn = 0

	var winner *protocol.PlayerView
	if p, ok := g.roster.Leader(); ok {
		v := g.roster.view(p)
		winner = &v
	}
	g.broadcast(o, protocol.TypeGameOver, protocol.GameOver{
		Players:        g.roster.Standings(),
		Winner:         winner,
		IsChampionship: g.settings.Championship,
	})
}

func (g *Game) hasGuessed(id string) bool { return slices.Contains(g.correct, id) }

// allGuessed is true when at least one non-drawer is seated and every one of
// them has guessed.
func (g *Game) allGuessed() bool {
	guessers := 0
	for _, id := range g.roster.PlayerIDs() {
		if id == g.drawerID {
			continue
		}
		guessers++
		if !g.hasGuessed(id) {
			return false
		}
	}
	return guessers > 0
}

func (g *Game) turnHeader(hint string) protocol.TurnStart {
	var drawer protocol.DrawerView
	if p, ok := g.roster.Player(g.drawerID); ok {
		drawer = protocol.DrawerView{ID: p.ID, Name: p.Name}
	}
	return protocol.TurnStart{
		Drawer:        drawer,
		Hint:          hint,
		RoundNumber:   g.roundNumber,
		TotalRounds:   g.settings.TotalRounds,
		TimeRemaining: g.timeRemaining,
		Players:       g.roster.Standings(),
	}
}
