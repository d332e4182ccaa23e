package game

import (
	"encoding/json"
	"math/rand"
	"slices"
	"time"

	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
)

type State string

const (
	StateLobby    State = "lobby"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

type Options struct {
	Code     string
	Settings Settings
	Timing   Timing
	Catalog  []string
	Rand     *rand.Rand
}

// Game is the state of one room. It is not safe for concurrent use; the room
// actor is its only caller.
type Game struct {
	code     string
	settings Settings
	timing   Timing
	state    State
	roster   *Roster
	words    *WordBank
	rng      *rand.Rand

	roundNumber   int
	playerOrder   []string
	drawerIndex   int
	drawerID      string
	currentWord   string
	correct       []string
	turnActive    bool
	timeRemaining int
	elapsed       int
	hintsRevealed int
	strokes       []json.RawMessage
}

func New(opts Options) *Game {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		code:        opts.Code,
		settings:    opts.Settings.Clamped(),
		timing:      opts.Timing,
		state:       StateLobby,
		roster:      NewRoster(),
		words:       NewWordBank(opts.Catalog, rng),
		rng:         rng,
		drawerIndex: -1,
	}
}

// Open seats the creator as first player and host.
func (g *Game) Open(hostID, hostName string) Outcome {
	var o Outcome
	g.roster.AddPlayer(hostID, hostName)
	o.send(hostID, protocol.TypeRoomCreated, protocol.RoomCreated{
		Code:           g.code,
		Players:        g.roster.Standings(),
		IsChampionship: g.settings.Championship,
	})
	return o
}

func (g *Game) Join(id, name string) (Outcome, error) {
	var o Outcome
	if g.roster.Contains(id) {
		return o, ErrAlreadyJoined
	}
	if g.state != StateLobby {
		return o, ErrGameInProgress
	}
	if g.roster.PlayerCount() >= MaxPlayers {
		return o, ErrRoomFull
	}

	g.roster.AddPlayer(id, name)
	players := g.roster.Standings()
	o.send(id, protocol.TypeRoomJoined, protocol.RoomJoined{
		Code:           g.code,
		Players:        players,
		HostID:         g.roster.Host(),
		State:          string(g.state),
		IsChampionship: g.settings.Championship,
	})
	g.broadcastExcept(&o, id, protocol.TypePlayerJoined, protocol.PlayerJoined{Name: name, Players: players})
	return o, nil
}

// JoinSpectator is allowed in any state. A spectator arriving mid-turn is
// caught up with the turn header and the strokes drawn so far.
func (g *Game) JoinSpectator(id, name string) (Outcome, error) {
	var o Outcome
	if g.roster.Contains(id) {
		return o, ErrAlreadyJoined
	}

	g.roster.AddSpectator(id, name)
	o.send(id, protocol.TypeJoinedAsSpectator, protocol.JoinedAsSpectator{
		Code:           g.code,
		Players:        g.roster.Standings(),
		Spectators:     g.roster.SpectatorViews(),
		State:          string(g.state),
		IsChampionship: g.settings.Championship,
	})
	g.broadcastExcept(&o, id, protocol.TypeSpectatorJoined, protocol.SpectatorJoined{
		Name:       name,
		Spectators: g.roster.SpectatorViews(),
	})

	if g.turnActive {
		o.send(id, protocol.TypeTurnStart, g.turnHeader(Mask(g.currentWord, g.hintsRevealed)))
		if len(g.strokes) > 0 {
			o.send(id, protocol.TypeCanvasSync, protocol.CanvasSync{Strokes: slices.Clone(g.strokes)})
		}
	}
	return o, nil
}

// Start moves the room from lobby to playing and arms the first turn.
func (g *Game) Start(requesterID string, ov Overrides) (Outcome, error) {
	var o Outcome
	if !g.roster.IsHost(requesterID) {
		return o, ErrNotHost
	}
	if g.state != StateLobby {
		return o, ErrAlreadyStarted
	}
	if g.roster.PlayerCount() < MinPlayersToStart {
		return o, ErrNotEnoughPlayers
	}

	g.settings = g.settings.Apply(ov)
	g.state = StatePlaying
	g.playerOrder = g.roster.PlayerIDs()
	g.rng.Shuffle(len(g.playerOrder), func(i, j int) {
		g.playerOrder[i], g.playerOrder[j] = g.playerOrder[j], g.playerOrder[i]
	})
	g.drawerIndex = -1
	g.roundNumber = 0
	g.words.Reset()

	g.broadcast(&o, protocol.TypeGameStarted, protocol.GameStarted{
		Players:     g.roster.Standings(),
		TotalRounds: g.settings.TotalRounds,
		TimePerTurn: g.settings.TimePerTurn,
	})
	o.NextTurnIn = g.timing.StartDelay
	return o, nil
}

// Leave handles a disconnect of a player or spectator.
func (g *Game) Leave(id string) Outcome {
	var o Outcome

	if s, ok := g.roster.RemoveSpectator(id); ok {
		if g.roster.Empty() {
			g.close(&o)
			return o
		}
		g.broadcast(&o, protocol.TypeSpectatorLeft, protocol.SpectatorLeft{
			Name:       s.Name,
			Spectators: g.roster.SpectatorViews(),
		})
		return o
	}

	wasHost := g.roster.IsHost(id)
	p, ok := g.roster.RemovePlayer(id)
	if !ok {
		return o
	}
	wasDrawer := g.turnActive && g.drawerID == id
	g.dropFromRotation(id)
	g.correct = slices.DeleteFunc(g.correct, func(c string) bool { return c == id })

	if g.roster.Empty() {
		g.close(&o)
		return o
	}

	g.broadcast(&o, protocol.TypePlayerLeft, protocol.PlayerLeft{
		PlayerID: id,
		Name:     p.Name,
		Players:  g.roster.Standings(),
	})

	if wasHost {
		if hostID, ok := g.roster.MigrateHost(); ok {
			g.broadcast(&o, protocol.TypeNewHost, protocol.NewHost{HostID: hostID, Players: g.roster.Standings()})
		}
	}

	if g.state != StatePlaying {
		return o
	}
	switch {
	case wasDrawer:
		g.endTurn(&o, endDrawerLeft)
	case g.turnActive && g.allGuessed():
		g.endTurn(&o, endAllGuessed)
	}
	if g.roster.PlayerCount() < MinPlayersToStart {
		g.finish(&o)
	}
	return o
}

// dropFromRotation removes id from the drawer order, keeping the index
// pointed so the next advance lands on the player after the current drawer.
func (g *Game) dropFromRotation(id string) {
	i := slices.Index(g.playerOrder, id)
	if i < 0 {
		return
	}
	g.playerOrder = slices.Delete(g.playerOrder, i, i+1)
	if i <= g.drawerIndex {
		g.drawerIndex--
	}
}

func (g *Game) close(o *Outcome) {
	g.turnActive = false
	o.TurnTimers = TimerStop
	o.CancelNextTurn = true
	o.NextTurnIn = 0
	o.Closed = true
}

func (g *Game) broadcast(o *Outcome, typ string, data any) {
	for _, id := range g.roster.Members() {
		o.send(id, typ, data)
	}
}

func (g *Game) broadcastExcept(o *Outcome, skip, typ string, data any) {
	for _, id := range g.roster.Members() {
		if id != skip {
			o.send(id, typ, data)
		}
	}
}

func (g *Game) Code() string          { return g.code }
func (g *Game) State() State          { return g.state }
func (g *Game) Settings() Settings    { return g.settings }
func (g *Game) Roster() *Roster       { return g.roster }
func (g *Game) RoundNumber() int      { return g.roundNumber }
func (g *Game) TurnActive() bool      { return g.turnActive }
func (g *Game) TimeRemaining() int    { return g.timeRemaining }
func (g *Game) HintsRevealed() int    { return g.hintsRevealed }
func (g *Game) CurrentWord() string   { return g.currentWord }
func (g *Game) PlayerOrder() []string { return slices.Clone(g.playerOrder) }
func (g *Game) CorrectGuessers() []string {
	return slices.Clone(g.correct)
}

// Drawer is the current (or, between turns, the last) drawer.
func (g *Game) Drawer() string { return g.drawerID }

// Summary is a read-only view used outside the room goroutine.
type Summary struct {
	Code           string                `json:"code"`
	State          State                 `json:"state"`
	Players        []protocol.PlayerView `json:"players"`
	Spectators     int                   `json:"spectators"`
	RoundNumber    int                   `json:"roundNumber"`
	TotalRounds    int                   `json:"totalRounds"`
	TimePerTurn    int                   `json:"timePerTurn"`
	TurnActive     bool                  `json:"turnActive"`
	IsChampionship bool                  `json:"isChampionship"`
}

func (g *Game) Summary() Summary {
	return Summary{
		Code:           g.code,
		State:          g.state,
		Players:        g.roster.Standings(),
		Spectators:     g.roster.SpectatorCount(),
		RoundNumber:    g.roundNumber,
		TotalRounds:    g.settings.TotalRounds,
		TimePerTurn:    g.settings.TimePerTurn,
		TurnActive:     g.turnActive,
		IsChampionship: g.settings.Championship,
	}
}
