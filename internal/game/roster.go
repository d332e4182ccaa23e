package game

import (
	"slices"

	"github.com/DoyleJ11/sketchparty-backend/internal/protocol"
)

type Player struct {
	ID    string
	Name  string
	Score int
}

type Spectator struct {
	ID   string
	Name string
}

// Roster keeps players in join order; that order is the iteration order used
// for host migration and winner tie-breaks.
type Roster struct {
	players    []*Player
	spectators []Spectator
	hostID     string
}

func NewRoster() *Roster {
	return &Roster{players: make([]*Player, 0, MaxPlayers)}
}

// AddPlayer appends a player. The first player ever added becomes host.
func (r *Roster) AddPlayer(id, name string) *Player {
	p := &Player{ID: id, Name: name}
	r.players = append(r.players, p)
	if r.hostID == "" {
		r.hostID = id
	}
	return p
}

func (r *Roster) AddSpectator(id, name string) {
	r.spectators = append(r.spectators, Spectator{ID: id, Name: name})
}

func (r *Roster) Player(id string) (*Player, bool) {
	for _, p := range r.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (r *Roster) IsSpectator(id string) bool {
	return slices.ContainsFunc(r.spectators, func(s Spectator) bool { return s.ID == id })
}

func (r *Roster) Contains(id string) bool {
	_, ok := r.Player(id)
	return ok || r.IsSpectator(id)
}

// RemovePlayer deletes the player. Removing the host leaves the room hostless
// until MigrateHost is called.
func (r *Roster) RemovePlayer(id string) (*Player, bool) {
	i := slices.IndexFunc(r.players, func(p *Player) bool { return p.ID == id })
	if i < 0 {
		return nil, false
	}
	p := r.players[i]
	r.players = slices.Delete(r.players, i, i+1)
	if r.hostID == id {
		r.hostID = ""
	}
	return p, true
}

func (r *Roster) RemoveSpectator(id string) (Spectator, bool) {
	i := slices.IndexFunc(r.spectators, func(s Spectator) bool { return s.ID == id })
	if i < 0 {
		return Spectator{}, false
	}
	s := r.spectators[i]
	r.spectators = slices.Delete(r.spectators, i, i+1)
	return s, true
}

// MigrateHost hands the host role to the first remaining player.
func (r *Roster) MigrateHost() (string, bool) {
	if len(r.players) == 0 {
		r.hostID = ""
		return "", false
	}
	r.hostID = r.players[0].ID
	return r.hostID, true
}

func (r *Roster) Host() string { return r.hostID }

func (r *Roster) IsHost(id string) bool { return id != "" && r.hostID == id }

func (r *Roster) Players() []*Player { return slices.Clone(r.players) }

func (r *Roster) PlayerIDs() []string {
	ids := make([]string, len(r.players))
	for i, p := range r.players {
		ids[i] = p.ID
	}
	return ids
}

func (r *Roster) PlayerCount() int { return len(r.players) }

func (r *Roster) SpectatorCount() int { return len(r.spectators) }

func (r *Roster) Empty() bool { return len(r.players) == 0 && len(r.spectators) == 0 }

// Members lists every id that receives room broadcasts.
func (r *Roster) Members() []string {
	ids := r.PlayerIDs()
	for _, s := range r.spectators {
		ids = append(ids, s.ID)
	}
	return ids
}

// Leader returns the highest scorer; ties go to whoever joined first.
func (r *Roster) Leader() (*Player, bool) {
	var best *Player
	for _, p := range r.players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best, best != nil
}

func (r *Roster) Standings() []protocol.PlayerView {
	out := make([]protocol.PlayerView, len(r.players))
	for i, p := range r.players {
		out[i] = r.view(p)
	}
	return out
}

func (r *Roster) SpectatorViews() []protocol.SpectatorView {
	out := make([]protocol.SpectatorView, len(r.spectators))
	for i, s := range r.spectators {
		out[i] = protocol.SpectatorView{ID: s.ID, Name: s.Name}
	}
	return out
}

func (r *Roster) view(p *Player) protocol.PlayerView {
	return protocol.PlayerView{ID: p.ID, Name: p.Name, Score: p.Score, IsHost: p.ID == r.hostID}
}
