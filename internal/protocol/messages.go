package protocol

import "encoding/json"

// Message types. Draw and ClearCanvas are used in both directions: the server
// relays them verbatim to everyone but the drawer.
const (
	TypeCreateRoom  = "create_room"
	TypeJoinRoom    = "join_room"
	TypeStartGame   = "start_game"
	TypeDraw        = "draw"
	TypeClearCanvas = "clear_canvas"
	TypeGuess       = "guess"
	TypeSkipWord    = "skip_word"

	TypeRoomCreated         = "room_created"
	TypeRoomJoined          = "room_joined"
	TypeJoinedAsSpectator   = "joined_as_spectator"
	TypePlayerJoined        = "player_joined"
	TypeSpectatorJoined     = "spectator_joined"
	TypeErrorMessage        = "error_message"
	TypeGameStarted         = "game_started"
	TypeTurnStart           = "turn_start"
	TypeYourWord            = "your_word"
	TypeTimerUpdate         = "timer_update"
	TypeHintUpdate          = "hint_update"
	TypeCorrectGuess        = "correct_guess"
	TypeYouGuessedCorrectly = "you_guessed_correctly"
	TypeChatMessage         = "chat_message"
	TypeTurnEnd             = "turn_end"
	TypeGameOver            = "game_over"
	TypePlayerLeft          = "player_left"
	TypeSpectatorLeft       = "spectator_left"
	TypeNewHost             = "new_host"
	TypeCanvasSync          = "canvas_sync"
)

// ClientMessage is the raw frame read off the socket before it is decoded
// into one of the typed inbound records.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Envelope is every frame the server writes.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Inbound is implemented by every decoded client event.
type Inbound interface{ isInbound() }

type CreateRoom struct {
	PlayerName     string `json:"playerName" validate:"required,max=24"`
	TotalRounds    *int   `json:"totalRounds,omitempty"`
	TimePerTurn    *int   `json:"timePerTurn,omitempty"`
	IsChampionship *bool  `json:"isChampionship,omitempty"`
}

type JoinRoom struct {
	RoomCode    string `json:"roomCode" validate:"required,len=4,alphanum"`
	PlayerName  string `json:"playerName" validate:"required,max=24"`
	AsSpectator bool   `json:"asSpectator,omitempty"`
}

type StartGame struct {
	TotalRounds    *int  `json:"totalRounds,omitempty"`
	TimePerTurn    *int  `json:"timePerTurn,omitempty"`
	IsChampionship *bool `json:"isChampionship,omitempty"`
}

// Draw carries an opaque stroke payload that is never inspected.
type Draw struct {
	Stroke json.RawMessage `validate:"required"`
}

type ClearCanvas struct{}

type Guess struct {
	Message string `json:"message" validate:"required,max=100"`
}

type SkipWord struct{}

func (*CreateRoom) isInbound()  {}
func (*JoinRoom) isInbound()    {}
func (*StartGame) isInbound()   {}
func (*Draw) isInbound()        {}
func (*ClearCanvas) isInbound() {}
func (*Guess) isInbound()       {}
func (*SkipWord) isInbound()    {}

type PlayerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsHost bool   `json:"isHost"`
}

type SpectatorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DrawerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoomCreated struct {
	Code           string       `json:"code"`
	Players        []PlayerView `json:"players"`
	IsChampionship bool         `json:"isChampionship"`
}

type RoomJoined struct {
	Code           string       `json:"code"`
	Players        []PlayerView `json:"players"`
	HostID         string       `json:"hostId"`
	State          string       `json:"state"`
	IsChampionship bool         `json:"isChampionship"`
}

type JoinedAsSpectator struct {
	Code           string          `json:"code"`
	Players        []PlayerView    `json:"players"`
	Spectators     []SpectatorView `json:"spectators"`
	State          string          `json:"state"`
	IsChampionship bool            `json:"isChampionship"`
}

type PlayerJoined struct {
	Name    string       `json:"name"`
	Players []PlayerView `json:"players"`
}

type SpectatorJoined struct {
	Name       string          `json:"name"`
	Spectators []SpectatorView `json:"spectators"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type GameStarted struct {
	Players     []PlayerView `json:"players"`
	TotalRounds int          `json:"totalRounds"`
	TimePerTurn int          `json:"timePerTurn"`
}

type TurnStart struct {
	Drawer        DrawerView   `json:"drawer"`
	Hint          string       `json:"hint"`
	RoundNumber   int          `json:"roundNumber"`
	TotalRounds   int          `json:"totalRounds"`
	TimeRemaining int          `json:"timeRemaining"`
	Players       []PlayerView `json:"players"`
}

type YourWord struct {
	Word string `json:"word"`
}

type TimerUpdate struct {
	TimeRemaining int `json:"timeRemaining"`
}

type HintUpdate struct {
	Hint string `json:"hint"`
}

type CorrectGuess struct {
	PlayerID     string       `json:"playerId"`
	PlayerName   string       `json:"playerName"`
	Points       int          `json:"points"`
	DrawerPoints int          `json:"drawerPoints"`
	Players      []PlayerView `json:"players"`
}

type YouGuessedCorrectly struct {
	Word string `json:"word"`
}

type ChatMessage struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	IsClose    bool   `json:"isClose"`
}

type TurnEnd struct {
	Word        string       `json:"word"`
	WasGuessed  bool         `json:"wasGuessed"`
	Players     []PlayerView `json:"players"`
	RoundNumber int          `json:"roundNumber"`
	TotalRounds int          `json:"totalRounds"`
}

type GameOver struct {
	Players        []PlayerView `json:"players"`
	Winner         *PlayerView  `json:"winner"`
	IsChampionship bool         `json:"isChampionship"`
}

type PlayerLeft struct {
	PlayerID string       `json:"playerId"`
	Name     string       `json:"name"`
	Players  []PlayerView `json:"players"`
}

type SpectatorLeft struct {
	Name       string          `json:"name"`
	Spectators []SpectatorView `json:"spectators"`
}

type NewHost struct {
	HostID  string       `json:"hostId"`
	Players []PlayerView `json:"players"`
}

type CanvasSync struct {
	Strokes []json.RawMessage `json:"strokes"`
}
