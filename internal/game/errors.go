package game

import "errors"

// Surfaced to the requester as error_message.
var ErrGameInProgress = errors.New("game already in progress")
var ErrRoomFull = errors.New("room is full")
var ErrNotEnoughPlayers = errors.New("not enough players")

// Dropped without telling the client.
var ErrNotHost = errors.New("not the host")
var ErrAlreadyStarted = errors.New("game already started")
var ErrAlreadyJoined = errors.New("already in room")
var ErrNotDrawer = errors.New("not the drawer")
var ErrNoActiveTurn = errors.New("no active turn")
var ErrIsDrawer = errors.New("drawer cannot guess")
var ErrAlreadyGuessed = errors.New("already guessed")
var ErrNotAPlayer = errors.New("not a player")
var ErrEmptyGuess = errors.New("empty guess")

var publicMessages = map[error]string{
	ErrGameInProgress:   "Game already in progress",
	ErrRoomFull:         "Room is full",
	ErrNotEnoughPlayers: "Need at least 2 players to start the game",
}

// PublicMessage returns the text shown to a client for err, or false when the
// error should be dropped silently.
func PublicMessage(err error) (string, bool) {
	for target, msg := range publicMessages {
		if errors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}
