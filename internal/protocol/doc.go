// Package protocol holds the wire records exchanged with clients.
//
// Every frame is a JSON object {"type": string, "data": object}.
//
// Client -> Server
//
//	create_room:  playerName, totalRounds?, timePerTurn?, isChampionship?
//	join_room:    roomCode, playerName, asSpectator?
//	start_game:   totalRounds?, timePerTurn?, isChampionship?
//	draw:         opaque stroke payload
//	clear_canvas: {}
//	guess:        message
//	skip_word:    {}
//
// Server -> Client
//
//	room_created, room_joined, joined_as_spectator, player_joined,
//	spectator_joined, error_message, game_started, turn_start, your_word,
//	timer_update, hint_update, correct_guess, you_guessed_correctly,
//	chat_message, turn_end, game_over, player_left, spectator_left,
//	new_host, draw, clear_canvas, canvas_sync
//
// your_word, you_guessed_correctly, hint_update and error_message are
// addressed to single clients; the rest go to the whole room.
package protocol
