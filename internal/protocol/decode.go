package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrUnknownType = errors.New("unknown message type")
var ErrInvalidPayload = errors.New("invalid payload")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode turns one raw frame into a typed, validated inbound event.
func Decode(raw []byte) (Inbound, error) {
	var cm ClientMessage
	if err := json.Unmarshal(raw, &cm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var in Inbound
	switch cm.Type {
	case TypeCreateRoom:
		in = &CreateRoom{}
	case TypeJoinRoom:
		in = &JoinRoom{}
	case TypeStartGame:
		in = &StartGame{}
	case TypeDraw:
		// Stroke data is relayed as-is, so only its presence is checked.
		in = &Draw{Stroke: cm.Data}
	case TypeClearCanvas:
		in = &ClearCanvas{}
	case TypeGuess:
		in = &Guess{}
	case TypeSkipWord:
		in = &SkipWord{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cm.Type)
	}

	if _, isDraw := in.(*Draw); !isDraw && len(cm.Data) > 0 && string(cm.Data) != "null" {
		if err := json.Unmarshal(cm.Data, in); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, cm.Type, err)
		}
	}

	switch m := in.(type) {
	case *CreateRoom:
		m.PlayerName = strings.TrimSpace(m.PlayerName)
	case *JoinRoom:
		m.PlayerName = strings.TrimSpace(m.PlayerName)
		m.RoomCode = strings.ToUpper(strings.TrimSpace(m.RoomCode))
	}

	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, cm.Type, err)
	}
	return in, nil
}
