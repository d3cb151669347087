package relay

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kvolkov/minerelay/internal/domain"
)

// Event names on the wire, matching the client vocabulary one to one.
const (
	EvCreateRoom      = "createRoom"
	EvJoinRoom        = "joinRoom"
	EvJoinError       = "joinError"
	EvPlayerJoined    = "playerJoined"
	EvPlayerLeft      = "playerLeft"
	EvPing            = "ping"
	EvPong            = "pong"
	EvReset           = "reset"
	EvHistoryBack     = "historyBack"
	EvHistoryForward  = "historyForward"
	EvBot             = "bot"
	EvHighlight       = "highlight"
	EvSettingsChanged = "settingsChanged"
	EvClick           = "click"
	EvFlag            = "flag"
	EvPointerMove     = "pointerMove"
	EvSync            = "sync"
)

var validate = validator.New()

type togglePayload struct {
	Active *bool `json:"active" validate:"required"`
}

type cellPayload struct {
	Row *int `json:"row" validate:"required,gte=0"`
	Col *int `json:"col" validate:"required,gte=0"`
}

type settingsPayload struct {
	Settings *domain.GameSettings `json:"settings" validate:"required"`
}

type pointerPayload struct {
	Cursor *domain.PlayerCursor `json:"cursor" validate:"required"`
}

// typeOnly is the bare envelope for events that carry no payload.
type typeOnly struct {
	Type string `json:"type"`
}

// playerEvent announces presence changes to room members.
type playerEvent struct {
	Type   string          `json:"type"`
	Player domain.PlayerID `json:"player"`
}

// pointerBroadcast is the one re-encoded event: the sender's id is prefixed
// so recipients can attribute the cursor to a peer.
type pointerBroadcast struct {
	Type   string              `json:"type"`
	Player domain.PlayerID     `json:"player"`
	Cursor domain.PlayerCursor `json:"cursor"`
}

// checkPayload validates the shape of a room-scoped event before it is
// forwarded. Payloads stay opaque beyond this check; the relay never acts on
// their contents.
func checkPayload(event string, data []byte) error {
	var dst any
	switch event {
	case EvReset, EvHistoryBack, EvHistoryForward:
		return nil
	case EvBot, EvHighlight:
		dst = &togglePayload{}
	case EvClick, EvFlag:
		dst = &cellPayload{}
	case EvSettingsChanged:
		dst = &settingsPayload{}
	case EvPointerMove:
		dst = &pointerPayload{}
	case EvSync:
		dst = &domain.SyncState{}
	default:
		return fmt.Errorf("unknown event %q", event)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", event, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate %s: %w", event, err)
	}
	return nil
}
