package relay

import (
	"encoding/json"

	"github.com/kvolkov/minerelay/internal/core"
	"github.com/rs/zerolog/log"
)

type pingPayload struct {
	Type string `json:"type"`
	Arg  string `json:"arg,omitempty"`
}

// handlePing echoes the optional argument back in the pong.
func (ctl *RoomWSController) handlePing(conn core.SignalConnection, data []byte) {
	var p pingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("bad ping payload")
		return
	}
	ctl.sendJSON(conn, pingPayload{Type: EvPong, Arg: p.Arg})
}
