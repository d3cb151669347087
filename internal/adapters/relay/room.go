package relay

import (
	"encoding/json"
	"errors"

	"github.com/kvolkov/minerelay/internal/app"
	"github.com/kvolkov/minerelay/internal/core"
	"github.com/kvolkov/minerelay/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomPayload struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

func (ctl *RoomWSController) createRoom(sid core.SessionID, conn core.SignalConnection, data []byte) {
	roomID, ok := ctl.roomRequest(sid, "createRoom", data)
	if !ok {
		return
	}

	sess := core.NewMemberSession(domain.NewPlayer(domain.PlayerID(sid)), conn)
	out, err := ctl.Life.CreateRoom(roomID, sid, sess)
	if err != nil {
		// Already in a room: out-of-state request, absorbed.
		log.Debug().Err(err).Str("module", "relay").Str("sid", string(sid)).Msg("createRoom dropped")
		return
	}
	if out.Created {
		// The founder starts from a clean board.
		ctl.sendJSON(conn, typeOnly{Type: EvReset})
		return
	}
	// Room id was taken; the request degraded to a join.
	ctl.announceJoin(sid, conn, out)
}

func (ctl *RoomWSController) joinRoom(sid core.SessionID, conn core.SignalConnection, data []byte) {
	roomID, ok := ctl.roomRequest(sid, "joinRoom", data)
	if !ok {
		return
	}

	sess := core.NewMemberSession(domain.NewPlayer(domain.PlayerID(sid)), conn)
	out, err := ctl.Life.JoinRoom(roomID, sid, sess)
	if errors.Is(err, core.ErrRoomNotFound) {
		log.Info().Str("module", "relay").Str("sid", string(sid)).Str("room", string(roomID)).Msg("join to missing room")
		ctl.sendJSON(conn, typeOnly{Type: EvJoinError})
		return
	}
	if err != nil {
		log.Debug().Err(err).Str("module", "relay").Str("sid", string(sid)).Msg("joinRoom dropped")
		return
	}
	ctl.announceJoin(sid, conn, out)
}

// roomRequest decodes and rate-limits a create/join request. Malformed
// requests are absorbed, not answered.
func (ctl *RoomWSController) roomRequest(sid core.SessionID, op string, data []byte) (domain.RoomID, bool) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "relay").Msgf("bad %s payload", op)
		return "", false
	}
	roomID, err := domain.ParseRoomID(p.Room)
	if err != nil {
		log.Warn().Err(err).Str("module", "relay").Str("sid", string(sid)).Msgf("bad %s room id", op)
		return "", false
	}
	if !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "relay").Str("sid", string(sid)).Msgf("%s rate limited", op)
		return "", false
	}
	return roomID, true
}

// announceJoin replays current presence to the newcomer (one playerJoined per
// pre-existing member, join order), then announces the newcomer to exactly
// those members. Both directions use the snapshot taken by the store mutation:
// re-reading the room here could overlap with a concurrent join and deliver a
// duplicate playerJoined.
func (ctl *RoomWSController) announceJoin(sid core.SessionID, conn core.SignalConnection, out app.JoinOutcome) {
	for _, m := range out.Prior {
		ctl.sendJSON(conn, playerEvent{Type: EvPlayerJoined, Player: m.Session.Player().ID})
	}
	ctl.sendToAll(out.Prior, playerEvent{Type: EvPlayerJoined, Player: domain.PlayerID(sid)})
}

// disconnect unwinds membership after the read loop exits. Remaining peers
// get exactly one playerLeft; the departing connection gets nothing.
func (ctl *RoomWSController) disconnect(sid core.SessionID) {
	ctl.limiter.Forget(sid)
	roomID, remaining, ok := ctl.Life.Disconnect(sid)
	if !ok {
		return
	}
	if len(remaining) == 0 {
		log.Info().Str("module", "relay").Str("room", string(roomID)).Msg("last member gone")
		return
	}
	ctl.sendToAll(remaining, playerEvent{Type: EvPlayerLeft, Player: domain.PlayerID(sid)})
}

// relayEvent forwards a room-scoped frame byte-for-byte after schema checks,
// preserving payload shape and field order for the peers.
func (ctl *RoomWSController) relayEvent(sid core.SessionID, event string, data []byte) {
	if err := checkPayload(event, data); err != nil {
		log.Debug().Err(err).Str("module", "relay").Str("sid", string(sid)).Msg("invalid payload dropped")
		return
	}
	ctl.publish(sid, event, core.Frame(data))
}

// pointerMove is re-encoded instead of forwarded raw: peers need the sender's
// id to attribute the cursor.
func (ctl *RoomWSController) pointerMove(sid core.SessionID, data []byte) {
	var p pointerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Debug().Err(err).Str("module", "relay").Str("sid", string(sid)).Msg("bad pointerMove payload")
		return
	}
	if err := validate.Struct(&p); err != nil {
		log.Debug().Err(err).Str("module", "relay").Str("sid", string(sid)).Msg("invalid pointerMove dropped")
		return
	}
	b, err := json.Marshal(pointerBroadcast{
		Type:   EvPointerMove,
		Player: domain.PlayerID(sid),
		Cursor: *p.Cursor,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("pointerMove marshal")
		return
	}
	ctl.publish(sid, EvPointerMove, b)
}
