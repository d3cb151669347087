package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kvolkov/minerelay/internal/core"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *RoomWSController) writePump(ctx context.Context, c *WsConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "relay").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "relay").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "relay").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "relay").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *RoomWSController) readPump(ctx context.Context, cancel context.CancelFunc, sid core.SessionID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "relay").Str("sid", string(sid)).Msg("readPump closing")
		ctl.disconnect(sid)
		cancel()
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.Cfg.ReadLimit)
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "relay").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "relay").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleEvent(sid, c, data)
		}
	}
}

// handleEvent routes one inbound frame. Create/join mutate membership, the
// room-scoped set is validated and fanned out, everything else is dropped.
func (ctl *RoomWSController) handleEvent(sid core.SessionID, c core.SignalConnection, data []byte) {
	var env typeOnly
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("bad json")
		return
	}

	switch env.Type {
	case EvCreateRoom:
		ctl.createRoom(sid, c, data)
	case EvJoinRoom:
		ctl.joinRoom(sid, c, data)
	case EvPing:
		ctl.handlePing(c, data)
	case EvPointerMove:
		ctl.pointerMove(sid, data)
	case EvReset, EvHistoryBack, EvHistoryForward,
		EvBot, EvHighlight, EvSettingsChanged,
		EvClick, EvFlag, EvSync:
		ctl.relayEvent(sid, env.Type, data)
	default:
		log.Warn().Str("module", "relay").Str("type", env.Type).Msg("unknown event")
	}
}
