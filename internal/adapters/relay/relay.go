package relay

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kvolkov/minerelay/internal/app"
	"github.com/kvolkov/minerelay/internal/config"
	"github.com/kvolkov/minerelay/internal/core"
	"github.com/kvolkov/minerelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomWSController is the websocket endpoint of the relay. It owns the
// transport side of every connection (upgrade, pumps, close) and delegates
// all room and membership mutation to the lifecycle manager.
type RoomWSController struct {
	Life    *app.Lifecycle
	Cfg     *config.Config
	limiter *OpLimiter
}

func NewRoomWSController(life *app.Lifecycle, cfg *config.Config) *RoomWSController {
	return &RoomWSController{
		Life:    life,
		Cfg:     cfg,
		limiter: NewOpLimiter(cfg.RoomOps, cfg.RoomOpsWindow),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newSessionID mints the identity of one connection. Per connection, not per
// browser: two tabs sharing a cookie must never share membership, or closing
// one would ghost the other out of its room.
func newSessionID() core.SessionID {
	return core.SessionID(uuid.NewString())
}

func (ctl *RoomWSController) HandleWS(ctx context.Context, c *gin.Context) {
	sid := newSessionID()
	log.Info().Str("module", "relay").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	conn := newWsConn(ws, ctl.Cfg.SendBuffer)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}

func (ctl *RoomWSController) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *RoomWSController) sendToAll(members []core.MemberRef, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "relay").Msg("sendToAll marshal")
		return
	}
	for _, m := range members {
		_ = m.Session.Signal().TrySend(b)
	}
}

// publish fans a validated frame out to the sender's room. Frames from
// sessions that are in no room are dropped without feedback, per protocol.
func (ctl *RoomWSController) publish(sid core.SessionID, event string, frame core.Frame) {
	res, ok := ctl.Life.Publish(sid, frame)
	if !ok {
		log.Debug().Str("module", "relay").Str("sid", string(sid)).Str("event", event).Msg("frame from roomless session dropped")
		return
	}
	for _, kicked := range res.Kicked {
		ctl.evict(kicked, res.RoomID)
	}
}

// evict announces the departure of a kicked member and closes its transport.
// The later read-pump exit finds the membership already gone, which is fine:
// removal is idempotent.
func (ctl *RoomWSController) evict(m core.MemberRef, roomID domain.RoomID) {
	log.Warn().Str("module", "relay").Str("sid", string(m.SID)).Str("room", string(roomID)).Msg("evicting slow member")
	if members, ok := ctl.Life.Store.Members(roomID); ok {
		ctl.sendToAll(members, playerEvent{Type: EvPlayerLeft, Player: m.Session.Player().ID})
	}
	if closer, ok := m.Session.Signal().(interface{ Close() }); ok {
		closer.Close()
	}
}
