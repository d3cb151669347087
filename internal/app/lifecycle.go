package app

import (
	"github.com/kvolkov/minerelay/internal/core"
	"github.com/kvolkov/minerelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Lifecycle owns every mutation of the SessionStore: room creation, joins and
// disconnect cleanup all go through here. Controllers call in and perform the
// resulting sends themselves; nothing in this package touches a socket beyond
// TrySend during fan-out.
type Lifecycle struct {
	Store  *core.SessionStore
	Policy Policy
}

func NewLifecycle(store *core.SessionStore, policy Policy) *Lifecycle {
	return &Lifecycle{Store: store, Policy: policy}
}

// JoinOutcome reports how a create or join request was settled.
type JoinOutcome struct {
	RoomID  domain.RoomID
	Created bool             // a new room was made, caller is its founder
	Prior   []core.MemberRef // members present before the caller, join order
}

// CreateRoom creates roomID with sid as founder. When the id is already taken
// the request degrades to a plain join: the existing membership is kept and
// the caller is appended to it. Overwriting the room instead would orphan its
// members without notice.
func (l *Lifecycle) CreateRoom(roomID domain.RoomID, sid core.SessionID, sess core.MemberSession) (JoinOutcome, error) {
	err := l.Store.CreateRoom(roomID, sid, sess)
	switch err {
	case nil:
		return JoinOutcome{RoomID: roomID, Created: true}, nil
	case core.ErrRoomExists:
		log.Info().Str("module", "app.lifecycle").Str("sid", string(sid)).Str("room", string(roomID)).Msg("create for existing room, joining instead")
		return l.JoinRoom(roomID, sid, sess)
	default:
		return JoinOutcome{}, err
	}
}

// JoinRoom adds sid to an existing room. core.ErrRoomNotFound when the id is
// absent; the directory is left untouched in that case.
func (l *Lifecycle) JoinRoom(roomID domain.RoomID, sid core.SessionID, sess core.MemberSession) (JoinOutcome, error) {
	prior, err := l.Store.JoinRoom(roomID, sid, sess)
	if err != nil {
		return JoinOutcome{}, err
	}
	return JoinOutcome{RoomID: roomID, Prior: prior}, nil
}

// Disconnect removes sid from its room, tearing the room down when it was the
// last member. The remaining peers are returned so the caller can notify them.
// Safe to call for sessions that never joined anything.
func (l *Lifecycle) Disconnect(sid core.SessionID) (domain.RoomID, []core.MemberRef, bool) {
	return l.Store.Leave(sid)
}

// PublishResult reports fan-out delivery for one frame.
type PublishResult struct {
	RoomID  domain.RoomID
	SentTo  int
	Dropped []core.MemberRef
	Kicked  []core.MemberRef
}

// Publish fans data out to every other member of sid's room, oldest member
// first. A full or closed peer never blocks delivery to the rest. Slow peers
// go to the backpressure policy afterwards; members it kicks are removed from
// the store and reported back so the caller can announce their departure.
// ok=false means sid is in no room and the frame was dropped.
func (l *Lifecycle) Publish(sid core.SessionID, data core.Frame) (PublishResult, bool) {
	roomID, peers, ok := l.Store.Peers(sid)
	if !ok {
		return PublishResult{}, false
	}
	res := PublishResult{RoomID: roomID}
	for _, m := range peers {
		if err := m.Session.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.lifecycle").Str("from", string(sid)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("fan-out")

	if l.Policy == nil {
		return res, true
	}
	for _, slow := range res.Dropped {
		if l.Policy.OnBackPressure(slow) != KickMember {
			continue
		}
		if _, _, ok := l.Store.Leave(slow.SID); ok {
			res.Kicked = append(res.Kicked, slow)
			log.Warn().Str("module", "app.lifecycle").Str("sid", string(slow.SID)).Str("room", string(roomID)).Msg("kicked slow member")
		}
	}
	return res, true
}
