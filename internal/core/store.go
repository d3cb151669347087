package core

import (
	"errors"
	"sync"

	"github.com/kvolkov/minerelay/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrAlreadyJoined = errors.New("session already in a room")
)

// MemberRef is a read snapshot of one room member.
type MemberRef struct {
	SID     SessionID
	Session MemberSession
}

// RoomInfo is a read-only view for the rooms API.
type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}

// SessionStore holds the room directory and the membership index behind one
// mutex. Keeping both maps inside a single type means every mutation updates
// them together, so they can never drift apart.
//
// Member slices keep join order; the first entry is the room's founder.
// A room exists in the directory iff it has at least one member.
type SessionStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID][]MemberRef
	index map[SessionID]domain.RoomID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		rooms: make(map[domain.RoomID][]MemberRef),
		index: make(map[SessionID]domain.RoomID),
	}
}

// CreateRoom inserts a new room with founder as its only member.
func (s *SessionStore) CreateRoom(id domain.RoomID, sid SessionID, sess MemberSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[sid]; ok {
		return ErrAlreadyJoined
	}
	if _, ok := s.rooms[id]; ok {
		return ErrRoomExists
	}
	s.rooms[id] = []MemberRef{{SID: sid, Session: sess}}
	s.index[sid] = id
	log.Info().Str("module", "core.store").Str("sid", string(sid)).Str("room", string(id)).Msg("room created")
	return nil
}

// JoinRoom appends sid to the room and returns the members that were already
// present, in join order.
func (s *SessionStore) JoinRoom(id domain.RoomID, sid SessionID, sess MemberSession) ([]MemberRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[sid]; ok {
		return nil, ErrAlreadyJoined
	}
	members, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	prior := make([]MemberRef, len(members))
	copy(prior, members)
	s.rooms[id] = append(members, MemberRef{SID: sid, Session: sess})
	s.index[sid] = id
	log.Info().Str("module", "core.store").Str("sid", string(sid)).Str("room", string(id)).Msg("member joined")
	return prior, nil
}

// Leave removes sid from its room, deleting the room entry when the last
// member goes. Idempotent: a second call for the same session reports
// ok=false and changes nothing. The remaining snapshot never contains the
// departing session.
func (s *SessionStore) Leave(sid SessionID) (domain.RoomID, []MemberRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.index[sid]
	if !ok {
		return "", nil, false
	}
	delete(s.index, sid)

	members := s.rooms[id]
	kept := make([]MemberRef, 0, len(members))
	for _, m := range members {
		if m.SID != sid {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(s.rooms, id)
		log.Info().Str("module", "core.store").Str("room", string(id)).Msg("room torn down")
		return id, nil, true
	}
	s.rooms[id] = kept

	remaining := make([]MemberRef, len(kept))
	copy(remaining, kept)
	log.Info().Str("module", "core.store").Str("sid", string(sid)).Str("room", string(id)).Msg("member left")
	return id, remaining, true
}

// RoomOf is the membership index lookup: the room sid currently belongs to.
func (s *SessionStore) RoomOf(sid SessionID) (domain.RoomID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.index[sid]
	return id, ok
}

// Peers returns the other members of sid's room in join order.
func (s *SessionStore) Peers(sid SessionID) (domain.RoomID, []MemberRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.index[sid]
	if !ok {
		return "", nil, false
	}
	members := s.rooms[id]
	out := make([]MemberRef, 0, len(members)-1)
	for _, m := range members {
		if m.SID != sid {
			out = append(out, m)
		}
	}
	return id, out, true
}

// Members returns the current member snapshot of a room in join order.
func (s *SessionStore) Members(id domain.RoomID) ([]MemberRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	out := make([]MemberRef, len(members))
	copy(out, members)
	return out, true
}

func (s *SessionStore) List() []RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RoomInfo, 0, len(s.rooms))
	for id, members := range s.rooms {
		out = append(out, RoomInfo{ID: id, MemberCount: len(members)})
	}
	return out
}
