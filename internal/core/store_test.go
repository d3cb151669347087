package core

import (
	"errors"
	"testing"

	"github.com/kvolkov/minerelay/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(Frame) error { return nil }

func newSess(id string) MemberSession {
	return NewMemberSession(domain.NewPlayer(domain.PlayerID(id)), nopConn{})
}

func TestCreateRoom(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	room, ok := s.RoomOf("a")
	if !ok || room != "abc" {
		t.Fatalf("RoomOf(a) = %q, %v; want abc, true", room, ok)
	}
	members, ok := s.Members("abc")
	if !ok || len(members) != 1 || members[0].SID != "a" {
		t.Fatalf("Members(abc) = %v, %v", members, ok)
	}
}

func TestCreateRoomTakenID(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	err := s.CreateRoom("abc", "b", newSess("b"))
	if !errors.Is(err, ErrRoomExists) {
		t.Fatalf("second create err = %v, want ErrRoomExists", err)
	}
	// The existing room must be untouched.
	if members, _ := s.Members("abc"); len(members) != 1 || members[0].SID != "a" {
		t.Fatalf("room mutated by failed create: %v", members)
	}
}

func TestCreateWhileJoined(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := s.CreateRoom("other", "a", newSess("a")); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("create while joined err = %v, want ErrAlreadyJoined", err)
	}
	if _, err := s.JoinRoom("abc", "a", newSess("a")); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("rejoin err = %v, want ErrAlreadyJoined", err)
	}
}

func TestJoinOrder(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	prior, err := s.JoinRoom("abc", "b", newSess("b"))
	if err != nil {
		t.Fatalf("JoinRoom(b): %v", err)
	}
	if len(prior) != 1 || prior[0].SID != "a" {
		t.Fatalf("prior for b = %v, want [a]", prior)
	}
	prior, err = s.JoinRoom("abc", "c", newSess("c"))
	if err != nil {
		t.Fatalf("JoinRoom(c): %v", err)
	}
	if len(prior) != 2 || prior[0].SID != "a" || prior[1].SID != "b" {
		t.Fatalf("prior for c = %v, want [a b]", prior)
	}

	room, peers, ok := s.Peers("b")
	if !ok || room != "abc" {
		t.Fatalf("Peers(b) room = %q, %v", room, ok)
	}
	if len(peers) != 2 || peers[0].SID != "a" || peers[1].SID != "c" {
		t.Fatalf("peers of b = %v, want [a c] in join order", peers)
	}
}

func TestJoinMissingRoom(t *testing.T) {
	s := NewSessionStore()
	if _, err := s.JoinRoom("ghost", "a", newSess("a")); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	if _, ok := s.RoomOf("a"); ok {
		t.Fatal("failed join must not index the session")
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("failed join mutated directory: %v", got)
	}
}

func TestLeaveTeardown(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	room, remaining, ok := s.Leave("a")
	if !ok || room != "abc" || len(remaining) != 0 {
		t.Fatalf("Leave = %q, %v, %v", room, remaining, ok)
	}
	if _, err := s.JoinRoom("abc", "b", newSess("b")); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("join after teardown err = %v, want ErrRoomNotFound", err)
	}
}

func TestLeaveKeepsRoomJoinable(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, err := s.JoinRoom("abc", "b", newSess("b")); err != nil {
		t.Fatalf("JoinRoom(b): %v", err)
	}
	room, remaining, ok := s.Leave("b")
	if !ok || room != "abc" {
		t.Fatalf("Leave(b) = %q, %v", room, ok)
	}
	if len(remaining) != 1 || remaining[0].SID != "a" {
		t.Fatalf("remaining = %v, want [a]", remaining)
	}
	if _, err := s.JoinRoom("abc", "c", newSess("c")); err != nil {
		t.Fatalf("room must stay joinable: %v", err)
	}
}

func TestLeaveIdempotent(t *testing.T) {
	s := NewSessionStore()
	if err := s.CreateRoom("abc", "a", newSess("a")); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if _, _, ok := s.Leave("a"); !ok {
		t.Fatal("first leave must succeed")
	}
	if _, _, ok := s.Leave("a"); ok {
		t.Fatal("second leave must be a no-op")
	}
	if _, _, ok := s.Leave("never-joined"); ok {
		t.Fatal("leave of unknown session must be a no-op")
	}
}

// checkConsistent asserts the directory and the index describe the same world.
func checkConsistent(t *testing.T, s *SessionStore) {
	t.Helper()
	for _, info := range s.List() {
		if info.MemberCount == 0 {
			t.Fatalf("room %q has zero members", info.ID)
		}
		members, ok := s.Members(info.ID)
		if !ok {
			t.Fatalf("listed room %q not in directory", info.ID)
		}
		for _, m := range members {
			room, ok := s.RoomOf(m.SID)
			if !ok || room != info.ID {
				t.Fatalf("index maps %q to %q, directory has it in %q", m.SID, room, info.ID)
			}
		}
	}
}

func TestConsistencyAcrossLifecycle(t *testing.T) {
	s := NewSessionStore()
	ids := []string{"a", "b", "c", "d"}
	if err := s.CreateRoom("r1", "a", newSess("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRoom("r2", "b", newSess("b")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.JoinRoom("r1", "c", newSess("c")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.JoinRoom("r2", "d", newSess("d")); err != nil {
		t.Fatal(err)
	}
	checkConsistent(t, s)

	for _, id := range ids {
		s.Leave(SessionID(id))
		checkConsistent(t, s)
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("directory not empty after everyone left: %v", got)
	}
}
