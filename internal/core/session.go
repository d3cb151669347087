package core

import "github.com/kvolkov/minerelay/internal/domain"

// Frame is one raw JSON event as read off the wire.
type Frame []byte

// SessionID identifies a live connection for the lifetime of the process.
type SessionID string

// SignalConnection is the send side of one client channel. The relay never
// owns it: the transport adapter opens and closes it, the relay only sends.
type SignalConnection interface {
	TrySend(Frame) error
}

// MemberSession binds a player identity to its transport endpoint.
// This is what rooms store and fan out to.
type MemberSession interface {
	Player() *domain.Player
	Signal() SignalConnection
}

type memberSession struct {
	player *domain.Player
	signal SignalConnection
}

func NewMemberSession(p *domain.Player, sc SignalConnection) MemberSession {
	return &memberSession{player: p, signal: sc}
}

func (m *memberSession) Player() *domain.Player   { return m.player }
func (m *memberSession) Signal() SignalConnection { return m.signal }
