package app

import "github.com/kvolkov/minerelay/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a member whose send queue is full.
type Policy interface {
	OnBackPressure(member core.MemberRef) BackpressureAction
}

// EvictPolicy removes slow members so one stalled reader cannot hold the
// rest of the room hostage.
type EvictPolicy struct{}

func (EvictPolicy) OnBackPressure(core.MemberRef) BackpressureAction {
	return KickMember
}
