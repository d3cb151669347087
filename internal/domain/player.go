// Package domain contains the relay's entities and wire value types, no logic.
package domain

// PlayerID is the process-unique identity of one connected client. It is the
// id peers see in playerJoined/playerLeft/pointerMove events.
type PlayerID string

type Player struct {
	ID PlayerID `json:"id"`
}

// NewPlayer avoids raw struct literals in adapters and keeps construction obvious.
func NewPlayer(id PlayerID) *Player {
	return &Player{ID: id}
}
