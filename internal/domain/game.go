package domain

import "encoding/json"

// GameSettings mirrors the field configuration clients exchange. The relay
// checks shape only and never interprets the values.
type GameSettings struct {
	NRows      int   `json:"nRows" validate:"gte=1"`
	NCols      int   `json:"nCols" validate:"gte=1"`
	NMines     int   `json:"nMines" validate:"gte=0"`
	RandomSeed int64 `json:"randomSeed"`
}

// PlayerCursor is a pointer position in client-side coordinates.
type PlayerCursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SyncState is the full-session snapshot used for late-join recovery.
// History entries stay opaque; the relay forwards them without decoding.
type SyncState struct {
	History      []json.RawMessage `json:"history" validate:"required"`
	HistoryIndex int               `json:"historyIndex" validate:"gte=0"`
	Settings     GameSettings      `json:"settings"`
	GameTime     *float64          `json:"gameTime"`
}
