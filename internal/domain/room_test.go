package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRoomID(t *testing.T) {
	if _, err := ParseRoomID(""); !errors.Is(err, ErrRoomIDEmpty) {
		t.Fatalf("empty id err = %v", err)
	}
	if _, err := ParseRoomID(strings.Repeat("x", MaxRoomIDLen+1)); !errors.Is(err, ErrRoomIDTooLong) {
		t.Fatalf("long id err = %v", err)
	}
	id, err := ParseRoomID("abc")
	if err != nil || id != "abc" {
		t.Fatalf("ParseRoomID(abc) = %q, %v", id, err)
	}
}
