package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Fatalf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Mode != "release" {
		t.Fatalf("Mode = %q, want release", cfg.Mode)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("PingPeriod = %v, want 54s", cfg.PingPeriod)
	}
	if cfg.SendBuffer != 32 {
		t.Fatalf("SendBuffer = %d, want 32", cfg.SendBuffer)
	}
	if cfg.RoomOps != 16 || cfg.RoomOpsWindow != 10*time.Second {
		t.Fatalf("room ops limit = %d/%v", cfg.RoomOps, cfg.RoomOpsWindow)
	}
}
