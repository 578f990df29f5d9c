package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Backtest.Threshold != 0.2 {
		t.Errorf("default threshold: want 0.2, got %v", cfg.Backtest.Threshold)
	}
	if cfg.Backtest.InitialCapital != 10000 {
		t.Errorf("default capital: want 10000, got %v", cfg.Backtest.InitialCapital)
	}
	if cfg.Live.AlertCooldown != 5*time.Second {
		t.Errorf("default cooldown: want 5s, got %v", cfg.Live.AlertCooldown)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("ENTRY_THRESHOLD", "0.35")
	t.Setenv("LEADER_SYMBOL", "SOL-USD")
	t.Setenv("ALLOW_SHORT", "true")
	t.Setenv("ALERT_COOLDOWN_MS", "1500")

	cfg := LoadFromEnv("")
	if cfg.Backtest.Threshold != 0.35 {
		t.Errorf("threshold override: want 0.35, got %v", cfg.Backtest.Threshold)
	}
	if cfg.Backtest.Leader != "SOL-USD" {
		t.Errorf("leader override: want SOL-USD, got %q", cfg.Backtest.Leader)
	}
	if !cfg.Backtest.AllowShort {
		t.Error("ALLOW_SHORT=true not applied")
	}
	if cfg.Live.AlertCooldown != 1500*time.Millisecond {
		t.Errorf("cooldown override: want 1.5s, got %v", cfg.Live.AlertCooldown)
	}
	// untouched keys keep their defaults
	if cfg.Backtest.Follower != "ETH-USD" {
		t.Errorf("follower default lost: %q", cfg.Backtest.Follower)
	}
}

func TestLoadFromEnvBadNumber(t *testing.T) {
	t.Setenv("ENTRY_THRESHOLD", "not-a-number")
	cfg := LoadFromEnv("")
	if cfg.Backtest.Threshold != 0.2 {
		t.Errorf("bad value must fall back to default, got %v", cfg.Backtest.Threshold)
	}
}
