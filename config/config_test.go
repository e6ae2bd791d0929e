package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Deck.Size != 40 {
		t.Errorf("expected Deck.Size=40, got %d", cfg.Deck.Size)
	}
	if cfg.HandSize != 5 {
		t.Errorf("expected HandSize=5, got %d", cfg.HandSize)
	}
	if cfg.MaxRounds != 30 {
		t.Errorf("expected MaxRounds=30, got %d", cfg.MaxRounds)
	}
	if len(cfg.ComboDecay) != 3 || cfg.ComboDecay[0] != 1.0 || cfg.ComboDecay[1] != 0.6 || cfg.ComboDecay[2] != 0.3 {
		t.Errorf("expected ComboDecay=[1.0 0.6 0.3], got %v", cfg.ComboDecay)
	}
	if cfg.Adaptive.MinMultiplier != 0.5 || cfg.Adaptive.MaxMultiplier != 2.0 {
		t.Errorf("expected multiplier bounds [0.5, 2.0], got [%v, %v]", cfg.Adaptive.MinMultiplier, cfg.Adaptive.MaxMultiplier)
	}
	if cfg.Adaptive.StepDown <= cfg.Adaptive.StepUp {
		t.Errorf("expected StepDown > StepUp (safety bias), got up=%v down=%v", cfg.Adaptive.StepUp, cfg.Adaptive.StepDown)
	}
	if len(cfg.AIProfiles) == 0 {
		t.Error("expected at least one AI profile")
	}
}

func TestDecayFloor(t *testing.T) {
	cfg := Defaults()
	if got := cfg.DecayFloor(); got != 0.3 {
		t.Errorf("expected decay floor 0.3, got %v", got)
	}
	cfg.ComboDecay = nil
	if got := cfg.DecayFloor(); got != 1.0 {
		t.Errorf("expected decay floor 1.0 with empty sequence, got %v", got)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	os.Setenv("DECK_SIZE", "20")
	os.Setenv("HAND_SIZE", "4")
	os.Setenv("ADAPTIVE_STEP_UP", "0.2")
	os.Setenv("HTTP_PORT", "9090")
	defer func() {
		os.Unsetenv("DECK_SIZE")
		os.Unsetenv("HAND_SIZE")
		os.Unsetenv("ADAPTIVE_STEP_UP")
		os.Unsetenv("HTTP_PORT")
	}()

	cfg := Load()

	if cfg.Deck.Size != 20 {
		t.Errorf("expected Deck.Size=20 after env override, got %d", cfg.Deck.Size)
	}
	if cfg.HandSize != 4 {
		t.Errorf("expected HandSize=4 after env override, got %d", cfg.HandSize)
	}
	if cfg.Adaptive.StepUp != 0.2 {
		t.Errorf("expected Adaptive.StepUp=0.2 after env override, got %v", cfg.Adaptive.StepUp)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("expected HTTPPort=9090 after env override, got %d", cfg.HTTPPort)
	}
	// Non-overridden fields should remain default
	if cfg.MaxRounds != 30 {
		t.Errorf("expected MaxRounds=30 (default), got %d", cfg.MaxRounds)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	os.Setenv("MAX_ROUNDS", "invalid")
	defer os.Unsetenv("MAX_ROUNDS")

	cfg := Load()

	// Should fall back to default when env value is invalid
	if cfg.MaxRounds != 30 {
		t.Errorf("expected MaxRounds=30 (default) with invalid env, got %d", cfg.MaxRounds)
	}
}
