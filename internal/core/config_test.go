package core

import (
	"fmt"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ScreenW != 80 || cfg.ScreenH != 24 {
		t.Errorf("Default screen = %dx%d, want 80x24", cfg.ScreenW, cfg.ScreenH)
	}
	if cfg.TickRate != 30 {
		t.Errorf("Default TickRate = %d, want 30", cfg.TickRate)
	}
}

func TestEventNames(t *testing.T) {
	r := StepResult{Events: []Event{EventMoved, EventSaved}}
	if got := fmt.Sprint(r.Events); got != "[moved saved]" {
		t.Errorf("Events print as %q", got)
	}
}
