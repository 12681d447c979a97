package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestScoreboardCarts(t *testing.T) {
	store := openTestStore(t)
	store.SaveScore("alpha", 120, 24)
	store.SaveScore("alpha", 300, 48)
	store.SaveScore("beta", 50, 12)

	m := NewScoreboardModel(store, "beta", 100, 30)
	if m.current() != "beta" {
		t.Fatalf("current() = %q, want beta", m.current())
	}
	if len(m.scores) != 1 {
		t.Errorf("beta has %d scores loaded, want 1", len(m.scores))
	}
	if !strings.Contains(m.View(), "HIGH SCORES - beta") {
		t.Error("title should name the selected cart")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.current() != "alpha" {
		t.Fatalf("tab should wrap to alpha, got %q", m.current())
	}
	if len(m.scores) != 2 || m.scores[0].Score != 300 {
		t.Errorf("alpha scores = %+v", m.scores)
	}
	if !strings.Contains(m.View(), "2 games") {
		t.Error("summary should count alpha's games")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	if m.current() != "beta" {
		t.Errorf("shift+tab should go back to beta, got %q", m.current())
	}
}

func TestScoreboardEmpty(t *testing.T) {
	m := NewScoreboardModel(openTestStore(t), "", 60, 20)
	view := m.View()
	if !strings.Contains(view, "No scores recorded yet") {
		t.Error("empty store should show the placeholder")
	}

	next, cmd := m.Update(runeKey('q'))
	if cmd == nil || !next.(ScoreboardModel).quitting {
		t.Error("q should quit the scoreboard")
	}
}
