package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-threes/internal/core"
	"github.com/vovakirdan/tui-threes/internal/games/threes"
	"github.com/vovakirdan/tui-threes/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 42}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestNewModelFreshCart(t *testing.T) {
	store := openTestStore(t)
	m, err := NewModel(testConfig(), Options{Cart: store.Cart("fresh")})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	snap := m.Game().Snapshot()
	if snap.Score != 15 {
		t.Errorf("fresh board score = %d, want 15", snap.Score)
	}
	if snap.State != threes.StatePlaying {
		t.Errorf("state = %s, want playing", snap.State)
	}
	if m.Init() == nil {
		t.Error("Init should start the tick loop")
	}
}

func TestNewModelResumesCart(t *testing.T) {
	store := openTestStore(t)
	saved := threes.State{
		Grid:      threes.Grid{{3, 0, 0, 0}, {0, 6, 0, 0}, {0, 0, 12, 0}, {0, 0, 0, 24}},
		Next:      2,
		HighScore: 4000,
	}
	if err := store.SaveMemory("resume", threes.Encode(saved)); err != nil {
		t.Fatalf("SaveMemory() failed: %v", err)
	}

	m, err := NewModel(testConfig(), Options{Cart: store.Cart("resume")})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	if got := m.Game().Session().State(); got != saved {
		t.Errorf("resumed state = %+v, want %+v", got, saved)
	}
}

func TestModelMoveSavesCart(t *testing.T) {
	store := openTestStore(t)
	cart := store.Cart("moves")
	grid := threes.Grid{}
	grid[1][1] = 3
	store.SaveMemory("moves", threes.Encode(threes.State{Grid: grid, Next: 1}))

	m, err := NewModel(testConfig(), Options{Cart: cart})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	mem, err := cart.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	var st threes.State
	threes.Decode(mem, &st)
	if st.Grid != m.Game().Session().Grid() {
		t.Error("cart should hold the board after a spawning move")
	}
	if st.Grid[1][0] != 3 {
		t.Errorf("card should have moved left, got %v", st.Grid)
	}
}

func TestModelRestartRecordsScore(t *testing.T) {
	store := openTestStore(t)
	cart := store.Cart("restart")

	m, err := NewModel(testConfig(), Options{Cart: cart})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	m, _ = update(t, m, runeKey('r'))
	update(t, m, TickMsg{})

	scores, err := store.TopScores("restart", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 15 || scores[0].BestTile != 3 {
		t.Errorf("scores = %+v, want one abandoned board of 15", scores)
	}
}

func TestModelGameOverRecordsOnce(t *testing.T) {
	store := openTestStore(t)
	stuck := threes.Grid{{1, 3, 1, 3}, {3, 1, 3, 1}, {1, 3, 1, 3}, {3, 1, 3, 1}}
	store.SaveMemory("over", threes.Encode(threes.State{Grid: stuck, Next: 1}))

	m, err := NewModel(testConfig(), Options{Cart: store.Cart("over")})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	for range 3 {
		m, _ = update(t, m, TickMsg{})
	}
	if !strings.Contains(m.View(), "NO MOVES") {
		t.Error("view should show the game over overlay")
	}

	// Restarting a finished board does not record it twice
	m, _ = update(t, m, runeKey('r'))
	update(t, m, TickMsg{})

	scores, _ := store.TopScores("over", 10)
	if len(scores) != 1 {
		t.Errorf("recorded %d scores, want 1", len(scores))
	}
}

func TestModelQuitPersists(t *testing.T) {
	store := openTestStore(t)
	cart := store.Cart("quit")

	m, err := NewModel(testConfig(), Options{Cart: cart, Policy: threes.SaveManual})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}

	mem, _ := cart.Load()
	if mem != m.Game().Session().Save() {
		t.Error("quit should save the session under the manual policy")
	}
	scores, _ := store.TopScores("quit", 10)
	if len(scores) != 0 {
		t.Error("quitting should not record the resumable board")
	}
}

func TestModelHelpToggle(t *testing.T) {
	m, err := NewModel(testConfig(), Options{})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}

	short := m.screen.Height()
	m, _ = update(t, m, runeKey('?'))
	if !m.help.ShowAll {
		t.Fatal("? should expand the help")
	}
	if m.screen.Height() >= short {
		t.Errorf("full help should shrink the board area: %d >= %d", m.screen.Height(), short)
	}
	if !strings.Contains(m.View(), "THREES") {
		t.Error("board should still render with full help")
	}
}

func TestModelResize(t *testing.T) {
	m, err := NewModel(testConfig(), Options{})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	before := m.Game().Session().State()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	m, _ = update(t, m, TickMsg{})
	if m.Game().Snapshot().State != threes.StatePausedSmall {
		t.Error("tiny window should pause the game")
	}
	if m.Game().Session().State() != before {
		t.Error("resizing should not reset the board")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	update(t, m, TickMsg{})
	if m.Game().Snapshot().State != threes.StatePlaying {
		t.Error("game should resume after growing the window")
	}
}
