package storage

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-threes/internal/games/threes"
)

func TestLoadMemoryUnknownCart(t *testing.T) {
	store := openTestStore(t)

	m, err := store.LoadMemory("nobody")
	if err != nil {
		t.Fatalf("LoadMemory() failed: %v", err)
	}
	if !m.IsZero() {
		t.Error("unknown cart should load an empty image")
	}
}

func TestSaveLoadMemory(t *testing.T) {
	store := openTestStore(t)

	want := threes.Encode(threes.State{
		Grid:      threes.Grid{{1, 2, 3, 6}, {0, 0, 0, 0}, {12, 0, 0, 0}, {0, 0, 0, 768}},
		Next:      3,
		HighScore: 70000,
	})
	if err := store.SaveMemory("c", want); err != nil {
		t.Fatalf("SaveMemory() failed: %v", err)
	}

	got, err := store.LoadMemory("c")
	if err != nil {
		t.Fatalf("LoadMemory() failed: %v", err)
	}
	if got != want {
		t.Error("loaded memory differs from saved memory")
	}

	// Overwrite the board; a zero high score slot keeps the stored one
	next := want
	next[threes.SlotHighScore] = 0
	next[0] = 7
	next[1] = 0
	if err := store.SaveMemory("c", next); err != nil {
		t.Fatalf("SaveMemory() failed: %v", err)
	}
	got, _ = store.LoadMemory("c")
	if got[0] != 7 || got[1] != 0 {
		t.Errorf("second save should replace the board, slots = %d %d", got[0], got[1])
	}
	if got[threes.SlotHighScore] != 70000 {
		t.Errorf("high score slot = %d, want 70000", got[threes.SlotHighScore])
	}
}

func TestHighScoreNeverDecreases(t *testing.T) {
	store := openTestStore(t)

	// Two sessions on one cart, each saving its own view
	a := threes.NewSession(rand.New(rand.NewSource(1)), threes.WithPersister(store.Cart("ssh:alice")))
	b := threes.NewSession(rand.New(rand.NewSource(2)), threes.WithPersister(store.Cart("ssh:alice")))
	if err := a.NewGame(); err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	if err := b.NewGame(); err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}

	// Session a has played a long game
	a.Load(threes.Encode(threes.State{
		Grid:      threes.Grid{{96, 48, 24, 12}, {3, 6, 1, 2}},
		Next:      2,
		HighScore: 422,
	}))
	if err := a.Persist(); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}
	best := a.HighScore()

	for _, d := range threes.Directions {
		res, err := b.RequestMove(d)
		if err != nil {
			t.Fatalf("RequestMove() failed: %v", err)
		}
		if res.Saved {
			break
		}
	}
	if b.HighScore() >= best {
		t.Fatalf("second session high score %d should be below %d", b.HighScore(), best)
	}

	mem, err := store.LoadMemory("ssh:alice")
	if err != nil {
		t.Fatalf("LoadMemory() failed: %v", err)
	}
	if got := int(mem[threes.SlotHighScore]); got != best {
		t.Errorf("stored high score = %d, want %d", got, best)
	}
}

func TestClaim(t *testing.T) {
	store := openTestStore(t)

	release, ok := store.Claim("a")
	if !ok {
		t.Fatal("Claim() on a free cart failed")
	}
	if _, ok := store.Claim("a"); ok {
		t.Error("second Claim() on a held cart should fail")
	}
	other, ok := store.Claim("b")
	if !ok {
		t.Fatal("Claim() on another cart failed")
	}
	if store.Claimed() != 2 {
		t.Errorf("Claimed() = %d, want 2", store.Claimed())
	}

	release()
	release()
	if store.Claimed() != 1 {
		t.Errorf("Claimed() after release = %d, want 1", store.Claimed())
	}
	if _, ok := store.Claim("a"); !ok {
		t.Error("released cart should be claimable")
	}
	other()

	// Empty names the default cart
	if _, ok := store.Claim(""); !ok {
		t.Fatal("Claim(\"\") failed")
	}
	if _, ok := store.Claim(DefaultCart); ok {
		t.Error("empty name and DefaultCart should be the same cart")
	}
}

func TestClearMemory(t *testing.T) {
	store := openTestStore(t)

	var m threes.Memory
	m[threes.SlotNext] = 2
	store.SaveMemory("a", m)
	store.SaveMemory("b", m)

	if err := store.ClearMemory("a"); err != nil {
		t.Fatalf("ClearMemory() failed: %v", err)
	}

	a, _ := store.LoadMemory("a")
	b, _ := store.LoadMemory("b")
	if !a.IsZero() {
		t.Error("cart a should be empty after clear")
	}
	if b != m {
		t.Error("cart b should be untouched")
	}
}

func TestCartPersistsSession(t *testing.T) {
	store := openTestStore(t)
	cart := store.Cart("")
	if cart.Name() != DefaultCart {
		t.Errorf("Name() = %q, want %q", cart.Name(), DefaultCart)
	}

	s := threes.NewSession(rand.New(rand.NewSource(4)), threes.WithPersister(cart))
	if err := s.Restart(); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}
	for _, d := range threes.Directions {
		if _, err := s.RequestMove(d); err != nil {
			t.Fatalf("RequestMove() failed: %v", err)
		}
	}
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}

	mem, err := cart.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	resumed := threes.NewSession(rand.New(rand.NewSource(99)))
	if err := resumed.Boot(mem); err != nil {
		t.Fatalf("Boot() failed: %v", err)
	}
	if resumed.State() != s.State() {
		t.Errorf("resumed state = %+v, want %+v", resumed.State(), s.State())
	}

	grid := s.Grid()
	if err := cart.RecordScore(s.Score(), grid.MaxTile()); err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}
	high, err := cart.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != s.Score() {
		t.Errorf("HighScore() = %d, want %d", high, s.Score())
	}
}
