package threes

import (
	"math/rand"

	"github.com/vovakirdan/tui-threes/internal/core"
)

// DefaultShakeTicks is how long the board jitters after a rejected move.
const DefaultShakeTicks = 10

// Config holds the platform-facing settings of a Game.
type Config struct {
	Persister  Persister  // nil disables saving
	Policy     SavePolicy // when to save
	Memory     Memory     // persisted image to boot from; zero boots a fresh game
	ShakeTicks int        // 0 uses DefaultShakeTicks, negative disables
}

// Game drives a Session from per-tick input frames for the terminal platform.
type Game struct {
	cfg     Config
	session *Session
	rng     *rand.Rand
	tick    uint64

	lastMove MoveResult
	shake    int // ticks of board jitter left

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	tooSmall bool
}

// New creates a game. Reset must be called before Step.
func New(cfg Config) *Game {
	if cfg.ShakeTicks == 0 {
		cfg.ShakeTicks = DefaultShakeTicks
	}
	return &Game{cfg: cfg}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "threes"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Threes"
}

// Reset boots the session on first call and restarts it afterwards.
func (g *Game) Reset(cfg core.RuntimeConfig) error {
	g.tick = 0
	g.shake = 0
	g.paused = false
	g.lastMove = MoveResult{}
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	if g.session == nil {
		g.rng = rand.New(rand.NewSource(cfg.Seed))
		g.session = NewSession(g.rng,
			WithPersister(g.cfg.Persister),
			WithSavePolicy(g.cfg.Policy),
		)
		return g.session.Boot(g.cfg.Memory)
	}

	return g.session.Restart()
}

// Resize updates the screen dimensions without touching game state.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	if g.shake > 0 {
		g.shake--
	}

	if g.tooSmall || in.Empty() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		return g.restart()
	}

	dir, ok := directionFromInput(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	return g.processMove(dir)
}

// directionFromInput picks the first move action present in the frame.
func directionFromInput(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// processMove handles a move in the given direction.
func (g *Game) processMove(dir Direction) core.StepResult {
	res, err := g.session.RequestMove(dir)
	g.lastMove = res

	var events []core.Event
	if res.Moved {
		events = append(events, core.EventMoved)
	} else {
		events = append(events, core.EventRejected)
		if g.cfg.ShakeTicks > 0 {
			g.shake = g.cfg.ShakeTicks
		}
	}
	if res.Saved {
		events = append(events, core.EventSaved)
	}

	return core.StepResult{State: g.State(), Events: events, Err: err}
}

// restart starts a fresh board, keeping the high score.
func (g *Game) restart() core.StepResult {
	prev := g.State()
	err := g.session.Restart()
	g.lastMove = MoveResult{}
	g.shake = 0

	events := []core.Event{core.EventRestarted}
	if err == nil && g.cfg.Persister != nil {
		events = append(events, core.EventSaved)
	}

	return core.StepResult{State: g.State(), Events: events, Previous: prev, Err: err}
}

// Persist saves the session regardless of the save policy.
func (g *Game) Persist() error {
	if g.session == nil {
		return nil
	}
	return g.session.Persist()
}

// Session exposes the underlying session.
func (g *Game) Session() *Session {
	return g.session
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:     g.session.Score(),
		HighScore: g.session.HighScore(),
		GameOver:  !g.session.CanMove(),
		Paused:    g.paused || g.tooSmall,
	}
}
