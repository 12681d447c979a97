package threes

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the observable session state for determinism tests and
// for remote clients.
type Snapshot struct {
	Tick      uint64        `json:"tick"`
	Grid      Grid          `json:"grid"`
	Next      int           `json:"next"`
	Score     int           `json:"score"`
	HighScore int           `json:"high_score"`
	MaxTile   int           `json:"max_tile"`
	CanMove   bool          `json:"can_move"`
	State     GameStateType `json:"state"`
}

// SnapshotOf captures a session outside of the tick loop.
func SnapshotOf(s *Session) Snapshot {
	grid := s.Grid()
	snap := Snapshot{
		Grid:      grid,
		Next:      s.PendingNext(),
		Score:     s.Score(),
		HighScore: s.HighScore(),
		MaxTile:   grid.MaxTile(),
		CanMove:   s.CanMove(),
		State:     StatePlaying,
	}
	if !snap.CanMove {
		snap.State = StateGameOver
	}
	return snap
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Tick: g.tick, State: StatePlaying}
	}

	snap := SnapshotOf(g.session)
	snap.Tick = g.tick
	switch {
	case g.tooSmall:
		snap.State = StatePausedSmall
	case g.paused:
		snap.State = StatePaused
	}
	return snap
}
