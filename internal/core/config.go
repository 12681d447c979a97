package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score     int  // Current score
	HighScore int  // Best score recorded by the session
	GameOver  bool // No move can change the board
	Paused    bool // Whether the game is paused
}

// Event is something that happened during a tick that the platform may react
// to: play a cue, save, record a score.
type Event int

const (
	EventMoved     Event = iota + 1 // A move changed the board
	EventRejected                   // A move was requested but nothing could move
	EventRestarted                  // A new game was started
	EventSaved                      // The session was persisted
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventMoved:
		return "moved"
	case EventRejected:
		return "rejected"
	case EventRestarted:
		return "restarted"
	case EventSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State  GameState
	Events []Event
	// Previous is the state right before a restart, so the platform can
	// record the finished run. Zero unless EventRestarted is present.
	Previous GameState
	Err      error // Persistence failure during this tick, if any
}

// Has returns true if the result contains the given event.
func (r StepResult) Has(e Event) bool {
	for _, ev := range r.Events {
		if ev == e {
			return true
		}
	}
	return false
}
