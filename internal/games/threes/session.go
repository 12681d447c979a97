package threes

import "fmt"

// SavePolicy decides when a session with an attached Persister writes itself out.
type SavePolicy string

const (
	// SaveOnSpawn persists right after a card spawns on a wall.
	SaveOnSpawn SavePolicy = "spawn"
	// SaveEveryMove persists after every move request, including rejected ones.
	SaveEveryMove SavePolicy = "move"
	// SaveManual never persists on its own; the caller uses Persist.
	SaveManual SavePolicy = "manual"
)

// ParseSavePolicy converts a config value to a SavePolicy. Empty means SaveOnSpawn.
func ParseSavePolicy(s string) (SavePolicy, error) {
	switch SavePolicy(s) {
	case "", SaveOnSpawn:
		return SaveOnSpawn, nil
	case SaveEveryMove, SaveManual:
		return SavePolicy(s), nil
	}
	return "", fmt.Errorf("threes: unknown save policy %q", s)
}

// Persister receives memory images to store.
type Persister interface {
	SaveMemory(m Memory) error
}

// MoveResult describes the outcome of a move request.
type MoveResult struct {
	Direction Direction
	Moved     bool // false means a rejected move; nothing changed
	Spawned   bool // a card entered from the spawn wall
	SpawnCell Cell
	Value     int // value of the spawned card
	Saved     bool
}

// Session is one game: the board, the pending card and the best score.
// It is not safe for concurrent use.
type Session struct {
	grid      Grid
	next      int
	highScore int

	spawner   *Spawner
	persister Persister
	policy    SavePolicy
}

// Option configures a Session.
type Option func(*Session)

// WithPersister attaches the store the session saves itself to.
func WithPersister(p Persister) Option {
	return func(s *Session) {
		s.persister = p
	}
}

// WithSavePolicy sets when the session saves. Empty means SaveOnSpawn.
func WithSavePolicy(p SavePolicy) Option {
	return func(s *Session) {
		if p == "" {
			p = SaveOnSpawn
		}
		s.policy = p
	}
}

// NewSession creates an empty session drawing randomness from rng.
// Call NewGame or Boot before playing.
func NewSession(rng RandomSource, opts ...Option) *Session {
	s := &Session{
		spawner: NewSpawner(rng),
		policy:  SaveOnSpawn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewGame clears the board, draws the pending card and deals three each of 1, 2 and 3.
func (s *Session) NewGame() error {
	s.grid = Grid{}
	s.next = s.spawner.NextTileValue()

	for _, v := range []int{1, 1, 1, 2, 2, 2, 3, 3, 3} {
		if _, err := s.spawner.PlaceRandom(&s.grid, v); err != nil {
			return err
		}
	}

	s.UpdateHighScore()
	return nil
}

// Restart starts a new game and saves it immediately.
func (s *Session) Restart() error {
	if err := s.NewGame(); err != nil {
		return err
	}
	return s.Persist()
}

// Boot starts a new game and then overlays any persisted state from m.
// Slots never written keep the fresh game's values.
func (s *Session) Boot(m Memory) error {
	if err := s.NewGame(); err != nil {
		return err
	}
	s.Load(m)
	return nil
}

// RequestMove sweeps the board in dir. On success the pending card enters
// along the opposite wall, a new pending card is drawn, and the high score
// is refreshed. A rejected move changes nothing.
// The returned error only reports persistence failures; the move itself
// has been applied regardless.
func (s *Session) RequestMove(dir Direction) (MoveResult, error) {
	res := MoveResult{Direction: dir}
	res.Moved = Sweep(&s.grid, dir)

	if res.Moved {
		cell, ok := s.spawner.SpawnAtWall(&s.grid, dir.SpawnWall(), s.next)
		if ok {
			res.Spawned = true
			res.SpawnCell = cell
			res.Value = s.next
			s.next = s.spawner.NextTileValue()
		}
		s.UpdateHighScore()
	}

	if s.shouldSave(res) {
		if err := s.Persist(); err != nil {
			return res, err
		}
		res.Saved = s.persister != nil
	}

	return res, nil
}

func (s *Session) shouldSave(res MoveResult) bool {
	switch s.policy {
	case SaveEveryMove:
		return true
	case SaveOnSpawn:
		return res.Spawned
	default:
		return false
	}
}

// UpdateHighScore raises the high score to the current score if it is higher.
// Returns true if the high score changed.
func (s *Session) UpdateHighScore() bool {
	if score := Score(s.grid); score > s.highScore {
		s.highScore = score
		return true
	}
	return false
}

// Save returns the memory image of the session.
func (s *Session) Save() Memory {
	return Encode(s.State())
}

// Load overlays a memory image onto the session.
func (s *Session) Load(m Memory) {
	st := s.State()
	Decode(m, &st)
	s.grid = st.Grid
	s.next = st.Next
	s.highScore = st.HighScore
}

// Persist hands the current image to the attached persister, if any.
func (s *Session) Persist() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveMemory(s.Save()); err != nil {
		return fmt.Errorf("threes: save session: %w", err)
	}
	return nil
}

// State returns a copy of the persisted fields.
func (s *Session) State() State {
	return State{Grid: s.grid, Next: s.next, HighScore: s.highScore}
}

// Grid returns a copy of the board.
func (s *Session) Grid() Grid {
	return s.grid
}

// PendingNext returns the card that enters after the next successful move.
func (s *Session) PendingNext() int {
	return s.next
}

// Score returns the score of the current board.
func (s *Session) Score() int {
	return Score(s.grid)
}

// HighScore returns the best score seen.
func (s *Session) HighScore() int {
	return s.highScore
}

// CanMove reports whether any move is still possible.
func (s *Session) CanMove() bool {
	return CanMove(s.grid)
}

// Policy returns the session's save policy.
func (s *Session) Policy() SavePolicy {
	return s.policy
}
