package threes

import "fmt"

// Wall identifies a board edge. New cards enter along the wall opposite the move.
type Wall int

const (
	WallTop Wall = iota
	WallLeft
	WallRight
	WallBottom
)

// String returns the wall name.
func (w Wall) String() string {
	switch w {
	case WallTop:
		return "top"
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	case WallBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Cells returns the positions lying on the wall, in scan order.
func (w Wall) Cells() []Cell {
	cells := make([]Cell, 0, GridSize)
	for i := range GridSize {
		switch w {
		case WallTop:
			cells = append(cells, Cell{X: i, Y: 0})
		case WallBottom:
			cells = append(cells, Cell{X: i, Y: GridSize - 1})
		case WallLeft:
			cells = append(cells, Cell{X: 0, Y: i})
		case WallRight:
			cells = append(cells, Cell{X: GridSize - 1, Y: i})
		default:
			return nil
		}
	}
	return cells
}

// RandomSource is the uniform integer source the generator draws from.
// *math/rand.Rand satisfies it.
type RandomSource interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// Spawner produces next-card values and drops cards onto the board.
type Spawner struct {
	rng RandomSource
}

// NewSpawner creates a spawner over the given source.
func NewSpawner(rng RandomSource) *Spawner {
	return &Spawner{rng: rng}
}

// randomInt mirrors the platform contract randomInt(min, max): a value in [min, max).
func (s *Spawner) randomInt(minVal, maxVal int) int {
	return minVal + s.rng.Intn(maxVal-minVal)
}

// NextTileValue draws the next card, uniformly from {1, 2, 3}.
func (s *Spawner) NextTileValue() int {
	return s.randomInt(1, 4)
}

// PlaceRandom puts v on a uniformly chosen empty cell.
// Only used while populating a new board.
func (s *Spawner) PlaceRandom(g *Grid, v int) (Cell, error) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, fmt.Errorf("%w: cannot place %d", ErrBoardFull, v)
	}

	cell := empty[s.rng.Intn(len(empty))]
	g[cell.Y][cell.X] = v
	return cell, nil
}

// SpawnAtWall puts v on a uniformly chosen empty cell of the given wall.
// Returns false, leaving the grid untouched, when the wall is fully occupied.
func (s *Spawner) SpawnAtWall(g *Grid, w Wall, v int) (Cell, bool) {
	var available []Cell
	for _, c := range w.Cells() {
		if g[c.Y][c.X] == 0 {
			available = append(available, c)
		}
	}

	if len(available) == 0 {
		return Cell{}, false
	}

	cell := available[s.rng.Intn(len(available))]
	g[cell.Y][cell.X] = v
	return cell, true
}
