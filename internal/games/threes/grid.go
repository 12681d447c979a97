// Package threes implements the rules engine of Threes: a 4x4 board of
// number cards that slide one step per move and merge into multiples of three.
//
// The package owns game state and transitions only. Drawing, input and
// sound live in the platform layer, which reads state through Session and
// the tick-driven Game adapter.
package threes

import (
	"errors"
	"fmt"
)

// GridSize is the board dimension.
const GridSize = 4

// Error kinds reported by the core. Both indicate contract violations, not
// gameplay outcomes.
var (
	ErrOutOfRange = errors.New("threes: cell out of range")
	ErrBoardFull  = errors.New("threes: board full")
)

// Cell addresses a grid position. X is the column, Y the row.
type Cell struct {
	X, Y int
}

// Grid is the 4x4 board, indexed [y][x]. 0 is an empty cell.
type Grid [GridSize][GridSize]int

// inBounds reports whether (x, y) lies on the board.
func inBounds(x, y int) bool {
	return x >= 0 && x < GridSize && y >= 0 && y < GridSize
}

// Get returns the value at (x, y).
func (g *Grid) Get(x, y int) (int, error) {
	if !inBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	return g[y][x], nil
}

// Set stores v at (x, y).
func (g *Grid) Set(x, y, v int) error {
	if !inBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	g[y][x] = v
	return nil
}

// EmptyCells returns all empty positions in row-major order.
func (g *Grid) EmptyCells() []Cell {
	var cells []Cell
	for y := range GridSize {
		for x := range GridSize {
			if g[y][x] == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// TileCount returns the number of occupied cells.
func (g *Grid) TileCount() int {
	n := 0
	for y := range GridSize {
		for x := range GridSize {
			if g[y][x] != 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the highest value on the board.
func (g *Grid) MaxTile() int {
	maxVal := 0
	for y := range GridSize {
		for x := range GridSize {
			if g[y][x] > maxVal {
				maxVal = g[y][x]
			}
		}
	}
	return maxVal
}

// IsValidTile reports whether v can appear on a board: 0, 1, 2, or 3*2^k.
func IsValidTile(v int) bool {
	switch {
	case v < 0:
		return false
	case v <= 3:
		return true
	case v%3 != 0:
		return false
	}
	q := v / 3
	return q&(q-1) == 0
}
