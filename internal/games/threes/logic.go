package threes

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every move direction.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a name (up/down/left/right, or u/d/l/r) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("threes: unknown direction %q", s)
}

// SpawnWall returns the wall a new card enters from after moving in d.
func (d Direction) SpawnWall() Wall {
	switch d {
	case DirUp:
		return WallBottom
	case DirDown:
		return WallTop
	case DirLeft:
		return WallRight
	default:
		return WallLeft
	}
}

// canMerge reports whether two non-empty cards combine: 1 with 2, or two
// equal cards of 3 or more.
func canMerge(a, b int) bool {
	if a+b == 3 {
		return true
	}
	return a == b && a != 1 && a != 2
}

// resolvePair applies the swap-or-merge rule to one adjacent pair.
// cur is the cell nearer the target wall, next the one behind it.
// Returns true if the grid changed.
func resolvePair(g *Grid, cur, next Cell) bool {
	c := g[cur.Y][cur.X]
	n := g[next.Y][next.X]

	// Nothing behind to push forward.
	if n == 0 {
		return false
	}

	if c == 0 || canMerge(c, n) {
		g[cur.Y][cur.X] = c + n
		g[next.Y][next.X] = 0
		return true
	}

	return false
}

// Sweep performs one single-pass move over the grid in place.
// Every adjacent pair is visited once in the fixed scan order for the
// direction, so a card advances at most one cell unless the scan order
// chains it forward. Returns true if any pair changed.
func Sweep(g *Grid, dir Direction) bool {
	moved := false
	step := func(cur, next Cell) {
		if resolvePair(g, cur, next) {
			moved = true
		}
	}

	switch dir {
	case DirUp:
		for y := 0; y < GridSize-1; y++ {
			for x := range GridSize {
				step(Cell{x, y}, Cell{x, y + 1})
			}
		}
	case DirDown:
		for y := GridSize - 1; y > 0; y-- {
			for x := range GridSize {
				step(Cell{x, y}, Cell{x, y - 1})
			}
		}
	case DirLeft:
		for y := range GridSize {
			for x := 0; x < GridSize-1; x++ {
				step(Cell{x, y}, Cell{x + 1, y})
			}
		}
	case DirRight:
		for y := range GridSize {
			for x := GridSize - 1; x > 0; x-- {
				step(Cell{x, y}, Cell{x - 1, y})
			}
		}
	}

	return moved
}

// CanMoveDir reports whether moving in dir would change the grid.
func CanMoveDir(g Grid, dir Direction) bool {
	return Sweep(&g, dir)
}

// CanMove reports whether any direction would change the grid.
func CanMove(g Grid) bool {
	for _, dir := range Directions {
		if CanMoveDir(g, dir) {
			return true
		}
	}
	return false
}
