package threes

import (
	"errors"
	"math/rand"
	"testing"
)

// seqSource replays fixed draws, reduced modulo n.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func TestNextTileValue(t *testing.T) {
	sp := NewSpawner(rand.New(rand.NewSource(1)))
	seen := map[int]int{}

	for i := 0; i < 3000; i++ {
		v := sp.NextTileValue()
		if v < 1 || v > 3 {
			t.Fatalf("NextTileValue() = %d, want 1..3", v)
		}
		seen[v]++
	}

	for v := 1; v <= 3; v++ {
		if seen[v] < 800 {
			t.Errorf("value %d drawn %d times out of 3000, distribution looks skewed", v, seen[v])
		}
	}
}

func TestPlaceRandomInitialDeal(t *testing.T) {
	sp := NewSpawner(rand.New(rand.NewSource(99)))
	var g Grid

	for _, v := range []int{1, 1, 1, 2, 2, 2, 3, 3, 3} {
		if _, err := sp.PlaceRandom(&g, v); err != nil {
			t.Fatalf("PlaceRandom(%d) failed: %v", v, err)
		}
	}

	if g.TileCount() != 9 {
		t.Errorf("TileCount = %d, want 9", g.TileCount())
	}

	counts := map[int]int{}
	for y := range GridSize {
		for x := range GridSize {
			if g[y][x] != 0 {
				counts[g[y][x]]++
			}
		}
	}
	for v := 1; v <= 3; v++ {
		if counts[v] != 3 {
			t.Errorf("count of %d = %d, want 3", v, counts[v])
		}
	}
}

func TestPlaceRandomPicksFromEmptyCells(t *testing.T) {
	g := Grid{
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 0, 1, 1},
		{1, 1, 1, 0},
	}
	// Index 1 of the two empty cells is (3, 3)
	sp := NewSpawner(&seqSource{vals: []int{1}})

	cell, err := sp.PlaceRandom(&g, 3)
	if err != nil {
		t.Fatalf("PlaceRandom failed: %v", err)
	}
	if cell != (Cell{X: 3, Y: 3}) || g[3][3] != 3 {
		t.Errorf("PlaceRandom placed at %+v, grid[3][3] = %d", cell, g[3][3])
	}
}

func TestPlaceRandomBoardFull(t *testing.T) {
	var g Grid
	for y := range GridSize {
		for x := range GridSize {
			g[y][x] = 3
		}
	}

	sp := NewSpawner(rand.New(rand.NewSource(1)))
	if _, err := sp.PlaceRandom(&g, 1); !errors.Is(err, ErrBoardFull) {
		t.Errorf("PlaceRandom on full board error = %v, want ErrBoardFull", err)
	}
}

func TestSpawnAtWall(t *testing.T) {
	tests := []struct {
		wall Wall
		onIt func(c Cell) bool
	}{
		{WallTop, func(c Cell) bool { return c.Y == 0 }},
		{WallBottom, func(c Cell) bool { return c.Y == GridSize-1 }},
		{WallLeft, func(c Cell) bool { return c.X == 0 }},
		{WallRight, func(c Cell) bool { return c.X == GridSize-1 }},
	}

	for _, tt := range tests {
		t.Run(tt.wall.String(), func(t *testing.T) {
			sp := NewSpawner(rand.New(rand.NewSource(5)))
			for i := 0; i < 50; i++ {
				var g Grid
				cell, ok := sp.SpawnAtWall(&g, tt.wall, 2)
				if !ok {
					t.Fatal("SpawnAtWall on empty grid returned false")
				}
				if !tt.onIt(cell) {
					t.Fatalf("SpawnAtWall(%s) chose %+v", tt.wall, cell)
				}
				if g[cell.Y][cell.X] != 2 || g.TileCount() != 1 {
					t.Fatalf("SpawnAtWall(%s) did not place exactly one card", tt.wall)
				}
			}
		})
	}
}

func TestSpawnAtWallOnlyEmptyCells(t *testing.T) {
	g := Grid{
		{3, 0, 6, 3},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	sp := NewSpawner(&seqSource{vals: []int{0}})

	cell, ok := sp.SpawnAtWall(&g, WallTop, 1)
	if !ok || cell != (Cell{X: 1, Y: 0}) {
		t.Errorf("SpawnAtWall(top) = %+v, %v; want {1 0}, true", cell, ok)
	}
}

func TestSpawnAtWallFull(t *testing.T) {
	g := Grid{
		{0, 0, 0, 3},
		{0, 0, 0, 6},
		{0, 0, 0, 1},
		{0, 0, 0, 2},
	}
	before := g

	sp := NewSpawner(rand.New(rand.NewSource(1)))
	if _, ok := sp.SpawnAtWall(&g, WallRight, 1); ok {
		t.Error("SpawnAtWall on a full wall should return false")
	}
	if g != before {
		t.Error("SpawnAtWall on a full wall modified the grid")
	}
}
