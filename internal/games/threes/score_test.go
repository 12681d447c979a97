package threes

import (
	"math/rand"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		cards []int
		want  int
	}{
		{"empty board", nil, 0},
		{"single three", []int{3}, 3},
		{"single six", []int{6}, 9},
		{"single twelve", []int{12}, 27},
		{"single twenty-four", []int{24}, 81},
		{"single one floors to zero", []int{1}, 0},
		{"single two", []int{2}, 1},
		{"three ones summed before flooring", []int{1, 1, 1}, 1},
		{"one and two", []int{1, 2}, 2},
		{"initial deal", []int{1, 1, 1, 2, 2, 2, 3, 3, 3}, 15},
		{"powers", []int{3, 6, 12, 24, 48}, 3 + 9 + 27 + 81 + 243},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Grid
			for i, v := range tt.cards {
				g[i/GridSize][i%GridSize] = v
			}
			if got := Score(g); got != tt.want {
				t.Errorf("Score(%v) = %d, want %d", tt.cards, got, tt.want)
			}
		})
	}
}

func TestScorePermutationInvariant(t *testing.T) {
	cards := []int{1, 2, 2, 3, 6, 6, 12, 24, 1, 0, 0, 48, 3, 0, 2, 1}
	var base Grid
	for i, v := range cards {
		base[i/GridSize][i%GridSize] = v
	}
	want := Score(base)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		rng.Shuffle(len(cards), func(a, b int) { cards[a], cards[b] = cards[b], cards[a] })
		var g Grid
		for j, v := range cards {
			g[j/GridSize][j%GridSize] = v
		}
		if got := Score(g); got != want {
			t.Fatalf("Score of permutation %v = %d, want %d", g, got, want)
		}
	}
}
