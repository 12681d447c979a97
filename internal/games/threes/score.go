package threes

import "math"

// tileScore is the contribution of a single card: 3^(log2(v/3)+1).
// Powers 3*2^k give exactly 3^(k+1); base cards give fractions.
func tileScore(v int) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(3, math.Log2(float64(v)/3)+1)
}

// Score sums every card's contribution and floors the total once.
func Score(g Grid) int {
	total := 0.0
	for y := range GridSize {
		for x := range GridSize {
			total += tileScore(g[y][x])
		}
	}
	return int(math.Floor(total))
}
