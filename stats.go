package prettycolors

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LevelStats records what one level placed. Start and End are palette
// cursor positions; Scores holds the winning score of every commit.
type LevelStats struct {
	Name       string
	Start, End int
	Scores     []float64
}

// Placed is the number of colors the level committed.
func (s LevelStats) Placed() int { return s.End - s.Start }

// Summary describes the finite (neighbor-backed) scores of a level.
type Summary struct {
	Placed   int
	Isolated int // placements with no colored neighbor
	Mean     float64
	StdDev   float64
	Worst    float64
}

// Finite returns the scores of placements that had at least one colored neighbor.
func (s LevelStats) Finite() []float64 {
	out := make([]float64, 0, len(s.Scores))
	for _, v := range s.Scores {
		if !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func (s LevelStats) Summary() Summary {
	finite := s.Finite()
	sum := Summary{Placed: s.Placed(), Isolated: len(s.Scores) - len(finite)}
	switch len(finite) {
	case 0:
		return sum
	case 1:
		sum.Mean = finite[0]
	default:
		sum.Mean, sum.StdDev = stat.MeanStdDev(finite, nil)
	}
	sum.Worst = finite[0]
	for _, v := range finite[1:] {
		sum.Worst = min(sum.Worst, v)
	}
	return sum
}

// AllScores concatenates the scores of every level in placement order.
func AllScores(levels []LevelStats) []float64 {
	var out []float64
	for _, l := range levels {
		out = append(out, l.Scores...)
	}
	return out
}
