package services

import (
	"grid-dispatch-service/internal/domain"
	"math"
	"strings"
)

// Heuristic estimates the remaining cost between two cells.
//
// Manhattan and Euclidean are admissible while every cell weight is >= 1.
// Cells cheaper than 1.0 (fast roads) can make them overestimate, so
// results on such grids are near-optimal rather than guaranteed optimal.
type Heuristic int

const (
	Manhattan Heuristic = iota
	Euclidean
	NoHeuristic
)

// ParseHeuristic is case-insensitive; unknown or empty names fall back to Manhattan.
func ParseHeuristic(name string) Heuristic {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "EUCLIDEAN":
		return Euclidean
	case "NONE":
		return NoHeuristic
	default:
		return Manhattan
	}
}

func (h Heuristic) String() string {
	switch h {
	case Euclidean:
		return "EUCLIDEAN"
	case NoHeuristic:
		return "NONE"
	default:
		return "MANHATTAN"
	}
}

func (h Heuristic) Estimate(a, b domain.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)

	switch h {
	case Euclidean:
		return math.Sqrt(dx*dx + dy*dy)
	case NoHeuristic:
		return 0
	default:
		return math.Abs(dx) + math.Abs(dy)
	}
}
