package services

import "grid-dispatch-service/internal/domain"

// NearestNeighbor orders stops greedily by Manhattan distance.
//
// At each step the closest remaining stop to the current position is
// chosen, ties going to the stop that appeared first in the input. It is
// an approximation of the best visiting order, not an exact solution.
type NearestNeighbor struct{}

func (NearestNeighbor) Name() string { return StrategyNearestNeighbor }

func (NearestNeighbor) Order(stops []domain.Stop, start domain.Point) []domain.Stop {
	remaining := append([]domain.Stop(nil), stops...)
	ordered := make([]domain.Stop, 0, len(stops))
	current := start

	for len(remaining) > 0 {
		best := 0
		bestDist := current.Manhattan(remaining[0].Point)
		for i := 1; i < len(remaining); i++ {
			// Strict comparison keeps the first-encountered stop on ties.
			if d := current.Manhattan(remaining[i].Point); d < bestDist {
				best, bestDist = i, d
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Point
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}
