package services

import (
	"context"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"math"
)

type legFinder func(start, goal domain.Point) (domain.Path, error)

// ComposeMultiStop chains one search per consecutive pair (start->s1, s1->s2, ...)
// into a single continuous path.
//
// Legs are joined without repeating the shared endpoint. Distance, visited
// counts and elapsed time are summed. If any leg is infeasible the
// composition stops there, returning the points gathered so far with an
// infinite distance to signal that the whole route failed.
func ComposeMultiStop(grid *domain.Grid, start domain.Point, stops []domain.Stop, h Heuristic) (domain.Path, error) {
	return compose(start, stops, func(a, b domain.Point) (domain.Path, error) {
		return FindPath(grid, a, b, h)
	})
}

// Compose is ComposeMultiStop backed by the finder's cache.
func (f *PathFinder) Compose(ctx context.Context, grid *domain.Grid, start domain.Point, stops []domain.Stop, h Heuristic) (domain.Path, error) {
	return compose(start, stops, func(a, b domain.Point) (domain.Path, error) {
		return f.Find(ctx, grid, a, b, h)
	})
}

func compose(start domain.Point, stops []domain.Stop, find legFinder) (domain.Path, error) {
	var out domain.Path
	current := start

	for i, stop := range stops {
		leg, err := find(current, stop.Point)
		if err != nil {
			return domain.Path{}, fmt.Errorf("compose route: leg %d to %q: %w", i+1, stop.Label, err)
		}

		out.Visited += leg.Visited
		out.Elapsed += leg.Elapsed

		if !leg.Feasible() {
			out.Distance = math.Inf(1)
			return out, nil
		}

		points := leg.Points
		if i > 0 && len(points) > 0 {
			points = points[1:]
		}
		out.Points = append(out.Points, points...)
		out.Distance += leg.Distance
		current = stop.Point
	}

	return out, nil
}
