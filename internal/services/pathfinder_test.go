package services

import (
	"context"
	"errors"
	"grid-dispatch-service/internal/domain"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestFindPathOpenGrid(t *testing.T) {
	g := mustGrid(t, 5, 5)

	p, err := FindPath(g, pt(0, 0), pt(4, 0), Manhattan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Distance != 4.0 {
		t.Errorf("distance = %v, want 4", p.Distance)
	}
	if len(p.Points) != 5 {
		t.Fatalf("points = %d, want 5", len(p.Points))
	}
	if p.Points[0] != pt(0, 0) || p.Points[4] != pt(4, 0) {
		t.Errorf("path endpoints = %v..%v", p.Points[0], p.Points[4])
	}
	assertWalkable(t, g, p.Points)
}

func TestFindPathBlockedByWall(t *testing.T) {
	g := mustGrid(t, 5, 5)
	for x := 0; x < 5; x++ {
		g.SetObstacle(x, 1, true)
	}

	p, err := FindPath(g, pt(0, 0), pt(0, 2), Manhattan)
	if err != nil {
		t.Fatalf("unreachable goal must not be an error, got %v", err)
	}
	if !math.IsInf(p.Distance, 1) {
		t.Errorf("distance = %v, want +Inf", p.Distance)
	}
	if len(p.Points) != 0 {
		t.Errorf("points = %v, want empty", p.Points)
	}
	if p.Visited == 0 {
		t.Errorf("visited = 0, want > 0")
	}
	if p.Feasible() {
		t.Errorf("Feasible() = true for blocked route")
	}
}

func TestFindPathRejectsOutOfBounds(t *testing.T) {
	g := mustGrid(t, 5, 5)

	cases := []struct {
		name        string
		start, goal domain.Point
		word        string
	}{
		{"start left of grid", pt(-1, 0), pt(2, 2), "start"},
		{"start below grid", pt(0, 5), pt(2, 2), "start"},
		{"goal right of grid", pt(0, 0), pt(5, 0), "goal"},
	}

	for _, tc := range cases {
		_, err := FindPath(g, tc.start, tc.goal, Manhattan)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
			continue
		}
		if !strings.Contains(err.Error(), tc.word) {
			t.Errorf("%s: err = %q, want it to mention %q", tc.name, err, tc.word)
		}
	}
}

func TestFindPathSameCell(t *testing.T) {
	g := mustGrid(t, 3, 3)

	p, err := FindPath(g, pt(1, 1), pt(1, 1), Euclidean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Distance != 0 || len(p.Points) != 1 || p.Visited != 1 {
		t.Errorf("path = %+v, want single point at zero cost", p)
	}
}

func TestFindPathAvoidsExpensiveCells(t *testing.T) {
	g := mustGrid(t, 3, 3)
	g.SetWeight(1, 1, 10)

	p, err := FindPath(g, pt(0, 1), pt(2, 1), Manhattan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Distance != 4 {
		t.Errorf("distance = %v, want 4 (detour around heavy cell)", p.Distance)
	}
	for _, q := range p.Points {
		if q == pt(1, 1) {
			t.Errorf("path crosses heavy cell: %v", p.Points)
		}
	}
}

// randomGrid builds a grid with integer weights 1..3 and ~25% obstacles.
func randomGrid(t *testing.T, rng *rand.Rand, w, h int) *domain.Grid {
	t.Helper()
	g := mustGrid(t, w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Intn(4) == 0 {
				g.SetObstacle(x, y, true)
				continue
			}
			g.SetWeight(x, y, float64(1+rng.Intn(3)))
		}
	}
	return g
}

func TestFindPathPropertiesOnRandomGrids(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 40; trial++ {
		g := randomGrid(t, rng, 12, 9)
		start := pt(rng.Intn(12), rng.Intn(9))
		goal := pt(rng.Intn(12), rng.Intn(9))
		g.SetObstacle(start.X, start.Y, false)
		g.SetObstacle(goal.X, goal.Y, false)

		byNone, err := FindPath(g, start, goal, NoHeuristic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		byManhattan, err := FindPath(g, start, goal, Manhattan)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !byNone.Feasible() {
			if byManhattan.Feasible() {
				t.Fatalf("trial %d: heuristics disagree on reachability", trial)
			}
			if len(byManhattan.Points) != 0 || byManhattan.Visited == 0 {
				t.Errorf("trial %d: unreachable result = %+v", trial, byManhattan)
			}
			continue
		}

		if byNone.Distance != byManhattan.Distance {
			t.Errorf("trial %d: cost None=%v Manhattan=%v", trial, byNone.Distance, byManhattan.Distance)
		}
		if byManhattan.Visited > byNone.Visited {
			t.Errorf("trial %d: Manhattan visited %d > None visited %d", trial, byManhattan.Visited, byNone.Visited)
		}

		pts := byManhattan.Points
		if pts[0] != start || pts[len(pts)-1] != goal {
			t.Errorf("trial %d: endpoints %v..%v, want %v..%v", trial, pts[0], pts[len(pts)-1], start, goal)
		}
		assertWalkable(t, g, pts)

		var sum float64
		for _, q := range pts[1:] {
			sum += g.Weight(q.X, q.Y)
		}
		if sum != byManhattan.Distance {
			t.Errorf("trial %d: weight sum %v != distance %v", trial, sum, byManhattan.Distance)
		}
	}
}

func TestPathFinderCacheDoesNotChangeResults(t *testing.T) {
	ctx := context.Background()
	g := mustGrid(t, 8, 8)
	g.SetObstacle(3, 3, true)
	g.SetWeight(4, 4, 2.5)

	cache := newMapCache()
	f := NewPathFinder(cache)

	direct, _ := FindPath(g, pt(0, 0), pt(7, 7), Euclidean)
	first, err := f.Find(ctx, g, pt(0, 0), pt(7, 7), Euclidean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := f.Find(ctx, g, pt(0, 0), pt(7, 7), Euclidean)

	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	for _, p := range []domain.Path{first, second} {
		if p.Distance != direct.Distance || len(p.Points) != len(direct.Points) {
			t.Errorf("cached path = %v/%d, want %v/%d", p.Distance, len(p.Points), direct.Distance, len(direct.Points))
		}
	}

	// changed terrain must not hit the old entry
	clone := g.Clone()
	clone.SetObstacle(1, 0, true)
	if _, err := f.Find(ctx, clone, pt(0, 0), pt(7, 7), Euclidean); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits after grid change = %d, want 1", cache.hits)
	}
}

func TestParseHeuristic(t *testing.T) {
	cases := map[string]Heuristic{
		"MANHATTAN": Manhattan,
		"euclidean": Euclidean,
		" None ":    NoHeuristic,
		"":          Manhattan,
		"dijkstra":  Manhattan,
	}
	for in, want := range cases {
		if got := ParseHeuristic(in); got != want {
			t.Errorf("ParseHeuristic(%q) = %v, want %v", in, got, want)
		}
	}

	if got := Euclidean.Estimate(pt(0, 0), pt(3, 4)); got != 5 {
		t.Errorf("Euclidean estimate = %v, want 5", got)
	}
	if got := Manhattan.Estimate(pt(0, 0), pt(3, -4)); got != 7 {
		t.Errorf("Manhattan estimate = %v, want 7", got)
	}
	if got := NoHeuristic.Estimate(pt(0, 0), pt(3, 4)); got != 0 {
		t.Errorf("None estimate = %v, want 0", got)
	}
}
