package services

import (
	"context"
	"grid-dispatch-service/internal/domain"
	"strings"
	"sync"
	"testing"
)

func pt(x, y int) domain.Point { return domain.Point{X: x, Y: y} }

func mustGrid(t *testing.T, w, h int) *domain.Grid {
	t.Helper()
	g, err := domain.NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d): %v", w, h, err)
	}
	return g
}

// assertWalkable checks that a path is a sequence of 4-adjacent open cells.
func assertWalkable(t *testing.T, g *domain.Grid, points []domain.Point) {
	t.Helper()
	for i, p := range points {
		if g.IsObstacle(p.X, p.Y) {
			t.Fatalf("point #%d %v is blocked", i, p)
		}
		if i > 0 && !points[i-1].Adjacent(p) {
			t.Fatalf("points #%d %v and #%d %v are not adjacent", i-1, points[i-1], i, p)
		}
	}
}

type fakeCity struct {
	grid        *domain.Grid
	restaurants []domain.Restaurant
}

func (c *fakeCity) Grid() *domain.Grid { return c.grid }

func (c *fakeCity) Restaurant(id string) (domain.Restaurant, bool) {
	for _, r := range c.restaurants {
		if strings.EqualFold(r.ID, id) {
			return r, true
		}
	}
	return domain.Restaurant{}, false
}

func (c *fakeCity) Restaurants() []domain.Restaurant { return c.restaurants }

// mapCache is a PathCache that counts hits.
type mapCache struct {
	mu   sync.Mutex
	m    map[string]domain.Path
	hits int
}

func newMapCache() *mapCache { return &mapCache{m: map[string]domain.Path{}} }

func (c *mapCache) Get(_ context.Context, key string) (domain.Path, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[key]
	if ok {
		c.hits++
	}
	return p, ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, p domain.Path) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = p
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.DispatchEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt domain.DispatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(typ domain.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
