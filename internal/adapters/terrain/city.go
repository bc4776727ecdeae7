package terrain

import (
	"context"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/platform/obs"
	"grid-dispatch-service/internal/ports"
	"strings"
	"sync"
	"sync/atomic"
)

// City holds the published grid and the restaurant directory.
//
// Searches read the grid through Grid() without locking. Overrides clone the
// current grid, apply the change and publish the clone, so a grid a search
// already holds is never written.
type City struct {
	grid  atomic.Pointer[domain.Grid]
	types [][]CellType

	restaurants []domain.Restaurant
	byID        map[string]domain.Restaurant

	mu   sync.Mutex // serializes overrides
	repo ports.TerrainRepository
}

// NewCity builds the built-in layout. Nil or empty restaurants use the defaults.
func NewCity(restaurants []domain.Restaurant) *City {
	grid, types := buildLayout()
	if len(restaurants) == 0 {
		restaurants = DefaultRestaurants()
	}

	c := &City{
		types:       types,
		restaurants: append([]domain.Restaurant(nil), restaurants...),
		byID:        make(map[string]domain.Restaurant, len(restaurants)),
	}
	for _, r := range restaurants {
		c.byID[strings.ToLower(r.ID)] = r
	}
	c.grid.Store(grid)
	return c
}

// LoadCity builds the city from the repository: stored restaurants replace the
// defaults and stored overrides are applied on top of the layout. Later
// overrides are persisted back to the repository.
func LoadCity(ctx context.Context, repo ports.TerrainRepository) (_ *City, err error) {
	defer obs.Time(ctx, "terrain.LoadCity")(&err)

	restaurants, err := repo.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load city: %w", err)
	}
	c := NewCity(restaurants)
	c.repo = repo

	overrides, err := repo.ListCellOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("load city: %w", err)
	}
	if len(overrides) > 0 {
		g := c.Grid().Clone()
		g.Apply(overrides)
		c.grid.Store(g)
	}
	return c, nil
}

func (c *City) Grid() *domain.Grid {
	return c.grid.Load()
}

func (c *City) Restaurant(id string) (domain.Restaurant, bool) {
	r, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	return r, ok
}

func (c *City) Restaurants() []domain.Restaurant {
	return append([]domain.Restaurant(nil), c.restaurants...)
}

// Cell describes one cell of the layout for rendering.
type Cell struct {
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Type     CellType `json:"type"`
	Obstacle bool     `json:"obstacle"`
	Weight   float64  `json:"weight"`
}

// Layout flattens the city row by row, reflecting any overrides.
func (c *City) Layout() []Cell {
	g := c.Grid()
	cells := make([]Cell, 0, g.Width()*g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			cells = append(cells, Cell{
				X:        x,
				Y:        y,
				Type:     c.types[y][x],
				Obstacle: g.IsObstacle(x, y),
				Weight:   g.Weight(x, y),
			})
		}
	}
	return cells
}

// Override publishes a new grid version with the given cells changed.
func (c *City) Override(ctx context.Context, cells []domain.CellOverride) (_ uint64, err error) {
	defer obs.Time(ctx, "terrain.Override")(&err)

	for i, cell := range cells {
		if !c.Grid().InBounds(cell.X, cell.Y) {
			return 0, fmt.Errorf("override cells: cell #%d (%d,%d) out of bounds: %w", i+1, cell.X, cell.Y, domain.ErrInvalidInput)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repo != nil {
		if err := c.repo.SaveCellOverrides(ctx, cells); err != nil {
			return 0, fmt.Errorf("override cells: %w", err)
		}
	}

	g := c.Grid().Clone()
	g.Apply(cells)
	c.grid.Store(g)
	return g.Version(), nil
}
