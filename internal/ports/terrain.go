package ports

import (
	"context"
	"grid-dispatch-service/internal/domain"
)

// Read-only restaurant lookup provided by the city at startup.
type RestaurantLocator interface {
	// Find a restaurant by id, case-insensitively.
	Restaurant(id string) (domain.Restaurant, bool)
	Restaurants() []domain.Restaurant
}

// Source of the currently published grid. The returned grid must not be mutated.
type GridSource interface {
	Grid() *domain.Grid
}

// Seed data describing a courier's starting point.
type CourierSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Port: durable city data layered over the built-in layout.
type TerrainRepository interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	ListCellOverrides(ctx context.Context) ([]domain.CellOverride, error)
	SaveCellOverrides(ctx context.Context, cells []domain.CellOverride) error
	ListCourierSeeds(ctx context.Context) ([]CourierSeed, error)
}
