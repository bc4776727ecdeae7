package ports

import (
	"context"
	"grid-dispatch-service/internal/domain"
)

// Cache for point-to-point search results.
// Keys are built by the caller and already embed the grid version and heuristic.
type PathCache interface {
	// Return the cached path and whether it was found.
	Get(ctx context.Context, key string) (domain.Path, bool, error)
	Put(ctx context.Context, key string, path domain.Path) error
}
