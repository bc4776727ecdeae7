package ports

import (
	"context"
	"grid-dispatch-service/internal/domain"
)

// Sink for order lifecycle events. Publishing is best effort for callers.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.DispatchEvent) error
	Close() error
}
