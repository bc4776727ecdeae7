package ports

import (
	"context"
	"grid-dispatch-service/internal/domain"
)

// Port: keyed order storage. Implementations hand out copies.
type OrderRepository interface {
	NextOrderID(ctx context.Context) (int64, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	SaveOrder(ctx context.Context, order *domain.Order) error
	// List orders sorted by id.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// Port: keyed courier storage. Implementations hand out copies.
type CourierRepository interface {
	GetCourier(ctx context.Context, id string) (*domain.Courier, error)
	SaveCourier(ctx context.Context, courier *domain.Courier) error
	// List couriers in roster order.
	ListCouriers(ctx context.Context) ([]*domain.Courier, error)
}

// Invoked by courier motion once a courier has consumed its whole route.
type DeliveryRecorder interface {
	// Mark every order assigned to the courier as DELIVERED and return their ids.
	MarkDeliveredForCourier(ctx context.Context, courierID string) ([]int64, error)
}

type FleetStore interface {
	OrderRepository
	CourierRepository
	DeliveryRecorder
	// Write an order and a courier as one step, so readers see both or neither.
	CommitAssignment(ctx context.Context, order *domain.Order, courier *domain.Courier) error
}
