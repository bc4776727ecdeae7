package domain

import "time"

type EventType string

const (
	EventOrderCreated   EventType = "order.created"
	EventOrderAssigned  EventType = "order.assigned"
	EventOrderDelivered EventType = "order.delivered"
)

// DispatchEvent is published whenever an order changes lifecycle state.
type DispatchEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OrderID    int64     `json:"order_id"`
	CourierID  string    `json:"courier_id,omitempty"`
	Distance   float64   `json:"distance,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
