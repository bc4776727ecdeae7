package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderNew       OrderStatus = "NEW"
	OrderAssigned  OrderStatus = "ASSIGNED"
	OrderDelivered OrderStatus = "DELIVERED"
)

// Represents a single food delivery handled by the system.
// An Order is picked up at a restaurant and dropped at Destination.
// Status only ever moves forward: NEW -> ASSIGNED -> DELIVERED.
type Order struct {
	ID                int64
	RestaurantID      string
	Destination       Point
	Label             string
	Status            OrderStatus
	AssignedCourierID string
	CreatedAt         time.Time
	DeliveredAt       *time.Time
}

func NewOrder(id int64, restaurantID string, dest Point, label string, now time.Time) *Order {
	if label == "" {
		label = fmt.Sprintf("Order #%d", id)
	}
	return &Order{
		ID:           id,
		RestaurantID: restaurantID,
		Destination:  dest,
		Label:        label,
		Status:       OrderNew,
		CreatedAt:    now,
	}
}

func statusRank(s OrderStatus) int {
	switch s {
	case OrderNew:
		return 0
	case OrderAssigned:
		return 1
	case OrderDelivered:
		return 2
	default:
		return -1
	}
}

// Transition moves the order to the next status. Skipping ASSIGNED or moving
// backwards fails with ErrInvalidState.
func (o *Order) Transition(next OrderStatus) error {
	from, to := statusRank(o.Status), statusRank(next)
	if to < 0 || to != from+1 {
		return fmt.Errorf("order %d: transition %s -> %s: %w", o.ID, o.Status, next, ErrInvalidState)
	}
	o.Status = next
	return nil
}

// AssignTo marks a NEW order as ASSIGNED to the given courier.
func (o *Order) AssignTo(courierID string) error {
	if o.Status != OrderNew {
		return fmt.Errorf("order %d is not NEW (current status: %s): %w", o.ID, o.Status, ErrInvalidState)
	}
	if err := o.Transition(OrderAssigned); err != nil {
		return err
	}
	o.AssignedCourierID = courierID
	return nil
}

// MarkDelivered is a no-op for orders already delivered.
func (o *Order) MarkDelivered(at time.Time) error {
	if o.Status == OrderDelivered {
		return nil
	}
	if err := o.Transition(OrderDelivered); err != nil {
		return err
	}
	o.DeliveredAt = &at
	return nil
}

// Clone copies the order including its DeliveredAt timestamp.
func (o *Order) Clone() *Order {
	c := *o
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		c.DeliveredAt = &t
	}
	return &c
}
