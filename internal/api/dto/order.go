package dto

import "time"

type CreateOrderRequest struct {
	RestaurantID string `json:"restaurant_id"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Label        string `json:"label"`
}

type OrderResponse struct {
	ID                int64      `json:"id"`
	RestaurantID      string     `json:"restaurant_id"`
	X                 int        `json:"x"`
	Y                 int        `json:"y"`
	Label             string     `json:"label"`
	Status            string     `json:"status"`
	AssignedCourierID string     `json:"assigned_courier_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	DeliveredAt       *time.Time `json:"delivered_at"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type AssignmentResponse struct {
	Order   OrderResponse   `json:"order"`
	Courier CourierResponse `json:"courier"`
	Route   RouteResponse   `json:"route"`
}

type EventResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	CourierID  string    `json:"courier_id,omitempty"`
	Distance   float64   `json:"distance,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
}
