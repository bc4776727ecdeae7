package handlers

import (
	"context"
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/ports"
	"grid-dispatch-service/internal/services"
	"net/http"
)

// OrderEventLog reads the audit trail of an order.
type OrderEventLog interface {
	ListOrderEvents(ctx context.Context, orderID int64) ([]domain.DispatchEvent, error)
}

type OrderHandler struct {
	Fleet    *services.Fleet
	Orders   ports.OrderRepository
	EventLog OrderEventLog // optional
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.Fleet.CreateOrder(r.Context(), req.RestaurantID, domain.Point{X: req.X, Y: req.Y}, req.Label)
	if err != nil {
		writeServiceError(w, r, "create order", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, "list orders", err)
		return
	}

	res := dto.ListOrdersResponse{Orders: make([]dto.OrderResponse, 0, len(orders))}
	for _, o := range orders {
		res.Orders = append(res.Orders, toOrderResponse(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "get order", err)
		return
	}

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get order", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toOrderResponse(order))
}

// Assign dispatches the order to the best courier.
func (h *OrderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "assign order", err)
		return
	}

	order, courier, route, err := h.Fleet.Assign(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "assign order", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AssignmentResponse{
		Order:   toOrderResponse(order),
		Courier: toCourierResponse(courier),
		Route:   toRouteResponse(route),
	})
}

func (h *OrderHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "order events", err)
		return
	}
	if _, err := h.Orders.GetOrder(r.Context(), id); err != nil {
		writeServiceError(w, r, "order events", err)
		return
	}

	res := dto.ListEventsResponse{Events: []dto.EventResponse{}}
	if h.EventLog != nil {
		evts, err := h.EventLog.ListOrderEvents(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "order events", err)
			return
		}
		for _, e := range evts {
			res.Events = append(res.Events, dto.EventResponse{
				ID:         e.ID,
				Type:       string(e.Type),
				OrderID:    e.OrderID,
				CourierID:  e.CourierID,
				Distance:   e.Distance,
				OccurredAt: e.OccurredAt,
			})
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
