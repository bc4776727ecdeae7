package handlers

import (
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/ports"
	"grid-dispatch-service/internal/services"
	"net/http"
)

type CourierHandler struct {
	Fleet    *services.Fleet
	Couriers ports.CourierRepository
}

func (h *CourierHandler) List(w http.ResponseWriter, r *http.Request) {
	couriers, err := h.Couriers.ListCouriers(r.Context())
	if err != nil {
		writeServiceError(w, r, "list couriers", err)
		return
	}

	res := dto.ListCouriersResponse{Couriers: make([]dto.CourierResponse, 0, len(couriers))}
	for _, c := range couriers {
		res.Couriers = append(res.Couriers, toCourierResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Route recomputes the courier's route over its current orders.
// Optional query params: heuristic, strategy.
func (h *CourierHandler) Route(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	_, _, path, err := h.Fleet.CourierRoute(r.Context(), r.PathValue("id"), q.Get("heuristic"), q.Get("strategy"))
	if err != nil {
		writeServiceError(w, r, "courier route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(path))
}

func (h *CourierHandler) Overview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courier, orders, path, err := h.Fleet.CourierRoute(r.Context(), r.PathValue("id"), q.Get("heuristic"), q.Get("strategy"))
	if err != nil {
		writeServiceError(w, r, "courier overview", err)
		return
	}

	res := dto.CourierOverviewResponse{
		Courier: toCourierResponse(courier),
		Orders:  make([]dto.OrderResponse, 0, len(orders)),
		Route:   toRouteResponse(path),
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, toOrderResponse(o))
	}

	writeJSON(w, r, http.StatusOK, res)
}
