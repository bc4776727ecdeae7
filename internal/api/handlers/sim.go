package handlers

import (
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/ports"
	"grid-dispatch-service/internal/services"
	"net/http"
)

type SimHandler struct {
	Fleet    *services.Fleet
	Couriers ports.CourierRepository
}

// Step advances every courier by one cell and returns the new fleet state.
func (h *SimHandler) Step(w http.ResponseWriter, r *http.Request) {
	if err := h.Fleet.Step(r.Context()); err != nil {
		writeServiceError(w, r, "sim step", err)
		return
	}

	couriers, err := h.Couriers.ListCouriers(r.Context())
	if err != nil {
		writeServiceError(w, r, "sim step", err)
		return
	}

	res := dto.ListCouriersResponse{Couriers: make([]dto.CourierResponse, 0, len(couriers))}
	for _, c := range couriers {
		res.Couriers = append(res.Couriers, toCourierResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}
