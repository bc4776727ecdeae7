package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/domain"
	"io"
	"log"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain sentinels to HTTP statuses. Anything
// unrecognized is logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoFeasibleCourier):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid order id %q: %w", raw, domain.ErrInvalidInput)
	}
	return id, nil
}

func toPoints(pts []domain.Point) []dto.PointResponse {
	out := make([]dto.PointResponse, 0, len(pts))
	for _, p := range pts {
		out = append(out, dto.PointResponse{X: p.X, Y: p.Y})
	}
	return out
}

func toRouteResponse(p domain.Path) dto.RouteResponse {
	res := dto.RouteResponse{
		Path:         toPoints(p.Points),
		Feasible:     p.Feasible(),
		VisitedNodes: p.Visited,
		TimeMs:       p.Elapsed.Milliseconds(),
	}
	if res.Feasible {
		d := p.Distance
		res.TotalDistance = &d
	}
	return res
}

func toOrderResponse(o *domain.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                o.ID,
		RestaurantID:      o.RestaurantID,
		X:                 o.Destination.X,
		Y:                 o.Destination.Y,
		Label:             o.Label,
		Status:            string(o.Status),
		AssignedCourierID: o.AssignedCourierID,
		CreatedAt:         o.CreatedAt,
		DeliveredAt:       o.DeliveredAt,
	}
}

func toCourierResponse(c *domain.Courier) dto.CourierResponse {
	ids := c.AssignedOrderIDs
	if ids == nil {
		ids = []int64{}
	}
	return dto.CourierResponse{
		ID:               c.ID,
		Name:             c.Name,
		CurrentX:         c.Position.X,
		CurrentY:         c.Position.Y,
		AssignedOrderIDs: ids,
		ActivePath:       toPoints(c.ActivePath),
	}
}

func toCellOverrides(cells []dto.CellRequest) []domain.CellOverride {
	out := make([]domain.CellOverride, 0, len(cells))
	for _, c := range cells {
		out = append(out, domain.CellOverride{X: c.X, Y: c.Y, Obstacle: c.Obstacle, Weight: c.Weight})
	}
	return out
}
