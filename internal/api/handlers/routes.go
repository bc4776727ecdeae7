package handlers

import (
	"fmt"
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/services"
	"net/http"
	"strings"
)

// MaxAdHocCells caps the size of a request-supplied grid.
const MaxAdHocCells = 250_000

// RouteHandler serves point-to-point and multi-stop route queries.
type RouteHandler struct {
	City       services.City
	Finder     *services.PathFinder
	Strategies *services.StrategyRegistry
}

// Route searches a grid described entirely by the request body.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if tooManyCells(req.GridWidth, req.GridHeight) {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("grid must have at most %d cells", MaxAdHocCells))
		return
	}

	grid, err := domain.NewGrid(req.GridWidth, req.GridHeight)
	if err != nil {
		writeServiceError(w, r, "route", err)
		return
	}
	grid.Apply(toCellOverrides(req.Cells))

	start := domain.Point{X: req.StartX, Y: req.StartY}
	goal := domain.Point{X: req.EndX, Y: req.EndY}

	path, err := services.FindPath(grid, start, goal, services.ParseHeuristic(req.Heuristic))
	if err != nil {
		writeServiceError(w, r, "route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(path))
}

// tooManyCells compares against the cap without multiplying first, so huge
// dimensions cannot wrap around it. Non-positive sizes are left to NewGrid.
func tooManyCells(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return w > MaxAdHocCells || h > MaxAdHocCells/w
}

// FromRestaurant searches the city grid starting at a restaurant.
func (h *RouteHandler) FromRestaurant(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteFromRestaurantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rest, ok := h.City.Restaurant(strings.TrimSpace(req.RestaurantID))
	if !ok {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown restaurant id %q", req.RestaurantID))
		return
	}

	goal := domain.Point{X: req.EndX, Y: req.EndY}
	path, err := h.Finder.Find(r.Context(), h.City.Grid(), rest.Location, goal, services.ParseHeuristic(req.Heuristic))
	if err != nil {
		writeServiceError(w, r, "route from restaurant", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(path))
}

// MultiStop orders the requested stops with a strategy and composes one
// route through them from a restaurant.
func (h *RouteHandler) MultiStop(w http.ResponseWriter, r *http.Request) {
	var req dto.MultiStopRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rest, ok := h.City.Restaurant(strings.TrimSpace(req.RestaurantID))
	if !ok {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown restaurant id %q", req.RestaurantID))
		return
	}

	stops := make([]domain.Stop, 0, len(req.Stops))
	for i, s := range req.Stops {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			label = fmt.Sprintf("Stop #%d", i+1)
		}
		stops = append(stops, domain.Stop{
			Point: domain.Point{X: s.X, Y: s.Y},
			Label: label,
			Role:  domain.StopDelivery,
		})
	}

	heuristic := services.ParseHeuristic(req.Heuristic)
	strategy := h.Strategies.Resolve(req.Strategy)
	ordered := strategy.Order(stops, rest.Location)

	path, err := h.Finder.Compose(r.Context(), h.City.Grid(), rest.Location, ordered, heuristic)
	if err != nil {
		writeServiceError(w, r, "multi-stop route", err)
		return
	}

	res := dto.MultiStopRouteResponse{
		RouteResponse: toRouteResponse(path),
		Strategy:      strategy.Name(),
		Heuristic:     heuristic.String(),
		StopOrder:     make([]dto.StopResponse, 0, len(ordered)),
	}
	for _, s := range ordered {
		res.StopOrder = append(res.StopOrder, dto.StopResponse{
			X:       s.X,
			Y:       s.Y,
			Label:   s.Label,
			Role:    string(s.Role),
			OrderID: s.OrderID,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
