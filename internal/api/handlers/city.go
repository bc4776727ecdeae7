package handlers

import (
	"context"
	"grid-dispatch-service/internal/adapters/terrain"
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/services"
	"net/http"
)

// CityMap is the live city with its rendered layout and admin overrides.
type CityMap interface {
	services.City
	Layout() []terrain.Cell
	Override(ctx context.Context, cells []domain.CellOverride) (uint64, error)
}

type CityHandler struct {
	City CityMap
}

func (h *CityHandler) Layout(w http.ResponseWriter, r *http.Request) {
	g := h.City.Grid()
	cells := h.City.Layout()

	res := dto.CityLayoutResponse{
		Width:   g.Width(),
		Height:  g.Height(),
		Version: g.Version(),
		Cells:   make([]dto.CityCellResponse, 0, len(cells)),
	}
	for _, c := range cells {
		res.Cells = append(res.Cells, dto.CityCellResponse{
			X:        c.X,
			Y:        c.Y,
			Type:     string(c.Type),
			Obstacle: c.Obstacle,
			Weight:   c.Weight,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// OverrideCells swaps in a new grid version with the given cells changed.
func (h *CityHandler) OverrideCells(w http.ResponseWriter, r *http.Request) {
	var req dto.OverrideCellsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Cells) == 0 {
		writeError(w, r, http.StatusBadRequest, "cells must not be empty")
		return
	}

	version, err := h.City.Override(r.Context(), toCellOverrides(req.Cells))
	if err != nil {
		writeServiceError(w, r, "override cells", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OverrideCellsResponse{Version: version, Applied: len(req.Cells)})
}

func (h *CityHandler) Restaurants(w http.ResponseWriter, r *http.Request) {
	rs := h.City.Restaurants()

	res := dto.ListRestaurantsResponse{Restaurants: make([]dto.RestaurantResponse, 0, len(rs))}
	for _, rest := range rs {
		res.Restaurants = append(res.Restaurants, dto.RestaurantResponse{
			ID:   rest.ID,
			Name: rest.Name,
			X:    rest.Location.X,
			Y:    rest.Location.Y,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
