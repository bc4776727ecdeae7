package api

import (
	"grid-dispatch-service/internal/api/handlers"
	"grid-dispatch-service/internal/ports"
	"grid-dispatch-service/internal/services"
	"net/http"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Fleet    *services.Fleet
	City     handlers.CityMap
	Store    ports.FleetStore
	EventLog handlers.OrderEventLog // optional
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		City:       d.City,
		Finder:     d.Fleet.Finder(),
		Strategies: d.Fleet.Strategies(),
	}
	cityHandler := &handlers.CityHandler{City: d.City}
	orderHandler := &handlers.OrderHandler{Fleet: d.Fleet, Orders: d.Store, EventLog: d.EventLog}
	courierHandler := &handlers.CourierHandler{Fleet: d.Fleet, Couriers: d.Store}
	simHandler := &handlers.SimHandler{Fleet: d.Fleet, Couriers: d.Store}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /api/route", routeHandler.Route)
	mux.HandleFunc("POST /api/route/from-restaurant", routeHandler.FromRestaurant)
	mux.HandleFunc("POST /api/route/multi-stop", routeHandler.MultiStop)

	mux.HandleFunc("GET /api/city/layout", cityHandler.Layout)
	mux.HandleFunc("POST /api/city/cells", cityHandler.OverrideCells)
	mux.HandleFunc("GET /api/restaurants", cityHandler.Restaurants)

	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.Get)
	mux.HandleFunc("POST /api/orders/{id}/assign", orderHandler.Assign)
	mux.HandleFunc("GET /api/orders/{id}/events", orderHandler.Events)

	mux.HandleFunc("GET /api/couriers", courierHandler.List)
	mux.HandleFunc("GET /api/couriers/{id}/route", courierHandler.Route)
	mux.HandleFunc("GET /api/couriers/{id}/overview", courierHandler.Overview)

	mux.HandleFunc("POST /api/sim/step", simHandler.Step)

	return requestIDMiddleware(loggingMiddleware(mux))
}
