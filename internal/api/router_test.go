package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"grid-dispatch-service/internal/adapters/cache"
	"grid-dispatch-service/internal/adapters/repositories"
	"grid-dispatch-service/internal/adapters/terrain"
	"grid-dispatch-service/internal/api/dto"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	city := terrain.NewCity(nil)
	store := repositories.NewMemoryStore()
	for _, s := range terrain.DefaultCouriers() {
		require.NoError(t, store.SaveCourier(context.Background(), domain.NewCourier(s.ID, s.Name, domain.Point{X: s.X, Y: s.Y})))
	}

	fleet := services.NewFleet(store, city, services.NewPathFinder(cache.NewMemoryPathCache(256)), nil, services.FleetConfig{
		Heuristic:       services.Manhattan,
		Strategy:        services.StrategyNearestNeighbor,
		PenaltyPerOrder: services.DefaultLoadPenalty,
		ProbeWorkers:    2,
	})

	srv := httptest.NewServer(NewRouter(Deps{Fleet: fleet, City: city, Store: store}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "abc-123", res.Header.Get("X-Request-ID"))

	res2 := doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	require.NotEmpty(t, res2.Header.Get("X-Request-ID"))
}

func TestRoute_AdHocGrid(t *testing.T) {
	srv := newTestServer(t)

	var out dto.RouteResponse
	res := doJSON(t, srv, http.MethodPost, "/api/route", dto.RouteRequest{
		GridWidth: 5, GridHeight: 5, StartX: 0, StartY: 0, EndX: 4, EndY: 4, Heuristic: "manhattan",
	}, &out)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, out.Feasible)
	require.NotNil(t, out.TotalDistance)
	require.Equal(t, 8.0, *out.TotalDistance)
	require.Len(t, out.Path, 9)
}

func TestRoute_AdHocGridBlocked(t *testing.T) {
	srv := newTestServer(t)

	cells := make([]dto.CellRequest, 0, 5)
	for y := 0; y < 5; y++ {
		cells = append(cells, dto.CellRequest{X: 2, Y: y, Obstacle: true})
	}

	var out dto.RouteResponse
	res := doJSON(t, srv, http.MethodPost, "/api/route", dto.RouteRequest{
		GridWidth: 5, GridHeight: 5, EndX: 4, EndY: 4, Cells: cells,
	}, &out)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.False(t, out.Feasible)
	require.Nil(t, out.TotalDistance)
	require.Empty(t, out.Path)
}

func TestRoute_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"zero grid", "/api/route", dto.RouteRequest{GridWidth: 0, GridHeight: 5}},
		{"start off grid", "/api/route", dto.RouteRequest{GridWidth: 5, GridHeight: 5, StartX: 9}},
		{"unknown field", "/api/route", map[string]any{"grid_width": 5, "nope": 1}},
		{"dimensions wrap to zero", "/api/route", map[string]any{"grid_width": int64(1) << 32, "grid_height": int64(1) << 32}},
		{"dimensions over cap", "/api/route", dto.RouteRequest{GridWidth: 1000, GridHeight: 1000}},
		{"unknown restaurant", "/api/route/from-restaurant", dto.RouteFromRestaurantRequest{RestaurantID: "tacotown"}},
		{"goal off city", "/api/route/from-restaurant", dto.RouteFromRestaurantRequest{RestaurantID: "pizzaplanet", EndX: 99}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := doJSON(t, srv, http.MethodPost, tc.path, tc.body, nil)
			require.Equal(t, http.StatusBadRequest, res.StatusCode)
		})
	}
}

func TestRoute_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	res := doJSON(t, srv, http.MethodGet, "/api/route", nil, nil)
	require.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestRoute_FromRestaurant(t *testing.T) {
	srv := newTestServer(t)

	var out dto.RouteResponse
	res := doJSON(t, srv, http.MethodPost, "/api/route/from-restaurant", dto.RouteFromRestaurantRequest{
		RestaurantID: "PizzaPlanet", EndX: 1, EndY: 2,
	}, &out)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, out.Feasible)
	require.Equal(t, dto.PointResponse{X: 5, Y: 4}, out.Path[0])
	require.Equal(t, dto.PointResponse{X: 1, Y: 2}, out.Path[len(out.Path)-1])
}

func TestRoute_MultiStopNearestNeighbor(t *testing.T) {
	srv := newTestServer(t)

	var out dto.MultiStopRouteResponse
	res := doJSON(t, srv, http.MethodPost, "/api/route/multi-stop", dto.MultiStopRouteRequest{
		RestaurantID: "pizzaplanet",
		Stops: []dto.StopRequest{
			{X: 15, Y: 4, Label: "far"},
			{X: 6, Y: 3, Label: "near"},
		},
		Strategy: "nearest_neighbor",
	}, &out)

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, services.StrategyNearestNeighbor, out.Strategy)
	require.Equal(t, "MANHATTAN", out.Heuristic)
	require.Len(t, out.StopOrder, 2)
	require.Equal(t, "near", out.StopOrder[0].Label)
	require.Equal(t, "far", out.StopOrder[1].Label)
	require.True(t, out.Feasible)
	require.Equal(t, dto.PointResponse{X: 15, Y: 4}, out.Path[len(out.Path)-1])
}

func TestCity_LayoutRestaurantsAndOverride(t *testing.T) {
	srv := newTestServer(t)

	var layout dto.CityLayoutResponse
	res := doJSON(t, srv, http.MethodGet, "/api/city/layout", nil, &layout)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, terrain.CityWidth, layout.Width)
	require.Equal(t, terrain.CityHeight, layout.Height)
	require.Len(t, layout.Cells, terrain.CityWidth*terrain.CityHeight)

	var rs dto.ListRestaurantsResponse
	doJSON(t, srv, http.MethodGet, "/api/restaurants", nil, &rs)
	require.Len(t, rs.Restaurants, 3)

	var ov dto.OverrideCellsResponse
	res = doJSON(t, srv, http.MethodPost, "/api/city/cells", dto.OverrideCellsRequest{
		Cells: []dto.CellRequest{{X: 0, Y: 0, Obstacle: true}},
	}, &ov)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Greater(t, ov.Version, layout.Version)
	require.Equal(t, 1, ov.Applied)

	res = doJSON(t, srv, http.MethodPost, "/api/city/cells", dto.OverrideCellsRequest{
		Cells: []dto.CellRequest{{X: -1, Y: 0}},
	}, nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOrders_CreateAssignAndDeliver(t *testing.T) {
	srv := newTestServer(t)

	var created dto.OrderResponse
	res := doJSON(t, srv, http.MethodPost, "/api/orders", dto.CreateOrderRequest{
		RestaurantID: "pizzaplanet", X: 1, Y: 2,
	}, &created)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "Order #1", created.Label)
	require.Equal(t, "NEW", created.Status)

	var assigned dto.AssignmentResponse
	res = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/orders/%d/assign", created.ID), nil, &assigned)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ASSIGNED", assigned.Order.Status)
	require.Equal(t, "c1", assigned.Courier.ID)
	require.Equal(t, []int64{created.ID}, assigned.Courier.AssignedOrderIDs)
	require.True(t, assigned.Route.Feasible)

	res = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/orders/%d/assign", created.ID), nil, nil)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	var overview dto.CourierOverviewResponse
	res = doJSON(t, srv, http.MethodGet, "/api/couriers/c1/overview?strategy=IN_ORDER", nil, &overview)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, overview.Orders, 1)
	require.True(t, overview.Route.Feasible)

	var got dto.OrderResponse
	for i := 0; i < 200 && got.Status != "DELIVERED"; i++ {
		res = doJSON(t, srv, http.MethodPost, "/api/sim/step", nil, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), nil, &got)
	}
	require.Equal(t, "DELIVERED", got.Status)
	require.NotNil(t, got.DeliveredAt)

	var couriers dto.ListCouriersResponse
	doJSON(t, srv, http.MethodGet, "/api/couriers", nil, &couriers)
	require.Len(t, couriers.Couriers, 3)
	require.Equal(t, dto.PointResponse{X: 1, Y: 2}, dto.PointResponse{X: couriers.Couriers[0].CurrentX, Y: couriers.Couriers[0].CurrentY})
	require.Empty(t, couriers.Couriers[0].AssignedOrderIDs)

	var evts dto.ListEventsResponse
	res = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/orders/%d/events", created.ID), nil, &evts)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Empty(t, evts.Events)
}

func TestOrders_ErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad id", http.MethodGet, "/api/orders/abc", nil, http.StatusBadRequest},
		{"unknown order", http.MethodGet, "/api/orders/42", nil, http.StatusNotFound},
		{"assign unknown", http.MethodPost, "/api/orders/42/assign", nil, http.StatusNotFound},
		{"events unknown", http.MethodGet, "/api/orders/42/events", nil, http.StatusNotFound},
		{"create off grid", http.MethodPost, "/api/orders", dto.CreateOrderRequest{RestaurantID: "pizzaplanet", X: 100}, http.StatusBadRequest},
		{"unknown courier", http.MethodGet, "/api/couriers/c9/route", nil, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := doJSON(t, srv, tc.method, tc.path, tc.body, nil)
			require.Equal(t, tc.want, res.StatusCode)
		})
	}
}
