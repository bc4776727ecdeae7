package dto

type PointResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type CellRequest struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Obstacle bool    `json:"obstacle"`
	Weight   float64 `json:"weight"`
}

// RouteRequest searches an ad hoc grid built from the request.
type RouteRequest struct {
	GridWidth  int           `json:"grid_width"`
	GridHeight int           `json:"grid_height"`
	StartX     int           `json:"start_x"`
	StartY     int           `json:"start_y"`
	EndX       int           `json:"end_x"`
	EndY       int           `json:"end_y"`
	Heuristic  string        `json:"heuristic"`
	Cells      []CellRequest `json:"cells"`
}

type RouteFromRestaurantRequest struct {
	RestaurantID string `json:"restaurant_id"`
	EndX         int    `json:"end_x"`
	EndY         int    `json:"end_y"`
	Heuristic    string `json:"heuristic"`
}

type StopRequest struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
}

type MultiStopRouteRequest struct {
	RestaurantID string        `json:"restaurant_id"`
	Stops        []StopRequest `json:"stops"`
	Heuristic    string        `json:"heuristic"`
	Strategy     string        `json:"strategy"`
}

// RouteResponse reports total_distance as null when no route exists.
type RouteResponse struct {
	Path          []PointResponse `json:"path"`
	Feasible      bool            `json:"feasible"`
	TotalDistance *float64        `json:"total_distance"`
	VisitedNodes  int             `json:"visited_nodes"`
	TimeMs        int64           `json:"time_ms"`
}

type MultiStopRouteResponse struct {
	RouteResponse
	Strategy  string         `json:"strategy"`
	Heuristic string         `json:"heuristic"`
	StopOrder []StopResponse `json:"stop_order"`
}

type StopResponse struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Label   string `json:"label"`
	Role    string `json:"role,omitempty"`
	OrderID int64  `json:"order_id,omitempty"`
}
