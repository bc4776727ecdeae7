package dto

type CourierResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	CurrentX         int             `json:"current_x"`
	CurrentY         int             `json:"current_y"`
	AssignedOrderIDs []int64         `json:"assigned_order_ids"`
	ActivePath       []PointResponse `json:"active_path"`
}

type ListCouriersResponse struct {
	Couriers []CourierResponse `json:"couriers"`
}

type CourierOverviewResponse struct {
	Courier CourierResponse `json:"courier"`
	Orders  []OrderResponse `json:"orders"`
	Route   RouteResponse   `json:"route"`
}
