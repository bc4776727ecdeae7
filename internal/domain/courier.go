package domain

// Courier moves across the city one cell per tick, carrying assigned orders
// along ActivePath (the remaining coordinates, next step first).
type Courier struct {
	ID               string
	Name             string
	Position         Point
	AssignedOrderIDs []int64
	ActivePath       []Point
}

func NewCourier(id, name string, pos Point) *Courier {
	return &Courier{
		ID:       id,
		Name:     name,
		Position: pos,
	}
}

// Load is the number of orders currently carried.
func (c *Courier) Load() int {
	return len(c.AssignedOrderIDs)
}

func (c *Courier) AssignOrder(orderID int64) {
	c.AssignedOrderIDs = append(c.AssignedOrderIDs, orderID)
}

// SetRoute stores a computed route as the active path. A route that starts at
// the courier's current position has that point dropped so the first tick
// always moves.
func (c *Courier) SetRoute(points []Point) {
	if len(points) > 0 && points[0] == c.Position {
		points = points[1:]
	}
	c.ActivePath = append([]Point(nil), points...)
}

// Advance moves one cell along the active path. It reports whether the courier
// moved and whether the path was completed by this step.
func (c *Courier) Advance() (moved, arrived bool) {
	if len(c.ActivePath) == 0 {
		return false, false
	}
	c.Position = c.ActivePath[0]
	c.ActivePath = c.ActivePath[1:]
	if len(c.ActivePath) == 0 {
		c.ActivePath = nil
		return true, true
	}
	return true, false
}

// Clear drops all assigned orders.
func (c *Courier) Clear() {
	c.AssignedOrderIDs = nil
}

func (c *Courier) Clone() *Courier {
	cp := *c
	cp.AssignedOrderIDs = append([]int64(nil), c.AssignedOrderIDs...)
	cp.ActivePath = append([]Point(nil), c.ActivePath...)
	return &cp
}
