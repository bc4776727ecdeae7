package domain

import (
	"math"
	"time"
)

// Path is the result of a point-to-point search or a multi-stop composition.
// An infeasible route is a normal result: no points and an infinite distance.
type Path struct {
	Points   []Point
	Distance float64
	Visited  int
	Elapsed  time.Duration
}

// Infeasible builds the sentinel "no route" result.
func Infeasible(visited int, elapsed time.Duration) Path {
	return Path{Distance: math.Inf(1), Visited: visited, Elapsed: elapsed}
}

func (p Path) Feasible() bool {
	return !math.IsInf(p.Distance, 1)
}

type StopRole string

const (
	StopPickup   StopRole = "PICKUP"
	StopDelivery StopRole = "DELIVERY"
)

// Represents a coordinate a multi-stop route must visit.
// Role is informational only and never affects cost.
type Stop struct {
	Point
	Label   string   `json:"label"`
	Role    StopRole `json:"role,omitempty"`
	OrderID int64    `json:"order_id,omitempty"`
}
