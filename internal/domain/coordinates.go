package domain

import "fmt"

// Immutable grid coordinate (column X, row Y).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Manhattan returns |dx|+|dy| between two points.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Adjacent reports whether q is one of the four orthogonal neighbors of p.
func (p Point) Adjacent(q Point) bool {
	return p.Manhattan(q) == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
