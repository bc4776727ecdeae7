package cache

import (
	"encoding/json"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"math"
	"time"
)

// pathRecord is the stored form of a path. JSON has no infinity, so an
// unreachable result is flagged instead of carrying its distance.
type pathRecord struct {
	Points     [][2]int `json:"points"`
	Distance   float64  `json:"distance"`
	Infeasible bool     `json:"infeasible,omitempty"`
	Visited    int      `json:"visited"`
	ElapsedNs  int64    `json:"elapsed_ns"`
}

func encodePath(p domain.Path) ([]byte, error) {
	rec := pathRecord{
		Points:    make([][2]int, len(p.Points)),
		Visited:   p.Visited,
		ElapsedNs: int64(p.Elapsed),
	}
	for i, q := range p.Points {
		rec.Points[i] = [2]int{q.X, q.Y}
	}
	if p.Feasible() {
		rec.Distance = p.Distance
	} else {
		rec.Infeasible = true
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode path: %w", err)
	}
	return b, nil
}

func decodePath(b []byte) (domain.Path, error) {
	var rec pathRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.Path{}, fmt.Errorf("decode path: %w", err)
	}

	p := domain.Path{
		Distance: rec.Distance,
		Visited:  rec.Visited,
		Elapsed:  time.Duration(rec.ElapsedNs),
	}
	if rec.Infeasible {
		p.Distance = math.Inf(1)
	}
	if len(rec.Points) > 0 {
		p.Points = make([]domain.Point, len(rec.Points))
		for i, xy := range rec.Points {
			p.Points[i] = domain.Point{X: xy[0], Y: xy[1]}
		}
	}
	return p, nil
}
