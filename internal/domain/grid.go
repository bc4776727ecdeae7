package domain

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
)

const DefaultCellWeight = 1.0

// Grid is a width x height terrain of weighted, optionally blocked cells.
//
// A Grid is not safe for concurrent mutation. Once handed to a search it is
// treated as read-only; administrative overrides go through Clone so that a
// published grid is never written while a search is reading it.
type Grid struct {
	width     int
	height    int
	weights   []float64 // cost to enter a cell
	obstacles []bool
	version   uint64
}

func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new grid: width and height must be > 0, got %dx%d: %w", width, height, ErrInvalidInput)
	}
	if height > math.MaxInt/width {
		return nil, fmt.Errorf("new grid: %dx%d cells overflows: %w", width, height, ErrInvalidInput)
	}

	n := width * height
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = DefaultCellWeight
	}

	return &Grid{
		width:     width,
		height:    height,
		weights:   weights,
		obstacles: make([]bool, n),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Version increases every time a grid is cloned for an override.
func (g *Grid) Version() uint64 { return g.version }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// IsObstacle treats out-of-bounds cells as blocked.
func (g *Grid) IsObstacle(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.obstacles[g.index(x, y)]
}

// Weight is the cost of entering (x, y). Only valid in-bounds.
func (g *Grid) Weight(x, y int) float64 {
	return g.weights[g.index(x, y)]
}

// SetWeight ignores out-of-bounds writes and clamps non-positive weights to 1.0.
func (g *Grid) SetWeight(x, y int, weight float64) {
	if !g.InBounds(x, y) {
		return
	}
	if weight <= 0 {
		weight = DefaultCellWeight
	}
	g.weights[g.index(x, y)] = weight
}

// SetObstacle ignores out-of-bounds writes.
func (g *Grid) SetObstacle(x, y int, blocked bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.obstacles[g.index(x, y)] = blocked
}

func (g *Grid) Contains(p Point) bool { return g.InBounds(p.X, p.Y) }

// Clone returns an independent copy with a bumped version.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:     g.width,
		height:    g.height,
		weights:   make([]float64, len(g.weights)),
		obstacles: make([]bool, len(g.obstacles)),
		version:   g.version + 1,
	}
	copy(c.weights, g.weights)
	copy(c.obstacles, g.obstacles)
	return c
}

// Fingerprint hashes the dimensions and every cell. Two grids with the same
// terrain share a fingerprint regardless of how they were built.
func (g *Grid) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(g.width)<<32|uint64(g.height))
	h.Write(buf[:])
	for i, w := range g.weights {
		if g.obstacles[i] {
			w = -1
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(w))
		h.Write(buf[:])
	}
	return h.Sum64()
}

func (g *Grid) index(x, y int) int { return y*g.width + x }

// CellOverride is an administrative change to a single cell.
type CellOverride struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Obstacle bool    `json:"obstacle"`
	Weight   float64 `json:"weight"`
}

// Apply writes the overrides in order; out-of-bounds cells are skipped.
func (g *Grid) Apply(cells []CellOverride) {
	for _, c := range cells {
		if !g.InBounds(c.X, c.Y) {
			continue
		}
		g.SetObstacle(c.X, c.Y, c.Obstacle)
		g.SetWeight(c.X, c.Y, c.Weight)
	}
}
