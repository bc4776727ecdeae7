package services

import (
	"container/heap"
	"context"
	"fmt"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/ports"
	"log"
	"math"
	"sync"
	"time"
)

// 4-connected moves: right, left, down, up.
var neighborOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// searchNode is per-search state stored in an arena indexed by y*width+x.
type searchNode struct {
	g      float64
	h      float64
	parent int // arena index, -1 for none
	closed bool
	seen   bool
}

type openItem struct {
	idx int
	f   float64
	seq uint64 // discovery order; breaks f ties
}

type openSet []openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)   { *o = append(*o, x.(openItem)) }
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	it := old[n-1]
	*o = old[:n-1]
	return it
}

// FindPath runs A* from start to goal.
//
// Entering a cell costs that cell's weight. Superseded heap entries are
// skipped when popped instead of being removed (lazy deletion). An
// unreachable goal is not an error: the result has no points and an
// infinite distance.
func FindPath(grid *domain.Grid, start, goal domain.Point, h Heuristic) (domain.Path, error) {
	if grid == nil {
		return domain.Path{}, fmt.Errorf("find path: grid is nil: %w", domain.ErrInvalidInput)
	}
	if !grid.Contains(start) {
		return domain.Path{}, fmt.Errorf("find path: start %v outside %dx%d grid: %w", start, grid.Width(), grid.Height(), domain.ErrInvalidInput)
	}
	if !grid.Contains(goal) {
		return domain.Path{}, fmt.Errorf("find path: goal %v outside %dx%d grid: %w", goal, grid.Width(), grid.Height(), domain.ErrInvalidInput)
	}

	began := time.Now()
	width := grid.Width()
	nodes := make([]searchNode, width*grid.Height())
	for i := range nodes {
		nodes[i].g = math.Inf(1)
		nodes[i].parent = -1
	}

	startIdx := start.Y*width + start.X
	goalIdx := goal.Y*width + goal.X

	var seq uint64
	open := &openSet{}

	nodes[startIdx].g = 0
	nodes[startIdx].h = h.Estimate(start, goal)
	nodes[startIdx].seen = true
	heap.Push(open, openItem{idx: startIdx, f: nodes[startIdx].h, seq: seq})

	visited := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem)
		node := &nodes[cur.idx]
		if node.closed {
			continue
		}
		node.closed = true
		visited++

		if cur.idx == goalIdx {
			return domain.Path{
				Points:   reconstruct(nodes, goalIdx, width),
				Distance: node.g,
				Visited:  visited,
				Elapsed:  time.Since(began),
			}, nil
		}

		cx, cy := cur.idx%width, cur.idx/width
		for _, off := range neighborOffsets {
			nx, ny := cx+off[0], cy+off[1]
			if grid.IsObstacle(nx, ny) {
				continue
			}

			nIdx := ny*width + nx
			next := &nodes[nIdx]
			if next.closed {
				continue
			}

			tentative := node.g + grid.Weight(nx, ny)
			if tentative >= next.g {
				continue
			}

			if !next.seen {
				next.h = h.Estimate(domain.Point{X: nx, Y: ny}, goal)
				next.seen = true
			}
			next.g = tentative
			next.parent = cur.idx

			seq++
			heap.Push(open, openItem{idx: nIdx, f: tentative + next.h, seq: seq})
		}
	}

	return domain.Infeasible(visited, time.Since(began)), nil
}

func reconstruct(nodes []searchNode, goalIdx, width int) []domain.Point {
	var points []domain.Point
	for idx := goalIdx; idx != -1; idx = nodes[idx].parent {
		points = append(points, domain.Point{X: idx % width, Y: idx / width})
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}

// PathFinder wraps FindPath with an optional result cache.
// Cached and uncached lookups return the same path. Grids handed to a
// PathFinder must not be mutated afterwards.
type PathFinder struct {
	cache ports.PathCache

	mu     sync.Mutex
	fpGrid *domain.Grid
	fp     uint64
}

func NewPathFinder(cache ports.PathCache) *PathFinder {
	return &PathFinder{cache: cache}
}

// fingerprint memoizes the hash of the most recently seen grid.
func (f *PathFinder) fingerprint(grid *domain.Grid) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fpGrid != grid {
		f.fp = grid.Fingerprint()
		f.fpGrid = grid
	}
	return f.fp
}

func (f *PathFinder) cacheKey(grid *domain.Grid, start, goal domain.Point, h Heuristic) string {
	return fmt.Sprintf("%016x:%s:%d,%d>%d,%d", f.fingerprint(grid), h, start.X, start.Y, goal.X, goal.Y)
}

func (f *PathFinder) Find(ctx context.Context, grid *domain.Grid, start, goal domain.Point, h Heuristic) (domain.Path, error) {
	if f == nil || f.cache == nil || grid == nil {
		return FindPath(grid, start, goal, h)
	}

	key := f.cacheKey(grid, start, goal, h)
	if p, ok, err := f.cache.Get(ctx, key); err != nil {
		log.Printf("path cache get failed key=%s err=%v", key, err)
	} else if ok {
		return p, nil
	}

	p, err := FindPath(grid, start, goal, h)
	if err != nil {
		return domain.Path{}, err
	}

	// Best-effort cache write.
	if err := f.cache.Put(ctx, key, p); err != nil {
		log.Printf("path cache put failed key=%s err=%v", key, err)
	}
	return p, nil
}
