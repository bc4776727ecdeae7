package domain

import (
	"errors"
	"math"
	"testing"
)

func TestNewGridRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {math.MaxInt, 2}, {2, math.MaxInt/2 + 1}} {
		_, err := NewGrid(dims[0], dims[1])
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NewGrid(%d, %d) err = %v, want ErrInvalidInput", dims[0], dims[1], err)
		}
	}
}

func TestGridBoundaryBehavior(t *testing.T) {
	g, err := NewGrid(3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !g.IsObstacle(-1, 0) || !g.IsObstacle(3, 0) || !g.IsObstacle(0, 2) {
		t.Errorf("out-of-bounds cells should report blocked")
	}
	if g.IsObstacle(2, 1) {
		t.Errorf("fresh in-bounds cell should not be blocked")
	}

	// out-of-bounds writes are silently ignored
	g.SetObstacle(10, 10, true)
	g.SetWeight(-4, 0, 9)

	if w := g.Weight(1, 1); w != DefaultCellWeight {
		t.Errorf("Weight(1,1) = %v, want %v", w, DefaultCellWeight)
	}
}

func TestGridSetWeightClampsNonPositive(t *testing.T) {
	g, _ := NewGrid(2, 2)

	g.SetWeight(0, 0, 0.7)
	if w := g.Weight(0, 0); w != 0.7 {
		t.Errorf("Weight = %v, want 0.7", w)
	}

	g.SetWeight(0, 0, 0)
	if w := g.Weight(0, 0); w != 1.0 {
		t.Errorf("Weight after zero write = %v, want 1.0", w)
	}

	g.SetWeight(1, 0, -3)
	if w := g.Weight(1, 0); w != 1.0 {
		t.Errorf("Weight after negative write = %v, want 1.0", w)
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	g, _ := NewGrid(4, 4)
	g.SetObstacle(1, 1, true)

	c := g.Clone()
	c.SetObstacle(2, 2, true)
	c.SetWeight(1, 1, 5)

	if g.IsObstacle(2, 2) {
		t.Errorf("clone write leaked into original")
	}
	if g.Weight(1, 1) != 1.0 {
		t.Errorf("clone weight leaked into original")
	}
	if !c.IsObstacle(1, 1) {
		t.Errorf("clone lost original obstacle")
	}
	if c.Version() != g.Version()+1 {
		t.Errorf("clone version = %d, want %d", c.Version(), g.Version()+1)
	}
}

func TestGridApplySkipsOutOfBounds(t *testing.T) {
	g, _ := NewGrid(3, 3)
	g.Apply([]CellOverride{
		{X: 0, Y: 1, Obstacle: true},
		{X: 2, Y: 2, Weight: 2.5},
		{X: 7, Y: 7, Obstacle: true},
	})

	if !g.IsObstacle(0, 1) {
		t.Errorf("override obstacle not applied")
	}
	if w := g.Weight(2, 2); w != 2.5 {
		t.Errorf("Weight(2,2) = %v, want 2.5", w)
	}
	if w := g.Weight(0, 1); w != 1.0 {
		t.Errorf("zero override weight should clamp to 1.0, got %v", w)
	}
}

func TestGridFingerprintTracksTerrain(t *testing.T) {
	a, _ := NewGrid(4, 3)
	b, _ := NewGrid(4, 3)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("identical grids have different fingerprints")
	}

	c := a.Clone()
	if c.Fingerprint() != a.Fingerprint() {
		t.Errorf("clone without changes should keep the fingerprint")
	}

	c.SetObstacle(1, 1, true)
	if c.Fingerprint() == a.Fingerprint() {
		t.Errorf("obstacle change did not change the fingerprint")
	}

	b.SetWeight(0, 0, 2)
	if b.Fingerprint() == a.Fingerprint() {
		t.Errorf("weight change did not change the fingerprint")
	}

	wide, _ := NewGrid(3, 4)
	if wide.Fingerprint() == a.Fingerprint() {
		t.Errorf("transposed dimensions share a fingerprint")
	}
}
