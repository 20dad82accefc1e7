package engine

import (
	"math"
	"testing"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

func TestGridSnap(t *testing.T) {
	g := NewGrid(config.DefaultMergeConfig().Grid)

	tests := []struct {
		name string
		in   core.Vec3
		want core.Vec3
	}{
		{"lattice point unchanged", core.V3(1.25, 0, -0.75), core.V3(1.25, 0, -0.75)},
		{"rounds then offsets", core.V3(0.3, 0, 0.1), core.V3(0.25, 0, -0.25)},
		{"negative values", core.V3(-0.3, 0, -1.1), core.V3(-0.75, 0, -1.25)},
		{"height dropped", core.V3(2, 3, 2), core.V3(1.75, 0, 1.75)},
		{"below minimum", core.V3(-6, 0, -6), core.V3(-4.75, 0, -4.75)},
		{"above maximum", core.V3(7, 0, 5), core.V3(4.75, 0, 4.75)},
		{"mixed clamp", core.V3(-100, 0, 100), core.V3(-4.75, 0, 4.75)},
		{"infinities clamp", core.V3(math.Inf(-1), 0, math.Inf(1)), core.V3(-4.75, 0, 4.75)},
		{"NaN to minimum", core.V3(math.NaN(), 0, 1.3), core.V3(-4.75, 0, 1.25)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.Snap(tc.in); got != tc.want {
				t.Errorf("Snap(%+v) = %+v, expected %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestGridSnapIdempotent(t *testing.T) {
	g := NewGrid(config.DefaultMergeConfig().Grid)
	lo, hi := g.Bounds()

	for x := -7.0; x <= 7.0; x += 0.037 {
		for _, z := range []float64{-7, -0.25, 0, 0.5, 3.3, 7} {
			once := g.Snap(core.V3(x, 0, z))
			twice := g.Snap(once)
			if once != twice {
				t.Fatalf("Snap not idempotent at (%v, %v): %+v then %+v", x, z, once, twice)
			}
			if once.X < lo || once.X > hi || once.Z < lo || once.Z > hi {
				t.Fatalf("Snap(%v, %v) = %+v outside [%v, %v]", x, z, once, lo, hi)
			}
		}
	}
}

func TestGridBoundsOnLattice(t *testing.T) {
	g := NewGrid(config.DefaultMergeConfig().Grid)
	lo, hi := g.Bounds()
	if lo != -4.75 || hi != 4.75 {
		t.Errorf("Bounds() = (%v, %v), expected (-4.75, 4.75)", lo, hi)
	}

	cells := g.Cells()
	if len(cells) != 20*20 {
		t.Fatalf("Cells() returned %d points, expected %d", len(cells), 20*20)
	}
	if cells[0] != core.V3(-4.75, 0, -4.75) {
		t.Errorf("first cell = %+v", cells[0])
	}
	for _, c := range cells {
		if g.Snap(c) != c {
			t.Fatalf("cell %+v does not snap to itself", c)
		}
	}
}

func TestGridCustomLattice(t *testing.T) {
	g := NewGrid(config.GridConfig{CellSize: 1, Offset: 0, Min: -2, Max: 2})

	if got := g.Snap(core.V3(0.5, 0, -0.49)); got != core.V3(1, 0, 0) {
		t.Errorf("Snap() = %+v, expected (1, 0, 0)", got)
	}
	if got := g.Snap(core.V3(-2.6, 0, 9)); got != core.V3(-2, 0, 2) {
		t.Errorf("Snap() = %+v, expected (-2, 0, 2)", got)
	}
	if n := len(g.Cells()); n != 25 {
		t.Errorf("len(Cells()) = %d, expected 25", n)
	}
}
