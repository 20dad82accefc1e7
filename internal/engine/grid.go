package engine

import (
	"math"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

// latticeEps absorbs float error when pulling bounds onto the lattice.
const latticeEps = 1e-9

// Grid snaps free-form ground points onto the placement lattice
// (k*CellSize + Offset) and clamps them into the playable rectangle.
type Grid struct {
	cell   float64
	offset float64
	lo, hi int // Lattice index range, inclusive
}

// NewGrid creates a grid from configuration. The configured bounds are
// pulled inward to the nearest lattice points, so every snapped point lies
// on the lattice even when a bound does not (the default max of 5).
func NewGrid(cfg config.GridConfig) Grid {
	return Grid{
		cell:   cfg.CellSize,
		offset: cfg.Offset,
		lo:     int(math.Ceil((cfg.Min-cfg.Offset)/cfg.CellSize - latticeEps)),
		hi:     int(math.Floor((cfg.Max-cfg.Offset)/cfg.CellSize + latticeEps)),
	}
}

// Snap maps a world point to the nearest placement cell inside the
// playable rectangle. The result sits at rest height. Snap is pure and
// idempotent.
func (g Grid) Snap(p core.Vec3) core.Vec3 {
	return core.Vec3{X: g.snapAxis(p.X), Z: g.snapAxis(p.Z)}
}

// snapAxis rounds half-up (toward +inf) so negative half points land on
// the same lattice point every time. NaN goes to the minimum bound.
func (g Grid) snapAxis(v float64) float64 {
	if math.IsNaN(v) {
		return g.at(g.lo)
	}
	k := core.ClampF(math.Floor(v/g.cell+0.5), float64(g.lo), float64(g.hi))
	return g.at(int(k))
}

func (g Grid) at(k int) float64 {
	return float64(k)*g.cell + g.offset
}

// Bounds returns the lowest and highest snapped coordinate per axis.
func (g Grid) Bounds() (lo, hi float64) {
	return g.at(g.lo), g.at(g.hi)
}

// Cells returns every placement point, row by row from the minimum corner.
func (g Grid) Cells() []core.Vec3 {
	n := g.hi - g.lo + 1
	cells := make([]core.Vec3, 0, n*n)
	for z := g.lo; z <= g.hi; z++ {
		for x := g.lo; x <= g.hi; x++ {
			cells = append(cells, core.Vec3{X: g.at(x), Z: g.at(z)})
		}
	}
	return cells
}
