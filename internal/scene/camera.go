package scene

import (
	"math"

	"github.com/vovakirdan/carmerge/internal/core"
)

// World size of one terminal cell at zoom 1. Cells are roughly twice as
// tall as wide, so a row covers twice the ground of a column.
const (
	colWorld = 0.25
	rowWorld = 0.5
)

// Camera is a top-down orthographic view of the level surface. +X runs to
// the right of the screen and +Z runs down.
type Camera struct {
	Min, Max  float64 // World extent on both axes
	Zoom      int     // Screen cells per base cell
	Left, Top int     // Screen cell of the world's minimum corner
}

// NewCamera creates a zoom-1 camera over [lo, hi] anchored at 0,0.
func NewCamera(lo, hi float64) Camera {
	return Camera{Min: lo, Max: hi, Zoom: 1}
}

// BaseSize returns the view size in cells at zoom 1.
func (c Camera) BaseSize() (cols, rows int) {
	span := c.Max - c.Min
	return int(math.Round(span / colWorld)), int(math.Round(span / rowWorld))
}

// Size returns the view size in cells at the current zoom.
func (c Camera) Size() (cols, rows int) {
	cols, rows = c.BaseSize()
	return cols * c.Zoom, rows * c.Zoom
}

// Viewport returns the screen rectangle the view covers.
func (c Camera) Viewport() core.Rect {
	w, h := c.Size()
	return core.NewRect(c.Left, c.Top, w, h)
}

// Fit picks the largest zoom that fits a w x h screen and centers the view.
func (c Camera) Fit(w, h int) Camera {
	cols, rows := c.BaseSize()
	zoom := 1
	if cols > 0 && rows > 0 {
		zoom = max(1, min(w/cols, h/rows))
	}
	c.Zoom = zoom
	c.Left = max(0, (w-cols*zoom)/2)
	c.Top = max(0, (h-rows*zoom)/2)
	return c
}

// ToWorld returns the ground point at the center of a screen cell.
func (c Camera) ToWorld(pos core.ScreenPos) core.Vec3 {
	z := float64(c.Zoom)
	return core.Vec3{
		X: c.Min + (float64(pos.X-c.Left)+0.5)/z*colWorld,
		Z: c.Min + (float64(pos.Y-c.Top)+0.5)/z*rowWorld,
	}
}

// ToScreen returns the screen cell containing a ground point.
func (c Camera) ToScreen(p core.Vec3) core.ScreenPos {
	z := float64(c.Zoom)
	return core.ScreenPos{
		X: c.Left + int(math.Floor((p.X-c.Min)/colWorld*z)),
		Y: c.Top + int(math.Floor((p.Z-c.Min)/rowWorld*z)),
	}
}
