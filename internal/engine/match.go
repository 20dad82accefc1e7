package engine

import (
	"math"

	"github.com/vovakirdan/carmerge/internal/core"
)

// FootprintFunc looks up the ground outline of a car type.
type FootprintFunc func(CarType) Footprint

// Matcher decides whether two cars overlap. It is only consulted once a
// drop has fully settled; overlap during a drag has no game effect.
type Matcher struct {
	footprint FootprintFunc
}

// NewMatcher creates a matcher using the given footprint source.
func NewMatcher(fp FootprintFunc) *Matcher {
	return &Matcher{footprint: fp}
}

// Bounds returns the axis-aligned box around the car's footprint after
// scale, heading and translation.
func (m *Matcher) Bounds(c Car) core.Box {
	fp := m.footprint(c.Type)
	s := c.Scale
	corners := [4][2]float64{
		{-fp.HalfWidth * s, -fp.Rear * s},
		{fp.HalfWidth * s, -fp.Rear * s},
		{fp.HalfWidth * s, fp.Front * s},
		{-fp.HalfWidth * s, fp.Front * s},
	}

	sin, cos := math.Sincos(c.Yaw)
	points := make([]core.Vec3, 0, len(corners))
	for _, p := range corners {
		x := p[0]*cos + p[1]*sin
		z := -p[0]*sin + p[1]*cos
		points = append(points, core.Vec3{X: c.Position.X + x, Y: c.Position.Y, Z: c.Position.Z + z})
	}
	return core.BoxAround(points...)
}

// Overlaps reports whether the two cars' boxes intersect. It is symmetric.
func (m *Matcher) Overlaps(a, b Car) bool {
	return m.Bounds(a).Intersects(m.Bounds(b))
}
