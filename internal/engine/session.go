package engine

import (
	"math"

	"github.com/vovakirdan/carmerge/internal/core"
)

// DragSession is the transient state of one drag gesture. It exists from
// pointer-down on a car until the drop starts.
type DragSession struct {
	Car     CarID
	Start   core.Vec3 // Car position when the drag began
	Pointer core.Vec3 // Last ground point under the pointer
	Target  core.Vec3 // Snapped drop point
	Guide   GuideHandle
}

// turnYaw returns the heading from the car toward the target, and false
// when the target is too close for the heading to be meaningful.
func (s *DragSession) turnYaw(from core.Vec3, minDist float64) (float64, bool) {
	from = from.Ground()
	if from.DistanceTo(s.Target) < minDist {
		return 0, false
	}
	d := s.Target.Sub(from)
	return math.Atan2(d.X, d.Z), true
}
