// Package engine implements the drag-interaction and match-resolution core:
// grid snapping, the car registry, overlap matching, step-chain animation,
// fire-and-forget effects and the pointer-driven interaction controller.
//
// The package holds no rendering code. Everything visual is reached
// through the Scene interface, and all state lives in one Controller per
// round, driven from a single goroutine.
package engine

import (
	"fmt"

	"github.com/vovakirdan/carmerge/internal/core"
)

// CarID identifies a car for the lifetime of a round. IDs are allocated by
// the scene and never reused.
type CarID int

// CarType is the categorical tag that decides match eligibility.
type CarType string

// State is the lifecycle state of a car.
type State uint8

const (
	StateIdle State = iota
	StateDragging
	StateResolving
	StateDestroyed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResolving:
		return "resolving"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Car is a live, draggable game piece.
type Car struct {
	ID       CarID
	Type     CarType
	Position core.Vec3
	Scale    float64 // Relative to the model's base scale
	Yaw      float64 // Heading in radians, 0 faces +Z
	State    State
	Target   core.Vec3 // Settle point recorded on drop
}

// NewCar creates an idle car at rest on the ground.
func NewCar(id CarID, t CarType, pos core.Vec3) Car {
	return Car{
		ID:       id,
		Type:     t,
		Position: pos.Ground(),
		Scale:    1,
		State:    StateIdle,
	}
}

// Transform returns the car's render transform.
func (c Car) Transform() Transform {
	return Transform{Position: c.Position, Scale: c.Scale, Yaw: c.Yaw}
}

// String implements fmt.Stringer for log output.
func (c Car) String() string {
	return fmt.Sprintf("%s#%d", c.Type, c.ID)
}

// Transform is the render-side placement of a car.
type Transform struct {
	Position core.Vec3
	Scale    float64
	Yaw      float64
}

// Footprint is a car's ground outline at scale 1 in model space: the body
// spans [-HalfWidth, HalfWidth] across and [-Rear, Front] along its heading.
// Front and Rear differ for most models, which is why matching uses boxes
// rather than center distance.
type Footprint struct {
	HalfWidth float64
	Front     float64
	Rear      float64
}

// Ray is a pick ray cast from the camera through a pointer position.
type Ray struct {
	Origin core.Vec3
	Dir    core.Vec3
}

// GuideHandle is an opaque reference to a guide object owned by the scene.
type GuideHandle int

// GuideKind selects the guide visual.
type GuideKind uint8

const (
	GuideRing GuideKind = iota
)
