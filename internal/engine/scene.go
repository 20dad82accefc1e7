package engine

import "github.com/vovakirdan/carmerge/internal/core"

// Scene is the rendering collaborator. The engine never draws; it asks the
// scene to pick, to place transforms and to manage guide and car objects.
type Scene interface {
	// CastRay builds a pick ray through a pointer position.
	CastRay(pos core.ScreenPos) Ray

	// IntersectCars returns the first car among candidates hit by the ray
	// and the world point of the hit.
	IntersectCars(ray Ray, candidates []CarID) (CarID, core.Vec3, bool)

	// IntersectGround returns where the ray meets the level surface.
	// Rays that miss the surface report false.
	IntersectGround(ray Ray) (core.Vec3, bool)

	// SetTransform writes a car's placement into the scene graph.
	SetTransform(id CarID, t Transform)

	// SpawnGuide creates a guide object; DestroyGuide removes it.
	SpawnGuide(kind GuideKind, pos core.Vec3) GuideHandle
	MoveGuide(h GuideHandle, pos core.Vec3)
	DestroyGuide(h GuideHandle)

	// SpawnCar instantiates a car object of the given type and returns
	// its ID. RemoveCar takes it out of the scene.
	SpawnCar(t CarType, pos core.Vec3) CarID
	RemoveCar(id CarID)

	// Footprint returns the ground outline of a car type at scale 1.
	Footprint(t CarType) Footprint
}
