// Package scene is the in-memory scene graph a round is drawn from. It
// implements engine.Scene on top of a top-down orthographic camera, so
// terminal cells double as pick rays.
package scene

import (
	"github.com/vovakirdan/carmerge/internal/assets"
	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/engine"
)

// rayHeight is where pick rays start above the ground.
const rayHeight = 10

type carNode struct {
	id        engine.CarID
	typ       engine.CarType
	transform engine.Transform
}

// Board holds the car and guide objects of one round.
type Board struct {
	catalog *assets.Catalog
	matcher *engine.Matcher
	camera  Camera

	cars      []*carNode // Draw order; later cars are on top
	byID      map[engine.CarID]*carNode
	guides    map[engine.GuideHandle]core.Vec3
	markers   []core.Vec3
	pickShift float64 // Added to ground picks, see SetGridOffset
	nextCar   engine.CarID
	nextGuide engine.GuideHandle
}

// New creates an empty board over the catalog's level surface.
func New(catalog *assets.Catalog) *Board {
	lvl := catalog.Level()
	return &Board{
		catalog: catalog,
		matcher: engine.NewMatcher(catalog.Footprint),
		camera:  NewCamera(lvl.SurfaceMin, lvl.SurfaceMax),
		byID:    make(map[engine.CarID]*carNode),
		guides:  make(map[engine.GuideHandle]core.Vec3),
	}
}

// Resize fits the view and its one-cell frame into a w x h area.
func (b *Board) Resize(w, h int) {
	b.camera = b.camera.Fit(w-2, h-2)
	b.camera.Left++
	b.camera.Top++
}

// Camera returns the current camera.
func (b *Board) Camera() Camera {
	return b.camera
}

// SetGridOffset shifts ground picks by -offset for a lattice at
// k*cell + offset, so every screen cell drawn around a lattice point
// snaps back to that point.
func (b *Board) SetGridOffset(offset float64) {
	b.pickShift = -offset
}

// SetMarkers sets the ground points drawn as placement markers.
func (b *Board) SetMarkers(points []core.Vec3) {
	b.markers = append([]core.Vec3(nil), points...)
}

// Len returns the number of cars in the scene.
func (b *Board) Len() int {
	return len(b.cars)
}

// Car returns the type and transform of a car object.
func (b *Board) Car(id engine.CarID) (engine.CarType, engine.Transform, bool) {
	n, ok := b.byID[id]
	if !ok {
		return "", engine.Transform{}, false
	}
	return n.typ, n.transform, true
}

// Guides returns the positions of all guide objects.
func (b *Board) Guides() []core.Vec3 {
	out := make([]core.Vec3, 0, len(b.guides))
	for h := engine.GuideHandle(1); h <= b.nextGuide; h++ {
		if p, ok := b.guides[h]; ok {
			out = append(out, p)
		}
	}
	return out
}

// CastRay implements engine.Scene.
func (b *Board) CastRay(pos core.ScreenPos) engine.Ray {
	p := b.camera.ToWorld(pos)
	p.Y = rayHeight
	return engine.Ray{Origin: p, Dir: core.V3(0, -1, 0)}
}

// IntersectCars implements engine.Scene. The topmost candidate wins.
func (b *Board) IntersectCars(ray engine.Ray, candidates []engine.CarID) (engine.CarID, core.Vec3, bool) {
	want := make(map[engine.CarID]bool, len(candidates))
	for _, id := range candidates {
		want[id] = true
	}

	hit := ray.Origin.Ground()
	for i := len(b.cars) - 1; i >= 0; i-- {
		n := b.cars[i]
		if !want[n.id] {
			continue
		}
		if b.bounds(n).ContainsGround(hit.X, hit.Z) {
			return n.id, hit, true
		}
	}
	return 0, core.Vec3{}, false
}

// IntersectGround implements engine.Scene. Only the level surface counts.
func (b *Board) IntersectGround(ray engine.Ray) (core.Vec3, bool) {
	p := ray.Origin.Ground()
	if !b.catalog.Level().Contains(p.X, p.Z) {
		return core.Vec3{}, false
	}
	p.X += b.pickShift
	p.Z += b.pickShift
	return p, true
}

// SetTransform implements engine.Scene.
func (b *Board) SetTransform(id engine.CarID, t engine.Transform) {
	if n, ok := b.byID[id]; ok {
		n.transform = t
	}
}

// SpawnGuide implements engine.Scene.
func (b *Board) SpawnGuide(_ engine.GuideKind, pos core.Vec3) engine.GuideHandle {
	b.nextGuide++
	b.guides[b.nextGuide] = pos
	return b.nextGuide
}

// MoveGuide implements engine.Scene.
func (b *Board) MoveGuide(h engine.GuideHandle, pos core.Vec3) {
	if _, ok := b.guides[h]; ok {
		b.guides[h] = pos
	}
}

// DestroyGuide implements engine.Scene.
func (b *Board) DestroyGuide(h engine.GuideHandle) {
	delete(b.guides, h)
}

// SpawnCar implements engine.Scene. IDs start at 1 and are never reused.
func (b *Board) SpawnCar(t engine.CarType, pos core.Vec3) engine.CarID {
	b.nextCar++
	n := &carNode{
		id:        b.nextCar,
		typ:       t,
		transform: engine.Transform{Position: pos, Scale: 1},
	}
	b.cars = append(b.cars, n)
	b.byID[n.id] = n
	return n.id
}

// RemoveCar implements engine.Scene.
func (b *Board) RemoveCar(id engine.CarID) {
	if _, ok := b.byID[id]; !ok {
		return
	}
	delete(b.byID, id)
	for i, n := range b.cars {
		if n.id == id {
			b.cars = append(b.cars[:i], b.cars[i+1:]...)
			return
		}
	}
}

// Footprint implements engine.Scene.
func (b *Board) Footprint(t engine.CarType) engine.Footprint {
	return b.catalog.Footprint(t)
}

func (b *Board) bounds(n *carNode) core.Box {
	return b.matcher.Bounds(engine.Car{
		Type:     n.typ,
		Position: n.transform.Position,
		Scale:    n.transform.Scale,
		Yaw:      n.transform.Yaw,
	})
}
