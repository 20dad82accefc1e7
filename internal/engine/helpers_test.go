package engine

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

const frame = 16 * time.Millisecond

// testFootprint is shared by every car type in engine tests.
var testFootprint = Footprint{HalfWidth: 0.2, Front: 0.3, Rear: 0.2}

// fakeScene is a flat board where screen positions are world coordinates
// in hundredths: ScreenPos{125, -75} is the ground point (1.25, -0.75).
type fakeScene struct {
	transforms map[CarID]Transform
	types      map[CarID]CarType
	removed    []CarID
	guides     map[GuideHandle]core.Vec3
	nextCar    CarID
	nextGuide  GuideHandle
	lastPicked []CarID
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		transforms: make(map[CarID]Transform),
		types:      make(map[CarID]CarType),
		guides:     make(map[GuideHandle]core.Vec3),
	}
}

func (s *fakeScene) CastRay(pos core.ScreenPos) Ray {
	return Ray{
		Origin: core.V3(float64(pos.X)/100, 10, float64(pos.Y)/100),
		Dir:    core.V3(0, -1, 0),
	}
}

func (s *fakeScene) IntersectCars(ray Ray, candidates []CarID) (CarID, core.Vec3, bool) {
	s.lastPicked = append([]CarID(nil), candidates...)
	m := NewMatcher(s.Footprint)
	for _, id := range candidates {
		tr, ok := s.transforms[id]
		if !ok {
			continue
		}
		car := Car{ID: id, Type: s.types[id], Position: tr.Position, Scale: tr.Scale, Yaw: tr.Yaw}
		if m.Bounds(car).ContainsGround(ray.Origin.X, ray.Origin.Z) {
			return id, core.V3(ray.Origin.X, 0, ray.Origin.Z), true
		}
	}
	return 0, core.Vec3{}, false
}

func (s *fakeScene) IntersectGround(ray Ray) (core.Vec3, bool) {
	if math.Abs(ray.Origin.X) > 5.5 || math.Abs(ray.Origin.Z) > 5.5 {
		return core.Vec3{}, false
	}
	return core.V3(ray.Origin.X, 0, ray.Origin.Z), true
}

func (s *fakeScene) SetTransform(id CarID, t Transform) {
	s.transforms[id] = t
}

func (s *fakeScene) SpawnGuide(_ GuideKind, pos core.Vec3) GuideHandle {
	s.nextGuide++
	s.guides[s.nextGuide] = pos
	return s.nextGuide
}

func (s *fakeScene) MoveGuide(h GuideHandle, pos core.Vec3) {
	if _, ok := s.guides[h]; ok {
		s.guides[h] = pos
	}
}

func (s *fakeScene) DestroyGuide(h GuideHandle) {
	delete(s.guides, h)
}

func (s *fakeScene) SpawnCar(t CarType, pos core.Vec3) CarID {
	s.nextCar++
	s.types[s.nextCar] = t
	s.transforms[s.nextCar] = Transform{Position: pos, Scale: 1}
	return s.nextCar
}

func (s *fakeScene) RemoveCar(id CarID) {
	delete(s.transforms, id)
	s.removed = append(s.removed, id)
}

func (s *fakeScene) Footprint(CarType) Footprint {
	return testFootprint
}

type carSpec struct {
	typ  CarType
	x, z float64
}

func testRules() Rules {
	return Rules{TerminalThreshold: 2, TerminalType: "police"}
}

// newTestRegistry spawns the given cars in order; IDs start at 1.
func newTestRegistry(t *testing.T, rules Rules, cars ...carSpec) (*Registry, *fakeScene) {
	t.Helper()
	scene := newFakeScene()
	reg := NewRegistry(scene, NewMatcher(scene.Footprint), rules)
	for _, c := range cars {
		pos := core.V3(c.x, 0, c.z)
		id := scene.SpawnCar(c.typ, pos)
		if err := reg.Add(NewCar(id, c.typ, pos)); err != nil {
			t.Fatalf("Add(%s): %v", c.typ, err)
		}
	}
	return reg, scene
}

func newTestController(t *testing.T, cfg config.MergeConfig, cars ...carSpec) (*Controller, *Registry, *fakeScene) {
	t.Helper()
	rules := Rules{
		TerminalThreshold: cfg.Round.TerminalThreshold,
		TerminalType:      CarType(cfg.Round.TerminalType),
	}
	reg, scene := newTestRegistry(t, rules, cars...)
	return NewController(scene, reg, cfg), reg, scene
}

// at converts a ground point into the fake scene's pointer position.
func at(x, z float64) core.ScreenPos {
	return core.ScreenPos{X: int(math.Round(x * 100)), Y: int(math.Round(z * 100))}
}

// tickUntil advances the controller in frame-sized steps until cond holds.
func tickUntil(t *testing.T, c *Controller, cond func() bool) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if cond() {
			return
		}
		c.OnTick(frame)
	}
	t.Fatalf("condition not reached; phase %s", c.Phase())
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
