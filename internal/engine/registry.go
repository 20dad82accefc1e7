package engine

import (
	"fmt"

	"github.com/vovakirdan/carmerge/internal/core"
)

// Rules are the round-ending parameters the registry enforces.
type Rules struct {
	// TerminalThreshold is the live count at or below which a match is the
	// terminal merge.
	TerminalThreshold int
	// TerminalType is the escort spawned by the terminal merge.
	TerminalType CarType
}

// MergeResult describes what a merge did.
type MergeResult struct {
	Terminal  bool
	Survivor  CarID   // Grown car, or the escort for a terminal merge
	Destroyed []CarID // Cars removed from play
	Point     core.Vec3
}

// Registry owns the live cars. It is the only component that adds or
// removes cars, and every transform change goes through it so the scene
// stays in sync.
type Registry struct {
	scene   Scene
	matcher *Matcher
	rules   Rules

	cars      []*Car // Live cars in registration order
	index     map[CarID]*Car
	destroyed map[CarID]Car
	gameOver  bool
}

// NewRegistry creates an empty registry.
func NewRegistry(scene Scene, matcher *Matcher, rules Rules) *Registry {
	return &Registry{
		scene:     scene,
		matcher:   matcher,
		rules:     rules,
		index:     make(map[CarID]*Car),
		destroyed: make(map[CarID]Car),
	}
}

// Add registers a car that the scene has already instantiated.
func (r *Registry) Add(car Car) error {
	if _, ok := r.index[car.ID]; ok {
		return fmt.Errorf("engine: car %d already registered: %w", car.ID, ErrInvalidState)
	}
	if _, ok := r.destroyed[car.ID]; ok {
		return fmt.Errorf("engine: car %d was destroyed: %w", car.ID, ErrInvalidState)
	}
	c := car
	r.cars = append(r.cars, &c)
	r.index[c.ID] = &c
	r.scene.SetTransform(c.ID, c.Transform())
	return nil
}

// Car returns a copy of a live car.
func (r *Registry) Car(id CarID) (Car, bool) {
	c, ok := r.index[id]
	if !ok {
		return Car{}, false
	}
	return *c, true
}

// StateOf returns the lifecycle state of any car the registry has seen,
// including destroyed ones.
func (r *Registry) StateOf(id CarID) (State, bool) {
	if c, ok := r.index[id]; ok {
		return c.State, true
	}
	if _, ok := r.destroyed[id]; ok {
		return StateDestroyed, true
	}
	return 0, false
}

// Cars returns copies of all live cars in registration order.
func (r *Registry) Cars() []Car {
	out := make([]Car, len(r.cars))
	for i, c := range r.cars {
		out[i] = *c
	}
	return out
}

// Live returns the number of live cars.
func (r *Registry) Live() int {
	return len(r.cars)
}

// GameOver reports whether the terminal merge has happened.
func (r *Registry) GameOver() bool {
	return r.gameOver
}

// Dragging reports whether any car is being dragged.
func (r *Registry) Dragging() bool {
	for _, c := range r.cars {
		if c.State == StateDragging {
			return true
		}
	}
	return false
}

// HitTest returns the idle car under the ray. Cars in any other state are
// never offered to the scene for picking.
func (r *Registry) HitTest(ray Ray) (CarID, bool) {
	candidates := make([]CarID, 0, len(r.cars))
	for _, c := range r.cars {
		if c.State == StateIdle {
			candidates = append(candidates, c.ID)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	id, _, ok := r.scene.IntersectCars(ray, candidates)
	return id, ok
}

// BeginDrag moves an idle car into the dragging state.
func (r *Registry) BeginDrag(id CarID) error {
	c, err := r.expect(id, StateIdle)
	if err != nil {
		return fmt.Errorf("engine: begin drag: %w", err)
	}
	if r.Dragging() {
		return fmt.Errorf("engine: begin drag %s: %w", c, ErrSessionConflict)
	}
	c.State = StateDragging
	return nil
}

// Settle records the drop target and moves the car into resolving. The
// position itself is left to the drop animation.
func (r *Registry) Settle(id CarID, point core.Vec3) error {
	c, err := r.expect(id, StateDragging)
	if err != nil {
		return fmt.Errorf("engine: settle: %w", err)
	}
	c.Target = point
	c.State = StateResolving
	return nil
}

// CancelDrag returns a car to idle wherever it currently stands.
func (r *Registry) CancelDrag(id CarID) error {
	c, ok := r.index[id]
	if !ok {
		return fmt.Errorf("engine: cancel drag %d: %w", id, ErrInvalidState)
	}
	if c.State != StateDragging && c.State != StateResolving {
		return fmt.Errorf("engine: cancel drag %s in state %s: %w", c, c.State, ErrInvalidState)
	}
	c.State = StateIdle
	return nil
}

// ResolveMatch finds the merge partner for a settled car: the first idle
// car in registration order that overlaps it and shares its type. With
// exactly two cars live the type check is skipped.
func (r *Registry) ResolveMatch(id CarID) (CarID, bool) {
	self, ok := r.index[id]
	if !ok {
		return 0, false
	}
	relaxed := len(r.cars) == 2

	for _, other := range r.cars {
		if other.ID == id || other.State != StateIdle {
			continue
		}
		if !relaxed && other.Type != self.Type {
			continue
		}
		if r.matcher.Overlaps(*self, *other) {
			return other.ID, true
		}
	}
	return 0, false
}

// Merge fuses partner into id. Above the terminal threshold the partner is
// destroyed and id returns to idle, ready to be grown by the caller. At or
// below it both cars are destroyed, the escort is spawned at id's position
// and the game-over latch is set.
func (r *Registry) Merge(id, partner CarID) (MergeResult, error) {
	if id == partner {
		return MergeResult{}, fmt.Errorf("engine: merge %d with itself: %w", id, ErrInvalidState)
	}
	if r.gameOver {
		return MergeResult{}, fmt.Errorf("engine: merge: %w", ErrGameOver)
	}
	c, err := r.expect(id, StateResolving)
	if err != nil {
		return MergeResult{}, fmt.Errorf("engine: merge: %w", err)
	}
	p, err := r.expect(partner, StateIdle)
	if err != nil {
		return MergeResult{}, fmt.Errorf("engine: merge partner: %w", err)
	}

	point := c.Position.Ground()

	if len(r.cars) > r.rules.TerminalThreshold {
		r.destroy(p.ID)
		c.State = StateIdle
		return MergeResult{
			Survivor:  c.ID,
			Destroyed: []CarID{p.ID},
			Point:     point,
		}, nil
	}

	r.destroy(c.ID)
	r.destroy(p.ID)
	escort := NewCar(r.scene.SpawnCar(r.rules.TerminalType, point), r.rules.TerminalType, point)
	if err := r.Add(escort); err != nil {
		return MergeResult{}, err
	}
	r.gameOver = true

	return MergeResult{
		Terminal:  true,
		Survivor:  escort.ID,
		Destroyed: []CarID{c.ID, p.ID},
		Point:     point,
	}, nil
}

// expect returns the live car if it is in the wanted state.
func (r *Registry) expect(id CarID, want State) (*Car, error) {
	c, ok := r.index[id]
	if !ok {
		if _, gone := r.destroyed[id]; gone {
			return nil, fmt.Errorf("car %d destroyed: %w", id, ErrInvalidState)
		}
		return nil, fmt.Errorf("car %d unknown: %w", id, ErrInvalidState)
	}
	if c.State != want {
		return nil, fmt.Errorf("car %s is %s, want %s: %w", c, c.State, want, ErrInvalidState)
	}
	return c, nil
}

// destroy removes a car from play exactly once.
func (r *Registry) destroy(id CarID) {
	c, ok := r.index[id]
	if !ok {
		return
	}
	c.State = StateDestroyed
	r.destroyed[id] = *c
	delete(r.index, id)
	for i, live := range r.cars {
		if live.ID == id {
			r.cars = append(r.cars[:i], r.cars[i+1:]...)
			break
		}
	}
	r.scene.RemoveCar(id)
}

// Transform setters used by animation targets. Writes to destroyed cars
// are dropped.

func (r *Registry) setPosition(id CarID, p core.Vec3) {
	if c, ok := r.index[id]; ok {
		c.Position = p
		r.scene.SetTransform(id, c.Transform())
	}
}

func (r *Registry) setHeight(id CarID, y float64) {
	if c, ok := r.index[id]; ok {
		c.Position.Y = y
		r.scene.SetTransform(id, c.Transform())
	}
}

func (r *Registry) setScale(id CarID, s float64) {
	if c, ok := r.index[id]; ok {
		c.Scale = s
		r.scene.SetTransform(id, c.Transform())
	}
}

func (r *Registry) setYaw(id CarID, yaw float64) {
	if c, ok := r.index[id]; ok {
		c.Yaw = yaw
		r.scene.SetTransform(id, c.Transform())
	}
}
