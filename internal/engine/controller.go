package engine

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

// Phase is the interaction controller state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseSettling  // Drop tween running
	PhaseResolving // Match resolution and merge feedback
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSettling:
		return "settling"
	case PhaseResolving:
		return "resolving"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Stats counts the player's progress in a round.
type Stats struct {
	Moves  int // Completed drops
	Merges int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for gesture and merge events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEffectSink forwards fired effects to sink.
func WithEffectSink(sink EffectSink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// Controller turns pointer events into drag sessions, drops, matches and
// merges. It is not safe for concurrent use; one goroutine feeds it input
// and ticks.
type Controller struct {
	scene Scene
	reg   *Registry
	grid  Grid
	seq   *Sequencer
	fx    *Effects
	cfg   config.MergeConfig
	log   *log.Logger
	sink  EffectSink

	phase   Phase
	session *DragSession
	stats   Stats
	version uint64
}

// NewController wires a controller around a populated registry.
func NewController(scene Scene, reg *Registry, cfg config.MergeConfig, opts ...Option) *Controller {
	c := &Controller{
		scene: scene,
		reg:   reg,
		grid:  NewGrid(cfg.Grid),
		seq:   NewSequencer(),
		cfg:   cfg,
		log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fx = NewEffects(cfg.Effects, c.sink)
	if reg.GameOver() {
		c.phase = PhaseGameOver
	}
	return c
}

// OnPointerDown starts a drag on the idle car under the pointer.
func (c *Controller) OnPointerDown(pos core.ScreenPos) error {
	switch {
	case c.reg.GameOver():
		return fmt.Errorf("engine: pointer down: %w", ErrGameOver)
	case c.session != nil:
		return fmt.Errorf("engine: pointer down: %w", ErrSessionConflict)
	case c.phase != PhaseIdle:
		return fmt.Errorf("engine: pointer down in phase %s: %w", c.phase, ErrInvalidState)
	}

	id, ok := c.reg.HitTest(c.scene.CastRay(pos))
	if !ok {
		return fmt.Errorf("engine: pointer down at %d,%d: %w", pos.X, pos.Y, ErrNoTarget)
	}
	if err := c.reg.BeginDrag(id); err != nil {
		return err
	}

	// A drag takes over the car, so feedback still running on it stops
	// where it is.
	c.seq.CancelCar(id)

	car, _ := c.reg.Car(id)
	target := c.grid.Snap(car.Position)
	c.session = &DragSession{
		Car:     id,
		Start:   car.Position,
		Pointer: car.Position.Ground(),
		Target:  target,
		Guide:   c.scene.SpawnGuide(GuideRing, target),
	}
	c.startHop(id)
	c.phase = PhaseDragging
	c.touch()

	c.log.Debug("drag started", "car", car, "at", target)
	return nil
}

// OnPointerMove retargets the open drag. The car itself stays put; only
// the guide follows the pointer, and the car turns to face it.
func (c *Controller) OnPointerMove(pos core.ScreenPos) error {
	if c.session == nil {
		return fmt.Errorf("engine: pointer move: %w", ErrInvalidState)
	}
	if err := c.retarget(pos); err != nil {
		return fmt.Errorf("engine: pointer move: %w", err)
	}

	car, ok := c.reg.Car(c.session.Car)
	if ok {
		if yaw, turn := c.session.turnYaw(car.Position, c.cfg.Round.TurnDistance); turn {
			c.reg.setYaw(car.ID, yaw)
		}
	}
	c.touch()
	return nil
}

// OnPointerUp drops the dragged car at the target the last move left.
// The pointer itself does not retarget; it only has to be over the board.
// When it is not the session stays open and Release drops instead.
func (c *Controller) OnPointerUp(pos core.ScreenPos) error {
	if c.session == nil {
		return fmt.Errorf("engine: pointer up: %w", ErrInvalidState)
	}
	if _, ok := c.scene.IntersectGround(c.scene.CastRay(pos)); !ok {
		return fmt.Errorf("engine: pointer up: %w", ErrNoTarget)
	}
	return c.release()
}

// Release drops the dragged car at the last snapped target.
func (c *Controller) Release() error {
	if c.session == nil {
		return fmt.Errorf("engine: release: %w", ErrInvalidState)
	}
	return c.release()
}

func (c *Controller) retarget(pos core.ScreenPos) error {
	p, ok := c.scene.IntersectGround(c.scene.CastRay(pos))
	if !ok {
		return ErrNoTarget
	}
	c.session.Pointer = p
	c.session.Target = c.grid.Snap(p)
	c.scene.MoveGuide(c.session.Guide, c.session.Target)
	return nil
}

func (c *Controller) release() error {
	s := c.session
	c.session = nil
	c.scene.DestroyGuide(s.Guide)
	c.seq.Cancel(ChainKey{Car: s.Car, Prop: PropHop})

	car, ok := c.reg.Car(s.Car)
	if !ok {
		c.phase = PhaseIdle
		return fmt.Errorf("engine: release car %d: %w", s.Car, ErrInvalidState)
	}
	if err := c.reg.Settle(s.Car, s.Target); err != nil {
		c.phase = PhaseIdle
		return err
	}

	c.fx.Fire(EffectDropDust, s.Target)
	c.stats.Moves++
	c.phase = PhaseSettling
	c.touch()

	perUnit := time.Duration(c.cfg.Animation.SettleMsPerUnit) * time.Millisecond
	id := s.Car
	c.seq.Run(
		ChainKey{Car: id, Prop: PropPosition},
		positionTarget{reg: c.reg, id: id},
		[]Step{{To: s.Target, Duration: SettleDuration(car.Position, s.Target, perUnit), Ease: Linear}},
		func() { c.onSettled(id) },
	)

	c.log.Debug("drop", "car", car, "from", car.Position.Ground(), "to", s.Target)
	return nil
}

// onSettled runs when the drop tween completes. This is the only place a
// match is evaluated.
func (c *Controller) onSettled(id CarID) {
	c.reg.setYaw(id, 0)
	c.phase = PhaseResolving
	c.touch()

	partner, ok := c.reg.ResolveMatch(id)
	if !ok {
		c.backToIdle(id)
		return
	}

	res, err := c.reg.Merge(id, partner)
	if err != nil {
		c.log.Warn("merge failed", "car", id, "partner", partner, "err", err)
		c.backToIdle(id)
		return
	}
	c.stats.Merges++
	for _, gone := range res.Destroyed {
		c.seq.CancelCar(gone)
	}
	c.fx.Fire(EffectMatchBurst, res.Point)

	if res.Terminal {
		c.fx.Fire(EffectTerminalShine, res.Point)
		c.phase = PhaseGameOver
		c.runScaleChain(res.Survivor, c.cfg.Animation.TerminalScale, c.cfg.Animation.TerminalChain, nil)
		c.log.Info("round complete", "escort", res.Survivor, "moves", c.stats.Moves, "merges", c.stats.Merges)
		return
	}

	survivor, _ := c.reg.Car(res.Survivor)
	grown := math.Min(survivor.Scale*c.cfg.Animation.MergeGrowth, c.cfg.Animation.MaxScale)
	c.log.Debug("merge", "survivor", survivor, "destroyed", res.Destroyed, "scale", grown, "live", c.reg.Live())

	if !c.cfg.Round.AwaitFeedback {
		c.runScaleChain(res.Survivor, grown, c.cfg.Animation.GrowChain, nil)
		c.phase = PhaseIdle
		return
	}
	c.runScaleChain(res.Survivor, grown, c.cfg.Animation.GrowChain, func() {
		if c.phase == PhaseResolving {
			c.phase = PhaseIdle
			c.touch()
		}
	})
}

func (c *Controller) backToIdle(id CarID) {
	if err := c.reg.CancelDrag(id); err != nil {
		c.log.Warn("cancel drag failed", "car", id, "err", err)
	}
	c.phase = PhaseIdle
	c.touch()
}

func (c *Controller) runScaleChain(id CarID, final float64, chain []config.ScaleStep, done func()) {
	factors := make([]float64, len(chain))
	durations := make([]time.Duration, len(chain))
	for i, st := range chain {
		factors[i] = st.Factor
		durations[i] = time.Duration(st.Ms) * time.Millisecond
	}
	c.seq.Run(ChainKey{Car: id, Prop: PropScale}, scaleTarget{reg: c.reg, id: id}, ScaleChain(final, factors, durations), done)
}

// startHop loops the engine-running bounce on a dragged car.
func (c *Controller) startHop(id CarID) {
	a := c.cfg.Animation
	if a.HopMs <= 0 || a.HopHeight == 0 {
		return
	}
	c.seq.Loop(ChainKey{Car: id, Prop: PropHop}, hopTarget{reg: c.reg, id: id}, []Step{
		{To: core.Vec3{Y: a.HopHeight}, Duration: time.Duration(a.HopMs) * time.Millisecond},
	})
}

// OnTick advances animations and effects by dt. Completion callbacks fire
// from here, so game state only changes inside input handlers and ticks.
func (c *Controller) OnTick(dt time.Duration) {
	busy := c.seq.Len() > 0 || len(c.fx.Active()) > 0
	c.seq.Advance(dt)
	c.fx.Tick(dt)
	if busy {
		c.touch()
	}
}

// Cars returns the live cars in registration order.
func (c *Controller) Cars() []Car {
	return c.reg.Cars()
}

// GameOver reports whether the round has ended.
func (c *Controller) GameOver() bool {
	return c.reg.GameOver()
}

// Phase returns the current controller phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Session returns a copy of the open drag session.
func (c *Controller) Session() (DragSession, bool) {
	if c.session == nil {
		return DragSession{}, false
	}
	return *c.session, true
}

// Guide returns the guide position while a drag is open.
func (c *Controller) Guide() (core.Vec3, bool) {
	if c.session == nil {
		return core.Vec3{}, false
	}
	return c.session.Target, true
}

// Effects returns the live emitters.
func (c *Controller) Effects() []Emitter {
	return c.fx.Active()
}

// Stats returns the round counters.
func (c *Controller) Stats() Stats {
	return c.stats
}

// Animating reports whether any animation chain is running.
func (c *Controller) Animating() bool {
	return c.seq.Len() > 0
}

// Version increases whenever observable state may have changed.
func (c *Controller) Version() uint64 {
	return c.version
}

func (c *Controller) touch() {
	c.version++
}

// Animation targets. They read and write through the registry so every
// applied value reaches the scene, and writes to destroyed cars vanish.

type positionTarget struct {
	reg *Registry
	id  CarID
}

func (t positionTarget) Value() core.Vec3 {
	c, _ := t.reg.Car(t.id)
	return c.Position
}

func (t positionTarget) Apply(v core.Vec3) {
	t.reg.setPosition(t.id, v)
}

type hopTarget struct {
	reg *Registry
	id  CarID
}

func (t hopTarget) Value() core.Vec3 {
	c, _ := t.reg.Car(t.id)
	return core.Vec3{Y: c.Position.Y}
}

func (t hopTarget) Apply(v core.Vec3) {
	t.reg.setHeight(t.id, v.Y)
}

type scaleTarget struct {
	reg *Registry
	id  CarID
}

func (t scaleTarget) Value() core.Vec3 {
	c, _ := t.reg.Car(t.id)
	return core.Vec3{X: c.Scale, Y: c.Scale, Z: c.Scale}
}

func (t scaleTarget) Apply(v core.Vec3) {
	t.reg.setScale(t.id, v.X)
}
