package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

func classicCars() []carSpec {
	return []carSpec{
		{"red", -2.25, -2.25},
		{"red", 1.25, 1.25},
		{"blue", -3.25, 3.25},
		{"blue", 3.25, -3.25},
	}
}

// drag performs a full pointer gesture from one ground point to another.
func drag(t *testing.T, c *Controller, fromX, fromZ, toX, toZ float64) {
	t.Helper()
	if err := c.OnPointerDown(at(fromX, fromZ)); err != nil {
		t.Fatalf("OnPointerDown: %v", err)
	}
	if err := c.OnPointerMove(at(toX, toZ)); err != nil {
		t.Fatalf("OnPointerMove: %v", err)
	}
	if err := c.OnPointerUp(at(toX, toZ)); err != nil {
		t.Fatalf("OnPointerUp: %v", err)
	}
}

func TestControllerScenarioA(t *testing.T) {
	c, _, scene := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	drag(t, c, -2.25, -2.25, 1.25, 1.25)
	if c.Phase() != PhaseSettling {
		t.Fatalf("Phase() = %s after drop, expected settling", c.Phase())
	}
	if err := c.OnPointerDown(at(-3.25, 3.25)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("pointer down while settling: err = %v, expected ErrInvalidState", err)
	}

	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })

	if c.GameOver() {
		t.Error("GameOver() = true after the first merge")
	}
	cars := c.Cars()
	if len(cars) != 3 {
		t.Fatalf("live cars = %d, expected 3", len(cars))
	}
	survivor := cars[0]
	if survivor.ID != 1 || survivor.Position != core.V3(1.25, 0, 1.25) {
		t.Errorf("survivor = %s at %+v, expected red#1 at the drop point", survivor, survivor.Position)
	}
	if survivor.Scale != 2 {
		t.Errorf("survivor scale = %v, expected 2", survivor.Scale)
	}
	if survivor.Yaw != 0 {
		t.Errorf("survivor yaw = %v, expected reset to 0", survivor.Yaw)
	}
	if got := c.Stats(); got != (Stats{Moves: 1, Merges: 1}) {
		t.Errorf("Stats() = %+v, expected 1 move and 1 merge", got)
	}
	if tr := scene.transforms[1]; tr.Scale != 2 {
		t.Errorf("scene scale = %v, expected the registry value pushed through", tr.Scale)
	}
}

func TestControllerScenarioB(t *testing.T) {
	c, _, scene := newTestController(t, config.DefaultMergeConfig(),
		carSpec{"red", -1.25, -1.25},
		carSpec{"blue", 1.25, 1.25},
	)

	drag(t, c, -1.25, -1.25, 1.25, 1.25)
	tickUntil(t, c, func() bool { return c.GameOver() })

	if c.Phase() != PhaseGameOver {
		t.Errorf("Phase() = %s, expected game_over", c.Phase())
	}
	cars := c.Cars()
	if len(cars) != 1 || cars[0].Type != "police" {
		t.Fatalf("live cars = %v, expected only the escort", cars)
	}
	if cars[0].Position != core.V3(1.25, 0, 1.25) {
		t.Errorf("escort at %+v, expected the drop point", cars[0].Position)
	}
	if len(scene.removed) != 2 {
		t.Errorf("scene removed %v, expected both cars", scene.removed)
	}

	var kinds []EffectKind
	for _, em := range c.Effects() {
		kinds = append(kinds, em.Kind)
	}
	if len(kinds) != 3 {
		t.Errorf("active effects = %v, expected dust, burst and shine", kinds)
	}

	tickUntil(t, c, func() bool { return !c.Animating() })
	if s := c.Cars()[0].Scale; s != 2 {
		t.Errorf("escort scale = %v, expected 2", s)
	}

	if err := c.OnPointerDown(at(1.25, 1.25)); !errors.Is(err, ErrGameOver) {
		t.Errorf("pointer down after game over: err = %v, expected ErrGameOver", err)
	}
	if c.Phase() != PhaseGameOver || !c.GameOver() {
		t.Error("game over latch released")
	}
}

func TestControllerScenarioC(t *testing.T) {
	c, _, scene := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	if len(scene.guides) != 1 {
		t.Fatalf("guides = %d during drag, expected 1", len(scene.guides))
	}
	if err := c.OnPointerMove(at(0.3, -0.1)); err != nil {
		t.Fatal(err)
	}
	if g, ok := c.Guide(); !ok || g != core.V3(0.25, 0, -0.25) {
		t.Errorf("Guide() = %+v, %v; expected snapped (0.25, 0, -0.25)", g, ok)
	}
	if car, _ := c.reg.Car(1); car.Position.Ground() != core.V3(-2.25, 0, -2.25) {
		t.Errorf("car moved to %+v during drag", car.Position)
	}
	if err := c.OnPointerUp(at(0.3, -0.1)); err != nil {
		t.Fatal(err)
	}
	if len(scene.guides) != 0 {
		t.Errorf("guides = %d after drop, expected 0", len(scene.guides))
	}

	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })

	car, ok := c.reg.Car(1)
	if !ok {
		t.Fatal("car destroyed by a drop on an empty cell")
	}
	if car.Position != core.V3(0.25, 0, -0.25) || car.State != StateIdle {
		t.Errorf("car = %+v, expected idle at the snapped point", car)
	}
	if len(c.Cars()) != 4 || len(scene.removed) != 0 {
		t.Error("a drop without overlap destroyed cars")
	}
	if got := c.Stats(); got != (Stats{Moves: 1}) {
		t.Errorf("Stats() = %+v, expected one move and no merges", got)
	}
}

func TestControllerDropsAtLastMoveTarget(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	// Press and release without a move keeps the car on its cell.
	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	if err := c.OnPointerUp(at(-2.1, -2.0)); err != nil {
		t.Fatalf("OnPointerUp: %v", err)
	}
	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })
	if car, _ := c.reg.Car(1); car.Position != core.V3(-2.25, 0, -2.25) {
		t.Errorf("car at %+v after a click in place, expected (-2.25, 0, -2.25)", car.Position)
	}

	// The release point does not retarget: the car lands where the last
	// move put the guide, not on the blue car under the pointer.
	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	if err := c.OnPointerMove(at(0.3, -0.1)); err != nil {
		t.Fatal(err)
	}
	if err := c.OnPointerUp(at(3.25, -3.25)); err != nil {
		t.Fatalf("OnPointerUp: %v", err)
	}
	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })
	if car, _ := c.reg.Car(1); car.Position != core.V3(0.25, 0, -0.25) {
		t.Errorf("car at %+v, expected the last move target (0.25, 0, -0.25)", car.Position)
	}
	if got := c.Stats(); got != (Stats{Moves: 2}) {
		t.Errorf("Stats() = %+v, expected two moves and no merges", got)
	}
	if len(c.Cars()) != 4 {
		t.Errorf("live cars = %d, expected 4", len(c.Cars()))
	}
}

func TestControllerSingleSession(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	if err := c.OnPointerDown(at(0, 0)); !errors.Is(err, ErrNoTarget) {
		t.Errorf("pointer down on empty ground: err = %v, expected ErrNoTarget", err)
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("Phase() = %s after a miss, expected idle", c.Phase())
	}

	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	if err := c.OnPointerDown(at(1.25, 1.25)); !errors.Is(err, ErrSessionConflict) {
		t.Errorf("second pointer down: err = %v, expected ErrSessionConflict", err)
	}
	s, ok := c.Session()
	if !ok || s.Car != 1 {
		t.Errorf("Session() = %+v, %v; expected the first car", s, ok)
	}
}

func TestControllerPointerMoveWithoutSession(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	if err := c.OnPointerMove(at(0, 0)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("OnPointerMove: err = %v, expected ErrInvalidState", err)
	}
	if err := c.OnPointerUp(at(0, 0)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("OnPointerUp: err = %v, expected ErrInvalidState", err)
	}
	if err := c.Release(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Release: err = %v, expected ErrInvalidState", err)
	}
}

func TestControllerOffBoardReleaseKeepsSession(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	if err := c.OnPointerMove(at(-0.75, -2.25)); err != nil {
		t.Fatal(err)
	}
	if err := c.OnPointerMove(at(9, 9)); !errors.Is(err, ErrNoTarget) {
		t.Errorf("move off board: err = %v, expected ErrNoTarget", err)
	}
	if err := c.OnPointerUp(at(9, 9)); !errors.Is(err, ErrNoTarget) {
		t.Errorf("release off board: err = %v, expected ErrNoTarget", err)
	}
	if _, ok := c.Session(); !ok || c.Phase() != PhaseDragging {
		t.Fatal("session closed by an off-board release")
	}

	if err := c.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })
	if car, _ := c.reg.Car(1); car.Position != core.V3(-0.75, 0, -2.25) {
		t.Errorf("car at %+v, expected the last valid target", car.Position)
	}
}

func TestControllerTurnsAndHops(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}

	// Too close to turn.
	if err := c.OnPointerMove(at(-2.2, -2.2)); err != nil {
		t.Fatal(err)
	}
	if car, _ := c.reg.Car(1); car.Yaw != 0 {
		t.Errorf("yaw = %v for a target under the car, expected 0", car.Yaw)
	}

	if err := c.OnPointerMove(at(0.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	car, _ := c.reg.Car(1)
	if !approx(car.Yaw, math.Pi/2) {
		t.Errorf("yaw = %v, expected pi/2 facing +x", car.Yaw)
	}

	c.OnTick(50 * time.Millisecond)
	car, _ = c.reg.Car(1)
	if !approx(car.Position.Y, 0.025) {
		t.Errorf("hop height = %v, expected 0.025", car.Position.Y)
	}
}

func TestControllerAwaitFeedbackBlocksInput(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	drag(t, c, -2.25, -2.25, 1.25, 1.25)
	tickUntil(t, c, func() bool { return c.Stats().Merges == 1 })

	if c.Phase() != PhaseResolving {
		t.Fatalf("Phase() = %s during grow chain, expected resolving", c.Phase())
	}
	if err := c.OnPointerDown(at(-3.25, 3.25)); !errors.Is(err, ErrInvalidState) {
		t.Errorf("pointer down during feedback: err = %v, expected ErrInvalidState", err)
	}
}

func TestControllerInterruptGrowChain(t *testing.T) {
	cfg := config.DefaultMergeConfig()
	cfg.Round.AwaitFeedback = false
	c, _, _ := newTestController(t, cfg, classicCars()...)

	drag(t, c, -2.25, -2.25, 1.25, 1.25)
	tickUntil(t, c, func() bool { return c.Stats().Merges == 1 })

	if c.Phase() != PhaseIdle {
		t.Fatalf("Phase() = %s, expected idle while feedback runs", c.Phase())
	}
	if !c.Animating() {
		t.Fatal("grow chain not running")
	}

	c.OnTick(50 * time.Millisecond)
	mid, _ := c.reg.Car(1)
	if !approx(mid.Scale, 1.75) {
		t.Fatalf("scale = %v halfway through the first grow step, expected 1.75", mid.Scale)
	}

	if err := c.OnPointerDown(at(1.25, 1.25)); err != nil {
		t.Fatalf("pick up growing car: %v", err)
	}
	c.OnTick(time.Second)
	after, _ := c.reg.Car(1)
	if after.Scale != mid.Scale {
		t.Errorf("scale = %v after interruption, expected it frozen at %v", after.Scale, mid.Scale)
	}
}

func TestControllerFullRound(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)

	drag(t, c, -2.25, -2.25, 1.25, 1.25)
	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })

	drag(t, c, -3.25, 3.25, 3.25, -3.25)
	tickUntil(t, c, func() bool { return c.Phase() == PhaseIdle })
	if len(c.Cars()) != 2 || c.GameOver() {
		t.Fatalf("after two merges: %d live, game over %v", len(c.Cars()), c.GameOver())
	}

	drag(t, c, 3.25, -3.25, 1.25, 1.25)
	tickUntil(t, c, func() bool { return c.GameOver() })

	if got := c.Stats(); got != (Stats{Moves: 3, Merges: 3}) {
		t.Errorf("Stats() = %+v, expected 3 moves and 3 merges", got)
	}
}

func TestControllerSnapshot(t *testing.T) {
	c, _, _ := newTestController(t, config.DefaultMergeConfig(), classicCars()...)
	before := c.Version()

	if err := c.OnPointerDown(at(-2.25, -2.25)); err != nil {
		t.Fatal(err)
	}
	snap := c.Snapshot()

	if snap.Version <= before {
		t.Errorf("Version = %d, expected it to advance past %d", snap.Version, before)
	}
	if snap.Phase != "dragging" || snap.GameOver {
		t.Errorf("Phase = %q, GameOver = %v", snap.Phase, snap.GameOver)
	}
	if len(snap.Cars) != 4 || snap.Cars[0].State != "dragging" {
		t.Errorf("Cars = %+v", snap.Cars)
	}
	if snap.Guide == nil || snap.Guide.Car != 1 || snap.Guide.X != -2.25 {
		t.Errorf("Guide = %+v, expected under car 1", snap.Guide)
	}
}
