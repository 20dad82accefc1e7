// Package game assembles a playable round: it spawns a variant's fleet on
// the board, wires the scene, registry and controller together and draws
// the HUD. It has no terminal dependencies; the platform feeds it pointer
// events and ticks.
package game

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/carmerge/internal/assets"
	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/engine"
	"github.com/vovakirdan/carmerge/internal/registry"
	"github.com/vovakirdan/carmerge/internal/scene"
)

// hudRows is the space reserved under the board.
const hudRows = 2

// Option configures a Round.
type Option func(*Round)

// WithLogger sets the logger passed down to the controller.
func WithLogger(l *log.Logger) Option {
	return func(r *Round) {
		if l != nil {
			r.log = l
		}
	}
}

// WithEffectSink forwards fired effects to sink.
func WithEffectSink(sink engine.EffectSink) Option {
	return func(r *Round) {
		r.sink = sink
	}
}

// Round is one play-through of a variant.
type Round struct {
	variant registry.Variant
	cfg     config.MergeConfig
	catalog *assets.Catalog
	grid    engine.Grid
	log     *log.Logger
	sink    engine.EffectSink

	id      string
	board   *scene.Board
	reg     *engine.Registry
	ctrl    *engine.Controller
	elapsed time.Duration
	width   int
	height  int
}

// NewRound checks that the variant can be built from the catalog. Call
// Reset before use.
func NewRound(v registry.Variant, cfg config.MergeConfig, catalog *assets.Catalog, opts ...Option) (*Round, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	for _, t := range v.Types() {
		if !catalog.Has(t) {
			return nil, fmt.Errorf("game: variant %s: no model for car type %q", v.ID, t)
		}
	}
	if !catalog.Has(engine.CarType(cfg.Round.TerminalType)) {
		return nil, fmt.Errorf("game: no model for terminal type %q", cfg.Round.TerminalType)
	}

	grid := engine.NewGrid(cfg.Grid)
	if cells := len(grid.Cells()); v.Total() > cells {
		return nil, fmt.Errorf("game: variant %s has %d cars for %d cells", v.ID, v.Total(), cells)
	}

	r := &Round{
		variant: v,
		cfg:     cfg,
		catalog: catalog,
		grid:    grid,
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Reset starts a fresh round. Cars are placed on distinct random cells;
// the same seed gives the same layout.
func (r *Round) Reset(rc core.RuntimeConfig) {
	r.id = uuid.NewString()
	r.elapsed = 0

	r.board = scene.New(r.catalog)
	cells := r.grid.Cells()
	r.board.SetMarkers(cells)
	r.board.SetGridOffset(r.cfg.Grid.Offset)

	rules := engine.Rules{
		TerminalThreshold: r.cfg.Round.TerminalThreshold,
		TerminalType:      engine.CarType(r.cfg.Round.TerminalType),
	}
	r.reg = engine.NewRegistry(r.board, engine.NewMatcher(r.catalog.Footprint), rules)

	rng := rand.New(rand.NewSource(rc.Seed))
	perm := rng.Perm(len(cells))
	k := 0
	for _, f := range r.variant.Fleet {
		for i := 0; i < f.Count; i++ {
			pos := cells[perm[k]]
			k++
			id := r.board.SpawnCar(f.Type, pos)
			if err := r.reg.Add(engine.NewCar(id, f.Type, pos)); err != nil {
				r.log.Warn("spawn failed", "round", r.id, "type", f.Type, "at", pos, "err", err)
				r.board.RemoveCar(id)
			}
		}
	}

	r.ctrl = engine.NewController(r.board, r.reg, r.cfg,
		engine.WithLogger(r.log.With("round", r.id)),
		engine.WithEffectSink(r.sink),
	)
	r.Resize(rc.ScreenW, rc.ScreenH)

	r.log.Info("round started", "round", r.id, "variant", r.variant.ID, "cars", r.reg.Live(), "seed", rc.Seed)
}

// ID returns the round's unique identifier.
func (r *Round) ID() string {
	return r.id
}

// Variant returns the variant being played.
func (r *Round) Variant() registry.Variant {
	return r.variant
}

// Resize fits the board and HUD to the screen.
func (r *Round) Resize(w, h int) {
	r.width, r.height = w, h
	r.board.Resize(w, h-hudRows)
}

// PointerDown starts a drag at a screen cell.
func (r *Round) PointerDown(pos core.ScreenPos) error {
	return r.ctrl.OnPointerDown(pos)
}

// PointerMove moves the drag guide.
func (r *Round) PointerMove(pos core.ScreenPos) error {
	return r.ctrl.OnPointerMove(pos)
}

// PointerUp drops the dragged car.
func (r *Round) PointerUp(pos core.ScreenPos) error {
	return r.ctrl.OnPointerUp(pos)
}

// Release drops the dragged car at its last target.
func (r *Round) Release() error {
	return r.ctrl.Release()
}

// Dragging reports whether a drag is open.
func (r *Round) Dragging() bool {
	_, ok := r.ctrl.Session()
	return ok
}

// Tick advances animations by dt. The round clock stops at game over.
func (r *Round) Tick(dt time.Duration) {
	if !r.ctrl.GameOver() {
		r.elapsed += dt
	}
	r.ctrl.OnTick(dt)
}

// Elapsed returns the play time so far.
func (r *Round) Elapsed() time.Duration {
	return r.elapsed
}

// State returns the round counters.
func (r *Round) State() core.GameState {
	st := r.ctrl.Stats()
	return core.GameState{
		Moves:    st.Moves,
		Merges:   st.Merges,
		Live:     r.reg.Live(),
		GameOver: r.ctrl.GameOver(),
	}
}

// Phase returns the controller phase.
func (r *Round) Phase() engine.Phase {
	return r.ctrl.Phase()
}

// Cars returns the live cars.
func (r *Round) Cars() []engine.Car {
	return r.ctrl.Cars()
}

// CarAt returns the idle car a pointer press at pos would pick up.
func (r *Round) CarAt(pos core.ScreenPos) (engine.Car, bool) {
	id, ok := r.reg.HitTest(r.board.CastRay(pos))
	if !ok {
		return engine.Car{}, false
	}
	return r.reg.Car(id)
}

// Camera returns the board camera, for mapping world points to cells.
func (r *Round) Camera() scene.Camera {
	return r.board.Camera()
}

// Snapshot returns the observable state.
func (r *Round) Snapshot() engine.Snapshot {
	return r.ctrl.Snapshot()
}

// Version changes whenever the observable state may have changed.
func (r *Round) Version() uint64 {
	return r.ctrl.Version()
}
