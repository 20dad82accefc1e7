package engine

import (
	"time"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

// EffectKind names a particle effect.
type EffectKind string

const (
	EffectDropDust      EffectKind = "drop-dust"
	EffectMatchBurst    EffectKind = "match-burst"
	EffectTerminalShine EffectKind = "terminal-shine"
)

// effectOrder fixes the order of Active for stable rendering.
var effectOrder = []EffectKind{EffectDropDust, EffectMatchBurst, EffectTerminalShine}

// Emitter is the live state of one effect.
type Emitter struct {
	Kind      EffectKind
	Position  core.Vec3
	Age       time.Duration
	Duration  time.Duration // Emission time
	MaxAge    time.Duration // Particle lifetime after emission
	Particles int
	Active    bool
	// Generation counts restarts so renderers can reseed particles.
	Generation int
}

// Emitting reports whether the emitter is still spawning particles.
func (e Emitter) Emitting() bool {
	return e.Active && e.Age < e.Duration
}

// Progress returns how far the emitter is through its lifetime, 0 to 1.
func (e Emitter) Progress() float64 {
	total := e.Duration + e.MaxAge
	if total <= 0 {
		return 1
	}
	return core.ClampF(float64(e.Age)/float64(total), 0, 1)
}

// EffectSink receives every fired effect. Implementations must not block.
type EffectSink interface {
	EffectFired(kind EffectKind, pos core.Vec3)
}

// NopSink discards effect notifications.
type NopSink struct{}

// EffectFired implements EffectSink.
func (NopSink) EffectFired(EffectKind, core.Vec3) {}

// Effects owns one emitter per kind. Firing restarts the emitter at the new
// position; effects never queue and never block game logic.
type Effects struct {
	emitters map[EffectKind]*Emitter
	sink     EffectSink
}

// NewEffects creates idle emitters from configuration. A nil sink is
// replaced by NopSink.
func NewEffects(cfg config.EffectsConfig, sink EffectSink) *Effects {
	if sink == nil {
		sink = NopSink{}
	}
	mk := func(k EffectKind, c config.EmitterConfig) *Emitter {
		return &Emitter{
			Kind:      k,
			Duration:  time.Duration(c.DurationMs) * time.Millisecond,
			MaxAge:    time.Duration(c.MaxAgeMs) * time.Millisecond,
			Particles: c.Particles,
		}
	}
	return &Effects{
		emitters: map[EffectKind]*Emitter{
			EffectDropDust:      mk(EffectDropDust, cfg.Dust),
			EffectMatchBurst:    mk(EffectMatchBurst, cfg.Burst),
			EffectTerminalShine: mk(EffectTerminalShine, cfg.Shine),
		},
		sink: sink,
	}
}

// Fire resets and enables the emitter for kind at pos.
func (e *Effects) Fire(kind EffectKind, pos core.Vec3) {
	em, ok := e.emitters[kind]
	if !ok {
		return
	}
	em.Position = pos
	em.Age = 0
	em.Active = true
	em.Generation++
	e.sink.EffectFired(kind, pos)
}

// Tick ages active emitters and retires the ones whose particles have died.
func (e *Effects) Tick(dt time.Duration) {
	for _, em := range e.emitters {
		if !em.Active {
			continue
		}
		em.Age += dt
		if em.Age >= em.Duration+em.MaxAge {
			em.Active = false
		}
	}
}

// Active returns copies of the live emitters.
func (e *Effects) Active() []Emitter {
	var out []Emitter
	for _, k := range effectOrder {
		if em := e.emitters[k]; em.Active {
			out = append(out, *em)
		}
	}
	return out
}

// Emitter returns the current state of the emitter for kind.
func (e *Effects) Emitter(kind EffectKind) (Emitter, bool) {
	em, ok := e.emitters[kind]
	if !ok {
		return Emitter{}, false
	}
	return *em, true
}
