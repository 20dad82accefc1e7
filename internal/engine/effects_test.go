package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/core"
)

type recordingSink struct {
	fired []EffectKind
}

func (s *recordingSink) EffectFired(kind EffectKind, _ core.Vec3) {
	s.fired = append(s.fired, kind)
}

func TestEffectsRestartInsteadOfQueue(t *testing.T) {
	sink := &recordingSink{}
	fx := NewEffects(config.DefaultMergeConfig().Effects, sink)

	fx.Fire(EffectMatchBurst, core.V3(1, 0, 1))
	fx.Tick(500 * time.Millisecond)
	fx.Fire(EffectMatchBurst, core.V3(-1, 0, 2))

	active := fx.Active()
	if len(active) != 1 {
		t.Fatalf("len(Active()) = %d, expected 1", len(active))
	}
	em := active[0]
	if em.Position != core.V3(-1, 0, 2) {
		t.Errorf("Position = %+v, expected the latest fire point", em.Position)
	}
	if em.Age != 0 {
		t.Errorf("Age = %v, expected reset to 0", em.Age)
	}
	if em.Generation != 2 {
		t.Errorf("Generation = %d, expected 2", em.Generation)
	}
	if len(sink.fired) != 2 {
		t.Errorf("sink saw %d effects, expected 2", len(sink.fired))
	}
}

func TestEffectsExpire(t *testing.T) {
	fx := NewEffects(config.DefaultMergeConfig().Effects, nil)

	fx.Fire(EffectDropDust, core.Vec3{})
	fx.Fire(EffectTerminalShine, core.Vec3{})

	em, _ := fx.Emitter(EffectDropDust)
	if !em.Emitting() {
		t.Error("fresh emitter should be emitting")
	}

	fx.Tick(1000 * time.Millisecond)
	em, _ = fx.Emitter(EffectDropDust)
	if em.Emitting() || !em.Active {
		t.Errorf("after 1s dust: emitting=%v active=%v, expected particles only", em.Emitting(), em.Active)
	}

	fx.Tick(900 * time.Millisecond)
	active := fx.Active()
	if len(active) != 1 || active[0].Kind != EffectTerminalShine {
		t.Fatalf("Active() = %+v, expected only the shine", active)
	}
	if p := active[0].Progress(); p <= 0 || p >= 1 {
		t.Errorf("shine Progress() = %v, expected within (0, 1)", p)
	}

	fx.Tick(time.Second)
	if len(fx.Active()) != 0 {
		t.Error("all emitters should have expired")
	}
}

func TestEffectsUnknownKindIgnored(t *testing.T) {
	sink := &recordingSink{}
	fx := NewEffects(config.DefaultMergeConfig().Effects, sink)

	fx.Fire(EffectKind("fireworks"), core.Vec3{})
	if len(fx.Active()) != 0 || len(sink.fired) != 0 {
		t.Error("unknown effect kind should be ignored")
	}
}
