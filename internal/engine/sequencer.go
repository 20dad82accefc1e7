package engine

import (
	"math"
	"time"

	"github.com/vovakirdan/carmerge/internal/core"
)

// Property names the animated property of a car.
type Property uint8

const (
	PropPosition Property = iota
	PropScale
	PropHop // Height only, used by the engine-running bounce
)

// ChainKey identifies the chain animating one property of one car. At most
// one chain runs per key.
type ChainKey struct {
	Car  CarID
	Prop Property
}

// Target is the mutable property a chain drives.
type Target interface {
	Value() core.Vec3
	Apply(v core.Vec3)
}

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float64) float64

// Linear is the identity ease.
func Linear(t float64) float64 {
	return t
}

// EaseOutQuad provides smooth deceleration.
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// Step moves the target to To over Duration.
type Step struct {
	To       core.Vec3
	Duration time.Duration
	Ease     Ease // nil means Linear
}

type chain struct {
	key     ChainKey
	target  Target
	steps   []Step
	idx     int
	elapsed time.Duration
	from    core.Vec3
	start   core.Vec3 // Value at chain start, restored on each loop
	loop    bool
	period  time.Duration
	done    func()
	dead    bool
}

// Sequencer runs ordered step chains cooperatively. Chains only advance
// inside Advance, and completion callbacks run there too, after every chain
// has been advanced for the slice. That keeps all game-state mutation at
// animation step boundaries.
type Sequencer struct {
	chains []*chain
}

// NewSequencer creates an idle sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Run starts a chain. Step n+1 begins once step n finishes; done fires once
// after the last step. A chain already running on the same key is
// cancelled first and its property keeps its last applied value.
func (s *Sequencer) Run(key ChainKey, target Target, steps []Step, done func()) {
	s.start(key, target, steps, false, done)
}

// Loop starts a chain that restarts from its initial value after its last
// step and never completes. Chains without any duration are ignored.
func (s *Sequencer) Loop(key ChainKey, target Target, steps []Step) {
	s.start(key, target, steps, true, nil)
}

func (s *Sequencer) start(key ChainKey, target Target, steps []Step, loop bool, done func()) {
	s.Cancel(key)

	var period time.Duration
	for _, st := range steps {
		period += st.Duration
	}
	if loop && period <= 0 {
		return
	}

	v := target.Value()
	s.chains = append(s.chains, &chain{
		key:    key,
		target: target,
		steps:  append([]Step(nil), steps...),
		from:   v,
		start:  v,
		loop:   loop,
		period: period,
		done:   done,
	})
}

// Cancel stops the chain on key without firing its completion. Returns
// false if nothing was running.
func (s *Sequencer) Cancel(key ChainKey) bool {
	for i, c := range s.chains {
		if c.key == key {
			c.dead = true
			s.chains = append(s.chains[:i], s.chains[i+1:]...)
			return true
		}
	}
	return false
}

// CancelCar stops every chain animating the given car.
func (s *Sequencer) CancelCar(id CarID) {
	kept := s.chains[:0]
	for _, c := range s.chains {
		if c.key.Car == id {
			c.dead = true
			continue
		}
		kept = append(kept, c)
	}
	clear(s.chains[len(kept):])
	s.chains = kept
}

// Running reports whether a chain is active on key.
func (s *Sequencer) Running(key ChainKey) bool {
	for _, c := range s.chains {
		if c.key == key {
			return true
		}
	}
	return false
}

// Len returns the number of active chains.
func (s *Sequencer) Len() int {
	return len(s.chains)
}

// Advance moves every chain forward by dt. Time left over after a step
// finishes carries into the next step.
func (s *Sequencer) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}

	active := append([]*chain(nil), s.chains...)
	var finished []*chain
	for _, c := range active {
		if c.dead {
			continue
		}
		if c.advance(dt) {
			finished = append(finished, c)
		}
	}

	for _, c := range finished {
		s.remove(c)
	}
	for _, c := range finished {
		if c.done != nil {
			c.done()
		}
	}
}

func (s *Sequencer) remove(target *chain) {
	for i, c := range s.chains {
		if c == target {
			s.chains = append(s.chains[:i], s.chains[i+1:]...)
			return
		}
	}
}

// advance applies dt to the chain and reports whether it finished.
func (c *chain) advance(dt time.Duration) bool {
	if c.loop && dt > c.period {
		dt %= c.period
	}

	remaining := dt
	for {
		if c.idx >= len(c.steps) {
			if !c.loop {
				return true
			}
			c.target.Apply(c.start)
			c.from = c.start
			c.idx = 0
		}

		st := c.steps[c.idx]
		need := st.Duration - c.elapsed
		if remaining >= need {
			c.target.Apply(st.To)
			remaining -= need
			c.from = st.To
			c.elapsed = 0
			c.idx++
			if c.loop && remaining == 0 {
				return false
			}
			continue
		}

		c.elapsed += remaining
		t := float64(c.elapsed) / float64(st.Duration)
		ease := st.Ease
		if ease == nil {
			ease = Linear
		}
		c.target.Apply(c.from.Lerp(st.To, ease(t)))
		return false
	}
}

// SettleDuration is the drop tween length: whole world units travelled
// times the per-unit time, so longer drags keep the same travel speed.
func SettleDuration(from, to core.Vec3, perUnit time.Duration) time.Duration {
	return time.Duration(math.Ceil(from.DistanceTo(to))) * perUnit
}

// ScaleChain builds scale steps whose factors are relative to final.
func ScaleChain(final float64, factors []float64, durations []time.Duration) []Step {
	steps := make([]Step, 0, len(factors))
	for i, f := range factors {
		var d time.Duration
		if i < len(durations) {
			d = durations[i]
		}
		v := final * f
		steps = append(steps, Step{To: core.Vec3{X: v, Y: v, Z: v}, Duration: d})
	}
	return steps
}
