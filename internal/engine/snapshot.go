package engine

// CarSnapshot is the observable state of one car.
type CarSnapshot struct {
	ID    CarID   `json:"id"`
	Type  CarType `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Scale float64 `json:"scale"`
	Yaw   float64 `json:"yaw"`
	State string  `json:"state"`
}

// GuideSnapshot is the drop guide of an open drag.
type GuideSnapshot struct {
	Car CarID   `json:"car"`
	X   float64 `json:"x"`
	Z   float64 `json:"z"`
}

// EffectSnapshot is one live emitter.
type EffectSnapshot struct {
	Kind     EffectKind `json:"kind"`
	X        float64    `json:"x"`
	Z        float64    `json:"z"`
	Progress float64    `json:"progress"`
}

// Snapshot captures the observable round state for watchers and tests.
type Snapshot struct {
	Version  uint64           `json:"version"`
	Phase    string           `json:"phase"`
	GameOver bool             `json:"game_over"`
	Moves    int              `json:"moves"`
	Merges   int              `json:"merges"`
	Cars     []CarSnapshot    `json:"cars"`
	Guide    *GuideSnapshot   `json:"guide,omitempty"`
	Effects  []EffectSnapshot `json:"effects,omitempty"`
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	cars := c.reg.Cars()
	snap := Snapshot{
		Version:  c.version,
		Phase:    c.phase.String(),
		GameOver: c.reg.GameOver(),
		Moves:    c.stats.Moves,
		Merges:   c.stats.Merges,
		Cars:     make([]CarSnapshot, 0, len(cars)),
	}
	for _, car := range cars {
		snap.Cars = append(snap.Cars, CarSnapshot{
			ID:    car.ID,
			Type:  car.Type,
			X:     car.Position.X,
			Y:     car.Position.Y,
			Z:     car.Position.Z,
			Scale: car.Scale,
			Yaw:   car.Yaw,
			State: car.State.String(),
		})
	}
	if c.session != nil {
		snap.Guide = &GuideSnapshot{Car: c.session.Car, X: c.session.Target.X, Z: c.session.Target.Z}
	}
	for _, em := range c.fx.Active() {
		snap.Effects = append(snap.Effects, EffectSnapshot{
			Kind:     em.Kind,
			X:        em.Position.X,
			Z:        em.Position.Z,
			Progress: em.Progress(),
		})
	}
	return snap
}
