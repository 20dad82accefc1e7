// Package config provides YAML-based configuration loading for carmerge.
package config

// MergeConfig contains all tunables of a drag-and-merge round.
type MergeConfig struct {
	Grid      GridConfig      `yaml:"grid"`
	Round     RoundConfig     `yaml:"round"`
	Animation AnimationConfig `yaml:"animation"`
	Effects   EffectsConfig   `yaml:"effects"`
}

// GridConfig defines the placement lattice and the playable rectangle.
// Bounds apply to both ground axes.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
	Offset   float64 `yaml:"offset"` // Added after rounding; -cell/2 centers on cell midpoints
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
}

// RoundConfig defines match and round-ending rules.
type RoundConfig struct {
	// TerminalThreshold is the live count, counted before the merge, at or
	// below which a match becomes the terminal escort merge. N means
	// "terminal when N cars are live": the default 2 ends the round on the
	// last pair, where counting after removal would call it threshold 1.
	TerminalThreshold int    `yaml:"terminal_threshold"`
	TerminalType      string `yaml:"terminal_type"`
	// AwaitFeedback keeps the board non-interactive until the merge
	// scale chain has finished.
	AwaitFeedback bool    `yaml:"await_feedback"`
	TurnDistance  float64 `yaml:"turn_distance"` // Min guide distance before the car turns toward it
}

// AnimationConfig defines tween timings and scale chains.
type AnimationConfig struct {
	SettleMsPerUnit int         `yaml:"settle_ms_per_unit"`
	MergeGrowth     float64     `yaml:"merge_growth"`
	MaxScale        float64     `yaml:"max_scale"`
	GrowChain       []ScaleStep `yaml:"grow_chain"`
	TerminalScale   float64     `yaml:"terminal_scale"`
	TerminalChain   []ScaleStep `yaml:"terminal_chain"`
	HopHeight       float64     `yaml:"hop_height"`
	HopMs           int         `yaml:"hop_ms"`
}

// ScaleStep is one step of a scale chain. Factor is relative to the
// chain's final scale.
type ScaleStep struct {
	Factor float64 `yaml:"factor"`
	Ms     int     `yaml:"ms"`
}

// EffectsConfig defines emitter lifetimes per effect kind.
type EffectsConfig struct {
	Dust  EmitterConfig `yaml:"dust"`
	Burst EmitterConfig `yaml:"burst"`
	Shine EmitterConfig `yaml:"shine"`
}

// EmitterConfig defines how long an emitter emits and how long its
// particles live after emission stops.
type EmitterConfig struct {
	DurationMs int `yaml:"duration_ms"`
	MaxAgeMs   int `yaml:"max_age_ms"`
	Particles  int `yaml:"particles"`
}
