package config

import (
	_ "embed"
)

//go:embed defaults/carmerge.yaml
var defaultMergeYAML []byte

// DefaultMergeConfig returns the default round configuration.
func DefaultMergeConfig() MergeConfig {
	return MergeConfig{
		Grid: GridConfig{
			CellSize: 0.5,
			Offset:   -0.25,
			Min:      -4.75,
			Max:      5,
		},
		Round: RoundConfig{
			TerminalThreshold: 2,
			TerminalType:      "police",
			AwaitFeedback:     true,
			TurnDistance:      0.2,
		},
		Animation: AnimationConfig{
			SettleMsPerUnit: 150,
			MergeGrowth:     2.0,
			MaxScale:        4.0,
			GrowChain: []ScaleStep{
				{Factor: 1.25, Ms: 100},
				{Factor: 0.75, Ms: 200},
				{Factor: 1.0, Ms: 100},
			},
			TerminalScale: 2.0,
			TerminalChain: []ScaleStep{
				{Factor: 1.125, Ms: 100},
				{Factor: 0.625, Ms: 200},
				{Factor: 1.0, Ms: 100},
			},
			HopHeight: 0.05,
			HopMs:     100,
		},
		Effects: EffectsConfig{
			Dust:  EmitterConfig{DurationMs: 800, MaxAgeMs: 1000, Particles: 20},
			Burst: EmitterConfig{DurationMs: 800, MaxAgeMs: 1000, Particles: 100},
			Shine: EmitterConfig{DurationMs: 1200, MaxAgeMs: 1000, Particles: 60},
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultMergeYAML
}
