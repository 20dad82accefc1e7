package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks that the configuration describes a playable round.
func (c MergeConfig) Validate() error {
	g := c.Grid
	if g.CellSize <= 0 {
		return fmt.Errorf("%w: grid.cell_size must be positive, got %v", ErrInvalid, g.CellSize)
	}
	// The offset must stay within half a cell for snapped points to snap
	// back onto themselves.
	if g.Offset < -g.CellSize/2 || g.Offset >= g.CellSize/2 {
		return fmt.Errorf("%w: grid.offset must be in [-cell_size/2, cell_size/2), got %v", ErrInvalid, g.Offset)
	}
	if g.Min >= g.Max {
		return fmt.Errorf("%w: grid.min (%v) must be below grid.max (%v)", ErrInvalid, g.Min, g.Max)
	}
	lo := math.Ceil((g.Min-g.Offset)/g.CellSize - 1e-9)
	hi := math.Floor((g.Max-g.Offset)/g.CellSize + 1e-9)
	if lo > hi {
		return fmt.Errorf("%w: grid bounds [%v, %v] contain no cell", ErrInvalid, g.Min, g.Max)
	}

	if c.Round.TerminalThreshold < 2 {
		return fmt.Errorf("%w: round.terminal_threshold must be at least 2, got %d", ErrInvalid, c.Round.TerminalThreshold)
	}
	if c.Round.TerminalType == "" {
		return fmt.Errorf("%w: round.terminal_type is required", ErrInvalid)
	}
	if c.Round.TurnDistance < 0 {
		return fmt.Errorf("%w: round.turn_distance must not be negative", ErrInvalid)
	}

	a := c.Animation
	if a.SettleMsPerUnit < 0 || a.HopMs < 0 {
		return fmt.Errorf("%w: animation timings must not be negative", ErrInvalid)
	}
	if a.MergeGrowth < 1 {
		return fmt.Errorf("%w: animation.merge_growth must be at least 1, got %v", ErrInvalid, a.MergeGrowth)
	}
	if a.MaxScale < 1 {
		return fmt.Errorf("%w: animation.max_scale must be at least 1, got %v", ErrInvalid, a.MaxScale)
	}
	if a.TerminalScale <= 0 {
		return fmt.Errorf("%w: animation.terminal_scale must be positive", ErrInvalid)
	}
	if err := validateChain("grow_chain", a.GrowChain); err != nil {
		return err
	}
	if err := validateChain("terminal_chain", a.TerminalChain); err != nil {
		return err
	}

	for name, e := range map[string]EmitterConfig{"dust": c.Effects.Dust, "burst": c.Effects.Burst, "shine": c.Effects.Shine} {
		if e.DurationMs < 0 || e.MaxAgeMs < 0 || e.Particles < 0 {
			return fmt.Errorf("%w: effects.%s values must not be negative", ErrInvalid, name)
		}
	}
	return nil
}

func validateChain(name string, steps []ScaleStep) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: animation.%s needs at least one step", ErrInvalid, name)
	}
	for i, s := range steps {
		if s.Factor <= 0 {
			return fmt.Errorf("%w: animation.%s[%d].factor must be positive", ErrInvalid, name, i)
		}
		if s.Ms < 0 {
			return fmt.Errorf("%w: animation.%s[%d].ms must not be negative", ErrInvalid, name, i)
		}
	}
	return nil
}
