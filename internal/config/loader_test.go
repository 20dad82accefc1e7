package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := ParseMerge(DefaultYAML())
	if err != nil {
		t.Fatalf("ParseMerge(embedded) failed: %v", err)
	}

	if !reflect.DeepEqual(cfg, DefaultMergeConfig()) {
		t.Errorf("embedded YAML and DefaultMergeConfig() differ:\n%+v\n%+v", cfg, DefaultMergeConfig())
	}
}

func TestLoadMergeFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadMerge("")
	if err != nil {
		t.Fatalf("LoadMerge() failed: %v", err)
	}
	if cfg.Grid.CellSize != 0.5 || cfg.Round.TerminalThreshold != 2 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMergeUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".carmerge", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "carmerge.yaml"), []byte("round:\n  terminal_threshold: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMerge("")
	if err != nil {
		t.Fatalf("LoadMerge() failed: %v", err)
	}
	if cfg.Round.TerminalThreshold != 3 {
		t.Errorf("TerminalThreshold = %d, expected 3 from user config", cfg.Round.TerminalThreshold)
	}
}

func TestLoadMergeCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
grid:
  max: 4
animation:
  settle_ms_per_unit: 90
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMerge(path)
	if err != nil {
		t.Fatalf("LoadMerge(%s) failed: %v", path, err)
	}

	if cfg.Grid.Max != 4 {
		t.Errorf("Grid.Max = %v, expected 4", cfg.Grid.Max)
	}
	if cfg.Animation.SettleMsPerUnit != 90 {
		t.Errorf("SettleMsPerUnit = %d, expected 90", cfg.Animation.SettleMsPerUnit)
	}
	// Untouched keys keep their defaults
	if cfg.Grid.Min != -4.75 || len(cfg.Animation.GrowChain) != 3 {
		t.Errorf("partial config should keep defaults, got %+v", cfg)
	}
}

func TestLoadMergeCustomPathErrors(t *testing.T) {
	if _, err := LoadMerge(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMerge(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MergeConfig)
	}{
		{"zero cell", func(c *MergeConfig) { c.Grid.CellSize = 0 }},
		{"offset too large", func(c *MergeConfig) { c.Grid.Offset = 0.25 }},
		{"inverted bounds", func(c *MergeConfig) { c.Grid.Min, c.Grid.Max = 5, -5 }},
		{"bounds without a cell", func(c *MergeConfig) { c.Grid.Min, c.Grid.Max = 0.0, 0.1 }},
		{"threshold too low", func(c *MergeConfig) { c.Round.TerminalThreshold = 1 }},
		{"missing terminal type", func(c *MergeConfig) { c.Round.TerminalType = "" }},
		{"shrinking growth", func(c *MergeConfig) { c.Animation.MergeGrowth = 0.5 }},
		{"empty grow chain", func(c *MergeConfig) { c.Animation.GrowChain = nil }},
		{"negative step", func(c *MergeConfig) { c.Animation.TerminalChain[0].Ms = -1 }},
		{"negative effect", func(c *MergeConfig) { c.Effects.Burst.MaxAgeMs = -1 }},
	}

	if err := DefaultMergeConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultMergeConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultMergeConfig())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	cfg, err := ParseMerge(data)
	if err != nil {
		t.Fatalf("ParseMerge(Marshal()) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultMergeConfig()) {
		t.Error("marshalled config should parse back to the defaults")
	}
}
