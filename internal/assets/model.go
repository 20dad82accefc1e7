package assets

import (
	"fmt"
	"math"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/engine"
)

// yamlLevel is the on-disk level model.
type yamlLevel struct {
	Slot    string `yaml:"slot"`
	Name    string `yaml:"name"`
	Surface struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"surface"`
	GroundGlyph string `yaml:"ground_glyph"`
	GroundColor string `yaml:"ground_color"`
}

// yamlVehicle is the on-disk vehicle model.
type yamlVehicle struct {
	Slot  string      `yaml:"slot"`
	Name  string      `yaml:"name"`
	Type  string      `yaml:"type"`
	Color string      `yaml:"color"`
	Glyph string      `yaml:"glyph"`
	Side  [][]float64 `yaml:"side"`
}

// Level is the walkable ground model.
type Level struct {
	Name        string
	SurfaceMin  float64
	SurfaceMax  float64
	GroundGlyph rune
	GroundColor core.Color
}

// Contains reports whether a ground point lies on the surface.
func (l Level) Contains(x, z float64) bool {
	return x >= l.SurfaceMin && x <= l.SurfaceMax && z >= l.SurfaceMin && z <= l.SurfaceMax
}

// Vehicle is a loaded car model.
type Vehicle struct {
	Slot      Slot
	Name      string
	Type      engine.CarType
	Color     core.Color
	Glyph     rune
	Outline   []core.Vec3 // Closed body outline on the ground plane, both halves
	Footprint engine.Footprint
}

func parseLevel(data []byte) (Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.Slot != string(SlotLevel) {
		return Level{}, fmt.Errorf("slot %q, expected %q", yl.Slot, SlotLevel)
	}
	if yl.Surface.Min >= yl.Surface.Max {
		return Level{}, fmt.Errorf("surface min %v must be below max %v", yl.Surface.Min, yl.Surface.Max)
	}

	glyph, err := firstRune(yl.GroundGlyph)
	if err != nil {
		return Level{}, fmt.Errorf("ground_glyph: %w", err)
	}
	color, ok := core.ParseColor(yl.GroundColor)
	if !ok {
		return Level{}, fmt.Errorf("unknown ground_color %q", yl.GroundColor)
	}

	return Level{
		Name:        yl.Name,
		SurfaceMin:  yl.Surface.Min,
		SurfaceMax:  yl.Surface.Max,
		GroundGlyph: glyph,
		GroundColor: color,
	}, nil
}

func parseVehicle(data []byte, slot Slot) (Vehicle, error) {
	var yv yamlVehicle
	if err := yaml.Unmarshal(data, &yv); err != nil {
		return Vehicle{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yv.Slot != string(slot) {
		return Vehicle{}, fmt.Errorf("slot %q, expected %q", yv.Slot, slot)
	}
	if yv.Type == "" {
		return Vehicle{}, fmt.Errorf("missing type")
	}
	if want := "car_" + yv.Type; want != string(slot) {
		return Vehicle{}, fmt.Errorf("type %q does not belong in slot %q", yv.Type, slot)
	}

	color, ok := core.ParseColor(yv.Color)
	if !ok {
		return Vehicle{}, fmt.Errorf("unknown color %q", yv.Color)
	}
	glyph, err := firstRune(yv.Glyph)
	if err != nil {
		return Vehicle{}, fmt.Errorf("glyph: %w", err)
	}
	outline, fp, err := mirrorSide(yv.Side)
	if err != nil {
		return Vehicle{}, fmt.Errorf("side: %w", err)
	}

	return Vehicle{
		Slot:      slot,
		Name:      yv.Name,
		Type:      engine.CarType(yv.Type),
		Color:     color,
		Glyph:     glyph,
		Outline:   outline,
		Footprint: fp,
	}, nil
}

// mirrorSide builds the full outline from the right half of a body. Points
// run nose to tail on the right; the left half comes back tail to nose so
// the outline stays closed. Points on the center line are not duplicated.
func mirrorSide(side [][]float64) ([]core.Vec3, engine.Footprint, error) {
	if len(side) < 2 {
		return nil, engine.Footprint{}, fmt.Errorf("need at least 2 points, got %d", len(side))
	}

	half := make([]core.Vec3, 0, len(side))
	for i, p := range side {
		if len(p) != 2 {
			return nil, engine.Footprint{}, fmt.Errorf("point %d: expected [x, z]", i)
		}
		if p[0] < 0 {
			return nil, engine.Footprint{}, fmt.Errorf("point %d: x %v is left of the center line", i, p[0])
		}
		half = append(half, core.Vec3{X: p[0], Z: p[1]})
	}

	outline := append([]core.Vec3(nil), half...)
	for i := len(half) - 1; i >= 0; i-- {
		if half[i].X == 0 {
			continue
		}
		outline = append(outline, core.Vec3{X: -half[i].X, Z: half[i].Z})
	}

	fp := engine.Footprint{Front: math.Inf(-1), Rear: math.Inf(-1)}
	for _, p := range outline {
		fp.HalfWidth = math.Max(fp.HalfWidth, math.Abs(p.X))
		fp.Front = math.Max(fp.Front, p.Z)
		fp.Rear = math.Max(fp.Rear, -p.Z)
	}
	if fp.HalfWidth <= 0 || fp.Front+fp.Rear <= 0 {
		return nil, engine.Footprint{}, fmt.Errorf("outline has no area")
	}
	return outline, fp, nil
}

func firstRune(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return 0, fmt.Errorf("empty or invalid")
	}
	return r, nil
}
