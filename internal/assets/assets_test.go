package assets

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/carmerge/internal/core"
	"github.com/vovakirdan/carmerge/internal/engine"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	lvl := c.Level()
	if lvl.SurfaceMin != -5.5 || lvl.SurfaceMax != 5.5 {
		t.Errorf("surface = [%v, %v], expected [-5.5, 5.5]", lvl.SurfaceMin, lvl.SurfaceMax)
	}
	if !lvl.Contains(5, -5) || lvl.Contains(6, 0) {
		t.Error("Level.Contains disagrees with the surface")
	}

	if got := len(c.Vehicles()); got != len(VehicleSlots) {
		t.Fatalf("len(Vehicles()) = %d, expected %d", got, len(VehicleSlots))
	}
	for _, typ := range []engine.CarType{"police", "red", "blue", "green", "yellow"} {
		if !c.Has(typ) {
			t.Errorf("catalog is missing %q", typ)
		}
	}

	red, ok := c.Vehicle("red")
	if !ok {
		t.Fatal("no red vehicle")
	}
	if red.Slot != SlotRed || red.Color != core.ColorBrightRed || red.Glyph != '█' {
		t.Errorf("red = %+v", red)
	}
	want := engine.Footprint{HalfWidth: 0.2, Front: 0.3, Rear: 0.2}
	if red.Footprint != want {
		t.Errorf("red footprint = %+v, expected %+v", red.Footprint, want)
	}
	if c.Footprint("red") != want {
		t.Error("Footprint() disagrees with Vehicle()")
	}
	if (c.Footprint("taxi") != engine.Footprint{}) {
		t.Error("unknown type should have a zero footprint")
	}
}

func TestMirrorSide(t *testing.T) {
	outline, fp, err := mirrorSide([][]float64{{0, 0.3}, {0.2, 0.1}, {0.1, -0.2}, {0, -0.2}})
	if err != nil {
		t.Fatalf("mirrorSide: %v", err)
	}

	want := []core.Vec3{
		{X: 0, Z: 0.3}, {X: 0.2, Z: 0.1}, {X: 0.1, Z: -0.2}, {X: 0, Z: -0.2},
		{X: -0.1, Z: -0.2}, {X: -0.2, Z: 0.1},
	}
	if len(outline) != len(want) {
		t.Fatalf("outline = %v, expected %v", outline, want)
	}
	for i := range want {
		if outline[i] != want[i] {
			t.Errorf("outline[%d] = %+v, expected %+v", i, outline[i], want[i])
		}
	}
	if fp != (engine.Footprint{HalfWidth: 0.2, Front: 0.3, Rear: 0.2}) {
		t.Errorf("footprint = %+v", fp)
	}
}

const levelYAML = `slot: level
name: Test
surface: {min: -1, max: 1}
ground_glyph: "."
ground_color: gray
`

func carYAML(slot, typ, color string) string {
	return "slot: " + slot + "\ntype: " + typ + "\ncolor: " + color +
		"\nglyph: \"#\"\nside:\n  - [0, 0.3]\n  - [0.2, 0]\n  - [0, -0.2]\n"
}

func validFS() fstest.MapFS {
	fsys := fstest.MapFS{"level.yaml": {Data: []byte(levelYAML)}}
	for _, slot := range VehicleSlots {
		typ := strings.TrimPrefix(string(slot), "car_")
		fsys[string(slot)+".yaml"] = &fstest.MapFile{Data: []byte(carYAML(string(slot), typ, "red"))}
	}
	return fsys
}

func TestLoadCustomFS(t *testing.T) {
	c, err := Load(validFS())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := c.Vehicle("police"); v.Glyph != '#' || v.Footprint.Front != 0.3 {
		t.Errorf("police = %+v", v)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fstest.MapFS)
		want   string
	}{
		{
			name:   "missing slot",
			mutate: func(fs fstest.MapFS) { delete(fs, "car_blue.yaml") },
			want:   "car_blue",
		},
		{
			name: "unknown color",
			mutate: func(fs fstest.MapFS) {
				fs["car_red.yaml"] = &fstest.MapFile{Data: []byte(carYAML("car_red", "red", "plaid"))}
			},
			want: "unknown color",
		},
		{
			name: "type in the wrong slot",
			mutate: func(fs fstest.MapFS) {
				fs["car_red.yaml"] = &fstest.MapFile{Data: []byte(carYAML("car_red", "blue", "red"))}
			},
			want: "does not belong",
		},
		{
			name: "point left of center",
			mutate: func(fs fstest.MapFS) {
				fs["car_green.yaml"] = &fstest.MapFile{Data: []byte("slot: car_green\ntype: green\ncolor: green\nglyph: g\nside: [[0, 1], [-0.2, 0]]\n")}
			},
			want: "left of the center line",
		},
		{
			name: "inverted surface",
			mutate: func(fs fstest.MapFS) {
				fs["level.yaml"] = &fstest.MapFile{Data: []byte("slot: level\nsurface: {min: 2, max: 1}\nground_glyph: .\nground_color: gray\n")}
			},
			want: "surface",
		},
		{
			name: "bad yaml",
			mutate: func(fs fstest.MapFS) {
				fs["car_yellow.yaml"] = &fstest.MapFile{Data: []byte("slot: [unclosed")}
			},
			want: "yaml",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fsys := validFS()
			tc.mutate(fsys)
			_, err := Load(fsys)
			if err == nil {
				t.Fatal("Load() succeeded, expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
