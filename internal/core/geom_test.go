package core

import (
	"math"
	"testing"
)

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{
			name:     "overlapping boxes",
			a:        Box{Min: V3(0, 0, 0), Max: V3(1, 1, 1)},
			b:        Box{Min: V3(0.5, 0, 0.5), Max: V3(1.5, 1, 1.5)},
			expected: true,
		},
		{
			name:     "separated on x",
			a:        Box{Min: V3(0, 0, 0), Max: V3(1, 1, 1)},
			b:        Box{Min: V3(2, 0, 0), Max: V3(3, 1, 1)},
			expected: false,
		},
		{
			name:     "separated on z",
			a:        Box{Min: V3(0, 0, 0), Max: V3(1, 1, 1)},
			b:        Box{Min: V3(0, 0, 2), Max: V3(1, 1, 3)},
			expected: false,
		},
		{
			name:     "touching edges (no overlap)",
			a:        Box{Min: V3(0, 0, 0), Max: V3(1, 1, 1)},
			b:        Box{Min: V3(1, 0, 0), Max: V3(2, 1, 1)},
			expected: false,
		},
		{
			name:     "contained box",
			a:        Box{Min: V3(-2, 0, -2), Max: V3(2, 1, 2)},
			b:        Box{Min: V3(-0.1, 0, -0.1), Max: V3(0.1, 1, 0.1)},
			expected: true,
		},
		{
			name:     "height is ignored",
			a:        Box{Min: V3(0, 0, 0), Max: V3(1, 1, 1)},
			b:        Box{Min: V3(0.5, 5, 0.5), Max: V3(1.5, 6, 1.5)},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestBoxAround(t *testing.T) {
	b := BoxAround(V3(1, 0, -1), V3(-2, 0.5, 3), V3(0, -1, 0))

	if b.Min != V3(-2, -1, -1) {
		t.Errorf("Min = %+v, expected (-2, -1, -1)", b.Min)
	}
	if b.Max != V3(1, 0.5, 3) {
		t.Errorf("Max = %+v, expected (1, 0.5, 3)", b.Max)
	}
	if c := b.Center(); c != V3(-0.5, -0.25, 1) {
		t.Errorf("Center() = %+v, expected (-0.5, -0.25, 1)", c)
	}

	if (BoxAround() != Box{}) {
		t.Error("BoxAround() with no points should be the zero box")
	}
}

func TestBoxContainsGround(t *testing.T) {
	b := Box{Min: V3(-1, 0, -1), Max: V3(1, 1, 1)}

	tests := []struct {
		name     string
		x, z     float64
		expected bool
	}{
		{"center", 0, 0, true},
		{"edge inclusive", 1, 1, true},
		{"outside x", 1.01, 0, false},
		{"outside z", 0, -1.5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.ContainsGround(tc.x, tc.z); got != tc.expected {
				t.Errorf("ContainsGround(%v, %v) = %v, expected %v", tc.x, tc.z, got, tc.expected)
			}
		})
	}
}

func TestVec3Math(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 6, 3)

	if got := a.DistanceTo(b); math.Abs(got-5) > 1e-12 {
		t.Errorf("DistanceTo() = %v, expected 5", got)
	}
	if got := a.Lerp(b, 0.5); got != V3(2.5, 4, 3) {
		t.Errorf("Lerp(0.5) = %+v, expected (2.5, 4, 3)", got)
	}
	if got := b.Sub(a).Add(a); got != b {
		t.Errorf("Sub/Add round trip = %+v, expected %+v", got, b)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale(2) = %+v", got)
	}
	if got := a.Ground(); got != V3(1, 0, 3) {
		t.Errorf("Ground() = %+v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
