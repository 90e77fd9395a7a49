package vec

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := a.Add(b); got != New(5, 7, 9) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != New(3, 3, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != New(2, 4, 6) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot failed: got %v", got)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := New(1, 0, 0)
	z := New(0, 0, 1)

	if got := x.Cross(Up); got != z {
		t.Errorf("x cross up = %v, want %v", got, z)
	}
	if got := z.Cross(Up); got != New(-1, 0, 0) {
		t.Errorf("z cross up = %v, want (-1,0,0)", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		len  float64
	}{
		{"axis", New(3, 0, 0), 1},
		{"diagonal", New(3, 4, 12), 1},
		{"zero", Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.in.Normalize()
			if math.Abs(n.Len()-tt.len) > 1e-12 {
				t.Errorf("Normalize(%v).Len() = %v, want %v", tt.in, n.Len(), tt.len)
			}
			if !n.IsFinite() {
				t.Errorf("Normalize(%v) produced non-finite %v", tt.in, n)
			}
		})
	}
}

func TestVec3_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec3
		valid bool
	}{
		{"zeros", Zero, true},
		{"normal", New(1, -2, 3), true},
		{"with NaN", New(1, math.NaN(), 0), false},
		{"with +Inf", New(math.Inf(1), 0, 0), false},
		{"with -Inf", New(0, 0, math.Inf(-1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.valid {
				t.Errorf("IsFinite() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec3_Dist(t *testing.T) {
	if d := New(1, 1, 1).Dist(New(4, 5, 1)); math.Abs(d-5) > 1e-12 {
		t.Errorf("Dist = %v, want 5", d)
	}
}
