package geom

import (
	"math"
	"testing"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(4, 6)

	if got := a.Add(b); got != V(5, 8) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != V(3, 4) {
		t.Errorf("Sub = %v", got)
	}
	if got := b.Sub(a).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot = %v, want 16", got)
	}
	if got := V(1, 0).Cross(V(0, 1)); got != 1 {
		t.Errorf("Cross = %v, want 1", got)
	}
}

func TestVec2_Normalize(t *testing.T) {
	tests := []struct {
		in   Vec2
		want Vec2
	}{
		{V(3, 4), V(0.6, 0.8)},
		{V(0, -2), V(0, -1)},
		{V(0, 0), V(0, 0)},
	}

	for _, tt := range tests {
		got := tt.in.Normalize()
		if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVec2_Rotate(t *testing.T) {
	got := V(1, 0).Rotate(math.Pi / 2)
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y-1) > 1e-12 {
		t.Errorf("Rotate = %v, want (0,1)", got)
	}
	if p := V(1, 0).Perp(); p != V(0, 1) {
		t.Errorf("Perp = %v", p)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("int clamp failed")
	}
	if Clamp(0.5, 0.0, 1.0) != 0.5 {
		t.Error("float clamp failed")
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
	}
	for _, tt := range tests {
		if got := NormalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if d := AngleDelta(350, 10); math.Abs(d-20) > 1e-9 {
		t.Errorf("AngleDelta(350,10) = %v, want 20", d)
	}
	if d := AngleDelta(10, 350); math.Abs(d+20) > 1e-9 {
		t.Errorf("AngleDelta(10,350) = %v, want -20", d)
	}
}

func TestRect(t *testing.T) {
	r := Rect{Max: V(100, 50)}
	if r.Center() != V(50, 25) {
		t.Errorf("Center = %v", r.Center())
	}
	if got := r.ClampPoint(V(150, -10)); got != V(100, 0) {
		t.Errorf("ClampPoint = %v", got)
	}
	in := r.Inset(10, 5)
	if in.Min != V(10, 5) || in.Max != V(90, 45) {
		t.Errorf("Inset = %v", in)
	}
	if !(Rect{}).Empty() {
		t.Error("zero rect should be empty")
	}
}
