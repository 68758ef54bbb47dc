package controller

import (
	"math"
	"testing"

	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
)

func TestWhiskerRoundTrip(t *testing.T) {
	seeds := []geom.Vec2{geom.V(40, 220), geom.V(140, 80), geom.V(260, 200), geom.V(360, 60)}
	path := manifold.NewSmoothPath(seeds, 13)

	tests := []struct {
		name string
		p    geom.Vec2
	}{
		{"landing", geom.V(200, 150)},
		{"above start", geom.V(40, 180)},
		{"beyond start", geom.V(0, 260)},
		{"beyond end", geom.V(395, 20)},
		{"on the curve", path.PointAt(0.4)},
		{"far below", geom.V(200, 290)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := path.Project(tt.p)
			w := DeriveWhisker(path, pr.T, tt.p)
			got := Replay(path, pr.T, w)
			if d := got.Dist(tt.p); d > 1 {
				t.Errorf("replay of %v landed at %v (%.3fpx off)", tt.p, got, d)
			}
			if w.Side != 1 && w.Side != -1 {
				t.Errorf("side = %v, want ±1", w.Side)
			}
		})
	}
}

func TestWhiskerInteriorHasNoLean(t *testing.T) {
	path := manifold.NewPath([]geom.Vec2{geom.V(0, 0), geom.V(100, 0)})
	w := DeriveWhisker(path, 0.5, geom.V(50, -20))
	if w.Lean > 1e-12 || w.Lean < -1e-12 {
		t.Errorf("lean = %v, want 0", w.Lean)
	}
	if w.Side != -1 || w.Length != 20 {
		t.Errorf("whisker = %+v, want side -1 length 20", w)
	}
}

func TestWhiskerCapped(t *testing.T) {
	w := Whisker{Length: 200, Side: 1}
	if got := w.capped(160).Length; got != 160 {
		t.Errorf("capped length = %v, want 160", got)
	}
	if got := w.capped(0).Length; got != 200 {
		t.Errorf("uncapped length = %v, want 200", got)
	}
}

func TestReducePathIsPure(t *testing.T) {
	path := manifold.NewPath([]geom.Vec2{geom.V(0, 0), geom.V(100, 0)})
	env := PathEnv{Path: path, MaxWhisker: 100}
	s0 := PathState{T: 0.5, Whisker: Whisker{Length: 10, Side: 1}}
	s0.Control = Replay(path, s0.T, s0.Whisker)

	s1 := ReducePath(env, s0, Down(geom.V(50, 0), GrabHandle))
	a := ReducePath(env, s1, Move(geom.V(80, 30)))
	b := ReducePath(env, s1, Move(geom.V(80, 30)))
	if a != b {
		t.Fatalf("same input produced %+v and %+v", a, b)
	}
	if math.Abs(a.T-0.8) > 1e-12 {
		t.Errorf("T = %v, want 0.8", a.T)
	}
	if a.Control.Dist(geom.V(80, 10)) > 1e-9 {
		t.Errorf("control = %v, want (80,10)", a.Control)
	}
	if s1.T != 0.5 {
		t.Errorf("input state mutated: %+v", s1)
	}
}

func TestReduceSnapWithoutTargets(t *testing.T) {
	path := manifold.NewPath([]geom.Vec2{geom.V(0, 0), geom.V(100, 0)})
	s := PathState{T: 0.3}
	if got := ReducePath(PathEnv{Path: path}, s, Snap()); got != s {
		t.Errorf("snap with no targets changed state to %+v", got)
	}

	set := &manifold.OrbitSet{MinRadius: 10, MaxRadius: 100}
	os := OrbitState{Polar: manifold.Polar{Angle: 45, Radius: 50}}
	if got := ReduceOrbit(OrbitEnv{Set: set}, os, Snap()); got != os {
		t.Errorf("orbit snap with no targets changed state to %+v", got)
	}
}

func TestDragWithoutGrabIsIgnored(t *testing.T) {
	path := manifold.NewPath([]geom.Vec2{geom.V(0, 0), geom.V(100, 0)})
	s := PathState{T: 0.3}
	if got := ReducePath(PathEnv{Path: path}, s, Down(geom.V(90, 0), GrabNone)); got != s {
		t.Errorf("down without grab changed state to %+v", got)
	}
	if got := ReducePath(PathEnv{Path: path}, s, Move(geom.V(90, 0))); got != s {
		t.Errorf("move without grab changed state to %+v", got)
	}
}
