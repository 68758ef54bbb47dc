package controller

import (
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

type OrbitState struct {
	Polar    manifold.Polar      `json:"polar"`
	Dragging Grab                `json:"dragging"`
	Viewport geom.Rect           `json:"viewport"`
	LastDrag manifold.DragResult `json:"last_drag"`
}

// OrbitEnv is the read-only context ReduceOrbit works against.
type OrbitEnv struct {
	Set     *manifold.OrbitSet
	Targets []nav.Target
	Magnet  manifold.Magnet
}

// ReduceOrbit computes the state after ev. Orbits have a single draggable
// point, so any grab holds the handle.
func ReduceOrbit(env OrbitEnv, s OrbitState, ev Event) OrbitState {
	switch ev.Kind {
	case PointerDown:
		if ev.Grab == GrabNone {
			return s
		}
		s.Dragging = GrabHandle
		return dragOrbit(env, s, ev.Pos)

	case PointerMove:
		if s.Dragging == GrabNone {
			return s
		}
		return dragOrbit(env, s, ev.Pos)

	case PointerUp:
		s.Dragging = GrabNone
		return s

	case KeySnap:
		handle := env.Set.PointAt(s.Polar)
		best, bestD := -1, 0.0
		for i, t := range env.Targets {
			if d := handle.Dist(t.Anchor); best < 0 || d < bestD {
				best, bestD = i, d
			}
		}
		if best >= 0 {
			s.Polar = env.Targets[best].Polar
		}
		return s

	case Resize:
		s.Viewport = ev.Viewport
		return s
	}
	return s
}

func dragOrbit(env OrbitEnv, s OrbitState, p geom.Vec2) OrbitState {
	if !p.IsFinite() {
		return s
	}
	s.LastDrag = env.Set.MapDrag(p, env.Magnet)
	s.Polar = s.LastDrag.Polar
	return s
}
