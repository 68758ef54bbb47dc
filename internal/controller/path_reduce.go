package controller

import (
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

type PathState struct {
	T        float64   `json:"t"`
	Control  geom.Vec2 `json:"control"`
	Whisker  Whisker   `json:"whisker"`
	Dragging Grab      `json:"dragging"`
	Viewport geom.Rect `json:"viewport"`
}

// PathEnv is the read-only context ReducePath works against.
type PathEnv struct {
	Path       *manifold.Path
	Project    func(geom.Vec2) manifold.Projection
	Targets    []nav.Target
	MaxWhisker float64
}

func (e PathEnv) project(p geom.Vec2) manifold.Projection {
	if e.Project != nil {
		return e.Project(p)
	}
	return e.Path.Project(p)
}

// ReducePath computes the state after ev. It has no side effects, so the
// same (state, event) pair always produces the same result.
func ReducePath(env PathEnv, s PathState, ev Event) PathState {
	switch ev.Kind {
	case PointerDown:
		if ev.Grab == GrabNone {
			return s
		}
		s.Dragging = ev.Grab
		return dragPath(env, s, ev.Pos)

	case PointerMove:
		return dragPath(env, s, ev.Pos)

	case PointerUp:
		s.Dragging = GrabNone
		return s

	case KeySnap:
		handle := env.Path.PointAt(s.T)
		best, bestD := -1, 0.0
		for i, t := range env.Targets {
			if d := handle.Dist(t.Anchor); best < 0 || d < bestD {
				best, bestD = i, d
			}
		}
		if best < 0 {
			return s
		}
		s.T = env.Targets[best].T
		s.Control = Replay(env.Path, s.T, s.Whisker)
		return s

	case Resize:
		s.Viewport = ev.Viewport
		return s
	}
	return s
}

func dragPath(env PathEnv, s PathState, p geom.Vec2) PathState {
	switch s.Dragging {
	case GrabHandle:
		s.T = env.project(p).T
		s.Control = Replay(env.Path, s.T, s.Whisker)
	case GrabControl:
		if !s.Viewport.Empty() {
			p = s.Viewport.ClampPoint(p)
		}
		s.T = env.project(p).T
		s.Whisker = DeriveWhisker(env.Path, s.T, p).capped(env.MaxWhisker)
		s.Control = Replay(env.Path, s.T, s.Whisker)
	}
	return s
}
