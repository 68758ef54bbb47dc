package controller

import (
	"math"

	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
)

// Whisker places the control point relative to the handle's tangent
// frame: Length along the normal on side Side (+1 or -1), rotated by Lean
// radians toward the tangent. Lean is zero whenever the control point
// projects onto the interior of a path segment; it is only non-zero at
// sample vertices and clamped endpoints.
type Whisker struct {
	Length float64 `json:"length" msgpack:"length"`
	Side   float64 `json:"side" msgpack:"side"`
	Lean   float64 `json:"lean" msgpack:"lean"`
}

// Frame returns the handle position, unit tangent and unit normal at t.
func Frame(path *manifold.Path, t float64) (handle, tangent, normal geom.Vec2) {
	tangent = path.TangentAt(t)
	return path.PointAt(t), tangent, tangent.Perp()
}

// DeriveWhisker decomposes control's offset from the handle at t.
func DeriveWhisker(path *manifold.Path, t float64, control geom.Vec2) Whisker {
	handle, _, normal := Frame(path, t)
	off := control.Sub(handle)
	l := off.Len()
	if l < 1e-9 {
		return Whisker{Side: 1}
	}
	side := 1.0
	if off.Dot(normal) < 0 {
		side = -1
	}
	base := normal.Scale(side)
	return Whisker{
		Length: l,
		Side:   side,
		Lean:   math.Atan2(base.Cross(off), base.Dot(off)),
	}
}

// Replay is the inverse of DeriveWhisker.
func Replay(path *manifold.Path, t float64, w Whisker) geom.Vec2 {
	handle, _, normal := Frame(path, t)
	side := w.Side
	if side == 0 {
		side = 1
	}
	return handle.Add(normal.Scale(side).Rotate(w.Lean).Scale(w.Length))
}

func (w Whisker) capped(max float64) Whisker {
	if max > 0 && w.Length > max {
		w.Length = max
	}
	return w
}
