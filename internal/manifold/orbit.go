package manifold

import (
	"math"

	"github.com/san-kum/gesturenav/internal/geom"
)

// Polar is an orbit parameter: Angle in degrees, Radius in pixels.
type Polar struct {
	Angle  float64 `json:"angle" yaml:"angle" msgpack:"angle"`
	Radius float64 `json:"radius" yaml:"radius" msgpack:"radius"`
}

type Orbit struct {
	Label string `json:"label" yaml:"label" msgpack:"label"`
	Polar `yaml:",inline"`
}

// OrbitSet is a dynamic center plus one orbit per destination.
type OrbitSet struct {
	Center    geom.Vec2 `json:"center" msgpack:"center"`
	Orbits    []Orbit   `json:"orbits" msgpack:"orbits"`
	MinRadius float64   `json:"min_radius" msgpack:"min_radius"`
	MaxRadius float64   `json:"max_radius" msgpack:"max_radius"`
}

func (s *OrbitSet) PointAt(p Polar) geom.Vec2 {
	sin, cos := math.Sincos(geom.Radians(p.Angle))
	return s.Center.Add(geom.Vec2{X: cos * p.Radius, Y: sin * p.Radius})
}

// TangentAt is the unit circumferential direction at p. Only used to
// frame labels; the handle radius is controlled independently.
func (s *OrbitSet) TangentAt(p Polar) geom.Vec2 {
	sin, cos := math.Sincos(geom.Radians(p.Angle))
	return geom.Vec2{X: -sin, Y: cos}
}

// Anchor is the screen position of the i-th orbit's destination.
func (s *OrbitSet) Anchor(i int) geom.Vec2 {
	return s.PointAt(s.Orbits[i].Polar)
}

// Recenter moves the center; anchors follow since they are stored in
// polar form.
func (s *OrbitSet) Recenter(c geom.Vec2) { s.Center = c }

func (s *OrbitSet) clampRadius(r float64) float64 {
	if s.MaxRadius > s.MinRadius {
		return geom.Clamp(r, s.MinRadius, s.MaxRadius)
	}
	return math.Max(r, s.MinRadius)
}

// PolarOf converts q to polar form around the center with the angle in
// [0,360) and the radius clamped to [MinRadius, MaxRadius].
func (s *OrbitSet) PolarOf(q geom.Vec2) Polar {
	d := q.Sub(s.Center)
	return Polar{
		Angle:  geom.NormalizeDegrees(geom.Degrees(math.Atan2(d.Y, d.X))),
		Radius: s.clampRadius(math.Hypot(d.X, d.Y)),
	}
}

// BlendFunc shapes the magnetic pull; f is 1 at the anchor and 0 at the
// edge of the magnetic radius.
type BlendFunc func(f float64) float64

func LinearBlend(f float64) float64 { return f }

// SmoothstepBlend eases the pull in and out.
func SmoothstepBlend(f float64) float64 { return f * f * (3 - 2*f) }

type Magnet struct {
	Distance      float64
	SnapThreshold float64
	Blend         BlendFunc
}

type DragResult struct {
	Polar   Polar
	Target  int
	Snapped bool
	Blend   float64
}

// MapDrag converts a pointer position to a handle parameter. Inside the
// magnetic radius of the nearest anchor the raw parameter is pulled toward
// the anchor's; inside the snap threshold it is replaced outright.
func (s *OrbitSet) MapDrag(q geom.Vec2, m Magnet) DragResult {
	raw := s.PolarOf(q)
	res := DragResult{Polar: raw, Target: -1}

	cand := s.PointAt(raw)
	best, bestD := -1, math.Inf(1)
	for i := range s.Orbits {
		if d := cand.Dist(s.Anchor(i)); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return res
	}

	tgt := s.Orbits[best].Polar
	if bestD <= m.SnapThreshold {
		res.Polar, res.Target, res.Snapped, res.Blend = tgt, best, true, 1
		return res
	}
	if m.Distance <= 0 || bestD > m.Distance {
		return res
	}

	f := (m.Distance - bestD) / m.Distance
	if m.Blend != nil {
		f = geom.Clamp(m.Blend(f), 0, 1)
	}
	res.Target, res.Blend = best, f
	res.Polar = Polar{
		Angle:  geom.NormalizeDegrees(raw.Angle + geom.AngleDelta(raw.Angle, tgt.Angle)*f),
		Radius: raw.Radius + (tgt.Radius-raw.Radius)*f,
	}
	return res
}
