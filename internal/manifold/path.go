package manifold

import (
	"math"

	"github.com/san-kum/gesturenav/internal/geom"
)

// DefaultTangent is returned by tangent queries on a degenerate path.
var DefaultTangent = geom.Vec2{X: 1, Y: 0}

// Path is a piecewise-linear curve with cached per-segment lengths.
// SegLengths[i] is the length of Samples[i] -> Samples[i+1].
type Path struct {
	Samples    []geom.Vec2 `json:"samples" msgpack:"samples"`
	SegLengths []float64   `json:"seg_lengths" msgpack:"seg_lengths"`
	Total      float64     `json:"total" msgpack:"total"`
}

// Projection is the nearest point of a Path to some query point.
type Projection struct {
	T        float64
	Point    geom.Vec2
	Distance float64
	Segment  int
	Ratio    float64
}

func NewPath(samples []geom.Vec2) *Path {
	p := &Path{Samples: samples}
	if len(samples) < 2 {
		return p
	}
	p.SegLengths = make([]float64, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		l := samples[i-1].Dist(samples[i])
		p.SegLengths[i-1] = l
		p.Total += l
	}
	return p
}

// NewSmoothPath smooths seeds and builds the resulting path.
func NewSmoothPath(seeds []geom.Vec2, perSegment int) *Path {
	return NewPath(Smooth(seeds, perSegment))
}

func (p *Path) Degenerate() bool {
	return len(p.Samples) < 2 || !(p.Total > 0)
}

func (p *Path) Length() float64 { return p.Total }

func (p *Path) Start() geom.Vec2 { return p.PointAt(0) }
func (p *Path) End() geom.Vec2   { return p.PointAt(1) }

// DefaultPoint is what point queries return on a degenerate path: the
// first sample if there is one, otherwise the origin.
func (p *Path) DefaultPoint() geom.Vec2 {
	if len(p.Samples) == 0 {
		return geom.Vec2{}
	}
	return p.Samples[0]
}

// locate returns the index of the non-degenerate segment straddling the
// arc length t*Total and the ratio within it. ok is false on a degenerate path.
func (p *Path) locate(t float64) (seg int, ratio float64, ok bool) {
	if p.Degenerate() {
		return -1, 0, false
	}
	t = geom.Clamp(t, 0, 1)
	target := t * p.Total
	last := -1
	acc := 0.0
	for i, l := range p.SegLengths {
		if l <= 0 {
			continue
		}
		last = i
		if acc+l >= target {
			return i, geom.Clamp((target-acc)/l, 0, 1), true
		}
		acc += l
	}
	// float accumulation can leave target a hair past the final segment
	return last, 1, last >= 0
}

// PointAt maps the fractional arc length t (clamped to [0,1]) to a point.
func (p *Path) PointAt(t float64) geom.Vec2 {
	seg, r, ok := p.locate(t)
	if !ok {
		return p.DefaultPoint()
	}
	return p.Samples[seg].Lerp(p.Samples[seg+1], r)
}

// TangentAt returns the unit direction of the segment straddling t. At
// t=1 that is the final non-degenerate segment.
func (p *Path) TangentAt(t float64) geom.Vec2 {
	seg, _, ok := p.locate(t)
	if !ok {
		return DefaultTangent
	}
	return p.Samples[seg+1].Sub(p.Samples[seg]).Normalize()
}

// Normal is the tangent rotated a quarter turn (left of travel in math
// orientation, right of travel on a y-down screen).
func (p *Path) Normal(t float64) geom.Vec2 {
	return p.TangentAt(t).Perp()
}

// Project finds the point of the path nearest q. The returned T is always
// in [0,1]; a degenerate path or non-finite q yields T=0 at DefaultPoint.
func (p *Path) Project(q geom.Vec2) Projection {
	if p.Degenerate() || !q.IsFinite() {
		d := p.DefaultPoint()
		return Projection{Point: d, Distance: q.Dist(d), Segment: -1}
	}

	best := Projection{Distance: math.Inf(1), Segment: -1}
	acc := 0.0
	for i, l := range p.SegLengths {
		a, b := p.Samples[i], p.Samples[i+1]
		ab := b.Sub(a)
		r := 0.0
		if den := ab.Dot(ab); den > 0 {
			r = geom.Clamp(q.Sub(a).Dot(ab)/den, 0, 1)
		}
		pt := a.Add(ab.Scale(r))
		if d := q.Dist(pt); d < best.Distance {
			best = Projection{
				T:        (acc + r*l) / p.Total,
				Point:    pt,
				Distance: d,
				Segment:  i,
				Ratio:    r,
			}
		}
		acc += l
	}
	if best.Segment < 0 {
		d := p.DefaultPoint()
		return Projection{Point: d, Distance: q.Dist(d), Segment: -1}
	}
	best.T = geom.Clamp(best.T, 0, 1)
	return best
}
