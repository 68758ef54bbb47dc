// Package geom holds the small amount of 2D vector math shared by the
// manifolds and controllers. Screen coordinates: x grows right, y grows down.
package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

type Vec2 struct {
	X float64 `yaml:"x" json:"x" msgpack:"x"`
	Y float64 `yaml:"y" json:"y" msgpack:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2       { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2       { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2  { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64    { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Cross(b Vec2) float64  { return a.X*b.Y - a.Y*b.X }
func (a Vec2) Len() float64          { return math.Hypot(a.X, a.Y) }
func (a Vec2) Dist(b Vec2) float64   { return a.Sub(b).Len() }
func (a Vec2) Perp() Vec2            { return Vec2{-a.Y, a.X} }
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Normalize returns the unit vector in a's direction, or the zero vector
// when a has no length.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Rotate rotates a counterclockwise (in math orientation) by rad radians.
func (a Vec2) Rotate(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{c*a.X - s*a.Y, s*a.X + c*a.Y}
}

func (a Vec2) IsFinite() bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}

func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// AngleDelta returns the signed shortest rotation in degrees from a to b,
// in (-180, 180].
func AngleDelta(a, b float64) float64 {
	d := NormalizeDegrees(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

// Rect is an axis-aligned rectangle; Min is the top-left corner.
type Rect struct {
	Min, Max Vec2
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Vec2    { return r.Min.Lerp(r.Max, 0.5) }
func (r Rect) Empty() bool     { return r.Width() <= 0 || r.Height() <= 0 }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ClampPoint returns the point of r closest to p.
func (r Rect) ClampPoint(p Vec2) Vec2 {
	return Vec2{Clamp(p.X, r.Min.X, r.Max.X), Clamp(p.Y, r.Min.Y, r.Max.Y)}
}

// Inset shrinks r by dx on the left and right and dy on the top and bottom.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{Min: Vec2{r.Min.X + dx, r.Min.Y + dy}, Max: Vec2{r.Max.X - dx, r.Max.Y - dy}}
}
