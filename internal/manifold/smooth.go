package manifold

import "github.com/san-kum/gesturenav/internal/geom"

// Smooth densifies seeds into a Catmull-Rom curve passing through every
// seed. Each seed-to-seed segment contributes perSegment samples and the
// final seed is appended, so the result has (len(seeds)-1)*perSegment+1
// points. Missing neighbours at the ends are replaced by the edge seed.
func Smooth(seeds []geom.Vec2, perSegment int) []geom.Vec2 {
	n := len(seeds)
	switch n {
	case 0:
		return nil
	case 1:
		return []geom.Vec2{seeds[0], seeds[0]}
	}
	if perSegment < 1 {
		perSegment = 1
	}

	out := make([]geom.Vec2, 0, (n-1)*perSegment+1)
	for i := 0; i < n-1; i++ {
		p0 := seeds[max(i-1, 0)]
		p1 := seeds[i]
		p2 := seeds[i+1]
		p3 := seeds[min(i+2, n-1)]
		for k := 0; k < perSegment; k++ {
			u := float64(k) / float64(perSegment)
			out = append(out, catmullRom(p0, p1, p2, p3, u))
		}
	}
	return append(out, seeds[n-1])
}

func catmullRom(p0, p1, p2, p3 geom.Vec2, u float64) geom.Vec2 {
	u2 := u * u
	u3 := u2 * u
	blend := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (-a+c)*u + (2*a-5*b+4*c-d)*u2 + (-a+3*b-3*c+d)*u3)
	}
	return geom.Vec2{
		X: blend(p0.X, p1.X, p2.X, p3.X),
		Y: blend(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}
