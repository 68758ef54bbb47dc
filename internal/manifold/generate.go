package manifold

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gesturenav/internal/geom"
)

type PathOptions struct {
	MarginX           float64
	MarginY           float64
	MinInterior       int
	MaxInterior       int
	SamplesPerSegment int
	// Amplitude of the sinusoidal displacement, as a fraction of the
	// smaller inset dimension.
	Amplitude float64
	Jitter    float64
}

func DefaultPathOptions() PathOptions {
	return PathOptions{
		MarginX:           64,
		MarginY:           64,
		MinInterior:       3,
		MaxInterior:       5,
		SamplesPerSegment: 13,
		Amplitude:         0.22,
		Jitter:            16,
	}
}

// GeneratePathSeeds places a start point in the left band and an end point
// in the right band of the inset viewport, then scatters interior points
// around a randomised sine wave offset from the straight line between them.
func GeneratePathSeeds(rng *rand.Rand, viewport geom.Rect, opt PathOptions) ([]geom.Vec2, error) {
	if viewport.Empty() {
		return nil, ErrViewportUnmeasured
	}
	box := viewport.Inset(opt.MarginX, opt.MarginY)
	if box.Empty() {
		return nil, ErrMarginsTooLarge
	}

	lo, hi := opt.MinInterior, opt.MaxInterior
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}

	band := box.Width() * 0.15
	start := geom.Vec2{
		X: box.Min.X + rng.Float64()*band,
		Y: box.Min.Y + box.Height()*(0.55+0.45*rng.Float64()),
	}
	end := geom.Vec2{
		X: box.Max.X - rng.Float64()*band,
		Y: box.Min.Y + box.Height()*0.45*rng.Float64(),
	}

	n := lo + rng.Intn(hi-lo+1)
	normal := end.Sub(start).Normalize().Perp()
	amp := opt.Amplitude * math.Min(box.Width(), box.Height())
	freq := 1 + rng.Float64()*1.5
	phase := rng.Float64() * 2 * math.Pi

	seeds := make([]geom.Vec2, 0, n+2)
	seeds = append(seeds, start)
	for i := 1; i <= n; i++ {
		f := float64(i) / float64(n+1)
		off := amp*math.Sin(freq*2*math.Pi*f+phase) + (rng.Float64()*2-1)*opt.Jitter
		p := start.Lerp(end, f).Add(normal.Scale(off))
		seeds = append(seeds, box.ClampPoint(p))
	}
	return append(seeds, end), nil
}

// GeneratePath is GeneratePathSeeds followed by smoothing.
func GeneratePath(rng *rand.Rand, viewport geom.Rect, opt PathOptions) (*Path, error) {
	seeds, err := GeneratePathSeeds(rng, viewport, opt)
	if err != nil {
		return nil, err
	}
	return NewSmoothPath(seeds, opt.SamplesPerSegment), nil
}

type OrbitOptions struct {
	// MinSeparation is the minimum circular distance between any two
	// destination angles, in degrees.
	MinSeparation float64
	// RadiusRanges[i] is the [lo, hi] radius range for the i-th orbit.
	// Ranges must not overlap.
	RadiusRanges [][2]float64
	MinRadius    float64
	MaxRadius    float64
	MaxAttempts  int
}

func DefaultOrbitOptions() OrbitOptions {
	return OrbitOptions{
		MinSeparation: 50,
		RadiusRanges:  [][2]float64{{90, 120}, {150, 190}},
		MinRadius:     40,
		MaxRadius:     230,
		MaxAttempts:   1000,
	}
}

func (o OrbitOptions) validateRanges(n int) error {
	if n > len(o.RadiusRanges) {
		return fmt.Errorf("%w: %d labels, %d ranges", ErrTooManyDestinations, n, len(o.RadiusRanges))
	}
	for i := 0; i < n; i++ {
		a := o.RadiusRanges[i]
		for j := i + 1; j < n; j++ {
			b := o.RadiusRanges[j]
			if a[0] <= b[1] && b[0] <= a[1] {
				return fmt.Errorf("%w: %v and %v", ErrOverlappingRanges, a, b)
			}
		}
	}
	return nil
}

// GenerateOrbits places one orbit per label around the viewport center.
// Angles are drawn by rejection sampling until every pair is at least
// MinSeparation apart; radii come from disjoint ranges; labels are
// shuffled onto the resulting (angle, radius) pairs.
func GenerateOrbits(rng *rand.Rand, viewport geom.Rect, opt OrbitOptions, labels []string) (*OrbitSet, error) {
	if viewport.Empty() {
		return nil, ErrViewportUnmeasured
	}
	if err := opt.validateRanges(len(labels)); err != nil {
		return nil, err
	}

	attempts := opt.MaxAttempts
	if attempts <= 0 {
		attempts = 1000
	}

	angles := make([]float64, len(labels))
	placed := false
	for try := 0; try < attempts && !placed; try++ {
		for i := range angles {
			angles[i] = rng.Float64() * 360
		}
		placed = separated(angles, opt.MinSeparation)
	}
	if !placed {
		return nil, fmt.Errorf("%w after %d attempts", ErrOrbitPlacement, attempts)
	}

	set := &OrbitSet{
		Center:    viewport.Center(),
		MinRadius: opt.MinRadius,
		MaxRadius: opt.MaxRadius,
		Orbits:    make([]Orbit, len(labels)),
	}
	perm := rng.Perm(len(labels))
	for i := range labels {
		r := opt.RadiusRanges[i]
		set.Orbits[i] = Orbit{
			Label: labels[perm[i]],
			Polar: Polar{Angle: angles[i], Radius: r[0] + rng.Float64()*(r[1]-r[0])},
		}
	}
	return set, nil
}

func separated(angles []float64, minSep float64) bool {
	for i := range angles {
		for j := i + 1; j < len(angles); j++ {
			if math.Abs(geom.AngleDelta(angles[i], angles[j])) < minSep {
				return false
			}
		}
	}
	return true
}
