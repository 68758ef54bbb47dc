package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/config"
	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

// Check is one randomized property check. It gets its own controller and
// rng, so checks never share state.
type Check struct {
	Name string
	Run  func(rng *rand.Rand, cfg *config.Config, viewport geom.Rect) error
}

var Checks = []Check{
	{"projection", checkProjection},
	{"landing", checkLanding},
	{"exactly-once", checkExactlyOnce},
	{"orbit-placement", checkOrbitPlacement},
}

type BatchOptions struct {
	Runs     int
	Workers  int
	Seed     int64
	Viewport geom.Rect
}

type Failure struct {
	Run   int
	Seed  int64
	Check string
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("run %d (seed %d) %s: %v", f.Run, f.Seed, f.Check, f.Err)
}

type BatchReport struct {
	Runs     int
	Checks   int
	Failures []Failure
	Elapsed  time.Duration
}

func (r *BatchReport) Passed() int { return r.Runs*len(Checks) - len(r.Failures) }

// RunBatch runs every check Runs times with seeds Seed, Seed+1, ...
// spread over Workers goroutines. Check failures are collected in the
// report; the returned error is only set on cancellation.
func RunBatch(ctx context.Context, cfg *config.Config, opts BatchOptions) (*BatchReport, error) {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Viewport.Empty() {
		opts.Viewport = geom.Rect{Max: geom.V(1280, 800)}
	}
	start := time.Now()

	parent := ctx
	perRun := make([][]Failure, opts.Runs)
	eg, ctx := errgroup.WithContext(parent)
	eg.SetLimit(opts.Workers)
	for i := 0; i < opts.Runs; i++ {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := opts.Seed + int64(i)
			for _, c := range Checks {
				rng := rand.New(rand.NewSource(seed))
				if err := c.Run(rng, cfg, opts.Viewport); err != nil {
					perRun[i] = append(perRun[i], Failure{Run: i, Seed: seed, Check: c.Name, Err: err})
				}
			}
			return nil
		})
	}
	err := eg.Wait()
	if err == nil {
		err = parent.Err()
	}

	report := &BatchReport{Runs: opts.Runs, Checks: len(Checks), Elapsed: time.Since(start)}
	for _, f := range perRun {
		report.Failures = append(report.Failures, f...)
	}
	return report, err
}

// checkProjection: projecting a point on the path recovers that point.
func checkProjection(rng *rand.Rand, cfg *config.Config, vp geom.Rect) error {
	path, err := manifold.GeneratePath(rng, vp, cfg.PathOptions().PathOptions)
	if err != nil {
		return err
	}
	for i := 0; i < 64; i++ {
		t := rng.Float64()
		p := path.PointAt(t)
		pr := path.Project(p)
		if pr.Distance > 1e-6 {
			return fmt.Errorf("t=%.4f: point %v projects %.3g away", t, p, pr.Distance)
		}
		if q := path.PointAt(pr.T); q.Dist(p) > 1e-6 {
			return fmt.Errorf("t=%.4f: round trip landed at %v, want %v", t, q, p)
		}
	}
	return nil
}

// checkLanding: a landing inside the viewport replays within 1px.
func checkLanding(rng *rand.Rand, cfg *config.Config, vp geom.Rect) error {
	c := controller.NewPathController(cfg.PathOptions(), controller.Deps{Rand: rng})
	defer c.Close()
	if err := c.Mount(vp, nil); err != nil {
		return err
	}
	for i := 0; i < 32; i++ {
		p := geom.V(vp.Min.X+rng.Float64()*vp.Width(), vp.Min.Y+rng.Float64()*vp.Height())
		if got := c.Land(p); got.Dist(p) > 1 {
			return fmt.Errorf("landing %v replayed at %v", p, got)
		}
	}
	return nil
}

// checkExactlyOnce: holding the handle on a destination for well past the
// dwell time navigates once.
func checkExactlyOnce(rng *rand.Rand, cfg *config.Config, vp geom.Rect) error {
	vc := clock.NewVirtual(epoch)
	var navigated []string
	c := controller.NewPathController(cfg.PathOptions(), controller.Deps{
		Scheduler:       vc,
		Rand:            rng,
		Dwell:           cfg.DwellConfig(),
		TransitionDelay: cfg.TransitionDelay(),
		Navigator:       nav.NavigatorFunc(func(l string) { navigated = append(navigated, l) }),
	})
	defer c.Close()
	if err := c.Mount(vp, nil); err != nil {
		return err
	}

	targets := c.Registry().All()
	dest := targets[rng.Intn(len(targets))]
	ev := controller.Down(c.Snapshot().Handle, controller.GrabHandle)
	c.Dispatch(&ev)

	// past the navigation but short of a second full dwell
	dc := cfg.DwellConfig()
	ticks := (dc.Dwell + dc.Tick - 1) / dc.Tick
	hold := ticks*dc.Tick + cfg.TransitionDelay() + dc.Tick
	step := 20 * time.Millisecond
	for d := time.Duration(0); d < hold+step; d += step {
		ev := controller.Move(dest.Anchor)
		c.Dispatch(&ev)
		vc.Advance(step)
	}

	if len(navigated) != 1 || navigated[0] != dest.Label {
		return fmt.Errorf("held on %q, navigated %v", dest.Label, navigated)
	}
	if n := vc.Pending(); n > 1 {
		return fmt.Errorf("%d timers pending after navigation", n)
	}
	return nil
}

// checkOrbitPlacement: generated angles are separated, radii come from
// their ranges and each anchor snaps to itself.
func checkOrbitPlacement(rng *rand.Rand, cfg *config.Config, vp geom.Rect) error {
	oo := cfg.OrbitOptions()
	set, err := manifold.GenerateOrbits(rng, vp, oo.OrbitOptions, oo.Labels)
	if err != nil {
		return err
	}
	for i, a := range set.Orbits {
		r := oo.RadiusRanges[i]
		if a.Radius < r[0] || a.Radius > r[1] {
			return fmt.Errorf("orbit %s radius %.1f outside %v", a.Label, a.Radius, r)
		}
		for _, b := range set.Orbits[i+1:] {
			if d := math.Abs(geom.AngleDelta(a.Angle, b.Angle)); d < oo.MinSeparation {
				return fmt.Errorf("orbits %s and %s only %.1f° apart", a.Label, b.Label, d)
			}
		}
		res := set.MapDrag(set.Anchor(i), manifold.Magnet{
			Distance:      oo.MagneticSnapDistance,
			SnapThreshold: oo.SnapThreshold,
			Blend:         oo.Blend,
		})
		if !res.Snapped || res.Target != i {
			return fmt.Errorf("anchor of %s did not snap to itself: %+v", a.Label, res)
		}
	}
	return nil
}
