package scenario

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/config"
	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/history"
	"github.com/san-kum/gesturenav/internal/logging"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

const DefaultSampleMs = 10

var epoch = time.Unix(0, 0)

// Frame is the controller state right after one step.
type Frame struct {
	AtMs      int                 `json:"at_ms"`
	Kind      string              `json:"kind"`
	Prevented bool                `json:"prevented,omitempty"`
	Snapshot  controller.Snapshot `json:"snapshot"`
}

// Navigation records the commit event or the navigate call after the
// transition delay.
type Navigation struct {
	AtMs  int    `json:"at_ms"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

type Result struct {
	Name        string              `json:"name"`
	Frames      []Frame             `json:"frames"`
	Navigations []Navigation        `json:"navigations"`
	SampleMs    int                 `json:"sample_ms"`
	Progress    []float64           `json:"progress"`
	History     []string            `json:"history"`
	Final       controller.Snapshot `json:"final"`
}

// Navigated returns the labels passed to Navigate, in order.
func (r *Result) Navigated() []string {
	var out []string
	for _, n := range r.Navigations {
		if n.Kind == "navigate" {
			out = append(out, n.Label)
		}
	}
	return out
}

// Run plays sc against a fresh controller on a virtual clock. Dwell
// progress is sampled every SampleMs of scenario time.
func Run(ctx context.Context, sc *Scenario, cfg *config.Config, lg *logging.Logger) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	vc := clock.NewVirtual(epoch)
	elapsed := func() int { return int(vc.Now().Sub(epoch) / time.Millisecond) }

	res := &Result{Name: sc.Name, SampleMs: DefaultSampleMs}
	record := func(kind string) func(string) {
		return func(label string) {
			res.Navigations = append(res.Navigations, Navigation{AtMs: elapsed(), Kind: kind, Label: label})
		}
	}

	hist := history.NewStack(cfg.History.Limit)
	deps := controller.Deps{
		Scheduler:       vc,
		History:         hist,
		Logger:          lg.With(slog.String("scenario", sc.Name)),
		Rand:            rand.New(rand.NewSource(sc.Seed)),
		Dwell:           cfg.DwellConfig(),
		TransitionDelay: cfg.TransitionDelay(),
		Navigator:       nav.NavigatorFunc(record("navigate")),
		OnCommit:        record("commit"),
	}

	ctl, err := mount(sc, cfg, deps)
	if err != nil {
		return nil, err
	}
	defer ctl.Close()

	sample := func() { res.Progress = append(res.Progress, ctl.Snapshot().DwellProgress) }
	step := time.Duration(res.SampleMs) * time.Millisecond
	advanceTo := func(ms int) {
		for elapsed()+res.SampleMs <= ms {
			vc.Advance(step)
			sample()
		}
		if rest := ms - elapsed(); rest > 0 {
			vc.Advance(time.Duration(rest) * time.Millisecond)
		}
	}

	sample()
	for _, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		advanceTo(st.AtMs)
		ev, _ := st.Event()
		snap := ctl.Dispatch(&ev)
		res.Frames = append(res.Frames, Frame{
			AtMs:      elapsed(),
			Kind:      ev.Kind.String(),
			Prevented: ev.DefaultPrevented,
			Snapshot:  snap.Copy(),
		})
	}

	tail := sc.TailMs
	if tail <= 0 {
		tail = cfg.Dwell.DwellMs + cfg.Transition.DelayMs + 100
	}
	advanceTo(elapsed() + tail)

	res.Final = ctl.Snapshot().Copy()
	res.History = hist.Entries()
	return res, nil
}

// mount builds the controller. An explicit path wins over explicit
// orbits, which win over generation from the seed.
func mount(sc *Scenario, cfg *config.Config, deps controller.Deps) (controller.Controller, error) {
	vp := sc.Viewport.Rect()

	po := cfg.PathOptions()
	oo := cfg.OrbitOptions()
	if len(sc.Labels) >= 2 {
		po.StartLabel, po.EndLabel = sc.Labels[0], sc.Labels[1]
		oo.Labels = append([]string(nil), sc.Labels...)
	}
	if sc.SnapThreshold > 0 {
		po.SnapThreshold = sc.SnapThreshold
		oo.SnapThreshold = sc.SnapThreshold
	}

	switch {
	case len(sc.Path) > 0:
		pc := controller.NewPathController(po, deps)
		path := manifold.NewPath(sc.Path)
		if sc.Smooth {
			path = manifold.NewSmoothPath(sc.Path, po.SamplesPerSegment)
		}
		if err := pc.MountPath(path, vp, sc.Landing); err != nil {
			pc.Close()
			return nil, err
		}
		return pc, nil

	case len(sc.Orbits) > 0:
		oc := controller.NewOrbitController(oo, deps)
		set := &manifold.OrbitSet{
			Center:    vp.Center(),
			Orbits:    append([]manifold.Orbit(nil), sc.Orbits...),
			MinRadius: oo.MinRadius,
			MaxRadius: oo.MaxRadius,
		}
		if err := oc.MountSet(set, vp); err != nil {
			oc.Close()
			return nil, err
		}
		return oc, nil
	}

	ctl, err := controller.New(sc.Variant, po, oo, deps)
	if err != nil {
		return nil, err
	}
	if err := ctl.Attach(vp, sc.Landing); err != nil {
		ctl.Close()
		return nil, err
	}
	return ctl, nil
}
