package controller

import (
	"math/rand"
	"time"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/dwell"
	"github.com/san-kum/gesturenav/internal/logging"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

type PathOptions struct {
	manifold.PathOptions
	StartLabel    string
	EndLabel      string
	SnapThreshold float64
	// InitialT is where the handle starts when there is no landing point.
	InitialT float64
	// DefaultWhisker is the initial control point offset.
	DefaultWhisker float64
	// MaxWhisker caps the control point's distance from the path; 0 means
	// no cap.
	MaxWhisker float64
}

func DefaultPathOptions() PathOptions {
	return PathOptions{
		PathOptions:    manifold.DefaultPathOptions(),
		StartLabel:     "home",
		EndLabel:       "projects",
		SnapThreshold:  24,
		InitialT:       0.5,
		DefaultWhisker: 36,
		MaxWhisker:     160,
	}
}

type OrbitOptions struct {
	manifold.OrbitOptions
	Labels               []string
	MagneticSnapDistance float64
	SnapThreshold        float64
	Blend                manifold.BlendFunc
}

func DefaultOrbitOptions() OrbitOptions {
	return OrbitOptions{
		OrbitOptions:         manifold.DefaultOrbitOptions(),
		Labels:               []string{"cv", "projects"},
		MagneticSnapDistance: 30,
		SnapThreshold:        14,
		Blend:                manifold.LinearBlend,
	}
}

// Deps are the collaborators a controller does not own.
type Deps struct {
	Scheduler clock.Scheduler
	Navigator nav.Navigator
	History   nav.HistoryService
	Logger    *logging.Logger
	Rand      *rand.Rand
	// TransitionDelay between commit and Navigate; 0 selects the default.
	TransitionDelay time.Duration
	Dwell           dwell.Config
	// OnCommit fires exactly once per committed dwell episode, on the tick
	// that crosses the dwell threshold or on a keyboard snap. Navigator
	// runs TransitionDelay later.
	OnCommit func(label string)
}

func (d Deps) withDefaults() Deps {
	if d.Scheduler == nil {
		// timers only fire when the caller advances this clock
		d.Scheduler = clock.NewVirtual(time.Now())
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Dwell.Tick <= 0 {
		d.Dwell.Tick = dwell.DefaultTick
	}
	if d.Dwell.Dwell <= 0 {
		d.Dwell.Dwell = dwell.DefaultDwell
	}
	if d.TransitionDelay <= 0 {
		d.TransitionDelay = nav.DefaultTransitionDelay
	}
	return d
}
