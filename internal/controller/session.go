package controller

import (
	"log/slog"

	"github.com/brunoga/deep"
	"github.com/san-kum/gesturenav/internal/dwell"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/logging"
	"github.com/san-kum/gesturenav/internal/nav"
)

// Snapshot is the public view of a controller for rendering layers.
type Snapshot struct {
	Variant         string       `json:"variant"`
	Mounted         bool         `json:"mounted"`
	Handle          geom.Vec2    `json:"handle"`
	Control         geom.Vec2    `json:"control"`
	Tangent         geom.Vec2    `json:"tangent"`
	DwellProgress   float64      `json:"dwell_progress"`
	Nearest         string       `json:"nearest"`
	NearestDistance float64      `json:"nearest_distance"`
	Phase           dwell.Phase  `json:"phase"`
	Dragging        Grab         `json:"dragging"`
	Transition      string       `json:"transition,omitempty"`
	Targets         []nav.Target `json:"targets"`
}

// session is the destination half shared by both controllers: registry,
// dwell tracking and the navigation commit.
type session struct {
	variant string
	reg     *nav.Registry
	dwell   *dwell.Tracker
	commit  *nav.Committer
	lg      *logging.Logger
	closed  bool
}

func newSession(variant string, deps Deps) *session {
	lg := deps.Logger.With(slog.String("variant", variant))
	s := &session{
		variant: variant,
		reg:     nav.NewRegistry(),
		dwell:   dwell.NewTracker(deps.Dwell, deps.Scheduler, lg),
		commit:  nav.NewCommitter(deps.Navigator, deps.History, deps.Scheduler, lg),
		lg:      lg,
	}
	s.commit.Delay = deps.TransitionDelay
	s.commit.OnCommit = deps.OnCommit
	s.dwell.OnCommit = func(label string) { s.commit.Commit(label) }
	s.commit.OnComplete = func(string) { s.dwell.Apply(dwell.Reset{}) }
	return s
}

// observe re-evaluates dwell for a handle position. release marks the end
// of a drag.
func (s *session) observe(handle geom.Vec2, release bool) {
	t, d, ok := s.reg.Nearest(handle)
	if !ok {
		s.dwell.Apply(dwell.Observe{})
		return
	}
	if release {
		s.dwell.Apply(dwell.Release{Distance: d, Threshold: t.SnapThreshold})
		return
	}
	s.dwell.Apply(dwell.Observe{Nearest: t.Label, Distance: d, Threshold: t.SnapThreshold})
}

// force commits to label without waiting for dwell.
func (s *session) force(label string) {
	s.lg.Debug("keyboard snap", slog.String("label", label))
	s.dwell.Apply(dwell.Force{Nearest: label})
}

func (s *session) snapshot(handle, control, tangent geom.Vec2, dragging Grab) Snapshot {
	snap := Snapshot{
		Variant:       s.variant,
		Mounted:       true,
		Handle:        handle,
		Control:       control,
		Tangent:       tangent,
		DwellProgress: s.dwell.Progress(),
		Phase:         s.dwell.State().Phase,
		Dragging:      dragging,
		Targets:       s.reg.All(),
	}
	if t, d, ok := s.reg.Nearest(handle); ok {
		snap.Nearest, snap.NearestDistance = t.Label, d
	}
	if l, ok := s.commit.Pending(); ok {
		snap.Transition = l
	}
	return snap
}

func (s *session) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.dwell.Close()
	s.commit.Cancel()
}

// Copy returns a snapshot that shares no memory with s.
func (s Snapshot) Copy() Snapshot {
	return deep.MustCopy(s)
}
