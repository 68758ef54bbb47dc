package dwell

import (
	"log/slog"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/logging"
)

// Tracker runs Reduce against a live State, owning the repeating tick
// timer. OnCommit is called exactly once per dwell episode.
type Tracker struct {
	cfg      Config
	sched    clock.Scheduler
	state    State
	cancel   clock.Cancel
	fired    bool
	OnCommit func(label string)
	lg       *logging.Logger
}

func NewTracker(cfg Config, sched clock.Scheduler, lg *logging.Logger) *Tracker {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	return &Tracker{cfg: cfg, sched: sched, lg: lg}
}

func (t *Tracker) State() State      { return t.state }
func (t *Tracker) Config() Config    { return t.cfg }
func (t *Tracker) Progress() float64 { return t.state.Progress(t.cfg) }
func (t *Tracker) Running() bool     { return t.cancel != nil }

func (t *Tracker) Apply(in Input) State {
	prev := t.state
	next, eff := Reduce(prev, in, t.cfg)
	t.state = next

	if eff.Has(StopTimer) {
		t.stop()
	}
	if eff.Has(StartTimer) {
		t.stop()
		t.cancel = t.sched.Every(t.cfg.Tick, func() { t.Apply(Tick{}) })
	}
	if prev.Phase != next.Phase {
		t.lg.Debug("dwell transition",
			slog.String("from", prev.Phase.String()),
			slog.String("to", next.Phase.String()),
			slog.String("target", next.Nearest))
	}
	if next.Phase != Committed {
		t.fired = false
	}
	if eff.Has(Commit) {
		if t.fired {
			panic("dwell: second commit within one dwell episode")
		}
		t.fired = true
		if t.OnCommit != nil {
			t.OnCommit(next.Nearest)
		}
	}
	return t.state
}

func (t *Tracker) stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Close cancels the tick timer. The tracker must not be used afterwards.
func (t *Tracker) Close() {
	t.stop()
	t.OnCommit = nil
}
