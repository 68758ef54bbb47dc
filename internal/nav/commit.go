package nav

import (
	"log/slog"
	"time"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/logging"
)

const DefaultTransitionDelay = 300 * time.Millisecond

// Navigator performs the route change. It lives outside the controller.
type Navigator interface {
	Navigate(label string)
}

type NavigatorFunc func(label string)

func (f NavigatorFunc) Navigate(label string) { f(label) }

// HistoryService is the session navigation stack.
type HistoryService interface {
	Push(label string)
	Pop() (string, bool)
	Peek() (string, bool)
}

// Committer turns a committed dwell into a navigation: OnCommit runs
// at once and the Navigator is invoked after Delay. While a transition is
// pending further commits are no-ops.
type Committer struct {
	Delay time.Duration
	// OnCommit runs once per dwell episode at the moment of commit, before
	// the transition delay; Navigate follows Delay later.
	OnCommit func(label string)
	// OnComplete runs after Navigate; controllers use it to re-arm dwell.
	OnComplete func(label string)

	nav     Navigator
	history HistoryService
	sched   clock.Scheduler
	lg      *logging.Logger

	pending string
	cancel  clock.Cancel
}

func NewCommitter(nav Navigator, history HistoryService, sched clock.Scheduler, lg *logging.Logger) *Committer {
	return &Committer{
		Delay:   DefaultTransitionDelay,
		nav:     nav,
		history: history,
		sched:   sched,
		lg:      lg,
	}
}

func (c *Committer) Pending() (string, bool) { return c.pending, c.cancel != nil }

// Commit starts a transition to label. It returns false, doing nothing,
// when a transition is already pending.
func (c *Committer) Commit(label string) bool {
	if c.cancel != nil {
		c.lg.Debug("commit ignored, transition pending",
			slog.String("label", label), slog.String("pending", c.pending))
		return false
	}
	c.pending = label
	c.lg.Info("navigation committed", slog.String("label", label), slog.Duration("delay", c.Delay))
	if c.OnCommit != nil {
		c.OnCommit(label)
	}
	c.cancel = c.sched.After(c.Delay, func() { c.finish(label) })
	return true
}

func (c *Committer) finish(label string) {
	c.cancel = nil
	c.pending = ""
	if c.history != nil {
		c.history.Push(label)
	}
	if c.nav != nil {
		c.nav.Navigate(label)
	}
	if c.OnComplete != nil {
		c.OnComplete(label)
	}
}

// Cancel abandons a pending transition, e.g. on teardown.
func (c *Committer) Cancel() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
		c.pending = ""
	}
}
