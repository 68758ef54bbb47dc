// Package dwell decides when a drag has arrived at a target.
//
// The decision logic is a pure reducer, [Reduce], mapping a [State] and an
// [Input] to a new State plus the side effects the caller must perform
// (start or stop the repeating tick timer, commit a navigation).
// [Tracker] owns the timer and performs those effects.
//
// Phases move Idle -> Approaching -> Committed. Committed is sticky until
// a [Reset] input arrives, which is how a completed navigation re-arms the
// machine; this gate is what makes a commit fire once per episode.
package dwell

import (
	"fmt"
	"time"
)

type Phase uint8

const (
	Idle Phase = iota
	Approaching
	Committed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Approaching:
		return "approaching"
	case Committed:
		return "committed"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

type Config struct {
	Tick  time.Duration
	Dwell time.Duration
}

const (
	DefaultTick  = 100 * time.Millisecond
	DefaultDwell = 250 * time.Millisecond
)

func DefaultConfig() Config {
	return Config{Tick: DefaultTick, Dwell: DefaultDwell}
}

type State struct {
	Phase       Phase
	Nearest     string
	Accumulated time.Duration
}

func (s State) Committed() bool { return s.Phase == Committed }

// Progress is Accumulated/Dwell clamped to [0,1]; a committed state is 1.
func (s State) Progress(cfg Config) float64 {
	if s.Phase == Committed {
		return 1
	}
	if cfg.Dwell <= 0 {
		return 0
	}
	p := float64(s.Accumulated) / float64(cfg.Dwell)
	if p > 1 {
		return 1
	}
	return p
}

type Input interface{ isInput() }

// Observe reports the nearest target after a position update. An empty
// Nearest means there are no targets.
type Observe struct {
	Nearest   string
	Distance  float64
	Threshold float64
}

// Tick is one firing of the repeating dwell timer.
type Tick struct{}

// Release is the end of a drag at the given distance from the nearest target.
type Release struct {
	Distance  float64
	Threshold float64
}

// Reset re-arms the machine after a navigation completes.
type Reset struct{}

// Force commits to Nearest immediately, bypassing the dwell wait.
type Force struct {
	Nearest string
}

func (Observe) isInput() {}
func (Tick) isInput()    {}
func (Release) isInput() {}
func (Reset) isInput()   {}
func (Force) isInput()   {}

type Effect uint8

const (
	StartTimer Effect = 1 << iota
	StopTimer
	Commit

	NoEffect Effect = 0
)

func (e Effect) Has(x Effect) bool { return e&x == x }

func inside(distance, threshold float64) bool { return distance <= threshold }

// Reduce applies one input. It has no side effects.
func Reduce(s State, in Input, cfg Config) (State, Effect) {
	switch in := in.(type) {
	case Observe:
		if s.Phase == Committed {
			return s, NoEffect
		}
		if in.Nearest == "" || !inside(in.Distance, in.Threshold) {
			if s.Phase == Approaching {
				return State{Phase: Idle}, StopTimer
			}
			return State{Phase: Idle}, NoEffect
		}
		switch {
		case s.Phase == Idle:
			return State{Phase: Approaching, Nearest: in.Nearest}, StartTimer
		case in.Nearest != s.Nearest:
			return State{Phase: Approaching, Nearest: in.Nearest}, StopTimer | StartTimer
		}
		return s, NoEffect

	case Tick:
		if s.Phase != Approaching {
			return s, NoEffect
		}
		s.Accumulated += cfg.Tick
		if s.Accumulated >= cfg.Dwell {
			s.Phase = Committed
			return s, StopTimer | Commit
		}
		return s, NoEffect

	case Release:
		if s.Phase == Approaching && !inside(in.Distance, in.Threshold) {
			return State{Phase: Idle}, StopTimer
		}
		return s, NoEffect

	case Reset:
		if s.Phase == Approaching {
			return State{Phase: Idle}, StopTimer
		}
		return State{Phase: Idle}, NoEffect

	case Force:
		if s.Phase == Committed || in.Nearest == "" {
			return s, NoEffect
		}
		eff := Commit
		if s.Phase == Approaching {
			eff |= StopTimer
		}
		return State{Phase: Committed, Nearest: in.Nearest, Accumulated: s.Accumulated}, eff
	}
	return s, NoEffect
}
