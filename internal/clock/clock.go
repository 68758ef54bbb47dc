// Package clock abstracts time for the controllers so that dwell timing
// and navigation delays can be driven by a virtual clock in tests and
// scripted scenarios, and by the wall clock in the interactive demo.
//
// Schedulers never run callbacks concurrently with their owner: Virtual
// runs them inside Advance, Loop hands them to the owner's event loop.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// Cancel stops a scheduled callback. It is safe to call more than once.
type Cancel func()

type Scheduler interface {
	Clock
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) Cancel
	// After runs fn once after d unless cancelled first.
	After(d time.Duration, fn func()) Cancel
	// Pending reports the number of live timers.
	Pending() int
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock.
var System Clock = systemClock{}
