// Package controller implements the two gesture navigation controllers:
//
//   - [PathController]: a handle constrained to a smoothed random path,
//     with a secondary control point (the rendered glyph) hanging off the
//     path on a whisker
//   - [OrbitController]: a handle moved in polar coordinates around a
//     center, magnetically pulled toward destination anchors
//
// Both follow the same pattern. Input arrives as [Event] values; a pure
// reducer ([ReducePath], [ReduceOrbit]) computes the next geometric state;
// the controller then feeds the handle position to a dwell.Tracker, which
// commits a navigation through nav.Committer once the handle has stayed
// within a target's snap threshold for the dwell time. The keyboard snap
// commits immediately.
//
// Controllers are single-threaded. Timers are delivered through the
// injected clock.Scheduler and must run on the same goroutine as Dispatch.
package controller
