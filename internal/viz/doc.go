// Package viz is the terminal demo for the gesture controllers.
//
// The demo is a Bubble Tea program:
//
//   - [App]: draws the active manifold, destinations and handle on a
//     [Canvas] and feeds mouse drags to the controller as pointer events
//   - [Canvas]: braille dot grid whose dot coordinates are the
//     controller's viewport coordinates
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Drag  - Move the handle or, on a path, the control point
//	Space - Snap to the closest destination
//	R     - Regenerate the manifold
//	V     - Switch between path and orbit
//	T     - Cycle color themes
//	Q     - Quit
//
// Controller timers run on a clock.Loop whose callbacks are delivered to
// the program as messages, so all controller calls stay on the Bubble Tea
// goroutine.
package viz
