// Package manifold provides the geometry that constrains navigable
// positions for the gesture controllers.
//
// Two manifolds are supported:
//
//   - [Path]: a smoothed polyline between two endpoints, parameterised by
//     fractional arc length t in [0,1]
//   - [OrbitSet]: concentric orbits around a center, parameterised by
//     [Polar] (angle in degrees, radius in pixels)
//
// Everything in this package is pure: generation takes an explicit
// *rand.Rand, and queries never mutate the manifold. Degenerate inputs
// (no segments, zero length) produce fixed defaults instead of NaN.
//
// # Example
//
//	seeds, err := manifold.GeneratePathSeeds(rng, viewport, manifold.DefaultPathOptions())
//	if err != nil {
//		return err // ErrViewportUnmeasured until the viewport has a size
//	}
//	path := manifold.NewSmoothPath(seeds, 13)
//	p := path.PointAt(0.5)
//	proj := path.Project(pointer)
package manifold
