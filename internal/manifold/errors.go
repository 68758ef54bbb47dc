package manifold

import "errors"

var (
	// ErrViewportUnmeasured is returned when generation is attempted before
	// the viewport has a non-zero size. Callers should defer generation.
	ErrViewportUnmeasured = errors.New("manifold: viewport not measured")

	// ErrMarginsTooLarge indicates the inset margins leave no room for seeds.
	ErrMarginsTooLarge = errors.New("manifold: margins leave empty placement area")

	// ErrOrbitPlacement indicates rejection sampling could not separate the orbit angles.
	ErrOrbitPlacement = errors.New("manifold: could not place orbit angles")

	// ErrOverlappingRanges indicates two orbit radius ranges intersect.
	ErrOverlappingRanges = errors.New("manifold: orbit radius ranges overlap")

	// ErrTooManyDestinations indicates fewer radius ranges than labels.
	ErrTooManyDestinations = errors.New("manifold: more destinations than radius ranges")
)
