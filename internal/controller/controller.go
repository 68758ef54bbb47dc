package controller

import (
	"fmt"

	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/nav"
)

// Controller is the variant-independent surface used by hosts such as the
// terminal demo and the scenario runner.
type Controller interface {
	// Attach mounts the controller on viewport. landing is only honoured
	// by variants with a control point.
	Attach(viewport geom.Rect, landing *geom.Vec2) error
	Dispatch(ev *Event) Snapshot
	Snapshot() Snapshot
	Registry() *nav.Registry
	Mounted() bool
	Close()
}

var (
	_ Controller = (*PathController)(nil)
	_ Controller = (*OrbitController)(nil)
)

func (c *PathController) Attach(viewport geom.Rect, landing *geom.Vec2) error {
	return c.Mount(viewport, landing)
}

func (c *OrbitController) Attach(viewport geom.Rect, landing *geom.Vec2) error {
	if landing != nil {
		c.lg.Debug("orbit variant ignores landing point")
	}
	return c.Mount(viewport)
}

func Variants() []string { return []string{VariantPath, VariantOrbit} }

// New builds the controller for variant.
func New(variant string, path PathOptions, orbit OrbitOptions, deps Deps) (Controller, error) {
	switch variant {
	case VariantPath:
		return NewPathController(path, deps), nil
	case VariantOrbit:
		return NewOrbitController(orbit, deps), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
}
