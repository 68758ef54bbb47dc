package controller

import (
	"errors"
	"log/slog"
	"math"

	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

const VariantOrbit = "orbit"

// OrbitController drives the radial variant: one orbit per destination
// around the viewport center, with magnetic snapping near anchors.
type OrbitController struct {
	*session
	opts    OrbitOptions
	deps    Deps
	set     *manifold.OrbitSet
	state   OrbitState
	mounted bool
}

func NewOrbitController(opts OrbitOptions, deps Deps) *OrbitController {
	deps = deps.withDefaults()
	if opts.Blend == nil {
		opts.Blend = manifold.LinearBlend
	}
	return &OrbitController{
		session: newSession(VariantOrbit, deps),
		opts:    opts,
		deps:    deps,
	}
}

// Mount places the orbits for viewport. An unmeasured viewport defers
// mounting to the first Resize, as for the path variant.
func (c *OrbitController) Mount(viewport geom.Rect) error {
	if c.closed {
		return ErrClosed
	}
	if c.mounted {
		return nil
	}
	set, err := manifold.GenerateOrbits(c.deps.Rand, viewport, c.opts.OrbitOptions, c.opts.Labels)
	if err != nil {
		if errors.Is(err, manifold.ErrViewportUnmeasured) {
			c.lg.Debug("mount deferred until viewport is measured")
		}
		return err
	}
	return c.MountSet(set, viewport)
}

// MountSet mounts on a caller-supplied orbit set.
func (c *OrbitController) MountSet(set *manifold.OrbitSet, viewport geom.Rect) error {
	if c.closed {
		return ErrClosed
	}
	reg := nav.NewRegistry()
	for i, o := range set.Orbits {
		if err := reg.Add(nav.Target{
			Label:         o.Label,
			Anchor:        set.Anchor(i),
			SnapThreshold: c.opts.SnapThreshold,
			Polar:         o.Polar,
		}); err != nil {
			return err
		}
	}
	c.set, c.reg = set, reg
	c.state = OrbitState{Polar: restingPolar(set), Viewport: viewport}
	c.mounted = true

	c.lg.Info("orbits mounted",
		slog.Int("orbits", len(set.Orbits)),
		slog.Float64("cx", set.Center.X), slog.Float64("cy", set.Center.Y))
	return nil
}

// restingPolar puts the handle opposite the destinations so that it does
// not start inside any magnetic radius.
func restingPolar(set *manifold.OrbitSet) manifold.Polar {
	r := (set.MinRadius + set.MaxRadius) / 2
	if len(set.Orbits) == 0 {
		return manifold.Polar{Radius: r}
	}
	var sx, sy float64
	for _, o := range set.Orbits {
		s, c := math.Sincos(geom.Radians(o.Angle))
		sx, sy = sx+c, sy+s
	}
	var angle float64
	if math.Hypot(sx, sy) < 1e-6 {
		angle = set.Orbits[0].Angle + 90
	} else {
		angle = geom.Degrees(math.Atan2(sy, sx)) + 180
	}
	return manifold.Polar{Angle: geom.NormalizeDegrees(angle), Radius: r}
}

func (c *OrbitController) env() OrbitEnv {
	return OrbitEnv{
		Set:     c.set,
		Targets: c.reg.All(),
		Magnet: manifold.Magnet{
			Distance:      c.opts.MagneticSnapDistance,
			SnapThreshold: c.opts.SnapThreshold,
			Blend:         c.opts.Blend,
		},
	}
}

// recenter keeps the orbits centered in a resized viewport. Anchors move
// with the center; polar parameters are unchanged.
func (c *OrbitController) recenter(viewport geom.Rect) {
	if viewport.Empty() {
		return
	}
	c.set.Recenter(viewport.Center())
	for i, o := range c.set.Orbits {
		t, _ := c.reg.Get(o.Label)
		t.Anchor = c.set.Anchor(i)
		c.reg.Update(t)
	}
	c.lg.Debug("orbits recentered",
		slog.Float64("cx", c.set.Center.X), slog.Float64("cy", c.set.Center.Y))
}

func (c *OrbitController) Dispatch(ev *Event) Snapshot {
	if c.closed {
		return Snapshot{Variant: VariantOrbit}
	}
	if ev.Kind == Resize && !c.mounted {
		if err := c.Mount(ev.Viewport); err != nil && !errors.Is(err, manifold.ErrViewportUnmeasured) {
			c.lg.Error("mount failed", slog.Any("error", err))
		}
		return c.Snapshot()
	}
	if !c.mounted {
		return c.Snapshot()
	}
	if ev.Kind == PointerMove && ev.Touch && c.state.Dragging != GrabNone {
		ev.PreventDefault()
	}

	c.state = ReduceOrbit(c.env(), c.state, *ev)
	if ev.Kind == Resize {
		c.recenter(ev.Viewport)
	}
	handle := c.set.PointAt(c.state.Polar)

	switch ev.Kind {
	case PointerDown, PointerMove:
		if c.state.Dragging != GrabNone {
			c.observe(handle, false)
		}
	case PointerUp:
		c.observe(handle, true)
	case KeySnap:
		if t, _, ok := c.reg.Nearest(handle); ok {
			c.force(t.Label)
		}
	case Resize:
		c.observe(handle, false)
	}
	return c.Snapshot()
}

func (c *OrbitController) Snapshot() Snapshot {
	if !c.mounted {
		return Snapshot{Variant: VariantOrbit}
	}
	handle := c.set.PointAt(c.state.Polar)
	return c.snapshot(handle, handle, c.set.TangentAt(c.state.Polar), c.state.Dragging)
}

func (c *OrbitController) Mounted() bool              { return c.mounted }
func (c *OrbitController) State() OrbitState          { return c.state }
func (c *OrbitController) Orbits() *manifold.OrbitSet { return c.set }
func (c *OrbitController) Registry() *nav.Registry    { return c.reg }
func (c *OrbitController) Close()                     { c.session.close() }
