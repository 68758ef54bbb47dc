package controller

import (
	"errors"
	"log/slog"

	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

const VariantPath = "path"

// PathController drives the freeform path variant. The start and end of
// the path are the two destinations.
type PathController struct {
	*session
	opts    PathOptions
	deps    Deps
	path    *manifold.Path
	proj    *manifold.ProjectionCache
	state   PathState
	mounted bool
	landing *geom.Vec2
}

func NewPathController(opts PathOptions, deps Deps) *PathController {
	deps = deps.withDefaults()
	return &PathController{
		session: newSession(VariantPath, deps),
		opts:    opts,
		deps:    deps,
	}
}

// Mount generates the path and targets for viewport. With an unmeasured
// viewport it returns manifold.ErrViewportUnmeasured and the controller
// mounts on the first Resize with a real size instead. A non-nil landing
// point reseeds the control point.
func (c *PathController) Mount(viewport geom.Rect, landing *geom.Vec2) error {
	if c.closed {
		return ErrClosed
	}
	if c.mounted {
		return nil
	}
	if landing != nil {
		l := *landing
		c.landing = &l
	}

	path, err := manifold.GeneratePath(c.deps.Rand, viewport, c.opts.PathOptions)
	if err != nil {
		if errors.Is(err, manifold.ErrViewportUnmeasured) {
			c.lg.Debug("mount deferred until viewport is measured")
		}
		return err
	}
	return c.mountPath(path, viewport)
}

// MountPath mounts on a caller-supplied path instead of a generated one.
func (c *PathController) MountPath(path *manifold.Path, viewport geom.Rect, landing *geom.Vec2) error {
	if c.closed {
		return ErrClosed
	}
	if landing != nil {
		l := *landing
		c.landing = &l
	}
	return c.mountPath(path, viewport)
}

func (c *PathController) mountPath(path *manifold.Path, viewport geom.Rect) error {
	proj, err := manifold.NewProjectionCache(path, 128)
	if err != nil {
		return err
	}
	reg := nav.NewRegistry()
	for _, t := range []nav.Target{
		{Label: c.opts.StartLabel, Anchor: path.PointAt(0), SnapThreshold: c.opts.SnapThreshold, T: 0},
		{Label: c.opts.EndLabel, Anchor: path.PointAt(1), SnapThreshold: c.opts.SnapThreshold, T: 1},
	} {
		if err := reg.Add(t); err != nil {
			return err
		}
	}

	c.path, c.proj, c.reg = path, proj, reg
	c.state = PathState{
		T:        geom.Clamp(c.opts.InitialT, 0, 1),
		Whisker:  Whisker{Length: c.opts.DefaultWhisker, Side: 1},
		Viewport: viewport,
	}
	c.state.Control = Replay(path, c.state.T, c.state.Whisker)
	c.mounted = true

	c.lg.Info("path mounted",
		slog.Int("samples", len(path.Samples)),
		slog.Float64("length", path.Total))

	if c.landing != nil {
		c.Land(*c.landing)
		c.landing = nil
	}
	return nil
}

// Land places the control point at p, as when arriving from another
// page. p is clamped into the viewport; otherwise the control point lands
// exactly on p. MaxWhisker only bounds interactive drags.
func (c *PathController) Land(p geom.Vec2) geom.Vec2 {
	if !c.mounted {
		c.landing = &p
		return p
	}
	if !p.IsFinite() {
		c.lg.Warn("ignoring non-finite landing point")
		return c.state.Control
	}
	if vp := c.state.Viewport; !vp.Empty() && !vp.Contains(p) {
		q := vp.ClampPoint(p)
		c.lg.Info("landing point clamped to viewport",
			slog.Float64("x", p.X), slog.Float64("y", p.Y),
			slog.Float64("cx", q.X), slog.Float64("cy", q.Y))
		p = q
	}
	t := c.proj.Project(p).T
	w := DeriveWhisker(c.path, t, p)
	c.state.T, c.state.Whisker = t, w
	c.state.Control = Replay(c.path, t, w)
	return c.state.Control
}

func (c *PathController) env() PathEnv {
	return PathEnv{
		Path:       c.path,
		Project:    c.proj.Project,
		Targets:    c.reg.All(),
		MaxWhisker: c.opts.MaxWhisker,
	}
}

// Dispatch applies one input event and returns the resulting snapshot.
func (c *PathController) Dispatch(ev *Event) Snapshot {
	if c.closed {
		return Snapshot{Variant: VariantPath}
	}
	if ev.Kind == Resize && !c.mounted {
		if err := c.Mount(ev.Viewport, nil); err != nil && !errors.Is(err, manifold.ErrViewportUnmeasured) {
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

	c.state = ReducePath(c.env(), c.state, *ev)
	handle := c.path.PointAt(c.state.T)

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
	}
	return c.Snapshot()
}

func (c *PathController) Snapshot() Snapshot {
	if !c.mounted {
		return Snapshot{Variant: VariantPath}
	}
	handle, tangent, _ := Frame(c.path, c.state.T)
	return c.snapshot(handle, c.state.Control, tangent, c.state.Dragging)
}

func (c *PathController) Mounted() bool           { return c.mounted }
func (c *PathController) State() PathState        { return c.state }
func (c *PathController) Path() *manifold.Path    { return c.path }
func (c *PathController) Registry() *nav.Registry { return c.reg }

// ProjectionStats reports projection cache hits and misses.
func (c *PathController) ProjectionStats() (hits, misses int) {
	if c.proj == nil {
		return 0, 0
	}
	return c.proj.Stats()
}

// Close cancels every timer the controller owns.
func (c *PathController) Close() {
	c.session.close()
}

// Project maps p onto the mounted path.
func (c *PathController) Project(p geom.Vec2) (manifold.Projection, error) {
	if !c.mounted {
		return manifold.Projection{}, ErrNotMounted
	}
	return c.proj.Project(p), nil
}
