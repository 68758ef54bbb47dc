package viz

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/config"
	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/dwell"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/history"
	"github.com/san-kum/gesturenav/internal/logging"
	"github.com/san-kum/gesturenav/internal/manifold"
)

const (
	headerRows = 1
	statusRows = 9
	grabRadius = 14
	maxLog     = 4
)

type Options struct {
	Config  *config.Config
	Variant string
	Seed    int64
	Theme   string
	Logger  *logging.Logger
	// Store persists navigation history and the landing point across
	// runs; nil keeps history in memory.
	Store *history.FileStore

	// Scheduler and Timers come as a pair: callbacks scheduled on
	// Scheduler must be delivered on Timers. Nil selects a clock.Loop.
	Scheduler clock.Scheduler
	Timers    <-chan func()
}

// timerMsg carries a scheduler callback onto the bubbletea goroutine.
type timerMsg func()

// App is the interactive demo: the manifold drawn on a braille canvas,
// the mouse driving pointer events and space snapping to the closest
// destination. Each navigation reloads the page, landing the control
// point where it left off.
type App struct {
	cfg     *config.Config
	variant string
	lg      *logging.Logger
	rng     *rand.Rand
	sched   clock.Scheduler
	timers  <-chan func()
	stack   *history.Stack
	store   *history.FileStore

	ctl     controller.Controller
	snap    controller.Snapshot
	canvas  *Canvas
	theme   Theme
	width   int
	height  int
	page    string
	fading  string
	reload  bool
	landing *geom.Vec2
	log     []string
}

func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	variant := opts.Variant
	if variant == "" {
		variant = cfg.Variant
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		cfg:     cfg,
		variant: variant,
		lg:      opts.Logger.With(slog.String("component", "tui")),
		rng:     rand.New(rand.NewSource(seed)),
		sched:   opts.Scheduler,
		timers:  opts.Timers,
		store:   opts.Store,
		theme:   GetTheme(opts.Theme),
		width:   80,
		height:  24,
		page:    "start",
	}
	if a.sched == nil {
		loop := clock.NewLoop(64)
		a.sched, a.timers = loop, loop.C()
	}
	if a.store != nil {
		a.stack = a.store.Stack
		if l, ok := a.store.LastLanding(); ok {
			p := l.Point
			a.landing = &p
			a.page = l.From
			a.logf("resumed on %s", l.From)
		}
	} else {
		a.stack = history.NewStack(cfg.History.Limit)
	}
	return a
}

func (a *App) logf(format string, args ...any) {
	a.log = append(a.log, fmt.Sprintf(format, args...))
	if len(a.log) > maxLog {
		a.log = a.log[len(a.log)-maxLog:]
	}
}

func (a *App) build() error {
	if a.ctl != nil {
		a.ctl.Close()
	}
	deps := controller.Deps{
		Scheduler:       a.sched,
		Navigator:       a,
		Logger:          a.lg,
		Rand:            a.rng,
		Dwell:           a.cfg.DwellConfig(),
		TransitionDelay: a.cfg.TransitionDelay(),
		OnCommit: func(label string) {
			a.fading = label
			a.logf("→ %s", label)
		},
	}
	if a.store != nil {
		deps.History = a.store
	} else {
		deps.History = a.stack
	}

	ctl, err := controller.New(a.variant, a.cfg.PathOptions(), a.cfg.OrbitOptions(), deps)
	if err != nil {
		return err
	}
	a.ctl, a.fading = ctl, ""

	var vp geom.Rect
	if a.canvas != nil {
		vp = a.canvas.Viewport()
	}
	// with an unmeasured viewport the controller keeps the landing point
	// and mounts on the first resize
	err = ctl.Attach(vp, a.landing)
	a.landing = nil
	a.snap = ctl.Snapshot()
	if err != nil && !vp.Empty() {
		return err
	}
	return nil
}

// Navigate implements nav.Navigator. The controller is still running its
// completion hooks, so the reload happens once the callback returns.
func (a *App) Navigate(label string) {
	a.page = label
	a.reload = true
	if a.snap.Mounted {
		p := a.snap.Control
		a.landing = &p
		if a.store != nil {
			if err := a.store.SetLanding(history.Landing{From: label, Point: p}); err != nil {
				a.lg.Warn("saving landing failed", slog.Any("error", err))
			}
		}
	}
	a.lg.Info("navigated", slog.String("page", label))
}

func (a *App) dispatch(ev controller.Event) {
	if a.ctl == nil {
		return
	}
	a.snap = a.ctl.Dispatch(&ev)
}

func waitTimer(ch <-chan func()) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		fn, ok := <-ch
		if !ok {
			return nil
		}
		return timerMsg(fn)
	}
}

func (a *App) Init() tea.Cmd {
	if err := a.build(); err != nil {
		a.logf("error: %v", err)
	}
	return waitTimer(a.timers)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		rows := a.height - headerRows - statusRows
		if rows < 4 {
			rows = 4
		}
		a.canvas = NewCanvas(max(a.width, 10), rows)
		if a.ctl == nil {
			if err := a.build(); err != nil {
				a.logf("error: %v", err)
			}
		}
		a.dispatch(controller.ResizeTo(a.canvas.Viewport()))
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		a.handleMouse(msg)
		return a, nil

	case timerMsg:
		msg()
		if a.ctl != nil {
			a.snap = a.ctl.Snapshot()
		}
		if a.reload {
			a.reload = false
			if err := a.build(); err != nil {
				a.logf("error: %v", err)
			}
		}
		return a, waitTimer(a.timers)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		a.Close()
		return tea.Quit
	case " ", "space", "enter":
		a.dispatch(controller.Snap())
	case "r":
		a.landing = nil
		if err := a.build(); err != nil {
			a.logf("error: %v", err)
		}
		a.logf("regenerated")
	case "v":
		if a.variant == controller.VariantPath {
			a.variant = controller.VariantOrbit
		} else {
			a.variant = controller.VariantPath
		}
		a.landing = nil
		if err := a.build(); err != nil {
			a.logf("error: %v", err)
		}
		a.logf("variant %s", a.variant)
	case "t":
		a.theme = a.theme.next()
	}
	return nil
}

// handleMouse turns left-button drags into pointer events. Cells map to
// the dot at their center; presses grab whichever point is nearer.
func (a *App) handleMouse(msg tea.MouseMsg) {
	if a.canvas == nil || !a.snap.Mounted {
		return
	}
	p := CellCenter(msg.X, msg.Y-headerRows)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		a.dispatch(controller.Down(p, a.pick(p)))
	case tea.MouseActionMotion:
		if a.snap.Dragging != controller.GrabNone {
			a.dispatch(controller.Move(p))
		}
	case tea.MouseActionRelease:
		if a.snap.Dragging != controller.GrabNone {
			a.dispatch(controller.Up(p))
		}
	}
}

func (a *App) pick(p geom.Vec2) controller.Grab {
	dh := p.Dist(a.snap.Handle)
	dc := p.Dist(a.snap.Control)
	switch {
	case a.variant == controller.VariantPath && dc < dh && dc <= grabRadius:
		return controller.GrabControl
	case dh <= grabRadius:
		return controller.GrabHandle
	}
	return controller.GrabNone
}

// Close releases the controller's timers and flushes history.
func (a *App) Close() {
	if a.ctl != nil {
		a.ctl.Close()
	}
	if a.store != nil {
		if err := a.store.Save(); err != nil {
			a.lg.Warn("saving history failed", slog.Any("error", err))
		}
	}
}

func (a *App) draw() {
	c := a.canvas
	c.Clear()
	switch ctl := a.ctl.(type) {
	case *controller.PathController:
		if p := ctl.Path(); p != nil {
			c.Polyline(p.Samples)
		}
	case *controller.OrbitController:
		if set := ctl.Orbits(); set != nil {
			drawOrbits(c, set)
		}
	}

	for _, t := range a.snap.Targets {
		c.Ring(t.Anchor, t.SnapThreshold, true)
		c.Text(t.Anchor.Add(geom.V(t.SnapThreshold+2, -4)), t.Label)
	}

	h := a.snap.Handle
	c.Disc(h, 2.5)
	c.Segment(h.Sub(a.snap.Tangent.Scale(8)), h.Add(a.snap.Tangent.Scale(8)))
	if a.variant == controller.VariantPath {
		c.Segment(h, a.snap.Control)
		c.Ring(a.snap.Control, 4, false)
	}
}

func drawOrbits(c *Canvas, set *manifold.OrbitSet) {
	c.Disc(set.Center, 1)
	for _, o := range set.Orbits {
		c.Ring(set.Center, o.Radius, true)
	}
}

func (a *App) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent).Render("gesturenav")
	header := fmt.Sprintf("%s %s %s", title,
		Subtle.Render(a.variant),
		lipgloss.NewStyle().Foreground(a.theme.Text).Render("page: "+a.page))

	if a.canvas == nil || !a.snap.Mounted {
		return header + "\n" + Subtle.Render("measuring viewport...")
	}

	a.draw()
	colour := a.theme.Manifold
	if a.fading != "" {
		colour = a.theme.Muted
	}
	body := lipgloss.NewStyle().Foreground(colour).Render(strings.TrimRight(a.canvas.String(), "\n"))

	return header + "\n" + body + "\n" + a.status()
}

func (a *App) status() string {
	s := a.snap
	phase := lipgloss.NewStyle().Foreground(a.theme.Muted)
	switch s.Phase {
	case dwell.Approaching:
		phase = phase.Foreground(a.theme.Warning)
	case dwell.Committed:
		phase = phase.Foreground(a.theme.Success)
	}

	nearest := s.Nearest
	if nearest == "" {
		nearest = "-"
	}
	line1 := strings.Join([]string{
		Metric("nearest", nearest),
		Metric("distance", fmt.Sprintf("%.0f", s.NearestDistance)),
		MetricLabel.Render("phase ") + phase.Render(s.Phase.String()),
	}, "   ")
	line2 := MetricLabel.Render("dwell ") + ProgressBar(s.DwellProgress, 30)
	if s.Transition != "" {
		line2 += "  " + lipgloss.NewStyle().Foreground(a.theme.Accent).Render("→ "+s.Transition)
	}
	line3 := Metric("history", strings.Join(a.stack.Entries(), " › "))

	lines := []string{Separator(max(a.width, 10)), line1, line2, line3}
	for _, l := range a.log {
		lines = append(lines, Subtle.Render(l))
	}
	lines = append(lines, KeyHint.Render("drag: move  space: snap  r: regenerate  v: variant  t: theme  q: quit"))
	return strings.Join(lines, "\n")
}

// Run starts the demo on the terminal.
func Run(opts Options) error {
	app := NewApp(opts)
	defer app.Close()
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
