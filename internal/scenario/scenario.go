package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
)

var (
	ErrUnknownStep = errors.New("scenario: unknown step kind")
	ErrStepOrder   = errors.New("scenario: steps must be in time order")
	ErrNoViewport  = errors.New("scenario: viewport required")
)

// Scenario is a scripted gesture sequence. The manifold is generated from
// Seed unless Path or Orbits pins it.
type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Variant     string     `yaml:"variant"`
	Seed        int64      `yaml:"seed"`
	Viewport    Viewport   `yaml:"viewport"`
	Landing     *geom.Vec2 `yaml:"landing"`

	// Path lists seed points; with Smooth they are passed through the
	// spline, otherwise they form the polyline directly.
	Path   []geom.Vec2 `yaml:"path"`
	Smooth bool        `yaml:"smooth"`

	Orbits []manifold.Orbit `yaml:"orbits"`

	// Labels overrides the configured destination labels: start and end
	// for a path, one per orbit for generated orbits.
	Labels        []string `yaml:"labels"`
	SnapThreshold float64  `yaml:"snap_threshold"`

	// TailMs keeps the clock running after the last step so pending
	// dwell and transitions can finish.
	TailMs int    `yaml:"tail_ms"`
	Steps  []Step `yaml:"steps"`
}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (v Viewport) Rect() geom.Rect {
	return geom.Rect{Max: geom.V(v.Width, v.Height)}
}

// Step is one input at a point in scenario time.
type Step struct {
	AtMs   int     `yaml:"at_ms"`
	Kind   string  `yaml:"kind"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Target string  `yaml:"target"`
	Key    string  `yaml:"key"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Event converts the step to a controller event.
func (s Step) Event() (controller.Event, error) {
	p := geom.V(s.X, s.Y)
	switch strings.ToLower(s.Kind) {
	case "down":
		g := controller.GrabHandle
		if strings.EqualFold(s.Target, "control") {
			g = controller.GrabControl
		}
		return controller.Down(p, g), nil
	case "move":
		return controller.Move(p), nil
	case "touch":
		return controller.TouchMove(p), nil
	case "up":
		return controller.Up(p), nil
	case "snap":
		return controller.Snap(), nil
	case "key":
		switch strings.ToLower(s.Key) {
		case "space", " ", "enter":
			return controller.Snap(), nil
		}
		return controller.Event{}, fmt.Errorf("%w: key %q", ErrUnknownStep, s.Key)
	case "resize":
		return controller.ResizeTo(geom.Rect{Max: geom.V(s.Width, s.Height)}), nil
	}
	return controller.Event{}, fmt.Errorf("%w: %q", ErrUnknownStep, s.Kind)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func (sc *Scenario) Validate() error {
	if sc.Variant == "" {
		sc.Variant = controller.VariantPath
	}
	if sc.Viewport.Width <= 0 || sc.Viewport.Height <= 0 {
		return ErrNoViewport
	}
	last := 0
	for i, st := range sc.Steps {
		if st.AtMs < last {
			return fmt.Errorf("%w: step %d at %dms after %dms", ErrStepOrder, i+1, st.AtMs, last)
		}
		last = st.AtMs
		if _, err := st.Event(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}
