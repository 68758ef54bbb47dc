// Package nav holds the destination side of the controllers: the target
// registry, the transition that turns a committed dwell into a route
// change, and the interfaces of the collaborators that perform it.
package nav

import (
	"errors"
	"math"

	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/manifold"
)

var (
	ErrDuplicateLabel = errors.New("nav: duplicate target label")
	ErrEmptyLabel     = errors.New("nav: empty target label")
	ErrEmptyRegistry  = errors.New("nav: no targets registered")
)

// Target is a destination anchored on (or near) the manifold. T is the
// path parameter of the anchor and Polar its orbit parameter; only the one
// matching the controller variant is meaningful.
type Target struct {
	Label         string         `json:"label" msgpack:"label"`
	Anchor        geom.Vec2      `json:"anchor" msgpack:"anchor"`
	SnapThreshold float64        `json:"snap_threshold" msgpack:"snap_threshold"`
	T             float64        `json:"t,omitempty" msgpack:"t"`
	Polar         manifold.Polar `json:"polar,omitempty" msgpack:"polar"`
}

// Registry is an ordered, label-unique set of targets.
type Registry struct {
	targets []Target
	index   map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

func (r *Registry) Add(t Target) error {
	if t.Label == "" {
		return ErrEmptyLabel
	}
	if _, ok := r.index[t.Label]; ok {
		return ErrDuplicateLabel
	}
	r.index[t.Label] = len(r.targets)
	r.targets = append(r.targets, t)
	return nil
}

// Update replaces the target with the same label, used when anchors move
// with a recentered orbit.
func (r *Registry) Update(t Target) bool {
	i, ok := r.index[t.Label]
	if ok {
		r.targets[i] = t
	}
	return ok
}

func (r *Registry) Get(label string) (Target, bool) {
	i, ok := r.index[label]
	if !ok {
		return Target{}, false
	}
	return r.targets[i], true
}

func (r *Registry) Len() int { return len(r.targets) }

// All returns a copy of the targets in registration order.
func (r *Registry) All() []Target {
	return append([]Target(nil), r.targets...)
}

func (r *Registry) Labels() []string {
	out := make([]string, len(r.targets))
	for i, t := range r.targets {
		out[i] = t.Label
	}
	return out
}

// Nearest returns the target whose anchor is closest to p. ok is false
// when the registry is empty.
func (r *Registry) Nearest(p geom.Vec2) (t Target, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, c := range r.targets {
		if d := p.Dist(c.Anchor); d < dist {
			t, dist, ok = c, d, true
		}
	}
	return t, dist, ok
}
