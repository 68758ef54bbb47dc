package nav

import (
	"errors"
	"testing"
	"time"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/geom"
)

type stack struct{ items []string }

func (s *stack) Push(l string) { s.items = append(s.items, l) }
func (s *stack) Pop() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	l := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return l, true
}
func (s *stack) Peek() (string, bool) {
	if len(s.items) == 0 {
		return "", false
	}
	return s.items[len(s.items)-1], true
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, _, ok := r.Nearest(geom.V(0, 0)); ok {
		t.Error("empty registry returned a nearest target")
	}

	if err := r.Add(Target{Label: "start", Anchor: geom.V(0, 0), SnapThreshold: 10}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(Target{Label: "end", Anchor: geom.V(100, 0), SnapThreshold: 10}); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(Target{Label: "end"}); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("expected ErrDuplicateLabel, got %v", err)
	}
	if err := r.Add(Target{}); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("expected ErrEmptyLabel, got %v", err)
	}

	tgt, d, ok := r.Nearest(geom.V(70, 0))
	if !ok || tgt.Label != "end" || d != 30 {
		t.Errorf("Nearest = %v %v %v", tgt.Label, d, ok)
	}

	if !r.Update(Target{Label: "end", Anchor: geom.V(60, 0)}) {
		t.Error("update failed")
	}
	if got, _ := r.Get("end"); got.Anchor != geom.V(60, 0) {
		t.Errorf("updated anchor = %v", got.Anchor)
	}
	if r.Update(Target{Label: "missing"}) {
		t.Error("update of missing label succeeded")
	}
	if labels := r.Labels(); len(labels) != 2 || labels[0] != "start" {
		t.Errorf("labels = %v", labels)
	}
}

func TestCommitter_Idempotent(t *testing.T) {
	vc := clock.NewVirtual(time.Unix(0, 0))
	var navigated []string
	h := &stack{}
	c := NewCommitter(NavigatorFunc(func(l string) { navigated = append(navigated, l) }), h, vc, nil)

	committed := 0
	c.OnCommit = func(string) { committed++ }
	completed := ""
	c.OnComplete = func(l string) { completed = l }

	if !c.Commit("cv") {
		t.Fatal("first commit rejected")
	}
	if c.Commit("cv") || c.Commit("projects") {
		t.Error("commit accepted while pending")
	}
	if l, ok := c.Pending(); !ok || l != "cv" {
		t.Errorf("pending = %q %v", l, ok)
	}

	vc.Advance(299 * time.Millisecond)
	if len(navigated) != 0 {
		t.Fatal("navigated before the transition delay")
	}
	vc.Advance(time.Millisecond)
	if len(navigated) != 1 || navigated[0] != "cv" || committed != 1 || completed != "cv" {
		t.Errorf("navigated=%v committed=%d completed=%q", navigated, committed, completed)
	}
	if top, _ := h.Peek(); top != "cv" {
		t.Errorf("history top = %q", top)
	}

	if !c.Commit("projects") {
		t.Error("commit after completion rejected")
	}
	c.Cancel()
	vc.Advance(time.Second)
	if len(navigated) != 1 {
		t.Errorf("cancelled transition navigated: %v", navigated)
	}
	if vc.Pending() != 0 {
		t.Errorf("timers leaked: %d", vc.Pending())
	}
}
