package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/config"
	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/history"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("expected blank, got %U", c.Grid[0][0])
	}

	// out of bounds is ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
}

func TestCanvasViewport(t *testing.T) {
	c := NewCanvas(40, 10)
	vp := c.Viewport()
	if vp.Width() != 80 || vp.Height() != 40 {
		t.Errorf("expected 80x40 dots, got %vx%v", vp.Width(), vp.Height())
	}
	if p := CellCenter(3, 2); p != geom.V(7, 10) {
		t.Errorf("cell (3,2) center = %v", p)
	}
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(10, 2)
	c.Segment(geom.V(0, 0), geom.V(19, 0))
	c.Text(geom.V(4, 4), "cv")
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], string(rune(blank))+string(rune(blank))+"cv") {
		t.Errorf("label not placed in row 1: %q", lines[1])
	}
	c.Clear()
	if strings.Contains(c.String(), "cv") {
		t.Error("Clear left text behind")
	}
}

func TestCanvasRingAndDisc(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Ring(geom.V(20, 20), 10, false)
	c.Disc(geom.V(20, 20), 2)
	if c.Grid[5][10] == blank {
		t.Error("disc center not drawn")
	}
	if c.Grid[5][15] == blank {
		t.Error("ring not drawn at radius")
	}
}

func TestProgressBar(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1, 2} {
		bar := ProgressBar(p, 10)
		if n := strings.Count(bar, "█") + strings.Count(bar, "░"); n != 10 {
			t.Errorf("progress %v: %d cells, want 10", p, n)
		}
	}
}

func TestThemeCycle(t *testing.T) {
	seen := map[string]bool{}
	th := GetTheme("unknown")
	for range Themes {
		seen[th.Name] = true
		th = th.next()
	}
	if len(seen) != len(Themes) {
		t.Errorf("cycle visited %d of %d themes", len(seen), len(Themes))
	}
}

func newTestApp(t *testing.T, variant string) (*App, *clock.Virtual) {
	t.Helper()
	vc := clock.NewVirtual(time.Unix(0, 0))
	store := history.NewFileStore(t.TempDir(), 8)
	a := NewApp(Options{
		Config:    config.DefaultConfig(),
		Variant:   variant,
		Seed:      11,
		Store:     store,
		Scheduler: vc,
	})
	if cmd := a.Init(); cmd != nil {
		t.Fatal("expected no timer command without a timer channel")
	}
	a.Update(tea.WindowSizeMsg{Width: 200, Height: 120})
	return a, vc
}

func TestAppMountsOnResize(t *testing.T) {
	a, _ := newTestApp(t, controller.VariantPath)
	defer a.Close()
	if !a.snap.Mounted {
		t.Fatal("controller not mounted after resize")
	}
	view := a.View()
	for _, label := range []string{"home", "projects", "dwell"} {
		if !strings.Contains(view, label) {
			t.Errorf("view missing %q", label)
		}
	}
}

func TestAppSnapNavigatesAndReloads(t *testing.T) {
	a, vc := newTestApp(t, controller.VariantPath)
	defer a.Close()

	a.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if a.fading == "" {
		t.Fatal("space did not start a transition")
	}
	dest := a.fading
	vc.Advance(a.cfg.TransitionDelay())
	if a.page != dest {
		t.Errorf("page = %q, want %q", a.page, dest)
	}
	if !a.reload {
		t.Error("navigation did not request a reload")
	}

	// the reload happens on the next delivered timer; the test drives it
	a.Update(timerMsg(func() {}))
	if a.reload || a.fading != "" {
		t.Error("reload not applied")
	}
	if got := a.stack.Entries(); len(got) != 1 || got[0] != dest {
		t.Errorf("history = %v, want [%s]", got, dest)
	}
	l, ok := a.store.LastLanding()
	if !ok || l.From != dest {
		t.Errorf("landing = %+v, %v", l, ok)
	}
}

func TestAppMouseDrag(t *testing.T) {
	a, _ := newTestApp(t, controller.VariantOrbit)
	defer a.Close()

	h := a.snap.Handle
	col, row := int(h.X)/2, int(h.Y)/4+headerRows
	a.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if a.snap.Dragging != controller.GrabHandle {
		t.Fatalf("press near handle did not grab it: %v", a.snap.Dragging)
	}
	a.Update(tea.MouseMsg{X: col + 3, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: col + 3, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if a.snap.Dragging != controller.GrabNone {
		t.Error("release did not end the drag")
	}
}

func TestAppVariantToggle(t *testing.T) {
	a, _ := newTestApp(t, controller.VariantPath)
	defer a.Close()
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	if a.variant != controller.VariantOrbit {
		t.Fatalf("variant = %s", a.variant)
	}
	if !a.snap.Mounted || a.snap.Variant != controller.VariantOrbit {
		t.Errorf("orbit controller not mounted: %+v", a.snap)
	}
}
