package controller

import (
	"errors"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/dwell"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/history"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/nav"
)

const ms = time.Millisecond

type recorder struct {
	commits   []string
	navigated []string
	at        []time.Duration
}

func newDeps(vc *clock.Virtual, rec *recorder, hist nav.HistoryService) Deps {
	start := vc.Now()
	return Deps{
		Scheduler: vc,
		History:   hist,
		Rand:      rand.New(rand.NewSource(7)),
		Dwell:     dwell.Config{Tick: 100 * ms, Dwell: 250 * ms},
		Navigator: nav.NavigatorFunc(func(label string) {
			rec.navigated = append(rec.navigated, label)
			rec.at = append(rec.at, vc.Now().Sub(start))
		}),
		OnCommit: func(label string) { rec.commits = append(rec.commits, label) },
	}
}

func dispatch(c Controller, ev Event) Snapshot {
	return c.Dispatch(&ev)
}

var _ = Describe("PathController", func() {
	var (
		vc   *clock.Virtual
		rec  *recorder
		hist *history.Stack
		opts PathOptions
		c    *PathController
	)

	BeforeEach(func() {
		vc = clock.NewVirtual(time.Unix(0, 0))
		rec = &recorder{}
		hist = history.NewStack(16)
		opts = DefaultPathOptions()
		opts.StartLabel, opts.EndLabel = "start-label", "end-label"
		opts.SnapThreshold = 10
	})

	AfterEach(func() {
		c.Close()
		Expect(vc.Pending()).To(BeZero(), "timer leaked past Close")
	})

	Context("on the three-point path", func() {
		BeforeEach(func() {
			c = NewPathController(opts, newDeps(vc, rec, hist))
			path := manifold.NewPath([]geom.Vec2{geom.V(0, 0), geom.V(50, 50), geom.V(100, 0)})
			Expect(c.MountPath(path, geom.Rect{Max: geom.V(100, 100)}, nil)).To(Succeed())
		})

		It("starts with the handle mid-path", func() {
			snap := c.Snapshot()
			Expect(snap.Mounted).To(BeTrue())
			Expect(snap.Handle.Dist(geom.V(50, 50))).To(BeNumerically("<", 1e-9))
			Expect(snap.Phase).To(Equal(dwell.Idle))
			Expect(snap.Targets).To(HaveLen(2))
		})

		It("commits on the third tick and navigates after the transition", func() {
			dispatch(c, Down(geom.V(50, 50), GrabHandle))
			snap := dispatch(c, Move(geom.V(0, 0)))
			Expect(snap.Nearest).To(Equal("start-label"))
			Expect(snap.Phase).To(Equal(dwell.Approaching))

			vc.Advance(200 * ms)
			Expect(rec.commits).To(BeEmpty())
			Expect(c.Snapshot().DwellProgress).To(BeNumerically("~", 0.8, 1e-9))

			vc.Advance(100 * ms)
			Expect(rec.commits).To(Equal([]string{"start-label"}))
			Expect(c.Snapshot().Transition).To(Equal("start-label"))
			Expect(rec.navigated).To(BeEmpty())

			vc.Advance(nav.DefaultTransitionDelay)
			Expect(rec.navigated).To(Equal([]string{"start-label"}))
			Expect(rec.at).To(Equal([]time.Duration{600 * ms}))
			Expect(hist.Entries()).To(Equal([]string{"start-label"}))
			Expect(c.Snapshot().Phase).To(Equal(dwell.Idle))
		})

		It("navigates exactly once when held well past the dwell time", func() {
			dispatch(c, Down(geom.V(50, 50), GrabHandle))
			for elapsed := time.Duration(0); elapsed <= 750*ms; elapsed += 50 * ms {
				dispatch(c, Move(geom.V(0, 0)))
				vc.Advance(50 * ms)
			}
			Expect(rec.commits).To(HaveLen(1))
			Expect(rec.navigated).To(Equal([]string{"start-label"}))
		})

		It("resets the dwell when the handle leaves the threshold", func() {
			dispatch(c, Down(geom.V(50, 50), GrabHandle))
			dispatch(c, Move(geom.V(0, 0)))
			vc.Advance(200 * ms)
			snap := dispatch(c, Move(geom.V(30, 30)))
			Expect(snap.Phase).To(Equal(dwell.Idle))
			Expect(snap.DwellProgress).To(BeZero())
			vc.Advance(time.Second)
			Expect(rec.commits).To(BeEmpty())
		})

		It("keeps the dwell running when released inside the threshold", func() {
			dispatch(c, Down(geom.V(50, 50), GrabHandle))
			dispatch(c, Move(geom.V(2, 2)))
			snap := dispatch(c, Up(geom.V(2, 2)))
			Expect(snap.Dragging).To(Equal(GrabNone))
			Expect(snap.Phase).To(Equal(dwell.Approaching))
			vc.Advance(300 * ms)
			Expect(rec.commits).To(Equal([]string{"start-label"}))
		})

		It("prevents default on touch moves only while dragging", func() {
			ev := TouchMove(geom.V(10, 10))
			c.Dispatch(&ev)
			Expect(ev.DefaultPrevented).To(BeFalse())

			dispatch(c, Down(geom.V(50, 50), GrabHandle))
			ev = TouchMove(geom.V(10, 10))
			c.Dispatch(&ev)
			Expect(ev.DefaultPrevented).To(BeTrue())
		})

		It("cancels a pending transition on Close", func() {
			dispatch(c, Down(geom.V(50, 50), GrabHandle))
			dispatch(c, Move(geom.V(0, 0)))
			vc.Advance(300 * ms)
			Expect(rec.commits).To(HaveLen(1))
			c.Close()
			Expect(vc.Pending()).To(BeZero())
			vc.Advance(time.Second)
			Expect(rec.navigated).To(BeEmpty())
		})
	})

	Context("on a horizontal path", func() {
		viewport := geom.Rect{Max: geom.V(400, 300)}

		BeforeEach(func() {
			c = NewPathController(opts, newDeps(vc, rec, hist))
			path := manifold.NewPath([]geom.Vec2{geom.V(0, 100), geom.V(400, 100)})
			Expect(c.MountPath(path, viewport, nil)).To(Succeed())
		})

		It("replays a landing coordinate", func() {
			got := c.Land(geom.V(200, 150))
			Expect(got.Dist(geom.V(200, 150))).To(BeNumerically("<", 1.0))
			st := c.State()
			Expect(st.T).To(BeNumerically("~", 0.5, 1e-9))
			Expect(st.Whisker.Side).To(Equal(1.0))
			Expect(st.Whisker.Length).To(BeNumerically("~", 50, 1e-9))
		})

		It("clamps a landing coordinate outside the viewport", func() {
			got := c.Land(geom.V(500, 150))
			Expect(got.Dist(geom.V(400, 150))).To(BeNumerically("<", 1.0))
			Expect(c.State().T).To(BeNumerically("~", 1, 1e-9))
		})

		It("moves the control point exactly where it is dragged", func() {
			st := c.State()
			dispatch(c, Down(st.Control, GrabControl))
			snap := dispatch(c, Move(geom.V(120, 40)))
			Expect(snap.Control.Dist(geom.V(120, 40))).To(BeNumerically("<", 1e-6))
			Expect(snap.Handle.Dist(geom.V(120, 100))).To(BeNumerically("<", 1e-6))
			Expect(c.State().Whisker.Side).To(Equal(-1.0))
		})

		It("snaps to the closest destination from the keyboard without dwell", func() {
			dispatch(c, Down(geom.V(200, 100), GrabHandle))
			dispatch(c, Move(geom.V(300, 100)))
			dispatch(c, Up(geom.V(300, 100)))

			snap := dispatch(c, Snap())
			Expect(snap.Handle.Dist(geom.V(400, 100))).To(BeNumerically("<", 1e-9))
			Expect(snap.Control.Dist(geom.V(400, 136))).To(BeNumerically("<", 1e-6))
			Expect(rec.commits).To(Equal([]string{"end-label"}))

			vc.Advance(nav.DefaultTransitionDelay)
			Expect(rec.navigated).To(Equal([]string{"end-label"}))
		})

		It("projects points onto the mounted path", func() {
			pr, err := c.Project(geom.V(100, 0))
			Expect(err).NotTo(HaveOccurred())
			Expect(pr.T).To(BeNumerically("~", 0.25, 1e-9))
			Expect(pr.Distance).To(BeNumerically("~", 100, 1e-9))
		})
	})

	Context("with a capped whisker", func() {
		BeforeEach(func() {
			opts.MaxWhisker = 80
			c = NewPathController(opts, newDeps(vc, rec, hist))
			path := manifold.NewPath([]geom.Vec2{geom.V(0, 100), geom.V(400, 100)})
			Expect(c.MountPath(path, geom.Rect{Max: geom.V(400, 300)}, nil)).To(Succeed())
		})

		It("shortens the whisker but keeps its direction", func() {
			dispatch(c, Down(c.State().Control, GrabControl))
			snap := dispatch(c, Move(geom.V(120, 0)))
			Expect(snap.Control.Dist(geom.V(120, 20))).To(BeNumerically("<", 1e-6))
		})

		It("does not cap a landing coordinate", func() {
			got := c.Land(geom.V(200, 250))
			Expect(got.Dist(geom.V(200, 250))).To(BeNumerically("<", 1.0))
			Expect(c.State().Whisker.Length).To(BeNumerically("~", 150, 1e-9))
		})
	})

	Context("with default options", func() {
		It("replays a landing far from the path", func() {
			c = NewPathController(DefaultPathOptions(), newDeps(vc, rec, hist))
			path := manifold.NewPath([]geom.Vec2{geom.V(0, 100), geom.V(800, 100)})
			Expect(c.MountPath(path, geom.Rect{Max: geom.V(800, 600)}, nil)).To(Succeed())

			landing := geom.V(400, 450)
			got := c.Land(landing)
			Expect(got.Dist(landing)).To(BeNumerically("<", 1.0))
			Expect(c.Snapshot().Control.Dist(landing)).To(BeNumerically("<", 1.0))
			Expect(c.State().Whisker.Length).To(BeNumerically("~", 350, 1e-9))
		})
	})

	Context("before the viewport is measured", func() {
		BeforeEach(func() {
			c = NewPathController(opts, newDeps(vc, rec, hist))
		})

		It("defers mounting until a resize", func() {
			err := c.Attach(geom.Rect{}, nil)
			Expect(errors.Is(err, manifold.ErrViewportUnmeasured)).To(BeTrue())
			Expect(c.Mounted()).To(BeFalse())

			_, err = c.Project(geom.V(1, 1))
			Expect(err).To(MatchError(ErrNotMounted))

			snap := dispatch(c, Snap())
			Expect(snap.Mounted).To(BeFalse())
			Expect(rec.commits).To(BeEmpty())

			snap = dispatch(c, ResizeTo(geom.Rect{Max: geom.V(800, 600)}))
			Expect(snap.Mounted).To(BeTrue())
			Expect(snap.Targets).To(HaveLen(2))
		})

		It("applies a landing point given before mounting", func() {
			landing := geom.V(400, 300)
			Expect(c.Attach(geom.Rect{}, &landing)).NotTo(Succeed())
			dispatch(c, ResizeTo(geom.Rect{Max: geom.V(800, 600)}))
			Expect(c.Snapshot().Control.Dist(landing)).To(BeNumerically("<", 1.0))
		})
	})
})
