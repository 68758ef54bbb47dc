package controller

import (
	"math"
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

func polarPoint(center geom.Vec2, deg, r float64) geom.Vec2 {
	s, c := math.Sincos(geom.Radians(deg))
	return center.Add(geom.V(c*r, s*r))
}

var _ = Describe("OrbitController", func() {
	var (
		vc     *clock.Virtual
		rec    *recorder
		c      *OrbitController
		center = geom.V(200, 150)
	)

	BeforeEach(func() {
		vc = clock.NewVirtual(time.Unix(0, 0))
		rec = &recorder{}
		c = NewOrbitController(DefaultOrbitOptions(), newDeps(vc, rec, history.NewStack(8)))
		set := &manifold.OrbitSet{
			Center:    center,
			MinRadius: 40,
			MaxRadius: 230,
			Orbits: []manifold.Orbit{
				{Label: "cv", Polar: manifold.Polar{Angle: 30, Radius: 130}},
				{Label: "projects", Polar: manifold.Polar{Angle: 210, Radius: 170}},
			},
		}
		Expect(c.MountSet(set, geom.Rect{Max: geom.V(400, 300)})).To(Succeed())
	})

	AfterEach(func() {
		c.Close()
		Expect(vc.Pending()).To(BeZero(), "timer leaked past Close")
	})

	It("rests away from every destination", func() {
		st := c.State()
		Expect(st.Polar.Angle).To(BeNumerically("~", 120, 1e-9))
		Expect(st.Polar.Radius).To(BeNumerically("~", 135, 1e-9))
		snap := c.Snapshot()
		Expect(snap.Control).To(Equal(snap.Handle))
		Expect(snap.NearestDistance).To(BeNumerically(">", 100))
	})

	It("snaps fully inside the snap threshold and navigates after dwell", func() {
		dispatch(c, Down(c.Snapshot().Handle, GrabHandle))
		snap := dispatch(c, Move(polarPoint(center, 30, 140)))
		Expect(c.State().Polar).To(Equal(manifold.Polar{Angle: 30, Radius: 130}))
		Expect(c.State().LastDrag.Snapped).To(BeTrue())
		Expect(snap.Nearest).To(Equal("cv"))
		Expect(snap.Phase).To(Equal(dwell.Approaching))

		vc.Advance(300 * ms)
		Expect(rec.commits).To(Equal([]string{"cv"}))
		vc.Advance(nav.DefaultTransitionDelay)
		Expect(rec.navigated).To(Equal([]string{"cv"}))
	})

	It("blends partially inside the magnetic radius", func() {
		dispatch(c, Down(c.Snapshot().Handle, GrabHandle))
		snap := dispatch(c, Move(polarPoint(center, 30, 155)))
		st := c.State()
		Expect(st.LastDrag.Snapped).To(BeFalse())
		Expect(st.LastDrag.Blend).To(BeNumerically("~", 5.0/30, 1e-9))
		Expect(st.Polar.Radius).To(BeNumerically("~", 155-25.0/6, 1e-9))
		Expect(snap.Phase).To(Equal(dwell.Idle))
	})

	It("snaps to the closest destination from the keyboard", func() {
		snap := dispatch(c, Snap())
		Expect(c.State().Polar).To(Equal(manifold.Polar{Angle: 30, Radius: 130}))
		Expect(snap.Nearest).To(Equal("cv"))
		Expect(rec.commits).To(Equal([]string{"cv"}))
	})

	It("recenters anchors on resize", func() {
		snap := dispatch(c, ResizeTo(geom.Rect{Max: geom.V(800, 600)}))
		cv, ok := c.Registry().Get("cv")
		Expect(ok).To(BeTrue())
		Expect(cv.Anchor.Dist(polarPoint(geom.V(400, 300), 30, 130))).To(BeNumerically("<", 1e-9))
		Expect(snap.Handle.Dist(polarPoint(geom.V(400, 300), 120, 135))).To(BeNumerically("<", 1e-9))
	})

	It("prevents default on touch drags", func() {
		dispatch(c, Down(c.Snapshot().Handle, GrabHandle))
		ev := TouchMove(polarPoint(center, 100, 135))
		c.Dispatch(&ev)
		Expect(ev.DefaultPrevented).To(BeTrue())
	})

	It("ignores moves without a grab", func() {
		before := c.State()
		dispatch(c, Move(polarPoint(center, 30, 130)))
		Expect(c.State()).To(Equal(before))
	})
})

var _ = Describe("New", func() {
	It("builds each variant", func() {
		for _, v := range Variants() {
			ctl, err := New(v, DefaultPathOptions(), DefaultOrbitOptions(), Deps{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ctl.Snapshot().Variant).To(Equal(v))
			ctl.Close()
		}
	})

	It("rejects unknown variants", func() {
		_, err := New("spiral", DefaultPathOptions(), DefaultOrbitOptions(), Deps{})
		Expect(err).To(MatchError(ErrUnknownVariant))
	})

	It("mounts a generated orbit set", func() {
		vc := clock.NewVirtual(time.Unix(0, 0))
		ctl, err := New(VariantOrbit, DefaultPathOptions(), DefaultOrbitOptions(), newDeps(vc, &recorder{}, nil))
		Expect(err).NotTo(HaveOccurred())
		defer ctl.Close()
		Expect(ctl.Attach(geom.Rect{Max: geom.V(800, 600)}, nil)).To(Succeed())
		Expect(ctl.Registry().Labels()).To(ConsistOf("cv", "projects"))
	})
})
