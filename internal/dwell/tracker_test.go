package dwell

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gesturenav/internal/clock"
)

const ms = time.Millisecond

var _ = Describe("Tracker", func() {
	var (
		vc      *clock.Virtual
		tr      *Tracker
		commits []string
	)

	hold := func(label string) State {
		return tr.Apply(Observe{Nearest: label, Distance: 0, Threshold: 10})
	}
	leave := func() State {
		return tr.Apply(Observe{Nearest: "start", Distance: 50, Threshold: 10})
	}

	BeforeEach(func() {
		vc = clock.NewVirtual(time.Unix(0, 0))
		commits = nil
		tr = NewTracker(DefaultConfig(), vc, nil)
		tr.OnCommit = func(label string) { commits = append(commits, label) }
	})

	AfterEach(func() {
		tr.Close()
		Expect(vc.Pending()).To(BeZero(), "timer leaked past Close")
	})

	It("accumulates one tick per interval while held", func() {
		tr = NewTracker(Config{Tick: 100 * ms, Dwell: 10 * time.Second}, vc, nil)
		hold("start")
		for n := 1; n <= 7; n++ {
			vc.Advance(100 * ms)
			hold("start")
			Expect(tr.State().Accumulated).To(Equal(time.Duration(n) * 100 * ms))
		}
		leave()
		Expect(tr.State().Accumulated).To(BeZero())
		Expect(tr.State().Phase).To(Equal(Idle))
		Expect(tr.Running()).To(BeFalse())
	})

	It("commits on the third tick for a 250ms dwell", func() {
		hold("start")
		vc.Advance(200 * ms)
		Expect(commits).To(BeEmpty())
		Expect(tr.Progress()).To(BeNumerically("~", 0.8, 1e-9))

		vc.Advance(100 * ms)
		Expect(commits).To(Equal([]string{"start"}))
		Expect(tr.State().Phase).To(Equal(Committed))
		Expect(tr.Running()).To(BeFalse())
	})

	It("commits exactly once when held past the dwell time", func() {
		hold("start")
		for i := 0; i < 15; i++ {
			vc.Advance(50 * ms)
			hold("start")
		}
		Expect(commits).To(HaveLen(1))
	})

	It("restarts the dwell when the nearest target changes", func() {
		hold("start")
		vc.Advance(200 * ms)
		hold("end")
		Expect(tr.State().Accumulated).To(BeZero())
		vc.Advance(200 * ms)
		Expect(commits).To(BeEmpty())
		vc.Advance(100 * ms)
		Expect(commits).To(Equal([]string{"end"}))
	})

	It("stays committed until reset", func() {
		hold("start")
		vc.Advance(300 * ms)
		leave()
		hold("start")
		vc.Advance(time.Second)
		Expect(commits).To(HaveLen(1))
		Expect(tr.State().Phase).To(Equal(Committed))

		tr.Apply(Reset{})
		Expect(tr.State().Phase).To(Equal(Idle))
		hold("start")
		vc.Advance(300 * ms)
		Expect(commits).To(HaveLen(2))
	})

	It("commits immediately on a forced snap and ignores repeats", func() {
		hold("start")
		vc.Advance(100 * ms)
		tr.Apply(Force{Nearest: "start"})
		tr.Apply(Force{Nearest: "start"})
		Expect(commits).To(Equal([]string{"start"}))
		Expect(tr.Running()).To(BeFalse())
	})

	It("never leaves idle without targets", func() {
		tr.Apply(Observe{})
		vc.Advance(time.Second)
		Expect(tr.State().Phase).To(Equal(Idle))
		Expect(commits).To(BeEmpty())
	})

	It("cancels the timer on Close", func() {
		hold("start")
		Expect(vc.Pending()).To(Equal(1))
		tr.Close()
		Expect(vc.Pending()).To(BeZero())
		vc.Advance(time.Second)
		Expect(commits).To(BeEmpty())
	})
})
