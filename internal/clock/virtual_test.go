package clock

import (
	"testing"
	"time"
)

func TestVirtual_Every(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	n := 0
	cancel := v.Every(100*time.Millisecond, func() { n++ })

	v.Advance(250 * time.Millisecond)
	if n != 2 {
		t.Errorf("expected 2 ticks, got %d", n)
	}
	v.Advance(50 * time.Millisecond)
	if n != 3 {
		t.Errorf("expected 3 ticks, got %d", n)
	}

	cancel()
	cancel()
	v.Advance(time.Second)
	if n != 3 {
		t.Errorf("ticks after cancel: %d", n)
	}
	if v.Pending() != 0 {
		t.Errorf("pending = %d", v.Pending())
	}
}

func TestVirtual_AfterOrdering(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var order []string
	v.After(300*time.Millisecond, func() { order = append(order, "b") })
	v.After(100*time.Millisecond, func() { order = append(order, "a") })
	v.After(300*time.Millisecond, func() { order = append(order, "c") })

	v.Advance(time.Second)
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v", order)
	}
	if v.Pending() != 0 {
		t.Errorf("one-shot timers left pending: %d", v.Pending())
	}
}

func TestVirtual_NowDuringCallback(t *testing.T) {
	start := time.Unix(0, 0)
	v := NewVirtual(start)
	var at time.Duration
	v.After(120*time.Millisecond, func() { at = v.Now().Sub(start) })
	v.Advance(time.Second)
	if at != 120*time.Millisecond {
		t.Errorf("callback saw now=%v", at)
	}
	if v.Now().Sub(start) != time.Second {
		t.Errorf("now after advance = %v", v.Now().Sub(start))
	}
}

func TestVirtual_CallbackSchedules(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	fired := false
	v.After(10*time.Millisecond, func() {
		v.After(10*time.Millisecond, func() { fired = true })
	})
	v.Advance(20 * time.Millisecond)
	if !fired {
		t.Error("nested timer did not fire within the same advance")
	}
}

func TestLoop_DeliversOnChannel(t *testing.T) {
	l := NewLoop(4)
	done := make(chan struct{})
	l.After(5*time.Millisecond, func() { close(done) })

	select {
	case fn := <-l.C():
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timer never delivered")
	}
	<-done
	if l.Pending() != 0 {
		t.Errorf("pending = %d", l.Pending())
	}
}

func TestLoop_CancelledAfterQueue(t *testing.T) {
	l := NewLoop(4)
	fired := false
	cancel := l.After(time.Millisecond, func() { fired = true })

	fn := <-l.C()
	cancel()
	fn()
	if fired {
		t.Error("cancelled timer ran")
	}
}
