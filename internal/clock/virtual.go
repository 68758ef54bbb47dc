package clock

import (
	"sort"
	"time"
)

type virtualTimer struct {
	id     int
	due    time.Time
	period time.Duration
	fn     func()
}

// Virtual is a deterministic Scheduler. Time only moves when Advance is
// called; due timers fire in deadline order (ties in creation order).
type Virtual struct {
	now    time.Time
	nextID int
	timers map[int]*virtualTimer
}

func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start, timers: make(map[int]*virtualTimer)}
}

func (v *Virtual) Now() time.Time { return v.now }

func (v *Virtual) Pending() int { return len(v.timers) }

func (v *Virtual) add(d time.Duration, period time.Duration, fn func()) Cancel {
	v.nextID++
	id := v.nextID
	v.timers[id] = &virtualTimer{id: id, due: v.now.Add(d), period: period, fn: fn}
	return func() { delete(v.timers, id) }
}

func (v *Virtual) Every(d time.Duration, fn func()) Cancel {
	if d <= 0 {
		d = time.Millisecond
	}
	return v.add(d, d, fn)
}

func (v *Virtual) After(d time.Duration, fn func()) Cancel {
	return v.add(d, 0, fn)
}

// Advance moves time forward by d, firing every timer that comes due on
// the way. Callbacks may schedule or cancel timers.
func (v *Virtual) Advance(d time.Duration) {
	end := v.now.Add(d)
	for {
		t := v.nextDue(end)
		if t == nil {
			break
		}
		v.now = t.due
		if t.period > 0 {
			t.due = t.due.Add(t.period)
		} else {
			delete(v.timers, t.id)
		}
		t.fn()
	}
	v.now = end
}

func (v *Virtual) nextDue(end time.Time) *virtualTimer {
	due := make([]*virtualTimer, 0, len(v.timers))
	for _, t := range v.timers {
		if !t.due.After(end) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}
