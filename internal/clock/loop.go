package clock

import (
	"sync"
	"time"
)

// Loop is a wall-clock Scheduler whose callbacks are not run by the timer
// goroutines. They are queued on C and the owning event loop runs them,
// keeping all controller state on one goroutine.
type Loop struct {
	c chan func()

	mu     sync.Mutex
	nextID int
	live   map[int]func()
}

func NewLoop(buffer int) *Loop {
	return &Loop{c: make(chan func(), buffer), live: make(map[int]func())}
}

// C delivers due callbacks; the owner must call them.
func (l *Loop) C() <-chan func() { return l.c }

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

func (l *Loop) register(stop func()) (int, Cancel) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.live[id] = stop
	l.mu.Unlock()

	return id, func() {
		l.mu.Lock()
		s, ok := l.live[id]
		delete(l.live, id)
		l.mu.Unlock()
		if ok {
			s()
		}
	}
}

func (l *Loop) alive(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[id]
	return ok
}

func (l *Loop) Every(d time.Duration, fn func()) Cancel {
	tk := time.NewTicker(d)
	done := make(chan struct{})
	id, cancel := l.register(func() {
		tk.Stop()
		close(done)
	})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-tk.C:
				select {
				case l.c <- func() {
					if l.alive(id) {
						fn()
					}
				}:
				case <-done:
					return
				}
			}
		}
	}()
	return cancel
}

func (l *Loop) After(d time.Duration, fn func()) Cancel {
	stop := make(chan struct{})
	id, cancel := l.register(func() { close(stop) })
	go func() {
		tm := time.NewTimer(d)
		defer tm.Stop()
		select {
		case <-stop:
			return
		case <-tm.C:
		}
		select {
		case l.c <- func() {
			if l.take(id) {
				fn()
			}
		}:
		case <-stop:
		}
	}()
	return cancel
}

// take removes a one-shot timer that is about to fire; false means it was
// cancelled after being queued.
func (l *Loop) take(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.live[id]
	delete(l.live, id)
	return ok
}
