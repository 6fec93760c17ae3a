// Package clock provides deferred callbacks that run on the caller's own
// event loop instead of on separate goroutines.
//
// A Loop never fires anything by itself. The owner calls Tick (or Advance
// in tests) from the goroutine that handles input, and every due callback
// runs there, in deadline order.
package clock

import (
	"sort"
	"time"
)

// Scheduler schedules deferred callbacks.
type Scheduler interface {
	// Now reports the scheduler's current time.
	Now() time.Time
	// AfterFunc arranges for f to run once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; stopping a fired or stopped timer is a no-op.
	Stop() bool
}

// Loop is a Scheduler driven by explicit calls to Tick. It is not safe for
// concurrent use.
type Loop struct {
	now     time.Time
	seq     uint64
	pending []*task
}

type task struct {
	loop *Loop
	at   time.Time
	seq  uint64
	fn   func()
	done bool
}

// NewLoop returns a Loop whose clock starts at start.
func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

// Now returns the time of the most recent Tick.
func (l *Loop) Now() time.Time {
	return l.now
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	l.seq++
	t := &task{loop: l, at: l.now.Add(d), seq: l.seq, fn: f}
	l.pending = append(l.pending, t)
	return t
}

// Pending returns the number of callbacks waiting to run.
func (l *Loop) Pending() int {
	return len(l.pending)
}

// Tick moves the clock to now and runs every callback that is due.
// Callbacks scheduled by a running callback are eligible in the same Tick
// when their deadline has already passed. The clock never goes backwards.
func (l *Loop) Tick(now time.Time) int {
	if now.After(l.now) {
		l.now = now
	}
	ran := 0
	for {
		t := l.next()
		if t == nil {
			return ran
		}
		t.done = true
		t.fn()
		ran++
	}
}

// Advance moves the clock forward by d and runs due callbacks.
func (l *Loop) Advance(d time.Duration) int {
	return l.Tick(l.now.Add(d))
}

// Stop cancels every pending callback.
func (l *Loop) Stop() {
	for _, t := range l.pending {
		t.done = true
	}
	l.pending = nil
}

func (l *Loop) next() *task {
	if len(l.pending) == 0 {
		return nil
	}
	sort.SliceStable(l.pending, func(i, j int) bool {
		a, b := l.pending[i], l.pending[j]
		if a.at.Equal(b.at) {
			return a.seq < b.seq
		}
		return a.at.Before(b.at)
	})
	t := l.pending[0]
	if t.at.After(l.now) {
		return nil
	}
	l.pending = l.pending[1:]
	return t
}

func (t *task) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	l := t.loop
	for i, p := range l.pending {
		if p == t {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			break
		}
	}
	return true
}
