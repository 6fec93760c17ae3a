package gesture

import (
	"time"

	"github.com/phinze/posdeck/internal/clock"
)

// TimerKind names the deferred callbacks a session can have pending.
// A session holds at most one timer of each kind.
type TimerKind uint8

const (
	TapTimer TimerKind = iota
	DoubleTapTimer
	LongTouchTimer
	RefreshTimer
	numTimerKinds
)

// Session is the mutable gesture state shared by every handler of the
// active tables.
type Session struct {
	// MouseDown is true while a button is held inside the container.
	MouseDown bool
	// MouseOutside is true once the pointer has left the container during
	// a held mouseDown activation.
	MouseOutside bool

	Touched bool
	// JustTouched is consumed by the first move after a touch start so
	// that it does not contribute to incremental drag.
	JustTouched bool

	Tapped            bool
	TapTimedOut       bool
	DoubleTapTimedOut bool

	// Movement references compared against the configured limits.
	ClickMoveStart float64
	LongTouchStart float64

	timers [numTimerKinds]clock.Timer
}

// NewSession returns a session in its initial state.
func NewSession() *Session {
	return &Session{MouseOutside: true}
}

// StartTimer schedules f after d, replacing any pending timer of the
// same kind.
func (s *Session) StartTimer(sched clock.Scheduler, kind TimerKind, d time.Duration, f func()) {
	s.StopTimer(kind)
	s.timers[kind] = sched.AfterFunc(d, func() {
		s.timers[kind] = nil
		f()
	})
}

// StopTimer cancels the pending timer of the given kind. It reports
// whether a timer was canceled.
func (s *Session) StopTimer(kind TimerKind) bool {
	t := s.timers[kind]
	if t == nil {
		return false
	}
	s.timers[kind] = nil
	return t.Stop()
}

// TimerPending reports whether a timer of the given kind is scheduled.
func (s *Session) TimerPending(kind TimerKind) bool {
	return s.timers[kind] != nil
}

// ResetTouch cancels the touch timers and clears the touch flags, leaving
// mouse state and the refresh gate alone.
func (s *Session) ResetTouch() {
	s.StopTimer(TapTimer)
	s.StopTimer(DoubleTapTimer)
	s.StopTimer(LongTouchTimer)
	s.Touched = false
	s.JustTouched = false
	s.Tapped = false
	s.TapTimedOut = false
	s.DoubleTapTimedOut = false
	s.LongTouchStart = 0
}

// Reset cancels every timer and returns the session to its initial state.
func (s *Session) Reset() {
	for k := TimerKind(0); k < numTimerKinds; k++ {
		s.StopTimer(k)
	}
	*s = Session{MouseOutside: true}
}
