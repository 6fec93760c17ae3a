package device

import (
	"image"
	"sync/atomic"
	"time"
)

// StripSynth turns the finished gestures reported by a touch strip into
// touch event sequences, so devices without raw touch reporting can still
// feed pointer handlers.
type StripSynth struct {
	// LongHold is how long a long tap keeps the contact down. It must
	// outlast the long touch window of whatever consumes the events.
	LongHold time.Duration
	// TapHold is how long a short tap keeps the contact down.
	TapHold time.Duration
	// SwipeSteps is the number of moves emitted between the two ends of a
	// swipe; SwipeStep separates them.
	SwipeSteps int
	SwipeStep  time.Duration

	sleep  func(time.Duration)
	lastID atomic.Int64
}

// NewStripSynth returns a synthesizer with timings suited to the default
// gesture windows.
func NewStripSynth() *StripSynth {
	return &StripSynth{
		LongHold:   650 * time.Millisecond,
		TapHold:    20 * time.Millisecond,
		SwipeSteps: 8,
		SwipeStep:  12 * time.Millisecond,
		sleep:      time.Sleep,
	}
}

// Tap emits a touch start and, after the hold for t, a touch end at p.
// It blocks for the duration of the hold.
func (s *StripSynth) Tap(t TouchStripTouchType, p image.Point, emit func(PointerEvent) error) error {
	id := int(s.lastID.Add(1))
	if err := emit(touchEvent(POINTER_TOUCH_START, id, p)); err != nil {
		return err
	}
	hold := s.TapHold
	if t == TOUCH_STRIP_TOUCH_TYPE_LONG {
		hold = s.LongHold
	}
	s.sleep(hold)
	return emit(touchEvent(POINTER_TOUCH_END, id, p))
}

// Swipe emits a touch start at origin, evenly spaced moves towards
// destination and a touch end there. It blocks until the end is emitted.
func (s *StripSynth) Swipe(origin, destination image.Point, emit func(PointerEvent) error) error {
	id := int(s.lastID.Add(1))
	if err := emit(touchEvent(POINTER_TOUCH_START, id, origin)); err != nil {
		return err
	}
	d := destination.Sub(origin)
	steps := s.SwipeSteps + 1
	for i := 1; i <= steps; i++ {
		s.sleep(s.SwipeStep)
		p := origin.Add(image.Pt(d.X*i/steps, d.Y*i/steps))
		if err := emit(touchEvent(POINTER_TOUCH_MOVE, id, p)); err != nil {
			return err
		}
	}
	s.sleep(s.SwipeStep)
	return emit(touchEvent(POINTER_TOUCH_END, id, destination))
}

func touchEvent(t PointerEventType, id int, p image.Point) PointerEvent {
	return PointerEvent{Type: t, Point: p, TouchID: id, OverStrip: true}
}
