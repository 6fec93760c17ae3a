package device

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type recordedStep struct {
	Type  PointerEventType
	Point image.Point
	Slept time.Duration
}

func newTestSynth() (*StripSynth, *[]recordedStep, func(PointerEvent) error) {
	var steps []recordedStep
	var slept time.Duration
	s := NewStripSynth()
	s.sleep = func(d time.Duration) { slept += d }
	emit := func(ev PointerEvent) error {
		if !ev.OverStrip || ev.TouchID == 0 {
			return errors.New("unexpected event")
		}
		steps = append(steps, recordedStep{ev.Type, ev.Point, slept})
		return nil
	}
	return s, &steps, emit
}

func TestSynthShortTap(t *testing.T) {
	s, steps, emit := newTestSynth()
	if err := s.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(100, 40), emit); err != nil {
		t.Fatal(err)
	}
	want := []recordedStep{
		{POINTER_TOUCH_START, image.Pt(100, 40), 0},
		{POINTER_TOUCH_END, image.Pt(100, 40), s.TapHold},
	}
	if diff := cmp.Diff(want, *steps); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthLongTap(t *testing.T) {
	s, steps, emit := newTestSynth()
	s.LongHold = time.Second
	if err := s.Tap(TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(5, 5), emit); err != nil {
		t.Fatal(err)
	}
	if got := (*steps)[1].Slept; got != time.Second {
		t.Errorf("long tap held for %v", got)
	}
}

func TestSynthSwipe(t *testing.T) {
	s, steps, emit := newTestSynth()
	s.SwipeSteps = 3
	if err := s.Swipe(image.Pt(0, 50), image.Pt(400, 50), emit); err != nil {
		t.Fatal(err)
	}
	var got []image.Point
	var types []PointerEventType
	for _, st := range *steps {
		got = append(got, st.Point)
		types = append(types, st.Type)
	}
	wantPoints := []image.Point{{0, 50}, {100, 50}, {200, 50}, {300, 50}, {400, 50}, {400, 50}}
	if diff := cmp.Diff(wantPoints, got); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
	wantTypes := []PointerEventType{
		POINTER_TOUCH_START, POINTER_TOUCH_MOVE, POINTER_TOUCH_MOVE, POINTER_TOUCH_MOVE, POINTER_TOUCH_MOVE, POINTER_TOUCH_END,
	}
	if diff := cmp.Diff(wantTypes, types); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestSynthStopsOnError(t *testing.T) {
	s := NewStripSynth()
	s.sleep = func(time.Duration) {}
	calls := 0
	boom := errors.New("boom")
	err := s.Swipe(image.Pt(0, 0), image.Pt(10, 0), func(PointerEvent) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("err = %v after %d calls", err, calls)
	}
}

func TestSynthTouchIDsDiffer(t *testing.T) {
	s := NewStripSynth()
	s.sleep = func(time.Duration) {}
	var ids []int
	emit := func(ev PointerEvent) error {
		ids = append(ids, ev.TouchID)
		return nil
	}
	s.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(1, 1), emit)
	s.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(1, 1), emit)
	if ids[0] != ids[1] || ids[1] == ids[2] {
		t.Errorf("touch ids = %v", ids)
	}
}
