package tracker

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/phinze/posdeck/internal/config"
	"github.com/phinze/posdeck/internal/device"
	"github.com/phinze/posdeck/internal/geom"
	"github.com/phinze/posdeck/internal/gesture"
	"github.com/phinze/posdeck/internal/module"
	"github.com/phinze/posdeck/internal/position"
)

// fakeDevice implements the parts of device.Device the module touches.
type fakeDevice struct {
	device.Device

	mu      sync.Mutex
	cursors []string
}

func (f *fakeDevice) GetKeyImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, 72, 72), nil
}

func (f *fakeDevice) SetStripCursor(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, name)
}

func (f *fakeDevice) seenCursors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cursors...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	m           *Module
	dev         *fakeDevice
	clock       *fakeClock
	invalidated atomic.Int32
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.MinUpdateMs = 0

	h := &harness{
		dev:   &fakeDevice{},
		clock: &fakeClock{now: time.Unix(1000, 0)},
	}
	h.m = New(h.dev, cfg)
	h.m.now = h.clock.Now

	res := module.Resources{
		Keys: []module.KeyID{
			module.Key1, module.Key2, module.Key3, module.Key4,
			module.Key5, module.Key6, module.Key7, module.Key8,
		},
		Dials:       []module.DialID{module.Dial1},
		StripRect:   image.Rect(0, 0, 400, 100),
		StripOrigin: image.Pt(0, 500),
		Invalidate:  func() { h.invalidated.Add(1) },
	}
	if err := h.m.Init(context.Background(), res); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.m.Stop() })
	return h
}

// flush waits until every queued command and due timer has run.
func (h *harness) flush(t *testing.T) {
	t.Helper()
	done := make(chan struct{})
	h.m.events <- func(*runner) { close(done) }
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine goroutine did not respond")
	}
}

func (h *harness) pointer(t *testing.T, typ module.PointerEventType, x, y int) {
	t.Helper()
	if err := h.m.HandlePointer(module.PointerEvent{
		Type:     typ,
		Point:    image.Pt(x, y),
		TouchID:  1,
		InRegion: true,
	}); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) key(t *testing.T, id module.KeyID) {
	t.Helper()
	if err := h.m.HandleKey(id, module.KeyEvent{Pressed: true}); err != nil {
		t.Fatal(err)
	}
	if err := h.m.HandleKey(id, module.KeyEvent{Pressed: false}); err != nil {
		t.Fatal(err)
	}
}

func TestInitCentersItem(t *testing.T) {
	h := newHarness(t, nil)
	h.flush(t)

	snap := h.m.snapshot()
	if snap.State.Active {
		t.Error("active after init")
	}
	if diff := cmp.Diff(geom.Point{X: 170, Y: 20}, snap.State.ItemPosition); diff != "" {
		t.Errorf("item position mismatch (-want +got):\n%s", diff)
	}
	if snap.Mouse != gesture.ClickActivation || snap.Touch != gesture.TapActivation {
		t.Errorf("methods = %s/%s", snap.Mouse, snap.Touch)
	}
	if h.invalidated.Load() == 0 {
		t.Error("init did not invalidate")
	}
}

func TestClickActivatesAtStripPosition(t *testing.T) {
	cfg := config.Default()
	cfg.ActiveCursor = "grabbing"
	h := newHarness(t, cfg)

	h.pointer(t, module.PointerEnter, 100, 550)
	h.pointer(t, module.PointerDown, 100, 550)
	h.pointer(t, module.PointerUp, 100, 550)
	h.flush(t)

	st := h.m.snapshot().State
	if !st.Active {
		t.Fatal("click did not activate")
	}
	if diff := cmp.Diff(geom.Point{X: 100, Y: 50}, st.ActivePosition); diff != "" {
		t.Errorf("active position mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"crosshair", "grabbing"}, h.dev.seenCursors()); diff != "" {
		t.Errorf("cursor mismatch (-want +got):\n%s", diff)
	}

	// A second click toggles off
	h.pointer(t, module.PointerDown, 120, 550)
	h.pointer(t, module.PointerUp, 120, 550)
	h.flush(t)
	if h.m.snapshot().State.Active {
		t.Error("second click did not deactivate")
	}
}

func TestReleaseOutsideRegion(t *testing.T) {
	cfg := config.Default()
	cfg.MouseActivation = "mouseDown"
	cfg.MouseDownAllowOutside = true
	h := newHarness(t, cfg)

	h.pointer(t, module.PointerDown, 100, 550)
	h.pointer(t, module.PointerLeave, 100, 610)
	h.flush(t)
	if !h.m.snapshot().State.Active {
		t.Fatal("leaving with outside movement allowed deactivated")
	}

	// Outside moves go to the window listeners and are clamped
	h.m.HandlePointer(module.PointerEvent{Type: module.PointerMove, Point: image.Pt(900, 650)})
	h.flush(t)
	if diff := cmp.Diff(geom.Point{X: 400, Y: 100}, h.m.snapshot().State.ActivePosition); diff != "" {
		t.Errorf("active position mismatch (-want +got):\n%s", diff)
	}

	h.m.HandlePointer(module.PointerEvent{Type: module.PointerUp, Point: image.Pt(900, 650)})
	h.flush(t)
	if h.m.snapshot().State.Active {
		t.Error("release outside did not deactivate")
	}
}

func TestTapThroughStrip(t *testing.T) {
	h := newHarness(t, nil)

	h.pointer(t, module.TouchStart, 300, 520)
	h.clock.Advance(50 * time.Millisecond)
	h.pointer(t, module.TouchEnd, 300, 520)
	h.flush(t)

	st := h.m.snapshot().State
	if !st.Active {
		t.Fatal("tap did not activate")
	}
	if diff := cmp.Diff(geom.Point{X: 300, Y: 20}, st.ActivePosition); diff != "" {
		t.Errorf("active position mismatch (-want +got):\n%s", diff)
	}
}

func TestLongTouchFiresFromTicks(t *testing.T) {
	h := newHarness(t, nil)
	h.key(t, module.Key8)
	h.flush(t)
	if got := h.m.snapshot().Touch; got != gesture.LongTouchActivation {
		t.Fatalf("touch method = %s", got)
	}

	h.pointer(t, module.TouchStart, 200, 550)
	h.flush(t)
	if h.m.snapshot().State.Active {
		t.Fatal("active before the hold elapsed")
	}

	h.clock.Advance(500 * time.Millisecond)
	h.flush(t)
	if !h.m.snapshot().State.Active {
		t.Error("long touch did not activate")
	}
}

func TestMethodKeys(t *testing.T) {
	h := newHarness(t, nil)

	h.key(t, module.Key4)
	h.key(t, module.Key7)
	h.flush(t)
	snap := h.m.snapshot()
	if snap.Mouse != gesture.HoverActivation || snap.Touch != gesture.DoubleTapActivation {
		t.Errorf("methods = %s/%s", snap.Mouse, snap.Touch)
	}

	// The last key alternates between long touch and touch
	for _, want := range []gesture.TouchMethod{
		gesture.LongTouchActivation,
		gesture.TouchActivation,
		gesture.LongTouchActivation,
	} {
		h.key(t, module.Key8)
		h.flush(t)
		if got := h.m.snapshot().Touch; got != want {
			t.Errorf("touch method = %s, want %s", got, want)
		}
	}
}

func TestDialMultiplier(t *testing.T) {
	h := newHarness(t, nil)

	rotate := func(delta int8) float64 {
		t.Helper()
		if err := h.m.HandleDial(module.Dial1, module.DialEvent{Type: module.DialRotate, Delta: delta}); err != nil {
			t.Fatal(err)
		}
		h.flush(t)
		return h.m.snapshot().Multiplier
	}

	if got := rotate(2); got != 1.5 {
		t.Errorf("multiplier = %v, want 1.5", got)
	}
	if got := rotate(100); got != maxMultiplier {
		t.Errorf("multiplier = %v, want %v", got, float64(maxMultiplier))
	}
	if got := rotate(-100); got != minMultiplier {
		t.Errorf("multiplier = %v, want %v", got, minMultiplier)
	}

	if err := h.m.HandleDial(module.Dial1, module.DialEvent{Type: module.DialPress}); err != nil {
		t.Fatal(err)
	}
	h.flush(t)
	if got := h.m.snapshot().Multiplier; got != 1 {
		t.Errorf("multiplier after press = %v", got)
	}

	// Other dials are ignored
	if err := h.m.HandleDial(module.Dial3, module.DialEvent{Type: module.DialRotate, Delta: 1}); err != nil {
		t.Fatal(err)
	}
	h.flush(t)
	if got := h.m.snapshot().Multiplier; got != 1 {
		t.Errorf("multiplier after other dial = %v", got)
	}
}

func TestDialResizesKnob(t *testing.T) {
	h := newHarness(t, nil)

	rotate := func(delta int8) position.State {
		t.Helper()
		if err := h.m.HandleDial(module.Dial2, module.DialEvent{Type: module.DialRotate, Delta: delta}); err != nil {
			t.Fatal(err)
		}
		h.flush(t)
		return h.m.snapshot().State
	}

	st := rotate(-5)
	if diff := cmp.Diff(geom.Scale{Width: 40, Height: 40}, st.ItemDimensions); diff != "" {
		t.Errorf("item size mismatch (-want +got):\n%s", diff)
	}
	// Recentered for the new size
	if diff := cmp.Diff(geom.Point{X: 180, Y: 30}, st.ItemPosition); diff != "" {
		t.Errorf("item position mismatch (-want +got):\n%s", diff)
	}

	if got := rotate(-100).ItemDimensions.Width; got != minKnobSize {
		t.Errorf("knob width = %v, want %v", got, float64(minKnobSize))
	}
	if got := rotate(100).ItemDimensions.Width; got != 100 {
		t.Errorf("knob width = %v, want the strip height", got)
	}
}

func TestTranslateTracksContacts(t *testing.T) {
	r := &runner{touches: make(map[int]geom.Point)}

	start := func(id, x int) *gesture.Event {
		ev, ok := r.translate(module.PointerEvent{Type: module.TouchStart, TouchID: id, Point: image.Pt(x, 0)})
		if !ok {
			t.Fatal("touch start not translated")
		}
		return ev
	}
	start(2, 20)
	ev := start(1, 10)
	if len(ev.Touches) != 2 || ev.Touches[0].ID != 1 {
		t.Errorf("touches = %+v", ev.Touches)
	}

	ev, _ = r.translate(module.PointerEvent{Type: module.TouchEnd, TouchID: 1, Point: image.Pt(11, 0)})
	want := []gesture.Touch{{ID: 2, Position: geom.Point{X: 20}}}
	if diff := cmp.Diff(want, ev.Touches); diff != "" {
		t.Errorf("touches mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]gesture.Touch{{ID: 1, Position: geom.Point{X: 11}}}, ev.ChangedTouches); diff != "" {
		t.Errorf("changed touches mismatch (-want +got):\n%s", diff)
	}

	ev, _ = r.translate(module.PointerEvent{Type: module.PointerDown, Button: module.ButtonRight, Point: image.Pt(3, 4)})
	if ev.Type != gesture.MouseDown || ev.Button != gesture.ButtonSecondary || !ev.Cancelable {
		t.Errorf("mouse event = %+v", ev)
	}
	if _, ok := r.translate(module.PointerEvent{}); ok {
		t.Error("zero event translated")
	}
}

func TestRender(t *testing.T) {
	h := newHarness(t, nil)
	h.flush(t)

	strip := h.m.RenderStrip()
	if strip == nil || strip.Bounds() != image.Rect(0, 0, 400, 100) {
		t.Fatalf("strip bounds = %v", strip)
	}

	keys := h.m.RenderKeys()
	if len(keys) != 8 {
		t.Errorf("rendered %d keys", len(keys))
	}
	// Selected keys use a different background
	if keys[module.Key1].At(1, 1) == keys[module.Key2].At(1, 1) {
		t.Error("selected mouse key not highlighted")
	}
}

func TestStopIgnoresLateEvents(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.m.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := h.m.HandlePointer(module.PointerEvent{Type: module.PointerDown}); err != nil {
		t.Fatal(err)
	}
	if len(h.m.events) != 0 {
		t.Error("event queued after stop")
	}
}
