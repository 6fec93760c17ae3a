package coordinator

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/phinze/posdeck/internal/device"
	"github.com/phinze/posdeck/internal/module"
)

var origin = image.Pt(20, 500)

// fakeDevice records images and exposes the registered handlers.
type fakeDevice struct {
	pointer    device.PointerHandler
	keys       map[device.KeyID]device.KeyHandler
	strip      image.Image
	keyImages  map[device.KeyID]image.Image
	dialRotate map[device.DialID]device.DialRotateHandler
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		keys:       make(map[device.KeyID]device.KeyHandler),
		keyImages:  make(map[device.KeyID]image.Image),
		dialRotate: make(map[device.DialID]device.DialRotateHandler),
	}
}

func (f *fakeDevice) Open() error { return nil }
func (f *fakeDevice) Close() error { return nil }
func (f *fakeDevice) IsOpen() bool { return true }
func (f *fakeDevice) GetModelName() string { return "fake" }
func (f *fakeDevice) GetKeyCount() byte { return 8 }
func (f *fakeDevice) GetDialCount() byte { return 4 }
func (f *fakeDevice) GetTouchStripSupported() bool { return true }
func (f *fakeDevice) GetKeyImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, 72, 72), nil
}
func (f *fakeDevice) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, 800, 100), nil
}
func (f *fakeDevice) SetBrightness(perc byte) error { return nil }
func (f *fakeDevice) SetKeyImage(key device.KeyID, img image.Image) error {
	f.keyImages[key] = img
	return nil
}
func (f *fakeDevice) SetTouchStripImage(img image.Image) error {
	f.strip = img
	return nil
}
func (f *fakeDevice) ClearKey(key device.KeyID) error { return nil }
func (f *fakeDevice) ForEachKey(cb func(device.KeyID) error) error { return nil }
func (f *fakeDevice) ForEachDial(cb func(device.DialID) error) error { return nil }
func (f *fakeDevice) AddKeyHandler(key device.KeyID, fn device.KeyHandler) error {
	f.keys[key] = fn
	return nil
}
func (f *fakeDevice) AddDialRotateHandler(dial device.DialID, fn device.DialRotateHandler) error {
	f.dialRotate[dial] = fn
	return nil
}
func (f *fakeDevice) AddDialSwitchHandler(dial device.DialID, fn device.DialSwitchHandler) error {
	return nil
}
func (f *fakeDevice) GetTouchStripOrigin() image.Point { return origin }
func (f *fakeDevice) AddPointerHandler(fn device.PointerHandler) error {
	f.pointer = fn
	return nil
}
func (f *fakeDevice) Listen(errCh chan error) error { return nil }

func (f *fakeDevice) send(t *testing.T, ev device.PointerEvent) {
	t.Helper()
	if err := f.pointer(f, ev); err != nil {
		t.Fatal(err)
	}
}

type seen struct {
	Type     module.PointerEventType
	InRegion bool
}

// recordingModule records the pointer events it receives.
type recordingModule struct {
	module.BaseModule
	events []seen
	dials  []module.DialEvent
	fill   color.Color
}

func newRecordingModule(id string, fill color.Color) *recordingModule {
	return &recordingModule{BaseModule: module.NewBaseModule(id), fill: fill}
}

func (m *recordingModule) HandlePointer(ev module.PointerEvent) error {
	m.events = append(m.events, seen{ev.Type, ev.InRegion})
	return nil
}

func (m *recordingModule) HandleDial(id module.DialID, ev module.DialEvent) error {
	m.dials = append(m.dials, ev)
	return nil
}

func (m *recordingModule) RenderStrip() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, m.fill)
		}
	}
	return img
}

func (m *recordingModule) take() []seen {
	events := m.events
	m.events = nil
	return events
}

func setup(t *testing.T) (*Coordinator, *fakeDevice, *recordingModule, *recordingModule) {
	t.Helper()
	dev := newFakeDevice()
	c := New(dev)
	left := newRecordingModule("left", color.RGBA{255, 0, 0, 255})
	right := newRecordingModule("right", color.RGBA{0, 0, 255, 255})
	c.RegisterModule(left, module.Resources{StripRect: image.Rect(0, 0, 400, 100), Dials: []module.DialID{module.Dial1}})
	c.RegisterModule(right, module.Resources{StripRect: image.Rect(400, 0, 800, 100)})
	if err := c.init(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Stop() })
	return c, dev, left, right
}

func TestMouseRouting(t *testing.T) {
	_, dev, left, right := setup(t)

	dev.send(t, device.PointerEvent{Type: device.POINTER_ENTER, Point: image.Pt(120, 550), OverStrip: true})
	dev.send(t, device.PointerEvent{Type: device.POINTER_MOVE, Point: image.Pt(121, 550), OverStrip: true})
	dev.send(t, device.PointerEvent{Type: device.POINTER_DOWN, Point: image.Pt(121, 550), OverStrip: true})

	want := []seen{
		{module.PointerEnter, true},
		{module.PointerMove, true},
		{module.PointerDown, true},
	}
	if diff := cmp.Diff(want, left.take()); diff != "" {
		t.Errorf("left events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]seen{{module.PointerMove, false}}, right.take()); diff != "" {
		t.Errorf("right events mismatch (-want +got):\n%s", diff)
	}

	// Crossing into the right half
	dev.send(t, device.PointerEvent{Type: device.POINTER_MOVE, Point: image.Pt(520, 550), OverStrip: true})
	if diff := cmp.Diff([]seen{{module.PointerLeave, false}, {module.PointerMove, false}}, left.take()); diff != "" {
		t.Errorf("left events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]seen{{module.PointerEnter, true}, {module.PointerMove, true}}, right.take()); diff != "" {
		t.Errorf("right events mismatch (-want +got):\n%s", diff)
	}

	// Leaving the strip, then releasing outside
	dev.send(t, device.PointerEvent{Type: device.POINTER_LEAVE, Point: image.Pt(520, 620)})
	dev.send(t, device.PointerEvent{Type: device.POINTER_UP, Point: image.Pt(520, 700)})
	if diff := cmp.Diff([]seen{{module.PointerLeave, false}, {module.PointerUp, false}}, right.take()); diff != "" {
		t.Errorf("right events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]seen{{module.PointerUp, false}}, left.take()); diff != "" {
		t.Errorf("left events mismatch (-want +got):\n%s", diff)
	}

	// Clicks outside the strip reach nobody
	dev.send(t, device.PointerEvent{Type: device.POINTER_DOWN, Point: image.Pt(5, 5)})
	if len(left.take())+len(right.take()) != 0 {
		t.Error("click outside the strip was routed")
	}
}

func TestTouchRouting(t *testing.T) {
	_, dev, left, right := setup(t)

	dev.send(t, device.PointerEvent{Type: device.POINTER_TOUCH_START, TouchID: 3, Point: image.Pt(100, 520), OverStrip: true})
	dev.send(t, device.PointerEvent{Type: device.POINTER_TOUCH_MOVE, TouchID: 3, Point: image.Pt(600, 520), OverStrip: true})
	dev.send(t, device.PointerEvent{Type: device.POINTER_TOUCH_END, TouchID: 3, Point: image.Pt(600, 520), OverStrip: true})
	dev.send(t, device.PointerEvent{Type: device.POINTER_TOUCH_MOVE, TouchID: 3, Point: image.Pt(100, 520), OverStrip: true})

	want := []seen{
		{module.TouchStart, true},
		{module.TouchMove, false},
		{module.TouchEnd, false},
	}
	if diff := cmp.Diff(want, left.take()); diff != "" {
		t.Errorf("left events mismatch (-want +got):\n%s", diff)
	}
	if got := right.take(); len(got) != 0 {
		t.Errorf("right received %v", got)
	}

	// Touches starting off the strip are dropped
	dev.send(t, device.PointerEvent{Type: device.POINTER_TOUCH_START, TouchID: 4, Point: image.Pt(100, 50)})
	dev.send(t, device.PointerEvent{Type: device.POINTER_TOUCH_END, TouchID: 4, Point: image.Pt(100, 520), OverStrip: true})
	if len(left.take())+len(right.take()) != 0 {
		t.Error("off-strip touch was routed")
	}
}

func TestDialRouting(t *testing.T) {
	_, dev, left, _ := setup(t)
	if _, ok := dev.dialRotate[device.DIAL_2]; ok {
		t.Error("handler registered for an unowned dial")
	}
	if err := dev.dialRotate[device.DIAL_1](dev, nil, -2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]module.DialEvent{{Type: module.DialRotate, Delta: -2}}, left.dials); diff != "" {
		t.Errorf("dial events mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderStripComposite(t *testing.T) {
	c, dev, _, _ := setup(t)
	c.renderStrip()

	img := dev.strip
	if img == nil {
		t.Fatal("no strip image set")
	}
	if r, _, _, _ := img.At(10, 10).RGBA(); r>>8 != 255 {
		t.Errorf("left region not drawn: %v", img.At(10, 10))
	}
	if _, _, b, _ := img.At(790, 10).RGBA(); b>>8 != 255 {
		t.Errorf("right region not drawn: %v", img.At(790, 10))
	}
}

func TestInvalidate(t *testing.T) {
	c, _, left, _ := setup(t)
	if left.Resources().StripOrigin != origin {
		t.Errorf("strip origin = %v", left.Resources().StripOrigin)
	}
	left.Invalidate()
	if !c.dirty.Load() {
		t.Error("invalidate did not mark the coordinator dirty")
	}
}

func TestRenderLoopStopsOnCancel(t *testing.T) {
	c, _, _, _ := setup(t)
	c.wg.Add(1)
	go c.renderLoop()
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("render loop did not stop")
	}
}
