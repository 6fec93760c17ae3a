// Package tracker provides a Stream Deck module that tracks the pointer over
// its touch strip region and draws the resulting active and item positions.
package tracker

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"github.com/phinze/posdeck/internal/clock"
	"github.com/phinze/posdeck/internal/config"
	"github.com/phinze/posdeck/internal/device"
	"github.com/phinze/posdeck/internal/engine"
	"github.com/phinze/posdeck/internal/geom"
	"github.com/phinze/posdeck/internal/gesture"
	"github.com/phinze/posdeck/internal/module"
	"github.com/phinze/posdeck/internal/position"
	"golang.org/x/image/font"
)

const (
	// tickInterval is how often pending gesture timers are checked.
	tickInterval = 5 * time.Millisecond

	multiplierStep = 0.25
	minMultiplier  = 0.25
	maxMultiplier  = 4

	knobStep    = 4
	minKnobSize = 20
)

// Keys select the activation methods.
var mouseKeys = map[module.KeyID]gesture.MouseMethod{
	module.Key1: gesture.ClickActivation,
	module.Key2: gesture.RightClickActivation,
	module.Key3: gesture.DoubleClickActivation,
	module.Key4: gesture.HoverActivation,
	module.Key5: gesture.MouseDownActivation,
}

var touchKeys = map[module.KeyID]gesture.TouchMethod{
	module.Key6: gesture.TapActivation,
	module.Key7: gesture.DoubleTapActivation,
	module.Key8: gesture.LongTouchActivation,
}

// Module implements the position tracker module.
type Module struct {
	module.BaseModule

	device device.Device
	appCfg *config.Config

	// Commands run in order on the engine goroutine.
	events  chan func(*runner)
	done    chan struct{}
	started bool
	now     func() time.Time

	// Published for rendering
	mu   sync.RWMutex
	snap snapshot

	// Fonts
	labelFace font.Face
	valueFace font.Face
}

// snapshot is what the render path reads.
type snapshot struct {
	State      position.State
	Mouse      gesture.MouseMethod
	Touch      gesture.TouchMethod
	Multiplier float64
	Cursor     string
}

// runner is the state owned by the engine goroutine.
type runner struct {
	m       *Module
	loop    *clock.Loop
	engine  *engine.Engine
	touches map[int]geom.Point
	cursor  string

	itemSize  geom.Scale
	stripSize geom.Scale
}

// New creates a new tracker module.
func New(dev device.Device, appCfg *config.Config) *Module {
	return &Module{
		BaseModule: module.NewBaseModule("tracker"),
		device:     dev,
		appCfg:     appCfg,
		events:     make(chan func(*runner), 256),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return "tracker"
}

// Init initializes the module and starts the engine goroutine.
func (m *Module) Init(ctx context.Context, res module.Resources) error {
	if err := m.BaseModule.Init(ctx, res); err != nil {
		return err
	}

	appCfg := m.appCfg
	if appCfg == nil {
		appCfg = config.Default()
	}
	opts, err := appCfg.EngineOptions()
	if err != nil {
		return err
	}

	if err := m.initFonts(); err != nil {
		return err
	}

	bounds := res.StripBounds()
	r := &runner{
		m:         m,
		loop:      clock.NewLoop(m.now()),
		touches:   make(map[int]geom.Point),
		itemSize:  appCfg.ItemScale(),
		stripSize: geom.Scale{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())},
	}
	r.engine = engine.New(r.loop, opts)
	r.engine.SetHandlers(position.Handlers{
		OnUpdate: func(position.State) { r.publish() },
		OnActivate: func() {
			log.Printf("Tracker activated at %v", r.engine.State().ActivePosition)
		},
		OnDeactivate: func() {
			log.Println("Tracker deactivated")
		},
	})

	container := position.ElementFunc(func() geom.Rect {
		return geom.Rect{
			Left:   float64(bounds.Min.X),
			Top:    float64(bounds.Min.Y),
			Width:  float64(bounds.Dx()),
			Height: float64(bounds.Dy()),
		}
	})
	r.engine.Attach(container, position.ElementFunc(r.itemBounds), nil)
	r.publish()

	m.started = true
	go m.run(m.Context(), r)

	log.Printf("Tracker module initialized (mouse=%s, touch=%s, strip=%v)",
		opts.MouseMethod, opts.TouchMethod, bounds)
	return nil
}

// Stop shuts down the module and waits for the engine goroutine.
func (m *Module) Stop() error {
	err := m.BaseModule.Stop()
	if m.started {
		<-m.done
	}
	return err
}

// run owns the engine. Every engine call happens here.
func (m *Module) run(ctx context.Context, r *runner) {
	defer close(m.done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.engine.Detach()
			r.loop.Stop()
			return
		case cmd := <-m.events:
			r.loop.Tick(m.now())
			cmd(r)
		case <-ticker.C:
			r.loop.Tick(m.now())
		}
	}
}

// enqueue hands cmd to the engine goroutine. Commands are dropped when the
// module has stopped or the queue is full.
func (m *Module) enqueue(cmd func(*runner)) {
	ctx := m.Context()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	select {
	case m.events <- cmd:
	default:
		log.Println("Tracker event queue full, dropping event")
	}
}

// publish copies the engine state for rendering.
func (r *runner) publish() {
	e := r.engine
	snap := snapshot{
		State:      e.State(),
		Mouse:      e.MouseMethod(),
		Touch:      e.TouchMethod(),
		Multiplier: e.Options().Position.ItemMovementMultiplier,
		Cursor:     e.Cursor(),
	}

	r.m.mu.Lock()
	r.m.snap = snap
	r.m.mu.Unlock()

	if snap.Cursor != r.cursor {
		r.cursor = snap.Cursor
		if cs, ok := r.m.device.(device.CursorSetter); ok {
			cs.SetStripCursor(snap.Cursor)
		}
	}
	r.m.Invalidate()
}

func (m *Module) snapshot() snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// RenderKeys returns images for the method selection keys.
func (m *Module) RenderKeys() map[module.KeyID]image.Image {
	rect, err := m.device.GetKeyImageRectangle()
	if err != nil {
		return nil
	}
	snap := m.snapshot()

	keys := make(map[module.KeyID]image.Image)
	for _, key := range m.Resources().Keys {
		if method, ok := mouseKeys[key]; ok {
			keys[key] = m.renderMethodKey(rect, method.String(), mouseIcon, snap.Mouse == method)
		}
		if method, ok := touchKeys[key]; ok {
			selected := snap.Touch == method
			name := method.String()
			if key == module.Key8 && snap.Touch == gesture.TouchActivation {
				selected = true
				name = snap.Touch.String()
			}
			keys[key] = m.renderMethodKey(rect, name, touchIcon, selected)
		}
	}
	return keys
}

// RenderStrip returns the module's strip region image.
func (m *Module) RenderStrip() image.Image {
	rect := m.Resources().StripRect
	if rect.Empty() {
		return nil
	}
	return m.renderStrip(image.Rect(0, 0, rect.Dx(), rect.Dy()), m.snapshot())
}

// HandleKey switches activation methods on key press.
func (m *Module) HandleKey(id module.KeyID, event module.KeyEvent) error {
	if !event.Pressed {
		return nil
	}

	if method, ok := mouseKeys[id]; ok {
		m.enqueue(func(r *runner) {
			r.engine.SetMouseMethod(method)
			log.Printf("Mouse activation: %s", method)
			r.publish()
		})
		return nil
	}

	if method, ok := touchKeys[id]; ok {
		m.enqueue(func(r *runner) {
			next := method
			// The last key alternates between the two hold methods.
			if id == module.Key8 && r.engine.TouchMethod() == gesture.LongTouchActivation {
				next = gesture.TouchActivation
			}
			r.engine.SetTouchMethod(next)
			log.Printf("Touch activation: %s", next)
			r.publish()
		})
	}
	return nil
}

// HandleDial adjusts the item movement multiplier on the first dial and
// the knob size on the second.
func (m *Module) HandleDial(id module.DialID, event module.DialEvent) error {
	switch id {
	case module.Dial1:
		m.handleMultiplierDial(event)
	case module.Dial2:
		if event.Type == module.DialRotate {
			delta := float64(event.Delta) * knobStep
			m.enqueue(func(r *runner) {
				r.resizeKnob(delta)
			})
		}
	}
	return nil
}

func (m *Module) handleMultiplierDial(event module.DialEvent) {
	switch event.Type {
	case module.DialRotate:
		delta := float64(event.Delta) * multiplierStep
		m.enqueue(func(r *runner) {
			opts := r.engine.Options()
			opts.Position.ItemMovementMultiplier = geom.Clamp(minMultiplier, maxMultiplier,
				opts.Position.ItemMovementMultiplier+delta)
			r.engine.SetOptions(opts)
			r.publish()
		})
	case module.DialPress:
		m.enqueue(func(r *runner) {
			opts := r.engine.Options()
			opts.Position.ItemMovementMultiplier = 1
			r.engine.SetOptions(opts)
			r.engine.CenterItem()
			r.publish()
		})
	}
}

func (r *runner) itemBounds() geom.Rect {
	return geom.Rect{Width: r.itemSize.Width, Height: r.itemSize.Height}
}

// resizeKnob grows or shrinks the square knob, keeping it within the strip
// height.
func (r *runner) resizeKnob(delta float64) {
	size := geom.Clamp(minKnobSize, r.stripSize.Height, r.itemSize.Width+delta)
	if size == r.itemSize.Width && size == r.itemSize.Height {
		return
	}
	r.itemSize = geom.Scale{Width: size, Height: size}
	r.engine.SetItem(position.ElementFunc(r.itemBounds))
	log.Printf("Knob size: %.0f", size)
	r.publish()
}

// HandlePointer feeds a pointer event to the engine.
func (m *Module) HandlePointer(event module.PointerEvent) error {
	m.enqueue(func(r *runner) {
		r.dispatch(event)
	})
	return nil
}

func (r *runner) dispatch(event module.PointerEvent) {
	ev, ok := r.translate(event)
	if !ok {
		return
	}
	switch {
	case event.InRegion || event.Type.IsTouch():
		r.engine.Dispatch(ev)
	case event.Type == module.PointerMove || event.Type == module.PointerUp:
		r.engine.DispatchWindow(ev)
	}
}
