// Package engine binds a position tracker to the gesture registry. It owns
// the listener sets a host feeds native events into and keeps them in step
// with the configured activation methods.
package engine

import (
	"github.com/phinze/posdeck/internal/clock"
	"github.com/phinze/posdeck/internal/geom"
	"github.com/phinze/posdeck/internal/gesture"
	"github.com/phinze/posdeck/internal/position"
)

// DefaultCursor is the cursor shown over the container.
const DefaultCursor = "crosshair"

// Options configures an Engine.
type Options struct {
	Position position.Options
	Gesture  gesture.Config

	MouseMethod gesture.MouseMethod
	TouchMethod gesture.TouchMethod

	// Cursor is shown over the container, ActiveCursor while active. An empty
	// ActiveCursor falls back to Cursor.
	Cursor       string
	ActiveCursor string
}

// DefaultOptions returns click and tap activation with default thresholds.
func DefaultOptions() Options {
	return Options{
		Position:    position.DefaultOptions(),
		Gesture:     gesture.DefaultConfig(),
		MouseMethod: gesture.ClickActivation,
		TouchMethod: gesture.TapActivation,
		Cursor:      DefaultCursor,
	}
}

// Probe reports whether the host can register touch listeners that are
// allowed to cancel events. It may panic; a panicking probe counts as
// unsupported.
type Probe func() bool

// listeners maps an event type to the handlers bound for it.
type listeners map[gesture.Type][]gesture.Handler

func (l listeners) bind(t gesture.Table) {
	for _, b := range t {
		l[b.Type] = append(l[b.Type], b.Handle)
	}
}

func (l listeners) unbind(types []gesture.Type) {
	for _, typ := range types {
		delete(l, typ)
	}
}

// Engine routes native events to the active classifiers. Like the
// Tracker it wraps, it is not safe for concurrent use.
type Engine struct {
	opts    Options
	tracker *position.Tracker
	ctx     *gesture.Context
	store   position.Store

	container listeners
	window    listeners

	attached        bool
	supportsPassive bool
}

// New returns a detached engine scheduling its timers on sched.
func New(sched clock.Scheduler, opts Options) *Engine {
	e := &Engine{
		opts:      opts,
		tracker:   position.NewTracker(sched, opts.Position),
		container: make(listeners),
		window:    make(listeners),
	}
	e.ctx = &gesture.Context{
		Target:  e.tracker,
		Session: e.tracker.Session(),
		Config:  opts.Gesture,
		Clock:   sched,
		Window:  e,
	}
	return e
}

// Tracker returns the underlying position tracker.
func (e *Engine) Tracker() *position.Tracker {
	return e.tracker
}

// Options returns the engine options.
func (e *Engine) Options() Options {
	return e.opts
}

// SetHandlers replaces the tracker notification handlers.
func (e *Engine) SetHandlers(h position.Handlers) {
	e.tracker.SetHandlers(h)
}

// SetStore makes the tracker read and commit state through s. A nil store
// gives the tracker its own.
func (e *Engine) SetStore(s position.Store) {
	e.store = s
	e.tracker.SetStore(s)
}

// State returns the current position state.
func (e *Engine) State() position.State {
	return e.tracker.State()
}

// Attached reports whether the engine is receiving events.
func (e *Engine) Attached() bool {
	return e.attached
}

// SupportsPassive reports the result of the last capability probe.
func (e *Engine) SupportsPassive() bool {
	return e.supportsPassive
}

// Attach binds the listeners of the configured methods and measures the
// container. probe may be nil.
func (e *Engine) Attach(container, item position.Element, probe Probe) {
	if e.attached {
		e.Detach()
	}
	e.supportsPassive = detectPassive(probe)
	e.tracker.SetContainer(container)
	e.tracker.SetItem(item)

	e.container.bind(e.opts.MouseMethod.Table())
	e.container.bind(e.opts.TouchMethod.Table())
	e.attached = true

	e.tracker.Refresh()
}

// Detach removes every listener, cancels pending timers and discards the
// owned state.
func (e *Engine) Detach() {
	if !e.attached {
		return
	}
	e.attached = false
	e.container = make(listeners)
	e.DetachWindow()
	e.tracker.Close()
	e.ctx.Session.Reset()
	e.tracker.SetStore(e.store)
	e.tracker.SetContainer(nil)
	e.tracker.SetItem(nil)
}

// SetItem attaches or replaces the tracked item and re-measures.
func (e *Engine) SetItem(item position.Element) {
	e.tracker.SetItem(item)
	e.OnLoadRefresh()
}

// OnLoadRefresh re-measures after the host finished loading content.
func (e *Engine) OnLoadRefresh() {
	if !e.attached {
		return
	}
	e.tracker.Refresh()
}

// Resize re-measures after the container changed size.
func (e *Engine) Resize() {
	e.OnLoadRefresh()
}

// SetOptions applies new options. Changed activation methods are rebound
// before SetOptions returns.
func (e *Engine) SetOptions(opts Options) {
	prev := e.opts
	e.opts = opts
	e.tracker.SetOptions(opts.Position)
	e.ctx.Config = opts.Gesture

	e.opts.MouseMethod = prev.MouseMethod
	e.opts.TouchMethod = prev.TouchMethod
	e.SetMouseMethod(opts.MouseMethod)
	e.SetTouchMethod(opts.TouchMethod)
}

// SetMouseMethod switches the mouse activation method.
func (e *Engine) SetMouseMethod(m gesture.MouseMethod) {
	if m == e.opts.MouseMethod {
		return
	}
	prev := e.opts.MouseMethod
	e.opts.MouseMethod = m
	if !e.attached {
		return
	}
	e.DetachWindow()
	e.ctx.Session.MouseDown = false
	e.container.unbind(prev.Table().Types())
	e.container.bind(m.Table())
}

// SetTouchMethod switches the touch activation method.
func (e *Engine) SetTouchMethod(m gesture.TouchMethod) {
	if m == e.opts.TouchMethod {
		return
	}
	prev := e.opts.TouchMethod
	e.opts.TouchMethod = m
	if !e.attached {
		return
	}
	e.ctx.Session.ResetTouch()
	e.container.unbind(prev.Table().Types())
	e.container.bind(m.Table())
}

// MouseMethod returns the active mouse activation method.
func (e *Engine) MouseMethod() gesture.MouseMethod {
	return e.opts.MouseMethod
}

// TouchMethod returns the active touch activation method.
func (e *Engine) TouchMethod() gesture.TouchMethod {
	return e.opts.TouchMethod
}

// Dispatch delivers an event that occurred over the container. It reports
// whether a handler prevented the event's default action.
func (e *Engine) Dispatch(ev *gesture.Event) bool {
	return e.deliver(e.container, ev)
}

// DispatchWindow delivers an event that occurred anywhere in the host
// window. Only types a classifier attached are handled.
func (e *Engine) DispatchWindow(ev *gesture.Event) bool {
	return e.deliver(e.window, ev)
}

func (e *Engine) deliver(l listeners, ev *gesture.Event) bool {
	if !e.attached {
		return false
	}
	if ev.Type.IsTouch() && e.supportsPassive {
		ev.Passive = false
	}
	for _, h := range l[ev.Type] {
		h(e.ctx, ev)
	}
	return ev.DefaultPrevented()
}

// AttachWindow implements gesture.Window with the handlers of the active
// mouse table.
func (e *Engine) AttachWindow(types ...gesture.Type) {
	e.window = make(listeners)
	table := e.opts.MouseMethod.Table()
	for _, typ := range types {
		if hs := table.Handlers(typ); len(hs) > 0 {
			e.window[typ] = hs
		}
	}
}

// DetachWindow implements gesture.Window.
func (e *Engine) DetachWindow() {
	if len(e.window) == 0 {
		return
	}
	e.window = make(listeners)
}

// WindowAttached reports whether window events are being handled.
func (e *Engine) WindowAttached() bool {
	return len(e.window) > 0
}

// Listening returns the event types bound on the container.
func (e *Engine) Listening() []gesture.Type {
	var types []gesture.Type
	for typ := gesture.MouseDown; typ <= gesture.TouchCancel; typ++ {
		if len(e.container[typ]) > 0 {
			types = append(types, typ)
		}
	}
	return types
}

// Cursor returns the cursor the host should show over the container.
func (e *Engine) Cursor() string {
	if e.tracker.Active() && e.opts.ActiveCursor != "" {
		return e.opts.ActiveCursor
	}
	return e.opts.Cursor
}

// Activate activates the tracker at p, for hosts driving it from keys or
// dials.
func (e *Engine) Activate(p geom.Point) {
	e.tracker.Activate(p)
}

// Deactivate ends the positioning phase.
func (e *Engine) Deactivate() {
	e.tracker.Deactivate()
}

// CenterItem moves the item to the center of its limits.
func (e *Engine) CenterItem() {
	st := e.tracker.State()
	p := st.ActivePosition.Add(geom.Point{X: st.ElementOffset.Left, Y: st.ElementOffset.Top})
	e.tracker.SetPosition(p, false, false, true)
}

func detectPassive(probe Probe) (ok bool) {
	if probe == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return probe()
}
