package gesture

import (
	"time"

	"github.com/phinze/posdeck/internal/clock"
	"github.com/phinze/posdeck/internal/geom"
)

// Positioner receives the actions recognized by the classifiers. Points
// are in viewport coordinates.
type Positioner interface {
	Active() bool
	SetPosition(p geom.Point, updateItem, activate, centerItem bool)
	SetPassivePosition(p geom.Point)
	Activate(p geom.Point)
	Deactivate()
	ToggleActive(p geom.Point)
}

// Window lets a classifier temporarily listen for events outside the
// container.
type Window interface {
	// AttachWindow routes window events of the given types to the handlers
	// bound for them in the active mouse table.
	AttachWindow(types ...Type)
	// DetachWindow stops routing window events. It is a no-op when nothing
	// is attached.
	DetachWindow()
}

// Config holds the thresholds used to disambiguate gestures.
type Config struct {
	TapDuration       time.Duration
	DoubleTapDuration time.Duration
	LongTouchDuration time.Duration

	// Movement limits compare the change of X+Y between start and end.
	ClickMoveLimit     float64
	LongTouchMoveLimit float64

	// MouseDownAllowOutside keeps a held mouseDown activation alive while
	// the pointer is outside the container.
	MouseDownAllowOutside bool
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		TapDuration:        180 * time.Millisecond,
		DoubleTapDuration:  400 * time.Millisecond,
		LongTouchDuration:  500 * time.Millisecond,
		ClickMoveLimit:     5,
		LongTouchMoveLimit: 5,
	}
}

// Context is what a handler operates on.
type Context struct {
	Target  Positioner
	Session *Session
	Config  Config
	Clock   clock.Scheduler
	Window  Window
}

// Handler handles one native event.
type Handler func(c *Context, e *Event)

// Binding ties a handler to an event type.
type Binding struct {
	Type   Type
	Handle Handler
}

// Table is the set of bindings implementing one activation method.
type Table []Binding

// Handlers returns the handlers bound to typ, in table order.
func (t Table) Handlers(typ Type) []Handler {
	var hs []Handler
	for _, b := range t {
		if b.Type == typ {
			hs = append(hs, b.Handle)
		}
	}
	return hs
}

// Types returns the distinct event types the table listens for.
func (t Table) Types() []Type {
	var types []Type
	seen := make(map[Type]bool)
	for _, b := range t {
		if !seen[b.Type] {
			seen[b.Type] = true
			types = append(types, b.Type)
		}
	}
	return types
}

func preventDefault(c *Context, e *Event) {
	e.PreventDefault()
}
