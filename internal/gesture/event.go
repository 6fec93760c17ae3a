// Package gesture turns low level pointer and touch events into the three
// actions a position tracker understands: activate, deactivate and update
// position.
//
// Each activation method is a Table of event bindings. The handlers share a
// Session holding the short-lived flags and timers that disambiguate taps,
// double taps, long touches and drag clicks.
package gesture

import "github.com/phinze/posdeck/internal/geom"

// Type is the kind of a native event.
type Type uint8

const (
	MouseDown Type = iota + 1
	MouseUp
	MouseMove
	MouseEnter
	MouseLeave
	MouseDoubleClick
	ContextMenu
	DragStart
	TouchStart
	TouchEnd
	TouchMove
	TouchCancel
)

func (t Type) String() string {
	switch t {
	case MouseDown:
		return "mousedown"
	case MouseUp:
		return "mouseup"
	case MouseMove:
		return "mousemove"
	case MouseEnter:
		return "mouseenter"
	case MouseLeave:
		return "mouseleave"
	case MouseDoubleClick:
		return "dblclick"
	case ContextMenu:
		return "contextmenu"
	case DragStart:
		return "dragstart"
	case TouchStart:
		return "touchstart"
	case TouchEnd:
		return "touchend"
	case TouchMove:
		return "touchmove"
	case TouchCancel:
		return "touchcancel"
	default:
		return "unknown"
	}
}

// IsTouch reports whether t belongs to the touch family.
func (t Type) IsTouch() bool {
	return t >= TouchStart && t <= TouchCancel
}

// Button identifies a mouse button. Values follow the DOM numbering.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonTertiary
	ButtonSecondary
)

// Touch is a single contact point.
type Touch struct {
	ID       int
	Position geom.Point
}

// Event is a native pointer or touch event in viewport coordinates.
type Event struct {
	Type Type

	// Position and Button describe mouse events.
	Position geom.Point
	Button   Button

	// Touches lists the contacts still on the surface; ChangedTouches the
	// contacts this event is about. Only the first entry is ever used.
	Touches        []Touch
	ChangedTouches []Touch

	Cancelable bool
	// Passive is set when the event was delivered to a listener that cannot
	// cancel it. PreventDefault is then ignored.
	Passive bool

	prevented bool
}

// PreventDefault asks the host to skip the event's default action.
func (e *Event) PreventDefault() {
	if e.Passive {
		return
	}
	e.prevented = true
}

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

func firstTouch(touches []Touch) (geom.Point, bool) {
	if len(touches) == 0 {
		return geom.Point{}, false
	}
	return touches[0].Position, true
}
