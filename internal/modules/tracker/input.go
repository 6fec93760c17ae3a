package tracker

import (
	"sort"

	"github.com/phinze/posdeck/internal/geom"
	"github.com/phinze/posdeck/internal/gesture"
	"github.com/phinze/posdeck/internal/module"
)

var pointerTypes = map[module.PointerEventType]gesture.Type{
	module.PointerDown:        gesture.MouseDown,
	module.PointerUp:          gesture.MouseUp,
	module.PointerMove:        gesture.MouseMove,
	module.PointerEnter:       gesture.MouseEnter,
	module.PointerLeave:       gesture.MouseLeave,
	module.PointerDoubleClick: gesture.MouseDoubleClick,
	module.PointerContextMenu: gesture.ContextMenu,
	module.TouchStart:         gesture.TouchStart,
	module.TouchMove:          gesture.TouchMove,
	module.TouchEnd:           gesture.TouchEnd,
	module.TouchCancel:        gesture.TouchCancel,
}

var pointerButtons = map[module.PointerButton]gesture.Button{
	module.ButtonLeft:   gesture.ButtonPrimary,
	module.ButtonMiddle: gesture.ButtonTertiary,
	module.ButtonRight:  gesture.ButtonSecondary,
}

func toPoint(ev module.PointerEvent) geom.Point {
	return geom.Point{X: float64(ev.Point.X), Y: float64(ev.Point.Y)}
}

// translate builds the gesture event for ev, updating the set of contacts
// currently on the strip.
func (r *runner) translate(ev module.PointerEvent) (*gesture.Event, bool) {
	t, ok := pointerTypes[ev.Type]
	if !ok {
		return nil, false
	}
	p := toPoint(ev)
	out := &gesture.Event{
		Type:       t,
		Position:   p,
		Button:     pointerButtons[ev.Button],
		Cancelable: true,
	}
	if !t.IsTouch() {
		return out, true
	}

	switch t {
	case gesture.TouchStart, gesture.TouchMove:
		r.touches[ev.TouchID] = p
	default:
		delete(r.touches, ev.TouchID)
	}
	out.Touches = r.activeTouches()
	out.ChangedTouches = []gesture.Touch{{ID: ev.TouchID, Position: p}}
	return out, true
}

// activeTouches lists the contacts on the strip ordered by touch ID.
func (r *runner) activeTouches() []gesture.Touch {
	if len(r.touches) == 0 {
		return nil
	}
	touches := make([]gesture.Touch, 0, len(r.touches))
	for id, p := range r.touches {
		touches = append(touches, gesture.Touch{ID: id, Position: p})
	}
	sort.Slice(touches, func(i, j int) bool { return touches[i].ID < touches[j].ID })
	return touches
}
