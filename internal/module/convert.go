package module

import "github.com/phinze/posdeck/internal/device"

// ToDevice converts a module KeyID to the device KeyID.
func (k KeyID) ToDevice() device.KeyID {
	return device.KeyID(k)
}

// ToDevice converts a module DialID to the device DialID.
func (d DialID) ToDevice() device.DialID {
	return device.DialID(d)
}

var pointerTypes = map[device.PointerEventType]PointerEventType{
	device.POINTER_DOWN:         PointerDown,
	device.POINTER_UP:           PointerUp,
	device.POINTER_MOVE:         PointerMove,
	device.POINTER_ENTER:        PointerEnter,
	device.POINTER_LEAVE:        PointerLeave,
	device.POINTER_DOUBLE_CLICK: PointerDoubleClick,
	device.POINTER_CONTEXT_MENU: PointerContextMenu,
	device.POINTER_TOUCH_START:  TouchStart,
	device.POINTER_TOUCH_MOVE:   TouchMove,
	device.POINTER_TOUCH_END:    TouchEnd,
	device.POINTER_TOUCH_CANCEL: TouchCancel,
}

// PointerEventFromDevice creates a PointerEvent from a raw device event.
// It returns false for event types modules do not handle.
func PointerEventFromDevice(ev device.PointerEvent) (PointerEvent, bool) {
	t, ok := pointerTypes[ev.Type]
	if !ok {
		return PointerEvent{}, false
	}

	var button PointerButton
	switch ev.Button {
	case device.POINTER_BUTTON_MIDDLE:
		button = ButtonMiddle
	case device.POINTER_BUTTON_RIGHT:
		button = ButtonRight
	default:
		button = ButtonLeft
	}

	return PointerEvent{
		Type:     t,
		Point:    ev.Point,
		Button:   button,
		TouchID:  ev.TouchID,
		InRegion: ev.OverStrip,
	}, true
}
