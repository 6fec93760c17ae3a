package module

import (
	"image"
	"time"
)

// DialEventType indicates the type of dial interaction.
type DialEventType uint8

const (
	// DialRotate indicates the dial was rotated.
	DialRotate DialEventType = iota + 1
	// DialPress indicates the dial was pressed down.
	DialPress
	// DialRelease indicates the dial was released.
	DialRelease
)

// DialEvent represents an interaction with a rotary dial.
type DialEvent struct {
	// Type indicates what kind of dial interaction occurred.
	Type DialEventType

	// Delta is the rotation amount (positive = clockwise, negative = counter-clockwise).
	// Only meaningful for DialRotate events.
	Delta int8

	// Duration is how long the dial was held before release.
	// Only meaningful for DialRelease events.
	Duration time.Duration
}

// KeyEvent represents an interaction with a physical key.
type KeyEvent struct {
	// Pressed is true when the key is pressed down, false when released.
	Pressed bool

	// Duration is how long the key was held before release.
	// Only meaningful when Pressed is false.
	Duration time.Duration
}

// PointerEventType indicates the kind of pointer interaction.
type PointerEventType uint8

const (
	// PointerDown indicates a mouse button was pressed.
	PointerDown PointerEventType = iota + 1
	// PointerUp indicates a mouse button was released.
	PointerUp
	// PointerMove indicates the mouse moved.
	PointerMove
	// PointerEnter indicates the mouse entered the module's strip region.
	PointerEnter
	// PointerLeave indicates the mouse left the module's strip region.
	PointerLeave
	// PointerDoubleClick indicates a double click.
	PointerDoubleClick
	// PointerContextMenu indicates a context menu request (right click).
	PointerContextMenu
	// TouchStart indicates a contact was placed on the strip.
	TouchStart
	// TouchMove indicates a contact moved.
	TouchMove
	// TouchEnd indicates a contact was lifted.
	TouchEnd
	// TouchCancel indicates a contact was interrupted.
	TouchCancel
)

// IsTouch returns true for the touch event types.
func (t PointerEventType) IsTouch() bool {
	return t >= TouchStart && t <= TouchCancel
}

// PointerButton identifies the mouse button of a PointerDown or PointerUp.
type PointerButton uint8

const (
	ButtonLeft PointerButton = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent represents a raw mouse or touch interaction.
type PointerEvent struct {
	// Type indicates what kind of pointer interaction occurred.
	Type PointerEventType

	// Point is the location in device window coordinates.
	// The module's strip region is Resources.StripBounds in the same space.
	Point image.Point

	// Button is the mouse button for PointerDown and PointerUp.
	Button PointerButton

	// TouchID identifies the contact of a touch event.
	TouchID int

	// InRegion is false for events that happened outside the module's strip
	// region, such as a release after dragging off the strip.
	InRegion bool
}
