// Package device defines the abstraction layer for Stream Deck hardware.
package device

import (
	"image"
	"time"
)

// Device is the interface that abstracts Stream Deck hardware.
// Both the real hardware adapter and the emulator implement this interface.
type Device interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	GetKeyCount() byte
	GetDialCount() byte
	GetTouchStripSupported() bool
	GetKeyImageRectangle() (image.Rectangle, error)
	GetTouchStripImageRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetKeyImage(key KeyID, img image.Image) error
	SetTouchStripImage(img image.Image) error
	ClearKey(key KeyID) error

	// Iteration
	ForEachKey(cb func(KeyID) error) error
	ForEachDial(cb func(DialID) error) error

	// Event handlers
	AddKeyHandler(key KeyID, fn KeyHandler) error
	AddDialRotateHandler(dial DialID, fn DialRotateHandler) error
	AddDialSwitchHandler(dial DialID, fn DialSwitchHandler) error

	// Pointer input. Devices whose strip only reports finished gestures
	// synthesize touch sequences from them.
	GetTouchStripOrigin() image.Point
	AddPointerHandler(fn PointerHandler) error

	// Event loop
	Listen(errCh chan error) error
}

// KeyID identifies a physical key on the Stream Deck.
type KeyID byte

// Key IDs for Stream Deck Plus (8 keys)
const (
	KEY_1 KeyID = iota + 1
	KEY_2
	KEY_3
	KEY_4
	KEY_5
	KEY_6
	KEY_7
	KEY_8
)

// DialID identifies a rotary dial on the Stream Deck Plus.
type DialID byte

// Dial IDs for Stream Deck Plus (4 dials)
const (
	DIAL_1 DialID = iota + 1
	DIAL_2
	DIAL_3
	DIAL_4
)

// TouchStripTouchType represents the type of touch on the strip.
type TouchStripTouchType byte

// Touch strip touch types
const (
	TOUCH_STRIP_TOUCH_TYPE_SHORT TouchStripTouchType = iota + 1
	TOUCH_STRIP_TOUCH_TYPE_LONG
)

// CursorSetter is implemented by devices that show a mouse cursor over the strip.
type CursorSetter interface {
	SetStripCursor(name string)
}

// PointerEventType is the kind of a raw pointer or touch event.
type PointerEventType byte

// Pointer event types
const (
	POINTER_DOWN PointerEventType = iota + 1
	POINTER_UP
	POINTER_MOVE
	POINTER_ENTER
	POINTER_LEAVE
	POINTER_DOUBLE_CLICK
	POINTER_CONTEXT_MENU
	POINTER_TOUCH_START
	POINTER_TOUCH_MOVE
	POINTER_TOUCH_END
	POINTER_TOUCH_CANCEL
)

// PointerButton identifies a mouse button.
type PointerButton byte

// Pointer buttons
const (
	POINTER_BUTTON_LEFT PointerButton = iota
	POINTER_BUTTON_MIDDLE
	POINTER_BUTTON_RIGHT
)

// PointerEvent is a raw pointer or touch event. Point is in device window
// coordinates; the strip starts at GetTouchStripOrigin.
type PointerEvent struct {
	Type    PointerEventType
	Point   image.Point
	Button  PointerButton
	TouchID int

	// OverStrip is false for events that happened elsewhere in the window.
	OverStrip bool
}

// Key represents a physical key and provides methods for handlers.
type Key interface {
	GetID() KeyID
	WaitForRelease() time.Duration
}

// Dial represents a rotary dial and provides methods for handlers.
type Dial interface {
	GetID() DialID
	WaitForRelease() time.Duration
}

// Handler types - note these use the local Device interface
type (
	// KeyHandler is called when a key is pressed.
	KeyHandler func(d Device, k Key) error

	// DialSwitchHandler is called when a dial is pressed.
	DialSwitchHandler func(d Device, di Dial) error

	// DialRotateHandler is called when a dial is rotated.
	DialRotateHandler func(d Device, di Dial, delta int8) error

	// TouchStripTouchHandler is called when the hardware touch strip is touched.
	TouchStripTouchHandler func(d Device, t TouchStripTouchType, p image.Point) error

	// TouchStripSwipeHandler is called when the hardware touch strip is swiped.
	TouchStripSwipeHandler func(d Device, origin, destination image.Point) error

	// PointerHandler is called for every raw pointer event.
	PointerHandler func(d Device, ev PointerEvent) error
)
