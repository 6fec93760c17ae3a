package gesture

import "fmt"

// MouseMethod selects how mouse input activates the tracker.
type MouseMethod uint8

const (
	ClickActivation MouseMethod = iota
	RightClickActivation
	DoubleClickActivation
	HoverActivation
	MouseDownActivation
	numMouseMethods
)

// TouchMethod selects how touch input activates the tracker.
type TouchMethod uint8

const (
	TapActivation TouchMethod = iota
	DoubleTapActivation
	LongTouchActivation
	TouchActivation
	numTouchMethods
)

var mouseMethods = [numMouseMethods]struct {
	name  string
	table Table
}{
	ClickActivation:       {"click", clickTable},
	RightClickActivation:  {"rightClick", rightClickTable},
	DoubleClickActivation: {"doubleClick", doubleClickTable},
	HoverActivation:       {"hover", hoverTable},
	MouseDownActivation:   {"mouseDown", mouseDownTable},
}

var touchMethods = [numTouchMethods]struct {
	name  string
	table Table
}{
	TapActivation:       {"tap", tapTable},
	DoubleTapActivation: {"doubleTap", doubleTapTable},
	LongTouchActivation: {"longTouch", longTouchTable},
	TouchActivation:     {"touch", touchTable},
}

// Table returns the bindings implementing m.
func (m MouseMethod) Table() Table {
	if m >= numMouseMethods {
		return nil
	}
	return mouseMethods[m].table
}

func (m MouseMethod) String() string {
	if m >= numMouseMethods {
		return fmt.Sprintf("MouseMethod(%d)", m)
	}
	return mouseMethods[m].name
}

// Next returns the method following m, wrapping around.
func (m MouseMethod) Next() MouseMethod {
	return (m + 1) % numMouseMethods
}

// Table returns the bindings implementing m.
func (m TouchMethod) Table() Table {
	if m >= numTouchMethods {
		return nil
	}
	return touchMethods[m].table
}

func (m TouchMethod) String() string {
	if m >= numTouchMethods {
		return fmt.Sprintf("TouchMethod(%d)", m)
	}
	return touchMethods[m].name
}

// Next returns the method following m, wrapping around.
func (m TouchMethod) Next() TouchMethod {
	return (m + 1) % numTouchMethods
}

// MouseMethods lists every mouse activation method.
func MouseMethods() []MouseMethod {
	ms := make([]MouseMethod, numMouseMethods)
	for i := range ms {
		ms[i] = MouseMethod(i)
	}
	return ms
}

// TouchMethods lists every touch activation method.
func TouchMethods() []TouchMethod {
	ms := make([]TouchMethod, numTouchMethods)
	for i := range ms {
		ms[i] = TouchMethod(i)
	}
	return ms
}

// ParseMouseMethod returns the mouse method with the given name.
func ParseMouseMethod(name string) (MouseMethod, error) {
	for i, m := range mouseMethods {
		if m.name == name {
			return MouseMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mouse activation method %q", name)
}

// ParseTouchMethod returns the touch method with the given name.
func ParseTouchMethod(name string) (TouchMethod, error) {
	for i, m := range touchMethods {
		if m.name == name {
			return TouchMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown touch activation method %q", name)
}
