package gesture

import "math"

var tapTable = Table{
	{TouchStart, tapStart},
	{TouchEnd, tapEnd},
	{TouchMove, touchMove},
	{TouchCancel, touchCancel},
}

var doubleTapTable = Table{
	{TouchStart, tapStart},
	{TouchEnd, doubleTapEnd},
	{TouchMove, touchMove},
	{TouchCancel, touchCancel},
}

var longTouchTable = Table{
	{TouchStart, longTouchStart},
	{TouchEnd, longTouchEnd},
	{TouchMove, longTouchMove},
	{TouchCancel, touchCancel},
}

var touchTable = Table{
	{TouchStart, holdTouchStart},
	{TouchEnd, holdTouchEnd},
	{TouchMove, touchMove},
	{TouchCancel, touchCancel},
}

func beginTouch(c *Context) {
	c.Session.Touched = true
	c.Session.JustTouched = true
}

func endTouch(c *Context, e *Event) {
	if e.Cancelable {
		e.PreventDefault()
	}
	c.Session.Touched = false
	c.Session.JustTouched = false
}

// touchMove drags the item while active. The first move after a touch
// start only positions, it never moves the item incrementally.
func touchMove(c *Context, e *Event) {
	if !c.Target.Active() {
		return
	}
	if e.Cancelable {
		e.PreventDefault()
	}
	p, ok := firstTouch(e.Touches)
	if !ok {
		return
	}
	c.Target.SetPosition(p, c.Session.Touched && !c.Session.JustTouched, false, false)
	c.Session.JustTouched = false
}

func touchCancel(c *Context, e *Event) {
	c.Target.Deactivate()
}

func startTapTimer(c *Context) {
	s := c.Session
	c.Session.StartTimer(c.Clock, TapTimer, c.Config.TapDuration, func() {
		s.TapTimedOut = true
	})
}

func tapStart(c *Context, e *Event) {
	beginTouch(c)
	startTapTimer(c)
}

// tapEnd toggles activation when the touch ended inside the tap window.
func tapEnd(c *Context, e *Event) {
	endTouch(c, e)

	s := c.Session
	if s.TapTimedOut {
		s.TapTimedOut = false
		return
	}
	s.StopTimer(TapTimer)

	if p, ok := firstTouch(e.ChangedTouches); ok {
		c.Target.ToggleActive(p)
	}
	s.TapTimedOut = false
}

// doubleTapEnd toggles activation on the second tap ending inside the
// double tap window opened by the first one.
func doubleTapEnd(c *Context, e *Event) {
	endTouch(c, e)

	s := c.Session
	if s.TapTimedOut {
		s.TapTimedOut = false
		return
	}
	s.StopTimer(TapTimer)

	if s.Tapped && !s.DoubleTapTimedOut {
		s.StopTimer(DoubleTapTimer)
		if p, ok := firstTouch(e.ChangedTouches); ok {
			c.Target.ToggleActive(p)
		}
		s.Tapped = false
		return
	}

	s.TapTimedOut = false
	s.DoubleTapTimedOut = false
	s.Tapped = true
	s.StartTimer(c.Clock, DoubleTapTimer, c.Config.DoubleTapDuration, func() {
		s.DoubleTapTimedOut = true
	})
}

func longTouchStart(c *Context, e *Event) {
	beginTouch(c)

	s := c.Session
	s.StopTimer(LongTouchTimer)
	p, ok := firstTouch(e.Touches)
	if !ok {
		return
	}
	s.LongTouchStart = p.Sum()
	target := c.Target
	s.StartTimer(c.Clock, LongTouchTimer, c.Config.LongTouchDuration, func() {
		if s.Touched {
			target.ToggleActive(p)
		}
	})
}

func longTouchEnd(c *Context, e *Event) {
	endTouch(c, e)
	c.Session.StopTimer(LongTouchTimer)
}

// longTouchMove cancels a pending long touch once the contact moved past
// the long touch move limit.
func longTouchMove(c *Context, e *Event) {
	p, ok := firstTouch(e.Touches)
	if !ok {
		return
	}
	if math.Abs(c.Session.LongTouchStart-p.Sum()) > c.Config.LongTouchMoveLimit {
		c.Session.StopTimer(LongTouchTimer)
	}
	touchMove(c, e)
}

func holdTouchStart(c *Context, e *Event) {
	beginTouch(c)
	if p, ok := firstTouch(e.Touches); ok {
		c.Target.Activate(p)
	}
}

func holdTouchEnd(c *Context, e *Event) {
	endTouch(c, e)
	c.Target.Deactivate()
}
