package gesture

import "math"

var clickTable = Table{
	{MouseDown, clickDown},
	{MouseUp, clickUp},
	{MouseMove, trackMove},
	{MouseLeave, releaseButton},
	{DragStart, preventDefault},
}

var rightClickTable = Table{
	{MouseDown, pressButton},
	{MouseUp, releaseButton},
	{ContextMenu, contextToggle},
	{MouseMove, trackMove},
	{MouseLeave, releaseButton},
	{DragStart, preventDefault},
}

var doubleClickTable = Table{
	{MouseDown, pressButton},
	{MouseUp, releaseButton},
	{MouseDoubleClick, toggle},
	{MouseMove, trackMove},
	{MouseLeave, releaseButton},
	{DragStart, preventDefault},
}

var hoverTable = Table{
	{MouseDown, pressButton},
	{MouseUp, releaseButton},
	{MouseMove, hoverMove},
	{MouseLeave, hoverLeave},
	{MouseEnter, hoverEnter},
	{DragStart, preventDefault},
}

var mouseDownTable = Table{
	{MouseDown, holdDown},
	{MouseUp, holdUp},
	{MouseMove, holdMove},
	{MouseLeave, holdLeave},
	{MouseEnter, holdEnter},
	{DragStart, preventDefault},
}

func pressButton(c *Context, e *Event) {
	c.Session.MouseDown = true
}

func releaseButton(c *Context, e *Event) {
	c.Session.MouseDown = false
}

func toggle(c *Context, e *Event) {
	c.Target.ToggleActive(e.Position)
}

// trackMove follows the pointer passively while inactive and drags the
// item while a button is held.
func trackMove(c *Context, e *Event) {
	if !c.Target.Active() {
		c.Target.SetPassivePosition(e.Position)
		return
	}
	c.Target.SetPosition(e.Position, c.Session.MouseDown, false, false)
}

func clickDown(c *Context, e *Event) {
	c.Session.MouseDown = true
	c.Session.ClickMoveStart = e.Position.Sum()
}

// clickUp toggles activation unless the pointer moved at least the click
// move limit since the press, which makes it a drag.
func clickUp(c *Context, e *Event) {
	if !c.Session.MouseDown {
		return
	}
	c.Session.MouseDown = false

	diff := math.Abs(c.Session.ClickMoveStart - e.Position.Sum())
	if diff < c.Config.ClickMoveLimit {
		c.Target.ToggleActive(e.Position)
	}
}

func contextToggle(c *Context, e *Event) {
	e.PreventDefault()
	c.Target.ToggleActive(e.Position)
}

func hoverMove(c *Context, e *Event) {
	if !c.Target.Active() {
		c.Target.Activate(e.Position)
		return
	}
	c.Target.SetPosition(e.Position, c.Session.MouseDown, false, false)
}

func hoverEnter(c *Context, e *Event) {
	c.Target.Activate(e.Position)
}

func hoverLeave(c *Context, e *Event) {
	c.Target.Deactivate()
	c.Session.MouseDown = false
}

func holdDown(c *Context, e *Event) {
	c.Target.Activate(e.Position)
}

func holdUp(c *Context, e *Event) {
	c.Target.Deactivate()
	if c.Session.MouseOutside {
		c.Window.DetachWindow()
	}
}

func holdMove(c *Context, e *Event) {
	if !c.Target.Active() {
		c.Target.SetPassivePosition(e.Position)
		return
	}
	c.Target.SetPosition(e.Position, true, false, false)
}

func holdEnter(c *Context, e *Event) {
	if c.Session.MouseOutside {
		c.Session.MouseOutside = false
		c.Window.DetachWindow()
	}
}

// holdLeave ends the activation when the pointer leaves, or keeps tracking
// it through window events when outside movement is allowed.
func holdLeave(c *Context, e *Event) {
	if !c.Target.Active() {
		return
	}
	if !c.Config.MouseDownAllowOutside {
		c.Target.Deactivate()
		return
	}
	c.Session.MouseOutside = true
	c.Window.AttachWindow(MouseUp, MouseMove)
}
