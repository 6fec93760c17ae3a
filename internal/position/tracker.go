package position

import (
	"github.com/phinze/posdeck/internal/clock"
	"github.com/phinze/posdeck/internal/geom"
	"github.com/phinze/posdeck/internal/gesture"
)

// Element reports the current bounding rectangle of a host element.
type Element interface {
	Bounds() geom.Rect
}

// ElementFunc adapts a function to Element.
type ElementFunc func() geom.Rect

// Bounds calls f.
func (f ElementFunc) Bounds() geom.Rect {
	return f()
}

func measure(e Element) geom.Rect {
	if e == nil {
		return geom.Rect{}
	}
	return e.Bounds()
}

// Tracker is the position state machine. Every state change goes through
// its commit path. A Tracker is not safe for concurrent use; it expects to
// run on the goroutine that drives its clock.
type Tracker struct {
	opts     Options
	handlers Handlers
	store    Store
	clock    clock.Scheduler

	container Element
	item      Element

	session *gesture.Session
	// ready is false while the refresh gate is closed.
	ready bool
}

// NewTracker returns a tracker with an owned store and no attached
// elements.
func NewTracker(sched clock.Scheduler, opts Options) *Tracker {
	return &Tracker{
		opts:    opts,
		store:   NewOwnedStore(),
		clock:   sched,
		session: gesture.NewSession(),
		ready:   true,
	}
}

// SetOptions replaces the tracker options.
func (t *Tracker) SetOptions(opts Options) {
	t.opts = opts
}

// Options returns the tracker options.
func (t *Tracker) Options() Options {
	return t.opts
}

// SetHandlers replaces the notification handlers.
func (t *Tracker) SetHandlers(h Handlers) {
	t.handlers = h
}

// SetStore replaces the state store. A nil store restores an owned one.
func (t *Tracker) SetStore(s Store) {
	if s == nil {
		s = NewOwnedStore()
	}
	t.store = s
}

// SetContainer sets the element whose bounds define the tracked region.
func (t *Tracker) SetContainer(e Element) {
	t.container = e
}

// SetItem sets the tracked item. A nil item measures as zero.
func (t *Tracker) SetItem(e Element) {
	t.item = e
}

// Session returns the gesture session owned by the tracker.
func (t *Tracker) Session() *gesture.Session {
	return t.session
}

// State returns a snapshot of the current state.
func (t *Tracker) State() State {
	return t.store.Read()
}

// Active reports whether the tracker is in the positioning phase.
func (t *Tracker) Active() bool {
	return t.store.Read().Active
}

// SetPosition derives a new state from the raw viewport point p.
//
// updateItem marks the pointer as engaged, enabling incremental drag.
// activate turns the tracker active. centerItem places the item at the
// center of its limits regardless of policy. Calls arriving while the
// refresh gate is closed are dropped.
func (t *Tracker) SetPosition(p geom.Point, updateItem, activate, centerItem bool) {
	o := t.opts
	if o.MinUpdateInterval > 0 && !t.ready {
		return
	}
	t.ready = false

	prev := t.store.Read()
	next := prev

	bounds := measure(t.container)
	next.ElementOffset = bounds.Offset()
	next.ElementDimensions = bounds.Scale()
	next.ItemDimensions = measure(t.item).Scale()

	local := p.Local(next.ElementOffset)
	next.ActivePosition = geom.Point{
		X: geom.Clamp(0, bounds.Width, local.X),
		Y: geom.Clamp(0, bounds.Height, local.Y),
	}

	next.PrevActivePosition = geom.Point{}
	if o.TrackPreviousPosition || o.TrackItemPosition {
		next.PrevActivePosition = prev.ActivePosition
	}

	next.PassivePosition = geom.Point{}
	if o.TrackPassivePosition {
		next.PassivePosition = local
	}

	if activate {
		next.Active = true
	}

	limits := geom.CreateAdjustedLimits(o.ItemLimits, next.ElementDimensions, next.ItemDimensions,
		o.ItemPositionLimitBySize, o.ItemPositionLimitInternal)

	if centerItem || (activate && o.CenterItemOnActivate) {
		next.ItemPosition = limits.Center()
		t.commit(prev, next, true)
		return
	}

	moved := true
	switch {
	case !o.TrackItemPosition:
		moved = false
	case o.LinkItemToActive:
		next.ItemPosition = next.ActivePosition
	case o.AlignItemOnActivePos:
		next.ItemPosition = geom.AlignItemOnPosition(next.ElementDimensions, next.ItemDimensions, next.ActivePosition)
	case activate && o.CenterItemOnActivatePos:
		next.ItemPosition = geom.CenterItemOnPosition(next.ElementDimensions, next.ItemDimensions, next.ActivePosition)
	case updateItem:
		next.ItemPosition = geom.CalculateItemPosition(prev.ItemPosition, next.PrevActivePosition,
			next.ActivePosition, o.ItemMovementMultiplier)
	default:
		moved = false
	}

	if moved {
		next.ItemPosition = geom.LimitPosition(limits, next.ItemPosition)
	}

	t.commit(prev, next, true)
}

// SetPassivePosition records the unclamped pointer position while passive
// tracking is enabled. It bypasses the refresh gate.
func (t *Tracker) SetPassivePosition(p geom.Point) {
	if !t.opts.TrackPassivePosition {
		return
	}
	prev := t.store.Read()
	next := prev
	next.PassivePosition = p.Local(measure(t.container).Offset())
	t.commit(prev, next, false)
}

// Activate makes the tracker active at p.
func (t *Tracker) Activate(p geom.Point) {
	t.SetPosition(p, false, true, false)
}

// Deactivate ends the positioning phase without touching positions.
func (t *Tracker) Deactivate() {
	prev := t.store.Read()
	next := prev
	next.Active = false
	t.commit(prev, next, false)
}

// ToggleActive activates at p when inactive and deactivates otherwise.
func (t *Tracker) ToggleActive(p geom.Point) {
	if t.Active() {
		t.Deactivate()
		return
	}
	t.Activate(p)
}

// Refresh re-measures the container, as done on attach, load and resize.
func (t *Tracker) Refresh() {
	t.SetPosition(geom.Point{}, t.opts.TrackItemPosition, false, t.opts.CenterItemOnLoad)
}

// Close cancels the pending refresh timer and reopens the gate.
func (t *Tracker) Close() {
	t.session.StopTimer(gesture.RefreshTimer)
	t.ready = true
}

func (t *Tracker) commit(prev, next State, gated bool) {
	t.store.Commit(next)

	if gated {
		t.startRefreshTimer()
	}

	if prev.Active != next.Active {
		if next.Active {
			if t.handlers.OnActivate != nil {
				t.handlers.OnActivate()
			}
		} else if t.handlers.OnDeactivate != nil {
			t.handlers.OnDeactivate()
		}
	}

	if t.handlers.OnUpdate != nil {
		t.handlers.OnUpdate(next)
	}
}

func (t *Tracker) startRefreshTimer() {
	if t.opts.MinUpdateInterval <= 0 {
		t.ready = true
		return
	}
	t.session.StartTimer(t.clock, gesture.RefreshTimer, t.opts.MinUpdateInterval, func() {
		t.ready = true
	})
}
