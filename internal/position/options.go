package position

import (
	"time"

	"github.com/phinze/posdeck/internal/geom"
)

// Options configures how a Tracker derives its state.
type Options struct {
	// MinUpdateInterval drops SetPosition calls arriving sooner than this
	// after the previous accepted one. Zero disables the gate.
	MinUpdateInterval time.Duration

	TrackPassivePosition  bool
	TrackPreviousPosition bool

	// TrackItemPosition enables the item movement policies.
	TrackItemPosition bool

	// Item movement policies, evaluated in this order.
	LinkItemToActive        bool
	AlignItemOnActivePos    bool
	CenterItemOnActivatePos bool
	ItemMovementMultiplier  float64

	// CenterItemOnActivate centers the item within its limits on activation.
	CenterItemOnActivate bool
	// CenterItemOnLoad centers the item within its limits on Refresh.
	CenterItemOnLoad bool

	// ItemLimits bounds the item position. Unset bounds are NaN; a negative
	// max counts from the far edge of the container.
	ItemLimits geom.Limits
	// ItemPositionLimitBySize derives ItemLimits from the measured sizes.
	ItemPositionLimitBySize bool
	// ItemPositionLimitInternal keeps the item inside the container when
	// limiting by size; otherwise the item may overhang it.
	ItemPositionLimitInternal bool
}

// DefaultOptions returns the options a tracker uses when none are given.
func DefaultOptions() Options {
	return Options{
		MinUpdateInterval:      time.Millisecond,
		ItemMovementMultiplier: 1,
		ItemLimits:             geom.Unbounded(),
	}
}

// Handlers receive the tracker's notifications. Any of them may be nil.
type Handlers struct {
	// OnUpdate receives a snapshot after every commit.
	OnUpdate func(State)
	// OnActivate and OnDeactivate fire once per transition of State.Active,
	// after the commit and before OnUpdate.
	OnActivate   func()
	OnDeactivate func()
}
