// Package position owns the position state of a tracked container and
// derives the active, passive and item positions from raw pointer input.
package position

import "github.com/phinze/posdeck/internal/geom"

// State is the single record describing the tracker. It contains no
// references, so a copy is a full snapshot.
type State struct {
	// Active is true while the item is being positioned.
	Active bool

	// ActivePosition is the pointer position clamped to the container.
	ActivePosition geom.Point

	// PrevActivePosition is the active position before the latest update.
	// Only kept when previous-position or item tracking is enabled.
	PrevActivePosition geom.Point

	// PassivePosition is the unclamped pointer position, kept only when
	// passive tracking is enabled.
	PassivePosition geom.Point

	ElementOffset     geom.Offset
	ElementDimensions geom.Scale

	ItemPosition   geom.Point
	ItemDimensions geom.Scale
}

// Store holds the canonical State. The tracker reads the current state from
// it before every update and hands it every committed state.
type Store interface {
	Read() State
	Commit(State)
}

// OwnedStore keeps the state inside the tracker.
type OwnedStore struct {
	state State
}

// NewOwnedStore returns a store holding the zero State.
func NewOwnedStore() *OwnedStore {
	return &OwnedStore{}
}

// Read returns the stored state.
func (s *OwnedStore) Read() State {
	return s.state
}

// Commit replaces the stored state.
func (s *OwnedStore) Commit(st State) {
	s.state = st
}

// ExternalStore delegates to a record owned by the host. Nothing is kept
// locally: reads always come from the host and commits always go to it.
type ExternalStore struct {
	read   func() State
	commit func(State)
}

// NewExternalStore returns a store backed by the host's read and commit
// functions. A nil commit discards committed states.
func NewExternalStore(read func() State, commit func(State)) *ExternalStore {
	return &ExternalStore{read: read, commit: commit}
}

// Read returns the host's current state.
func (s *ExternalStore) Read() State {
	if s.read == nil {
		return State{}
	}
	return s.read()
}

// Commit hands st to the host.
func (s *ExternalStore) Commit(st State) {
	if s.commit != nil {
		s.commit(st)
	}
}
