// Package entity holds the aggregates of the game core: accounts, characters
// and the shared entity base with its pending domain-event buffer.
package entity

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
)

// Entity is the embedded base of every aggregate. It carries the identity
// (zero before persistence) and the append-only buffer of pending domain
// events. Behavior methods record events; only the orchestrating service
// drains and publishes them, exactly once per unit of work. The base is not
// safe for concurrent mutation; aggregates are serialized by the service
// layer.
type Entity struct {
	ID uuid.UUID

	events []event.Event
}

// Record appends a pending domain event. Emission order is preserved within
// the entity.
func (e *Entity) Record(ev event.Event) {
	e.events = append(e.events, ev)
}

// Events returns the current pending events. It is a view for inspection,
// not a defensive copy; callers must not mutate it while the entity is live.
func (e *Entity) Events() []event.Event {
	return e.events
}

// DrainEvents returns the pending events and empties the buffer, transferring
// ownership to the caller.
func (e *Entity) DrainEvents() []event.Event {
	drained := e.events
	e.events = nil
	return drained
}

// ClearEvents discards all pending events.
func (e *Entity) ClearEvents() {
	e.events = nil
}

// IsPersisted reports whether the entity has been assigned an identity.
func (e *Entity) IsPersisted() bool {
	return e.ID != uuid.Nil
}

// Identity returns the entity id.
func (e *Entity) Identity() uuid.UUID { return e.ID }

// Same reports identity-based equality: both arguments have the same concrete
// type and equal non-zero ids. Entities without an assigned id are only equal
// to themselves (pointer identity), which Same does not cover.
func Same(a, b interface{ Identity() uuid.UUID }) bool {
	if a == nil || b == nil {
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	ida, idb := a.Identity(), b.Identity()
	return ida != uuid.Nil && ida == idb
}
