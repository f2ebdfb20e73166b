// Package event defines the domain events emitted by the game core and the
// in-process bus that fans them out to subscribers.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the concrete type of a domain event. Subscriptions are
// keyed by Type at exact-type granularity: a subscriber for one type never
// receives events of another.
type Type string

// Account lifecycle events.
const (
	// TypeAccountCreated records the creation of a new account.
	TypeAccountCreated Type = "account.created"
	// TypeAccountStateChanged records a successful lifecycle transition.
	TypeAccountStateChanged Type = "account.state_changed"
	// TypeAccountStateRejected records an attempted transition the policy
	// does not allow. The account state is unchanged.
	TypeAccountStateRejected Type = "account.state_rejected"
	// TypeAccountBanned records a ban with its reason.
	TypeAccountBanned Type = "account.banned"
	// TypeAccountSuspended records a suspension with its duration.
	TypeAccountSuspended Type = "account.suspended"
	// TypeAccountDeleted records the terminal deletion of an account.
	TypeAccountDeleted Type = "account.deleted"
)

// Character events.
const (
	// TypeCharacterCreated records the creation of a character.
	TypeCharacterCreated Type = "character.created"
	// TypeCharacterWalked records a transition into the walking state.
	TypeCharacterWalked Type = "character.walked"
	// TypeCharacterAttacked records an attack and the damage it dealt.
	TypeCharacterAttacked Type = "character.attacked"
	// TypeCharacterDied records a character death. Fires once per death.
	TypeCharacterDied Type = "character.died"
	// TypeCharacterStateChanged records behavior-state transitions that have
	// no more specific event (stop moving, revive).
	TypeCharacterStateChanged Type = "character.state_changed"
)

// Player session events.
const (
	// TypePlayerLoggedIn records a connection binding to an account.
	TypePlayerLoggedIn Type = "player.logged_in"
	// TypePlayerLoggedOut records a session ending.
	TypePlayerLoggedOut Type = "player.logged_out"
	// TypePlayerCharacterSelected records a session binding a character.
	TypePlayerCharacterSelected Type = "player.character_selected"
	// TypePlayerCharacterDeselected records a session unbinding its character.
	TypePlayerCharacterDeselected Type = "player.character_deselected"
	// TypeCommandFailed records a command that could not be completed. It is
	// the only failure channel a connected player ever sees.
	TypeCommandFailed Type = "player.command_failed"
)

// AllTypes lists every event type the core emits, in declaration order.
// Used by subscribers that want the whole stream, such as the broker relay.
var AllTypes = []Type{
	TypeAccountCreated,
	TypeAccountStateChanged,
	TypeAccountStateRejected,
	TypeAccountBanned,
	TypeAccountSuspended,
	TypeAccountDeleted,
	TypeCharacterCreated,
	TypeCharacterWalked,
	TypeCharacterAttacked,
	TypeCharacterDied,
	TypeCharacterStateChanged,
	TypePlayerLoggedIn,
	TypePlayerLoggedOut,
	TypePlayerCharacterSelected,
	TypePlayerCharacterDeselected,
	TypeCommandFailed,
}

// Event is an immutable fact about something that already happened. Payload
// fields are captured by value at emission time; an event never holds a
// reference to a mutable entity.
type Event interface {
	EventID() uuid.UUID
	EventType() Type
	OccurredAt() time.Time
}

// Base carries the identity and occurrence timestamp shared by every event.
// Concrete events embed it and add their payload fields.
type Base struct {
	ID   uuid.UUID `json:"event_id"`
	Time time.Time `json:"occurred_at"`
}

// NewBase assigns a fresh event id and the current UTC time.
func NewBase() Base {
	return Base{ID: uuid.New(), Time: time.Now().UTC()}
}

// EventID returns the process-unique id of the event.
func (b Base) EventID() uuid.UUID { return b.ID }

// OccurredAt returns the UTC timestamp set at construction.
func (b Base) OccurredAt() time.Time { return b.Time }
