package event

import (
	"time"

	"github.com/google/uuid"
)

// AccountCreated is emitted when a new account is registered.
type AccountCreated struct {
	Base
	AccountID uuid.UUID `json:"account_id"`
	Username  string    `json:"username"`
	State     string    `json:"state"`
}

// EventType implements Event.
func (AccountCreated) EventType() Type { return TypeAccountCreated }

// AccountStateChanged is emitted when a lifecycle transition succeeds and the
// state actually changed. Self-transitions do not emit it.
type AccountStateChanged struct {
	Base
	AccountID uuid.UUID `json:"account_id"`
	Previous  string    `json:"previous"`
	Next      string    `json:"next"`
	Reason    string    `json:"reason,omitempty"`
}

// EventType implements Event.
func (AccountStateChanged) EventType() Type { return TypeAccountStateChanged }

// AccountStateRejected is emitted when a transition is attempted that the
// policy forbids. The account keeps its current state.
type AccountStateRejected struct {
	Base
	AccountID uuid.UUID `json:"account_id"`
	Current   string    `json:"current"`
	Attempted string    `json:"attempted"`
	Message   string    `json:"message"`
}

// EventType implements Event.
func (AccountStateRejected) EventType() Type { return TypeAccountStateRejected }

// AccountBanned carries the operation metadata of a successful ban.
type AccountBanned struct {
	Base
	AccountID uuid.UUID `json:"account_id"`
	Reason    string    `json:"reason"`
}

// EventType implements Event.
func (AccountBanned) EventType() Type { return TypeAccountBanned }

// AccountSuspended carries the operation metadata of a successful suspension.
type AccountSuspended struct {
	Base
	AccountID uuid.UUID     `json:"account_id"`
	Reason    string        `json:"reason"`
	Duration  time.Duration `json:"duration"`
}

// EventType implements Event.
func (AccountSuspended) EventType() Type { return TypeAccountSuspended }

// AccountDeleted is emitted when an account reaches its terminal state.
type AccountDeleted struct {
	Base
	AccountID uuid.UUID `json:"account_id"`
}

// EventType implements Event.
func (AccountDeleted) EventType() Type { return TypeAccountDeleted }

// CharacterCreated is emitted when a character is created.
type CharacterCreated struct {
	Base
	CharacterID uuid.UUID `json:"character_id"`
	AccountID   uuid.UUID `json:"account_id"`
	Name        string    `json:"name"`
}

// EventType implements Event.
func (CharacterCreated) EventType() Type { return TypeCharacterCreated }

// CharacterWalked is emitted on the transition into the walking state, not on
// every step while already walking.
type CharacterWalked struct {
	Base
	CharacterID uuid.UUID `json:"character_id"`
	Previous    string    `json:"previous"`
	Direction   string    `json:"direction"`
	FromX       int       `json:"from_x"`
	FromY       int       `json:"from_y"`
	Speed       float64   `json:"speed"`
}

// EventType implements Event.
func (CharacterWalked) EventType() Type { return TypeCharacterWalked }

// CharacterAttacked is emitted when an attack lands, before the damage is
// applied to the target.
type CharacterAttacked struct {
	Base
	CharacterID uuid.UUID `json:"character_id"`
	TargetID    uuid.UUID `json:"target_id"`
	Previous    string    `json:"previous"`
	Damage      int       `json:"damage"`
	X           int       `json:"x"`
	Y           int       `json:"y"`
}

// EventType implements Event.
func (CharacterAttacked) EventType() Type { return TypeCharacterAttacked }

// CharacterDied is emitted exactly once per death.
type CharacterDied struct {
	Base
	CharacterID uuid.UUID `json:"character_id"`
	Name        string    `json:"name"`
	Previous    string    `json:"previous"`
	Cause       string    `json:"cause"`
	KillerID    uuid.UUID `json:"killer_id,omitempty"`
	Location    string    `json:"location"`
}

// EventType implements Event.
func (CharacterDied) EventType() Type { return TypeCharacterDied }

// CharacterStateChanged is emitted for behavior-state transitions that carry
// no extra payload, such as stopping or being revived.
type CharacterStateChanged struct {
	Base
	CharacterID uuid.UUID `json:"character_id"`
	Previous    string    `json:"previous"`
	Next        string    `json:"next"`
}

// EventType implements Event.
func (CharacterStateChanged) EventType() Type { return TypeCharacterStateChanged }

// PlayerLoggedIn is emitted when a connection authenticates and a session is
// registered.
type PlayerLoggedIn struct {
	Base
	ConnectionID uint64    `json:"connection_id"`
	AccountID    uuid.UUID `json:"account_id"`
	Username     string    `json:"username"`
}

// EventType implements Event.
func (PlayerLoggedIn) EventType() Type { return TypePlayerLoggedIn }

// PlayerLoggedOut is emitted when a session is unregistered.
type PlayerLoggedOut struct {
	Base
	ConnectionID uint64    `json:"connection_id"`
	AccountID    uuid.UUID `json:"account_id"`
	Username     string    `json:"username"`
}

// EventType implements Event.
func (PlayerLoggedOut) EventType() Type { return TypePlayerLoggedOut }

// PlayerCharacterSelected is emitted when a session binds a character.
type PlayerCharacterSelected struct {
	Base
	ConnectionID  uint64    `json:"connection_id"`
	AccountID     uuid.UUID `json:"account_id"`
	CharacterID   uuid.UUID `json:"character_id"`
	CharacterName string    `json:"character_name"`
}

// EventType implements Event.
func (PlayerCharacterSelected) EventType() Type { return TypePlayerCharacterSelected }

// PlayerCharacterDeselected is emitted when a session clears its character
// binding.
type PlayerCharacterDeselected struct {
	Base
	ConnectionID uint64    `json:"connection_id"`
	CharacterID  uuid.UUID `json:"character_id"`
}

// EventType implements Event.
func (PlayerCharacterDeselected) EventType() Type { return TypePlayerCharacterDeselected }

// CommandFailed is the typed failure event the command layer publishes when a
// command cannot be completed. Username is empty when the failure happened
// before any session could be resolved.
type CommandFailed struct {
	Base
	ConnectionID uint64 `json:"connection_id"`
	Username     string `json:"username,omitempty"`
	Command      string `json:"command"`
	Code         string `json:"code"`
	Reason       string `json:"reason"`
}

// EventType implements Event.
func (CommandFailed) EventType() Type { return TypeCommandFailed }
