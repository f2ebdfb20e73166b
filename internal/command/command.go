// Package command is the inbound edge of the game core: it turns raw client
// commands into service calls and converts every failure into a typed
// CommandFailed event instead of an error reaching the connection layer.
package command

import (
	"time"

	"github.com/google/uuid"
)

// Type names a client command.
type Type string

const (
	TypeCreateAccount     Type = "create_account"
	TypeLogin             Type = "login"
	TypeLogout            Type = "logout"
	TypeCreateCharacter   Type = "create_character"
	TypeSelectCharacter   Type = "select_character"
	TypeDeselectCharacter Type = "deselect_character"
	TypeMove              Type = "move"
	TypeAttack            Type = "attack"
)

// Status tracks a command through its lifecycle. Succeeded and Failed are
// terminal; there are no retries.
type Status int

const (
	// StatusReceived is the initial status of an accepted command.
	StatusReceived Status = iota
	// StatusDispatched means the handler is running the command.
	StatusDispatched
	// StatusSucceeded is terminal.
	StatusSucceeded
	// StatusFailed is terminal; a CommandFailed event was published.
	StatusFailed
)

var statusNames = map[Status]string{
	StatusReceived:   "Received",
	StatusDispatched: "Dispatched",
	StatusSucceeded:  "Succeeded",
	StatusFailed:     "Failed",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Command is the envelope around one client command.
type Command struct {
	ID           uuid.UUID
	Type         Type
	ConnectionID uint64
	ReceivedAt   time.Time
	Status       Status
}

// New builds a Received envelope for the connection.
func New(t Type, connectionID uint64) *Command {
	return &Command{
		ID:           uuid.New(),
		Type:         t,
		ConnectionID: connectionID,
		ReceivedAt:   time.Now().UTC(),
		Status:       StatusReceived,
	}
}
