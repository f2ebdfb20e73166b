package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
)

// Account is the aggregate root for a player account. It owns the association
// to its characters (the ids, not the character lifecycle — characters exist
// independently via their own repository). Username uniqueness is enforced by
// the repository, not here.
type Account struct {
	Entity

	Username     string
	PasswordHash string
	State        AccountState
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	CharacterIDs []uuid.UUID
}

// NewAccount builds an account in the Created state and records the creation
// event. The caller provides an already hashed password.
func NewAccount(username, passwordHash string) (*Account, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, errs.NewValidation("username must be at least 3 characters")
	}
	if passwordHash == "" {
		return nil, errs.NewValidation("password hash is required")
	}

	a := &Account{
		Username:     username,
		PasswordHash: passwordHash,
		State:        AccountCreated,
		CreatedAt:    time.Now().UTC(),
	}
	a.ID = uuid.New()
	a.Record(event.AccountCreated{
		Base:      event.NewBase(),
		AccountID: a.ID,
		Username:  a.Username,
		State:     a.State.String(),
	})
	return a, nil
}

// TryChangeState applies the transition policy. A valid transition mutates
// State and, when the state actually changed, records an AccountStateChanged
// event. An invalid transition records an AccountStateRejected event and
// leaves the state untouched. The return value tells which happened.
func (a *Account) TryChangeState(target AccountState, reason string) bool {
	if !IsValidTransition(a.State, target) {
		a.Record(event.AccountStateRejected{
			Base:      event.NewBase(),
			AccountID: a.ID,
			Current:   a.State.String(),
			Attempted: target.String(),
			Message:   fmt.Sprintf("transition from %s to %s is not allowed", a.State, target),
		})
		return false
	}
	if a.State == target {
		return true
	}
	previous := a.State
	a.State = target
	a.Record(event.AccountStateChanged{
		Base:      event.NewBase(),
		AccountID: a.ID,
		Previous:  previous.String(),
		Next:      target.String(),
		Reason:    reason,
	})
	return true
}

// Activate moves the account into the Activated state.
func (a *Account) Activate() bool {
	return a.TryChangeState(AccountActivated, "account activated")
}

// Lock moves the account into the Locked state.
func (a *Account) Lock() bool {
	return a.TryChangeState(AccountLocked, "account locked")
}

// Ban moves the account into the Banned state. The reason is mandatory; an
// empty reason is a validation error, not a state-machine rejection.
func (a *Account) Ban(reason string) (bool, error) {
	if strings.TrimSpace(reason) == "" {
		return false, errs.NewValidation("ban reason is required")
	}
	if !a.TryChangeState(AccountBanned, reason) {
		return false, nil
	}
	a.Record(event.AccountBanned{
		Base:      event.NewBase(),
		AccountID: a.ID,
		Reason:    reason,
	})
	return true, nil
}

// Suspend moves the account into the Suspended state for the given duration.
// The reason is mandatory.
func (a *Account) Suspend(duration time.Duration, reason string) (bool, error) {
	if strings.TrimSpace(reason) == "" {
		return false, errs.NewValidation("suspension reason is required")
	}
	if !a.TryChangeState(AccountSuspended, reason) {
		return false, nil
	}
	a.Record(event.AccountSuspended{
		Base:      event.NewBase(),
		AccountID: a.ID,
		Reason:    reason,
		Duration:  duration,
	})
	return true, nil
}

// Delete moves the account into the terminal Deleted state.
func (a *Account) Delete() bool {
	if !a.TryChangeState(AccountDeleted, "account deleted") {
		return false
	}
	a.Record(event.AccountDeleted{
		Base:      event.NewBase(),
		AccountID: a.ID,
	})
	return true
}

// CanAuthenticate reports whether the lifecycle state admits logins at all.
func (a *Account) CanAuthenticate() bool {
	switch a.State {
	case AccountBanned, AccountDeleted, AccountLocked, AccountSuspended:
		return false
	default:
		return true
	}
}

// Authenticate verifies the password through the supplied verifier. Accounts
// in a blocked lifecycle state are rejected unconditionally, without touching
// LastLoginAt. On success LastLoginAt is set to the current UTC time.
func (a *Account) Authenticate(password string, verify func(hash, password string) bool) bool {
	if !a.CanAuthenticate() {
		return false
	}
	if verify == nil || !verify(a.PasswordHash, password) {
		return false
	}
	now := time.Now().UTC()
	a.LastLoginAt = &now
	return true
}

// OwnsCharacter reports whether the character id is associated with this
// account.
func (a *Account) OwnsCharacter(characterID uuid.UUID) bool {
	for _, id := range a.CharacterIDs {
		if id == characterID {
			return true
		}
	}
	return false
}

// AttachCharacter records the association to a character. Attaching an
// already associated id is a no-op.
func (a *Account) AttachCharacter(characterID uuid.UUID) {
	if a.OwnsCharacter(characterID) {
		return
	}
	a.CharacterIDs = append(a.CharacterIDs, characterID)
}

// DetachCharacter removes the association to a character, if present.
func (a *Account) DetachCharacter(characterID uuid.UUID) {
	for i, id := range a.CharacterIDs {
		if id == characterID {
			a.CharacterIDs = append(a.CharacterIDs[:i:i], a.CharacterIDs[i+1:]...)
			return
		}
	}
}
