// Package errs defines the error taxonomy of the game core: sentinel errors
// for well-known conditions and a typed DomainError carrying a machine code
// the command layer and the admin surface translate from.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrCharacterNotFound  = errors.New("character not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrCharacterNameTaken = errors.New("character name already in use")
	ErrConnectionInUse    = errors.New("connection already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCharacterNotOwned  = errors.New("character does not belong to the account")
	ErrNoCharacter        = errors.New("no character selected")
)

// Machine-readable error codes surfaced in failure events and API responses.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeMustBeLoggedIn    = "MUST_BE_LOGGED_IN"
	CodeInternal          = "INTERNAL_ERROR"
)

// DomainError wraps an error with a user-facing message and a machine code.
type DomainError struct {
	Err  error
	Msg  string
	Code string
}

// Error implements error.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes the wrapped error to errors.Is/As.
func (e *DomainError) Unwrap() error { return e.Err }

// NewValidation reports a violated input precondition.
func NewValidation(msg string) *DomainError {
	return &DomainError{Msg: msg, Code: CodeValidation}
}

// NewNotFound wraps a missing-resource condition.
func NewNotFound(msg string, err error) *DomainError {
	return &DomainError{Err: err, Msg: msg, Code: CodeNotFound}
}

// NewConflict reports a uniqueness or duplicate-registration conflict.
func NewConflict(msg string, err error) *DomainError {
	return &DomainError{Err: err, Msg: msg, Code: CodeConflict}
}

// NewUnauthorized reports failed or missing authentication.
func NewUnauthorized(msg string) *DomainError {
	return &DomainError{Msg: msg, Code: CodeUnauthorized}
}

// NewInternal wraps an unexpected failure.
func NewInternal(msg string, err error) *DomainError {
	return &DomainError{Err: err, Msg: msg, Code: CodeInternal}
}

// CodeOf maps err to its machine code. Unknown errors are internal.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	switch {
	case errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrCharacterNotFound),
		errors.Is(err, ErrSessionNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrCharacterNameTaken),
		errors.Is(err, ErrConnectionInUse):
		return CodeConflict
	case errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthorized
	case errors.Is(err, ErrCharacterNotOwned):
		return CodeForbidden
	case errors.Is(err, ErrNoCharacter):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrCharacterNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsConflict reports whether err is any of the conflict sentinels.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrCharacterNameTaken) ||
		errors.Is(err, ErrConnectionInUse)
}
