package entity

// AccountState is the lifecycle state of an account. State only changes
// through the transition policy below; no other code path mutates it.
type AccountState int

const (
	// AccountCreated is the initial state of a freshly registered account.
	AccountCreated AccountState = iota
	// AccountActivated is the normal, playable state.
	AccountActivated
	// AccountBanned blocks the account for a stated reason.
	AccountBanned
	// AccountDeleted is terminal; no transition leaves it.
	AccountDeleted
	// AccountLocked blocks the account pending administrative action.
	AccountLocked
	// AccountSuspended blocks the account for a bounded duration.
	AccountSuspended
)

var accountStateNames = map[AccountState]string{
	AccountCreated:   "Created",
	AccountActivated: "Activated",
	AccountBanned:    "Banned",
	AccountDeleted:   "Deleted",
	AccountLocked:    "Locked",
	AccountSuspended: "Suspended",
}

func (s AccountState) String() string {
	if name, ok := accountStateNames[s]; ok {
		return name
	}
	return "Unknown"
}

// AccountStates lists every defined state, for exhaustive checks.
var AccountStates = []AccountState{
	AccountCreated,
	AccountActivated,
	AccountBanned,
	AccountDeleted,
	AccountLocked,
	AccountSuspended,
}

// allowedTransitions is the directed table of legal (current -> target)
// pairs. Deleted is terminal. Self-transitions are always permitted and
// handled separately (they are no-ops for events).
var allowedTransitions = map[AccountState][]AccountState{
	AccountCreated:   {AccountActivated, AccountLocked, AccountSuspended, AccountBanned, AccountDeleted},
	AccountActivated: {AccountLocked, AccountSuspended, AccountBanned, AccountDeleted},
	AccountLocked:    {AccountActivated, AccountSuspended, AccountBanned, AccountDeleted},
	AccountSuspended: {AccountActivated, AccountLocked, AccountBanned, AccountDeleted},
	AccountBanned:    {AccountActivated, AccountDeleted},
	AccountDeleted:   {},
}

// IsValidTransition reports whether from may transition to to. A
// self-transition is always valid.
func IsValidTransition(from, to AccountState) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// PossibleTransitions returns the states reachable from from, excluding the
// self-transition. The result is empty for Deleted.
func PossibleTransitions(from AccountState) []AccountState {
	allowed := allowedTransitions[from]
	out := make([]AccountState, len(allowed))
	copy(out, allowed)
	return out
}
