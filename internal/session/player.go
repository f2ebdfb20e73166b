// Package session holds the live, non-persisted player sessions: the binding
// between a network connection, the account it authenticated as, and the
// character it currently controls.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
)

// Player is one live connection's session. It is created when a connection
// authenticates and destroyed on logout or disconnect; it never outlives its
// connection. The registry owns creation and removal; the per-player fields
// below are guarded by the player's own mutex so reads do not contend with
// registry mutations.
type Player struct {
	ConnectionID uint64
	ConnectedAt  time.Time

	mu              sync.RWMutex
	account         *entity.Account
	character       *entity.Character
	knownCharacters []*entity.Character
	lastActivityAt  time.Time
	latency         time.Duration
}

func newPlayer(connectionID uint64, account *entity.Account) *Player {
	now := time.Now().UTC()
	return &Player{
		ConnectionID:   connectionID,
		ConnectedAt:    now,
		account:        account,
		lastActivityAt: now,
	}
}

// Account returns the bound account, nil before authentication.
func (p *Player) Account() *entity.Account {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.account
}

// Username returns the bound account's username, empty when unauthenticated.
func (p *Player) Username() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.account == nil {
		return ""
	}
	return p.account.Username
}

// IsAuthenticated reports whether an account is bound.
func (p *Player) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.account != nil
}

// SelectedCharacter returns the currently controlled character, nil when none
// is selected.
func (p *Player) SelectedCharacter() *entity.Character {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.character
}

// HasSelectedCharacter reports whether a character is bound.
func (p *Player) HasSelectedCharacter() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.character != nil
}

func (p *Player) bindCharacter(c *entity.Character) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.character = c
}

// unbindCharacter clears the binding and returns the character that was
// bound, if any.
func (p *Player) unbindCharacter() *entity.Character {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := p.character
	p.character = nil
	return c
}

// KnownCharacters returns the hydrated character list of the bound account.
// The list may be stale; it is refreshed on the next character-list query.
func (p *Player) KnownCharacters() []*entity.Character {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*entity.Character, len(p.knownCharacters))
	copy(out, p.knownCharacters)
	return out
}

func (p *Player) setKnownCharacters(chars []*entity.Character) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.knownCharacters = chars
}

// Touch updates the last-activity timestamp.
func (p *Player) Touch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastActivityAt = time.Now().UTC()
}

// LastActivityAt returns the time of the last observed activity.
func (p *Player) LastActivityAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastActivityAt
}

// SetLatency records the connection's measured latency.
func (p *Player) SetLatency(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latency = d
}

// Latency returns the last recorded latency.
func (p *Player) Latency() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latency
}

// AccountID returns the bound account id, uuid.Nil when unauthenticated.
func (p *Player) AccountID() uuid.UUID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.account == nil {
		return uuid.Nil
	}
	return p.account.ID
}
