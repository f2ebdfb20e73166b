package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository"
)

const hydrateTimeout = 5 * time.Second

// Registry is the concurrent directory of live sessions, indexed by
// connection id and by lowercased username. One mutex guards both indexes so
// the dual-index invariant — each key maps to at most one live player and
// that player's own bindings match the keys — holds at every point observable
// between operations.
type Registry struct {
	mu         sync.RWMutex
	byConn     map[uint64]*Player
	byUsername map[string]*Player

	characters repository.CharacterLister
	logger     *zap.Logger
}

// NewRegistry creates an empty registry. characters may be nil, in which case
// sessions are not hydrated with their account's character list.
func NewRegistry(characters repository.CharacterLister, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		byConn:     make(map[uint64]*Player),
		byUsername: make(map[string]*Player),
		characters: characters,
		logger:     logger,
	}
}

// Register creates a session for an authenticated connection and inserts it
// into both indexes atomically. A connection id already registered fails with
// ErrConnectionInUse; a username already bound to a different live session
// fails with ErrUsernameTaken, leaving no residue in either index. On success
// the session's known-characters list is hydrated asynchronously; a stale
// read is acceptable.
func (r *Registry) Register(ctx context.Context, connectionID uint64, account *entity.Account) (*Player, error) {
	if account == nil {
		return nil, errs.NewValidation("account is required to register a session")
	}
	key := usernameKey(account.Username)

	r.mu.Lock()
	if _, exists := r.byConn[connectionID]; exists {
		r.mu.Unlock()
		return nil, errs.ErrConnectionInUse
	}
	if other, exists := r.byUsername[key]; exists && other.ConnectionID != connectionID {
		r.mu.Unlock()
		return nil, errs.ErrUsernameTaken
	}
	player := newPlayer(connectionID, account)
	r.byConn[connectionID] = player
	r.byUsername[key] = player
	r.mu.Unlock()

	r.logger.Info("session registered",
		zap.Uint64("connection_id", connectionID),
		zap.String("username", account.Username),
	)

	if r.characters != nil {
		go r.hydrate(player, account.ID)
	}
	return player, nil
}

func (r *Registry) hydrate(player *Player, accountID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), hydrateTimeout)
	defer cancel()

	chars, err := r.characters.ListByAccount(ctx, accountID)
	if err != nil {
		r.logger.Warn("failed to hydrate session character list",
			zap.Uint64("connection_id", player.ConnectionID),
			zap.String("account_id", accountID.String()),
			zap.Error(err),
		)
		return
	}
	player.setKnownCharacters(chars)
}

// Unregister removes the session for connectionID from both indexes,
// deactivating any selected character first. Unregistering an unknown
// connection id returns false; it is not an error.
func (r *Registry) Unregister(connectionID uint64) bool {
	r.mu.Lock()
	player, exists := r.byConn[connectionID]
	if !exists {
		r.mu.Unlock()
		return false
	}
	delete(r.byConn, connectionID)
	delete(r.byUsername, usernameKey(player.Username()))
	r.mu.Unlock()

	player.unbindCharacter()
	r.logger.Info("session unregistered", zap.Uint64("connection_id", connectionID))
	return true
}

// ActivateCharacter binds character to the session for connectionID after
// verifying the session exists and its account owns the character. Failures
// leave the session untouched.
func (r *Registry) ActivateCharacter(connectionID uint64, character *entity.Character) error {
	if character == nil {
		return errs.ErrCharacterNotFound
	}
	player, ok := r.GetByConnectionID(connectionID)
	if !ok {
		return errs.ErrSessionNotFound
	}
	account := player.Account()
	if account == nil || !account.OwnsCharacter(character.ID) {
		return errs.ErrCharacterNotOwned
	}
	player.bindCharacter(character)
	player.Touch()
	return nil
}

// DeactivateCharacter clears the session's character binding, if one exists,
// and reports whether a character was bound.
func (r *Registry) DeactivateCharacter(connectionID uint64) bool {
	player, ok := r.GetByConnectionID(connectionID)
	if !ok {
		return false
	}
	return player.unbindCharacter() != nil
}

// GetByConnectionID looks up the session for a connection.
func (r *Registry) GetByConnectionID(connectionID uint64) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.byConn[connectionID]
	return player, ok
}

// GetByUsername looks up the session of a logged-in account. The lookup is
// case-insensitive.
func (r *Registry) GetByUsername(username string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.byUsername[usernameKey(username)]
	return player, ok
}

// GetAll returns a snapshot of every live session.
func (r *Registry) GetAll() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Player, 0, len(r.byConn))
	for _, player := range r.byConn {
		out = append(out, player)
	}
	return out
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// AuthenticatedCount returns the number of sessions with an account bound.
// With registration requiring authentication this equals Count, but the
// registry does not assume it.
func (r *Registry) AuthenticatedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, player := range r.byConn {
		if player.IsAuthenticated() {
			n++
		}
	}
	return n
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
