// Package memory provides mutex-guarded in-memory implementations of the
// persistence ports. They back the dev bootstrap and the end-to-end tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
)

// AccountRepository is an in-memory account store.
type AccountRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*entity.Account
	byUsername map[string]uuid.UUID
}

// NewAccountRepository creates an empty account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:       make(map[uuid.UUID]*entity.Account),
		byUsername: make(map[string]uuid.UUID),
	}
}

// GetByID implements repository.AccountRepository.
func (r *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return account, nil
}

// GetByUsername implements repository.AccountRepository. The lookup is
// case-insensitive.
func (r *AccountRepository) GetByUsername(_ context.Context, username string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[normalize(username)]
	if !ok {
		return nil, errs.ErrAccountNotFound
	}
	return r.byID[id], nil
}

// Add implements repository.AccountRepository, enforcing username uniqueness.
func (r *AccountRepository) Add(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := normalize(account.Username)
	if _, exists := r.byUsername[key]; exists {
		return errs.ErrUsernameTaken
	}
	r.byID[account.ID] = account
	r.byUsername[key] = account.ID
	return nil
}

// Update implements repository.AccountRepository.
func (r *AccountRepository) Update(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[account.ID]; !exists {
		return errs.ErrAccountNotFound
	}
	r.byID[account.ID] = account
	return nil
}

// Delete implements repository.AccountRepository.
func (r *AccountRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, exists := r.byID[id]
	if !exists {
		return errs.ErrAccountNotFound
	}
	delete(r.byUsername, normalize(account.Username))
	delete(r.byID, id)
	return nil
}

// Exists implements repository.AccountRepository.
func (r *AccountRepository) Exists(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[normalize(username)]
	return ok, nil
}

// CharacterRepository is an in-memory character store.
type CharacterRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*entity.Character
	byName map[string]uuid.UUID
}

// NewCharacterRepository creates an empty character store.
func NewCharacterRepository() *CharacterRepository {
	return &CharacterRepository{
		byID:   make(map[uuid.UUID]*entity.Character),
		byName: make(map[string]uuid.UUID),
	}
}

// GetByID implements repository.CharacterRepository.
func (r *CharacterRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	character, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrCharacterNotFound
	}
	return character, nil
}

// GetByName implements repository.CharacterRepository.
func (r *CharacterRepository) GetByName(_ context.Context, name string) (*entity.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[normalize(name)]
	if !ok {
		return nil, errs.ErrCharacterNotFound
	}
	return r.byID[id], nil
}

// Add implements repository.CharacterRepository, enforcing name uniqueness.
func (r *CharacterRepository) Add(_ context.Context, character *entity.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := normalize(character.Name)
	if _, exists := r.byName[key]; exists {
		return errs.ErrCharacterNameTaken
	}
	r.byID[character.ID] = character
	r.byName[key] = character.ID
	return nil
}

// Update implements repository.CharacterRepository.
func (r *CharacterRepository) Update(_ context.Context, character *entity.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[character.ID]; !exists {
		return errs.ErrCharacterNotFound
	}
	r.byID[character.ID] = character
	return nil
}

// Delete implements repository.CharacterRepository.
func (r *CharacterRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	character, exists := r.byID[id]
	if !exists {
		return errs.ErrCharacterNotFound
	}
	delete(r.byName, normalize(character.Name))
	delete(r.byID, id)
	return nil
}

// Exists implements repository.CharacterRepository.
func (r *CharacterRepository) Exists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[normalize(name)]
	return ok, nil
}

// ListByAccount implements repository.CharacterRepository.
func (r *CharacterRepository) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*entity.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Character
	for _, character := range r.byID {
		if character.AccountID == accountID {
			out = append(out, character)
		}
	}
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
