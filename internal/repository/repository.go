// Package repository defines the persistence ports of the game core. The
// core never depends on a concrete storage engine; adapters live in the
// subpackages (postgres, memory).
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
)

// AccountRepository persists account aggregates. Lookups return
// errs.ErrAccountNotFound when the account does not exist. Username
// uniqueness (case-insensitive) is enforced here, not by the entity.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	GetByUsername(ctx context.Context, username string) (*entity.Account, error)
	Add(ctx context.Context, account *entity.Account) error
	Update(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, username string) (bool, error)
}

// CharacterRepository persists character aggregates. Lookups return
// errs.ErrCharacterNotFound when absent; name uniqueness is enforced here.
type CharacterRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Character, error)
	GetByName(ctx context.Context, name string) (*entity.Character, error)
	Add(ctx context.Context, character *entity.Character) error
	Update(ctx context.Context, character *entity.Character) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, name string) (bool, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Character, error)
}

// CharacterLister is the read-side subset the session registry uses to
// hydrate a session's known-characters list. Implemented by
// CharacterRepository and by the Redis read-through cache.
type CharacterLister interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Character, error)
}
