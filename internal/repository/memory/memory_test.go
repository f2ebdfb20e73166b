package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository()

	acct, err := entity.NewAccount("Alice", "hash")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, acct))

	// Username uniqueness is case-insensitive.
	dup, err := entity.NewAccount("ALICE", "hash")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Add(ctx, dup), errs.ErrUsernameTaken)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	got, err = repo.GetByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Username)

	exists, err := repo.Exists(ctx, "aLiCe")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)

	require.NoError(t, repo.Delete(ctx, acct.ID))
	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, acct.ID), errs.ErrAccountNotFound)
}

func TestCharacterRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCharacterRepository()
	accountID := uuid.New()

	char, err := entity.NewCharacter(accountID, "Hero",
		entity.Stats{Strength: 1}, entity.Vital{Health: 10, MaxHealth: 10},
		entity.BoundingBox{Width: 1, Height: 1}, 0)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, char))

	dup, err := entity.NewCharacter(accountID, "hero",
		entity.Stats{}, entity.Vital{Health: 1, MaxHealth: 1}, entity.BoundingBox{}, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Add(ctx, dup), errs.ErrCharacterNameTaken)

	got, err := repo.GetByName(ctx, "HERO")
	require.NoError(t, err)
	assert.Equal(t, char.ID, got.ID)

	listed, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Hero", listed[0].Name)

	listed, err = repo.ListByAccount(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, repo.Delete(ctx, char.ID))
	_, err = repo.GetByID(ctx, char.ID)
	assert.ErrorIs(t, err, errs.ErrCharacterNotFound)
}
