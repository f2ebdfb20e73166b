package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository/memory"
)

// MockInvalidator observes cache invalidation calls.
type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context, accountID uuid.UUID) {
	m.Called(ctx, accountID)
}

type characterFixture struct {
	svc      *CharacterService
	accounts *AccountService
	bus      *event.Bus
	account  *entity.Account
}

func newCharacterFixture(t *testing.T, cache CacheInvalidator) *characterFixture {
	t.Helper()
	bus := event.NewBus(zap.NewNop())
	accountRepo := memory.NewAccountRepository()
	characterRepo := memory.NewCharacterRepository()
	accounts := NewAccountService(accountRepo, plainHasher{}, bus, zap.NewNop())
	svc := NewCharacterService(characterRepo, accountRepo, cache, bus, zap.NewNop())

	account, err := accounts.Register(context.Background(), "alice", "secret-password")
	require.NoError(t, err)
	return &characterFixture{svc: svc, accounts: accounts, bus: bus, account: account}
}

func defaultSpawn() (entity.Stats, entity.Vital, entity.BoundingBox) {
	return entity.Stats{Strength: 10, Defense: 5, Agility: 3},
		entity.Vital{Health: 100, MaxHealth: 100, Mana: 50, MaxMana: 50},
		entity.BoundingBox{X: 0, Y: 0, Width: 1, Height: 1}
}

func TestCharacterService_Create(t *testing.T) {
	cache := &MockInvalidator{}
	fx := newCharacterFixture(t, cache)
	cache.On("Invalidate", mock.Anything, fx.account.ID).Return()
	rec := newRecorder(fx.bus, event.TypeCharacterCreated)

	stats, vital, box := defaultSpawn()
	character, err := fx.svc.Create(context.Background(), fx.account.ID, "Hero", stats, vital, box, 0)
	require.NoError(t, err)
	assert.Equal(t, "Hero", character.Name)
	assert.Equal(t, fx.account.ID, character.AccountID)

	// The association landed on the persisted account.
	stored, err := fx.accounts.GetByID(context.Background(), fx.account.ID)
	require.NoError(t, err)
	assert.True(t, stored.OwnsCharacter(character.ID))

	require.Len(t, rec.all(), 1)
	cache.AssertCalled(t, "Invalidate", mock.Anything, fx.account.ID)
}

func TestCharacterService_Create_DuplicateName(t *testing.T) {
	fx := newCharacterFixture(t, nil)
	stats, vital, box := defaultSpawn()

	_, err := fx.svc.Create(context.Background(), fx.account.ID, "Hero", stats, vital, box, 0)
	require.NoError(t, err)
	_, err = fx.svc.Create(context.Background(), fx.account.ID, "hero", stats, vital, box, 0)
	assert.ErrorIs(t, err, errs.ErrCharacterNameTaken)
}

func TestCharacterService_Create_UnknownAccount(t *testing.T) {
	fx := newCharacterFixture(t, nil)
	stats, vital, box := defaultSpawn()

	_, err := fx.svc.Create(context.Background(), uuid.New(), "Ghost", stats, vital, box, 0)
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestCharacterService_MoveAndStop(t *testing.T) {
	fx := newCharacterFixture(t, nil)
	rec := newRecorder(fx.bus, event.TypeCharacterWalked, event.TypeCharacterStateChanged)

	stats, vital, box := defaultSpawn()
	character, err := fx.svc.Create(context.Background(), fx.account.ID, "Hero", stats, vital, box, 0)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Move(context.Background(), character.ID, entity.East))
	require.NoError(t, fx.svc.Move(context.Background(), character.ID, entity.East))
	require.NoError(t, fx.svc.StopMoving(context.Background(), character.ID))

	stored, err := fx.svc.Get(context.Background(), character.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Box.X)
	assert.Equal(t, entity.CharacterIdle, stored.State)

	// One walk event for the transition into Walking, one state change for
	// the stop. The second step while already walking is silent.
	events := rec.all()
	require.Len(t, events, 2)
	assert.Equal(t, event.TypeCharacterWalked, events[0].EventType())
	assert.Equal(t, event.TypeCharacterStateChanged, events[1].EventType())
}

func TestCharacterService_Attack_PersistsBothSides(t *testing.T) {
	fx := newCharacterFixture(t, nil)
	rec := newRecorder(fx.bus, event.TypeCharacterAttacked, event.TypeCharacterDied)

	stats, vital, box := defaultSpawn()
	attacker, err := fx.svc.Create(context.Background(), fx.account.ID, "Hero", stats, vital, box, 0)
	require.NoError(t, err)
	target, err := fx.svc.Create(context.Background(), fx.account.ID, "Villain",
		entity.Stats{Strength: 1, Defense: 0},
		entity.Vital{Health: 10, MaxHealth: 10},
		entity.BoundingBox{X: 1, Y: 0, Width: 1, Height: 1}, 0)
	require.NoError(t, err)

	// 2*10 - 0 = 20 at factor 1.0 overkills the 10 HP target.
	require.NoError(t, fx.svc.Attack(context.Background(), attacker.ID, target.ID, func() float64 { return 0.5 }))

	storedTarget, err := fx.svc.Get(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, storedTarget.Vital.Health)
	assert.Equal(t, entity.CharacterDead, storedTarget.State)

	events := rec.all()
	require.Len(t, events, 2)
	attacked := events[0].(event.CharacterAttacked)
	assert.Equal(t, 20, attacked.Damage)
	died := events[1].(event.CharacterDied)
	assert.Equal(t, attacker.ID, died.KillerID)
	assert.Equal(t, "slain", died.Cause)
}

func TestCharacterService_Revive(t *testing.T) {
	fx := newCharacterFixture(t, nil)
	stats, _, box := defaultSpawn()
	attacker, err := fx.svc.Create(context.Background(), fx.account.ID, "Hero", stats,
		entity.Vital{Health: 100, MaxHealth: 100}, box, 0)
	require.NoError(t, err)
	victim, err := fx.svc.Create(context.Background(), fx.account.ID, "Victim", entity.Stats{},
		entity.Vital{Health: 1, MaxHealth: 100},
		entity.BoundingBox{X: 1, Y: 0, Width: 1, Height: 1}, 0)
	require.NoError(t, err)

	// Kill via the behavior path so persistence sees the dead state.
	require.NoError(t, fx.svc.Attack(context.Background(), attacker.ID, victim.ID, func() float64 { return 0.5 }))

	stored, err := fx.svc.Get(context.Background(), victim.ID)
	require.NoError(t, err)
	require.Equal(t, entity.CharacterDead, stored.State)

	require.NoError(t, fx.svc.Revive(context.Background(), victim.ID, 0.5))
	stored, err = fx.svc.Get(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CharacterIdle, stored.State)
	assert.Equal(t, 50, stored.Vital.Health)
}

func TestCharacterService_Behavior_UnknownCharacter(t *testing.T) {
	fx := newCharacterFixture(t, nil)
	err := fx.svc.Move(context.Background(), uuid.New(), entity.North)
	assert.ErrorIs(t, err, errs.ErrCharacterNotFound)
}
