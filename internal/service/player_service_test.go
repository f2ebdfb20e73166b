package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository/memory"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/session"
)

type playerFixture struct {
	players    *PlayerService
	accounts   *AccountService
	characters *CharacterService
	bus        *event.Bus
	account    *entity.Account
}

// newPlayerFixture wires the full in-memory stack and registers an activated
// account "alice" with password "secret-password".
func newPlayerFixture(t *testing.T) *playerFixture {
	t.Helper()
	bus := event.NewBus(zap.NewNop())
	accountRepo := memory.NewAccountRepository()
	characterRepo := memory.NewCharacterRepository()

	accounts := NewAccountService(accountRepo, plainHasher{}, bus, zap.NewNop())
	characters := NewCharacterService(characterRepo, accountRepo, nil, bus, zap.NewNop())
	registry := session.NewRegistry(characterRepo, zap.NewNop())
	players := NewPlayerService(registry, accounts, characters, bus, zap.NewNop())

	account, err := accounts.Register(context.Background(), "alice", "secret-password")
	require.NoError(t, err)
	ok, err := accounts.Activate(context.Background(), account.ID)
	require.NoError(t, err)
	require.True(t, ok)

	return &playerFixture{
		players:    players,
		accounts:   accounts,
		characters: characters,
		bus:        bus,
		account:    account,
	}
}

func TestPlayerService_LoginLogout(t *testing.T) {
	fx := newPlayerFixture(t)
	rec := newRecorder(fx.bus, event.TypePlayerLoggedIn, event.TypePlayerLoggedOut)

	player, err := fx.players.Login(context.Background(), 1, "alice", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), player.ConnectionID)
	assert.Equal(t, "alice", player.Username())

	require.NoError(t, fx.players.Logout(context.Background(), 1))
	_, ok := fx.players.Session(1)
	assert.False(t, ok)

	events := rec.all()
	require.Len(t, events, 2)
	loggedIn := events[0].(event.PlayerLoggedIn)
	assert.Equal(t, "alice", loggedIn.Username)
	loggedOut := events[1].(event.PlayerLoggedOut)
	assert.Equal(t, fx.account.ID, loggedOut.AccountID)
}

func TestPlayerService_Login_BadCredentials(t *testing.T) {
	fx := newPlayerFixture(t)

	_, err := fx.players.Login(context.Background(), 1, "alice", "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, ok := fx.players.Session(1)
	assert.False(t, ok)
}

func TestPlayerService_Login_DuplicateSession(t *testing.T) {
	fx := newPlayerFixture(t)

	_, err := fx.players.Login(context.Background(), 1, "alice", "secret-password")
	require.NoError(t, err)

	_, err = fx.players.Login(context.Background(), 1, "alice", "secret-password")
	assert.ErrorIs(t, err, errs.ErrConnectionInUse)

	_, err = fx.players.Login(context.Background(), 2, "alice", "secret-password")
	assert.ErrorIs(t, err, errs.ErrUsernameTaken)
}

func TestPlayerService_Logout_UnknownSession(t *testing.T) {
	fx := newPlayerFixture(t)
	assert.ErrorIs(t, fx.players.Logout(context.Background(), 99), errs.ErrSessionNotFound)
}

func TestPlayerService_SelectCharacter(t *testing.T) {
	fx := newPlayerFixture(t)
	rec := newRecorder(fx.bus, event.TypePlayerCharacterSelected, event.TypePlayerCharacterDeselected)

	character, err := fx.characters.Create(context.Background(), fx.account.ID, "Hero",
		entity.Stats{Strength: 5, Defense: 2},
		entity.Vital{Health: 100, MaxHealth: 100},
		entity.BoundingBox{Width: 1, Height: 1}, 0)
	require.NoError(t, err)

	player, err := fx.players.Login(context.Background(), 1, "alice", "secret-password")
	require.NoError(t, err)

	_, err = fx.players.SelectCharacter(context.Background(), 1, "Hero")
	require.NoError(t, err)
	require.True(t, player.HasSelectedCharacter())
	assert.Equal(t, character.ID, player.SelectedCharacter().ID)

	require.NoError(t, fx.players.DeselectCharacter(context.Background(), 1))
	assert.False(t, player.HasSelectedCharacter())

	events := rec.all()
	require.Len(t, events, 2)
	selected := events[0].(event.PlayerCharacterSelected)
	assert.Equal(t, "Hero", selected.CharacterName)
	deselected := events[1].(event.PlayerCharacterDeselected)
	assert.Equal(t, character.ID, deselected.CharacterID)
}

func TestPlayerService_SelectCharacter_NotOwned(t *testing.T) {
	fx := newPlayerFixture(t)

	// A second account owns the character.
	other, err := fx.accounts.Register(context.Background(), "mallory", "secret-password")
	require.NoError(t, err)
	_, err = fx.characters.Create(context.Background(), other.ID, "Stolen",
		entity.Stats{Strength: 1},
		entity.Vital{Health: 10, MaxHealth: 10},
		entity.BoundingBox{Width: 1, Height: 1}, 0)
	require.NoError(t, err)

	_, err = fx.players.Login(context.Background(), 1, "alice", "secret-password")
	require.NoError(t, err)

	_, err = fx.players.SelectCharacter(context.Background(), 1, "Stolen")
	assert.ErrorIs(t, err, errs.ErrCharacterNotOwned)
}

func TestPlayerService_DeselectCharacter_WithoutSelection(t *testing.T) {
	fx := newPlayerFixture(t)
	_, err := fx.players.Login(context.Background(), 1, "alice", "secret-password")
	require.NoError(t, err)

	assert.ErrorIs(t, fx.players.DeselectCharacter(context.Background(), 1), errs.ErrNoCharacter)
}

func TestPlayerService_SelectCharacter_RequiresSession(t *testing.T) {
	fx := newPlayerFixture(t)
	_, err := fx.players.SelectCharacter(context.Background(), 1, "Hero")
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}
