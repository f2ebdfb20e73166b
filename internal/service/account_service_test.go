package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository/memory"
)

// MockHasher replaces argon2id in service tests.
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Verify(encodedHash, password string) bool {
	args := m.Called(encodedHash, password)
	return args.Bool(0)
}

// plainHasher is a trivially reversible hasher for end-to-end style tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Verify(encodedHash, password string) bool {
	return encodedHash == "plain:"+password
}

// recorder collects every event published on the given types.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func newRecorder(bus *event.Bus, types ...event.Type) *recorder {
	r := &recorder{}
	for _, t := range types {
		bus.Subscribe(t, func(_ context.Context, e event.Event) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, e)
			return nil
		})
	}
	return r
}

func (r *recorder) all() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, len(r.events))
	copy(out, r.events)
	return out
}

func newAccountService(t *testing.T, hasher PasswordHasher) (*AccountService, *event.Bus, *memory.AccountRepository) {
	t.Helper()
	bus := event.NewBus(zap.NewNop())
	accounts := memory.NewAccountRepository()
	return NewAccountService(accounts, hasher, bus, zap.NewNop()), bus, accounts
}

func TestAccountService_Register(t *testing.T) {
	hasher := &MockHasher{}
	hasher.On("Hash", "secret-password").Return("hashed", nil)
	svc, bus, _ := newAccountService(t, hasher)
	rec := newRecorder(bus, event.TypeAccountCreated)

	account, err := svc.Register(context.Background(), "alice", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "hashed", account.PasswordHash)
	assert.Equal(t, entity.AccountCreated, account.State)

	events := rec.all()
	require.Len(t, events, 1)
	created := events[0].(event.AccountCreated)
	assert.Equal(t, account.ID, created.AccountID)

	// The drain transferred ownership: nothing is left on the entity.
	assert.Empty(t, account.Events())
	hasher.AssertExpectations(t)
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc, _, _ := newAccountService(t, &MockHasher{})

	_, err := svc.Register(context.Background(), "al", "secret-password")
	assert.Equal(t, errs.CodeValidation, errs.CodeOf(err))

	_, err = svc.Register(context.Background(), "alice", "short")
	assert.Equal(t, errs.CodeValidation, errs.CodeOf(err))
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	svc, _, _ := newAccountService(t, plainHasher{})

	_, err := svc.Register(context.Background(), "alice", "secret-password")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "ALICE", "other-password")
	assert.ErrorIs(t, err, errs.ErrUsernameTaken)
}

func TestAccountService_Authenticate(t *testing.T) {
	svc, _, _ := newAccountService(t, plainHasher{})
	account, err := svc.Register(context.Background(), "alice", "secret-password")
	require.NoError(t, err)

	t.Run("success sets last login", func(t *testing.T) {
		got, err := svc.Authenticate(context.Background(), "alice", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
		require.NotNil(t, got.LastLoginAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("unknown username maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody", "secret-password")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("banned account is locked out", func(t *testing.T) {
		_, err := svc.Ban(context.Background(), account.ID, "cheating")
		require.NoError(t, err)
		_, err = svc.Authenticate(context.Background(), "alice", "secret-password")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestAccountService_Transitions(t *testing.T) {
	svc, bus, _ := newAccountService(t, plainHasher{})
	rec := newRecorder(bus,
		event.TypeAccountStateChanged,
		event.TypeAccountStateRejected,
		event.TypeAccountBanned,
	)

	account, err := svc.Register(context.Background(), "bob", "secret-password")
	require.NoError(t, err)

	ok, err := svc.Activate(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Ban(context.Background(), account.ID, "abuse")
	require.NoError(t, err)
	assert.True(t, ok)

	// Banned accounts cannot be suspended; the rejection is an event, not an
	// error.
	ok, err = svc.Suspend(context.Background(), account.ID, time.Hour, "spam")
	require.NoError(t, err)
	assert.False(t, ok)

	var types []event.Type
	for _, e := range rec.all() {
		types = append(types, e.EventType())
	}
	assert.Equal(t, []event.Type{
		event.TypeAccountStateChanged, // Created -> Activated
		event.TypeAccountStateChanged, // Activated -> Banned
		event.TypeAccountBanned,
		event.TypeAccountStateRejected, // Banned -> Suspended refused
	}, types)

	// The rejected transition left the persisted state untouched.
	stored, err := svc.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccountBanned, stored.State)
}

func TestAccountService_Ban_RequiresReason(t *testing.T) {
	svc, _, _ := newAccountService(t, plainHasher{})
	account, err := svc.Register(context.Background(), "carol", "secret-password")
	require.NoError(t, err)

	_, err = svc.Ban(context.Background(), account.ID, "  ")
	assert.Equal(t, errs.CodeValidation, errs.CodeOf(err))
}

func TestAccountService_Delete_IsTerminal(t *testing.T) {
	svc, _, _ := newAccountService(t, plainHasher{})
	account, err := svc.Register(context.Background(), "dave", "secret-password")
	require.NoError(t, err)

	ok, err := svc.Delete(context.Background(), account.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, target := range entity.AccountStates {
		if target == entity.AccountDeleted {
			continue
		}
		stored, err := svc.GetByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.False(t, entity.IsValidTransition(stored.State, target))
	}
}
