// Package service contains the domain services: orchestration of entities,
// repositories and the event bus into the operations the command layer and
// the admin surface call.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/platform/metrics"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository"
)

// PasswordHasher is the hashing port. Implemented by platform/password.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) bool
}

// AccountService owns the account lifecycle: registration, authentication and
// the moderation transitions. Every unit of work ends with a single drain of
// the touched entities' events into the bus.
type AccountService struct {
	accounts repository.AccountRepository
	hasher   PasswordHasher
	bus      *event.Bus
	logger   *zap.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(accounts repository.AccountRepository, hasher PasswordHasher, bus *event.Bus, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		hasher:   hasher,
		bus:      bus,
		logger:   logger,
	}
}

// publish drains the entity's recorded events into the bus. Ownership of the
// events transfers here; a second drain of the same entity yields nothing.
func publish(ctx context.Context, bus *event.Bus, events []event.Event) {
	for _, e := range events {
		bus.Publish(ctx, e)
	}
}

// Register creates a new account in the Created state. The password is hashed
// through the port; the plaintext is validated here (minimum 8 characters)
// and never stored.
func (s *AccountService) Register(ctx context.Context, username, password string) (*entity.Account, error) {
	if len(strings.TrimSpace(username)) < 3 {
		return nil, errs.NewValidation("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return nil, errs.NewValidation("password must be at least 8 characters")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, errs.NewInternal("failed to hash password", err)
	}

	account, err := entity.NewAccount(username, hash)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Add(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("username", account.Username),
	)
	publish(ctx, s.bus, account.DrainEvents())
	return account, nil
}

// Authenticate verifies credentials for username. Unknown accounts and wrong
// passwords both map to ErrInvalidCredentials; a lockout state (banned,
// deleted, locked, suspended) does the same without touching LastLoginAt.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*entity.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errs.IsNotFound(err) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.Authenticate(password, s.hasher.Verify) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, errs.ErrInvalidCredentials
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Warn("failed to persist last login time",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return account, nil
}

// Activate moves the account into the Activated state. A policy rejection
// returns false with the rejection event already published.
func (s *AccountService) Activate(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return s.transition(ctx, accountID, func(a *entity.Account) (bool, error) {
		return a.Activate(), nil
	})
}

// Lock moves the account into the Locked state.
func (s *AccountService) Lock(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return s.transition(ctx, accountID, func(a *entity.Account) (bool, error) {
		return a.Lock(), nil
	})
}

// Ban moves the account into the Banned state. The reason is mandatory.
func (s *AccountService) Ban(ctx context.Context, accountID uuid.UUID, reason string) (bool, error) {
	return s.transition(ctx, accountID, func(a *entity.Account) (bool, error) {
		return a.Ban(reason)
	})
}

// Suspend moves the account into the Suspended state for the given duration.
func (s *AccountService) Suspend(ctx context.Context, accountID uuid.UUID, duration time.Duration, reason string) (bool, error) {
	return s.transition(ctx, accountID, func(a *entity.Account) (bool, error) {
		return a.Suspend(duration, reason)
	})
}

// Delete moves the account into the terminal Deleted state.
func (s *AccountService) Delete(ctx context.Context, accountID uuid.UUID) (bool, error) {
	return s.transition(ctx, accountID, func(a *entity.Account) (bool, error) {
		return a.Delete(), nil
	})
}

// transition runs one lifecycle operation as a unit of work: load, apply,
// persist on success, publish whatever the entity recorded. A rejected
// transition publishes its rejection event but skips the update.
func (s *AccountService) transition(ctx context.Context, accountID uuid.UUID, apply func(*entity.Account) (bool, error)) (bool, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return false, err
	}

	ok, err := apply(account)
	if err != nil {
		return false, err
	}
	if ok {
		if err := s.accounts.Update(ctx, account); err != nil {
			return false, err
		}
	}
	publish(ctx, s.bus, account.DrainEvents())
	return ok, nil
}

// GetByID loads an account.
func (s *AccountService) GetByID(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// GetByUsername loads an account by username, case-insensitively.
func (s *AccountService) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}
