package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/repository"
)

// CacheInvalidator drops cached character lists after a write. Implemented by
// the Redis read-through cache; nil disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, accountID uuid.UUID)
}

// CharacterService owns character creation and the gameplay behaviors. Each
// behavior is a unit of work: load, mutate through the entity, persist,
// publish the drained events.
type CharacterService struct {
	characters repository.CharacterRepository
	accounts   repository.AccountRepository
	cache      CacheInvalidator
	bus        *event.Bus
	logger     *zap.Logger
}

// NewCharacterService creates a CharacterService. cache may be nil.
func NewCharacterService(characters repository.CharacterRepository, accounts repository.AccountRepository, cache CacheInvalidator, bus *event.Bus, logger *zap.Logger) *CharacterService {
	return &CharacterService{
		characters: characters,
		accounts:   accounts,
		cache:      cache,
		bus:        bus,
		logger:     logger,
	}
}

// Create builds a character for the account, persists it and records the
// association on the account. Name uniqueness is enforced by the repository.
func (s *CharacterService) Create(ctx context.Context, accountID uuid.UUID, name string, stats entity.Stats, vital entity.Vital, box entity.BoundingBox, floor int) (*entity.Character, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	character, err := entity.NewCharacter(accountID, name, stats, vital, box, floor)
	if err != nil {
		return nil, err
	}
	if err := s.characters.Add(ctx, character); err != nil {
		return nil, err
	}

	account.AttachCharacter(character.ID)
	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Error("failed to persist character association",
			zap.String("account_id", accountID.String()),
			zap.String("character_id", character.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	s.invalidate(ctx, accountID)

	s.logger.Info("character created",
		zap.String("character_id", character.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("name", character.Name),
	)
	publish(ctx, s.bus, character.DrainEvents())
	return character, nil
}

// Get loads a character.
func (s *CharacterService) Get(ctx context.Context, characterID uuid.UUID) (*entity.Character, error) {
	return s.characters.GetByID(ctx, characterID)
}

// GetByName loads a character by name, case-insensitively.
func (s *CharacterService) GetByName(ctx context.Context, name string) (*entity.Character, error) {
	return s.characters.GetByName(ctx, name)
}

// ListByAccount loads the characters of an account.
func (s *CharacterService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Character, error) {
	return s.characters.ListByAccount(ctx, accountID)
}

// Move steps the character one unit in dir and persists the result.
func (s *CharacterService) Move(ctx context.Context, characterID uuid.UUID, dir entity.Direction) error {
	return s.behavior(ctx, characterID, func(c *entity.Character) {
		c.Move(dir)
	})
}

// StopMoving transitions the character out of the walking state.
func (s *CharacterService) StopMoving(ctx context.Context, characterID uuid.UUID) error {
	return s.behavior(ctx, characterID, func(c *entity.Character) {
		c.StopMoving()
	})
}

// Revive brings a dead character back at the given fraction of max health.
func (s *CharacterService) Revive(ctx context.Context, characterID uuid.UUID, healthPct float64) error {
	return s.behavior(ctx, characterID, func(c *entity.Character) {
		c.Revive(healthPct)
	})
}

// Attack resolves an attack between two persisted characters. Both sides are
// persisted afterwards: the attacker's state changed, the target took damage
// and may have died. roll draws the damage variance; nil uses the default
// random source.
func (s *CharacterService) Attack(ctx context.Context, attackerID, targetID uuid.UUID, roll func() float64) error {
	attacker, err := s.characters.GetByID(ctx, attackerID)
	if err != nil {
		return err
	}
	target, err := s.characters.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	attacker.Attack(target, roll)

	if err := s.characters.Update(ctx, attacker); err != nil {
		return err
	}
	if err := s.characters.Update(ctx, target); err != nil {
		return err
	}
	s.invalidate(ctx, attacker.AccountID)
	if target.AccountID != attacker.AccountID {
		s.invalidate(ctx, target.AccountID)
	}

	publish(ctx, s.bus, attacker.DrainEvents())
	publish(ctx, s.bus, target.DrainEvents())
	return nil
}

func (s *CharacterService) behavior(ctx context.Context, characterID uuid.UUID, apply func(*entity.Character)) error {
	character, err := s.characters.GetByID(ctx, characterID)
	if err != nil {
		return err
	}
	apply(character)
	if err := s.characters.Update(ctx, character); err != nil {
		return err
	}
	s.invalidate(ctx, character.AccountID)
	publish(ctx, s.bus, character.DrainEvents())
	return nil
}

func (s *CharacterService) invalidate(ctx context.Context, accountID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, accountID)
	}
}
