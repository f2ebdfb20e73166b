package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/entity"
	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/errs"
)

// CharacterRepository implements repository.CharacterRepository on PostgreSQL.
type CharacterRepository struct {
	pool *pgxpool.Pool
}

// NewCharacterRepository wraps a pgx pool.
func NewCharacterRepository(pool *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{pool: pool}
}

const characterColumns = `
	id, account_id, name, strength, defense, agility,
	health, max_health, mana, max_mana,
	x, y, width, height, facing, state, floor
`

// GetByID implements repository.CharacterRepository.
func (r *CharacterRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = $1`
	return scanCharacter(r.pool.QueryRow(ctx, query, id))
}

// GetByName implements repository.CharacterRepository. The lookup is
// case-insensitive, matching the unique index on lower(name).
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*entity.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE lower(name) = lower($1)`
	return scanCharacter(r.pool.QueryRow(ctx, query, name))
}

func scanCharacter(row pgx.Row) (*entity.Character, error) {
	character := &entity.Character{}
	var facing, state int16
	err := row.Scan(
		&character.ID, &character.AccountID, &character.Name,
		&character.Stats.Strength, &character.Stats.Defense, &character.Stats.Agility,
		&character.Vital.Health, &character.Vital.MaxHealth,
		&character.Vital.Mana, &character.Vital.MaxMana,
		&character.Box.X, &character.Box.Y, &character.Box.Width, &character.Box.Height,
		&facing, &state, &character.Floor,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("scan character: %w", err)
	}
	character.Facing = entity.Direction(facing)
	character.State = entity.CharacterState(state)
	return character, nil
}

// Add implements repository.CharacterRepository. A duplicate name maps to
// errs.ErrCharacterNameTaken.
func (r *CharacterRepository) Add(ctx context.Context, character *entity.Character) error {
	const query = `
		INSERT INTO characters (id, account_id, name, strength, defense, agility,
		                        health, max_health, mana, max_mana,
		                        x, y, width, height, facing, state, floor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.pool.Exec(ctx, query,
		character.ID, character.AccountID, character.Name,
		character.Stats.Strength, character.Stats.Defense, character.Stats.Agility,
		character.Vital.Health, character.Vital.MaxHealth,
		character.Vital.Mana, character.Vital.MaxMana,
		character.Box.X, character.Box.Y, character.Box.Width, character.Box.Height,
		int16(character.Facing), int16(character.State), character.Floor,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.ErrCharacterNameTaken
		}
		return fmt.Errorf("insert character: %w", err)
	}
	return nil
}

// Update implements repository.CharacterRepository.
func (r *CharacterRepository) Update(ctx context.Context, character *entity.Character) error {
	const query = `
		UPDATE characters
		SET name = $2, strength = $3, defense = $4, agility = $5,
		    health = $6, max_health = $7, mana = $8, max_mana = $9,
		    x = $10, y = $11, width = $12, height = $13,
		    facing = $14, state = $15, floor = $16
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		character.ID, character.Name,
		character.Stats.Strength, character.Stats.Defense, character.Stats.Agility,
		character.Vital.Health, character.Vital.MaxHealth,
		character.Vital.Mana, character.Vital.MaxMana,
		character.Box.X, character.Box.Y, character.Box.Width, character.Box.Height,
		int16(character.Facing), int16(character.State), character.Floor,
	)
	if err != nil {
		return fmt.Errorf("update character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrCharacterNotFound
	}
	return nil
}

// Delete implements repository.CharacterRepository.
func (r *CharacterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrCharacterNotFound
	}
	return nil
}

// Exists implements repository.CharacterRepository.
func (r *CharacterRepository) Exists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM characters WHERE lower(name) = lower($1))`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check character existence: %w", err)
	}
	return exists, nil
}

// ListByAccount implements repository.CharacterRepository.
func (r *CharacterRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*entity.Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE account_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []*entity.Character
	for rows.Next() {
		character, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, character)
	}
	return out, rows.Err()
}
