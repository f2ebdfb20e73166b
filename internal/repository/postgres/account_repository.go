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

const uniqueViolation = "23505"

// AccountRepository implements repository.AccountRepository on PostgreSQL.
// The character association is derived from the characters table, so the
// account row itself stays flat.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository wraps a pgx pool.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByID implements repository.AccountRepository.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	const query = `
		SELECT id, username, password_hash, state, created_at, last_login_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(ctx, r.pool.QueryRow(ctx, query, id))
}

// GetByUsername implements repository.AccountRepository. The lookup is
// case-insensitive, matching the unique index on lower(username).
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	const query = `
		SELECT id, username, password_hash, state, created_at, last_login_at
		FROM accounts
		WHERE lower(username) = lower($1)
	`
	return r.scanAccount(ctx, r.pool.QueryRow(ctx, query, username))
}

func (r *AccountRepository) scanAccount(ctx context.Context, row pgx.Row) (*entity.Account, error) {
	account := &entity.Account{}
	var state int16
	err := row.Scan(
		&account.ID, &account.Username, &account.PasswordHash,
		&state, &account.CreatedAt, &account.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	account.State = entity.AccountState(state)

	if err := r.loadCharacterIDs(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) loadCharacterIDs(ctx context.Context, account *entity.Account) error {
	const query = `SELECT id FROM characters WHERE account_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, account.ID)
	if err != nil {
		return fmt.Errorf("load character ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan character id: %w", err)
		}
		account.CharacterIDs = append(account.CharacterIDs, id)
	}
	return rows.Err()
}

// Add implements repository.AccountRepository. A duplicate username maps to
// errs.ErrUsernameTaken.
func (r *AccountRepository) Add(ctx context.Context, account *entity.Account) error {
	const query = `
		INSERT INTO accounts (id, username, password_hash, state, created_at, last_login_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		account.ID, account.Username, account.PasswordHash,
		int16(account.State), account.CreatedAt, account.LastLoginAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.ErrUsernameTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Update implements repository.AccountRepository.
func (r *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	const query = `
		UPDATE accounts
		SET username = $2, password_hash = $3, state = $4, last_login_at = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		account.ID, account.Username, account.PasswordHash,
		int16(account.State), account.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// Delete implements repository.AccountRepository.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// Exists implements repository.AccountRepository.
func (r *AccountRepository) Exists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(username) = lower($1))`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account existence: %w", err)
	}
	return exists, nil
}
