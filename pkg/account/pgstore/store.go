// Package pgstore is the PostgreSQL implementation of account.Store.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolation = "23505"

const columns = `id, email, display_name, default_basket_id, created_at, updated_at`

// Store persists accounts in PostgreSQL. The accounts_email_key constraint
// is what makes concurrent Resolve calls converge.
type Store struct {
	pool *pgxpool.Pool
}

var _ account.Store = (*Store)(nil)

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	return db.MigratePool(ctx, pool, sub, table, log)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (account.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+columns+` FROM accounts WHERE email = $1`, email)
	return scan(row)
}

func (s *Store) FindByID(ctx context.Context, id string) (account.Account, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+columns+` FROM accounts WHERE id = $1`, id)
	return scan(row)
}

func (s *Store) Create(ctx context.Context, a account.Account) (account.Account, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, email, display_name, default_basket_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+columns,
		a.ID, a.Email, a.DisplayName, a.DefaultBasketID, a.CreatedAt, a.UpdatedAt,
	)
	created, err := scan(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return account.Account{}, account.ErrConflict
		}
		return account.Account{}, err
	}
	return created, nil
}

func (s *Store) UpdateDisplayName(ctx context.Context, id, displayName string, at time.Time) (account.Account, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE accounts SET display_name = $2, updated_at = $3 WHERE id = $1 RETURNING `+columns,
		id, displayName, at,
	)
	return scan(row)
}

func scan(row pgx.Row) (account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.DefaultBasketID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return account.Account{}, account.ErrNotFound
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("pgstore: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}
