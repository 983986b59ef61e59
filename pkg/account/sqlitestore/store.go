// Package sqlitestore is the SQLite implementation of account.Store.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3/database"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

const columns = `id, email, display_name, default_basket_id, created_at, updated_at`

// Store persists accounts in a SQLite file.
type Store struct {
	sqlDB *sql.DB
}

var _ account.Store = (*Store)(nil)

// Open opens the database at path and applies the embedded migrations.
func Open(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlitestore: path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitestore: ping: %w", err)
	}

	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, sqlDB, database.DialectSQLite3, sub, "schema_migrations", log); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitestore: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Healthcheck pings the database.
func (s *Store) Healthcheck(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (account.Account, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+columns+` FROM accounts WHERE email = ?`, email)
	return scan(row)
}

func (s *Store) FindByID(ctx context.Context, id string) (account.Account, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+columns+` FROM accounts WHERE id = ?`, id)
	return scan(row)
}

func (s *Store) Create(ctx context.Context, a account.Account) (account.Account, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO accounts (`+columns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.DisplayName, nullable(a.DefaultBasketID), toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return account.Account{}, account.ErrConflict
		}
		return account.Account{}, fmt.Errorf("sqlitestore: create account: %w", err)
	}
	a.CreatedAt = fromMillis(toMillis(a.CreatedAt))
	a.UpdatedAt = fromMillis(toMillis(a.UpdatedAt))
	return a, nil
}

func (s *Store) UpdateDisplayName(ctx context.Context, id, displayName string, at time.Time) (account.Account, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE accounts SET display_name = ?, updated_at = ? WHERE id = ?`,
		displayName, toMillis(at), id,
	)
	if err != nil {
		return account.Account{}, fmt.Errorf("sqlitestore: update account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return account.Account{}, account.ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func scan(row *sql.Row) (account.Account, error) {
	var (
		a         account.Account
		basket    sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &basket, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return account.Account{}, account.ErrNotFound
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("sqlitestore: %w", err)
	}
	if basket.Valid {
		a.DefaultBasketID = &basket.String
	}
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return a, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
