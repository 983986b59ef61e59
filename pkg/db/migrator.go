package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Migrate applies the goose migrations in fsys to a database/sql handle.
// Each call builds its own goose provider, so stores with different dialects
// can migrate concurrently.
func Migrate(ctx context.Context, db *sql.DB, dialect database.Dialect, fsys fs.FS, table string, log *slog.Logger) error {
	if table == "" {
		table = "schema_migrations"
	}
	store, err := database.NewStore(dialect, table)
	if err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	provider, err := goose.NewProvider("", db, fsys, goose.WithStore(store))
	if err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	if log != nil {
		for _, r := range results {
			log.InfoContext(ctx, "migration applied",
				slog.String("dialect", string(dialect)),
				slog.Int64("version", r.Source.Version),
				slog.Duration("duration", r.Duration),
			)
		}
	}
	return nil
}

// MigratePool runs Migrate against a pgx pool through the database/sql bridge.
// The bridge shares the pool's connections, so it is not closed here.
func MigratePool(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, table string, log *slog.Logger) error {
	return Migrate(ctx, stdlib.OpenDBFromPool(pool), database.DialectPostgres, fsys, table, log)
}
