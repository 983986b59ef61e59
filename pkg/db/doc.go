// Package db wraps pgxpool connection setup and goose migrations.
//
// Connect retries the initial connection and ping. Migrate runs embedded
// goose migrations against any database/sql handle (PostgreSQL through
// MigratePool, SQLite directly). Healthcheck and Shutdown plug the pool into
// the readiness endpoint and the server's shutdown sequence.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.MigratePool(ctx, pool, migrations, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
package db
