//go:build integration

package pgstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/account/pgstore"
	"github.com/barguni/auth/pkg/db"
	"github.com/barguni/auth/pkg/id"
	"github.com/barguni/auth/pkg/logger"
)

func setupStore(t *testing.T) *pgstore.Store {
	t.Helper()

	url := os.Getenv("DATABASE_CONN_URL")
	if url == "" {
		t.Skip("DATABASE_CONN_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, db.Config{ConnectionString: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pgstore.Migrate(ctx, pool, "schema_migrations", logger.NewNope()))
	return pgstore.New(pool)
}

func TestStore_CreateAndFind(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	email := id.NewULID() + "@example.com"

	r := account.NewResolver(store)
	created, err := r.Resolve(ctx, email, "Tester")
	require.NoError(t, err)

	byEmail, err := store.FindByEmail(ctx, created.Email)
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byID, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Email, byID.Email)

	_, err = store.Create(ctx, account.Account{ID: id.NewULID(), Email: created.Email, DisplayName: "dup"})
	require.ErrorIs(t, err, account.ErrConflict)

	_, err = store.FindByID(ctx, "missing")
	require.ErrorIs(t, err, account.ErrNotFound)
}

func TestStore_ConcurrentResolve(t *testing.T) {
	store := setupStore(t)
	email := id.NewULID() + "@example.com"

	// Separate resolvers stand in for separate server instances.
	const n = 16
	ids := make([]string, n)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			a, err := account.NewResolver(store).Resolve(context.Background(), email, "Racer")
			ids[i] = a.ID
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, got := range ids {
		require.Equal(t, ids[0], got)
	}
}
