package sqlitestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/account/sqlitestore"
	"github.com/barguni/auth/pkg/logger"
)

func openStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	store, err := sqlitestore.Open(context.Background(), filepath.Join(t.TempDir(), "accounts.db"), logger.NewNope())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()
	_, err := sqlitestore.Open(context.Background(), " ", nil)
	require.Error(t, err)
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.Healthcheck(ctx))

	created, err := store.Create(ctx, account.Account{ID: "01A", Email: "a@b.com", DisplayName: "A"})
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	byEmail, err := store.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, created, byEmail)
	require.Nil(t, byEmail.DefaultBasketID)

	_, err = store.Create(ctx, account.Account{ID: "01B", Email: "a@b.com", DisplayName: "dup"})
	require.ErrorIs(t, err, account.ErrConflict)

	_, err = store.FindByEmail(ctx, "nobody@b.com")
	require.ErrorIs(t, err, account.ErrNotFound)

	renamed, err := store.UpdateDisplayName(ctx, "01A", "Alice", created.UpdatedAt)
	require.NoError(t, err)
	require.Equal(t, "Alice", renamed.DisplayName)
	require.Equal(t, "a@b.com", renamed.Email)

	_, err = store.UpdateDisplayName(ctx, "missing", "X", created.UpdatedAt)
	require.ErrorIs(t, err, account.ErrNotFound)
}

func TestStore_ConcurrentResolve(t *testing.T) {
	t.Parallel()

	store := openStore(t)

	const n = 24
	ids := make([]string, n)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			a, err := account.NewResolver(store).Resolve(context.Background(), "race@b.com", "Racer")
			ids[i] = a.ID
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, got := range ids {
		require.Equal(t, ids[0], got)
	}
}
