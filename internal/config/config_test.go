package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/barguni/auth/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, config.StoreMemory, cfg.AccountStore)
	require.Equal(t, 10*time.Minute, cfg.OAuthStateTTL)
	require.Equal(t, "barguni", cfg.Token.Issuer)
	require.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
	require.Equal(t, 14*24*time.Hour, cfg.Token.RefreshTTL)
	require.Equal(t, "https://kapi.kakao.com/v2/user/me", cfg.Kakao.UserInfoURL)
	require.False(t, cfg.Google.Enabled())
	require.False(t, cfg.Redis.Enabled())
	require.False(t, cfg.Telemetry.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ACCOUNT_STORE", " SQLite ")
	t.Setenv("SQLITE_PATH", "/tmp/accounts.db")
	t.Setenv("GOOGLE_OAUTH_CLIENT_ID", "google-id")
	t.Setenv("GOOGLE_OAUTH_SCOPES", "openid,email")
	t.Setenv("TOKEN_ACCESS_TTL", "5m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, config.StoreSQLite, cfg.AccountStore)
	require.Equal(t, "/tmp/accounts.db", cfg.SQLitePath)
	require.True(t, cfg.Google.Enabled())
	require.Equal(t, []string{"openid", "email"}, cfg.Google.Scopes)
	require.Equal(t, 5*time.Minute, cfg.Token.AccessTTL)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidStore(t *testing.T) {
	t.Setenv("ACCOUNT_STORE", "mongo")

	_, err := config.Load()
	require.ErrorIs(t, err, config.ErrUnknownStore)
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	t.Setenv("ACCOUNT_STORE", "postgres")
	t.Setenv("DATABASE_CONN_URL", "")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("DATABASE_CONN_URL", "postgres://u:p@localhost:5432/db")
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.StorePostgres, cfg.AccountStore)
}
