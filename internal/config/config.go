// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/barguni/auth/internal/telemetry"
	"github.com/barguni/auth/pkg/db"
	"github.com/barguni/auth/pkg/logger"
	"github.com/barguni/auth/pkg/oauth"
	"github.com/barguni/auth/pkg/redis"
	"github.com/barguni/auth/pkg/token"
)

// Account store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

var ErrUnknownStore = errors.New("config: unknown account store")

// Config is the full server configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	AccountStore string `env:"ACCOUNT_STORE" envDefault:"memory"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"barguni.db"`

	OAuthStateTTL time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`

	Token     token.Config
	Google    oauth.GoogleConfig
	Kakao     oauth.KakaoConfig
	Database  db.Config
	Redis     redis.Config
	Log       logger.Config
	Telemetry telemetry.Config
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AccountStore = strings.ToLower(strings.TrimSpace(cfg.AccountStore))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.AccountStore {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Database.ConnectionString == "" {
			return fmt.Errorf("config: %s store requires DATABASE_CONN_URL", StorePostgres)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.AccountStore)
	}
	return nil
}
