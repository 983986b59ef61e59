// Command server runs the barguni authentication API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/barguni/auth/internal/auth"
	"github.com/barguni/auth/internal/config"
	"github.com/barguni/auth/internal/httpapi"
	"github.com/barguni/auth/internal/telemetry"
	"github.com/barguni/auth/pkg/account"
	"github.com/barguni/auth/pkg/account/pgstore"
	"github.com/barguni/auth/pkg/account/sqlitestore"
	"github.com/barguni/auth/pkg/cache"
	"github.com/barguni/auth/pkg/db"
	"github.com/barguni/auth/pkg/health"
	"github.com/barguni/auth/pkg/logger"
	"github.com/barguni/auth/pkg/oauth"
	"github.com/barguni/auth/pkg/redis"
	"github.com/barguni/auth/pkg/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

// closer runs on shutdown in reverse registration order.
type closer func(context.Context) error

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, httpapi.RequestIDExtractor(), httpapi.AccountIDExtractor())
	defer logger.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []closer
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](shutdownCtx); cerr != nil {
				log.Error("shutdown hook failed", slog.Any("error", cerr))
				err = errors.Join(err, cerr)
			}
		}
	}()

	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	closers = append(closers, tp.Shutdown)

	checks := health.Checks{}

	store, err := openStore(ctx, cfg, log, checks, &closers)
	if err != nil {
		return err
	}
	resolver := account.NewResolver(store)

	codec, err := token.New(cfg.Token)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	if len(registry.Kinds()) == 0 {
		log.Warn("no oauth provider configured; only direct login is available")
	}

	opts := []auth.Option{auth.WithStateTTL(cfg.OAuthStateTTL), auth.WithTracerProvider(tp)}
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		closers = append(closers, redis.Shutdown(client))
		checks["redis"] = redis.Healthcheck(client)
		opts = append(opts, auth.WithStateStore(newStateCache(client, cfg.OAuthStateTTL)))
	}

	svc := auth.NewService(registry, resolver, codec, opts...)
	closers = append(closers, func(context.Context) error { return svc.Close() })

	handler := httpapi.New(svc, resolver,
		httpapi.WithLogger(log),
		httpapi.WithHealthChecks(checks),
	)

	var providerNames []string
	for _, k := range registry.Kinds() {
		providerNames = append(providerNames, k.String())
	}
	log.Info("starting",
		slog.String("store", cfg.AccountStore),
		slog.Bool("redis", cfg.Redis.Enabled()),
		slog.Bool("tracing", cfg.Telemetry.Enabled()),
		slog.Any("providers", providerNames),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.Serve(gctx, httpapi.ServerConfig{
			Addr:            cfg.HTTPAddr,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, handler.Routes(), log, nil)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown completed")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger, checks health.Checks, closers *[]closer) (account.Store, error) {
	switch cfg.AccountStore {
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, db.Shutdown(pool))
		if err := pgstore.Migrate(ctx, pool, cfg.Database.MigrationsTable, log); err != nil {
			return nil, err
		}
		checks["postgres"] = db.Healthcheck(pool)
		return pgstore.New(pool), nil

	case config.StoreSQLite:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func(context.Context) error { return s.Close() })
		checks["sqlite"] = s.Healthcheck
		return s, nil

	default:
		log.Warn("using in-memory account store; accounts are lost on restart")
		return account.NewMemoryStore(), nil
	}
}

func buildRegistry(cfg config.Config) (*oauth.Registry, error) {
	var providers []oauth.Provider
	if cfg.Google.Enabled() {
		p, err := oauth.NewGoogleProvider(cfg.Google)
		if err != nil {
			return nil, fmt.Errorf("google provider: %w", err)
		}
		providers = append(providers, p)
	}
	if cfg.Kakao.Enabled() {
		p, err := oauth.NewKakaoProvider(cfg.Kakao)
		if err != nil {
			return nil, fmt.Errorf("kakao provider: %w", err)
		}
		providers = append(providers, p)
	}
	return oauth.NewRegistry(providers...), nil
}

func newStateCache(client goredis.UniversalClient, ttl time.Duration) cache.Cache[string] {
	return cache.NewRedis[string](client, nil,
		cache.WithPrefix("barguni:oauth-state:"),
		cache.WithRedisDefaultTTL(ttl),
	)
}
