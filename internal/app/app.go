package app

import (
	"context"
	"fmt"
	"time"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/config"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/constants"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/repositories"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	maxRetries       = 5
	connectTimeout   = 5 * time.Second
	initialBackoff   = 500 * time.Millisecond
	migrationTimeout = time.Minute
)

type App struct {
	Config  *config.Config
	Store   repositories.Store
	Revoked repositories.RevocationStore

	// DB and Redis stay nil when their backing service is not configured.
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	switch cfg.StoreDriver {
	case constants.StoreDriverPostgres:
		pool, err := connectWithRetry(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		app.DB = pool

		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()
		if err := repositories.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		app.Store = repositories.NewPostgresStore(pool)
	default:
		utils.Logger.Warn("Using in-memory store; data is lost on restart.")
		app.Store = repositories.NewMemoryStore()
	}

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		client, err := repositories.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.Redis = client
		app.Revoked = repositories.NewRedisRevocationStore(client)
		utils.Logger.Info("Token revocation backed by Redis.")
	} else {
		app.Revoked = repositories.NewMemoryRevocationStore()
	}

	return app, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	if a.DB != nil {
		utils.Logger.Info("DB connection closed.")
	}
}

func connectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("Connected to DB on attempt %d", i)
			return dbPool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		if i == maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
