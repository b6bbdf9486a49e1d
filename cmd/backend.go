package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kozaktomas/facegate/internal/cache"
	"github.com/kozaktomas/facegate/internal/config"
	"github.com/kozaktomas/facegate/internal/database"
	"github.com/kozaktomas/facegate/internal/database/mariadb"
	"github.com/kozaktomas/facegate/internal/database/postgres"
)

// janitorInterval is how often the in-process cache drops expired entries.
const janitorInterval = time.Minute

// openDatabase connects the configured driver, applies migrations and
// registers its repository. The returned func closes the pool.
func openDatabase(cfg *config.DatabaseConfig, logger *slog.Logger) (database.NeighborhoodWriter, func() error, error) {
	switch cfg.Driver {
	case database.DriverPostgres:
		pool, err := postgres.Initialize(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		repo := postgres.NewNeighborhoodRepository(pool)
		database.RegisterBackend(cfg.Driver, func() database.NeighborhoodWriter { return repo })
		logger.Info("using PostgreSQL backend")
		return mustWriter(cfg.Driver), pool.Close, nil
	case database.DriverMySQL:
		pool, err := mariadb.Initialize(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize MariaDB: %w", err)
		}
		repo := mariadb.NewNeighborhoodRepository(pool)
		database.RegisterBackend(cfg.Driver, func() database.NeighborhoodWriter { return repo })
		logger.Info("using MariaDB backend")
		return mustWriter(cfg.Driver), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.Driver)
	}
}

// mustWriter fetches a writer that was registered a moment ago.
func mustWriter(driver string) database.NeighborhoodWriter {
	w, err := database.GetNeighborhoodWriter(driver)
	if err != nil {
		panic(fmt.Sprintf("backend %s not registered: %v", driver, err))
	}
	return w
}

// openCacheStore returns Redis when REDIS_ADDR is set and the in-process
// store otherwise. The returned func releases the store.
func openCacheStore(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Store, func() error, error) {
	if cfg.RedisAddr == "" {
		store := cache.NewMemoryStore()
		store.StartJanitor(ctx, janitorInterval)
		logger.Info("using in-memory cache store")
		return store, func() error { return nil }, nil
	}

	store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using Redis cache store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return store, store.Close, nil
}
