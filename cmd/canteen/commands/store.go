package commands

import (
	"canteen-service/internal/cache"
	"canteen-service/internal/canteen"
	"canteen-service/internal/config"
	"canteen-service/internal/database"
	"canteen-service/internal/repository"
	"canteen-service/internal/repository/memory"
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// backend bundles the opened store with the optional menu cache so both can
// be closed together.
type backend struct {
	store repository.Store
	rdb   *redis.Client
	menu  *cache.CachedMenuRepository
	svc   *canteen.Service
}

func (b *backend) Close() {
	if b.rdb != nil {
		_ = b.rdb.Close()
	}
	_ = b.store.Close()
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.StoreDriver != config.DriverPostgres {
		return nil, fmt.Errorf("command requires STORE_DRIVER=%s", config.DriverPostgres)
	}
	return database.Connect(ctx, cfg.DB)
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		b.store = memory.New()
		logger.Warn("using in-memory store, data is lost on exit")
	default:
		pool, err := database.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		b.store = repository.NewPostgresStore(pool)
	}

	opts := []canteen.Option{canteen.WithLogger(logger)}

	if cfg.Redis.URL != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.rdb = rdb
		b.menu = cache.NewCachedMenuRepository(b.store.Repos().Menu, rdb, cfg.MenuCacheTTL, logger)
		opts = append(opts, canteen.WithMenuRepository(b.menu))
		logger.Info("menu cache enabled", "redis", cfg.Redis.URL, "ttl", cfg.MenuCacheTTL)
	}

	b.svc = canteen.New(b.store, opts...)
	return b, nil
}

// seed loads demo data. Seeding writes the menu inside a store transaction,
// around the cache, so cached listings and not-found markers are dropped
// afterwards.
func (b *backend) seed(ctx context.Context) (*canteen.SeedResult, error) {
	result, err := b.svc.Seed(ctx)
	if err != nil {
		return nil, err
	}
	if b.menu != nil && result.MenuItems > 0 {
		if err := b.menu.InvalidateAll(ctx); err != nil {
			return nil, err
		}
	}
	return result, nil
}
