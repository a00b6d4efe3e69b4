package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/oKhodus/spy-cat/internal/config"
	"github.com/oKhodus/spy-cat/internal/logger"
	"github.com/oKhodus/spy-cat/internal/repositories"
	"github.com/oKhodus/spy-cat/pkg/catapi"
	"github.com/redis/go-redis/v9"
)

// bootstrap loads the configuration and the logger shared by every command.
func bootstrap() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(os.Stdout, cfg.Logger())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := repositories.Open(ctx, cfg.Dialect(), cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := repositories.Migrate(ctx, db, cfg.Dialect()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newBreedCache returns a Redis cache when REDIS_URL is set and an in-memory
// cache otherwise. The returned close func is never nil.
func newBreedCache(ctx context.Context, cfg config.Config, log *slog.Logger) (catapi.BreedCache, func() error, error) {
	if cfg.RedisURL == "" {
		return catapi.NewMemoryCache(cfg.BreedCacheTTL), func() error { return nil }, nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis.unavailable", "error", err)
	}
	return catapi.NewRedisCache(rdb, cfg.BreedCacheTTL), rdb.Close, nil
}

func newCatAPI(cfg config.Config, cache catapi.BreedCache, log *slog.Logger) *catapi.CatAPIClient {
	return catapi.NewCatAPIClient(cfg.CatAPIURL, cfg.CatAPIMaxRetries, cfg.CatAPIRetryDelay,
		catapi.WithAPIKey(cfg.CatAPIKey),
		catapi.WithLookupTimeout(cfg.CatAPITimeout),
		catapi.WithCache(cache),
		catapi.WithLogger(log.With("component", "catapi")),
	)
}
