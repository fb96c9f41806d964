package database

import (
	"context"
	"fmt"
	"time"

	appconfig "syafa-store/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the optional Redis client used for webhook
// transaction-id dedup. Returns nil when no address is configured.
func InitRedis(cfg appconfig.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
