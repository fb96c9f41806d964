package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeduper remembers gateway transaction ids in redis. Check is a
// plain EXISTS; ids are recorded through Mark once the delivery has won
// the status gate. The TTL only bounds memory; the status gate remains
// the real guard.
type RedisDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb, ttl: 24 * time.Hour}
}

// Check reports whether the transaction id was already recorded.
func (d *RedisDeduper) Check(ctx context.Context, transactionID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, "webhook:txn:"+transactionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark records the transaction id.
func (d *RedisDeduper) Mark(ctx context.Context, transactionID string) error {
	return d.rdb.Set(ctx, "webhook:txn:"+transactionID, 1, d.ttl).Err()
}

var _ Deduper = (*RedisDeduper)(nil)
