package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "roaster:ratelimit:"

// RedisStore keeps one sorted set per client, scored by request time in milliseconds.
// Keys expire one window after the last request.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a Store backed by rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func key(clientID string) string {
	return keyPrefix + clientID
}

// Count drops entries older than since and returns what is left.
func (s *RedisStore) Count(ctx context.Context, clientID string, since time.Time) (int, error) {
	var card *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key(clientID), "-inf", "("+strconv.FormatInt(since.UnixMilli(), 10))
		card = pipe.ZCard(ctx, key(clientID))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("counting requests for %s: %w", clientID, err)
	}
	return int(card.Val()), nil
}

// Record adds a timestamp entry and refreshes the key's expiry.
func (s *RedisStore) Record(ctx context.Context, clientID string, at time.Time) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key(clientID), redis.Z{
			Score:  float64(at.UnixMilli()),
			Member: strconv.FormatInt(at.UnixNano(), 10) + ":" + uuid.NewString(),
		})
		pipe.Expire(ctx, key(clientID), Window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording request for %s: %w", clientID, err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
