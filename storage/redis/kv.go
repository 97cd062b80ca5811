package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// KV implements entitlements.KV on a redis client. Values persist without
// TTL; the entitlement keys are durable state, not a cache.
type KV struct {
	rdb   *redis.Client
	keyNS string
}

// NewKV wraps rdb with a key namespace. An empty prefix defaults to
// "themekit:wardrobe:".
func NewKV(rdb *redis.Client, keyPrefix string) *KV {
	if keyPrefix == "" {
		keyPrefix = "themekit:wardrobe:"
	}
	return &KV{rdb: rdb, keyNS: keyPrefix}
}

func (s *KV) key(k string) string { return s.keyNS + k }

func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}
