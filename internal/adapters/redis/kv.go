package redis

// Package redis provides Redis-based adapters for the driftline session core.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/driftline/driftline/internal/ports"
)

// KV is the production credential-storage backing. Multi-key writes use a
// single MSET so a concurrent reader never observes a half-written pair.
// Entries carry a TTL so abandoned browser sessions age out.
type KV struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Options groups constructor parameters for KV.
type Options struct {
	Client redis.UniversalClient
	Prefix string        // key namespace, e.g. "cred:"
	TTL    time.Duration // 0 means no expiry
}

// NewKV creates a Redis-backed KV store.
func NewKV(opts Options) *KV {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "cred:"
	}
	return &KV{client: opts.Client, prefix: prefix, ttl: opts.TTL}
}

var _ ports.KV = (*KV)(nil)

func (s *KV) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *KV) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KV) SetMulti(ctx context.Context, pairs map[string]string) error {
	if len(pairs) == 0 {
		return nil
	}

	// MSET is atomic but has no TTL argument; apply expiries in the same
	// pipeline. A reader racing the pipeline sees either no keys or all
	// values (MSET runs first).
	pipe := s.client.TxPipeline()
	args := make([]any, 0, len(pairs)*2)
	for k, v := range pairs {
		args = append(args, s.prefix+k, v)
	}
	pipe.MSet(ctx, args...)
	if s.ttl > 0 {
		for k := range pairs {
			pipe.Expire(ctx, s.prefix+k, s.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
