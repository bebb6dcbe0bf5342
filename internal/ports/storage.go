package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/session.

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// KV is the persisted key-value backing for the credential store. The
// production implementation is Redis; an in-memory implementation backs
// development and tests. Writes of multiple keys through SetMulti must be
// atomic from a concurrent reader's perspective.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetMulti(ctx context.Context, pairs map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}
