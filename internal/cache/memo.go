package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Memo caches results of one operation, keyed by its serialized arguments.
// Store failures are logged and treated as misses.
type Memo[T any] struct {
	store     Store
	namespace string
	ttl       time.Duration
}

// NewMemo returns a Memo writing into store under namespace.
func NewMemo[T any](store Store, namespace string, ttl time.Duration) *Memo[T] {
	return &Memo[T]{store: store, namespace: namespace, ttl: ttl}
}

// Key serializes args into a stable key within the memo namespace.
func (m *Memo[T]) Key(args ...any) string {
	if m == nil {
		return ""
	}
	raw, err := json.Marshal(args)
	if err != nil {
		log.Warn().Err(err).Str("namespace", m.namespace).Msg("cache: key serialization failed")
		return ""
	}
	sum := sha256.Sum256(raw)
	return m.namespace + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached value for key, if any.
func (m *Memo[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if m == nil || m.store == nil || key == "" {
		return zero, false
	}

	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("namespace", m.namespace).Msg("cache: read failed")
		return zero, false
	}
	if !ok {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warn().Err(err).Str("namespace", m.namespace).Msg("cache: decode failed")
		return zero, false
	}
	return value, true
}

// Set stores value under key for the memo TTL.
func (m *Memo[T]) Set(ctx context.Context, key string, value T) {
	if m == nil || m.store == nil || key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("namespace", m.namespace).Msg("cache: encode failed")
		return
	}
	if err := m.store.Set(ctx, key, raw, m.ttl); err != nil {
		log.Warn().Err(err).Str("namespace", m.namespace).Msg("cache: write failed")
	}
}
