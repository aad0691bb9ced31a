package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/servease/servease-backend/pkg/redis"
)

// ErrNoResult is returned when a processed key has no recorded result, which
// happens while the original operation is still in flight.
var ErrNoResult = errors.New("no result recorded for idempotency key")

// Manager tracks processed operation keys per scope using Redis SETNX with a
// TTL. Keys follow the `svz:idempotency:<scope>:<key>` pattern. Checkout uses
// it to answer retried submissions with the originally created order.
type Manager struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewManager builds an idempotency guard that marks keys as processed for the given TTL.
func NewManager(store redis.IdempotencyStore, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &Manager{
		store: store,
		ttl:   ttl,
	}, nil
}

// CheckAndMarkProcessed returns true if the key has already been processed
// and otherwise marks it as processed with the configured TTL.
func (m *Manager) CheckAndMarkProcessed(ctx context.Context, scope, key string) (bool, error) {
	storageKey, err := m.processedKey(scope, key)
	if err != nil {
		return false, err
	}
	set, err := m.store.SetNX(ctx, storageKey, "1", m.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

// StoreResult records the outcome of a processed operation under the key so
// a retried request can be answered with the original result.
func (m *Manager) StoreResult(ctx context.Context, scope, key, result string) error {
	storageKey, err := m.resultKey(scope, key)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, storageKey, result, m.ttl)
}

// Result returns the recorded outcome for a processed key. Keys marked
// processed but without a result yet return ErrNoResult.
func (m *Manager) Result(ctx context.Context, scope, key string) (string, error) {
	storageKey, err := m.resultKey(scope, key)
	if err != nil {
		return "", err
	}
	value, err := m.store.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoResult
		}
		return "", err
	}
	if value == "" {
		return "", ErrNoResult
	}
	return value, nil
}

// Delete clears a processed marker, used when the guarded operation failed
// and a retry should be allowed through.
func (m *Manager) Delete(ctx context.Context, scope, key string) error {
	storageKey, err := m.processedKey(scope, key)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, storageKey)
}

func (m *Manager) processedKey(scope, key string) (string, error) {
	if scope == "" {
		return "", errors.New("scope is required")
	}
	if key == "" {
		return "", errors.New("key is required")
	}
	return m.store.IdempotencyKey(fmt.Sprintf("op:%s", scope), key), nil
}

func (m *Manager) resultKey(scope, key string) (string, error) {
	if scope == "" {
		return "", errors.New("scope is required")
	}
	if key == "" {
		return "", errors.New("key is required")
	}
	return m.store.IdempotencyKey(fmt.Sprintf("result:%s", scope), key), nil
}
