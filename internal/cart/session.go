package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/servease/servease-backend/pkg/errors"
	"github.com/servease/servease-backend/pkg/logger"
	"github.com/servease/servease-backend/pkg/redis"
)

const persistTimeout = 5 * time.Second

// SnapshotStore is the durable-storage surface the session manager needs.
type SnapshotStore interface {
	StoreCartSnapshot(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error
	GetCartSnapshot(ctx context.Context, sessionID string) ([]byte, error)
	DeleteCartSnapshot(ctx context.Context, sessionID string) error
}

// SessionManager rehydrates carts per session id and wires each store's
// change hook back to durable storage. Persistence is fire-and-forget from
// the cart's perspective; write failures are logged, not surfaced to the
// mutation that triggered them.
type SessionManager struct {
	snapshots SnapshotStore
	log       *logger.Logger
	ttl       time.Duration
}

// NewSessionManager validates dependencies and builds a manager.
func NewSessionManager(snapshots SnapshotStore, log *logger.Logger, ttl time.Duration) (*SessionManager, error) {
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("snapshot ttl must be positive")
	}
	return &SessionManager{snapshots: snapshots, log: log, ttl: ttl}, nil
}

// Load rehydrates the cart persisted for sessionID, or returns a fresh cart
// when none exists. The returned store persists itself on every mutation.
func (m *SessionManager) Load(ctx context.Context, sessionID string) (*Store, error) {
	store := NewStore(m.persistHook(sessionID))

	raw, err := m.snapshots.GetCartSnapshot(ctx, sessionID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart snapshot")
	}

	lines, err := UnmarshalSnapshot(raw)
	if err != nil {
		// A corrupt snapshot should not brick the session. Start clean.
		m.log.Error(m.log.WithSessionID(ctx, sessionID), "discarding unreadable cart snapshot", err)
		return store, nil
	}
	if err := store.Restore(lines); err != nil {
		m.log.Error(m.log.WithSessionID(ctx, sessionID), "discarding unrestorable cart snapshot", err)
		return NewStore(m.persistHook(sessionID)), nil
	}
	return store, nil
}

// Drop removes the persisted snapshot, used after checkout and explicit
// clears so an emptied cart does not resurrect.
func (m *SessionManager) Drop(ctx context.Context, sessionID string) error {
	if err := m.snapshots.DeleteCartSnapshot(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting cart snapshot")
	}
	return nil
}

func (m *SessionManager) persistHook(sessionID string) ChangeHook {
	return func(snapshot []LineItem) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		ctx = m.log.WithSessionID(ctx, sessionID)

		if len(snapshot) == 0 {
			if err := m.snapshots.DeleteCartSnapshot(ctx, sessionID); err != nil {
				m.log.Error(ctx, "deleting empty cart snapshot", err)
			}
			return
		}

		raw, err := MarshalSnapshot(snapshot)
		if err != nil {
			m.log.Error(ctx, "serializing cart snapshot", err)
			return
		}
		if err := m.snapshots.StoreCartSnapshot(ctx, sessionID, raw, m.ttl); err != nil {
			m.log.Error(ctx, "persisting cart snapshot", err)
		}
	}
}
