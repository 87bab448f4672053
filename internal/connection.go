package internal

import (
	"context"
	"sync"
)

// ConnectionManager gates a deferred, one-time initialization step (the lazy
// first login) so that goroutines racing to make the first request share a
// single attempt instead of each triggering their own.
type ConnectionManager struct {
	once  sync.Once
	err   error
	ready chan struct{}
}

// NewConnectionManager returns an uninitialized gate.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{ready: make(chan struct{})}
}

// Initialize runs fn exactly once across all callers. The first caller's
// context drives the attempt; everyone else blocks until it settles and then
// returns the shared result.
func (cm *ConnectionManager) Initialize(ctx context.Context, fn func(context.Context) error) error {
	cm.once.Do(func() {
		cm.err = fn(ctx)
		close(cm.ready)
	})
	<-cm.ready
	return cm.err
}

// Err returns the settled initialization error, or nil if initialization
// has not been attempted yet.
func (cm *ConnectionManager) Err() error {
	select {
	case <-cm.ready:
		return cm.err
	default:
		return nil
	}
}

// Initialized reports whether an initialization attempt has settled.
func (cm *ConnectionManager) Initialized() bool {
	select {
	case <-cm.ready:
		return true
	default:
		return false
	}
}
