package syncengine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSyncInProgress is returned by registerSync when identity already
// has an active run.
var ErrSyncInProgress = errors.New("sync in progress")

// ErrSyncNotFound is returned by cancelSync when identity has no
// active run.
var ErrSyncNotFound = errors.New("not found")

// syncHandle is the cancellation tripwire for one in-flight run,
// carrying a token used only for structured log correlation.
type syncHandle struct {
	token  string
	cancel context.CancelFunc
}

// registry is the active-syncs map: the only cross-task shared mutable
// state beyond the Store's connection, guarded by its own mutex and
// never held across a suspension point.
type registry struct {
	mu      sync.Mutex
	running map[string]*syncHandle
}

func newRegistry() *registry {
	return &registry{running: make(map[string]*syncHandle)}
}

// register admits identity into the active-syncs map and returns a
// context that cancelSync will trip, plus the token assigned to this
// run for log correlation.
func (r *registry) register(ctx context.Context, identity string) (context.Context, context.CancelFunc, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.running[identity]; exists {
		return nil, nil, "", ErrSyncInProgress
	}

	runCtx, cancel := context.WithCancel(ctx)
	token := uuid.New().String()
	r.running[identity] = &syncHandle{token: token, cancel: cancel}
	return runCtx, cancel, token, nil
}

// cancel trips the stored cancellation handle for identity.
func (r *registry) cancel(identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, exists := r.running[identity]
	if !exists {
		return ErrSyncNotFound
	}
	h.cancel()
	return nil
}

// unregister removes identity from the active-syncs map. Called after
// every run regardless of outcome.
func (r *registry) unregister(identity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, identity)
}

func (r *registry) isActive(identity string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.running[identity]
	return exists
}
