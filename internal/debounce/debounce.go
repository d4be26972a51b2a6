// Package debounce coalesces bursts of repeated trigger requests into a
// single delayed action. It is a coalescing mechanism, not a rate
// limiter: N calls under the same key within the delay window run the
// action exactly once, for the last caller.
package debounce

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Debouncer tracks the latest registered request per key. The zero value
// is not usable; call New.
type Debouncer struct {
	mu     sync.Mutex
	latest map[string]string
}

// New creates an empty debouncer.
func New() *Debouncer {
	return &Debouncer{latest: make(map[string]string)}
}

// register records a new ticket as the latest request under key.
func (d *Debouncer) register(key string) string {
	ticket := uuid.NewString()

	d.mu.Lock()
	d.latest[key] = ticket
	d.mu.Unlock()

	return ticket
}

// claim reports whether ticket is still the latest request under key,
// and if so clears the slot so the winner runs exactly once.
func (d *Debouncer) claim(key, ticket string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.latest[key] != ticket {
		return false
	}

	delete(d.latest, key)

	return true
}

// Do registers the call as the latest request under key, waits delay,
// and runs action only if no later call under the same key arrived in
// the meantime. The second return value reports whether the action ran;
// superseded calls (and calls whose context expires while waiting)
// return the zero value and false.
//
// Calls under different keys are fully independent.
func Do[T any](ctx context.Context, d *Debouncer, key string, delay time.Duration, action func() T) (T, bool) {
	var zero T

	ticket := d.register(key)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return zero, false
	case <-timer.C:
	}

	if !d.claim(key, ticket) {
		return zero, false
	}

	return action(), true
}
