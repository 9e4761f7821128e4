// Package lock serializes the read-decide-write sequences of the
// assignment engine. The backing store has no multi-row transaction, so
// every caller that reads a value it will use to decide a write must hold
// the lock for that key until the dependent writes commit.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeout is returned when a lock cannot be acquired within the wait
// budget. The caller may retry.
var ErrTimeout = errors.New("lock acquire timed out")

// Well-known keys. KeySubmit guards the case-number sequence and the
// workload ledger; reassignment locks per case via CaseKey.
const (
	KeySubmit = "pengajuan:submit"
)

// CaseKey returns the lock key guarding one nomor proses.
func CaseKey(nomor string) string {
	return "pengajuan:case:" + nomor
}

// Registry hands out in-process keyed locks with a bounded wait. Locks are
// created on first use and kept for the life of the registry; the key space
// (one per in-flight case plus the submit key) stays small.
type Registry struct {
	mu      sync.Mutex
	locks   map[string]chan struct{}
	timeout time.Duration
}

// NewRegistry creates a registry whose Acquire waits at most timeout.
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Registry{
		locks:   make(map[string]chan struct{}),
		timeout: timeout,
	}
}

func (r *Registry) sem(key string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	sem, ok := r.locks[key]
	if !ok {
		sem = make(chan struct{}, 1)
		r.locks[key] = sem
	}
	return sem
}

// Acquire takes the lock for key, blocking up to the registry timeout or
// until ctx is done. On success it returns a release function that must be
// called exactly once, after all dependent writes commit.
func (r *Registry) Acquire(ctx context.Context, key string) (func(), error) {
	sem := r.sem(key)

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-sem })
		}, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, errors.Join(ErrTimeout, ctx.Err())
	}
}
