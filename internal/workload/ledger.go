// Package workload maintains the per-handler active-assignment counters.
package workload

import (
	"fmt"

	"github.com/liberhite/Aplikasipengajuan/internal/repository"
)

// Ledger mutates handler workload counts through the handler repository.
// Each operation is a read-modify-write; the caller must hold the same lock
// that serializes the assignment write triggering the mutation.
type Ledger struct {
	handlers repository.HandlerRepository
}

// NewLedger creates a ledger over the handler repository.
func NewLedger(handlers repository.HandlerRepository) *Ledger {
	return &Ledger{handlers: handlers}
}

// Increment adds one to the handler's workload.
func (l *Ledger) Increment(email string) error {
	h, err := l.handlers.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("increment workload for %s: %w", email, err)
	}
	return l.handlers.UpdateWorkload(email, h.Workload+1)
}

// Decrement subtracts one from the handler's workload, clamping at zero so
// the count never violates the non-negative invariant.
func (l *Ledger) Decrement(email string) error {
	h, err := l.handlers.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("decrement workload for %s: %w", email, err)
	}
	next := h.Workload - 1
	if next < 0 {
		next = 0
	}
	return l.handlers.UpdateWorkload(email, next)
}
