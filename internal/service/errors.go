package service

import (
	"errors"
	"fmt"

	"github.com/liberhite/Aplikasipengajuan/internal/assign"
	"github.com/liberhite/Aplikasipengajuan/internal/lock"
)

// Failure taxonomy. NotFound, HandlerNotFound, NoEligibleHandler and
// Validation are terminal; LockTimeout and StoreUnavailable are transient
// and may be retried by the caller.
var (
	ErrPengajuanNotFound = errors.New("nomor proses tidak ditemukan")
	ErrHandlerNotFound   = errors.New("PP tidak ditemukan")
	ErrNoEligibleHandler = assign.ErrNoEligibleHandler
	ErrValidation        = errors.New("validation failed")
	ErrLockTimeout       = lock.ErrTimeout
	ErrStoreUnavailable  = errors.New("record store unavailable")
)

// validationErr wraps a field-level message under ErrValidation.
func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr tags an unexpected backend failure as transient.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
