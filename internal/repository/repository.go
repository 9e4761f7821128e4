// Package repository defines the typed data-access contracts of the
// assignment engine and their gorm implementations. A second, row-tuple
// backed implementation lives in internal/store for compatibility with the
// legacy spreadsheet layout.
package repository

import "errors"

// ErrNotFound is returned by every implementation when a record does not
// exist, regardless of backend.
var ErrNotFound = errors.New("record not found")
