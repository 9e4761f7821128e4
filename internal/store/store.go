// Package store carries the row-tuple record-store contract the legacy
// spreadsheet exposed: four named tables of ordered rows, the first row
// being column headers. The positional column layout lives only here;
// everything above this package works with typed models.
package store

import "errors"

// Legacy table names.
const (
	TablePengajuan = "Pengajuan"
	TableUsers     = "Users"
	TablePenugasan = "Penugasan_PP"
	TableProses    = "Proses_PP"
)

var (
	// ErrUnknownTable is returned for a table name outside the four known ones.
	ErrUnknownTable = errors.New("unknown table")
	// ErrRowOutOfRange is returned by UpdateCell for a bad row index.
	ErrRowOutOfRange = errors.New("row index out of range")
	// ErrColOutOfRange is returned by UpdateCell for a bad column index.
	ErrColOutOfRange = errors.New("column index out of range")
)

// Row is one ordered tuple of scalar cell values (string, number or date).
type Row []any

// Store is the narrow contract consumed by the row-backed repositories.
// ReadAll returns every row including the header row at index 0. Append
// adds one data row. UpdateCell writes a single cell, addressed by the
// 0-based data row index as returned by ReadAll.
//
// The store offers no transaction and no row locking; callers serialize
// their read-decide-write sequences through internal/lock.
type Store interface {
	ReadAll(table string) ([]Row, error)
	Append(table string, row Row) error
	UpdateCell(table string, rowIndex, colIndex int, value any) error
}
