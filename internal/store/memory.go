package store

import "sync"

// Memory is an in-memory Store. It mirrors the legacy backend faithfully:
// individual calls are safe, but there is no transaction spanning them, so
// the engine's lock discipline applies exactly as it would against the
// real spreadsheet.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemory creates a memory store with the four tables and their header rows.
func NewMemory() *Memory {
	return &Memory{
		tables: map[string][]Row{
			TablePengajuan: {cloneRow(HeadersPengajuan)},
			TableUsers:     {cloneRow(HeadersUsers)},
			TablePenugasan: {cloneRow(HeadersPenugasan)},
			TableProses:    {cloneRow(HeadersProses)},
		},
	}
}

// ReadAll returns a deep copy of all rows, header row first.
func (m *Memory) ReadAll(table string) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.tables[table]
	if !ok {
		return nil, ErrUnknownTable
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out, nil
}

// Append adds one data row.
func (m *Memory) Append(table string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return ErrUnknownTable
	}
	m.tables[table] = append(rows, cloneRow(row))
	return nil
}

// UpdateCell writes one cell. rowIndex is 0-based over data rows, i.e. row 0
// is the first row after the headers.
func (m *Memory) UpdateCell(table string, rowIndex, colIndex int, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return ErrUnknownTable
	}
	i := rowIndex + 1
	if i < 1 || i >= len(rows) {
		return ErrRowOutOfRange
	}
	if colIndex < 0 || colIndex >= len(rows[i]) {
		return ErrColOutOfRange
	}
	rows[i][colIndex] = value
	return nil
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}
