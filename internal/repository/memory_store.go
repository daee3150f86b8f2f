package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is an in-memory RowStore used by tests. Tables are keyed by
// sheet name; the column span of a range is ignored, matching how the
// production store returns whole rows.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][][]string

	// FailFetch and FailAppend force the next calls to fail, simulating an
	// unreachable store.
	FailFetch  bool
	FailAppend bool
}

// NewMemoryStore creates a MemoryStore with the given tables. Each table
// should start with its header row.
func NewMemoryStore(tables map[string][][]string) *MemoryStore {
	if tables == nil {
		tables = make(map[string][][]string)
	}
	return &MemoryStore{tables: tables}
}

func tableName(rng string) string {
	if i := strings.Index(rng, "!"); i >= 0 {
		return rng[:i]
	}
	return rng
}

func (m *MemoryStore) FetchRows(ctx context.Context, readRange string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFetch {
		return nil, fmt.Errorf("%w: memory store fetch disabled", ErrStoreUnavailable)
	}

	rows := m.tables[tableName(readRange)]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, writeRange string, row []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailAppend {
		return fmt.Errorf("%w: memory store append disabled", ErrStoreUnavailable)
	}

	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = fmt.Sprint(cell)
	}

	name := tableName(writeRange)
	m.tables[name] = append(m.tables[name], cells)
	return nil
}

// Rows returns a copy of the named table, header included
func (m *MemoryStore) Rows(table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
