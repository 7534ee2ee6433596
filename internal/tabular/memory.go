package tabular

import (
	"fmt"
	"sync"
)

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]*Table
}

func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*Table)}
}

func (s *MemStore) ReadTable(path string) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[path]
	if !ok {
		return nil, fmt.Errorf("open workbook %s: no such table", path)
	}
	return t, nil
}

func (s *MemStore) WriteTable(path string, t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[path] = t
	return nil
}
