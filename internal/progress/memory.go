package progress

import "context"

// MemoryStore keeps progress for the lifetime of the process only.
type MemoryStore struct {
	ids   IDSet
	saves int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with ids.
func NewMemoryStore(ids ...string) *MemoryStore {
	return &MemoryStore{ids: NewIDSet(ids...)}
}

func (m *MemoryStore) Load(_ context.Context) (IDSet, error) {
	return m.ids.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, ids IDSet) error {
	m.ids = ids.Clone()
	m.saves++
	return nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.ids = IDSet{}
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	return m.saves
}
