package reservations

import (
	"context"
	"sync"
)

// Store is the persistence boundary. UpdateField and Delete act on the first
// row matching the Key and report false when nothing matched.
type Store interface {
	Append(ctx context.Context, r Record) error
	FindAll(ctx context.Context) ([]Record, error)
	// FindByPhone returns only confirmed records.
	FindByPhone(ctx context.Context, phone string) ([]Record, error)
	UpdateField(ctx context.Context, key Key, field Field, value string) (bool, error)
	Delete(ctx context.Context, key Key) (bool, error)
}

// MemoryStore keeps rows in process. Used in development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryStore(seed ...Record) *MemoryStore {
	return &MemoryStore{records: append([]Record(nil), seed...)}
}

func (s *MemoryStore) Append(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *MemoryStore) FindAll(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...), nil
}

func (s *MemoryStore) FindByPhone(_ context.Context, phone string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.Confirmed() && samePhone(r, phone) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateField(_ context.Context, key Key, field Field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if key.Matches(s.records[i]) {
			if err := s.records[i].set(field, value); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Delete(_ context.Context, key Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if key.Matches(s.records[i]) {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
