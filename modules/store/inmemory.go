package store

import (
	"context"
	"sync"

	"github.com/Deepreo/schedulerd/core"
)

// InMemory is a map-backed schedule store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]core.ScheduleRecord
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[string]core.ScheduleRecord),
	}
}

func (s *InMemory) QueryAll(ctx context.Context) ([]core.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]core.ScheduleRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	return records, nil
}

func (s *InMemory) FetchByID(ctx context.Context, id string) (*core.ScheduleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *InMemory) Save(ctx context.Context, record *core.ScheduleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = *record
	return nil
}

func (s *InMemory) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

func (s *InMemory) HealthCheck(ctx context.Context) error {
	return nil
}
