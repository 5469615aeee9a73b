package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/google/uuid"
)

type AuditStore struct {
	mu      sync.RWMutex
	entries []correction.AuditEntry
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, entry correction.AuditEntry) (correction.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *AuditStore) ListByRecord(_ context.Context, clockRecordID string) ([]correction.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []correction.AuditEntry
	for _, e := range s.entries {
		if e.ClockRecordID == clockRecordID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
