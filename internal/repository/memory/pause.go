package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/google/uuid"
)

type PauseStore struct {
	mu     sync.RWMutex
	pauses map[string]timeclock.Pause
}

func NewPauseStore() *PauseStore {
	return &PauseStore{pauses: make(map[string]timeclock.Pause)}
}

func (s *PauseStore) Create(_ context.Context, p timeclock.Pause) (timeclock.Pause, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.pauses {
		if existing.ClockRecordID == p.ClockRecordID && existing.End == nil {
			return timeclock.Pause{}, timeclock.ErrBreakAlreadyActive
		}
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.pauses[p.ID] = p
	return p, nil
}

func (s *PauseStore) GetActiveByRecord(_ context.Context, clockRecordID string) (*timeclock.Pause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pauses {
		if p.ClockRecordID == clockRecordID && p.End == nil {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (s *PauseStore) ListByRecord(_ context.Context, clockRecordID string) ([]timeclock.Pause, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []timeclock.Pause
	for _, p := range s.pauses {
		if p.ClockRecordID == clockRecordID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *PauseStore) Close(_ context.Context, pauseID string, end time.Time, durationMinutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pauses[pauseID]
	if !ok || p.End != nil {
		return timeclock.ErrNoActiveBreak
	}

	p.End = &end
	p.DurationMinutes = &durationMinutes
	s.pauses[pauseID] = p
	return nil
}
