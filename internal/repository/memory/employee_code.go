package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/google/uuid"
)

type EmployeeCodeStore struct {
	mu    sync.RWMutex
	codes map[string]employeecode.EmployeeCode
}

func NewEmployeeCodeStore() *EmployeeCodeStore {
	return &EmployeeCodeStore{codes: make(map[string]employeecode.EmployeeCode)}
}

func (s *EmployeeCodeStore) GetActiveByCode(_ context.Context, code string) (employeecode.EmployeeCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ec := range s.codes {
		if ec.Code == code && ec.Active {
			return ec, nil
		}
	}
	return employeecode.EmployeeCode{}, employeecode.ErrCodeNotFound
}

func (s *EmployeeCodeStore) Create(_ context.Context, ec employeecode.EmployeeCode) (employeecode.EmployeeCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.codes {
		if !existing.Active {
			continue
		}
		if existing.Code == ec.Code {
			return employeecode.EmployeeCode{}, employeecode.ErrCodeExists
		}
		if existing.Label == ec.Label {
			return employeecode.EmployeeCode{}, employeecode.ErrLabelTaken
		}
	}

	if ec.ID == "" {
		ec.ID = uuid.New().String()
	}
	ec.Active = true
	ec.CreatedAt = time.Now().UTC()
	s.codes[ec.ID] = ec
	return ec, nil
}

func (s *EmployeeCodeStore) Deactivate(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ec := range s.codes {
		if ec.Code == code && ec.Active {
			ec.Active = false
			s.codes[id] = ec
			return nil
		}
	}
	return employeecode.ErrCodeNotFound
}

func (s *EmployeeCodeStore) ListByEmployee(_ context.Context, employeeID string) ([]employeecode.EmployeeCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []employeecode.EmployeeCode
	for _, ec := range s.codes {
		if ec.EmployeeID == employeeID {
			out = append(out, ec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
