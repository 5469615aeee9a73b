package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/google/uuid"
)

type BreakRuleStore struct {
	mu    sync.RWMutex
	rules map[string]breakrule.BreakRule
}

func NewBreakRuleStore() *BreakRuleStore {
	return &BreakRuleStore{rules: make(map[string]breakrule.BreakRule)}
}

func (s *BreakRuleStore) GetActiveByEmployee(_ context.Context, employeeID string) (*breakrule.BreakRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rules {
		if r.EmployeeID == employeeID && r.Active {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (s *BreakRuleStore) Upsert(_ context.Context, rule breakrule.BreakRule) (breakrule.BreakRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.rules {
		if r.EmployeeID == rule.EmployeeID && r.Active {
			r.Active = false
			s.rules[id] = r
		}
	}

	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	rule.Active = true
	rule.UpdatedAt = time.Now().UTC()
	s.rules[rule.ID] = rule
	return rule, nil
}

func (s *BreakRuleStore) Deactivate(_ context.Context, employeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.rules {
		if r.EmployeeID == employeeID && r.Active {
			r.Active = false
			r.UpdatedAt = time.Now().UTC()
			s.rules[id] = r
			return nil
		}
	}
	return breakrule.ErrRuleNotFound
}
