package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

type EmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{employees: make(map[string]employee.Employee)}
}

func (s *EmployeeStore) GetByID(_ context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *EmployeeStore) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	emp.CreatedAt = now
	emp.UpdatedAt = now
	s.employees[emp.ID] = emp
	return emp, nil
}
