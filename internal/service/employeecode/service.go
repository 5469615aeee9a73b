package employeecode

import (
	"context"
	"fmt"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

type EmployeeCodeServiceImpl struct {
	codes     employeecode.Repository
	employees employee.Repository
}

func NewEmployeeCodeService(codes employeecode.Repository, employees employee.Repository) employeecode.Service {
	return &EmployeeCodeServiceImpl{codes: codes, employees: employees}
}

// Resolve implements employeecode.Service. An unknown and a deactivated code
// are indistinguishable to the terminal, both come back as ErrCodeNotFound.
func (s *EmployeeCodeServiceImpl) Resolve(ctx context.Context, code string) (employeecode.Resolution, error) {
	normalized := validator.NormalizeEmployeeCode(code)
	if !validator.IsValidEmployeeCode(normalized) {
		return employeecode.Resolution{}, employeecode.ErrCodeNotFound
	}

	ec, err := s.codes.GetActiveByCode(ctx, normalized)
	if err != nil {
		return employeecode.Resolution{}, err
	}

	return employeecode.Resolution{
		EmployeeID: ec.EmployeeID,
		Label:      ec.Label,
	}, nil
}

// Create implements employeecode.Service.
func (s *EmployeeCodeServiceImpl) Create(ctx context.Context, req employeecode.CreateCodeRequest) (employeecode.EmployeeCode, error) {
	if err := req.Validate(); err != nil {
		return employeecode.EmployeeCode{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return employeecode.EmployeeCode{}, err
	}

	ec := employeecode.EmployeeCode{
		Code:       validator.NormalizeEmployeeCode(req.Code),
		EmployeeID: req.EmployeeID,
		Label:      req.Label,
		Active:     true,
	}

	created, err := s.codes.Create(ctx, ec)
	if err != nil {
		return employeecode.EmployeeCode{}, err
	}
	return created, nil
}

// Deactivate implements employeecode.Service.
func (s *EmployeeCodeServiceImpl) Deactivate(ctx context.Context, code string) error {
	normalized := validator.NormalizeEmployeeCode(code)
	if err := s.codes.Deactivate(ctx, normalized); err != nil {
		return fmt.Errorf("failed to deactivate code: %w", err)
	}
	return nil
}

// ListByEmployee implements employeecode.Service.
func (s *EmployeeCodeServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]employeecode.EmployeeCode, error) {
	return s.codes.ListByEmployee(ctx, employeeID)
}
