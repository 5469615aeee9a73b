package employeecode

import "context"

type Repository interface {
	// GetActiveByCode looks up an active code by its normalized value.
	// Returns ErrCodeNotFound when no active row matches.
	GetActiveByCode(ctx context.Context, code string) (EmployeeCode, error)

	// Create inserts a new active code. Collisions on the active-code or
	// active-label unique indexes come back as ErrCodeExists / ErrLabelTaken.
	Create(ctx context.Context, ec EmployeeCode) (EmployeeCode, error)

	// Deactivate retires a code by its value. Returns ErrCodeNotFound when
	// no active row matches.
	Deactivate(ctx context.Context, code string) error

	ListByEmployee(ctx context.Context, employeeID string) ([]EmployeeCode, error)
}
