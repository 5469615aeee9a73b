package employee

import "context"

type Repository interface {
	// GetByID resolves an employee identity. Transient directory failures
	// surface as ErrIdentityLookupFailed, a missing row as
	// ErrEmployeeNotFound.
	GetByID(ctx context.Context, id string) (Employee, error)

	Create(ctx context.Context, emp Employee) (Employee, error)
}
