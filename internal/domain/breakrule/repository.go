package breakrule

import "context"

// Repository defines data access for break rules. At most one active rule
// exists per employee, enforced by a partial unique index.
type Repository interface {
	// GetActiveByEmployee returns nil when the employee has no active rule.
	GetActiveByEmployee(ctx context.Context, employeeID string) (*BreakRule, error)

	// Upsert replaces the employee's active rule with the given one.
	Upsert(ctx context.Context, rule BreakRule) (BreakRule, error)

	// Deactivate retires the employee's active rule. Returns ErrRuleNotFound
	// when none exists.
	Deactivate(ctx context.Context, employeeID string) error
}
