package breakrule

import (
	"context"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

// Service is the break-rule engine plus the admin surface that manages the
// rules it evaluates.
type Service interface {
	// IsBreakDue decides whether a break is currently due for the employee
	// given hours worked so far. Advisory only.
	IsBreakDue(ctx context.Context, employeeID string, workedHours float64) (Evaluation, error)

	GetRule(ctx context.Context, employeeID string) (BreakRule, error)
	SetRule(ctx context.Context, req SetRuleRequest) (BreakRule, error)
	DeactivateRule(ctx context.Context, employeeID string) error
}

type RuleResponse struct {
	EmployeeID            string   `json:"employee_id"`
	Kind                  string   `json:"kind"`
	MinimumHoursThreshold *float64 `json:"minimum_hours_threshold,omitempty"`
	DurationMinutes       int      `json:"duration_minutes"`
	Mandatory             bool     `json:"mandatory"`
	UpdatedAt             string   `json:"updated_at"`
}

func ToRuleResponse(r BreakRule) RuleResponse {
	return RuleResponse{
		EmployeeID:            r.EmployeeID,
		Kind:                  r.Kind,
		MinimumHoursThreshold: r.MinimumHoursThreshold,
		DurationMinutes:       r.DurationMinutes,
		Mandatory:             r.Mandatory(),
		UpdatedAt:             r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type SetRuleRequest struct {
	EmployeeID            string   `json:"employee_id"`
	Kind                  string   `json:"kind"`
	MinimumHoursThreshold *float64 `json:"minimum_hours_threshold"`
	DurationMinutes       int      `json:"duration_minutes"`
}

func (r *SetRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsInSlice(r.Kind, []string{"meal", "rest", "other"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of meal, rest, other",
		})
	}

	if r.DurationMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_minutes",
			Message: "duration_minutes must be positive",
		})
	}

	if r.MinimumHoursThreshold != nil && *r.MinimumHoursThreshold < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "minimum_hours_threshold",
			Message: "minimum_hours_threshold cannot be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
