package breakrule

import (
	"context"
	"fmt"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
)

type BreakRuleServiceImpl struct {
	breakrule.Repository
}

func NewBreakRuleService(repo breakrule.Repository) breakrule.Service {
	return &BreakRuleServiceImpl{Repository: repo}
}

// IsBreakDue implements breakrule.Service. The verdict is advisory and never
// blocks a clock-out.
func (s *BreakRuleServiceImpl) IsBreakDue(ctx context.Context, employeeID string, workedHours float64) (breakrule.Evaluation, error) {
	rule, err := s.Repository.GetActiveByEmployee(ctx, employeeID)
	if err != nil {
		return breakrule.Evaluation{}, fmt.Errorf("failed to load break rule: %w", err)
	}

	if rule == nil {
		return breakrule.Evaluation{
			Due:         false,
			Reason:      "no break rule configured",
			WorkedHours: workedHours,
		}, nil
	}

	if rule.Mandatory() {
		return breakrule.Evaluation{
			Due:             true,
			Kind:            rule.Kind,
			DurationMinutes: rule.DurationMinutes,
			Reason:          fmt.Sprintf("a %s break of %d minutes is mandatory", rule.Kind, rule.DurationMinutes),
			WorkedHours:     workedHours,
		}, nil
	}

	threshold := *rule.MinimumHoursThreshold
	if workedHours >= threshold {
		return breakrule.Evaluation{
			Due:             true,
			Kind:            rule.Kind,
			DurationMinutes: rule.DurationMinutes,
			Reason:          fmt.Sprintf("worked %.2f hours, a %s break of %d minutes is due after %.2f hours", workedHours, rule.Kind, rule.DurationMinutes, threshold),
			WorkedHours:     workedHours,
		}, nil
	}

	return breakrule.Evaluation{
		Due:         false,
		Kind:        rule.Kind,
		Reason:      fmt.Sprintf("%.2f more hours until a %s break is due", threshold-workedHours, rule.Kind),
		WorkedHours: workedHours,
	}, nil
}

// GetRule implements breakrule.Service.
func (s *BreakRuleServiceImpl) GetRule(ctx context.Context, employeeID string) (breakrule.BreakRule, error) {
	rule, err := s.Repository.GetActiveByEmployee(ctx, employeeID)
	if err != nil {
		return breakrule.BreakRule{}, fmt.Errorf("failed to load break rule: %w", err)
	}
	if rule == nil {
		return breakrule.BreakRule{}, breakrule.ErrRuleNotFound
	}
	return *rule, nil
}

// SetRule implements breakrule.Service.
func (s *BreakRuleServiceImpl) SetRule(ctx context.Context, req breakrule.SetRuleRequest) (breakrule.BreakRule, error) {
	if err := req.Validate(); err != nil {
		return breakrule.BreakRule{}, err
	}

	rule := breakrule.BreakRule{
		EmployeeID:            req.EmployeeID,
		Kind:                  req.Kind,
		MinimumHoursThreshold: req.MinimumHoursThreshold,
		DurationMinutes:       req.DurationMinutes,
		Active:                true,
	}

	saved, err := s.Repository.Upsert(ctx, rule)
	if err != nil {
		return breakrule.BreakRule{}, fmt.Errorf("failed to save break rule: %w", err)
	}
	return saved, nil
}

// DeactivateRule implements breakrule.Service.
func (s *BreakRuleServiceImpl) DeactivateRule(ctx context.Context, employeeID string) error {
	return s.Repository.Deactivate(ctx, employeeID)
}
