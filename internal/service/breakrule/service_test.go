package breakrule

import (
	"context"
	"testing"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
	"github.com/gestionet/timeclock-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (breakrule.Service, *memory.BreakRuleStore) {
	store := memory.NewBreakRuleStore()
	return NewBreakRuleService(store), store
}

func TestIsBreakDueWithoutRule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	eval, err := svc.IsBreakDue(ctx, "emp-1", 10)
	require.NoError(t, err)
	assert.False(t, eval.Due)
	assert.Equal(t, "no break rule configured", eval.Reason)
	assert.Equal(t, 10.0, eval.WorkedHours)
}

func TestIsBreakDueMandatoryRule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.SetRule(ctx, breakrule.SetRuleRequest{
		EmployeeID:      "emp-1",
		Kind:            "rest",
		DurationMinutes: 15,
	})
	require.NoError(t, err)

	// No threshold means the break is due from the first minute
	eval, err := svc.IsBreakDue(ctx, "emp-1", 0)
	require.NoError(t, err)
	assert.True(t, eval.Due)
	assert.Equal(t, "rest", eval.Kind)
	assert.Equal(t, 15, eval.DurationMinutes)
}

func TestIsBreakDueThresholdBoundary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	threshold := 5.0
	_, err := svc.SetRule(ctx, breakrule.SetRuleRequest{
		EmployeeID:            "emp-1",
		Kind:                  "meal",
		MinimumHoursThreshold: &threshold,
		DurationMinutes:       30,
	})
	require.NoError(t, err)

	eval, err := svc.IsBreakDue(ctx, "emp-1", 4.99)
	require.NoError(t, err)
	assert.False(t, eval.Due)
	assert.NotEmpty(t, eval.Reason)

	// The threshold itself counts as reached
	eval, err = svc.IsBreakDue(ctx, "emp-1", 5.0)
	require.NoError(t, err)
	assert.True(t, eval.Due)
	assert.Equal(t, 30, eval.DurationMinutes)
}

func TestSetRuleReplacesActiveRule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	threshold := 6.0
	_, err := svc.SetRule(ctx, breakrule.SetRuleRequest{
		EmployeeID:            "emp-1",
		Kind:                  "meal",
		MinimumHoursThreshold: &threshold,
		DurationMinutes:       60,
	})
	require.NoError(t, err)

	_, err = svc.SetRule(ctx, breakrule.SetRuleRequest{
		EmployeeID:      "emp-1",
		Kind:            "rest",
		DurationMinutes: 20,
	})
	require.NoError(t, err)

	rule, err := svc.GetRule(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "rest", rule.Kind)
	assert.Equal(t, 20, rule.DurationMinutes)
	assert.Nil(t, rule.MinimumHoursThreshold)
	assert.True(t, rule.Active)
}

func TestSetRuleValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.SetRule(ctx, breakrule.SetRuleRequest{
		EmployeeID:      "emp-1",
		Kind:            "siesta",
		DurationMinutes: 0,
	})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestGetRuleNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.GetRule(ctx, "emp-1")
	assert.ErrorIs(t, err, breakrule.ErrRuleNotFound)
}

func TestDeactivateRule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	_, err := svc.SetRule(ctx, breakrule.SetRuleRequest{
		EmployeeID:      "emp-1",
		Kind:            "meal",
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateRule(ctx, "emp-1"))

	_, err = svc.GetRule(ctx, "emp-1")
	assert.ErrorIs(t, err, breakrule.ErrRuleNotFound)

	err = svc.DeactivateRule(ctx, "emp-1")
	assert.ErrorIs(t, err, breakrule.ErrRuleNotFound)
}
