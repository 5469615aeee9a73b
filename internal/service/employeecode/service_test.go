package employeecode

import (
	"context"
	"testing"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (employeecode.Service, string) {
	t.Helper()

	employees := memory.NewEmployeeStore()
	codes := memory.NewEmployeeCodeStore()
	svc := NewEmployeeCodeService(codes, employees)

	emp, err := employees.Create(context.Background(), employee.Employee{FullName: "Marta Diaz", Active: true})
	require.NoError(t, err)

	return svc, emp.ID
}

func TestResolveCode(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, "9981")
	require.NoError(t, err)
	assert.Equal(t, empID, res.EmployeeID)
	assert.Equal(t, "Marta D.", res.Label)
}

func TestResolveNormalizesInput(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "ab12",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)

	// Stored uppercased, so case and surrounding whitespace are forgiven
	for _, input := range []string{"AB12", "ab12", "  Ab12 \n"} {
		res, err := svc.Resolve(ctx, input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, empID, res.EmployeeID)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Resolve(ctx, "0000")
	assert.ErrorIs(t, err, employeecode.ErrCodeNotFound)
}

func TestResolveMalformedCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	for _, input := range []string{"", "ab", "this-code-is-way-too-long", "99 81"} {
		_, err := svc.Resolve(ctx, input)
		assert.ErrorIs(t, err, employeecode.ErrCodeNotFound, "input %q", input)
	}
}

func TestResolveDeactivatedCode(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, "9981"))

	// Indistinguishable from a code that never existed
	_, err = svc.Resolve(ctx, "9981")
	assert.ErrorIs(t, err, employeecode.ErrCodeNotFound)
}

func TestCreateRejectsDuplicateActiveCode(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta backup",
	})
	assert.ErrorIs(t, err, employeecode.ErrCodeExists)
}

func TestCreateRejectsDuplicateActiveLabel(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9982",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	assert.ErrorIs(t, err, employeecode.ErrLabelTaken)
}

func TestCreateAllowsReuseAfterDeactivation(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, "9981"))

	_, err = svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: empID,
		Label:      "Marta D.",
	})
	require.NoError(t, err)
}

func TestCreateRejectsUnknownEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{
		Code:       "9981",
		EmployeeID: "missing",
		Label:      "Ghost",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeactivateUnknownCode(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	err := svc.Deactivate(ctx, "9981")
	assert.ErrorIs(t, err, employeecode.ErrCodeNotFound)
}

func TestListByEmployee(t *testing.T) {
	ctx := context.Background()
	svc, empID := newService(t)

	_, err := svc.Create(ctx, employeecode.CreateCodeRequest{Code: "9981", EmployeeID: empID, Label: "Marta D."})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, "9981"))
	_, err = svc.Create(ctx, employeecode.CreateCodeRequest{Code: "9982", EmployeeID: empID, Label: "Marta D."})
	require.NoError(t, err)

	codes, err := svc.ListByEmployee(ctx, empID)
	require.NoError(t, err)
	require.Len(t, codes, 2)
}
