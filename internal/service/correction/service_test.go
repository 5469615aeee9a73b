package correction

import (
	"context"
	"testing"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/notification"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/clock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/sse"
	"github.com/gestionet/timeclock-backend-go/internal/repository/memory"
	notificationService "github.com/gestionet/timeclock-backend-go/internal/service/notification"
	timeclockService "github.com/gestionet/timeclock-backend-go/internal/service/timeclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc           correction.Service
	timeclock     timeclock.Service
	clk           *clock.Fixed
	records       *memory.ClockRecordStore
	audit         *memory.AuditStore
	employees     *memory.EmployeeStore
	notifications *memory.NotificationStore
	notifSvc      notification.Service
}

func newTestEnv(t *testing.T, start time.Time) *testEnv {
	t.Helper()

	employees := memory.NewEmployeeStore()
	records := memory.NewClockRecordStore(employees)
	pauses := memory.NewPauseStore()
	audit := memory.NewAuditStore()
	notifications := memory.NewNotificationStore()
	clk := clock.NewFixed(start)

	notifSvc := notificationService.NewNotificationService(notifications, sse.NewHub(), notificationService.Config{})
	t.Cleanup(notifSvc.Stop)

	svc := NewCorrectionService(records, pauses, audit, employees, notifSvc, clk, memory.Transactor{})
	tcSvc := timeclockService.NewTimeclockService(records, pauses, nil, audit, notifSvc, clk, memory.Transactor{})

	return &testEnv{
		svc:           svc,
		timeclock:     tcSvc,
		clk:           clk,
		records:       records,
		audit:         audit,
		employees:     employees,
		notifications: notifications,
		notifSvc:      notifSvc,
	}
}

func (e *testEnv) createEmployee(t *testing.T, name string) string {
	t.Helper()
	emp, err := e.employees.Create(context.Background(), employee.Employee{FullName: name, Active: true})
	require.NoError(t, err)
	return emp.ID
}

// closedWorkDay seeds a full 09:00 to 17:00 day and returns the record ID.
func (e *testEnv) closedWorkDay(t *testing.T, empID string) string {
	t.Helper()
	ctx := context.Background()

	rec, err := e.timeclock.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)
	e.clk.Advance(8 * time.Hour)
	_, err = e.timeclock.ClockOut(ctx, empID)
	require.NoError(t, err)

	return rec.ID
}

func strPtr(s string) *string { return &s }

func TestModifyRequiresReason(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		ActorID:  "admin-1",
	})
	assert.ErrorIs(t, err, correction.ErrReasonRequired)

	// The record is untouched
	rec, err := env.records.GetByID(ctx, recID)
	require.NoError(t, err)
	assert.False(t, rec.IsModified)
}

func TestModifySnapshotsOriginalValues(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	adminID := env.createEmployee(t, "Admin User")
	recID := env.closedWorkDay(t, empID)

	resp, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "employee forgot to clock out before a meeting",
		ActorID:  adminID,
	})
	require.NoError(t, err)

	assert.True(t, resp.IsModified)
	require.NotNil(t, resp.ModifiedBy)
	assert.Equal(t, adminID, *resp.ModifiedBy)
	require.NotNil(t, resp.ExitTime)
	assert.Equal(t, "2025-03-10 18:00:00", *resp.ExitTime)
	require.NotNil(t, resp.TotalHours)
	assert.Equal(t, 9.0, *resp.TotalHours)
	assert.Equal(t, 9.0, *resp.WorkedHours)

	// The snapshot keeps the pre-correction exit and hours
	require.NotNil(t, resp.OriginalValues)
	require.NotNil(t, resp.OriginalValues.ExitTime)
	assert.Equal(t, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC), resp.OriginalValues.ExitTime.UTC())
	require.NotNil(t, resp.OriginalValues.WorkedHours)
	assert.Equal(t, 8.0, *resp.OriginalValues.WorkedHours)
	assert.Equal(t, "employee forgot to clock out before a meeting", resp.OriginalValues.Reason)

	// A fresh correction restarts the validation cycle
	assert.False(t, resp.NotifiedEmployee)
	assert.Nil(t, resp.EmployeeValidated)

	entries, err := env.audit.ListByRecord(ctx, recID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, correction.ActionCorrection, entries[0].Action)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, adminID, *entries[0].ActorID)
	assert.Equal(t, "2025-03-10T17:00:00Z", entries[0].PreviousValue["exit_time"])
	assert.Equal(t, "2025-03-10T18:00:00Z", entries[0].NewValue["exit_time"])
}

func TestModifyRejectsExitBeforeEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T08:00:00Z"),
		Reason:   "typo",
		ActorID:  "admin-1",
	})
	assert.ErrorIs(t, err, correction.ErrEntryAfterExit)
}

func TestModifyUnknownRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: "missing",
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "typo",
		ActorID:  "admin-1",
	})
	assert.ErrorIs(t, err, timeclock.ErrRecordNotFound)
}

func TestNotifyMarksRecordAndQueuesNotification(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "forgot to clock out",
		ActorID:  "admin-1",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Notify(ctx, recID))

	rec, err := env.records.GetByID(ctx, recID)
	require.NoError(t, err)
	assert.True(t, rec.NotifiedEmployee)

	// A second notify is a no-op
	require.NoError(t, env.svc.Notify(ctx, recID))

	env.notifSvc.Stop()
	count, err := env.notifications.GetUnreadCount(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotifyWithoutCorrection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	recID := env.closedWorkDay(t, empID)

	err := env.svc.Notify(ctx, recID)
	assert.ErrorIs(t, err, correction.ErrNothingToValidate)
}

func TestValidateSettlesCorrection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	adminID := env.createEmployee(t, "Admin User")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "forgot to clock out",
		ActorID:  adminID,
	})
	require.NoError(t, err)

	resp, err := env.svc.Validate(ctx, correction.ValidateRequest{
		RecordID:   recID,
		EmployeeID: empID,
		Accepted:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.EmployeeValidated)
	assert.True(t, *resp.EmployeeValidated)

	entries, err := env.audit.ListByRecord(ctx, recID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, correction.ActionValidation, entries[1].Action)

	// A settled correction cannot be settled again
	_, err = env.svc.Validate(ctx, correction.ValidateRequest{
		RecordID:   recID,
		EmployeeID: empID,
		Accepted:   false,
	})
	assert.ErrorIs(t, err, correction.ErrNothingToValidate)

	// The correcting admin hears about the verdict
	env.notifSvc.Stop()
	count, err := env.notifications.GetUnreadCount(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestValidateRejection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "forgot to clock out",
		ActorID:  "admin-1",
	})
	require.NoError(t, err)

	resp, err := env.svc.Validate(ctx, correction.ValidateRequest{
		RecordID:   recID,
		EmployeeID: empID,
		Accepted:   false,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.EmployeeValidated)
	assert.False(t, *resp.EmployeeValidated)
}

func TestValidateRejectsNonOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	otherID := env.createEmployee(t, "Jon Ander")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "forgot to clock out",
		ActorID:  "admin-1",
	})
	require.NoError(t, err)

	_, err = env.svc.Validate(ctx, correction.ValidateRequest{
		RecordID:   recID,
		EmployeeID: otherID,
		Accepted:   true,
	})
	assert.ErrorIs(t, err, correction.ErrNotRecordOwner)
}

func TestBackfillCreatesModifiedRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	adminID := env.createEmployee(t, "Admin User")

	resp, err := env.svc.AddRecord(ctx, correction.BackfillRequest{
		EmployeeID: empID,
		Date:       "2025-03-10",
		EntryTime:  "2025-03-10T09:00:00Z",
		ExitTime:   strPtr("2025-03-10T17:30:00Z"),
		Reason:     "terminal was offline on Monday",
		ActorID:    adminID,
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.True(t, resp.IsModified)
	require.NotNil(t, resp.ModifiedBy)
	assert.Equal(t, adminID, *resp.ModifiedBy)
	require.NotNil(t, resp.TotalHours)
	assert.Equal(t, 8.5, *resp.TotalHours)

	entries, err := env.audit.ListByRecord(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, correction.ActionBackfill, entries[0].Action)

	env.notifSvc.Stop()
	count, err := env.notifications.GetUnreadCount(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBackfillRejectsFutureDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	_, err := env.svc.AddRecord(ctx, correction.BackfillRequest{
		EmployeeID: empID,
		Date:       "2025-03-13",
		EntryTime:  "2025-03-13T09:00:00Z",
		Reason:     "planned shift",
		ActorID:    "admin-1",
	})
	assert.ErrorIs(t, err, correction.ErrFutureDateNotAllowed)
}

func TestBackfillRejectsDuplicateDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	env.closedWorkDay(t, empID)

	_, err := env.svc.AddRecord(ctx, correction.BackfillRequest{
		EmployeeID: empID,
		Date:       "2025-03-10",
		EntryTime:  "2025-03-10T09:00:00Z",
		Reason:     "duplicate attempt",
		ActorID:    "admin-1",
	})
	assert.ErrorIs(t, err, correction.ErrRecordAlreadyExists)
}

func TestBackfillRequiresReason(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	_, err := env.svc.AddRecord(ctx, correction.BackfillRequest{
		EmployeeID: empID,
		Date:       "2025-03-10",
		EntryTime:  "2025-03-10T09:00:00Z",
		ActorID:    "admin-1",
	})
	assert.ErrorIs(t, err, correction.ErrReasonRequired)
}

func TestBackfillRejectsExitBeforeEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	_, err := env.svc.AddRecord(ctx, correction.BackfillRequest{
		EmployeeID: empID,
		Date:       "2025-03-10",
		EntryTime:  "2025-03-10T17:00:00Z",
		ExitTime:   strPtr("2025-03-10T09:00:00Z"),
		Reason:     "swapped times",
		ActorID:    "admin-1",
	})
	assert.ErrorIs(t, err, correction.ErrEntryAfterExit)
}

func TestListAuditUnknownRecord(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := env.svc.ListAudit(ctx, "missing")
	assert.ErrorIs(t, err, timeclock.ErrRecordNotFound)
}

func TestListAuditOrdersEntries(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")
	recID := env.closedWorkDay(t, empID)

	_, err := env.svc.Modify(ctx, correction.ModifyRequest{
		RecordID: recID,
		ExitTime: strPtr("2025-03-10T18:00:00Z"),
		Reason:   "forgot to clock out",
		ActorID:  "admin-1",
	})
	require.NoError(t, err)

	env.clk.Advance(time.Hour)
	_, err = env.svc.Validate(ctx, correction.ValidateRequest{
		RecordID:   recID,
		EmployeeID: empID,
		Accepted:   true,
	})
	require.NoError(t, err)

	entries, err := env.svc.ListAudit(ctx, recID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, correction.ActionCorrection, entries[0].Action)
	assert.Equal(t, correction.ActionValidation, entries[1].Action)
	assert.True(t, entries[0].Timestamp < entries[1].Timestamp)
}
