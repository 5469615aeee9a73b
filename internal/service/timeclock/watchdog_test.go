package timeclock

import (
	"context"
	"testing"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/clock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/sse"
	"github.com/gestionet/timeclock-backend-go/internal/repository/memory"
	notificationService "github.com/gestionet/timeclock-backend-go/internal/service/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepClosesForgottenSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	// Clocked in Monday evening, never clocked out
	opened, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)

	// Tuesday morning
	env.clk.Advance(16 * time.Hour)

	closed, err := env.svc.SweepStale(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	rec, err := env.svc.GetRecord(ctx, opened.ID)
	require.NoError(t, err)

	require.NotNil(t, rec.ExitTime)
	assert.Equal(t, "2025-03-10 23:59:59", *rec.ExitTime)
	assert.True(t, rec.IsModified)
	assert.Nil(t, rec.ModifiedBy)
	assert.False(t, rec.NotifiedEmployee)
	assert.Nil(t, rec.EmployeeValidated)

	// The snapshot records that there was no exit time before the closure
	require.NotNil(t, rec.OriginalValues)
	assert.NotNil(t, rec.OriginalValues.EntryTime)
	assert.Nil(t, rec.OriginalValues.ExitTime)
	assert.NotEmpty(t, rec.OriginalValues.Reason)

	entries, err := env.audit.ListByRecord(ctx, opened.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, correction.ActionAutoClose, entries[0].Action)
	assert.Nil(t, entries[0].ActorID)
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	_, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)

	env.clk.Advance(24 * time.Hour)

	closed, err := env.svc.SweepStale(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	closed, err = env.svc.SweepStale(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestSweepIgnoresTodayAndClosedRecords(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empA := env.createEmployee(t, "Marta Diaz")
	empB := env.createEmployee(t, "Jon Ander")

	// A closes their day normally, B is still clocked in today
	_, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empA})
	require.NoError(t, err)
	env.clk.Advance(8 * time.Hour)
	_, err = env.svc.ClockOut(ctx, empA)
	require.NoError(t, err)

	_, err = env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empB})
	require.NoError(t, err)

	closed, err := env.svc.SweepStale(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestSweepClosesDanglingBreak(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	opened, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)

	env.clk.Advance(4 * time.Hour)
	_, err = env.svc.StartBreak(ctx, timeclock.StartBreakRequest{EmployeeID: empID, Kind: timeclock.PauseKindMeal})
	require.NoError(t, err)

	env.clk.Advance(24 * time.Hour)

	closed, err := env.svc.SweepStale(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	rec, err := env.svc.GetRecord(ctx, opened.ID)
	require.NoError(t, err)
	require.Len(t, rec.Pauses, 1)
	require.NotNil(t, rec.Pauses[0].End)
	assert.Equal(t, "2025-03-10 23:59:59", *rec.Pauses[0].End)
}

func TestSweepScopedToEmployee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	empA := env.createEmployee(t, "Marta Diaz")
	empB := env.createEmployee(t, "Jon Ander")

	_, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empA})
	require.NoError(t, err)
	_, err = env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empB})
	require.NoError(t, err)

	env.clk.Advance(24 * time.Hour)

	closed, err := env.svc.SweepStale(ctx, &empA)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	// B's stale session survives a sweep scoped to A
	closed, err = env.svc.SweepStale(ctx, &empB)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
}

func TestListRecordsSweepsStaleSessions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	_, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)

	// The admin listing the next day must not show yesterday's session open
	env.clk.Advance(16 * time.Hour)

	result, err := env.svc.ListRecords(ctx, timeclock.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.NotNil(t, result.Records[0].ExitTime)
	assert.Equal(t, "2025-03-10 23:59:59", *result.Records[0].ExitTime)
	assert.True(t, result.Records[0].IsModified)
}

func TestStatusAfterForgottenSessionAllowsClockIn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC))
	empID := env.createEmployee(t, "Marta Diaz")

	_, err := env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)

	// Next morning the status call sweeps yesterday's session first
	env.clk.Advance(16 * time.Hour)

	status, err := env.svc.CurrentStatus(ctx, empID)
	require.NoError(t, err)
	assert.True(t, status.CanClockIn)

	_, err = env.svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)
}

func TestSweepQueuesAutoCloseNotification(t *testing.T) {
	ctx := context.Background()

	employees := memory.NewEmployeeStore()
	records := memory.NewClockRecordStore(employees)
	pauses := memory.NewPauseStore()
	audit := memory.NewAuditStore()
	notifications := memory.NewNotificationStore()

	notifSvc := notificationService.NewNotificationService(notifications, sse.NewHub(), notificationService.Config{})

	clk := clock.NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewTimeclockService(records, pauses, nil, audit, notifSvc, clk, memory.Transactor{})

	emp, err := employees.Create(ctx, employee.Employee{FullName: "Marta Diaz", Active: true})
	require.NoError(t, err)
	empID := emp.ID

	_, err = svc.ClockIn(ctx, timeclock.ClockInRequest{EmployeeID: empID})
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)

	closed, err := svc.SweepStale(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	// Stop drains the worker queue, flushing pending notifications
	notifSvc.Stop()

	count, err := notifications.GetUnreadCount(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
