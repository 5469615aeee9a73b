package timeclock

import (
	"context"
)

// Service is the clock-event state machine:
// NoRecord → Entered → (OnBreak ⇄ Entered) → Exited, one cycle per
// employee-day. All instants come from the trusted server clock.
type Service interface {
	// ClockIn opens today's record. Fails with ErrAlreadyClockedIn when a
	// record for today already exists, open or closed.
	ClockIn(ctx context.Context, req ClockInRequest) (RecordResponse, error)

	// ClockOut closes today's open record and recomputes hours.
	ClockOut(ctx context.Context, employeeID string) (RecordResponse, error)

	// StartBreak opens a pause on today's open record.
	StartBreak(ctx context.Context, req StartBreakRequest) (PauseResponse, error)

	// EndBreak closes the active pause and recomputes the parent's hours.
	EndBreak(ctx context.Context, employeeID string) (PauseResponse, error)

	// CurrentStatus reports which transitions are legal right now, plus the
	// advisory break-due evaluation. Sweeps stale sessions first.
	CurrentStatus(ctx context.Context, employeeID string) (StatusResponse, error)

	// MyRecords lists one employee's records. Sweeps stale sessions first.
	MyRecords(ctx context.Context, employeeID string, filter RecordFilter) (ListRecordsResponse, error)

	// ListRecords lists records across employees (admin screens). Sweeps
	// stale sessions first, scoped to the filtered employee when set.
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// GetRecord returns one record with its pauses.
	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	// SweepStale force-closes open records left over from previous days and
	// returns how many it closed. Idempotent, safe to run concurrently.
	SweepStale(ctx context.Context, employeeID *string) (int, error)
}
