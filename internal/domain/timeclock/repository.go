package timeclock

import (
	"context"
	"time"
)

// ClockRecordRepository defines data access for clock records. The store's
// uniqueness guarantees, not application locks, arbitrate concurrent writes.
type ClockRecordRepository interface {
	// Create inserts a new record. A (employee_id, date) collision is
	// returned as ErrAlreadyClockedIn.
	Create(ctx context.Context, rec ClockRecord) (ClockRecord, error)

	GetByID(ctx context.Context, id string) (ClockRecord, error)

	// GetByEmployeeAndDate returns nil when no record exists for that day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*ClockRecord, error)

	// GetOpenBefore lists open records dated strictly before the given day.
	// employeeID narrows the sweep to one employee when non-nil.
	GetOpenBefore(ctx context.Context, employeeID *string, day time.Time) ([]ClockRecord, error)

	// Update rewrites the mutable fields of an existing record.
	Update(ctx context.Context, rec ClockRecord) error

	// CloseIfOpen sets exit/hours/modification fields only if the record is
	// still open. Returns false when another sweep or a clock-out got there
	// first, which callers treat as a no-op.
	CloseIfOpen(ctx context.Context, rec ClockRecord) (bool, error)

	List(ctx context.Context, filter RecordFilter) ([]ClockRecord, int64, error)
}

// PauseRepository defines data access for break intervals.
type PauseRepository interface {
	// Create inserts a new open pause. A second open pause on the same
	// record collides on the store's partial unique index and is returned
	// as ErrBreakAlreadyActive.
	Create(ctx context.Context, p Pause) (Pause, error)

	// GetActiveByRecord returns nil when no pause is open on the record.
	GetActiveByRecord(ctx context.Context, clockRecordID string) (*Pause, error)

	ListByRecord(ctx context.Context, clockRecordID string) ([]Pause, error)

	// Close sets the end instant and derived duration on an open pause.
	Close(ctx context.Context, pauseID string, end time.Time, durationMinutes int) error
}
