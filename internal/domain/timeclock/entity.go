package timeclock

import (
	"time"
)

// ClockRecord is one employee's entry/exit record for a single calendar day.
// A record with no exit time is an open session; the state machine keeps at
// most one open session per employee, the store's (employee_id, date) unique
// index keeps at most one record per day.
type ClockRecord struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	EntryTime         *time.Time
	ExitTime          *time.Time
	WorkedHours       *float64
	TotalHours        *float64
	IsModified        bool
	ModifiedBy        *string // nil = system (watchdog auto-close)
	ModifiedAt        *time.Time
	OriginalValues    *Snapshot
	NotifiedEmployee  bool
	EmployeeValidated *bool // nil = pending, true = accepted, false = rejected
	Latitude          *float64
	Longitude         *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined for listings
	EmployeeName *string
}

// Open reports whether the record still has no exit time.
func (r ClockRecord) Open() bool {
	return r.ExitTime == nil
}

// Snapshot preserves entry/exit/hours as they were before the last
// modification. The JSON keys match the legacy fichaje schema so existing
// exports keep parsing the original_values column.
type Snapshot struct {
	EntryTime   *time.Time `json:"hora_entrada"`
	ExitTime    *time.Time `json:"hora_salida"`
	WorkedHours *float64   `json:"horas_trabajadas"`
	Reason      string     `json:"motivo,omitempty"`
}

type PauseKind string

const (
	PauseKindMeal  PauseKind = "meal"
	PauseKindRest  PauseKind = "rest"
	PauseKindOther PauseKind = "other"
)

// ValidPauseKind reports whether k is one of the known break kinds.
func ValidPauseKind(k PauseKind) bool {
	switch k {
	case PauseKindMeal, PauseKindRest, PauseKindOther:
		return true
	}
	return false
}

// Pause is a timed break interval nested inside a ClockRecord. At most one
// pause per record may be open (end == nil), enforced by a partial unique
// index at the store.
type Pause struct {
	ID              string
	ClockRecordID   string
	Kind            PauseKind
	Start           time.Time
	End             *time.Time
	DurationMinutes *int
	Description     string
}

// Active reports whether the pause has not been ended yet.
func (p Pause) Active() bool {
	return p.End == nil
}
