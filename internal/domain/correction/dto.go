package correction

import (
	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

// ModifyRequest rewrites a past record's entry/exit times. The caller's
// elevated role has already been checked at the transport edge; the core
// records ActorID and requires a human-readable reason.
type ModifyRequest struct {
	RecordID  string  `json:"-"`
	EntryTime *string `json:"entry_time,omitempty"` // RFC3339
	ExitTime  *string `json:"exit_time,omitempty"`  // RFC3339
	Reason    string  `json:"reason"`
	ActorID   string  `json:"-"`
}

func (r *ModifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		return ErrReasonRequired
	}

	if r.EntryTime == nil && r.ExitTime == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_time",
			Message: "at least one of entry_time or exit_time must be provided",
		})
	}

	for field, v := range map[string]*string{"entry_time": r.EntryTime, "exit_time": r.ExitTime} {
		if v != nil {
			if _, ok := validator.IsValidDateTime(*v); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: "must be an RFC3339 timestamp",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BackfillRequest creates a record after the fact, the one flow where an
// explicit past instant is accepted instead of the server clock.
type BackfillRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`       // YYYY-MM-DD
	EntryTime  string  `json:"entry_time"` // RFC3339
	ExitTime   *string `json:"exit_time,omitempty"`
	Reason     string  `json:"reason"`
	ActorID    string  `json:"-"`
}

func (r *BackfillRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "must be a date in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDateTime(r.EntryTime); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_time",
			Message: "must be an RFC3339 timestamp",
		})
	}

	if r.ExitTime != nil {
		if _, ok := validator.IsValidDateTime(*r.ExitTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "exit_time",
				Message: "must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateRequest is the owning employee's accept/reject response to a
// correction.
type ValidateRequest struct {
	RecordID   string `json:"-"`
	EmployeeID string `json:"-"`
	Accepted   bool   `json:"accepted"`
}

type AuditEntryResponse struct {
	ID            string                 `json:"id"`
	ClockRecordID string                 `json:"clock_record_id"`
	Action        string                 `json:"action"`
	ActorID       *string                `json:"actor_id"`
	Timestamp     string                 `json:"timestamp"`
	PreviousValue map[string]interface{} `json:"previous_value,omitempty"`
	NewValue      map[string]interface{} `json:"new_value,omitempty"`
	Reason        string                 `json:"reason"`
}
