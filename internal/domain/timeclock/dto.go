package timeclock

import (
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeID string   `json:"employee_id"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type StartBreakRequest struct {
	EmployeeID  string    `json:"employee_id"`
	Kind        PauseKind `json:"kind"`
	Description string    `json:"description,omitempty"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !ValidPauseKind(r.Kind) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of meal, rest, other",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordFilter struct {
	EmployeeID        *string
	EmployeeName      *string
	Date              *string
	StartDate         *string
	EndDate           *string
	Modified          *bool
	PendingValidation *bool
	Page              int
	Limit             int
	SortBy            string
	SortOrder         string
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	for field, v := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if v != nil && *v != "" {
			if _, ok := validator.IsValidDate(*v); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: "must be a date in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" && !validator.IsInSlice(f.SortBy, []string{"date", "entry_time", "exit_time", "worked_hours"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of date, entry_time, exit_time, worked_hours",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PauseResponse struct {
	ID              string  `json:"id"`
	ClockRecordID   string  `json:"clock_record_id"`
	Kind            string  `json:"kind"`
	Start           string  `json:"start"`
	End             *string `json:"end,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Description     string  `json:"description,omitempty"`
}

type RecordResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      *string         `json:"employee_name,omitempty"`
	Date              string          `json:"date"`
	EntryTime         *string         `json:"entry_time"`
	ExitTime          *string         `json:"exit_time"`
	WorkedHours       *float64        `json:"worked_hours"`
	TotalHours        *float64        `json:"total_hours"`
	IsModified        bool            `json:"is_modified"`
	ModifiedBy        *string         `json:"modified_by,omitempty"`
	ModifiedAt        *string         `json:"modified_at,omitempty"`
	OriginalValues    *Snapshot       `json:"original_values,omitempty"`
	NotifiedEmployee  bool            `json:"notified_employee"`
	EmployeeValidated *bool           `json:"employee_validated"`
	Pauses            []PauseResponse `json:"pauses,omitempty"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

// StatusResponse tells the caller which transitions are currently legal, so
// terminals never re-derive state from raw rows.
type StatusResponse struct {
	EmployeeID    string                `json:"employee_id"`
	CanClockIn    bool                  `json:"can_clock_in"`
	CanClockOut   bool                  `json:"can_clock_out"`
	CanStartBreak bool                  `json:"can_start_break"`
	CanEndBreak   bool                  `json:"can_end_break"`
	ActivePause   *PauseResponse        `json:"active_pause,omitempty"`
	Record        *RecordResponse       `json:"record,omitempty"`
	BreakDue      *breakrule.Evaluation `json:"break_due,omitempty"`
}

// FormatInstant renders an instant as UTC with second precision, the format
// terminal clients display.
func FormatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02 15:04:05")
	return &s
}
