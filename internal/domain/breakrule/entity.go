package breakrule

import "time"

// BreakRule is a per-employee break policy. A nil MinimumHoursThreshold
// means the break is mandatory regardless of hours worked; a set threshold
// makes it due only once worked hours reach it.
type BreakRule struct {
	ID                    string
	EmployeeID            string
	Kind                  string
	MinimumHoursThreshold *float64
	DurationMinutes       int
	Active                bool
	UpdatedAt             time.Time
}

// Mandatory reports whether the rule applies regardless of worked hours.
func (r BreakRule) Mandatory() bool {
	return r.MinimumHoursThreshold == nil
}

// Evaluation is the engine's advisory verdict for one employee at one point
// in the day. It never blocks clock-out; enforcement is layered on top by
// the caller.
type Evaluation struct {
	Due             bool    `json:"due"`
	Kind            string  `json:"kind,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	Reason          string  `json:"reason"`
	WorkedHours     float64 `json:"worked_hours"`
}
