package timeclock

import "errors"

// State-violation errors. Deterministic, surfaced to the caller as specific
// messages and never retried.
var (
	ErrAlreadyClockedIn   = errors.New("you have already clocked in today")
	ErrAlreadyClockedOut  = errors.New("you have already clocked out today")
	ErrNoOpenSession      = errors.New("you have not clocked in yet")
	ErrBreakInProgress    = errors.New("a break is still in progress, end it before clocking out")
	ErrBreakAlreadyActive = errors.New("a break is already active")
	ErrNoActiveBreak      = errors.New("no break is currently active")

	ErrRecordNotFound = errors.New("clock record not found")
)
