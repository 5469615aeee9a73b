package employeecode

import "time"

// EmployeeCode maps a short terminal code to an employee identity, so any
// terminal can establish who is clocking without a full login. Codes are
// stored case-normalized and compared exactly.
type EmployeeCode struct {
	ID         string
	Code       string
	EmployeeID string
	Label      string
	Active     bool
	CreatedAt  time.Time
}
