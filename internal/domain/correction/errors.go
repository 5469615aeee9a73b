package correction

import "errors"

var (
	ErrReasonRequired       = errors.New("a reason is required to correct a clock record")
	ErrRecordAlreadyExists  = errors.New("a clock record already exists for this employee and day")
	ErrFutureDateNotAllowed = errors.New("cannot add a clock record for a future date")
	ErrEntryAfterExit       = errors.New("exit time must be strictly after entry time")
	ErrNotRecordOwner       = errors.New("only the affected employee can settle this correction")
	ErrNothingToValidate    = errors.New("this record has no pending correction to settle")
)
