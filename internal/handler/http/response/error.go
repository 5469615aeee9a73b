package response

import (
	"errors"
	"net/http"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/domain/notification"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. State violations are
// conflicts: the request was well formed, the state machine just does not
// allow the transition right now.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Clock-event state violations
	case errors.Is(err, timeclock.ErrAlreadyClockedIn),
		errors.Is(err, timeclock.ErrAlreadyClockedOut),
		errors.Is(err, timeclock.ErrNoOpenSession),
		errors.Is(err, timeclock.ErrBreakInProgress),
		errors.Is(err, timeclock.ErrBreakAlreadyActive),
		errors.Is(err, timeclock.ErrNoActiveBreak):
		Conflict(w, err.Error())
	case errors.Is(err, timeclock.ErrRecordNotFound):
		NotFound(w, "Clock record not found")

	// Correction workflow errors
	case errors.Is(err, correction.ErrReasonRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, correction.ErrRecordAlreadyExists),
		errors.Is(err, correction.ErrNothingToValidate):
		Conflict(w, err.Error())
	case errors.Is(err, correction.ErrFutureDateNotAllowed),
		errors.Is(err, correction.ErrEntryAfterExit):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, correction.ErrNotRecordOwner):
		Forbidden(w, err.Error())

	// Employee code errors
	case errors.Is(err, employeecode.ErrCodeNotFound):
		NotFound(w, "Employee code not recognized")
	case errors.Is(err, employeecode.ErrCodeExists),
		errors.Is(err, employeecode.ErrLabelTaken):
		Conflict(w, err.Error())

	// Break rule errors
	case errors.Is(err, breakrule.ErrRuleNotFound):
		NotFound(w, err.Error())

	// Identity directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrIdentityLookupFailed):
		ServiceUnavailable(w, "Identity directory is unavailable, try again")

	// Notification errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Store failures are transient, clients may retry
	case errors.Is(err, database.ErrStoreUnavailable):
		ServiceUnavailable(w, "Record store is unavailable, try again")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
