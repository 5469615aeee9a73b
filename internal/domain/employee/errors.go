package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrIdentityLookupFailed classifies transient failures of the identity
	// directory. Non-fatal for notification flows: the correction stands,
	// the notification is skipped and logged.
	ErrIdentityLookupFailed = errors.New("identity directory lookup failed")
)
