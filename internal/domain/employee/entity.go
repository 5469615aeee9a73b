package employee

import "time"

// Employee is the slice of the identity directory this service needs: a
// display name for listings and a contact endpoint for notifications. The
// directory itself is owned by the identity service.
type Employee struct {
	ID        string
	FullName  string
	Email     *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
