package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeRecordCorrected   NotificationType = "record_corrected"
	TypeRecordBackfilled  NotificationType = "record_backfilled"
	TypeRecordAutoClosed  NotificationType = "record_auto_closed"
	TypeValidationSettled NotificationType = "validation_settled"
)

// Notification is one message queued for an employee. Delivery is fire and
// forget from the producing workflow's perspective.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
