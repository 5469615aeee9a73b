package correction

import "time"

// Audit actions recorded against clock records.
const (
	ActionCorrection = "correction"
	ActionBackfill   = "backfill"
	ActionAutoClose  = "auto_close"
	ActionValidation = "validation"
)

// AuditEntry is one append-only line in a record's correction history.
// Entries are never updated or deleted after creation.
type AuditEntry struct {
	ID            string
	ClockRecordID string
	Action        string
	ActorID       *string // nil = system
	Timestamp     time.Time
	PreviousValue map[string]interface{}
	NewValue      map[string]interface{}
	Reason        string
}
