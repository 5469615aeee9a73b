package correction

import "context"

// AuditRepository is append-only. There is deliberately no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry AuditEntry) (AuditEntry, error)
	ListByRecord(ctx context.Context, clockRecordID string) ([]AuditEntry, error)
}
