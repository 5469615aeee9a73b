package correction

import (
	"context"

	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
)

// Service is the correction workflow, orthogonal to the clock-event state
// machine: Unmodified → ModifiedPendingNotification →
// ModifiedPendingValidation → Validated | Rejected.
type Service interface {
	// Modify rewrites entry/exit times, snapshots the originals, resets the
	// notification/validation cycle and appends exactly one audit entry.
	Modify(ctx context.Context, req ModifyRequest) (timeclock.RecordResponse, error)

	// Notify resolves the employee in the identity directory and enqueues a
	// "your record was modified" message. Lookup failure is non-fatal: the
	// correction stands, pending notification.
	Notify(ctx context.Context, recordID string) error

	// Validate settles a pending correction. Rejection surfaces the
	// disagreement for human follow-up; nothing is reverted automatically.
	Validate(ctx context.Context, req ValidateRequest) (timeclock.RecordResponse, error)

	// AddRecord backfills a record for a past day, always marked modified.
	AddRecord(ctx context.Context, req BackfillRequest) (timeclock.RecordResponse, error)

	ListAudit(ctx context.Context, recordID string) ([]AuditEntryResponse, error)
}
