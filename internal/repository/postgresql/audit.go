package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) correction.AuditRepository {
	return &auditRepository{db: db}
}

// Create implements correction.AuditRepository.
func (r *auditRepository) Create(ctx context.Context, entry correction.AuditEntry) (correction.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	prev, err := json.Marshal(entry.PreviousValue)
	if err != nil {
		return correction.AuditEntry{}, fmt.Errorf("failed to encode previous_value: %w", err)
	}
	next, err := json.Marshal(entry.NewValue)
	if err != nil {
		return correction.AuditEntry{}, fmt.Errorf("failed to encode new_value: %w", err)
	}

	query := `
		INSERT INTO audit_entries (id, clock_record_id, action, actor_id, ts, previous_value, new_value, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = q.Exec(ctx, query,
		entry.ID, entry.ClockRecordID, entry.Action, entry.ActorID,
		entry.Timestamp, prev, next, entry.Reason,
	)
	if err != nil {
		return correction.AuditEntry{}, fmt.Errorf("failed to append audit entry: %w", database.ClassifyError(err))
	}

	return entry, nil
}

// ListByRecord implements correction.AuditRepository.
func (r *auditRepository) ListByRecord(ctx context.Context, clockRecordID string) ([]correction.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clock_record_id, action, actor_id, ts, previous_value, new_value, reason
		FROM audit_entries
		WHERE clock_record_id = $1
		ORDER BY ts
	`

	rows, err := q.Query(ctx, query, clockRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", database.ClassifyError(err))
	}
	defer rows.Close()

	var entries []correction.AuditEntry
	for rows.Next() {
		var entry correction.AuditEntry
		var prev, next []byte
		if err := rows.Scan(&entry.ID, &entry.ClockRecordID, &entry.Action, &entry.ActorID,
			&entry.Timestamp, &prev, &next, &entry.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(prev) > 0 {
			if err := json.Unmarshal(prev, &entry.PreviousValue); err != nil {
				return nil, fmt.Errorf("failed to decode previous_value: %w", err)
			}
		}
		if len(next) > 0 {
			if err := json.Unmarshal(next, &entry.NewValue); err != nil {
				return nil, fmt.Errorf("failed to decode new_value: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
