package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type pauseRepository struct {
	db *database.DB
}

func NewPauseRepository(db *database.DB) timeclock.PauseRepository {
	return &pauseRepository{db: db}
}

// Create implements timeclock.PauseRepository.
func (r *pauseRepository) Create(ctx context.Context, p timeclock.Pause) (timeclock.Pause, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO pauses (id, clock_record_id, kind, start_time, end_time, duration_minutes, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		p.ID, p.ClockRecordID, p.Kind, p.Start, p.End, p.DurationMinutes, p.Description,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "pauses_one_open") {
			return timeclock.Pause{}, timeclock.ErrBreakAlreadyActive
		}
		return timeclock.Pause{}, fmt.Errorf("failed to create pause: %w", database.ClassifyError(err))
	}

	return p, nil
}

// GetActiveByRecord implements timeclock.PauseRepository.
func (r *pauseRepository) GetActiveByRecord(ctx context.Context, clockRecordID string) (*timeclock.Pause, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clock_record_id, kind, start_time, end_time, duration_minutes, description
		FROM pauses
		WHERE clock_record_id = $1 AND end_time IS NULL
		LIMIT 1
	`

	var p timeclock.Pause
	err := q.QueryRow(ctx, query, clockRecordID).Scan(
		&p.ID, &p.ClockRecordID, &p.Kind, &p.Start, &p.End, &p.DurationMinutes, &p.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active pause: %w", database.ClassifyError(err))
	}

	return &p, nil
}

// ListByRecord implements timeclock.PauseRepository.
func (r *pauseRepository) ListByRecord(ctx context.Context, clockRecordID string) ([]timeclock.Pause, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, clock_record_id, kind, start_time, end_time, duration_minutes, description
		FROM pauses
		WHERE clock_record_id = $1
		ORDER BY start_time
	`

	rows, err := q.Query(ctx, query, clockRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pauses: %w", database.ClassifyError(err))
	}
	defer rows.Close()

	var pauses []timeclock.Pause
	for rows.Next() {
		var p timeclock.Pause
		if err := rows.Scan(&p.ID, &p.ClockRecordID, &p.Kind, &p.Start, &p.End, &p.DurationMinutes, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan pause: %w", err)
		}
		pauses = append(pauses, p)
	}

	return pauses, nil
}

// Close implements timeclock.PauseRepository.
func (r *pauseRepository) Close(ctx context.Context, pauseID string, end time.Time, durationMinutes int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pauses SET end_time = $1, duration_minutes = $2
		WHERE id = $3 AND end_time IS NULL
	`

	tag, err := q.Exec(ctx, query, end, durationMinutes, pauseID)
	if err != nil {
		return fmt.Errorf("failed to close pause: %w", database.ClassifyError(err))
	}

	if tag.RowsAffected() == 0 {
		return timeclock.ErrNoActiveBreak
	}

	return nil
}
