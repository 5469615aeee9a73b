package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type clockRecordRepository struct {
	db *database.DB
}

func NewClockRecordRepository(db *database.DB) timeclock.ClockRecordRepository {
	return &clockRecordRepository{db: db}
}

const clockRecordColumns = `
	c.id, c.employee_id, c.date, c.entry_time, c.exit_time,
	c.worked_hours, c.total_hours, c.is_modified, c.modified_by, c.modified_at,
	c.original_values, c.notified_employee, c.employee_validated,
	c.latitude, c.longitude, c.created_at, c.updated_at`

func scanClockRecord(row pgx.Row, withName bool) (timeclock.ClockRecord, error) {
	var rec timeclock.ClockRecord
	var rawSnapshot []byte

	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.EntryTime, &rec.ExitTime,
		&rec.WorkedHours, &rec.TotalHours, &rec.IsModified, &rec.ModifiedBy, &rec.ModifiedAt,
		&rawSnapshot, &rec.NotifiedEmployee, &rec.EmployeeValidated,
		&rec.Latitude, &rec.Longitude, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withName {
		dest = append(dest, &rec.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return timeclock.ClockRecord{}, err
	}

	if len(rawSnapshot) > 0 {
		var snap timeclock.Snapshot
		if err := json.Unmarshal(rawSnapshot, &snap); err != nil {
			return timeclock.ClockRecord{}, fmt.Errorf("failed to decode original_values: %w", err)
		}
		rec.OriginalValues = &snap
	}

	return rec, nil
}

func marshalSnapshot(snap *timeclock.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, nil
	}
	return json.Marshal(snap)
}

// Create implements timeclock.ClockRecordRepository.
func (r *clockRecordRepository) Create(ctx context.Context, rec timeclock.ClockRecord) (timeclock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	rawSnapshot, err := marshalSnapshot(rec.OriginalValues)
	if err != nil {
		return timeclock.ClockRecord{}, fmt.Errorf("failed to encode original_values: %w", err)
	}

	query := `
		INSERT INTO clock_records (
			id, employee_id, date, entry_time, exit_time,
			worked_hours, total_hours, is_modified, modified_by, modified_at,
			original_values, notified_employee, employee_validated,
			latitude, longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.Date,
		rec.EntryTime,
		rec.ExitTime,
		rec.WorkedHours,
		rec.TotalHours,
		rec.IsModified,
		rec.ModifiedBy,
		rec.ModifiedAt,
		rawSnapshot,
		rec.NotifiedEmployee,
		rec.EmployeeValidated,
		rec.Latitude,
		rec.Longitude,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, "clock_records_employee_day") {
			return timeclock.ClockRecord{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.ClockRecord{}, fmt.Errorf("failed to create clock record: %w", database.ClassifyError(err))
	}

	return rec, nil
}

// GetByID implements timeclock.ClockRecordRepository.
func (r *clockRecordRepository) GetByID(ctx context.Context, id string) (timeclock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockRecordColumns + `, e.full_name AS employee_name
		FROM clock_records c
		LEFT JOIN employees e ON e.id = c.employee_id
		WHERE c.id = $1
	`

	rec, err := scanClockRecord(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ClockRecord{}, timeclock.ErrRecordNotFound
		}
		return timeclock.ClockRecord{}, fmt.Errorf("failed to get clock record: %w", database.ClassifyError(err))
	}

	return rec, nil
}

// GetByEmployeeAndDate implements timeclock.ClockRecordRepository.
func (r *clockRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*timeclock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockRecordColumns + `
		FROM clock_records c
		WHERE c.employee_id = $1 AND c.date = $2
		LIMIT 1
	`

	rec, err := scanClockRecord(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clock record by employee and date: %w", database.ClassifyError(err))
	}

	return &rec, nil
}

// GetOpenBefore implements timeclock.ClockRecordRepository.
func (r *clockRecordRepository) GetOpenBefore(ctx context.Context, employeeID *string, day time.Time) ([]timeclock.ClockRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockRecordColumns + `
		FROM clock_records c
		WHERE c.exit_time IS NULL AND c.entry_time IS NOT NULL AND c.date < $1
	`
	args := []interface{}{day}
	if employeeID != nil {
		query += " AND c.employee_id = $2"
		args = append(args, *employeeID)
	}
	query += " ORDER BY c.date"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open clock records: %w", database.ClassifyError(err))
	}
	defer rows.Close()

	var records []timeclock.ClockRecord
	for rows.Next() {
		rec, err := scanClockRecord(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Update implements timeclock.ClockRecordRepository.
func (r *clockRecordRepository) Update(ctx context.Context, rec timeclock.ClockRecord) error {
	q := GetQuerier(ctx, r.db)

	rawSnapshot, err := marshalSnapshot(rec.OriginalValues)
	if err != nil {
		return fmt.Errorf("failed to encode original_values: %w", err)
	}

	query := `
		UPDATE clock_records SET
			entry_time = $1, exit_time = $2,
			worked_hours = $3, total_hours = $4,
			is_modified = $5, modified_by = $6, modified_at = $7,
			original_values = $8, notified_employee = $9, employee_validated = $10,
			updated_at = $11
		WHERE id = $12
		RETURNING id
	`

	var updatedID string
	err = q.QueryRow(ctx, query,
		rec.EntryTime, rec.ExitTime,
		rec.WorkedHours, rec.TotalHours,
		rec.IsModified, rec.ModifiedBy, rec.ModifiedAt,
		rawSnapshot, rec.NotifiedEmployee, rec.EmployeeValidated,
		time.Now().UTC(),
		rec.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update clock record: %w", database.ClassifyError(err))
	}

	return nil
}

// CloseIfOpen implements timeclock.ClockRecordRepository. The WHERE clause
// makes the close atomic: a concurrent sweep or clock-out leaves nothing for
// this update to match, and the caller sees closed = false.
func (r *clockRecordRepository) CloseIfOpen(ctx context.Context, rec timeclock.ClockRecord) (bool, error) {
	q := GetQuerier(ctx, r.db)

	rawSnapshot, err := marshalSnapshot(rec.OriginalValues)
	if err != nil {
		return false, fmt.Errorf("failed to encode original_values: %w", err)
	}

	query := `
		UPDATE clock_records SET
			exit_time = $1, worked_hours = $2, total_hours = $3,
			is_modified = $4, modified_by = $5, modified_at = $6,
			original_values = $7, notified_employee = $8,
			employee_validated = $9, updated_at = $10
		WHERE id = $11 AND exit_time IS NULL
	`

	tag, err := q.Exec(ctx, query,
		rec.ExitTime, rec.WorkedHours, rec.TotalHours,
		rec.IsModified, rec.ModifiedBy, rec.ModifiedAt,
		rawSnapshot, rec.NotifiedEmployee,
		rec.EmployeeValidated, time.Now().UTC(), rec.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to close clock record: %w", database.ClassifyError(err))
	}

	return tag.RowsAffected() > 0, nil
}

// List implements timeclock.ClockRecordRepository.
func (r *clockRecordRepository) List(ctx context.Context, filter timeclock.RecordFilter) ([]timeclock.ClockRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND c.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		baseWhere += fmt.Sprintf(" AND e.full_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND c.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND c.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND c.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Modified != nil {
		baseWhere += fmt.Sprintf(" AND c.is_modified = $%d", argIdx)
		args = append(args, *filter.Modified)
		argIdx++
	}

	if filter.PendingValidation != nil && *filter.PendingValidation {
		baseWhere += " AND c.is_modified AND c.employee_validated IS NULL"
	}

	countQuery := `
		SELECT COUNT(*)
		FROM clock_records c
		LEFT JOIN employees e ON e.id = c.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count clock records: %w", database.ClassifyError(err))
	}

	orderByField := "c.date"
	switch filter.SortBy {
	case "entry_time":
		orderByField = "c.entry_time"
	case "exit_time":
		orderByField = "c.exit_time"
	case "worked_hours":
		orderByField = "c.worked_hours"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(`
		SELECT `+clockRecordColumns+`, e.full_name AS employee_name
		FROM clock_records c
		LEFT JOIN employees e ON e.id = c.employee_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query clock records: %w", database.ClassifyError(err))
	}
	defer rows.Close()

	var records []timeclock.ClockRecord
	for rows.Next() {
		rec, err := scanClockRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan clock record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}
