package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestionet/timeclock-backend-go/internal/domain/employeecode"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeCodeRepository struct {
	db *database.DB
}

func NewEmployeeCodeRepository(db *database.DB) employeecode.Repository {
	return &employeeCodeRepository{db: db}
}

// GetActiveByCode implements employeecode.Repository.
func (r *employeeCodeRepository) GetActiveByCode(ctx context.Context, code string) (employeecode.EmployeeCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, employee_id, label, active, created_at
		FROM employee_codes
		WHERE code = $1 AND active
		LIMIT 1
	`

	var ec employeecode.EmployeeCode
	err := q.QueryRow(ctx, query, code).Scan(
		&ec.ID, &ec.Code, &ec.EmployeeID, &ec.Label, &ec.Active, &ec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employeecode.EmployeeCode{}, employeecode.ErrCodeNotFound
		}
		return employeecode.EmployeeCode{}, fmt.Errorf("failed to resolve employee code: %w", database.ClassifyError(err))
	}

	return ec, nil
}

// Create implements employeecode.Repository.
func (r *employeeCodeRepository) Create(ctx context.Context, ec employeecode.EmployeeCode) (employeecode.EmployeeCode, error) {
	q := GetQuerier(ctx, r.db)

	if ec.ID == "" {
		ec.ID = uuid.New().String()
	}
	ec.Active = true

	query := `
		INSERT INTO employee_codes (id, code, employee_id, label, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query, ec.ID, ec.Code, ec.EmployeeID, ec.Label).Scan(&ec.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "employee_codes_active_code") {
			return employeecode.EmployeeCode{}, employeecode.ErrCodeExists
		}
		if database.IsUniqueViolation(err, "employee_codes_one_active_label") {
			return employeecode.EmployeeCode{}, employeecode.ErrLabelTaken
		}
		return employeecode.EmployeeCode{}, fmt.Errorf("failed to create employee code: %w", database.ClassifyError(err))
	}

	return ec, nil
}

// Deactivate implements employeecode.Repository.
func (r *employeeCodeRepository) Deactivate(ctx context.Context, code string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employee_codes SET active = FALSE WHERE code = $1 AND active`, code)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee code: %w", database.ClassifyError(err))
	}

	if tag.RowsAffected() == 0 {
		return employeecode.ErrCodeNotFound
	}

	return nil
}

// ListByEmployee implements employeecode.Repository.
func (r *employeeCodeRepository) ListByEmployee(ctx context.Context, employeeID string) ([]employeecode.EmployeeCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, employee_id, label, active, created_at
		FROM employee_codes
		WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee codes: %w", database.ClassifyError(err))
	}
	defer rows.Close()

	var codes []employeecode.EmployeeCode
	for rows.Next() {
		var ec employeecode.EmployeeCode
		if err := rows.Scan(&ec.ID, &ec.Code, &ec.EmployeeID, &ec.Label, &ec.Active, &ec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee code: %w", err)
		}
		codes = append(codes, ec)
	}

	return codes, nil
}
