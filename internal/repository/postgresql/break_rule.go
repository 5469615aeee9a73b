package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type breakRuleRepository struct {
	db *database.DB
}

func NewBreakRuleRepository(db *database.DB) breakrule.Repository {
	return &breakRuleRepository{db: db}
}

// GetActiveByEmployee implements breakrule.Repository.
func (r *breakRuleRepository) GetActiveByEmployee(ctx context.Context, employeeID string) (*breakrule.BreakRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, minimum_hours_threshold, duration_minutes, active, updated_at
		FROM break_rules
		WHERE employee_id = $1 AND active
		LIMIT 1
	`

	var rule breakrule.BreakRule
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&rule.ID, &rule.EmployeeID, &rule.Kind, &rule.MinimumHoursThreshold,
		&rule.DurationMinutes, &rule.Active, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get break rule: %w", database.ClassifyError(err))
	}

	return &rule, nil
}

// Upsert implements breakrule.Repository. The previous active rule, if any,
// is retired in the same transaction so the one-active-rule index holds.
func (r *breakRuleRepository) Upsert(ctx context.Context, rule breakrule.BreakRule) (breakrule.BreakRule, error) {
	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx,
			`UPDATE break_rules SET active = FALSE, updated_at = $1 WHERE employee_id = $2 AND active`,
			time.Now().UTC(), rule.EmployeeID,
		); err != nil {
			return fmt.Errorf("failed to retire previous break rule: %w", database.ClassifyError(err))
		}

		if rule.ID == "" {
			rule.ID = uuid.New().String()
		}
		rule.Active = true

		err := q.QueryRow(txCtx, `
			INSERT INTO break_rules (id, employee_id, kind, minimum_hours_threshold, duration_minutes, active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING updated_at
		`, rule.ID, rule.EmployeeID, rule.Kind, rule.MinimumHoursThreshold, rule.DurationMinutes).Scan(&rule.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert break rule: %w", database.ClassifyError(err))
		}

		return nil
	})
	if err != nil {
		return breakrule.BreakRule{}, err
	}

	return rule, nil
}

// Deactivate implements breakrule.Repository.
func (r *breakRuleRepository) Deactivate(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE break_rules SET active = FALSE, updated_at = $1 WHERE employee_id = $2 AND active`,
		time.Now().UTC(), employeeID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate break rule: %w", database.ClassifyError(err))
	}

	if tag.RowsAffected() == 0 {
		return breakrule.ErrRuleNotFound
	}

	return nil
}
