package database

import (
	"context"
	"fmt"
)

// Schema statements applied in order on startup. The unique indexes are load
// bearing: clock_records_employee_day arbitrates concurrent clock-ins,
// pauses_one_open arbitrates concurrent break starts, and
// employee_codes_one_active_label keeps one active code per display label.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id          UUID PRIMARY KEY,
		full_name   TEXT NOT NULL,
		email       TEXT,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS employee_codes (
		id          UUID PRIMARY KEY,
		code        TEXT NOT NULL,
		employee_id UUID NOT NULL REFERENCES employees(id),
		label       TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employee_codes_active_code
		ON employee_codes (code) WHERE active`,
	`CREATE UNIQUE INDEX IF NOT EXISTS employee_codes_one_active_label
		ON employee_codes (label) WHERE active`,

	`CREATE TABLE IF NOT EXISTS clock_records (
		id                 UUID PRIMARY KEY,
		employee_id        UUID NOT NULL REFERENCES employees(id),
		date               DATE NOT NULL,
		entry_time         TIMESTAMPTZ,
		exit_time          TIMESTAMPTZ,
		worked_hours       DOUBLE PRECISION,
		total_hours        DOUBLE PRECISION,
		is_modified        BOOLEAN NOT NULL DEFAULT FALSE,
		modified_by        UUID,
		modified_at        TIMESTAMPTZ,
		original_values    JSONB,
		notified_employee  BOOLEAN NOT NULL DEFAULT FALSE,
		employee_validated BOOLEAN,
		latitude           DOUBLE PRECISION,
		longitude          DOUBLE PRECISION,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS clock_records_employee_day
		ON clock_records (employee_id, date)`,
	`CREATE INDEX IF NOT EXISTS clock_records_open
		ON clock_records (employee_id) WHERE exit_time IS NULL`,

	`CREATE TABLE IF NOT EXISTS pauses (
		id               UUID PRIMARY KEY,
		clock_record_id  UUID NOT NULL REFERENCES clock_records(id),
		kind             TEXT NOT NULL,
		start_time       TIMESTAMPTZ NOT NULL,
		end_time         TIMESTAMPTZ,
		duration_minutes INTEGER,
		description      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS pauses_one_open
		ON pauses (clock_record_id) WHERE end_time IS NULL`,

	`CREATE TABLE IF NOT EXISTS break_rules (
		id                      UUID PRIMARY KEY,
		employee_id             UUID NOT NULL REFERENCES employees(id),
		kind                    TEXT NOT NULL,
		minimum_hours_threshold DOUBLE PRECISION,
		duration_minutes        INTEGER NOT NULL,
		active                  BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS break_rules_one_active
		ON break_rules (employee_id) WHERE active`,

	`CREATE TABLE IF NOT EXISTS audit_entries (
		id              UUID PRIMARY KEY,
		clock_record_id UUID NOT NULL REFERENCES clock_records(id),
		action          TEXT NOT NULL,
		actor_id        UUID,
		ts              TIMESTAMPTZ NOT NULL,
		previous_value  JSONB,
		new_value       JSONB,
		reason          TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS audit_entries_record
		ON audit_entries (clock_record_id, ts)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id           UUID PRIMARY KEY,
		recipient_id UUID NOT NULL,
		type         TEXT NOT NULL,
		title        TEXT NOT NULL,
		message      TEXT NOT NULL,
		data         JSONB,
		is_read      BOOLEAN NOT NULL DEFAULT FALSE,
		read_at      TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS notifications_recipient
		ON notifications (recipient_id, created_at DESC)`,
}

// Migrate applies the schema. Statements are idempotent so repeated startup
// runs are safe.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
