package correction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/domain/employee"
	"github.com/gestionet/timeclock-backend-go/internal/domain/notification"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/clock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/validator"
)

type CorrectionServiceImpl struct {
	records   timeclock.ClockRecordRepository
	pauses    timeclock.PauseRepository
	audit     correction.AuditRepository
	employees employee.Repository
	notes     notification.Service
	clk       clock.Clock
	tx        database.Transactor
}

func NewCorrectionService(
	records timeclock.ClockRecordRepository,
	pauses timeclock.PauseRepository,
	audit correction.AuditRepository,
	employees employee.Repository,
	notes notification.Service,
	clk clock.Clock,
	tx database.Transactor,
) correction.Service {
	return &CorrectionServiceImpl{
		records:   records,
		pauses:    pauses,
		audit:     audit,
		employees: employees,
		notes:     notes,
		clk:       clk,
		tx:        tx,
	}
}

// Modify implements correction.Service.
func (s *CorrectionServiceImpl) Modify(ctx context.Context, req correction.ModifyRequest) (timeclock.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.RecordResponse{}, err
	}

	rec, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	newEntry := rec.EntryTime
	if req.EntryTime != nil {
		t, _ := validator.IsValidDateTime(*req.EntryTime)
		utc := t.UTC()
		newEntry = &utc
	}
	newExit := rec.ExitTime
	if req.ExitTime != nil {
		t, _ := validator.IsValidDateTime(*req.ExitTime)
		utc := t.UTC()
		newExit = &utc
	}

	if newEntry != nil && newExit != nil && !newExit.After(*newEntry) {
		return timeclock.RecordResponse{}, correction.ErrEntryAfterExit
	}

	now := s.clk.Now()

	snapshot := timeclock.Snapshot{
		EntryTime:   rec.EntryTime,
		ExitTime:    rec.ExitTime,
		WorkedHours: rec.WorkedHours,
		Reason:      req.Reason,
	}

	pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	updated := rec
	updated.EntryTime = newEntry
	updated.ExitTime = newExit
	updated.WorkedHours = nil
	updated.TotalHours = nil
	if newEntry != nil && newExit != nil {
		total, worked := recomputeHours(*newEntry, *newExit, pauses)
		updated.TotalHours = &total
		updated.WorkedHours = &worked
	}
	updated.IsModified = true
	actorID := req.ActorID
	updated.ModifiedBy = &actorID
	updated.ModifiedAt = &now
	updated.OriginalValues = &snapshot

	// A fresh correction restarts the notification and validation cycle.
	updated.NotifiedEmployee = false
	updated.EmployeeValidated = nil

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.records.Update(ctx, updated); err != nil {
			return err
		}

		_, err := s.audit.Create(ctx, correction.AuditEntry{
			ClockRecordID: rec.ID,
			Action:        correction.ActionCorrection,
			ActorID:       &actorID,
			Timestamp:     now,
			PreviousValue: recordValueMap(rec),
			NewValue:      recordValueMap(updated),
			Reason:        req.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to record correction audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	return s.toRecordResponse(updated, pauses), nil
}

// Notify implements correction.Service.
func (s *CorrectionServiceImpl) Notify(ctx context.Context, recordID string) error {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return err
	}

	if !rec.IsModified {
		return correction.ErrNothingToValidate
	}
	if rec.NotifiedEmployee {
		return nil
	}

	emp, err := s.employees.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrIdentityLookupFailed) || errors.Is(err, employee.ErrEmployeeNotFound) {
			log.Printf("[Correction] could not resolve employee %s, record %s stays pending notification: %v", rec.EmployeeID, rec.ID, err)
			return nil
		}
		return err
	}

	err = s.notes.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: emp.ID,
		Type:        notification.TypeRecordCorrected,
		Title:       "Your clock record was corrected",
		Message:     fmt.Sprintf("Your record of %s was modified, please review and confirm it.", rec.Date.Format("2006-01-02")),
		Data: map[string]interface{}{
			"clock_record_id": rec.ID,
			"date":            rec.Date.Format("2006-01-02"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to queue correction notification: %w", err)
	}

	rec.NotifiedEmployee = true
	if err := s.records.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to mark record notified: %w", err)
	}

	return nil
}

// Validate implements correction.Service.
func (s *CorrectionServiceImpl) Validate(ctx context.Context, req correction.ValidateRequest) (timeclock.RecordResponse, error) {
	rec, err := s.records.GetByID(ctx, req.RecordID)
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	if rec.EmployeeID != req.EmployeeID {
		return timeclock.RecordResponse{}, correction.ErrNotRecordOwner
	}
	if !rec.IsModified || rec.EmployeeValidated != nil {
		return timeclock.RecordResponse{}, correction.ErrNothingToValidate
	}

	now := s.clk.Now()
	accepted := req.Accepted
	rec.EmployeeValidated = &accepted

	verdict := "accepted"
	if !accepted {
		verdict = "rejected"
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.records.Update(ctx, rec); err != nil {
			return err
		}

		employeeID := req.EmployeeID
		_, err := s.audit.Create(ctx, correction.AuditEntry{
			ClockRecordID: rec.ID,
			Action:        correction.ActionValidation,
			ActorID:       &employeeID,
			Timestamp:     now,
			NewValue: map[string]interface{}{
				"employee_validated": accepted,
			},
			Reason: fmt.Sprintf("correction %s by employee", verdict),
		})
		if err != nil {
			return fmt.Errorf("failed to record validation audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	if rec.ModifiedBy != nil {
		err := s.notes.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: *rec.ModifiedBy,
			Type:        notification.TypeValidationSettled,
			Title:       "Correction " + verdict,
			Message:     fmt.Sprintf("The correction of the record of %s was %s by the employee.", rec.Date.Format("2006-01-02"), verdict),
			Data: map[string]interface{}{
				"clock_record_id": rec.ID,
				"accepted":        accepted,
			},
		})
		if err != nil {
			log.Printf("[Correction] failed to queue settlement notification: %v", err)
		}
	}

	pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	return s.toRecordResponse(rec, pauses), nil
}

// AddRecord implements correction.Service.
func (s *CorrectionServiceImpl) AddRecord(ctx context.Context, req correction.BackfillRequest) (timeclock.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.RecordResponse{}, err
	}
	if validator.IsEmpty(req.Reason) {
		return timeclock.RecordResponse{}, correction.ErrReasonRequired
	}

	now := s.clk.Now()
	day, _ := validator.IsValidDate(req.Date)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if day.After(today) {
		return timeclock.RecordResponse{}, correction.ErrFutureDateNotAllowed
	}

	entry, _ := validator.IsValidDateTime(req.EntryTime)
	entryUTC := entry.UTC()

	var exitUTC *time.Time
	if req.ExitTime != nil {
		exit, _ := validator.IsValidDateTime(*req.ExitTime)
		utc := exit.UTC()
		if !utc.After(entryUTC) {
			return timeclock.RecordResponse{}, correction.ErrEntryAfterExit
		}
		exitUTC = &utc
	}

	existing, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, day)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to check existing record: %w", err)
	}
	if existing != nil {
		return timeclock.RecordResponse{}, correction.ErrRecordAlreadyExists
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return timeclock.RecordResponse{}, err
	}

	actorID := req.ActorID
	rec := timeclock.ClockRecord{
		EmployeeID: req.EmployeeID,
		Date:       day,
		EntryTime:  &entryUTC,
		ExitTime:   exitUTC,
		IsModified: true,
		ModifiedBy: &actorID,
		ModifiedAt: &now,
	}
	if exitUTC != nil {
		total, worked := recomputeHours(entryUTC, *exitUTC, nil)
		rec.TotalHours = &total
		rec.WorkedHours = &worked
	}

	var created timeclock.ClockRecord
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.records.Create(ctx, rec)
		if err != nil {
			if errors.Is(err, timeclock.ErrAlreadyClockedIn) {
				return correction.ErrRecordAlreadyExists
			}
			return err
		}

		_, err = s.audit.Create(ctx, correction.AuditEntry{
			ClockRecordID: created.ID,
			Action:        correction.ActionBackfill,
			ActorID:       &actorID,
			Timestamp:     now,
			NewValue:      recordValueMap(created),
			Reason:        req.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to record backfill audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	qErr := s.notes.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: req.EmployeeID,
		Type:        notification.TypeRecordBackfilled,
		Title:       "A clock record was added for you",
		Message:     fmt.Sprintf("A record for %s was added on your behalf.", req.Date),
		Data: map[string]interface{}{
			"clock_record_id": created.ID,
			"date":            req.Date,
		},
	})
	if qErr != nil {
		log.Printf("[Correction] failed to queue backfill notification: %v", qErr)
	}

	return s.toRecordResponse(created, nil), nil
}

// ListAudit implements correction.Service.
func (s *CorrectionServiceImpl) ListAudit(ctx context.Context, recordID string) ([]correction.AuditEntryResponse, error) {
	if _, err := s.records.GetByID(ctx, recordID); err != nil {
		return nil, err
	}

	entries, err := s.audit.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	responses := make([]correction.AuditEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = correction.AuditEntryResponse{
			ID:            e.ID,
			ClockRecordID: e.ClockRecordID,
			Action:        e.Action,
			ActorID:       e.ActorID,
			Timestamp:     e.Timestamp.UTC().Format(time.RFC3339),
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
			Reason:        e.Reason,
		}
	}
	return responses, nil
}

func recomputeHours(entry, exit time.Time, pauses []timeclock.Pause) (total, worked float64) {
	totalHours := exit.Sub(entry).Hours()

	var pauseMinutes int
	for _, p := range pauses {
		if p.DurationMinutes != nil {
			pauseMinutes += *p.DurationMinutes
		}
	}

	total = roundHours(totalHours)
	worked = roundHours(totalHours - float64(pauseMinutes)/60)
	if worked < 0 {
		worked = 0
	}
	return total, worked
}

func roundHours(v float64) float64 {
	return math.Round(v*100) / 100
}

func recordValueMap(rec timeclock.ClockRecord) map[string]interface{} {
	m := map[string]interface{}{
		"entry_time":   nil,
		"exit_time":    nil,
		"worked_hours": rec.WorkedHours,
		"total_hours":  rec.TotalHours,
	}
	if rec.EntryTime != nil {
		m["entry_time"] = rec.EntryTime.UTC().Format(time.RFC3339)
	}
	if rec.ExitTime != nil {
		m["exit_time"] = rec.ExitTime.UTC().Format(time.RFC3339)
	}
	return m
}

func (s *CorrectionServiceImpl) toRecordResponse(rec timeclock.ClockRecord, pauses []timeclock.Pause) timeclock.RecordResponse {
	resp := timeclock.RecordResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		EmployeeName:      rec.EmployeeName,
		Date:              rec.Date.UTC().Format("2006-01-02"),
		EntryTime:         timeclock.FormatInstant(rec.EntryTime),
		ExitTime:          timeclock.FormatInstant(rec.ExitTime),
		WorkedHours:       rec.WorkedHours,
		TotalHours:        rec.TotalHours,
		IsModified:        rec.IsModified,
		ModifiedBy:        rec.ModifiedBy,
		ModifiedAt:        timeclock.FormatInstant(rec.ModifiedAt),
		OriginalValues:    rec.OriginalValues,
		NotifiedEmployee:  rec.NotifiedEmployee,
		EmployeeValidated: rec.EmployeeValidated,
	}

	for _, p := range pauses {
		resp.Pauses = append(resp.Pauses, timeclock.PauseResponse{
			ID:              p.ID,
			ClockRecordID:   p.ClockRecordID,
			Kind:            string(p.Kind),
			Start:           *timeclock.FormatInstant(&p.Start),
			End:             timeclock.FormatInstant(p.End),
			DurationMinutes: p.DurationMinutes,
			Description:     p.Description,
		})
	}

	return resp
}
