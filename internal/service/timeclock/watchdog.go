package timeclock

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/domain/notification"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
)

// autoCloseReason is recorded in the snapshot and the audit trail of every
// watchdog closure.
const autoCloseReason = "session left open, closed automatically at end of day"

// SweepStale implements timeclock.Service. It force-closes open records
// dated before today at the end of their own day. The conditional close
// makes concurrent sweeps and a racing clock-out collapse to a no-op, so the
// sweep can run from the scheduler and from request paths at the same time.
func (s *TimeclockServiceImpl) SweepStale(ctx context.Context, employeeID *string) (int, error) {
	today := truncateToDay(s.clk.Now())

	stale, err := s.records.GetOpenBefore(ctx, employeeID, today)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale sessions: %w", err)
	}

	closed := 0
	for _, rec := range stale {
		didClose, err := s.closeStale(ctx, rec)
		if err != nil {
			log.Printf("[Watchdog] failed to close record %s: %v", rec.ID, err)
			continue
		}
		if didClose {
			closed++
		}
	}

	return closed, nil
}

// closeStale closes one stale record at 23:59:59 of its own day and leaves
// an audit entry. The employee is told through the notification sink; a
// failure there never unwinds the closure.
func (s *TimeclockServiceImpl) closeStale(ctx context.Context, rec timeclock.ClockRecord) (bool, error) {
	day := truncateToDay(rec.Date)
	closeAt := day.Add(24*time.Hour - time.Second)
	now := s.clk.Now()

	var didClose bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load breaks: %w", err)
		}

		// A break left running is cut off at the same instant.
		for i := range pauses {
			if !pauses[i].Active() {
				continue
			}
			duration := int(math.Round(closeAt.Sub(pauses[i].Start).Minutes()))
			if duration < 0 {
				duration = 0
			}
			if err := s.pauses.Close(ctx, pauses[i].ID, closeAt, duration); err != nil {
				return fmt.Errorf("failed to close dangling break: %w", err)
			}
			pauses[i].End = &closeAt
			pauses[i].DurationMinutes = &duration
		}

		total, worked := computeHours(*rec.EntryTime, closeAt, pauses)

		snapshot := timeclock.Snapshot{
			EntryTime:   rec.EntryTime,
			ExitTime:    nil,
			WorkedHours: rec.WorkedHours,
			Reason:      autoCloseReason,
		}

		closedRec := rec
		closedRec.ExitTime = &closeAt
		closedRec.TotalHours = &total
		closedRec.WorkedHours = &worked
		closedRec.IsModified = true
		closedRec.ModifiedBy = nil // system
		closedRec.ModifiedAt = &now
		closedRec.OriginalValues = &snapshot
		closedRec.NotifiedEmployee = false
		closedRec.EmployeeValidated = nil

		ok, err := s.records.CloseIfOpen(ctx, closedRec)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		didClose = true

		_, err = s.audit.Create(ctx, correction.AuditEntry{
			ClockRecordID: rec.ID,
			Action:        correction.ActionAutoClose,
			ActorID:       nil,
			Timestamp:     now,
			PreviousValue: map[string]interface{}{
				"exit_time": nil,
			},
			NewValue: map[string]interface{}{
				"exit_time":    closeAt.UTC().Format(time.RFC3339),
				"total_hours":  total,
				"worked_hours": worked,
			},
			Reason: autoCloseReason,
		})
		if err != nil {
			return fmt.Errorf("failed to record auto-close audit entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}
	if !didClose {
		return false, nil
	}

	if s.notes != nil {
		err := s.notes.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: rec.EmployeeID,
			Type:        notification.TypeRecordAutoClosed,
			Title:       "Session closed automatically",
			Message:     fmt.Sprintf("Your session of %s was left open and has been closed at end of day.", day.Format("2006-01-02")),
			Data: map[string]interface{}{
				"clock_record_id": rec.ID,
				"date":            day.Format("2006-01-02"),
			},
		})
		if err != nil {
			log.Printf("[Watchdog] failed to queue auto-close notification: %v", err)
		}
	}

	return true, nil
}
