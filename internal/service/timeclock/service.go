package timeclock

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/breakrule"
	"github.com/gestionet/timeclock-backend-go/internal/domain/correction"
	"github.com/gestionet/timeclock-backend-go/internal/domain/notification"
	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/clock"
	"github.com/gestionet/timeclock-backend-go/internal/pkg/database"
)

type TimeclockServiceImpl struct {
	records timeclock.ClockRecordRepository
	pauses  timeclock.PauseRepository
	rules   breakrule.Service
	audit   correction.AuditRepository
	notes   notification.Service
	clk     clock.Clock
	tx      database.Transactor
}

func NewTimeclockService(
	records timeclock.ClockRecordRepository,
	pauses timeclock.PauseRepository,
	rules breakrule.Service,
	audit correction.AuditRepository,
	notes notification.Service,
	clk clock.Clock,
	tx database.Transactor,
) timeclock.Service {
	return &TimeclockServiceImpl{
		records: records,
		pauses:  pauses,
		rules:   rules,
		audit:   audit,
		notes:   notes,
		clk:     clk,
		tx:      tx,
	}
}

// truncateToDay drops the time-of-day component.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// computeHours derives total and worked hours for a record closed at exit.
// Worked hours subtract the closed pauses; an open pause contributes nothing
// until it is ended.
func computeHours(entry, exit time.Time, pauses []timeclock.Pause) (total, worked float64) {
	total = round2(exit.Sub(entry).Hours())

	var pauseMinutes int
	for _, p := range pauses {
		if p.DurationMinutes != nil {
			pauseMinutes += *p.DurationMinutes
		}
	}

	worked = round2(total - float64(pauseMinutes)/60)
	if worked < 0 {
		worked = 0
	}
	return total, worked
}

// ClockIn implements timeclock.Service.
func (s *TimeclockServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockInRequest) (timeclock.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.RecordResponse{}, err
	}

	now := s.clk.Now()
	today := truncateToDay(now)

	// Fast pre-check; the (employee_id, date) unique index is the real
	// arbiter under concurrency.
	existing, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to check today's record: %w", err)
	}
	if existing != nil {
		return timeclock.RecordResponse{}, timeclock.ErrAlreadyClockedIn
	}

	rec := timeclock.ClockRecord{
		EmployeeID: req.EmployeeID,
		Date:       today,
		EntryTime:  &now,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}

	created, err := s.records.Create(ctx, rec)
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	return s.toRecordResponse(created, nil), nil
}

// ClockOut implements timeclock.Service.
func (s *TimeclockServiceImpl) ClockOut(ctx context.Context, employeeID string) (timeclock.RecordResponse, error) {
	now := s.clk.Now()
	today := truncateToDay(now)

	rec, err := s.records.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil {
		return timeclock.RecordResponse{}, timeclock.ErrNoOpenSession
	}
	if !rec.Open() {
		return timeclock.RecordResponse{}, timeclock.ErrAlreadyClockedOut
	}

	active, err := s.pauses.GetActiveByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to check active break: %w", err)
	}
	if active != nil {
		return timeclock.RecordResponse{}, timeclock.ErrBreakInProgress
	}

	pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	total, worked := computeHours(*rec.EntryTime, now, pauses)

	closed := *rec
	closed.ExitTime = &now
	closed.TotalHours = &total
	closed.WorkedHours = &worked

	ok, err := s.records.CloseIfOpen(ctx, closed)
	if err != nil {
		return timeclock.RecordResponse{}, err
	}
	if !ok {
		return timeclock.RecordResponse{}, timeclock.ErrAlreadyClockedOut
	}

	return s.toRecordResponse(closed, pauses), nil
}

// StartBreak implements timeclock.Service.
func (s *TimeclockServiceImpl) StartBreak(ctx context.Context, req timeclock.StartBreakRequest) (timeclock.PauseResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.PauseResponse{}, err
	}

	now := s.clk.Now()
	today := truncateToDay(now)

	rec, err := s.records.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return timeclock.PauseResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil {
		return timeclock.PauseResponse{}, timeclock.ErrNoOpenSession
	}
	if !rec.Open() {
		return timeclock.PauseResponse{}, timeclock.ErrAlreadyClockedOut
	}

	p := timeclock.Pause{
		ClockRecordID: rec.ID,
		Kind:          req.Kind,
		Start:         now,
		Description:   req.Description,
	}

	created, err := s.pauses.Create(ctx, p)
	if err != nil {
		return timeclock.PauseResponse{}, err
	}

	return toPauseResponse(created), nil
}

// EndBreak implements timeclock.Service.
func (s *TimeclockServiceImpl) EndBreak(ctx context.Context, employeeID string) (timeclock.PauseResponse, error) {
	now := s.clk.Now()
	today := truncateToDay(now)

	rec, err := s.records.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return timeclock.PauseResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil {
		return timeclock.PauseResponse{}, timeclock.ErrNoOpenSession
	}

	active, err := s.pauses.GetActiveByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.PauseResponse{}, fmt.Errorf("failed to load active break: %w", err)
	}
	if active == nil {
		return timeclock.PauseResponse{}, timeclock.ErrNoActiveBreak
	}

	duration := int(math.Round(now.Sub(active.Start).Minutes()))
	if err := s.pauses.Close(ctx, active.ID, now, duration); err != nil {
		return timeclock.PauseResponse{}, err
	}

	active.End = &now
	active.DurationMinutes = &duration

	pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.PauseResponse{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	// Hours-so-far stay current on every break close; ClockOut recomputes
	// them once more against the final exit instant.
	total, worked := computeHours(*rec.EntryTime, now, pauses)
	rec.TotalHours = &total
	rec.WorkedHours = &worked
	if err := s.records.Update(ctx, *rec); err != nil {
		return timeclock.PauseResponse{}, fmt.Errorf("failed to update record hours: %w", err)
	}

	return toPauseResponse(*active), nil
}

// CurrentStatus implements timeclock.Service.
func (s *TimeclockServiceImpl) CurrentStatus(ctx context.Context, employeeID string) (timeclock.StatusResponse, error) {
	if _, err := s.SweepStale(ctx, &employeeID); err != nil {
		log.Printf("[Timeclock] stale sweep before status failed: %v", err)
	}

	now := s.clk.Now()
	today := truncateToDay(now)

	status := timeclock.StatusResponse{EmployeeID: employeeID}

	rec, err := s.records.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return timeclock.StatusResponse{}, fmt.Errorf("failed to load today's record: %w", err)
	}
	if rec == nil {
		status.CanClockIn = true
		return status, nil
	}

	pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.StatusResponse{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	resp := s.toRecordResponse(*rec, pauses)
	status.Record = &resp

	if !rec.Open() {
		return status, nil
	}

	var active *timeclock.Pause
	for i := range pauses {
		if pauses[i].Active() {
			active = &pauses[i]
			break
		}
	}

	if active != nil {
		ap := toPauseResponse(*active)
		status.ActivePause = &ap
		status.CanEndBreak = true
		return status, nil
	}

	status.CanClockOut = true
	status.CanStartBreak = true

	_, workedSoFar := computeHours(*rec.EntryTime, now, pauses)
	eval, err := s.rules.IsBreakDue(ctx, employeeID, workedSoFar)
	if err != nil {
		log.Printf("[Timeclock] break evaluation failed: %v", err)
	} else {
		status.BreakDue = &eval
	}

	return status, nil
}

// MyRecords implements timeclock.Service.
func (s *TimeclockServiceImpl) MyRecords(ctx context.Context, employeeID string, filter timeclock.RecordFilter) (timeclock.ListRecordsResponse, error) {
	filter.EmployeeID = &employeeID
	return s.ListRecords(ctx, filter)
}

// ListRecords implements timeclock.Service.
func (s *TimeclockServiceImpl) ListRecords(ctx context.Context, filter timeclock.RecordFilter) (timeclock.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeclock.ListRecordsResponse{}, err
	}

	// Listing reconciles stale sessions first, scoped when the filter is.
	if _, err := s.SweepStale(ctx, filter.EmployeeID); err != nil {
		log.Printf("[Timeclock] stale sweep before listing failed: %v", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return timeclock.ListRecordsResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	responses := make([]timeclock.RecordResponse, len(records))
	for i, rec := range records {
		pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
		if err != nil {
			return timeclock.ListRecordsResponse{}, fmt.Errorf("failed to load breaks: %w", err)
		}
		responses[i] = s.toRecordResponse(rec, pauses)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return timeclock.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

// GetRecord implements timeclock.Service.
func (s *TimeclockServiceImpl) GetRecord(ctx context.Context, id string) (timeclock.RecordResponse, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return timeclock.RecordResponse{}, err
	}

	pauses, err := s.pauses.ListByRecord(ctx, rec.ID)
	if err != nil {
		return timeclock.RecordResponse{}, fmt.Errorf("failed to load breaks: %w", err)
	}

	return s.toRecordResponse(rec, pauses), nil
}

func (s *TimeclockServiceImpl) toRecordResponse(rec timeclock.ClockRecord, pauses []timeclock.Pause) timeclock.RecordResponse {
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
		resp.Pauses = append(resp.Pauses, toPauseResponse(p))
	}

	return resp
}

func toPauseResponse(p timeclock.Pause) timeclock.PauseResponse {
	start := p.Start
	return timeclock.PauseResponse{
		ID:              p.ID,
		ClockRecordID:   p.ClockRecordID,
		Kind:            string(p.Kind),
		Start:           *timeclock.FormatInstant(&start),
		End:             timeclock.FormatInstant(p.End),
		DurationMinutes: p.DurationMinutes,
		Description:     p.Description,
	}
}
