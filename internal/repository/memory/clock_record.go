// Package memory holds in-process implementations of the repository
// contracts, backed by mutex-guarded maps. They enforce the same uniqueness
// rules the PostgreSQL indexes do, so the services behave identically against
// either store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
	"github.com/google/uuid"
)

type ClockRecordStore struct {
	mu        sync.RWMutex
	records   map[string]timeclock.ClockRecord
	employees *EmployeeStore
}

// NewClockRecordStore builds an empty store. employees may be nil; when set
// it backs the employee-name join in listings.
func NewClockRecordStore(employees *EmployeeStore) *ClockRecordStore {
	return &ClockRecordStore{
		records:   make(map[string]timeclock.ClockRecord),
		employees: employees,
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (s *ClockRecordStore) Create(_ context.Context, rec timeclock.ClockRecord) (timeclock.ClockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.EmployeeID == rec.EmployeeID && dayKey(existing.Date) == dayKey(rec.Date) {
			return timeclock.ClockRecord{}, timeclock.ErrAlreadyClockedIn
		}
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	s.records[rec.ID] = rec
	return rec, nil
}

func (s *ClockRecordStore) GetByID(_ context.Context, id string) (timeclock.ClockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return timeclock.ClockRecord{}, timeclock.ErrRecordNotFound
	}
	s.attachName(&rec)
	return rec, nil
}

func (s *ClockRecordStore) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*timeclock.ClockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.EmployeeID == employeeID && dayKey(rec.Date) == dayKey(date) {
			out := rec
			s.attachName(&out)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *ClockRecordStore) GetOpenBefore(_ context.Context, employeeID *string, day time.Time) ([]timeclock.ClockRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := dayKey(day)
	var out []timeclock.ClockRecord
	for _, rec := range s.records {
		if rec.ExitTime != nil || rec.EntryTime == nil {
			continue
		}
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		if dayKey(rec.Date) >= cutoff {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *ClockRecordStore) Update(_ context.Context, rec timeclock.ClockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[rec.ID]
	if !ok {
		return timeclock.ErrRecordNotFound
	}

	rec.CreatedAt = stored.CreatedAt
	rec.UpdatedAt = time.Now().UTC()
	s.records[rec.ID] = rec
	return nil
}

func (s *ClockRecordStore) CloseIfOpen(_ context.Context, rec timeclock.ClockRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[rec.ID]
	if !ok || stored.ExitTime != nil {
		return false, nil
	}

	stored.ExitTime = rec.ExitTime
	stored.WorkedHours = rec.WorkedHours
	stored.TotalHours = rec.TotalHours
	stored.IsModified = rec.IsModified
	stored.ModifiedBy = rec.ModifiedBy
	stored.ModifiedAt = rec.ModifiedAt
	stored.OriginalValues = rec.OriginalValues
	stored.NotifiedEmployee = rec.NotifiedEmployee
	stored.EmployeeValidated = rec.EmployeeValidated
	stored.UpdatedAt = time.Now().UTC()

	s.records[stored.ID] = stored
	return true, nil
}

func (s *ClockRecordStore) List(_ context.Context, filter timeclock.RecordFilter) ([]timeclock.ClockRecord, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []timeclock.ClockRecord
	for _, rec := range s.records {
		if !s.matches(rec, filter) {
			continue
		}
		out := rec
		s.attachName(&out)
		matched = append(matched, out)
	}

	sortRecords(matched, filter.SortBy, filter.SortOrder)

	total := int64(len(matched))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *ClockRecordStore) matches(rec timeclock.ClockRecord, f timeclock.RecordFilter) bool {
	if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.EmployeeName != nil && *f.EmployeeName != "" {
		name := ""
		if s.employees != nil {
			if emp, err := s.employees.GetByID(context.Background(), rec.EmployeeID); err == nil {
				name = emp.FullName
			}
		}
		if !strings.Contains(strings.ToLower(name), strings.ToLower(*f.EmployeeName)) {
			return false
		}
	}
	key := dayKey(rec.Date)
	if f.Date != nil && *f.Date != "" && key != *f.Date {
		return false
	}
	if f.StartDate != nil && *f.StartDate != "" && key < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && key > *f.EndDate {
		return false
	}
	if f.Modified != nil && rec.IsModified != *f.Modified {
		return false
	}
	if f.PendingValidation != nil && *f.PendingValidation {
		if !rec.IsModified || rec.EmployeeValidated != nil {
			return false
		}
	}
	return true
}

func (s *ClockRecordStore) attachName(rec *timeclock.ClockRecord) {
	if s.employees == nil {
		return
	}
	emp, err := s.employees.GetByID(context.Background(), rec.EmployeeID)
	if err != nil {
		return
	}
	name := emp.FullName
	rec.EmployeeName = &name
}

func sortRecords(recs []timeclock.ClockRecord, sortBy, sortOrder string) {
	desc := sortOrder != "asc"

	less := func(i, j int) bool {
		a, b := recs[i], recs[j]
		switch sortBy {
		case "entry_time":
			return timePtrBefore(a.EntryTime, b.EntryTime)
		case "exit_time":
			return timePtrBefore(a.ExitTime, b.ExitTime)
		case "worked_hours":
			return floatPtrLess(a.WorkedHours, b.WorkedHours)
		default:
			return a.Date.Before(b.Date)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func timePtrBefore(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

func floatPtrLess(a, b *float64) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return *a < *b
}
