package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/gestionet/timeclock-backend-go/internal/domain/timeclock"
)

type TimeclockJobs struct {
	timeclockSvc  timeclock.Service
	sweepInterval time.Duration
}

func NewTimeclockJobs(timeclockSvc timeclock.Service, sweepInterval time.Duration) *TimeclockJobs {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &TimeclockJobs{
		timeclockSvc:  timeclockSvc,
		sweepInterval: sweepInterval,
	}
}

func (j *TimeclockJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_stale_sessions", j.sweepInterval, j.SweepStaleSessions)
}

// SweepStaleSessions force-closes sessions left open on previous days. The
// sweep is idempotent, so overlapping with the request-path sweeps is fine.
func (j *TimeclockJobs) SweepStaleSessions(ctx context.Context) error {
	closed, err := j.timeclockSvc.SweepStale(ctx, nil)
	if err != nil {
		return err
	}

	if closed > 0 {
		slog.Info("Cron: closed stale sessions", "count", closed)
	}
	return nil
}
