package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/core/ports"
)

const (
	DefaultTodaySchedule     = "0 */5 6-23 * * *"
	DefaultYesterdaySchedule = "0 0 6 * * *"
)

type Settings struct {
	TodaySchedule     string
	YesterdaySchedule string
	FailureThreshold  int

	// Location is the time zone of the schedules and of "today".
	Location *time.Location
}

// JobManager coordinates the reconciliation jobs.
type JobManager struct {
	todayJob     *SalesSyncJob
	yesterdayJob *SalesSyncJob
	logger       *slog.Logger
}

func NewJobManager(
	handler SyncHandler,
	alerts ports.AlertSink,
	settings Settings,
	logger *slog.Logger,
) *JobManager {
	if settings.TodaySchedule == "" {
		settings.TodaySchedule = DefaultTodaySchedule
	}
	if settings.YesterdaySchedule == "" {
		settings.YesterdaySchedule = DefaultYesterdaySchedule
	}

	jm := &JobManager{logger: logger.With("component", "job_manager")}

	halt := func(error) { jm.StopAll() }

	jm.todayJob = NewSalesSyncJob(
		"today", settings.TodaySchedule, 0, handler,
		NewFailureTracker("today", settings.FailureThreshold, alerts, halt, logger),
		settings.Location, logger,
	)
	jm.yesterdayJob = NewSalesSyncJob(
		"yesterday", settings.YesterdaySchedule, -1, handler,
		NewFailureTracker("yesterday", settings.FailureThreshold, alerts, halt, logger),
		settings.Location, logger,
	)
	return jm
}

// StartAll starts every job. A failed start stops the jobs already running.
func (jm *JobManager) StartAll() error {
	if err := jm.todayJob.Start(); err != nil {
		return fmt.Errorf("failed to start today's sales sync job: %w", err)
	}

	if err := jm.yesterdayJob.Start(); err != nil {
		jm.todayJob.Stop()
		return fmt.Errorf("failed to start yesterday's sales sync job: %w", err)
	}

	return nil
}

// StopAll stops every job. It does not wait for a sync in progress.
func (jm *JobManager) StopAll() {
	jm.todayJob.Stop()
	jm.yesterdayJob.Stop()
}

// IsRunning reports whether any job is still scheduled.
func (jm *JobManager) IsRunning() bool {
	return jm.todayJob.IsScheduled() || jm.yesterdayJob.IsScheduled()
}

// RunNow reconciles date immediately under today's job guard and failure
// tracker.
func (jm *JobManager) RunNow(ctx context.Context, date time.Time) (commands.SyncReport, error) {
	jm.logger.InfoContext(ctx, "Manual sales sync requested", "date", date.Format(time.DateOnly))
	return jm.todayJob.Run(ctx, date)
}
