package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ordertracking/internal/core/application/usecases/commands"
	"ordertracking/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// ErrSyncInProgress is returned by Run when the previous run of the same job
// has not finished.
var ErrSyncInProgress = errs.NewConflictErrorWithCause(
	"sales sync", "run",
	errors.New("a run is already in progress"),
)

// SyncHandler runs one reconciliation of a day.
type SyncHandler interface {
	Handle(ctx context.Context, cmd commands.SyncSalesCommand) (commands.SyncReport, error)
}

// SalesSyncJob triggers the reconciliation of a day relative to now on a cron
// schedule. dayOffset is 0 for today and -1 for yesterday.
type SalesSyncJob struct {
	name      string
	schedule  string
	dayOffset int
	handler   SyncHandler
	tracker   *FailureTracker
	location  *time.Location
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time

	running atomic.Bool

	mu        sync.Mutex
	scheduled bool
}

func NewSalesSyncJob(
	name, schedule string,
	dayOffset int,
	handler SyncHandler,
	tracker *FailureTracker,
	location *time.Location,
	logger *slog.Logger,
) *SalesSyncJob {
	if location == nil {
		location = time.Local
	}
	return &SalesSyncJob{
		name:      name,
		schedule:  schedule,
		dayOffset: dayOffset,
		handler:   handler,
		tracker:   tracker,
		location:  location,
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		logger:    logger.With("component", "sales_sync_job", "job", name),
		now:       time.Now,
	}
}

// Start registers the schedule and starts the cron scheduler.
func (j *SalesSyncJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.scheduled {
		return nil
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		if _, err := j.Run(ctx, j.targetDate()); err != nil && !errors.Is(err, ErrSyncInProgress) {
			j.logger.DebugContext(ctx, "Scheduled sales sync finished with error", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.scheduled = true
	j.logger.Info("Sales sync job started", "schedule", j.schedule)
	return nil
}

// Stop halts the scheduler without waiting for a running sync.
func (j *SalesSyncJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.scheduled {
		return
	}
	j.cron.Stop()
	j.scheduled = false
	j.logger.Info("Sales sync job stopped")
}

func (j *SalesSyncJob) IsScheduled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.scheduled
}

// targetDate is the calendar day this job reconciles when triggered now.
func (j *SalesSyncJob) targetDate() time.Time {
	return j.now().In(j.location).AddDate(0, 0, j.dayOffset)
}

// Run reconciles date unless a run of this job is in progress. The outcome is
// reported to the failure tracker; a skipped run is not.
func (j *SalesSyncJob) Run(ctx context.Context, date time.Time) (commands.SyncReport, error) {
	if !j.running.CompareAndSwap(false, true) {
		j.logger.InfoContext(ctx, "Previous sales sync still in progress, skipping")
		return commands.SyncReport{}, ErrSyncInProgress
	}
	defer j.running.Store(false)

	cmd, err := commands.NewSyncSalesCommand(date)
	if err != nil {
		return commands.SyncReport{}, err
	}

	report, err := j.handler.Handle(ctx, cmd)
	if j.tracker != nil {
		j.tracker.Observe(ctx, err)
	}
	return report, err
}
