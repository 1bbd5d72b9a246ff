package jobs

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	DefaultRetrySchedule = "*/10 * * * * *"
	DefaultRetryBatch    = 50
)

// BacklogReader lists deferred assignments that are due.
type BacklogReader interface {
	Due(ctx context.Context, now time.Time, limit int) ([]ports.AssignmentBacklogEntry, error)
}

// AssignDriverHandler runs one deferred assignment.
type AssignDriverHandler interface {
	Handle(ctx context.Context, cmd commands.AssignDriverCommand) (commands.AssignDriverResult, error)
}

// DriverAssignmentRetryJob drains the assignment backlog on a cron schedule. Each due
// order gets one assignment attempt in its own transaction.
type DriverAssignmentRetryJob struct {
	backlog  BacklogReader
	handler  AssignDriverHandler
	schedule string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewDriverAssignmentRetryJob creates the job. An empty schedule or a non-positive batch
// falls back to the defaults.
func NewDriverAssignmentRetryJob(
	backlog BacklogReader,
	handler AssignDriverHandler,
	schedule string,
	batch int,
	logger *slog.Logger,
) *DriverAssignmentRetryJob {
	if schedule == "" {
		schedule = DefaultRetrySchedule
	}
	if batch <= 0 {
		batch = DefaultRetryBatch
	}
	return &DriverAssignmentRetryJob{
		backlog:  backlog,
		handler:  handler,
		schedule: schedule,
		batch:    batch,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "driver_assignment_retry_job"),
		now:      time.Now,
	}
}

// Start registers the schedule and starts the cron runner.
func (j *DriverAssignmentRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Driver assignment retry job started", "schedule", j.schedule)
	return nil
}

// Stop stops the schedule and waits for a running batch to finish.
func (j *DriverAssignmentRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Driver assignment retry job stopped")
}

// RunOnce processes one batch of due entries and returns how many got a driver.
func (j *DriverAssignmentRetryJob) RunOnce(ctx context.Context) int {
	entries, err := j.backlog.Due(ctx, j.now().UTC(), j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to read assignment backlog", "error", err)
		return 0
	}

	assigned := 0
	for _, entry := range entries {
		cmd, err := commands.NewAssignDriverCommand(entry.OrderID, entry.Attempts)
		if err != nil {
			j.logger.ErrorContext(ctx, "Invalid backlog entry", "order_id", entry.OrderID.String(), "error", err)
			continue
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			// A conflicting writer moved the order; the entry stays due and is retried.
			if errs.Classify(err) == errs.KindConflict {
				j.logger.InfoContext(ctx, "Assignment retry lost a race", "order_id", entry.OrderID.String())
				continue
			}
			j.logger.ErrorContext(ctx, "Assignment retry failed", "order_id", entry.OrderID.String(), "error", err)
			continue
		}

		if result.Outcome.Assigned {
			assigned++
		}
	}
	return assigned
}
