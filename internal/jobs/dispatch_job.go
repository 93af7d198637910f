package jobs

import (
	"context"
	"errors"
	"log/slog"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DefaultDispatchSchedule runs the dispatch job every ten seconds.
const DefaultDispatchSchedule = "*/10 * * * * *"

// ReadyOrderLister lists orders waiting in a status, oldest first.
type ReadyOrderLister interface {
	ListByStatus(ctx context.Context, status order.Status, limit int) ([]*order.Order, error)
}

// CourierAssigner runs one courier assignment.
type CourierAssigner interface {
	Handle(ctx context.Context, command commands.AssignCourierCommand) (*order.Order, error)
}

// DispatchJob periodically hands READY orders to couriers.
type DispatchJob struct {
	orders    ReadyOrderLister
	assigner  CourierAssigner
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewDispatchJob creates the job. A run never overlaps the previous one.
func NewDispatchJob(
	orders ReadyOrderLister,
	assigner CourierAssigner,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *DispatchJob {
	if schedule == "" {
		schedule = DefaultDispatchSchedule
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	return &DispatchJob{
		orders:    orders,
		assigner:  assigner,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "dispatch_job"),
	}
}

// Start registers the run on the schedule and starts the scheduler.
func (j *DispatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Dispatch job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *DispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Dispatch job stopped")
}

// RunOnce tries to assign every READY order of one batch and returns how many were
// dispatched.
func (j *DispatchJob) RunOnce(ctx context.Context) int {
	ready, err := j.orders.ListByStatus(ctx, order.Ready, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Listing ready orders failed", "error", err)
		return 0
	}

	dispatched := 0
	for _, o := range ready {
		cmd, err := commands.NewAssignCourierCommand(o.ID(), nil)
		if err != nil {
			j.logger.ErrorContext(ctx, "Building assignment failed", "orderId", o.ID().String(), "error", err)
			continue
		}

		if _, err = j.assigner.Handle(ctx, cmd); err != nil {
			// Only log errors that are not expected business scenarios
			if errors.Is(err, errs.ErrNoCourierAvailable) || errors.Is(err, errs.ErrStateConflict) {
				j.logger.DebugContext(ctx, "Order left waiting", "orderId", o.ID().String(), "reason", err)
				continue
			}
			j.logger.ErrorContext(ctx, "Courier assignment failed", "orderId", o.ID().String(), "error", err)
			continue
		}
		dispatched++
	}
	return dispatched
}
