package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yukikurage/issue-tracker-api/internal/logger"
	"github.com/yukikurage/issue-tracker-api/internal/models"
	"github.com/yukikurage/issue-tracker-api/internal/repository"
)

var ErrSweepFailed = errors.New("overdue sweep failed")

// MaintenanceService holds corrective operations that keep stored state
// consistent with the clock.
type MaintenanceService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewMaintenanceService creates a new MaintenanceService.
func NewMaintenanceService(taskRepo repository.TaskRepository) *MaintenanceService {
	return &MaintenanceService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// SweepOverdueTasks moves active tasks whose deadline has passed to the
// delayed status and returns how many changed.
func (s *MaintenanceService) SweepOverdueTasks(ctx context.Context) (int64, error) {
	affected, err := s.taskRepo.MarkOverdue(ctx, s.now().UTC(), models.OverdueEligibleStatuses)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSweepFailed, err)
	}
	if affected > 0 {
		logger.InfoWithFields("Marked overdue tasks as delayed", map[string]interface{}{
			"count": affected,
		})
	}
	return affected, nil
}

// Scheduler runs the overdue sweep in the background on a cron schedule.
type Scheduler struct {
	cron        *cron.Cron
	maintenance *MaintenanceService
}

// NewScheduler registers the sweep under the standard five-field cron spec.
func NewScheduler(spec string, maintenance *MaintenanceService) (*Scheduler, error) {
	cronLogger := cron.PrintfLogger(logger.Logger())
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	s := &Scheduler{cron: c, maintenance: maintenance}

	if _, err := c.AddFunc(spec, s.runSweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runSweep() {
	if _, err := s.maintenance.SweepOverdueTasks(context.Background()); err != nil {
		logger.ErrorWithFields("Scheduled overdue sweep failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
