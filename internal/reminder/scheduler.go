package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule fires at the start of every minute.
const DefaultSchedule = "* * * * *"

type Ticker interface {
	Tick(ctx context.Context, now time.Time) Stats
}

// Scheduler drives a Ticker from a cron expression. Overlapping ticks are
// skipped rather than queued.
type Scheduler struct {
	cron     *cron.Cron
	job      Ticker
	schedule string
	timeout  time.Duration
	now      func() time.Time
}

func NewScheduler(job Ticker, schedule string, timeout time.Duration, loc *time.Location) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if timeout <= 0 {
		timeout = 50 * time.Second
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		job:      job,
		schedule: schedule,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.cron.Start()
	slog.Info("reminder scheduler started", slog.String("schedule", s.schedule))
	return nil
}

// Stop waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("reminder scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	// cron fires a few ms after the minute starts; truncate so the job
	// always sees the minute it was scheduled for
	s.job.Tick(ctx, s.now().Truncate(time.Minute))
}
