// Package reminder runs the per-minute reminder sweep: for every account with
// a push token it finds the habits to remind about right now, claims each
// reminder once and hands it to the dispatch transport.
package reminder

import (
	"context"
	"log"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/pkg/habitcalc"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 8

// Reminder is one habit to notify about, addressed to every device of its
// owner.
type Reminder struct {
	UserID  uuid.UUID `json:"uid"`
	HabitID uuid.UUID `json:"habit_id"`
	Title   string    `json:"title"`
	Date    string    `json:"date"`
	Time    string    `json:"time"`
	Tokens  []string  `json:"tokens"`
}

// Claimer makes sure a reminder is sent at most once per habit and minute,
// even when several job instances tick together.
type Claimer interface {
	Claim(ctx context.Context, r Reminder) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, reminders ...Reminder) error
}

// Stats summarizes one tick.
type Stats struct {
	Recipients int64
	Matched    int64
	Sent       int64
	Duplicates int64
	Failed     int64
}

type Job struct {
	tokensRepo repository.PushTokensRepositoryI
	habitsRepo repository.HabitsRepositoryI
	claimer    Claimer
	publisher  Publisher
	loc        *time.Location
	workers    int
}

type JobOptions struct {
	TokensRepo repository.PushTokensRepositoryI
	HabitsRepo repository.HabitsRepositoryI
	Claimer    Claimer
	Publisher  Publisher
	// Location the reminder times are expressed in. Defaults to time.Local
	Location *time.Location
	// Accounts processed concurrently. Defaults to 8
	Workers int
}

func NewJob(opts JobOptions) *Job {
	if opts.TokensRepo == nil || opts.HabitsRepo == nil || opts.Publisher == nil {
		log.Fatal("reminder job needs tokens repo, habits repo and publisher")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Workers < 1 {
		opts.Workers = defaultWorkers
	}
	return &Job{
		tokensRepo: opts.TokensRepo,
		habitsRepo: opts.HabitsRepo,
		claimer:    opts.Claimer,
		publisher:  opts.Publisher,
		loc:        opts.Location,
		workers:    opts.Workers,
	}
}

// Tick sends the reminders due at now's minute. A failing account is logged
// and skipped; it never stops the others.
func (j *Job) Tick(ctx context.Context, now time.Time) Stats {
	today, clock := habitcalc.ReminderClock(now.In(j.loc))
	logger := slog.Default().With(slog.String("date", today), slog.String("time", clock))
	var stats Stats
	recipients, err := j.tokensRepo.ListRecipients(ctx)
	if err != nil {
		logger.Error("listing reminder recipients failed", slog.String("error", err.Error()))
		return stats
	}
	stats.Recipients = int64(len(recipients))

	var g errgroup.Group
	g.SetLimit(j.workers)
	for _, rcpt := range recipients {
		g.Go(func() error {
			j.remind(ctx, logger.With(slog.String("user_id", rcpt.UserID.String())), rcpt.UserID, rcpt.Tokens, today, clock, &stats)
			return nil
		})
	}
	_ = g.Wait()
	logger.Info("reminder tick finished",
		slog.Int64("recipients", stats.Recipients),
		slog.Int64("matched", atomic.LoadInt64(&stats.Matched)),
		slog.Int64("sent", atomic.LoadInt64(&stats.Sent)),
		slog.Int64("duplicates", atomic.LoadInt64(&stats.Duplicates)),
		slog.Int64("failed", atomic.LoadInt64(&stats.Failed)),
	)
	return stats
}

func (j *Job) remind(ctx context.Context, logger *slog.Logger, uid uuid.UUID, tokens []string, today, clock string, stats *Stats) {
	if len(tokens) == 0 {
		return
	}
	habits, err := j.habitsRepo.ListWithReminder(ctx, uid, clock)
	if err != nil {
		atomic.AddInt64(&stats.Failed, 1)
		logger.Error("listing habits with reminder failed", slog.String("error", err.Error()))
		return
	}
	due := habitcalc.DueReminders(habits, clock, today)
	atomic.AddInt64(&stats.Matched, int64(len(due)))
	batch := make([]Reminder, 0, len(due))
	for _, h := range due {
		r := Reminder{
			UserID:  uid,
			HabitID: h.ID,
			Title:   h.Title,
			Date:    today,
			Time:    clock,
			Tokens:  tokens,
		}
		if !j.claim(ctx, logger, r) {
			atomic.AddInt64(&stats.Duplicates, 1)
			continue
		}
		batch = append(batch, r)
	}
	if len(batch) == 0 {
		return
	}
	if err := j.publisher.Publish(ctx, batch...); err != nil {
		atomic.AddInt64(&stats.Failed, int64(len(batch)))
		logger.Error("publishing reminders failed", slog.Int("count", len(batch)), slog.String("error", err.Error()))
		return
	}
	atomic.AddInt64(&stats.Sent, int64(len(batch)))
}

// claim fails open: if the claim store is unreachable a duplicate push is
// preferred over a missed one.
func (j *Job) claim(ctx context.Context, logger *slog.Logger, r Reminder) bool {
	if j.claimer == nil {
		return true
	}
	ok, err := j.claimer.Claim(ctx, r)
	if err != nil {
		logger.Warn("claiming reminder failed, sending anyway",
			slog.String("habit_id", r.HabitID.String()),
			slog.String("error", err.Error()),
		)
		return true
	}
	return ok
}
