// Command reminder sends push reminders for habits whose reminder time is
// the current minute.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/habitgarden/internal/reminder"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/pkg/cleanup"
	"github.com/limbo/habitgarden/pkg/config"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.New()
	loc, err := time.LoadLocation(cfg.GetStringOr("APP_TIMEZONE", "Local"))
	if err != nil {
		log.Fatal("loading APP_TIMEZONE error: " + err.Error())
	}
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	pool := repository.NewPool(&dbCfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetStringOr("REDIS_ADDRESS", "localhost:6379"),
		Password: cfg.GetString("REDIS_PASSWORD"),
		DB:       cfg.GetInt("REDIS_DB", 0),
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// claims fail open, so the job still runs without redis
		slog.Warn("redis is unreachable", slog.String("error", err.Error()))
	}
	cancel()
	cleanup.Register(&cleanup.Job{Name: "closing redis client", F: rdb.Close})

	brokers := cfg.GetStrings("KAFKA_BROKERS")
	if len(brokers) == 0 {
		log.Fatal("KAFKA_BROKERS is empty")
	}
	publisher := reminder.NewKafkaPublisher(brokers, cfg.GetStringOr("KAFKA_REMINDER_TOPIC", "habit-reminders"))
	cleanup.Register(&cleanup.Job{Name: "closing kafka writer", F: publisher.Close})

	job := reminder.NewJob(reminder.JobOptions{
		TokensRepo: repository.NewPushTokensRepoWithConn(pool),
		HabitsRepo: repository.NewHabitsRepoWithConn(pool),
		Claimer:    reminder.NewRedisClaimer(rdb, cfg.GetDuration("REMINDER_CLAIM_TTL", 2*time.Minute)),
		Publisher:  publisher,
		Location:   loc,
		Workers:    cfg.GetInt("REMINDER_WORKERS", 8),
	})
	scheduler := reminder.NewScheduler(job,
		cfg.GetStringOr("REMINDER_SCHEDULE", reminder.DefaultSchedule),
		cfg.GetDuration("REMINDER_RUN_TIMEOUT", 50*time.Second),
		loc,
	)
	if err := scheduler.Start(); err != nil {
		log.Fatal(err)
	}
	cleanup.Register(&cleanup.Job{
		Name: "stopping reminder scheduler",
		F: func() error {
			scheduler.Stop()
			return nil
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	<-ctx.Done()
	slog.Info("shutting down reminder job")
	cleanup.CleanUp()
}
