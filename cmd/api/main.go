// @title Habit Garden API
// @description API for the habit tracker "Habit Garden"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limbo/habitgarden/internal/api"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/internal/service"
	"github.com/limbo/habitgarden/pkg/cleanup"
	"github.com/limbo/habitgarden/pkg/config"
	jwtservice "github.com/limbo/habitgarden/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

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
	habitsRepo := repository.NewHabitsRepoWithConn(pool)
	clock := service.LocalClock(loc)

	serv := api.New(&api.ServicesList{
		UserService:       service.NewUserService(repository.NewUsersRepoWithConn(pool)),
		HabitsService:     service.NewHabitsService(habitsRepo, clock),
		ChecksService:     service.NewHabitChecksService(habitsRepo, repository.NewHabitChecksRepoWithConn(pool), clock),
		GardenService:     service.NewGardenService(habitsRepo, clock),
		CategoriesService: service.NewCategoriesService(repository.NewCategoriesRepoWithConn(pool), habitsRepo),
		PushTokensService: service.NewPushTokensService(repository.NewPushTokensRepoWithConn(pool)),
		RemindersService:  service.NewRemindersService(habitsRepo, clock),
		JwtService:        jwtservice.New(cfg.GetString("JWT_SECRET"), cfg.GetDuration("JWT_TTL", jwtservice.DefaultTokenTTL)),
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
			slog.Error("server error", slog.String("error", err.Error()))
		}
		stop <- syscall.SIGTERM
	}()
	sig := <-stop
	slog.Info("shutting down", slog.String("signal", sig.String()))
	cleanup.CleanUp()
}
