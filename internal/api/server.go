package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/limbo/habitgarden/internal/service"
	"github.com/limbo/habitgarden/pkg/cleanup"
)

type Server struct {
	mx                *chi.Mux
	userService       service.UserServiceI
	habitService      service.HabitsServiceI
	checksService     service.HabitChecksServiceI
	gardenService     service.GardenServiceI
	categoriesService service.CategoriesServiceI
	pushTokensService service.PushTokensServiceI
	remindersService  service.RemindersServiceI
	jwtService        JWTServiceI
}

type ServicesList struct {
	UserService       service.UserServiceI
	HabitsService     service.HabitsServiceI
	ChecksService     service.HabitChecksServiceI
	GardenService     service.GardenServiceI
	CategoriesService service.CategoriesServiceI
	PushTokensService service.PushTokensServiceI
	RemindersService  service.RemindersServiceI
	JwtService        JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                chi.NewMux(),
		userService:       servicesOptions.UserService,
		habitService:      servicesOptions.HabitsService,
		checksService:     servicesOptions.ChecksService,
		gardenService:     servicesOptions.GardenService,
		categoriesService: servicesOptions.CategoriesService,
		pushTokensService: servicesOptions.PushTokensService,
		remindersService:  servicesOptions.RemindersService,
		jwtService:        servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(middleware.Recoverer)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)

			r.Delete("/auth/account", s.DeleteAccount)

			r.Get("/habits", s.GetHabits)
			r.Post("/habits", s.CreateHabit)
			r.Post("/habits/import", s.ImportHabits)
			r.Get("/habits/{id}", s.GetHabit)
			r.Patch("/habits/{id}", s.UpdateHabit)
			r.Delete("/habits/{id}", s.DeleteHabit)

			r.Post("/habits/{id}/toggle", s.ToggleToday)
			r.Post("/habits/{id}/checks", s.CheckHabit)
			r.Get("/habits/{id}/checks", s.GetHabitChecks)
			r.Delete("/habits/{id}/checks/{date}", s.UncheckHabit)
			r.Get("/habits/{id}/stats", s.GetHabitStats)
			r.Get("/habits/{id}/calendar", s.GetCalendar)
			r.Get("/habits/{id}/trend", s.GetTrend)

			r.Get("/garden", s.GetGarden)

			r.Get("/categories", s.GetCategories)
			r.Post("/categories", s.CreateCategory)
			r.Delete("/categories/{name}", s.DeleteCategory)

			r.Post("/push-tokens", s.RegisterPushToken)
			r.Delete("/push-tokens", s.UnregisterPushToken)

			r.Get("/reminders/due", s.GetDueReminders)
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

// Run blocks until the listener fails. Shutdown is registered as a cleanup
// job, so cleanup.CleanUp stops accepting requests before pools are closed.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	cleanup.Register(&cleanup.Job{
		Name: "shutting down http server",
		F: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
	slog.Info("api server started", slog.String("addr", addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
