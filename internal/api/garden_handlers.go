package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/httputil"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

type PushTokenRequest struct {
	Token string `json:"token"`
}

type CategoriesResponse struct {
	Categories []entity.Category `json:"categories"`
}

type DueRemindersResponse struct {
	// Empty when the current minute was used
	Time   string          `json:"time,omitempty"`
	Habits []*entity.Habit `json:"habits"`
}

func (s *Server) GetGarden(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "get garden")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	garden, err := s.gardenService.GetGarden(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get garden", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, garden)
}

func (s *Server) GetCategories(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "get categories")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	categories, err := s.categoriesService.List(ctx, uid)
	if err != nil {
		writeServiceError(w, logger, "get categories", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "create category")
	if !ok {
		return
	}
	var req CategoryRequest
	if !decodeBody(w, r, "create category", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err := s.categoriesService.Create(ctx, uid, req.Name); err != nil {
		writeServiceError(w, logger, "create category", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	logger.Info("category created", slog.String("category", req.Name))
}

func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "category deletion")
	if !ok {
		return
	}
	name := r.PathValue("name")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err := s.categoriesService.Delete(ctx, uid, name); err != nil {
		writeServiceError(w, logger, "category deletion", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("category deleted", slog.String("category", name))
}

func (s *Server) RegisterPushToken(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "push token registration")
	if !ok {
		return
	}
	var req PushTokenRequest
	if !decodeBody(w, r, "push token registration", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err := s.pushTokensService.Register(ctx, uid, req.Token); err != nil {
		writeServiceError(w, logger, "push token registration", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("push token registered")
}

func (s *Server) UnregisterPushToken(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "push token removal")
	if !ok {
		return
	}
	var req PushTokenRequest
	if !decodeBody(w, r, "push token removal", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err := s.pushTokensService.Unregister(ctx, uid, req.Token); err != nil {
		writeServiceError(w, logger, "push token removal", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("push token removed")
}

// GetDueReminders answers which habits the reminder job would notify about
// at ?time=HH:MM today, or at the current minute when time is omitted.
func (s *Server) GetDueReminders(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "due reminders")
	if !ok {
		return
	}
	clock := r.URL.Query().Get("time")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habits, err := s.remindersService.DueReminders(ctx, uid, clock)
	if err != nil {
		writeServiceError(w, logger, "due reminders", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, DueRemindersResponse{Time: clock, Habits: habits})
}
