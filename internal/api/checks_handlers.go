package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/httputil"
)

type CheckRequest struct {
	Date string `json:"date"`
}

type HabitChecksResponse struct {
	HabitID uuid.UUID           `json:"habit_id"`
	From    string              `json:"from"`
	To      string              `json:"to"`
	Checks  []entity.HabitCheck `json:"checks"`
}

type CalendarResponse struct {
	HabitID uuid.UUID                 `json:"habit_id"`
	From    string                    `json:"from"`
	To      string                    `json:"to"`
	Days    []entity.CompletionStatus `json:"days"`
}

type TrendResponse struct {
	HabitID uuid.UUID           `json:"habit_id"`
	Points  []entity.TrendPoint `json:"points"`
}

// ToggleToday flips today's completion and answers with the refreshed habit.
func (s *Server) ToggleToday(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "toggle habit")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.checksService.ToggleToday(ctx, id, uid)
	if err != nil {
		writeServiceError(w, logger, "toggle habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit toggled", slog.String("habit_id", id.String()), slog.Bool("completed", habit.Completed))
}

func (s *Server) CheckHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "check habit")
	if !ok {
		return
	}
	var req CheckRequest
	if !decodeBody(w, r, "check habit", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.checksService.CheckHabit(ctx, id, uid, req.Date)
	if err != nil {
		writeServiceError(w, logger, "check habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit checked", slog.String("habit_id", id.String()), slog.String("date", req.Date))
}

func (s *Server) UncheckHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "uncheck habit")
	if !ok {
		return
	}
	date := r.PathValue("date")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.checksService.UncheckHabit(ctx, id, uid, date)
	if err != nil {
		writeServiceError(w, logger, "uncheck habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit unchecked", slog.String("habit_id", id.String()), slog.String("date", date))
}

func (s *Server) GetHabitChecks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "get checks")
	if !ok {
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	checks, err := s.checksService.GetHabitChecks(ctx, id, uid, from, to)
	if err != nil {
		writeServiceError(w, logger, "get checks", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, HabitChecksResponse{
		HabitID: id,
		From:    from,
		To:      to,
		Checks:  checks,
	})
}

func (s *Server) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "get stats")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	stats, err := s.checksService.GetHabitStats(ctx, id, uid)
	if err != nil {
		writeServiceError(w, logger, "get stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "get calendar")
	if !ok {
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	days, err := s.checksService.GetCalendar(ctx, id, uid, from, to)
	if err != nil {
		writeServiceError(w, logger, "get calendar", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, CalendarResponse{
		HabitID: id,
		From:    from,
		To:      to,
		Days:    days,
	})
}

func (s *Server) GetTrend(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "get trend")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	points, err := s.checksService.GetTrend(ctx, id, uid)
	if err != nil {
		writeServiceError(w, logger, "get trend", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, TrendResponse{HabitID: id, Points: points})
}
