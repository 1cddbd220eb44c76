package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/limbo/habitgarden/internal/service"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/httputil"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type NotificationRequest struct {
	Enabled      bool   `json:"enabled"`
	ReminderTime string `json:"reminder_time"`
}

type CreateHabitRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"desc"`
	Category      string               `json:"category"`
	Color         string               `json:"color"`
	FrequencyType string               `json:"frequency_type"`
	DaysOfWeek    []int                `json:"days_of_week,omitempty"`
	IntervalDays  int                  `json:"interval_days,omitempty"`
	StartDate     string               `json:"start_date,omitempty"`
	Notification  *NotificationRequest `json:"notification,omitempty"`
	// Accepted on import only
	CompletedDates []string `json:"completed_dates,omitempty"`
}

func (req *CreateHabitRequest) toService() service.CreateHabitRequest {
	res := service.CreateHabitRequest{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Color:          req.Color,
		FrequencyType:  req.FrequencyType,
		DaysOfWeek:     req.DaysOfWeek,
		IntervalDays:   req.IntervalDays,
		StartDate:      req.StartDate,
		CompletedDates: req.CompletedDates,
	}
	if req.Notification != nil {
		res.NotificationEnabled = req.Notification.Enabled
		res.ReminderTime = req.Notification.ReminderTime
	}
	return res
}

type UpdateHabitRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"desc,omitempty"`
	Category      *string `json:"category,omitempty"`
	Color         *string `json:"color,omitempty"`
	FrequencyType *string `json:"frequency_type,omitempty"`
	DaysOfWeek    []int   `json:"days_of_week,omitempty"`
	IntervalDays  *int    `json:"interval_days,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	Notification  *struct {
		Enabled      *bool   `json:"enabled,omitempty"`
		ReminderTime *string `json:"reminder_time,omitempty"`
	} `json:"notification,omitempty"`
}

func (req *UpdateHabitRequest) toService() service.UpdateHabitRequest {
	res := service.UpdateHabitRequest{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Color:         req.Color,
		FrequencyType: req.FrequencyType,
		DaysOfWeek:    req.DaysOfWeek,
		IntervalDays:  req.IntervalDays,
		StartDate:     req.StartDate,
	}
	if req.Notification != nil {
		res.NotificationEnabled = req.Notification.Enabled
		res.ReminderTime = req.Notification.ReminderTime
	}
	return res
}

type ImportHabitsRequest struct {
	Habits []CreateHabitRequest `json:"habits"`
}

type GetHabitsResponse struct {
	UserID string          `json:"uid"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Habits []*entity.Habit `json:"habits"`
}

type ImportHabitsResponse struct {
	Imported []*entity.Habit `json:"imported"`
	// Habits whose titles were already taken in the account
	Skipped int `json:"skipped"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, logger, "registration", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, logger, "login", err)
		return
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "account deletion")
	if !ok {
		return
	}
	var req DeleteAccountRequest
	if !decodeBody(w, r, "account deletion", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	if err := s.userService.DeleteAccount(ctx, uid, req.Password); err != nil {
		writeServiceError(w, logger, "account deletion", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("account deleted")
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "create habit")
	if !ok {
		return
	}
	var req CreateHabitRequest
	if !decodeBody(w, r, "create habit", &req) {
		return
	}
	// Completion history is only accepted through import
	req.CompletedDates = nil
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.habitService.CreateHabit(ctx, uid, req.toService())
	if err != nil {
		writeServiceError(w, logger, "create habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created", slog.String("habit_id", habit.ID.String()))
}

// GetHabits lists the user's habits. Derived fields are recomputed for today
// before they are returned.
func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "get habits")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*15)
	defer cancel()
	habits, err := s.habitService.GetUserHabits(ctx, uid, service.PaginationOpts{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeServiceError(w, logger, "get habits", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetHabitsResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  limit,
		Habits: habits,
	})
	logger.Info("habits provided")
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "get habit")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.habitService.GetHabit(ctx, id, uid)
	if err != nil {
		writeServiceError(w, logger, "get habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "update habit")
	if !ok {
		return
	}
	var req UpdateHabitRequest
	if !decodeBody(w, r, "update habit", &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	habit, err := s.habitService.UpdateHabit(ctx, id, uid, req.toService())
	if err != nil {
		writeServiceError(w, logger, "update habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated", slog.String("habit_id", id.String()))
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, id, ok := requireHabit(w, r, "habit deletion")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*10)
	defer cancel()
	err := s.habitService.DeleteHabit(ctx, id, uid)
	if err != nil {
		writeServiceError(w, logger, "habit deletion", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("habit deleted", slog.String("habit_id", id.String()))
}

// ImportHabits moves habits kept on a device before signing in into the
// account, completion history included.
func (s *Server) ImportHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, ok := requireUID(w, r, "import habits")
	if !ok {
		return
	}
	var req ImportHabitsRequest
	if !decodeBody(w, r, "import habits", &req) {
		return
	}
	habits := make([]service.CreateHabitRequest, 0, len(req.Habits))
	for i := range req.Habits {
		habits = append(habits, req.Habits[i].toService())
	}
	ctx, cancel := context.WithTimeout(r.Context(), time.Second*30)
	defer cancel()
	imported, err := s.habitService.ImportHabits(ctx, uid, service.ImportHabitsRequest{Habits: habits})
	if err != nil {
		writeServiceError(w, logger, "import habits", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ImportHabitsResponse{
		Imported: imported,
		Skipped:  len(habits) - len(imported),
	})
	logger.Info("habits imported", slog.Int("count", len(imported)))
}

func requireUID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	uid, err := GetUIDFromContext(r)
	if err != nil {
		GetLoggerFromCtx(r.Context()).Error(op + " error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return uuid.UUID{}, false
	}
	return uid, true
}

func requireHabit(w http.ResponseWriter, r *http.Request, op string) (uid, habitID uuid.UUID, ok bool) {
	uid, ok = requireUID(w, r, op)
	if !ok {
		return
	}
	habitID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		GetLoggerFromCtx(r.Context()).Error(op + " error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return uid, habitID, false
	}
	return uid, habitID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(dst); err != nil {
		GetLoggerFromCtx(r.Context()).Error(op + " error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	return true
}
