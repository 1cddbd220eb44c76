package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/internal/state"
	"github.com/limbo/habitgarden/pkg/entity"
)

type HabitsService struct {
	repo  repository.HabitsRepositoryI
	clock Clock
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI, clock Clock) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo:  habitsRepo,
		clock: clock,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.Habit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	h := habitFromRequest(uid, req)
	if err := checkSchedule(h); err != nil {
		return nil, err
	}
	state.Recompute(h, hs.clock.Today())
	id, err := hs.repo.Create(ctx, h)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrOwnerNotFound):
			return nil, errorvalues.ErrUserNotFound
		case errors.Is(err, errorvalues.ErrUserHasHabit):
			return nil, errorvalues.ErrUserHasHabit
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	habit, err := hs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habit, nil
}

func (hs *HabitsService) GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error) {
	habits, err := hs.repo.GetByUserID(ctx, uid, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	for _, h := range state.Resync(habits, hs.clock.Today()) {
		hs.writeBackCache(ctx, h)
	}
	return habits, nil
}

func (hs *HabitsService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := ownedHabit(ctx, hs.repo, habitID, userID)
	if err != nil {
		return nil, err
	}
	if state.Recompute(habit, hs.clock.Today()) {
		hs.writeBackCache(ctx, habit)
	}
	return habit, nil
}

func (hs *HabitsService) UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req UpdateHabitRequest) (*entity.Habit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	habit, err := ownedHabit(ctx, hs.repo, habitID, userID)
	if err != nil {
		return nil, err
	}
	applyUpdate(habit, req)
	if err = checkSchedule(habit); err != nil {
		return nil, err
	}
	if err = hs.repo.Update(ctx, habit); err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) || errors.Is(err, errorvalues.ErrUserHasHabit) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	// A schedule change moves due dates, so streaks may change too
	if state.Recompute(habit, hs.clock.Today()) {
		hs.writeBackCache(ctx, habit)
	}
	return habit, nil
}

func (hs *HabitsService) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	if _, err := ownedHabit(ctx, hs.repo, habitID, userID); err != nil {
		return err
	}
	err := hs.repo.Delete(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return err
		}
		return errors.New("habits repository error: " + err.Error())
	}
	return nil
}

func (hs *HabitsService) ImportHabits(ctx context.Context, uid uuid.UUID, req ImportHabitsRequest) ([]*entity.Habit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	local := make([]*entity.Habit, 0, len(req.Habits))
	for _, r := range req.Habits {
		h := habitFromRequest(uuid.Nil, r)
		if err := checkSchedule(h); err != nil {
			return nil, err
		}
		local = append(local, h)
	}
	remote, err := hs.repo.ListByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	st := state.State{Remote: remote, LocalOnly: local}
	merged, err := st.MergeLocal(state.Session{LoggedIn: true, UserID: uid})
	if err != nil {
		return nil, err
	}
	today := hs.clock.Today()
	imported := make([]*entity.Habit, 0, len(merged))
	for _, h := range merged {
		state.Recompute(h, today)
		id, err := hs.repo.Create(ctx, h)
		if err != nil {
			switch {
			case errors.Is(err, errorvalues.ErrUserHasHabit):
				// created concurrently under the same title
				continue
			case errors.Is(err, errorvalues.ErrOwnerNotFound):
				return nil, errorvalues.ErrUserNotFound
			}
			return nil, errors.New("habits repository error: " + err.Error())
		}
		h.ID = id
		imported = append(imported, h)
	}
	return imported, nil
}

// Cache write-back failures don't fail reads: completed dates stay the source
// of truth and the next fetch retries.
func (hs *HabitsService) writeBackCache(ctx context.Context, h *entity.Habit) {
	if err := hs.repo.UpdateCache(ctx, h); err != nil {
		slog.Warn("habit cache write-back failed",
			slog.String("habit_id", h.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// ownedHabit loads a habit and makes sure it belongs to userID.
func ownedHabit(ctx context.Context, repo repository.HabitsRepositoryI, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := repo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return nil, errorvalues.ErrWrongOwner
	}
	return habit, nil
}

func habitFromRequest(uid uuid.UUID, req CreateHabitRequest) *entity.Habit {
	h := &entity.Habit{
		UserID:         uid,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Color:          req.Color,
		FrequencyType:  entity.FrequencyType(req.FrequencyType),
		DaysOfWeek:     req.DaysOfWeek,
		IntervalDays:   req.IntervalDays,
		StartDate:      req.StartDate,
		CompletedDates: state.Normalize(req.CompletedDates),
	}
	if req.NotificationEnabled || req.ReminderTime != "" {
		h.Notification = &entity.Notification{
			Enabled:      req.NotificationEnabled,
			ReminderTime: req.ReminderTime,
		}
	}
	return h
}

func applyUpdate(h *entity.Habit, req UpdateHabitRequest) {
	if req.Title != nil {
		h.Title = *req.Title
	}
	if req.Description != nil {
		h.Description = *req.Description
	}
	if req.Category != nil {
		h.Category = *req.Category
	}
	if req.Color != nil {
		h.Color = *req.Color
	}
	if req.FrequencyType != nil {
		h.FrequencyType = entity.FrequencyType(*req.FrequencyType)
	}
	if req.DaysOfWeek != nil {
		h.DaysOfWeek = req.DaysOfWeek
	}
	if req.IntervalDays != nil {
		h.IntervalDays = *req.IntervalDays
	}
	if req.StartDate != nil {
		h.StartDate = *req.StartDate
	}
	if req.NotificationEnabled != nil || req.ReminderTime != nil {
		n := entity.Notification{}
		if h.Notification != nil {
			n = *h.Notification
		}
		if req.NotificationEnabled != nil {
			n.Enabled = *req.NotificationEnabled
		}
		if req.ReminderTime != nil {
			n.ReminderTime = *req.ReminderTime
		}
		h.Notification = &n
	}
}
