package service

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/internal/state"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/habitcalc"
)

type HabitChecksService struct {
	habitsRepo repository.HabitsRepositoryI
	checksRepo repository.HabitChecksRepositoryI
	clock      Clock
}

func NewHabitChecksService(habitsRepo repository.HabitsRepositoryI, checksRepo repository.HabitChecksRepositoryI, clock Clock) *HabitChecksService {
	if habitsRepo == nil || checksRepo == nil {
		log.Fatal("on habit checks service provided nil repos")
	}
	return &HabitChecksService{
		habitsRepo: habitsRepo,
		checksRepo: checksRepo,
		clock:      clock,
	}
}

func (serv *HabitChecksService) ToggleToday(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	today := serv.clock.Today()
	if slices.Contains(habit.CompletedDates, today) {
		return serv.uncheck(ctx, habit, today)
	}
	return serv.check(ctx, habit, today)
}

func (serv *HabitChecksService) CheckHabit(ctx context.Context, habitID, userID uuid.UUID, date string) (*entity.Habit, error) {
	if !habitcalc.ValidDate(date) {
		return nil, errorvalues.ErrInvalidDate
	}
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	if date > serv.clock.Today() {
		return nil, errorvalues.ErrCheckDateNotAllowed
	}
	return serv.check(ctx, habit, date)
}

func (serv *HabitChecksService) UncheckHabit(ctx context.Context, habitID, userID uuid.UUID, date string) (*entity.Habit, error) {
	if !habitcalc.ValidDate(date) {
		return nil, errorvalues.ErrInvalidDate
	}
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	return serv.uncheck(ctx, habit, date)
}

func (serv *HabitChecksService) GetHabitChecks(ctx context.Context, habitID, userID uuid.UUID, from, to string) ([]entity.HabitCheck, error) {
	if !habitcalc.ValidDate(from) || !habitcalc.ValidDate(to) {
		return nil, errorvalues.ErrInvalidDate
	}
	if _, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID); err != nil {
		return nil, err
	}
	checks, err := serv.checksRepo.GetByHabitAndDateRange(ctx, habitID, from, to)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return checks, nil
}

func (serv *HabitChecksService) GetHabitStats(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitStats, error) {
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	total, last, err := serv.checksRepo.Summary(ctx, habitID)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	today := serv.clock.Today()
	habit.CreatedAt = serv.clock.In(habit.CreatedAt)
	streaks := habitcalc.CalculateStreaks(habit, today)
	start := today
	if !habit.CreatedAt.IsZero() {
		start = habitcalc.FormatDate(habit.CreatedAt)
	}
	rate := habitcalc.CompletionRate(habit, start, today)
	week := habitcalc.WeeklyComparison(habit, today)
	growth := habitcalc.GrowthRate(habit, today)
	return &entity.HabitStats{
		ID:             habit.ID,
		TotalChecks:    total,
		CurrentStreak:  streaks.Current,
		MaxStreak:      streaks.Longest,
		LastCheck:      last,
		CompletionRate: rate,
		DisplayRate:    habitcalc.DisplayPercent(rate),
		ThisWeekRate:   week.ThisWeek,
		LastWeekRate:   week.LastWeek,
		GrowthRate:     growth,
		TreeLevel:      habitcalc.TreeLevel(growth),
	}, nil
}

func (serv *HabitChecksService) GetCalendar(ctx context.Context, habitID, userID uuid.UUID, from, to string) ([]entity.CompletionStatus, error) {
	if !habitcalc.ValidDate(from) || !habitcalc.ValidDate(to) {
		return nil, errorvalues.ErrInvalidDate
	}
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	return habitcalc.CompletionStatusForPeriod(habit, from, to), nil
}

func (serv *HabitChecksService) GetTrend(ctx context.Context, habitID, userID uuid.UUID) ([]entity.TrendPoint, error) {
	habit, err := ownedHabit(ctx, serv.habitsRepo, habitID, userID)
	if err != nil {
		return nil, err
	}
	return habitcalc.MonthlyTrend(habit, serv.clock.Today()), nil
}

func (serv *HabitChecksService) check(ctx context.Context, habit *entity.Habit, date string) (*entity.Habit, error) {
	if err := state.AddDate(habit, date); err != nil {
		return nil, err
	}
	if err := serv.checksRepo.Create(ctx, habit.ID, date); err != nil {
		if errors.Is(err, errorvalues.ErrCheckExist) || errors.Is(err, errorvalues.ErrHabitNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	serv.refresh(ctx, habit)
	return habit, nil
}

func (serv *HabitChecksService) uncheck(ctx context.Context, habit *entity.Habit, date string) (*entity.Habit, error) {
	if err := state.RemoveDate(habit, date); err != nil {
		return nil, err
	}
	if err := serv.checksRepo.Delete(ctx, habit.ID, date); err != nil {
		if errors.Is(err, errorvalues.ErrCheckNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	serv.refresh(ctx, habit)
	return habit, nil
}

// refresh recomputes derived fields after a completion change and stores
// them. The check itself is already persisted at this point.
func (serv *HabitChecksService) refresh(ctx context.Context, habit *entity.Habit) {
	if !state.Recompute(habit, serv.clock.Today()) {
		return
	}
	if err := serv.habitsRepo.UpdateCache(ctx, habit); err != nil {
		slog.Warn("habit cache write-back failed",
			slog.String("habit_id", habit.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
