package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository/mocks"
	"github.com/limbo/habitgarden/internal/service"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Due on Sundays and Wednesdays, completed on Sunday the 8th.
func weeklyHabit() *entity.Habit {
	return &entity.Habit{
		ID:             habitID,
		UserID:         userID,
		Title:          "gym",
		FrequencyType:  entity.FrequencyWeekly,
		DaysOfWeek:     []int{0, 3},
		CompletedDates: []string{"2026-02-08"},
		CurrentStreak:  1,
		LongestStreak:  1,
		CreatedAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestCheckHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock)
	testCases := []struct {
		Desc         string
		Error        error
		Date         string
		MockPrepFunc func()
	}{
		{
			Desc: "success",
			Date: "2026-02-11",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
				checksRepo.EXPECT().Create(gomock.Any(), habitID, "2026-02-11").Return(nil)
				habitsRepo.EXPECT().UpdateCache(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			Desc:  "future date",
			Error: errorvalues.ErrCheckDateNotAllowed,
			Date:  "2026-02-15",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
			},
		},
		{
			Desc:  "not due",
			Error: errorvalues.ErrNotDueDate,
			Date:  "2026-02-10",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
			},
		},
		{
			Desc:  "already checked",
			Error: errorvalues.ErrCheckExist,
			Date:  "2026-02-08",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
			},
		},
		{
			Desc:  "checked concurrently",
			Error: errorvalues.ErrCheckExist,
			Date:  "2026-02-04",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
				checksRepo.EXPECT().Create(gomock.Any(), habitID, "2026-02-04").Return(errorvalues.ErrCheckExist)
			},
		},
		{
			Desc:         "malformed date",
			Error:        errorvalues.ErrInvalidDate,
			Date:         "2026-13-01",
			MockPrepFunc: func() {},
		},
		{
			Desc:  "wrong owner",
			Error: errorvalues.ErrWrongOwner,
			Date:  "2026-02-11",
			MockPrepFunc: func() {
				h := weeklyHabit()
				h.UserID = uuid.New()
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(h, nil)
			},
		},
		{
			Desc:  "habit not found",
			Error: errorvalues.ErrHabitNotFound,
			Date:  "2026-02-11",
			MockPrepFunc: func() {
				habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(nil, errorvalues.ErrHabitNotFound)
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepFunc()
			h, err := serv.CheckHabit(ctx, habitID, userID, tc.Date)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
				return
			}
			require.NoError(t, err)
			assert.True(t, h.Completed)
			assert.Equal(t, 2, h.CurrentStreak)
			assert.Equal(t, 2, h.LongestStreak)
			assert.Equal(t, []string{"2026-02-08", "2026-02-11"}, h.CompletedDates)
		})
	}
}

func TestUncheckHabit(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		checksRepo.EXPECT().Delete(gomock.Any(), habitID, "2026-02-08").Return(nil)
		habitsRepo.EXPECT().UpdateCache(gomock.Any(), gomock.Any()).Return(nil)
		h, err := serv.UncheckHabit(ctx, habitID, userID, "2026-02-08")
		require.NoError(t, err)
		assert.Empty(t, h.CompletedDates)
		assert.Zero(t, h.CurrentStreak)
		assert.Zero(t, h.LongestStreak)
	})
	t.Run("off schedule leftover", func(t *testing.T) {
		h := weeklyHabit()
		h.CompletedDates = append(h.CompletedDates, "2026-02-10")
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(h, nil)
		checksRepo.EXPECT().Delete(gomock.Any(), habitID, "2026-02-10").Return(nil)
		got, err := serv.UncheckHabit(ctx, habitID, userID, "2026-02-10")
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-02-08"}, got.CompletedDates)
	})
	t.Run("not checked", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		_, err := serv.UncheckHabit(ctx, habitID, userID, "2026-02-04")
		assert.ErrorIs(t, err, errorvalues.ErrCheckNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		checksRepo.EXPECT().Delete(gomock.Any(), habitID, "2026-02-08").Return(errors.New("db error"))
		_, err := serv.UncheckHabit(ctx, habitID, userID, "2026-02-08")
		assert.Error(t, err)
	})
}

func TestToggleToday(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock)
	ctx := context.Background()
	t.Run("on", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		checksRepo.EXPECT().Create(gomock.Any(), habitID, "2026-02-11").Return(nil)
		habitsRepo.EXPECT().UpdateCache(gomock.Any(), gomock.Any()).Return(nil)
		h, err := serv.ToggleToday(ctx, habitID, userID)
		require.NoError(t, err)
		assert.True(t, h.Completed)
	})
	t.Run("off", func(t *testing.T) {
		h := weeklyHabit()
		h.CompletedDates = []string{"2026-02-08", "2026-02-11"}
		h.Completed, h.CurrentStreak, h.LongestStreak = true, 2, 2
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(h, nil)
		checksRepo.EXPECT().Delete(gomock.Any(), habitID, "2026-02-11").Return(nil)
		habitsRepo.EXPECT().UpdateCache(gomock.Any(), gomock.Any()).Return(nil)
		got, err := serv.ToggleToday(ctx, habitID, userID)
		require.NoError(t, err)
		assert.False(t, got.Completed)
		assert.Equal(t, 1, got.CurrentStreak)
	})
	t.Run("not due today", func(t *testing.T) {
		h := weeklyHabit()
		h.DaysOfWeek = []int{0}
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(h, nil)
		_, err := serv.ToggleToday(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrNotDueDate)
	})
}

func TestGetHabitStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		h := weeklyHabit()
		h.CompletedDates = []string{"2026-02-01", "2026-02-04", "2026-02-08", "2026-02-11"}
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(h, nil)
		checksRepo.EXPECT().Summary(gomock.Any(), habitID).Return(4, "2026-02-11", nil)
		stats, err := serv.GetHabitStats(ctx, habitID, userID)
		require.NoError(t, err)
		assert.Equal(t, habitID, stats.ID)
		assert.Equal(t, 4, stats.TotalChecks)
		assert.Equal(t, "2026-02-11", stats.LastCheck)
		assert.Equal(t, 4, stats.CurrentStreak)
		assert.Equal(t, 4, stats.MaxStreak)
		assert.Equal(t, 100.0, stats.CompletionRate)
		assert.Equal(t, 100, stats.DisplayRate)
		// Wednesday done, Sunday the 15th still ahead
		assert.Equal(t, 50.0, stats.ThisWeekRate)
		assert.Equal(t, 100.0, stats.LastWeekRate)
		assert.InDelta(t, 82.667, stats.GrowthRate, 0.01)
		assert.Equal(t, 4, stats.TreeLevel)
	})
	t.Run("summary error", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		checksRepo.EXPECT().Summary(gomock.Any(), habitID).Return(0, "", errors.New("db error"))
		_, err := serv.GetHabitStats(ctx, habitID, userID)
		assert.Error(t, err)
	})
}

func TestCalendarAndTrend(t *testing.T) {
	ctrl := gomock.NewController(t)
	checksRepo := mocks.NewMockHabitChecksRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewHabitChecksService(habitsRepo, checksRepo, clock)
	ctx := context.Background()
	t.Run("calendar", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		days, err := serv.GetCalendar(ctx, habitID, userID, "2026-02-08", "2026-02-11")
		require.NoError(t, err)
		assert.Equal(t, []entity.CompletionStatus{
			{Date: "2026-02-08", Completed: true, IsDue: true},
			{Date: "2026-02-09", Completed: false, IsDue: false},
			{Date: "2026-02-10", Completed: false, IsDue: false},
			{Date: "2026-02-11", Completed: false, IsDue: true},
		}, days)
	})
	t.Run("calendar with malformed bound", func(t *testing.T) {
		_, err := serv.GetCalendar(ctx, habitID, userID, "2026-02-08", "tomorrow")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidDate)
	})
	t.Run("trend", func(t *testing.T) {
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		trend, err := serv.GetTrend(ctx, habitID, userID)
		require.NoError(t, err)
		require.Len(t, trend, 11)
		assert.Equal(t, "2026-02-01", trend[0].Date)
		assert.Equal(t, 0.0, trend[0].CompletionRate)
		// due: 1st, 4th, 8th, 11th; only the 8th done
		assert.Equal(t, 25.0, trend[10].CompletionRate)
	})
	t.Run("checks", func(t *testing.T) {
		checks := []entity.HabitCheck{{ID: 1, HabitID: habitID, CheckDate: "2026-02-08"}}
		habitsRepo.EXPECT().GetByID(gomock.Any(), habitID).Return(weeklyHabit(), nil)
		checksRepo.EXPECT().GetByHabitAndDateRange(gomock.Any(), habitID, "2026-02-01", "2026-02-28").Return(checks, nil)
		got, err := serv.GetHabitChecks(ctx, habitID, userID, "2026-02-01", "2026-02-28")
		require.NoError(t, err)
		assert.Equal(t, checks, got)
	})
}
