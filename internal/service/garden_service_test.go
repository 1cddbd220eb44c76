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

func TestGetGarden(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewGardenService(habitsRepo, clock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		thriving := &entity.Habit{
			ID:            uuid.New(),
			UserID:        userID,
			Title:         "walk",
			Color:         "#34a853",
			FrequencyType: entity.FrequencyDaily,
			CompletedDates: []string{
				"2026-02-05", "2026-02-06", "2026-02-07", "2026-02-08",
				"2026-02-09", "2026-02-10", "2026-02-11",
			},
			CreatedAt: time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC),
		}
		idle := &entity.Habit{
			ID:            uuid.New(),
			UserID:        userID,
			Title:         "draw",
			FrequencyType: entity.FrequencyDaily,
			CreatedAt:     time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		}
		habitsRepo.EXPECT().ListByUserID(gomock.Any(), userID).Return([]*entity.Habit{thriving, idle}, nil)
		garden, err := serv.GetGarden(ctx, userID)
		require.NoError(t, err)
		require.Len(t, garden.Trees, 2)
		assert.Equal(t, thriving.ID, garden.Trees[0].HabitID)
		assert.InDelta(t, 84.667, garden.Trees[0].GrowthRate, 0.01)
		assert.Equal(t, 4, garden.Trees[0].Level)
		assert.Equal(t, 7, garden.Trees[0].CurrentStreak)
		assert.Zero(t, garden.Trees[1].GrowthRate)
		assert.Equal(t, 1, garden.Trees[1].Level)
		assert.Equal(t, 50.0, garden.AverageRate)
		assert.Equal(t, 50, garden.DisplayRate)
		assert.Equal(t, "cloudy", garden.Weather)
		assert.Equal(t, []uuid.UUID{thriving.ID}, garden.MostConsistent)
		assert.Equal(t, 7, garden.BestStreak)
	})
	t.Run("empty garden", func(t *testing.T) {
		habitsRepo.EXPECT().ListByUserID(gomock.Any(), userID).Return([]*entity.Habit{}, nil)
		garden, err := serv.GetGarden(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, garden.Trees)
		assert.Empty(t, garden.MostConsistent)
		assert.Equal(t, "cloudy", garden.Weather)
		assert.Zero(t, garden.BestStreak)
	})
	t.Run("db error", func(t *testing.T) {
		habitsRepo.EXPECT().ListByUserID(gomock.Any(), userID).Return(nil, errors.New("db error"))
		_, err := serv.GetGarden(ctx, userID)
		assert.Error(t, err)
	})
}

func TestCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	categoriesRepo := mocks.NewMockCategoriesRepositoryI(ctrl)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewCategoriesService(categoriesRepo, habitsRepo)
	ctx := context.Background()
	t.Run("list puts defaults first", func(t *testing.T) {
		categoriesRepo.EXPECT().ListByUserID(gomock.Any(), userID).Return([]string{"Music"}, nil)
		list, err := serv.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, len(service.DefaultCategories)+1)
		assert.Equal(t, entity.Category{Name: "Lifestyle"}, list[0])
		assert.Equal(t, entity.Category{Name: "Music", Custom: true}, list[len(list)-1])
	})
	t.Run("create trims name", func(t *testing.T) {
		categoriesRepo.EXPECT().Create(gomock.Any(), userID, "Music").Return(nil)
		assert.NoError(t, serv.Create(ctx, userID, "  Music "))
	})
	t.Run("create rejects", func(t *testing.T) {
		assert.ErrorIs(t, serv.Create(ctx, userID, "   "), errorvalues.ErrValidation)
		assert.ErrorIs(t, serv.Create(ctx, userID, string(make([]byte, 51))), errorvalues.ErrValidation)
		assert.ErrorIs(t, serv.Create(ctx, userID, "health"), errorvalues.ErrCategoryExists)
	})
	t.Run("create duplicate", func(t *testing.T) {
		categoriesRepo.EXPECT().Create(gomock.Any(), userID, "Music").Return(errorvalues.ErrCategoryExists)
		assert.ErrorIs(t, serv.Create(ctx, userID, "Music"), errorvalues.ErrCategoryExists)
	})
	t.Run("delete", func(t *testing.T) {
		habitsRepo.EXPECT().CountByCategory(gomock.Any(), userID, "Music").Return(0, nil)
		categoriesRepo.EXPECT().Delete(gomock.Any(), userID, "Music").Return(nil)
		assert.NoError(t, serv.Delete(ctx, userID, "Music"))
	})
	t.Run("delete default", func(t *testing.T) {
		assert.ErrorIs(t, serv.Delete(ctx, userID, "Work"), errorvalues.ErrDefaultCategory)
	})
	t.Run("delete in use", func(t *testing.T) {
		habitsRepo.EXPECT().CountByCategory(gomock.Any(), userID, "Music").Return(2, nil)
		assert.ErrorIs(t, serv.Delete(ctx, userID, "Music"), errorvalues.ErrCategoryInUse)
	})
	t.Run("delete unknown", func(t *testing.T) {
		habitsRepo.EXPECT().CountByCategory(gomock.Any(), userID, "Jazz").Return(0, nil)
		categoriesRepo.EXPECT().Delete(gomock.Any(), userID, "Jazz").Return(errorvalues.ErrCategoryNotFound)
		assert.ErrorIs(t, serv.Delete(ctx, userID, "Jazz"), errorvalues.ErrCategoryNotFound)
	})
}

func TestPushTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPushTokensRepositoryI(ctrl)
	serv := service.NewPushTokensService(repo)
	ctx := context.Background()
	t.Run("register", func(t *testing.T) {
		repo.EXPECT().Save(gomock.Any(), userID, "device-token").Return(nil)
		assert.NoError(t, serv.Register(ctx, userID, " device-token\n"))
	})
	t.Run("register empty", func(t *testing.T) {
		assert.ErrorIs(t, serv.Register(ctx, userID, " "), errorvalues.ErrValidation)
	})
	t.Run("register db error", func(t *testing.T) {
		repo.EXPECT().Save(gomock.Any(), userID, "device-token").Return(errors.New("db error"))
		assert.Error(t, serv.Register(ctx, userID, "device-token"))
	})
	t.Run("unregister", func(t *testing.T) {
		repo.EXPECT().Delete(gomock.Any(), userID, "device-token").Return(nil)
		assert.NoError(t, serv.Unregister(ctx, userID, "device-token"))
	})
	t.Run("unregister unknown", func(t *testing.T) {
		repo.EXPECT().Delete(gomock.Any(), userID, "other").Return(errorvalues.ErrTokenNotFound)
		assert.ErrorIs(t, serv.Unregister(ctx, userID, "other"), errorvalues.ErrTokenNotFound)
	})
}

func TestDueReminders(t *testing.T) {
	ctrl := gomock.NewController(t)
	habitsRepo := mocks.NewMockHabitsRepositoryI(ctrl)
	serv := service.NewRemindersService(habitsRepo, clock)
	ctx := context.Background()
	due := &entity.Habit{
		ID:            uuid.New(),
		Title:         "stretch",
		FrequencyType: entity.FrequencyDaily,
		Notification:  &entity.Notification{Enabled: true, ReminderTime: "07:30"},
	}
	// Sundays only, today is Wednesday
	offDay := &entity.Habit{
		ID:            uuid.New(),
		Title:         "long run",
		FrequencyType: entity.FrequencyWeekly,
		DaysOfWeek:    []int{0},
		Notification:  &entity.Notification{Enabled: true, ReminderTime: "07:30"},
	}
	t.Run("current minute", func(t *testing.T) {
		habitsRepo.EXPECT().ListWithReminder(gomock.Any(), userID, "07:30").Return([]*entity.Habit{due, offDay}, nil)
		got, err := serv.DueReminders(ctx, userID, "")
		require.NoError(t, err)
		assert.Equal(t, []*entity.Habit{due}, got)
	})
	t.Run("explicit minute", func(t *testing.T) {
		habitsRepo.EXPECT().ListWithReminder(gomock.Any(), userID, "21:00").Return([]*entity.Habit{due}, nil)
		got, err := serv.DueReminders(ctx, userID, "21:00")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("malformed minute", func(t *testing.T) {
		_, err := serv.DueReminders(ctx, userID, "7:30")
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("db error", func(t *testing.T) {
		habitsRepo.EXPECT().ListWithReminder(gomock.Any(), userID, "07:30").Return(nil, errors.New("db error"))
		_, err := serv.DueReminders(ctx, userID, "")
		assert.Error(t, err)
	})
}
