package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/service"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockState int

const (
	stateSuccess mockState = iota
	stateDBError
	stateUserHasHabitError
	stateHabitNotFoundError
	stateUserNotFoundError
	stateWrongOwner
	stateCacheError
)

// Wednesday, 2026-02-11 07:30 UTC
var (
	now     = time.Date(2026, 2, 11, 7, 30, 0, 0, time.UTC)
	clock   = service.FixedClock(now)
	userID  = uuid.New()
	habitID = uuid.New()
)

func newTestHabit() *entity.Habit {
	return &entity.Habit{
		ID:             habitID,
		UserID:         userID,
		Title:          "test_habit",
		Description:    "test_description",
		FrequencyType:  entity.FrequencyDaily,
		CompletedDates: []string{"2026-02-09", "2026-02-10", "2026-02-11"},
		CreatedAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

type habitRepoMock struct {
	state       mockState
	habits      []*entity.Habit
	created     []*entity.Habit
	updated     int
	cacheWrites []uuid.UUID
	count       int
}

func (hrmock *habitRepoMock) Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error) {
	switch hrmock.state {
	case stateUserNotFoundError:
		return uuid.UUID{}, errorvalues.ErrOwnerNotFound
	case stateUserHasHabitError:
		return uuid.UUID{}, errorvalues.ErrUserHasHabit
	case stateDBError:
		return uuid.UUID{}, errors.New("db error")
	}
	stored := *habit
	stored.ID = uuid.New()
	hrmock.created = append(hrmock.created, &stored)
	return stored.ID, nil
}

func (hrmock *habitRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	switch hrmock.state {
	case stateHabitNotFoundError:
		return nil, errorvalues.ErrHabitNotFound
	case stateDBError:
		return nil, errors.New("db error")
	case stateWrongOwner:
		h := newTestHabit()
		h.UserID = uuid.New()
		return h, nil
	}
	for _, h := range hrmock.created {
		if h.ID == id {
			copied := *h
			return &copied, nil
		}
	}
	return newTestHabit(), nil
}

func (hrmock *habitRepoMock) list() ([]*entity.Habit, error) {
	if hrmock.state == stateDBError {
		return nil, errors.New("db error")
	}
	if hrmock.habits == nil {
		return []*entity.Habit{newTestHabit()}, nil
	}
	return hrmock.habits, nil
}

func (hrmock *habitRepoMock) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	return hrmock.list()
}

func (hrmock *habitRepoMock) ListByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	return hrmock.list()
}

func (hrmock *habitRepoMock) ListWithReminder(ctx context.Context, uid uuid.UUID, reminderTime string) ([]*entity.Habit, error) {
	return hrmock.list()
}

func (hrmock *habitRepoMock) Update(ctx context.Context, habit *entity.Habit) error {
	switch hrmock.state {
	case stateDBError:
		return errors.New("db error")
	case stateUserHasHabitError:
		return errorvalues.ErrUserHasHabit
	}
	hrmock.updated++
	return nil
}

func (hrmock *habitRepoMock) UpdateCache(ctx context.Context, habit *entity.Habit) error {
	if hrmock.state == stateCacheError {
		return errors.New("db error")
	}
	hrmock.cacheWrites = append(hrmock.cacheWrites, habit.ID)
	return nil
}

func (hrmock *habitRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	switch hrmock.state {
	case stateDBError:
		return errors.New("db error")
	case stateHabitNotFoundError:
		return errorvalues.ErrHabitNotFound
	default:
		return nil
	}
}

func (hrmock *habitRepoMock) CountByCategory(ctx context.Context, uid uuid.UUID, category string) (int, error) {
	return hrmock.count, nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestCreateHabit(t *testing.T) {
	ctx := context.Background()
	daily := service.CreateHabitRequest{
		Title:         "read",
		Description:   "ten pages",
		Color:         "#34a853",
		FrequencyType: "daily",
	}
	t.Run("success", func(t *testing.T) {
		mock := &habitRepoMock{}
		s := service.NewHabitsService(mock, clock)
		req := daily
		req.CompletedDates = []string{"2026-02-11", "2026-02-10"}
		req.NotificationEnabled = true
		req.ReminderTime = "07:30"
		h, err := s.CreateHabit(ctx, userID, req)
		require.NoError(t, err)
		require.Len(t, mock.created, 1)
		assert.Equal(t, mock.created[0].ID, h.ID)
		assert.Equal(t, userID, h.UserID)
		assert.Equal(t, []string{"2026-02-10", "2026-02-11"}, h.CompletedDates)
		assert.True(t, h.Completed)
		assert.Equal(t, 2, h.CurrentStreak)
		assert.Equal(t, 2, h.LongestStreak)
		require.NotNil(t, h.Notification)
		assert.Equal(t, "07:30", h.Notification.ReminderTime)
	})
	invalid := []struct {
		Desc   string
		Mutate func(r *service.CreateHabitRequest)
		Error  error
	}{
		{"empty title", func(r *service.CreateHabitRequest) { r.Title = "" }, errorvalues.ErrValidation},
		{"unknown frequency", func(r *service.CreateHabitRequest) { r.FrequencyType = "monthly" }, errorvalues.ErrValidation},
		{"bad color", func(r *service.CreateHabitRequest) { r.Color = "green" }, errorvalues.ErrValidation},
		{"weekday out of range", func(r *service.CreateHabitRequest) {
			r.FrequencyType = "weekly"
			r.DaysOfWeek = []int{7}
		}, errorvalues.ErrValidation},
		{"weekly without days", func(r *service.CreateHabitRequest) { r.FrequencyType = "weekly" }, errorvalues.ErrInvalidSchedule},
		{"interval without start", func(r *service.CreateHabitRequest) {
			r.FrequencyType = "interval"
			r.IntervalDays = 3
		}, errorvalues.ErrInvalidSchedule},
		{"interval without step", func(r *service.CreateHabitRequest) {
			r.FrequencyType = "interval"
			r.StartDate = "2026-02-01"
		}, errorvalues.ErrInvalidSchedule},
		{"reminder without time", func(r *service.CreateHabitRequest) { r.NotificationEnabled = true }, errorvalues.ErrValidation},
		{"malformed reminder", func(r *service.CreateHabitRequest) {
			r.NotificationEnabled = true
			r.ReminderTime = "7:30"
		}, errorvalues.ErrValidation},
		{"malformed completion", func(r *service.CreateHabitRequest) { r.CompletedDates = []string{"2026-02-30"} }, errorvalues.ErrValidation},
	}
	for _, tc := range invalid {
		t.Run(tc.Desc, func(t *testing.T) {
			mock := &habitRepoMock{}
			s := service.NewHabitsService(mock, clock)
			req := daily
			tc.Mutate(&req)
			_, err := s.CreateHabit(ctx, userID, req)
			assert.ErrorIs(t, err, tc.Error)
			assert.Empty(t, mock.created)
		})
	}
	repoErrors := []struct {
		Desc  string
		State mockState
		Error error
	}{
		{"owner not found", stateUserNotFoundError, errorvalues.ErrUserNotFound},
		{"title taken", stateUserHasHabitError, errorvalues.ErrUserHasHabit},
	}
	for _, tc := range repoErrors {
		t.Run(tc.Desc, func(t *testing.T) {
			s := service.NewHabitsService(&habitRepoMock{state: tc.State}, clock)
			_, err := s.CreateHabit(ctx, userID, daily)
			assert.ErrorIs(t, err, tc.Error)
		})
	}
	t.Run("db error", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateDBError}, clock)
		_, err := s.CreateHabit(ctx, userID, daily)
		assert.Error(t, err)
	})
}

func TestGetUserHabits(t *testing.T) {
	ctx := context.Background()
	stale := newTestHabit()
	fresh := &entity.Habit{ID: uuid.New(), UserID: userID, Title: "fresh", FrequencyType: entity.FrequencyDaily}
	t.Run("stale caches are written back", func(t *testing.T) {
		mock := &habitRepoMock{habits: []*entity.Habit{stale, fresh}}
		s := service.NewHabitsService(mock, clock)
		habits, err := s.GetUserHabits(ctx, userID, service.PaginationOpts{Limit: 10})
		require.NoError(t, err)
		require.Len(t, habits, 2)
		assert.Equal(t, []uuid.UUID{stale.ID}, mock.cacheWrites)
		assert.True(t, habits[0].Completed)
		assert.Equal(t, 3, habits[0].CurrentStreak)
		assert.Equal(t, 3, habits[0].LongestStreak)
	})
	t.Run("failed write-back keeps the response", func(t *testing.T) {
		h := newTestHabit()
		mock := &habitRepoMock{state: stateCacheError, habits: []*entity.Habit{h}}
		s := service.NewHabitsService(mock, clock)
		habits, err := s.GetUserHabits(ctx, userID, service.PaginationOpts{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, habits[0].CurrentStreak)
	})
	t.Run("db error", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateDBError}, clock)
		_, err := s.GetUserHabits(ctx, userID, service.PaginationOpts{Limit: 10})
		assert.Error(t, err)
	})
}

func TestGetHabit(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock := &habitRepoMock{}
		s := service.NewHabitsService(mock, clock)
		h, err := s.GetHabit(ctx, habitID, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, h.CurrentStreak)
		assert.Len(t, mock.cacheWrites, 1)
	})
	t.Run("wrong owner", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateWrongOwner}, clock)
		_, err := s.GetHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
	t.Run("not found", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateHabitNotFoundError}, clock)
		_, err := s.GetHabit(ctx, habitID, userID)
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
}

func TestUpdateHabit(t *testing.T) {
	ctx := context.Background()
	t.Run("schedule change recomputes streaks", func(t *testing.T) {
		mock := &habitRepoMock{}
		s := service.NewHabitsService(mock, clock)
		h, err := s.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{
			FrequencyType: ptr("weekly"),
			DaysOfWeek:    []int{3},
		})
		require.NoError(t, err)
		assert.Equal(t, entity.FrequencyWeekly, h.FrequencyType)
		// only Wednesday the 11th is due now
		assert.Equal(t, 1, h.CurrentStreak)
		assert.Equal(t, 1, h.LongestStreak)
		assert.Equal(t, 1, mock.updated)
		assert.Len(t, mock.cacheWrites, 1)
	})
	t.Run("notification", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{}, clock)
		h, err := s.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{
			NotificationEnabled: ptr(true),
			ReminderTime:        ptr("08:00"),
			Title:               ptr("renamed"),
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", h.Title)
		require.NotNil(t, h.Notification)
		assert.True(t, h.Notification.Enabled)
		assert.Equal(t, "08:00", h.Notification.ReminderTime)
	})
	t.Run("weekly without days", func(t *testing.T) {
		mock := &habitRepoMock{}
		s := service.NewHabitsService(mock, clock)
		_, err := s.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{FrequencyType: ptr("weekly")})
		assert.ErrorIs(t, err, errorvalues.ErrInvalidSchedule)
		assert.Zero(t, mock.updated)
	})
	t.Run("malformed reminder", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{}, clock)
		_, err := s.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{ReminderTime: ptr("25:00")})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("title taken", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateUserHasHabitError}, clock)
		_, err := s.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{Title: ptr("other")})
		assert.ErrorIs(t, err, errorvalues.ErrUserHasHabit)
	})
	t.Run("wrong owner", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateWrongOwner}, clock)
		_, err := s.UpdateHabit(ctx, habitID, userID, service.UpdateHabitRequest{Title: ptr("other")})
		assert.ErrorIs(t, err, errorvalues.ErrWrongOwner)
	})
}

func TestDeleteHabit(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		Desc  string
		State mockState
		Error error
	}{
		{"success", stateSuccess, nil},
		{"wrong owner", stateWrongOwner, errorvalues.ErrWrongOwner},
		{"not found", stateHabitNotFoundError, errorvalues.ErrHabitNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			s := service.NewHabitsService(&habitRepoMock{state: tc.State}, clock)
			err := s.DeleteHabit(ctx, habitID, userID)
			if tc.Error != nil {
				assert.ErrorIs(t, err, tc.Error)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	t.Run("db error", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{state: stateDBError}, clock)
		assert.Error(t, s.DeleteHabit(ctx, habitID, userID))
	})
}

func TestImportHabits(t *testing.T) {
	ctx := context.Background()
	t.Run("merges untaken titles", func(t *testing.T) {
		mock := &habitRepoMock{habits: []*entity.Habit{newTestHabit()}}
		s := service.NewHabitsService(mock, clock)
		imported, err := s.ImportHabits(ctx, userID, service.ImportHabitsRequest{
			Habits: []service.CreateHabitRequest{
				{Title: "test_habit", FrequencyType: "daily"},
				{Title: "read", FrequencyType: "daily", CompletedDates: []string{"2026-02-11", "2026-02-10"}},
			},
		})
		require.NoError(t, err)
		require.Len(t, imported, 1)
		assert.Equal(t, "read", imported[0].Title)
		assert.Equal(t, userID, imported[0].UserID)
		assert.NotEqual(t, uuid.Nil, imported[0].ID)
		assert.True(t, imported[0].Completed)
		assert.Equal(t, 2, imported[0].CurrentStreak)
		assert.Len(t, mock.created, 1)
	})
	t.Run("invalid schedule rejects the batch", func(t *testing.T) {
		mock := &habitRepoMock{habits: []*entity.Habit{}}
		s := service.NewHabitsService(mock, clock)
		_, err := s.ImportHabits(ctx, userID, service.ImportHabitsRequest{
			Habits: []service.CreateHabitRequest{
				{Title: "read", FrequencyType: "daily"},
				{Title: "swim", FrequencyType: "weekly"},
			},
		})
		assert.ErrorIs(t, err, errorvalues.ErrInvalidSchedule)
		assert.Empty(t, mock.created)
	})
	t.Run("empty request", func(t *testing.T) {
		s := service.NewHabitsService(&habitRepoMock{}, clock)
		_, err := s.ImportHabits(ctx, userID, service.ImportHabitsRequest{})
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
	})
}
