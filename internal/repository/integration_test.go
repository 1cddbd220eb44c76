package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/pkg/entity"
	_ "github.com/lib/pq"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

// Runs against a throwaway postgres container. Needs docker, so it is
// opt-in with INTEGRATION_TESTS=1.
func TestRepositoriesIntegrational(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("INTEGRATION_TESTS is not set")
	}
	cfg := setupTestDB(t)
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	habitsRepo := repository.NewHabitsRepoWithConn(pool)
	checksRepo := repository.NewHabitChecksRepoWithConn(pool)
	categoriesRepo := repository.NewCategoriesRepoWithConn(pool)
	tokensRepo := repository.NewPushTokensRepoWithConn(pool)

	habit := &entity.Habit{
		UserID:         userID,
		Title:          "read",
		Category:       "Study",
		Color:          "#fbbc05",
		FrequencyType:  entity.FrequencyWeekly,
		DaysOfWeek:     []int{0, 3},
		CompletedDates: []string{"2026-02-08", "2026-02-11"},
		Notification:   &entity.Notification{Enabled: true, ReminderTime: "07:30"},
	}
	t.Run("habit with checks", func(t *testing.T) {
		id, err := habitsRepo.Create(ctx, habit)
		require.NoError(t, err)
		habit.ID = id

		_, err = habitsRepo.Create(ctx, habit)
		assert.ErrorIs(t, err, errorvalues.ErrUserHasHabit)

		got, err := habitsRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 3}, got.DaysOfWeek)
		assert.Equal(t, []string{"2026-02-08", "2026-02-11"}, got.CompletedDates)
		assert.Equal(t, entity.FrequencyWeekly, got.FrequencyType)
		require.NotNil(t, got.Notification)
		assert.Equal(t, "07:30", got.Notification.ReminderTime)
	})
	t.Run("checks", func(t *testing.T) {
		require.NoError(t, checksRepo.Create(ctx, habit.ID, "2026-02-15"))
		assert.ErrorIs(t, checksRepo.Create(ctx, habit.ID, "2026-02-15"), errorvalues.ErrCheckExist)
		assert.ErrorIs(t, checksRepo.Create(ctx, uuid.New(), "2026-02-15"), errorvalues.ErrHabitNotFound)

		checks, err := checksRepo.GetByHabitAndDateRange(ctx, habit.ID, "2026-02-09", "2026-02-28")
		require.NoError(t, err)
		require.Len(t, checks, 2)
		assert.Equal(t, "2026-02-11", checks[0].CheckDate)
		assert.Equal(t, "2026-02-15", checks[1].CheckDate)

		count, last, err := checksRepo.Summary(ctx, habit.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, "2026-02-15", last)

		require.NoError(t, checksRepo.Delete(ctx, habit.ID, "2026-02-15"))
		assert.ErrorIs(t, checksRepo.Delete(ctx, habit.ID, "2026-02-15"), errorvalues.ErrCheckNotFound)
	})
	t.Run("cache and reminders", func(t *testing.T) {
		habit.Completed, habit.CurrentStreak, habit.LongestStreak = true, 2, 2
		require.NoError(t, habitsRepo.UpdateCache(ctx, habit))

		due, err := habitsRepo.ListWithReminder(ctx, userID, "07:30")
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, 2, due[0].CurrentStreak)

		none, err := habitsRepo.ListWithReminder(ctx, userID, "07:31")
		require.NoError(t, err)
		assert.Empty(t, none)

		count, err := habitsRepo.CountByCategory(ctx, userID, "Study")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
	t.Run("categories", func(t *testing.T) {
		require.NoError(t, categoriesRepo.Create(ctx, userID, "Reading"))
		assert.ErrorIs(t, categoriesRepo.Create(ctx, userID, "Reading"), errorvalues.ErrCategoryExists)
		names, err := categoriesRepo.ListByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Reading"}, names)
		require.NoError(t, categoriesRepo.Delete(ctx, userID, "Reading"))
	})
	t.Run("push tokens", func(t *testing.T) {
		require.NoError(t, tokensRepo.Save(ctx, userID, "tok-1"))
		require.NoError(t, tokensRepo.Save(ctx, userID, "tok-2"))
		require.NoError(t, tokensRepo.Save(ctx, userID, "tok-1"))
		recipients, err := tokensRepo.ListRecipients(ctx)
		require.NoError(t, err)
		require.Len(t, recipients, 1)
		assert.Equal(t, userID, recipients[0].UserID)
		assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, recipients[0].Tokens)
	})
	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, habitsRepo.Delete(ctx, habit.ID))
		count, _, err := checksRepo.Summary(ctx, habit.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func setupTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("garden"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	connStr, err := container.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if err = goose.Up(conn, "../../migrations"); err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`INSERT INTO users (id, name, password_hash) VALUES ($1, $2, $3);`, userID, "test_name", "pass_hash")
	if err != nil {
		t.Fatal(err)
	}
	return &testPGConfig{
		connStr: connStr,
	}
}
