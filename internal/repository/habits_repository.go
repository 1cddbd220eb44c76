package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/pkg/entity"
)

// Completed dates travel with the habit as canonical YYYY-MM-DD strings.
const selectHabits = `SELECT h.id, h.user_id, h.title, h.description, h.category, h.color,
		h.frequency_type, h.days_of_week, h.interval_days, h.start_date,
		h.completed, h.current_streak, h.longest_streak,
		h.notification_enabled, h.reminder_time, h.created_at, h.updated_at,
		COALESCE(array_agg(to_char(c.check_date, 'YYYY-MM-DD') ORDER BY c.check_date)
			FILTER (WHERE c.check_date IS NOT NULL), '{}'::text[]) AS completed_dates
	FROM habits h LEFT JOIN habit_checks c ON c.habit_id = h.id`

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	return &HabitsRepository{
		conn: newPool(cfg, "habitsRepo"),
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	mustPing(conn, "habitsRepo")
	return &HabitsRepository{
		conn: conn,
	}
}

func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit) (id uuid.UUID, err error) {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return uuid.UUID{}, errors.New("starting habit creation error: " + err.Error())
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()
	enabled, reminderTime := notificationColumns(habit)
	row := tx.QueryRow(ctx, `INSERT INTO habits (user_id, title, description, category, color,
		frequency_type, days_of_week, interval_days, start_date,
		completed, current_streak, longest_streak, notification_enabled, reminder_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id;`,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.Color,
		string(habit.FrequencyType),
		daysOrEmpty(habit.DaysOfWeek),
		habit.IntervalDays,
		habit.StartDate,
		habit.Completed,
		habit.CurrentStreak,
		habit.LongestStreak,
		enabled,
		reminderTime,
	)
	if err = row.Scan(&id); err != nil {
		switch pgErrCode(err) {
		case uniqueViolation:
			return uuid.UUID{}, errorvalues.ErrUserHasHabit
		case fkViolation:
			return uuid.UUID{}, errorvalues.ErrOwnerNotFound
		}
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	for _, date := range habit.CompletedDates {
		_, err = tx.Exec(ctx, `INSERT INTO habit_checks (habit_id, check_date) VALUES ($1, $2::date) ON CONFLICT DO NOTHING;`, id, date)
		if err != nil {
			return uuid.UUID{}, errors.New("creating habit checks db error: " + err.Error())
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return uuid.UUID{}, errors.New("committing habit creation error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	row := hr.conn.QueryRow(ctx, selectHabits+` WHERE h.id = $1 GROUP BY h.id;`, id)
	habit, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return habit, nil
}

func (hr *HabitsRepository) GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, selectHabits+` WHERE h.user_id = $1 GROUP BY h.id
		ORDER BY h.created_at, h.id LIMIT $2 OFFSET $3;`, uid, limit, offset)
	if err != nil {
		return nil, errors.New("getting habits by uid error: " + err.Error())
	}
	return collectHabits(rows)
}

func (hr *HabitsRepository) ListByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, selectHabits+` WHERE h.user_id = $1 GROUP BY h.id
		ORDER BY h.created_at, h.id;`, uid)
	if err != nil {
		return nil, errors.New("listing habits by uid error: " + err.Error())
	}
	return collectHabits(rows)
}

func (hr *HabitsRepository) ListWithReminder(ctx context.Context, uid uuid.UUID, reminderTime string) ([]*entity.Habit, error) {
	rows, err := hr.conn.Query(ctx, selectHabits+` WHERE h.user_id = $1 AND h.notification_enabled AND h.reminder_time = $2
		GROUP BY h.id ORDER BY h.created_at, h.id;`, uid, reminderTime)
	if err != nil {
		return nil, errors.New("listing habits with reminder error: " + err.Error())
	}
	return collectHabits(rows)
}

func (hr *HabitsRepository) Update(ctx context.Context, habit *entity.Habit) error {
	enabled, reminderTime := notificationColumns(habit)
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET title = $1, description = $2, category = $3, color = $4,
		frequency_type = $5, days_of_week = $6, interval_days = $7, start_date = $8,
		notification_enabled = $9, reminder_time = $10, updated_at = NOW() WHERE id = $11;`,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.Color,
		string(habit.FrequencyType),
		daysOrEmpty(habit.DaysOfWeek),
		habit.IntervalDays,
		habit.StartDate,
		enabled,
		reminderTime,
		habit.ID,
	)
	if err != nil {
		if pgErrCode(err) == uniqueViolation {
			return errorvalues.ErrUserHasHabit
		}
		return errors.New("error updating habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) UpdateCache(ctx context.Context, habit *entity.Habit) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE habits SET completed = $1, current_streak = $2, longest_streak = $3 WHERE id = $4;`,
		habit.Completed, habit.CurrentStreak, habit.LongestStreak, habit.ID,
	)
	if err != nil {
		return errors.New("error updating habit cache: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := hr.conn.Exec(ctx, `DELETE FROM habits WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting habit: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHabitNotFound
	}
	return nil
}

func (hr *HabitsRepository) CountByCategory(ctx context.Context, uid uuid.UUID, category string) (int, error) {
	var count int
	row := hr.conn.QueryRow(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1 AND category = $2;`, uid, category)
	if err := row.Scan(&count); err != nil {
		return 0, errors.New("error counting habits in category: " + err.Error())
	}
	return count, nil
}

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	var (
		h            entity.Habit
		frequency    string
		enabled      bool
		reminderTime string
	)
	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &h.Category, &h.Color,
		&frequency, &h.DaysOfWeek, &h.IntervalDays, &h.StartDate,
		&h.Completed, &h.CurrentStreak, &h.LongestStreak,
		&enabled, &reminderTime, &h.CreatedAt, &h.UpdatedAt,
		&h.CompletedDates,
	)
	if err != nil {
		return nil, err
	}
	h.FrequencyType = entity.FrequencyType(frequency)
	if enabled || reminderTime != "" {
		h.Notification = &entity.Notification{
			Enabled:      enabled,
			ReminderTime: reminderTime,
		}
	}
	return &h, nil
}

func collectHabits(rows pgx.Rows) ([]*entity.Habit, error) {
	defer rows.Close()
	habits := make([]*entity.Habit, 0)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, errors.New("unmarhalling habit error: " + err.Error())
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}

func notificationColumns(h *entity.Habit) (bool, string) {
	if h.Notification == nil {
		return false, ""
	}
	return h.Notification.Enabled, h.Notification.ReminderTime
}

func daysOrEmpty(days []int) []int {
	if days == nil {
		return []int{}
	}
	return days
}
