package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/pkg/entity"
)

// Dates are passed and returned as YYYY-MM-DD. Postgres stores them as DATE,
// so no time zone is ever involved.
type HabitChecksRepository struct {
	conn PgConnection
}

func NewHabitChecksRepo(cfg DBConfig) *HabitChecksRepository {
	return &HabitChecksRepository{
		conn: newPool(cfg, "habitChecksRepo"),
	}
}

func NewHabitChecksRepoWithConn(conn PgConnection) *HabitChecksRepository {
	mustPing(conn, "habitChecksRepo")
	return &HabitChecksRepository{
		conn: conn,
	}
}

func (checksRepo *HabitChecksRepository) Create(ctx context.Context, habitID uuid.UUID, date string) error {
	_, err := checksRepo.conn.Exec(ctx,
		`INSERT INTO habit_checks (habit_id, check_date) VALUES ($1, $2::date);`,
		habitID, date,
	)
	if err != nil {
		switch pgErrCode(err) {
		case uniqueViolation:
			return errorvalues.ErrCheckExist
		case fkViolation:
			return errorvalues.ErrHabitNotFound
		}
		return errors.New("creating check error: " + err.Error())
	}
	return nil
}

func (checksRepo *HabitChecksRepository) Delete(ctx context.Context, habitID uuid.UUID, date string) error {
	ct, err := checksRepo.conn.Exec(ctx,
		`DELETE FROM habit_checks WHERE habit_id = $1 AND check_date = $2::date;`,
		habitID, date,
	)
	if err != nil {
		return errors.New("deleting check error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCheckNotFound
	}
	return nil
}

func (checksRepo *HabitChecksRepository) GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to string) ([]entity.HabitCheck, error) {
	rows, err := checksRepo.conn.Query(ctx,
		`SELECT id, habit_id, to_char(check_date, 'YYYY-MM-DD'), created_at FROM habit_checks
		WHERE habit_id = $1 AND check_date BETWEEN $2::date AND $3::date ORDER BY check_date;`,
		habitID, from, to,
	)
	if err != nil {
		return nil, errors.New("getting checks for period error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.HabitCheck, 0)
	for rows.Next() {
		check := entity.HabitCheck{}
		if err = rows.Scan(&check.ID, &check.HabitID, &check.CheckDate, &check.CreatedAt); err != nil {
			return nil, errors.New("check row parsing error: " + err.Error())
		}
		result = append(result, check)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected check rows error: " + err.Error())
	}
	return result, nil
}

// Summary returns the number of checks and the latest check date ("" when
// the habit was never checked).
func (checksRepo *HabitChecksRepository) Summary(ctx context.Context, habitID uuid.UUID) (int, string, error) {
	var (
		count int
		last  string
	)
	row := checksRepo.conn.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(to_char(MAX(check_date), 'YYYY-MM-DD'), '') FROM habit_checks WHERE habit_id = $1;`,
		habitID,
	)
	if err := row.Scan(&count, &last); err != nil {
		return 0, "", errors.New("summarizing checks error: " + err.Error())
	}
	return count, last, nil
}
