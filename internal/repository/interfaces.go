package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/habitgarden/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_repository.go -package=mocks

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Updates user's info
	Update(ctx context.Context, user *entity.User) error
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

type HabitsRepositoryI interface {
	// Creates new habit together with its completed dates. Returns the id given by the database
	Create(ctx context.Context, habit *entity.Habit) (uuid.UUID, error)
	// Searches habit with given id, completed dates included
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists habits owned by user with uid. Requires pagination params provided
	GetByUserID(ctx context.Context, uid uuid.UUID, limit, offset int) ([]*entity.Habit, error)
	// Lists every habit owned by user with uid
	ListByUserID(ctx context.Context, uid uuid.UUID) ([]*entity.Habit, error)
	// Lists user's habits with notifications enabled at reminderTime ("HH:MM")
	ListWithReminder(ctx context.Context, uid uuid.UUID, reminderTime string) ([]*entity.Habit, error)
	// Updates user editable fields and schedule of habit by ID (ID in habit is necessary)
	Update(ctx context.Context, habit *entity.Habit) error
	// Writes back derived completed/current_streak/longest_streak
	UpdateCache(ctx context.Context, habit *entity.Habit) error
	// Deletes habit with id. Checks are removed by cascade
	Delete(ctx context.Context, id uuid.UUID) error
	// Counts user's habits in category
	CountByCategory(ctx context.Context, uid uuid.UUID, category string) (int, error)
}

type HabitChecksRepositoryI interface {
	// Creates new check on habit with habitID. date is YYYY-MM-DD
	Create(ctx context.Context, habitID uuid.UUID, date string) error
	// Deletes check on habit with habitID (uncheck)
	Delete(ctx context.Context, habitID uuid.UUID, date string) error
	// Provides checks of habitID for a period, both ends included
	GetByHabitAndDateRange(ctx context.Context, habitID uuid.UUID, from, to string) ([]entity.HabitCheck, error)
	// Returns count of checks and date of last check on habitID
	Summary(ctx context.Context, habitID uuid.UUID) (int, string, error)
}

type CategoriesRepositoryI interface {
	// Adds user's own category
	Create(ctx context.Context, uid uuid.UUID, name string) error
	// Lists user's own categories ordered by creation
	ListByUserID(ctx context.Context, uid uuid.UUID) ([]string, error)
	Delete(ctx context.Context, uid uuid.UUID, name string) error
}

type PushTokensRepositoryI interface {
	// Binds token to user. A token already bound to someone else moves to uid
	Save(ctx context.Context, uid uuid.UUID, token string) error
	Delete(ctx context.Context, uid uuid.UUID, token string) error
	ListByUserID(ctx context.Context, uid uuid.UUID) ([]string, error)
	// Lists every user having at least one token, with their tokens
	ListRecipients(ctx context.Context) ([]entity.Recipient, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
