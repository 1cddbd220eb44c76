package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/limbo/habitgarden/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_service.go -package=mocks

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateHabitRequest struct {
	Title         string `validate:"required,max=100"`
	Description   string `validate:"max=500"`
	Category      string `validate:"max=50"`
	Color         string `validate:"omitempty,hexcolor"`
	FrequencyType string `validate:"required,oneof=daily weekly interval"`
	DaysOfWeek    []int  `validate:"omitempty,max=7,unique,dive,min=0,max=6"`
	IntervalDays  int    `validate:"omitempty,min=1,max=365"`
	StartDate     string `validate:"omitempty,calendar_date"`

	NotificationEnabled bool
	ReminderTime        string `validate:"required_if=NotificationEnabled true,omitempty,clock_time"`

	// Only filled when importing habits kept on a device before signing in
	CompletedDates []string `validate:"omitempty,max=3660,dive,calendar_date"`
}

// UpdateHabitRequest is a partial update: nil fields are left untouched.
type UpdateHabitRequest struct {
	Title         *string `validate:"omitempty,min=1,max=100"`
	Description   *string `validate:"omitempty,max=500"`
	Category      *string `validate:"omitempty,max=50"`
	Color         *string `validate:"omitempty,hexcolor"`
	FrequencyType *string `validate:"omitempty,oneof=daily weekly interval"`
	DaysOfWeek    []int   `validate:"omitempty,max=7,unique,dive,min=0,max=6"`
	IntervalDays  *int    `validate:"omitempty,min=1,max=365"`
	StartDate     *string `validate:"omitempty,calendar_date"`

	NotificationEnabled *bool
	ReminderTime        *string `validate:"omitempty,clock_time"`
}

type ImportHabitsRequest struct {
	Habits []CreateHabitRequest `validate:"required,max=100,dive"`
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type HabitsServiceI interface {
	CreateHabit(ctx context.Context, uid uuid.UUID, req CreateHabitRequest) (*entity.Habit, error)
	// Lists user's habits with derived fields refreshed. Stale caches are written back
	GetUserHabits(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Habit, error)
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)
	UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, req UpdateHabitRequest) (*entity.Habit, error)
	DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error
	// Moves habits created by a guest into the account. Titles already taken are skipped
	ImportHabits(ctx context.Context, uid uuid.UUID, req ImportHabitsRequest) ([]*entity.Habit, error)
}

type HabitChecksServiceI interface {
	// Completes today if it isn't completed yet, uncompletes otherwise
	ToggleToday(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)
	CheckHabit(ctx context.Context, habitID, userID uuid.UUID, date string) (*entity.Habit, error)
	UncheckHabit(ctx context.Context, habitID, userID uuid.UUID, date string) (*entity.Habit, error)
	GetHabitChecks(ctx context.Context, habitID, userID uuid.UUID, from, to string) ([]entity.HabitCheck, error)
	GetHabitStats(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitStats, error)
	GetCalendar(ctx context.Context, habitID, userID uuid.UUID, from, to string) ([]entity.CompletionStatus, error)
	GetTrend(ctx context.Context, habitID, userID uuid.UUID) ([]entity.TrendPoint, error)
}

type GardenServiceI interface {
	GetGarden(ctx context.Context, uid uuid.UUID) (*entity.Garden, error)
}

type CategoriesServiceI interface {
	// Default categories first, then user's own ones
	List(ctx context.Context, uid uuid.UUID) ([]entity.Category, error)
	Create(ctx context.Context, uid uuid.UUID, name string) error
	Delete(ctx context.Context, uid uuid.UUID, name string) error
}

type PushTokensServiceI interface {
	Register(ctx context.Context, uid uuid.UUID, token string) error
	Unregister(ctx context.Context, uid uuid.UUID, token string) error
}

type RemindersServiceI interface {
	// Habits of uid to remind about at clock ("HH:MM", empty means now) today
	DueReminders(ctx context.Context, uid uuid.UUID, clock string) ([]*entity.Habit, error)
}
