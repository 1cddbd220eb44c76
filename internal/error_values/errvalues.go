package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrValidation       = errors.New("validation error")
	ErrInvalidToken     = errors.New("invalid token")
)

// Habits
var (
	ErrHabitNotFound   = errors.New("habit doesn't exist")
	ErrUserHasHabit    = errors.New("user already has habit with such title")
	ErrOwnerNotFound   = errors.New("habit owner doesn't exist")
	ErrWrongOwner      = errors.New("habit belongs to another user")
	ErrInvalidSchedule = errors.New("invalid habit schedule")
)

// Checks
var (
	ErrCheckExist          = errors.New("check on this date already exists")
	ErrCheckNotFound       = errors.New("check doesn't exist")
	ErrCheckDateNotAllowed = errors.New("check date is in the future")
	ErrNotDueDate          = errors.New("habit is not due on this date")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
)

// Categories and push tokens
var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category doesn't exist")
	ErrCategoryInUse    = errors.New("category is used by a habit")
	ErrDefaultCategory  = errors.New("default category can't be deleted")
	ErrTokenNotFound    = errors.New("push token doesn't exist")
)
