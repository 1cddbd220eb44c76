package service

import (
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/habitcalc"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot be started with a digit or underscore
				if i == 0 && (unicode.IsDigit(char) || char == '_') {
					return false
				}
				if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
					return false
				}
			}
			return true
		})
		// YYYY-MM-DD naming a real day
		validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			return habitcalc.ValidDate(fl.Field().String())
		})
		// 24h HH:MM
		validate.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
			return habitcalc.ValidClock(fl.Field().String())
		})
	})
}

// validateRequest runs struct validation and folds field errors into one
// error wrapping errorvalues.ErrValidation.
func validateRequest(req any) error {
	InitValidator()
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		joined := []error{errorvalues.ErrValidation}
		for _, fieldErr := range validationErrors {
			joined = append(joined, fieldErr)
		}
		return errors.Join(joined...)
	}
	return errors.New("validation unexpected error: " + err.Error())
}

// checkSchedule enforces what tags can't express: weekly habits need at
// least one weekday, interval habits need a start date and a step.
func checkSchedule(h *entity.Habit) error {
	switch h.FrequencyType {
	case entity.FrequencyDaily:
		return nil
	case entity.FrequencyWeekly:
		if len(h.DaysOfWeek) == 0 {
			return fmt.Errorf("%w: weekly habit needs days_of_week", errorvalues.ErrInvalidSchedule)
		}
		for _, d := range h.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: weekday %d out of range", errorvalues.ErrInvalidSchedule, d)
			}
		}
		return nil
	case entity.FrequencyInterval:
		if h.IntervalDays < 1 {
			return fmt.Errorf("%w: interval_days must be at least 1", errorvalues.ErrInvalidSchedule)
		}
		if !habitcalc.ValidDate(h.StartDate) {
			return fmt.Errorf("%w: interval habit needs start_date", errorvalues.ErrInvalidSchedule)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown frequency %q", errorvalues.ErrInvalidSchedule, h.FrequencyType)
}
