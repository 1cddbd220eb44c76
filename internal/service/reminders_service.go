package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/habitcalc"
)

type RemindersService struct {
	habitsRepo repository.HabitsRepositoryI
	clock      Clock
}

func NewRemindersService(habitsRepo repository.HabitsRepositoryI, clock Clock) *RemindersService {
	if habitsRepo == nil {
		log.Fatal("on reminders service provided nil habitsRepo")
	}
	return &RemindersService{
		habitsRepo: habitsRepo,
		clock:      clock,
	}
}

// DueReminders answers the same question the reminder job asks every minute,
// for one user and an arbitrary minute of today.
func (rs *RemindersService) DueReminders(ctx context.Context, uid uuid.UUID, clock string) ([]*entity.Habit, error) {
	today, now := habitcalc.ReminderClock(rs.clock.Now())
	if clock == "" {
		clock = now
	}
	if !habitcalc.ValidClock(clock) {
		return nil, errorvalues.ErrValidation
	}
	habits, err := rs.habitsRepo.ListWithReminder(ctx, uid, clock)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	return habitcalc.DueReminders(habits, clock, today), nil
}
