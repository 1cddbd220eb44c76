package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/limbo/habitgarden/internal/repository"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/habitcalc"
)

type GardenService struct {
	habitsRepo repository.HabitsRepositoryI
	clock      Clock
}

func NewGardenService(habitsRepo repository.HabitsRepositoryI, clock Clock) *GardenService {
	if habitsRepo == nil {
		log.Fatal("on garden service provided nil habitsRepo")
	}
	return &GardenService{
		habitsRepo: habitsRepo,
		clock:      clock,
	}
}

// GetGarden derives the whole garden from the user's habits: one tree per
// habit, the weather and the most consistent habits.
func (gs *GardenService) GetGarden(ctx context.Context, uid uuid.UUID) (*entity.Garden, error) {
	habits, err := gs.habitsRepo.ListByUserID(ctx, uid)
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	today := gs.clock.Today()
	trees := make([]entity.Tree, 0, len(habits))
	for _, h := range habits {
		h.CreatedAt = gs.clock.In(h.CreatedAt)
		growth := habitcalc.GrowthRate(h, today)
		trees = append(trees, entity.Tree{
			HabitID:       h.ID,
			Title:         h.Title,
			Color:         h.Color,
			GrowthRate:    growth,
			Level:         habitcalc.TreeLevel(growth),
			CurrentStreak: habitcalc.CalculateStreaks(h, today).Current,
		})
	}
	avg := habitcalc.AverageRecentRate(habits, today)
	garden := &entity.Garden{
		Weather:        string(habitcalc.GardenWeather(habits, today)),
		AverageRate:    avg,
		DisplayRate:    habitcalc.DisplayPercent(avg),
		Trees:          trees,
		MostConsistent: make([]uuid.UUID, 0),
	}
	for _, h := range habitcalc.MostConsistent(habits, today) {
		garden.MostConsistent = append(garden.MostConsistent, h.ID)
		garden.BestStreak = habitcalc.CalculateStreaks(h, today).Current
	}
	return garden, nil
}
