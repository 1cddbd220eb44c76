package habitcalc

import (
	"github.com/limbo/habitgarden/pkg/entity"
)

const (
	completionWeight = 0.8
	streakBonusMax   = 20.0
	streakBonusCap   = 30
	recentWindowDays = 7
)

type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherStormy Weather = "stormy"
)

// GrowthRate blends the all-time completion rate (80%) with a current-streak
// bonus capped at 30 days (20%). The result is clamped to [0, 100].
func GrowthRate(h *entity.Habit, today string) float64 {
	if h == nil {
		return 0
	}
	start := today
	if !h.CreatedAt.IsZero() {
		start = FormatDate(h.CreatedAt)
	}
	rate := CompletionRate(h, start, today)
	streak := min(CalculateStreaks(h, today).Current, streakBonusCap)
	growth := rate*completionWeight + float64(streak)/streakBonusCap*streakBonusMax
	return min(100, max(0, growth))
}

func TreeLevel(growthRate float64) int {
	switch {
	case growthRate >= 90:
		return 5
	case growthRate >= 70:
		return 4
	case growthRate >= 50:
		return 3
	case growthRate >= 25:
		return 2
	default:
		return 1
	}
}

// AverageRecentRate averages every habit's completion rate over the seven
// days ending today.
func AverageRecentRate(habits []*entity.Habit, today string) float64 {
	if len(habits) == 0 {
		return 0
	}
	start := AddDays(today, -(recentWindowDays - 1))
	total := 0.0
	for _, h := range habits {
		total += CompletionRate(h, start, today)
	}
	return total / float64(len(habits))
}

// GardenWeather maps the recent average completion rate onto a weather.
// A garden without habits is cloudy.
func GardenWeather(habits []*entity.Habit, today string) Weather {
	if len(habits) == 0 {
		return WeatherCloudy
	}
	avg := AverageRecentRate(habits, today)
	switch {
	case avg >= 75:
		return WeatherSunny
	case avg >= 50:
		return WeatherCloudy
	case avg >= 25:
		return WeatherRainy
	default:
		return WeatherStormy
	}
}

// MostConsistent returns every habit sharing the highest positive current
// streak, in input order.
func MostConsistent(habits []*entity.Habit, today string) []*entity.Habit {
	best := 0
	streaks := make([]int, len(habits))
	for i, h := range habits {
		streaks[i] = CalculateStreaks(h, today).Current
		best = max(best, streaks[i])
	}
	result := make([]*entity.Habit, 0)
	if best == 0 {
		return result
	}
	for i, h := range habits {
		if streaks[i] == best {
			result = append(result, h)
		}
	}
	return result
}
