package habitcalc

import (
	"math"

	"github.com/limbo/habitgarden/pkg/entity"
)

// CompletionRate is the percentage of due days in [start, end] that were
// completed, rounded to one decimal. Ranges without due days and habits
// without completions yield 0.
func CompletionRate(h *entity.Habit, start, end string) float64 {
	if h == nil || len(h.CompletedDates) == 0 {
		return 0
	}
	done := completionSet(h)
	target, completed := 0, 0
	for _, date := range DateRange(start, end) {
		if !IsDue(h, date) {
			continue
		}
		target++
		if _, ok := done[date]; ok {
			completed++
		}
	}
	if target == 0 {
		return 0
	}
	return roundTenth(float64(completed) / float64(target) * 100)
}

// DisplayPercent rounds an engine rate to a whole percentage for display.
func DisplayPercent(rate float64) int {
	return int(math.Round(rate))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// CompletionStatusForPeriod materializes one entry per day for calendar
// grids. Completed reflects membership only, regardless of the schedule.
func CompletionStatusForPeriod(h *entity.Habit, start, end string) []entity.CompletionStatus {
	dates := DateRange(start, end)
	statuses := make([]entity.CompletionStatus, 0, len(dates))
	done := map[string]struct{}{}
	if h != nil {
		done = completionSet(h)
	}
	for _, date := range dates {
		_, completed := done[date]
		statuses = append(statuses, entity.CompletionStatus{
			Date:      date,
			Completed: completed,
			IsDue:     IsDue(h, date),
		})
	}
	return statuses
}

// MonthlyTrend returns, for each day from the 1st of today's month through
// today, the cumulative completion rate since the 1st.
func MonthlyTrend(h *entity.Habit, today string) []entity.TrendPoint {
	first := FirstOfMonth(today)
	dates := DateRange(first, today)
	trend := make([]entity.TrendPoint, 0, len(dates))
	for _, date := range dates {
		trend = append(trend, entity.TrendPoint{
			Date:           date,
			CompletionRate: CompletionRate(h, first, date),
		})
	}
	return trend
}

type WeekComparison struct {
	ThisWeek float64 `json:"this_week"`
	LastWeek float64 `json:"last_week"`
	Diff     float64 `json:"diff"`
}

// WeeklyComparison compares the Monday-based week containing today with the
// week before it.
func WeeklyComparison(h *entity.Habit, today string) WeekComparison {
	thisStart, thisEnd := WeekRange(today)
	lastStart, lastEnd := PreviousWeekRange(today)
	this := CompletionRate(h, thisStart, thisEnd)
	last := CompletionRate(h, lastStart, lastEnd)
	return WeekComparison{
		ThisWeek: this,
		LastWeek: last,
		Diff:     roundTenth(this - last),
	}
}
