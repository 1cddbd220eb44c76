package habitcalc

import (
	"time"

	"github.com/limbo/habitgarden/pkg/entity"
)

const daysInWeek = 7

// IsDue reports whether the habit's schedule requires action on date.
// Malformed schedules and dates are never due.
func IsDue(h *entity.Habit, date string) bool {
	if h == nil {
		return false
	}
	day, ok := civil(date)
	if !ok {
		return false
	}
	switch h.FrequencyType {
	case entity.FrequencyDaily:
		return true
	case entity.FrequencyWeekly:
		return weekdaySet(h.DaysOfWeek)[day.Weekday()]
	case entity.FrequencyInterval:
		start, ok := intervalStart(h)
		if !ok {
			return false
		}
		diff := daysBetween(start, day)
		return diff >= 0 && diff%h.IntervalDays == 0
	default:
		return false
	}
}

// PreviousDueDate returns the latest due date strictly before date. The
// second result is false when no predecessor can be computed: empty weekly
// selection, interval day 0 or earlier, or a malformed schedule.
func PreviousDueDate(h *entity.Habit, date string) (string, bool) {
	if h == nil {
		return "", false
	}
	day, ok := civil(date)
	if !ok {
		return "", false
	}
	switch h.FrequencyType {
	case entity.FrequencyDaily:
		return FormatDate(day.AddDate(0, 0, -1)), true
	case entity.FrequencyWeekly:
		selected := weekdaySet(h.DaysOfWeek)
		current := int(day.Weekday())
		for back := 1; back <= daysInWeek; back++ {
			if selected[(current-back+daysInWeek)%daysInWeek] {
				return FormatDate(day.AddDate(0, 0, -back)), true
			}
		}
		return "", false
	case entity.FrequencyInterval:
		start, ok := intervalStart(h)
		if !ok {
			return "", false
		}
		diff := daysBetween(start, day)
		if diff <= 0 {
			return "", false
		}
		// A due date steps back a whole interval; a date between two due
		// dates falls back to the one at the start of its interval.
		q := diff / h.IntervalDays
		offset := q * h.IntervalDays
		if diff%h.IntervalDays == 0 {
			offset = (q - 1) * h.IntervalDays
		}
		return FormatDate(start.AddDate(0, 0, offset)), true
	default:
		return "", false
	}
}

func weekdaySet(days []int) [daysInWeek]bool {
	var set [daysInWeek]bool
	for _, d := range days {
		if d >= 0 && d < daysInWeek {
			set[d] = true
		}
	}
	return set
}

func intervalStart(h *entity.Habit) (time.Time, bool) {
	if h.StartDate == "" || h.IntervalDays < 1 {
		return time.Time{}, false
	}
	return civil(h.StartDate)
}
