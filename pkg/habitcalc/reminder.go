package habitcalc

import (
	"time"

	"github.com/limbo/habitgarden/pkg/entity"
)

// ShouldRemind is the single reminder predicate used by both the API and
// the scheduled job: notifications enabled, reminder time equal to
// currentTime ("HH:MM") and the habit due today.
func ShouldRemind(h *entity.Habit, currentTime, today string) bool {
	if h == nil || h.Notification == nil || !h.Notification.Enabled {
		return false
	}
	if h.Notification.ReminderTime != currentTime {
		return false
	}
	return IsDue(h, today)
}

// DueReminders filters habits with ShouldRemind, keeping input order.
func DueReminders(habits []*entity.Habit, currentTime, today string) []*entity.Habit {
	matched := make([]*entity.Habit, 0)
	for _, h := range habits {
		if ShouldRemind(h, currentTime, today) {
			matched = append(matched, h)
		}
	}
	return matched
}

// ReminderClock splits a wall-clock instant into its calendar day and
// minute, both in now's location.
func ReminderClock(now time.Time) (today, currentTime string) {
	return FormatDate(now), now.Format(ClockLayout)
}

// ValidClock reports whether s is a zero-padded 24h "HH:MM".
func ValidClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// ValidDate reports whether s is a canonical "YYYY-MM-DD".
func ValidDate(s string) bool {
	t, ok := civil(s)
	return ok && FormatDate(t) == s
}
