// Package habitcalc holds the scheduling engine shared by the API and the
// reminder job: due dates, streaks, completion rates, growth and reminders.
//
// Dates travel as "YYYY-MM-DD" strings. A date string always names a
// calendar day, never an instant, so arithmetic is done on calendar days and
// is unaffected by time zones or DST transitions.
package habitcalc

import (
	"time"
)

const (
	// DateLayout is the wire form of a calendar day, "YYYY-MM-DD".
	DateLayout = "2006-01-02"
	// ClockLayout is the zero-padded 24h minute used by reminders, "HH:MM".
	ClockLayout = "15:04"

	secondsPerDay = 24 * 60 * 60
)

// FormatDate renders the calendar day of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate returns local midnight of the given calendar day. It is the
// local-time counterpart of civil, for callers outside the engine.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, time.Local)
}

// Today is the current local calendar day.
func Today() string {
	return TodayIn(time.Now())
}

// TodayIn is the calendar day of now in now's location.
func TodayIn(now time.Time) string {
	return FormatDate(now)
}

// civil parses a date onto a UTC midnight. UTC has no DST, so every day is
// exactly 24h long and day differences are exact.
func civil(date string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

// DaysBetween returns to - from in whole days.
func DaysBetween(from, to string) (int, bool) {
	f, ok := civil(from)
	if !ok {
		return 0, false
	}
	t, ok := civil(to)
	if !ok {
		return 0, false
	}
	return daysBetween(f, t), true
}

// AddDays shifts date by n calendar days. Malformed input yields "".
func AddDays(date string, n int) string {
	t, ok := civil(date)
	if !ok {
		return ""
	}
	return FormatDate(t.AddDate(0, 0, n))
}

// DateRange lists every day from start to end inclusive, ascending. It is
// empty when start is after end or either bound is malformed.
func DateRange(start, end string) []string {
	s, ok := civil(start)
	if !ok {
		return []string{}
	}
	e, ok := civil(end)
	if !ok || s.After(e) {
		return []string{}
	}
	dates := make([]string, 0, daysBetween(s, e)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// WeekRange returns the Monday..Sunday week containing date.
func WeekRange(date string) (start, end string) {
	t, ok := civil(date)
	if !ok {
		return "", ""
	}
	toMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -toMonday)
	return FormatDate(monday), FormatDate(monday.AddDate(0, 0, 6))
}

func PreviousWeekRange(date string) (start, end string) {
	return WeekRange(AddDays(date, -7))
}

// MonthRange returns the first and last day of date's month.
func MonthRange(date string) (start, end string) {
	t, ok := civil(date)
	if !ok {
		return "", ""
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return FormatDate(first), FormatDate(last)
}

func FirstOfMonth(date string) string {
	start, _ := MonthRange(date)
	return start
}
