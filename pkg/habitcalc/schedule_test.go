package habitcalc_test

import (
	"fmt"
	"testing"

	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/habitcalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daily() *entity.Habit {
	return &entity.Habit{Title: "habit", FrequencyType: entity.FrequencyDaily}
}

func weekly(days ...int) *entity.Habit {
	return &entity.Habit{Title: "habit", FrequencyType: entity.FrequencyWeekly, DaysOfWeek: days}
}

func interval(start string, n int) *entity.Habit {
	return &entity.Habit{Title: "habit", FrequencyType: entity.FrequencyInterval, StartDate: start, IntervalDays: n}
}

func TestIsDueDaily(t *testing.T) {
	h := daily()
	for _, date := range habitcalc.DateRange("2025-12-25", "2026-01-10") {
		assert.True(t, habitcalc.IsDue(h, date), date)
	}
	assert.True(t, habitcalc.IsDue(h, "2026-12-31"))
}

func TestIsDueWeekly(t *testing.T) {
	// 2026-02-08 is a Sunday
	h := weekly(0, 3)
	expected := map[string]bool{
		"2026-02-08": true,
		"2026-02-11": true,
		"2026-02-15": true,
		"2026-02-18": true,
	}
	for _, date := range habitcalc.DateRange("2026-02-08", "2026-02-21") {
		assert.Equal(t, expected[date], habitcalc.IsDue(h, date), date)
	}
}

func TestIsDueInterval(t *testing.T) {
	h := interval("2025-02-09", 3)
	testCases := []struct {
		date     string
		expected bool
	}{
		{"2025-02-06", false},
		{"2025-02-08", false},
		{"2025-02-09", true},
		{"2025-02-10", false},
		{"2025-02-11", false},
		{"2025-02-12", true},
		{"2025-02-15", true},
		{"2025-03-01", true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, habitcalc.IsDue(h, tc.date), tc.date)
	}
}

func TestIsDueFailsClosed(t *testing.T) {
	testCases := []struct {
		name  string
		habit *entity.Habit
	}{
		{"nil habit", nil},
		{"weekly without days", weekly()},
		{"weekly with out of range days", weekly(7, -1)},
		{"interval without start", interval("", 3)},
		{"interval without days", interval("2026-02-01", 0)},
		{"interval with malformed start", interval("02/01/2026", 2)},
		{"unknown frequency", &entity.Habit{FrequencyType: "monthly"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, habitcalc.IsDue(tc.habit, "2026-02-08"))
			_, ok := habitcalc.PreviousDueDate(tc.habit, "2026-02-08")
			assert.False(t, ok)
		})
	}
	t.Run("malformed date", func(t *testing.T) {
		assert.False(t, habitcalc.IsDue(daily(), "yesterday"))
		_, ok := habitcalc.PreviousDueDate(daily(), "yesterday")
		assert.False(t, ok)
	})
}

func TestPreviousDueDate(t *testing.T) {
	testCases := []struct {
		name     string
		habit    *entity.Habit
		date     string
		expected string
		ok       bool
	}{
		{"daily is the day before", daily(), "2026-02-09", "2026-02-08", true},
		{"daily across a year", daily(), "2026-01-01", "2025-12-31", true},
		{"weekly wraps to the previous week", weekly(0, 3), "2026-02-08", "2026-02-04", true},
		{"weekly inside the week", weekly(0, 3), "2026-02-11", "2026-02-08", true},
		{"weekly from an unscheduled day", weekly(0, 3), "2026-02-13", "2026-02-11", true},
		{"weekly single day steps a whole week", weekly(3), "2026-02-11", "2026-02-04", true},
		{"weekly order of days is irrelevant", weekly(3, 0), "2026-02-08", "2026-02-04", true},
		{"interval from a due date", interval("2026-02-09", 3), "2026-02-12", "2026-02-09", true},
		{"interval from a non-due date", interval("2026-02-09", 3), "2026-02-13", "2026-02-12", true},
		{"interval just after start", interval("2026-02-09", 3), "2026-02-10", "2026-02-09", true},
		{"interval at start has no predecessor", interval("2026-02-09", 3), "2026-02-09", "", false},
		{"interval before start", interval("2026-02-09", 3), "2026-02-01", "", false},
		{"weekly with no days", weekly(), "2026-02-09", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prev, ok := habitcalc.PreviousDueDate(tc.habit, tc.date)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, prev)
		})
	}
}

// assertImmediatePredecessor checks that prev is due, strictly before date,
// and that no due date lies between them.
func assertImmediatePredecessor(t *testing.T, h *entity.Habit, date, prev string) {
	t.Helper()
	diff, ok := habitcalc.DaysBetween(prev, date)
	require.True(t, ok)
	assert.Greater(t, diff, 0, "%s -> %s", date, prev)
	assert.True(t, habitcalc.IsDue(h, prev), "%s -> %s", date, prev)
	for i := 1; i < diff; i++ {
		between := habitcalc.AddDays(prev, i)
		assert.False(t, habitcalc.IsDue(h, between), "due date %s skipped between %s and %s", between, prev, date)
	}
}

func TestPreviousDueDateWeeklyAllSubsets(t *testing.T) {
	dates := habitcalc.DateRange("2026-02-08", "2026-02-21")
	for mask := 0; mask < 1<<7; mask++ {
		days := make([]int, 0, 7)
		for d := 0; d < 7; d++ {
			if mask&(1<<d) != 0 {
				days = append(days, d)
			}
		}
		h := weekly(days...)
		t.Run(fmt.Sprint(days), func(t *testing.T) {
			for _, date := range dates {
				prev, ok := habitcalc.PreviousDueDate(h, date)
				if len(days) == 0 {
					assert.False(t, ok)
					continue
				}
				require.True(t, ok, date)
				assertImmediatePredecessor(t, h, date, prev)
				diff, _ := habitcalc.DaysBetween(prev, date)
				assert.LessOrEqual(t, diff, 7)
			}
		})
	}
}

func TestPreviousDueDateIntervalProperty(t *testing.T) {
	start := "2026-02-09"
	for n := 1; n <= 6; n++ {
		h := interval(start, n)
		t.Run(fmt.Sprintf("every %d days", n), func(t *testing.T) {
			for _, date := range habitcalc.DateRange("2026-02-01", "2026-03-15") {
				prev, ok := habitcalc.PreviousDueDate(h, date)
				if date <= start {
					assert.False(t, ok, date)
					continue
				}
				require.True(t, ok, date)
				assertImmediatePredecessor(t, h, date, prev)
			}
		})
	}
}
