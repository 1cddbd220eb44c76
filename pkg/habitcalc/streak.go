package habitcalc

import (
	"sort"

	"github.com/limbo/habitgarden/pkg/entity"
)

type Streaks struct {
	Longest int `json:"longest_streak"`
	Current int `json:"current_streak"`
}

// CalculateStreaks derives both streaks from the completion dates as of
// today. The longest streak walks every distinct completion in order; a
// completion extends the run when the one before it is its previous due
// date. An off-schedule completion therefore starts a run of its own and
// can be extended by the next due date. The current streak only follows due
// dates.
//
// The current streak survives an open due date: if today is due but not yet
// done, the run ending at the previous due date still counts.
func CalculateStreaks(h *entity.Habit, today string) Streaks {
	if h == nil {
		return Streaks{}
	}
	done := completionSet(h)
	return Streaks{
		Longest: longestStreak(h, done),
		Current: currentStreak(h, done, today),
	}
}

func completionSet(h *entity.Habit) map[string]struct{} {
	set := make(map[string]struct{}, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		set[d] = struct{}{}
	}
	return set
}

func longestStreak(h *entity.Habit, done map[string]struct{}) int {
	dates := make([]string, 0, len(done))
	for d := range done {
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0
	}
	// YYYY-MM-DD sorts chronologically
	sort.Strings(dates)
	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		prev, ok := PreviousDueDate(h, dates[i])
		if ok && prev == dates[i-1] {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

func currentStreak(h *entity.Habit, done map[string]struct{}, today string) int {
	from := today
	if _, ok := done[today]; !ok || !IsDue(h, today) {
		prev, ok := PreviousDueDate(h, today)
		if !ok {
			return 0
		}
		if _, ok := done[prev]; !ok {
			return 0
		}
		from = prev
	}
	return walkBack(h, done, from)
}

// walkBack counts from (already known to be completed) plus every
// completed predecessor without a gap.
func walkBack(h *entity.Habit, done map[string]struct{}, from string) int {
	streak := 1
	for date := from; ; streak++ {
		prev, ok := PreviousDueDate(h, date)
		if !ok {
			return streak
		}
		if _, ok := done[prev]; !ok {
			return streak
		}
		date = prev
	}
}
