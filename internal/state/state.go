// Package state keeps the derived fields of habits in line with their
// completed dates and merges habits created before signing in.
package state

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/pkg/entity"
	"github.com/limbo/habitgarden/pkg/habitcalc"
)

var ErrNotLoggedIn = errors.New("session is not logged in")

type Session struct {
	LoggedIn bool
	UserID   uuid.UUID
}

// State is the set of habits a client works with. Remote habits are stored
// server side, LocalOnly ones were created by a guest and have no owner yet.
type State struct {
	Remote    []*entity.Habit
	LocalOnly []*entity.Habit
}

// Recompute refreshes Completed, CurrentStreak and LongestStreak from
// CompletedDates. Reports whether any of them changed.
func Recompute(h *entity.Habit, today string) bool {
	streaks := habitcalc.CalculateStreaks(h, today)
	completed := slices.Contains(h.CompletedDates, today)
	changed := h.Completed != completed ||
		h.CurrentStreak != streaks.Current ||
		h.LongestStreak != streaks.Longest
	h.Completed = completed
	h.CurrentStreak = streaks.Current
	h.LongestStreak = streaks.Longest
	return changed
}

// Resync recomputes every habit and returns the ones whose cache was stale.
func Resync(habits []*entity.Habit, today string) []*entity.Habit {
	stale := make([]*entity.Habit, 0)
	for _, h := range habits {
		if h == nil {
			continue
		}
		if Recompute(h, today) {
			stale = append(stale, h)
		}
	}
	return stale
}

// Normalize returns the valid dates of in, sorted and without duplicates.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		if habitcalc.ValidDate(d) {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// AddDate marks date as completed. Only due dates can be completed.
func AddDate(h *entity.Habit, date string) error {
	if !habitcalc.ValidDate(date) {
		return errorvalues.ErrInvalidDate
	}
	h.CompletedDates = Normalize(h.CompletedDates)
	i, found := slices.BinarySearch(h.CompletedDates, date)
	if found {
		return errorvalues.ErrCheckExist
	}
	if !habitcalc.IsDue(h, date) {
		return errorvalues.ErrNotDueDate
	}
	h.CompletedDates = slices.Insert(h.CompletedDates, i, date)
	return nil
}

// RemoveDate unmarks date. Removing is allowed on any day so that
// completions left over from a schedule change can be cleaned up.
func RemoveDate(h *entity.Habit, date string) error {
	if !habitcalc.ValidDate(date) {
		return errorvalues.ErrInvalidDate
	}
	h.CompletedDates = Normalize(h.CompletedDates)
	i, found := slices.BinarySearch(h.CompletedDates, date)
	if !found {
		return errorvalues.ErrCheckNotFound
	}
	h.CompletedDates = slices.Delete(h.CompletedDates, i, i+1)
	return nil
}

// ToggleDate flips completion of date and reports whether the date is
// completed afterwards.
func ToggleDate(h *entity.Habit, date string) (bool, error) {
	if slices.Contains(h.CompletedDates, date) {
		return false, RemoveDate(h, date)
	}
	if err := AddDate(h, date); err != nil {
		return false, err
	}
	return true, nil
}

// MergeLocal moves guest habits into Remote under the session's user.
// A local habit whose title is already taken remotely is dropped. The merged
// habits are returned without ids so the caller can persist them.
func (s *State) MergeLocal(sess Session) ([]*entity.Habit, error) {
	if !sess.LoggedIn || sess.UserID == uuid.Nil {
		return nil, ErrNotLoggedIn
	}
	taken := make(map[string]struct{}, len(s.Remote)+len(s.LocalOnly))
	for _, h := range s.Remote {
		taken[h.Title] = struct{}{}
	}
	merged := make([]*entity.Habit, 0, len(s.LocalOnly))
	for _, local := range s.LocalOnly {
		if local == nil {
			continue
		}
		if _, ok := taken[local.Title]; ok {
			continue
		}
		taken[local.Title] = struct{}{}
		h := *local
		h.ID = uuid.Nil
		h.UserID = sess.UserID
		h.CompletedDates = Normalize(local.CompletedDates)
		h.DaysOfWeek = slices.Clone(local.DaysOfWeek)
		if local.Notification != nil {
			n := *local.Notification
			h.Notification = &n
		}
		merged = append(merged, &h)
	}
	s.Remote = append(s.Remote, merged...)
	s.LocalOnly = nil
	return merged, nil
}
