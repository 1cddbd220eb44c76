package service

import (
	"time"

	"github.com/limbo/habitgarden/pkg/habitcalc"
)

// Clock tells services what "today" is. All dates handed to the engine are
// calendar days in the clock's location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func LocalClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc, now: time.Now}
}

// FixedClock always reports t. Used by tests and replays.
func FixedClock(t time.Time) Clock {
	return Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	if c.loc == nil {
		return c.now()
	}
	return c.now().In(c.loc)
}

func (c Clock) Today() string {
	return habitcalc.TodayIn(c.Now())
}

// In moves t into the clock's location so that its calendar day matches the
// one the user sees.
func (c Clock) In(t time.Time) time.Time {
	if c.loc == nil || t.IsZero() {
		return t
	}
	return t.In(c.loc)
}
