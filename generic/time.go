package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// TIME OF DAY - Wall-clock time without a date
// =============================================================================

// TimeOfDay is a wall-clock time stored as minutes after midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

// NewTimeOfDay builds a TimeOfDay from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock). "24:00" is rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("time of day %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time of day %q: invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("time of day %q: invalid minute", s)
	}
	return NewTimeOfDay(h, m), nil
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On returns the instant at this time of day on the calendar date of day,
// in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

// OnOrAfter returns the first occurrence of this time of day at or after from.
func (t TimeOfDay) OnOrAfter(from time.Time) time.Time {
	c := t.On(from)
	if c.Before(from) {
		c = c.AddDate(0, 0, 1)
	}
	return c
}

// After returns the first occurrence of this time of day strictly after from.
func (t TimeOfDay) After(from time.Time) time.Time {
	c := t.On(from)
	if !c.After(from) {
		c = c.AddDate(0, 0, 1)
	}
	return c
}

// secondOfDay is the position of ts inside its own day, in ts's location.
func secondOfDay(ts time.Time) int {
	return ts.Hour()*3600 + ts.Minute()*60 + ts.Second()
}

// =============================================================================
// WINDOW - A daily time-of-day range that may wrap past midnight
// =============================================================================

// Boundary selects whether a window's end instant belongs to the window.
type Boundary string

const (
	// BoundaryHalfOpen is [start, end): the end instant is outside.
	BoundaryHalfOpen Boundary = "half_open"
	// BoundaryClosed is [start, end]: the end instant is inside.
	BoundaryClosed Boundary = "closed"
)

// ParseBoundary maps a configuration string onto a Boundary.
// An empty string selects BoundaryHalfOpen.
func ParseBoundary(s string) (Boundary, error) {
	switch Boundary(s) {
	case "", BoundaryHalfOpen:
		return BoundaryHalfOpen, nil
	case BoundaryClosed:
		return BoundaryClosed, nil
	default:
		return "", fmt.Errorf("unknown window boundary %q", s)
	}
}

// Window is a daily wall-clock range. When Start > End it wraps midnight,
// e.g. 22:00-06:00.
type Window struct {
	Start    TimeOfDay
	End      TimeOfDay
	Boundary Boundary
}

// NewWindow parses a window from "HH:MM" strings. Start and End must differ.
func NewWindow(start, end string, boundary Boundary) (Window, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Window{}, err
	}
	if s == e {
		return Window{}, fmt.Errorf("window %s-%s is empty", start, end)
	}
	return Window{Start: s, End: e, Boundary: boundary}, nil
}

// Wraps reports whether the window crosses midnight.
func (w Window) Wraps() bool { return w.Start > w.End }

// Contains reports whether the wall-clock time of ts falls in the window.
// The start instant is always inside; the end instant only for BoundaryClosed.
func (w Window) Contains(ts time.Time) bool {
	x := secondOfDay(ts)
	s, e := int(w.Start)*60, int(w.End)*60
	closed := w.Boundary == BoundaryClosed

	beforeEnd := x < e || (closed && x == e)
	if !w.Wraps() {
		return x >= s && beforeEnd
	}
	return x >= s || beforeEnd
}

// Length returns the window's daily length.
func (w Window) Length() time.Duration {
	m := (int(w.End) - int(w.Start) + minutesPerDay) % minutesPerDay
	return time.Duration(m) * time.Minute
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
