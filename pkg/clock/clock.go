// Package clock provides wall-clock helpers for local-time windows.
// Quiet hours are expressed as "HH:MM" strings in a user's local timezone and
// may wrap past midnight; the helpers here keep that logic in one place.
package clock

import (
	"fmt"
	"time"
)

// TimeFormat is the wall-clock format used for window bounds (24h).
const TimeFormat = "15:04"

// MinuteOfDay is a time-of-day expressed as minutes since midnight [0, 1440).
type MinuteOfDay int

// ParseHHMM parses an "HH:MM" string into a MinuteOfDay.
func ParseHHMM(s string) (MinuteOfDay, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("parse wall clock %q: %w", s, err)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

// AtMinute returns the minute-of-day for t in its own location.
func AtMinute(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

// Window is a half-open [Start, End) wall-clock window. When End <= Start the
// window wraps past midnight (22:00–07:00 covers late evening and early morning).
type Window struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

// ParseWindow builds a Window from two "HH:MM" bounds.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseHHMM(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseHHMM(end)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e}, nil
}

// Contains reports whether the wall-clock time of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	m := AtMinute(t)
	if w.Start == w.End {
		// Degenerate window covers nothing.
		return false
	}
	if w.Start < w.End {
		return m >= w.Start && m < w.End
	}
	// Wraps midnight.
	return m >= w.Start || m < w.End
}

// InLocation converts t to the named IANA timezone, falling back to UTC when
// the name is empty or unknown.
func InLocation(t time.Time, tz string) time.Time {
	if tz == "" {
		return t.UTC()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}
