package scheduling

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var timeOfDayPattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// TimeOfDay is a wall-clock time with second resolution, stored as seconds
// since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM:SS" and "HH:MM". Fractional seconds and
// single-digit fields are rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingTime
	}
	if !timeOfDayPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}

	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	parsed, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return ClockOf(parsed), nil
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ClockOf returns the time of day of t in t's own location.
func ClockOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

// HourMinute formats as "HH:MM".
func (t TimeOfDay) HourMinute() string {
	return fmt.Sprintf("%02d:%02d", int(t)/3600, int(t)%3600/60)
}

// Sub returns t - other in whole minutes.
func (t TimeOfDay) Sub(other TimeOfDay) int {
	return (int(t) - int(other)) / 60
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// ClockRange is a half-open [Start, End) range of wall-clock time.
type ClockRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

func ParseClockRange(start, end string) (ClockRange, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return ClockRange{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return ClockRange{}, err
	}
	return ClockRange{Start: s, End: e}, nil
}

func (r ClockRange) Valid() bool {
	return r.Start < r.End
}

func (r ClockRange) Overlaps(other ClockRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// Contains reports whether other lies entirely within r.
func (r ClockRange) Contains(other ClockRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r ClockRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
