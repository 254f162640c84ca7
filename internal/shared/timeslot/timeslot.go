// Package timeslot handles the wall-clock representation of reservations:
// a calendar date plus a half-open [start, end) range of minutes since
// midnight in the reservation timezone.
package timeslot

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	MinutesPerDay = 24 * 60
)

// ParseClock parses "HH:MM" into minutes since midnight. "24:00" is
// accepted as the end of the day. Input is not trimmed.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders minutes since midnight as "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" string. Anything that does not
// round-trip to the same text is rejected, so a stored date is always canonical.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil || d.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseMonth parses a "YYYY-MM" string
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	m, err := time.ParseInLocation(MonthLayout, s, loc)
	if err != nil || m.Format(MonthLayout) != s {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return m, nil
}

// Interval is a half-open [Start, End) minute range within one day
type Interval struct {
	Start int
	End   int
}

// NewInterval parses start and end clocks and requires start < end
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps reports whether two half-open ranges intersect. Touching ranges
// such as 09:00-10:00 and 10:00-11:00 do not.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

func (i Interval) Minutes() int {
	return i.End - i.Start
}

// At returns the instant of minute-of-day m on date in loc
func At(date string, minutes int, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(minutes) * time.Minute), nil
}

// Today returns now's calendar date in loc
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// MinuteOfDay returns now's minutes since midnight in loc
func MinuteOfDay(now time.Time, loc *time.Location) int {
	t := now.In(loc)
	return t.Hour()*60 + t.Minute()
}

// ElapsedMinutes returns whole minutes between from and to, never negative
func ElapsedMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
