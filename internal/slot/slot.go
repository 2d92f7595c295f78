// Package slot turns shop operating hours into bookable start times and answers
// occupancy questions over half-open minute intervals.
package slot

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"barbershop-booking/pkg/apperror"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time truncated to the minute, stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS". Seconds are dropped.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)

	layout := "15:04"
	if strings.Count(value, ":") == 2 {
		layout = "15:04:05"
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", value, err)
	}

	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// At builds a TimeOfDay from an hour and minute.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// FromTime takes the wall-clock part of t.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

func (t TimeOfDay) Minutes() int {
	return int(t)
}

// String formats as HH:MM. Values past midnight wrap.
func (t TimeOfDay) String() string {
	m := int(t) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// On places t on the calendar day of date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc).Add(time.Duration(t) * time.Minute)
}

type Hours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// ParseHours reads a shop's opening and closing times. Malformed values are a
// configuration fault of the shop, not an empty day.
func ParseHours(open, close string) (Hours, error) {
	o, err := ParseTimeOfDay(open)
	if err != nil {
		return Hours{}, apperror.InvalidConfiguration("malformed opening time", err)
	}
	c, err := ParseTimeOfDay(close)
	if err != nil {
		return Hours{}, apperror.InvalidConfiguration("malformed closing time", err)
	}
	return Hours{Open: o, Close: c}, nil
}

func (h Hours) Slots(step int) iter.Seq[TimeOfDay] {
	return Generate(h.Open, h.Close, step)
}

// Generate yields open, open+step, ... while the value is before close.
// Ranging over the result again starts over from open.
func Generate(open, close TimeOfDay, step int) iter.Seq[TimeOfDay] {
	return func(yield func(TimeOfDay) bool) {
		if step <= 0 {
			return
		}
		for t := open; t < close; t = t.Add(step) {
			if !yield(t) {
				return
			}
		}
	}
}

// Interval is the half-open span [Start, End) a booking occupies.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

func NewInterval(start TimeOfDay, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(durationMinutes)}
}

func (i Interval) Contains(t TimeOfDay) bool {
	return i.Start <= t && t < i.End
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Occupied reports whether any interval contains t.
func Occupied(t TimeOfDay, busy []Interval) bool {
	for _, b := range busy {
		if b.Contains(t) {
			return true
		}
	}
	return false
}
