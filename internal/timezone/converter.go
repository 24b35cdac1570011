package timezone

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Date is a calendar date with no zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("timezone: parse date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("timezone: parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday is a pure calendar computation: 0 = Sunday ... 6 = Saturday.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// MonthStart returns the first day of the month n months away from d's month.
func (d Date) MonthStart(n int) Date {
	t := time.Date(d.Year, d.Month+time.Month(n), 1, 12, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: 1}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) Before(o Clock) bool {
	return c.Minutes() < o.Minutes()
}

// maxCorrections bounds the fixed-point search. Two passes settle every real
// zone; the extra pass only matters for wall times that do not exist.
const maxCorrections = 3

// ToInstant converts a wall-clock moment in zone to an absolute instant. The offset
// applied is the one in force at that local moment, not the one in force now.
func ToInstant(d Date, c Clock, zone string) (time.Time, error) {
	loc, err := Load(zone)
	if err != nil {
		return time.Time{}, err
	}
	return ToInstantIn(d, c, loc), nil
}

// ToInstantIn starts from the literal fields read as UTC, renders the guess back into
// loc and subtracts the wall-clock difference until the rendering matches. A wall time
// inside a DST gap never matches; the search then alternates between the instants just
// before and after the jump, and the later one is returned so gaps always shift forward.
func ToInstantIn(d Date, c Clock, loc *time.Location) time.Time {
	want := time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, time.UTC)
	guess, prev := want, want

	for i := 0; i < maxCorrections; i++ {
		delta := renderedAsUTC(guess, loc).Sub(want)
		if delta == 0 {
			return guess
		}
		prev, guess = guess, guess.Add(-delta)
	}

	if renderedAsUTC(guess, loc).Equal(want) {
		return guess
	}
	if prev.After(guess) {
		return prev
	}
	return guess
}

func renderedAsUTC(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
}

// ToLocal renders an instant as wall-clock fields in zone.
func ToLocal(t time.Time, zone string) (Date, Clock, error) {
	loc, err := Load(zone)
	if err != nil {
		return Date{}, Clock{}, err
	}
	d, c := ToLocalIn(t, loc)
	return d, c, nil
}

func ToLocalIn(t time.Time, loc *time.Location) (Date, Clock) {
	local := t.In(loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()},
		Clock{Hour: local.Hour(), Minute: local.Minute()}
}
