package domain

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// NormalizeDate truncates a timestamp to a calendar date at UTC midnight.
// All date comparisons in the engine are date-only.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return NormalizeDate(t), nil
}

// DateRange is an inclusive range of calendar dates. Both Start and End are
// part of the range, so a one-day rental has Start == End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a normalized range, rejecting Start after End.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	if start.After(end) {
		return DateRange{}, fmt.Errorf("start date %s is after end date %s",
			start.Format(DateFormat), end.Format(DateFormat))
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether two inclusive ranges share at least one day.
// A reservation ending on day D and another starting on day D conflict:
// there is no same-day turnover.
func (r DateRange) Overlaps(other DateRange) bool {
	return !(r.End.Before(other.Start) || r.Start.After(other.End))
}

// Days returns the number of calendar days in the range, counting both ends.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether the given date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	date = NormalizeDate(date)
	return !date.Before(r.Start) && !date.After(r.End)
}

// Clip intersects the range with a window. The second return value is false
// when the two do not overlap at all.
func (r DateRange) Clip(window DateRange) (DateRange, bool) {
	if !r.Overlaps(window) {
		return DateRange{}, false
	}
	clipped := r
	if clipped.Start.Before(window.Start) {
		clipped.Start = window.Start
	}
	if clipped.End.After(window.End) {
		clipped.End = window.End
	}
	return clipped, true
}

// Dates enumerates every date in the range in ascending order.
func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start.Format(DateFormat), r.End.Format(DateFormat))
}
