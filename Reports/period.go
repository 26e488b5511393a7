package Reports

import (
	"errors"
	"fmt"
	"time"

	"Fleetbook/Models"
)

// ErrInvalidPeriod marks a malformed period selector.
var ErrInvalidPeriod = errors.New("invalid period")

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

func ParseRange(start, end string) (Period, error) {
	s, err := parseDay(start)
	if err != nil {
		return Period{}, err
	}
	e, err := parseDay(end)
	if err != nil {
		return Period{}, err
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidPeriod, start, end)
	}
	return Period{Start: s, End: e}, nil
}

// ParseYearMonth returns the calendar month named by a YYYY-MM key.
func ParseYearMonth(ym string) (Period, error) {
	first, err := time.Parse(Models.YearMonthLayout, ym)
	if err != nil {
		return Period{}, fmt.Errorf("%w: year-month %q, use YYYY-MM", ErrInvalidPeriod, ym)
	}
	return Period{Start: first, End: first.AddDate(0, 1, -1)}, nil
}

func Day(date string) (Period, error) {
	d, err := parseDay(date)
	if err != nil {
		return Period{}, err
	}
	return Period{Start: d, End: d}, nil
}

// WeekOf returns the Monday to Sunday week containing date.
func WeekOf(date string) (Period, error) {
	d, err := parseDay(date)
	if err != nil {
		return Period{}, err
	}
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return Period{Start: monday, End: monday.AddDate(0, 0, 6)}, nil
}

func parseDay(s string) (time.Time, error) {
	d, err := time.Parse(Models.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, use YYYY-MM-DD", ErrInvalidPeriod, s)
	}
	return d, nil
}

func (p Period) StartDate() string {
	return p.Start.Format(Models.DateLayout)
}

func (p Period) EndDate() string {
	return p.End.Format(Models.DateLayout)
}

func (p Period) String() string {
	return p.StartDate() + ".." + p.EndDate()
}

// Days is the number of calendar days in the period, both ends included.
func (p Period) Days() int {
	return daysBetween(p.Start, p.End) + 1
}

// dayNumber counts days since the Unix epoch. Durations overflow after
// about 292 years, day numbers do not.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	secs := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	days := secs / 86400
	if secs%86400 < 0 {
		days--
	}
	return days
}

func daysBetween(from, to time.Time) int {
	return int(dayNumber(to) - dayNumber(from))
}

func (p Period) Contains(date string) bool {
	return date >= p.StartDate() && date <= p.EndDate()
}

// Dates lists every day of the period as YYYY-MM-DD.
func (p Period) Dates() []string {
	dates := make([]string, 0, p.Days())
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(Models.DateLayout))
	}
	return dates
}

// YearMonths lists the YYYY-MM months the period touches, in order.
func (p Period) YearMonths() []string {
	var months []string
	first := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := first; !m.After(p.End); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format(Models.YearMonthLayout))
	}
	return months
}
