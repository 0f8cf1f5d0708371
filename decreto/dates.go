package decreto

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// Date is a calendar date normalized to UTC midnight. The zero value
// means "no date" (e.g. a decree with missing fechaInicio).
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Empty input yields the zero Date
// without error; malformed input yields the zero Date and an error.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t.UTC()}, nil
}

// MustDate is a test/fixture helper; it panics on malformed input.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }

// Arithmetic and properties
func (d Date) AddDays(n int) Date     { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format("2006-01-02")
}

// Min/Max are used by interval clipping.
func (d Date) Min(other Date) Date {
	if d.Before(other) {
		return d
	}
	return other
}

func (d Date) Max(other Date) Date {
	if d.After(other) {
		return d
	}
	return other
}

// DaysBetween returns the whole-day distance from..to (negative if to < from).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers whether a date is a statutory holiday. Business
// day counts for PA/FL skip holidays in addition to weekends.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// NoHolidays disables holiday awareness (weekends only).
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool { return false }

// FixedHolidays is a set-backed calendar keyed by YYYY-MM-DD.
type FixedHolidays map[string]struct{}

func (f FixedHolidays) IsHoliday(d Date) bool {
	_, ok := f[d.String()]
	return ok
}

// ChileanHolidays returns the national holidays loaded for 2025-2026.
// Source: Biblioteca del Congreso Nacional de Chile.
func ChileanHolidays() FixedHolidays {
	days := []string{
		// 2025
		"2025-01-01", "2025-04-18", "2025-04-19", "2025-05-01",
		"2025-05-21", "2025-06-20", "2025-06-29", "2025-07-16",
		"2025-08-15", "2025-09-18", "2025-09-19", "2025-10-12",
		"2025-10-31", "2025-11-01", "2025-12-08", "2025-12-25",
		// 2026 (estimated)
		"2026-01-01", "2026-04-03", "2026-04-04", "2026-05-01",
		"2026-05-21", "2026-06-21", "2026-06-29", "2026-07-16",
		"2026-08-15", "2026-09-18", "2026-09-19", "2026-10-12",
		"2026-10-31", "2026-11-01", "2026-12-08", "2026-12-25",
	}
	set := make(FixedHolidays, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

// =============================================================================
// DAY COUNTING
// =============================================================================

var half = decimal.NewFromFloat(0.5)

// CountDays returns the days a leave consumes over the closed range
// [from, to] under the given leave type and shift.
//
// Counting rules:
//   - FL and PA count business days: weekends and holidays are skipped.
//   - Sick leave, unpaid and parental permits count every calendar day.
//   - Half-day shifts (JM/JT) count proportionally: half of the above.
func CountDays(from, to Date, lt LeaveType, shift Shift, cal HolidayCalendar) decimal.Decimal {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return decimal.Zero
	}
	if cal == nil {
		cal = NoHolidays{}
	}

	var n int64
	if lt.CountsCalendarDays() {
		n = int64(DaysBetween(from, to)) + 1
	} else {
		for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
			if !d.IsWeekend() && !cal.IsHoliday(d) {
				n++
			}
		}
	}

	count := decimal.NewFromInt(n)
	if shift.IsHalf() {
		count = count.Mul(half)
	}
	return count
}

// BusinessDaysLeft counts remaining weekdays from a date through the end
// of its year. Used by the dashboard's year-close reminder.
func BusinessDaysLeft(from Date, cal HolidayCalendar) int {
	if cal == nil {
		cal = NoHolidays{}
	}
	n := 0
	end := EndOfYear(from.Year())
	for d := from; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if !d.IsWeekend() && !cal.IsHoliday(d) {
			n++
		}
	}
	return n
}
