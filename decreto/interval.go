/*
interval.go - Closed day intervals occupied by decrees and requests

PURPOSE:
  Every decree occupies a closed calendar range [Start, End]. Conflict
  detection and year-window clipping both operate on these intervals.

KEY CONCEPTS:
  - PA decrees derive their end from cantidadDias: a 0.5-day permit
    still occupies one whole calendar day.
  - FL decrees carry an explicit fechaTermino; when it is missing or
    precedes the start, the range falls back to the cantidadDias
    derivation so the decree still occupies its days.
  - Overlap is inclusive at both endpoints: sharing a single day is a
    conflict.

SEE ALSO:
  - conflict.go: Scans ledgers for overlapping intervals
  - usage.go: Clips intervals to year windows
*/
package decreto

// Interval is a closed calendar range. End is always >= Start for a
// valid interval; Valid() reports whether that holds.
type Interval struct {
	Start Date
	End   Date
}

func (iv Interval) Valid() bool {
	return !iv.Start.IsZero() && !iv.End.IsZero() && !iv.End.Before(iv.Start)
}

// Overlaps reports whether two closed intervals share at least one day.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.BeforeOrEqual(other.End) && iv.End.AfterOrEqual(other.Start)
}

// Contains reports whether d falls inside the closed interval.
func (iv Interval) Contains(d Date) bool {
	return iv.Start.BeforeOrEqual(d) && iv.End.AfterOrEqual(d)
}

// Clip intersects the interval with a window. The second return is
// false when they don't intersect at all.
func (iv Interval) Clip(window Interval) (Interval, bool) {
	if !iv.Overlaps(window) {
		return Interval{}, false
	}
	return Interval{
		Start: iv.Start.Max(window.Start),
		End:   iv.End.Min(window.End),
	}, true
}

// Days returns the number of calendar days the interval spans (inclusive).
func (iv Interval) Days() int {
	if !iv.Valid() {
		return 0
	}
	return DaysBetween(iv.Start, iv.End) + 1
}

// Interval returns the calendar range the decree occupies.
//
// FL ranges run fechaInicio..fechaTermino when the end date is usable.
// Everything else - PA decrees, FL decrees missing their end date or
// carrying one before the start - derives the end from cantidadDias
// rounded up to whole days, with a floor of one day so a half-day
// permit still blocks its date. A decree with no start date returns an
// invalid (zero) interval.
func (d *Decree) Interval() Interval {
	if d.FechaInicio.IsZero() {
		return Interval{}
	}
	if d.Kind == KindFL && d.FL != nil &&
		!d.FL.FechaTermino.IsZero() && !d.FL.FechaTermino.Before(d.FechaInicio) {
		return Interval{Start: d.FechaInicio, End: d.FL.FechaTermino}
	}
	days := int(d.CantidadDias.Ceil().IntPart())
	if days < 1 {
		days = 1
	}
	return Interval{Start: d.FechaInicio, End: d.FechaInicio.AddDays(days - 1)}
}

// Interval returns the calendar range a leave request occupies. Requests
// with no end date occupy their start date only.
func (r *LeaveRequest) Interval() Interval {
	if r.StartDate.IsZero() {
		return Interval{}
	}
	end := r.EndDate
	if end.IsZero() {
		end = r.StartDate
	}
	return Interval{Start: r.StartDate, End: end}
}
