/*
usage.go - Yearly usage reconciliation

PURPOSE:
  Recompute every employee's consumed-days counters for one reference
  year from the decree ledger and the approved leave requests. Totals
  (entitlement caps) are never touched; only consumption is rewritten.

KEY CONCEPTS:
  - Year clipping: a leave spanning a year boundary only counts the
    portion inside the reference window, so two yearly reports never
    double-book the same days.
  - Decree supersedes request: an approved request that produced a
    decree with the same (rut, kind, start date) is skipped - the
    decree already counted those days.
  - Day counting follows the leave type: FL and PA count weekdays minus
    holidays; sick, unpaid and parental leaves count calendar days.
    Half-day shifts on requests count proportionally; decrees always
    count as full days.

SEE ALSO:
  - dates.go: CountDays and the holiday calendar
  - interval.go: Clipping to the reference window
*/
package decreto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// eventKey identifies one consumption event so a decree and its
// originating request are never both counted.
func eventKey(rut string, kind Kind, start Date) string {
	return fmt.Sprintf("%s|%s|%s", NormalizeRUT(rut), kind, start)
}

// ReconcileUsage returns a copy of the roster with UsedVacationDays,
// UsedAdminDays and UsedSickDays recomputed for the reference year.
// Pure over its inputs; the supplied slices are not mutated.
func ReconcileUsage(employees []Employee, requests []*LeaveRequest, decrees []*Decree, referenceYear int, cal HolidayCalendar) []Employee {
	window := Interval{
		Start: StartOfYear(referenceYear),
		End:   EndOfYear(referenceYear),
	}

	type counters struct {
		vacation decimal.Decimal
		admin    decimal.Decimal
		sick     decimal.Decimal
	}
	byRUT := make(map[string]*counters, len(employees))
	rutByEmployee := make(map[string]string, len(employees))
	for _, e := range employees {
		byRUT[NormalizeRUT(e.RUT)] = &counters{}
		rutByEmployee[e.ID] = e.RUT
	}

	counted := make(map[string]struct{})

	// Decrees first: they are the authoritative record of consumption.
	for _, d := range decrees {
		c, ok := byRUT[NormalizeRUT(d.RUT)]
		if !ok {
			continue
		}
		clipped, ok := d.Interval().Clip(window)
		if !ok {
			continue
		}
		counted[eventKey(d.RUT, d.Kind, d.FechaInicio)] = struct{}{}
		var lt LeaveType
		if d.Kind == KindFL {
			lt = LeaveLegalHoliday
		} else {
			lt = LeaveAdministrative
		}
		// Decrees always count full days; tipoJornada only shapes the
		// decree text, not the consumed amount.
		days := CountDays(clipped.Start, clipped.End, lt, ShiftFull, cal)
		if d.Kind == KindFL {
			c.vacation = c.vacation.Add(days)
		} else {
			c.admin = c.admin.Add(days)
		}
	}

	// Approved requests fill in what no decree covered yet.
	for _, r := range requests {
		if r.Status != StatusApproved {
			continue
		}
		rut, ok := rutByEmployee[r.EmployeeID]
		if !ok {
			continue
		}
		c := byRUT[NormalizeRUT(rut)]
		if kind, hasDecreeKind := r.Type.Kind(); hasDecreeKind {
			if _, dup := counted[eventKey(rut, kind, r.StartDate)]; dup {
				continue
			}
		}
		clipped, ok := r.Interval().Clip(window)
		if !ok {
			continue
		}
		days := CountDays(clipped.Start, clipped.End, r.Type, r.Shift, cal)
		switch r.Type {
		case LeaveLegalHoliday:
			c.vacation = c.vacation.Add(days)
		case LeaveAdministrative:
			c.admin = c.admin.Add(days)
		case LeaveSick:
			c.sick = c.sick.Add(days)
		}
		// Unpaid and parental permits have no counter; they occupy the
		// calendar but consume no tracked entitlement.
	}

	out := make([]Employee, len(employees))
	for i, e := range employees {
		out[i] = e
		c := byRUT[NormalizeRUT(e.RUT)]
		out[i].UsedVacationDays = c.vacation
		out[i].UsedAdminDays = c.admin
		out[i].UsedSickDays = c.sick
	}
	return out
}
