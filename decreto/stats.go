/*
stats.go - Dashboard aggregates over the decree ledger

Monthly issuance counts, days consumed per entitlement, and who is on
leave on a given date. All pure scans over the supplied snapshot.
*/
package decreto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthStats aggregates one calendar month of issued decrees.
type MonthStats struct {
	Year  int
	Month time.Month

	DecreesPA int
	DecreesFL int
	DaysPA    decimal.Decimal
	DaysFL    decimal.Decimal
}

// MonthlyStats aggregates decrees issued in the given month, keyed by
// fechaInicio. Decrees with no start date are skipped.
func MonthlyStats(decrees []*Decree, year int, month time.Month) MonthStats {
	s := MonthStats{Year: year, Month: month}
	for _, d := range decrees {
		if d.FechaInicio.IsZero() || d.FechaInicio.Year() != year || d.FechaInicio.Month() != month {
			continue
		}
		switch d.Kind {
		case KindPA:
			s.DecreesPA++
			s.DaysPA = s.DaysPA.Add(d.CantidadDias)
		case KindFL:
			s.DecreesFL++
			s.DaysFL = s.DaysFL.Add(d.CantidadDias)
		}
	}
	return s
}

// OnLeave returns the decrees whose interval covers the given date,
// i.e. everyone away that day. Sorted by the ledger ordering.
func OnLeave(decrees []*Decree, day Date) []*Decree {
	var out []*Decree
	for _, d := range decrees {
		if iv := d.Interval(); iv.Valid() && iv.Contains(day) {
			out = append(out, d)
		}
	}
	SortLedger(out)
	return out
}

// YearStats summarizes a whole year for the dashboard header.
type YearStats struct {
	Year         int
	TotalDecrees int
	DaysPA       decimal.Decimal
	DaysFL       decimal.Decimal
	Months       [12]MonthStats
}

// YearlyStats rolls up per-month aggregates for one year.
func YearlyStats(decrees []*Decree, year int) YearStats {
	ys := YearStats{Year: year}
	for m := time.January; m <= time.December; m++ {
		ms := MonthlyStats(decrees, year, m)
		ys.Months[m-1] = ms
		ys.TotalDecrees += ms.DecreesPA + ms.DecreesFL
		ys.DaysPA = ys.DaysPA.Add(ms.DaysPA)
		ys.DaysFL = ys.DaysFL.Add(ms.DaysFL)
	}
	return ys
}
