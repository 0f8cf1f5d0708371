/*
periods.go - Dual-period allocation for legal holiday (FL) decrees

PURPOSE:
  FL days draw from up to two annual tranches (periodos). A request is
  consumed oldest-tranche-first: period 1 until exhausted, then period 2.
  The decree records the allocation explicitly so the closing balance can
  be resolved without re-deriving it.

KEY CONCEPTS:
  - Allocation: solicitadoP1 = min(requested, saldoP1); the remainder
    spills into period 2.
  - Closing balance: the surviving tranche's remainder. When a second
    period is present the surviving tranche is period 2 regardless of
    whether it was drawn from.

SEE ALSO:
  - balance.go: Resolves opening balances from the ledger head
  - types.go: FLDetail carries the persisted allocation
*/
package decreto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HasPeriod2 reports whether the decree carries a second tranche.
func (f *FLDetail) HasPeriod2() bool {
	return f != nil && f.Periodo2 != ""
}

// CloseP1 returns the period-1 remainder after this decree.
func (f *FLDetail) CloseP1() decimal.Decimal {
	return f.SaldoDisponibleP1.Sub(f.SolicitadoP1)
}

// CloseP2 returns the period-2 remainder after this decree.
func (f *FLDetail) CloseP2() decimal.Decimal {
	return f.SaldoDisponibleP2.Sub(f.SolicitadoP2)
}

// FinalBalance returns the closing balance this decree leaves behind:
// the period-2 remainder when a second tranche exists, otherwise the
// period-1 remainder. The result may be negative; issued decrees are
// recorded even when they overdraw.
func (f *FLDetail) FinalBalance() decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	if f.HasPeriod2() {
		return f.CloseP2()
	}
	return f.CloseP1()
}

// TotalSolicitado returns the sum drawn across both tranches.
func (f *FLDetail) TotalSolicitado() decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return f.SolicitadoP1.Add(f.SolicitadoP2)
}

// FLAllocation is the result of splitting a request across tranches.
type FLAllocation struct {
	SolicitadoP1 decimal.Decimal
	SolicitadoP2 decimal.Decimal
}

// AllocateFL splits requested days across the two tranches,
// oldest-first. saldoP1 caps the period-1 draw; anything beyond it
// spills into period 2 (which may overdraw - issuance is not blocked
// by a shortage, only flagged by validation).
//
// With no second period the whole request lands on period 1.
func AllocateFL(requested, saldoP1 decimal.Decimal, hasPeriod2 bool) FLAllocation {
	if !hasPeriod2 {
		return FLAllocation{SolicitadoP1: requested}
	}
	p1 := decimal.Min(requested, decimal.Max(saldoP1, decimal.Zero))
	return FLAllocation{
		SolicitadoP1: p1,
		SolicitadoP2: requested.Sub(p1),
	}
}

// ValidateFL checks the internal consistency of an FL decree:
// the tranche draws must add up to cantidadDias, draws can't be
// negative, a second-period draw requires a named second period, and
// fechaTermino is mandatory and can't precede the start.
func ValidateFL(d *Decree) ValidationErrors {
	var errs ValidationErrors
	f := d.FL
	if f == nil {
		return ValidationErrors{{
			Field: "fl", Code: "required",
			Message: "legal holiday decree is missing its period detail",
		}}
	}
	if f.Periodo1 == "" {
		errs = append(errs, &ValidationError{
			Field: "periodo1", Code: "required",
			Message: "period 1 is required",
		})
	}
	if f.SolicitadoP1.IsNegative() || f.SolicitadoP2.IsNegative() {
		errs = append(errs, &ValidationError{
			Field: "solicitado", Code: "negative",
			Message: "requested days per period cannot be negative",
		})
	}
	if !f.HasPeriod2() {
		// Without a second period every period-2 figure must be exactly
		// zero; inconsistency is rejected, not silently zeroed.
		if !f.SolicitadoP2.IsZero() || !f.SaldoDisponibleP2.IsZero() {
			errs = append(errs, &ValidationError{
				Field: "periodo2", Code: "inconsistent",
				Message: "period 2 figures must be zero when no period 2 is set",
			})
		}
	}
	// FL must not be overdrawn at issuance time. PA tolerates negative
	// closing balances; FL does not.
	if f.CloseP1().IsNegative() {
		errs = append(errs, &ValidationError{
			Field: "solicitadoP1", Code: "insufficient_balance",
			Message: fmt.Sprintf("period 1 closes negative (%s)", f.CloseP1()),
		})
	}
	if f.HasPeriod2() && f.CloseP2().IsNegative() {
		errs = append(errs, &ValidationError{
			Field: "solicitadoP2", Code: "insufficient_balance",
			Message: fmt.Sprintf("period 2 closes negative (%s)", f.CloseP2()),
		})
	}
	if total := f.TotalSolicitado(); !total.Equal(d.CantidadDias) {
		errs = append(errs, &ValidationError{
			Field: "cantidadDias", Code: "mismatch",
			Message: fmt.Sprintf("period draws (%s) do not add up to cantidadDias (%s)",
				total, d.CantidadDias),
		})
	}
	if f.FechaTermino.IsZero() {
		errs = append(errs, &ValidationError{
			Field: "fechaTermino", Code: "required",
			Message: "end date is required for a legal holiday decree",
		})
	} else if !d.FechaInicio.IsZero() && f.FechaTermino.Before(d.FechaInicio) {
		errs = append(errs, &ValidationError{
			Field: "fechaTermino", Code: "out_of_range",
			Message: "end date is before start date",
		})
	}
	return errs
}
