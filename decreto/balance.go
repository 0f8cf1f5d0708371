/*
balance.go - Ledger ordering and balance resolution

PURPOSE:
  The authoritative balance for an employee and entitlement kind is read
  off the head of their decree ledger: the most recent decree under the
  composite ordering wins, and its closing balance is the next decree's
  suggested opening balance.

KEY CONCEPTS:
  - Composite ordering: fechaInicio descending, then createdAt
    descending. Two decrees starting the same day are tied broken by
    ingestion order - newest wins.
  - Defaults: with no history, PA opens at the configured base
    entitlement and FL opens at zero.
  - ExcludeID: when re-editing a decree its own prior state must not
    feed its suggested opening balance.

SEE ALSO:
  - periods.go: FL closing balance rule
  - alerts.go: Low-balance scan reuses the same head selection
*/
package decreto

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultBaseDaysPA is the administrative-day entitlement granted when
// an employee has no PA history yet.
var DefaultBaseDaysPA = decimal.NewFromInt(6)

// SortLedger orders decrees newest-first under the composite key:
// fechaInicio descending, then createdAt descending. The sort is
// stable so equal keys keep their relative snapshot order.
func SortLedger(decrees []*Decree) {
	sort.SliceStable(decrees, func(i, j int) bool {
		a, b := decrees[i], decrees[j]
		if !a.FechaInicio.Equal(b.FechaInicio) {
			return a.FechaInicio.After(b.FechaInicio)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// ResolveOptions tunes a balance resolution.
type ResolveOptions struct {
	// ExcludeID removes one decree from consideration, used when the
	// caller is editing that decree.
	ExcludeID string

	// BaseDaysPA overrides the PA default for empty ledgers.
	// Zero means DefaultBaseDaysPA.
	BaseDaysPA decimal.Decimal
}

// Head returns the most recent decree for (rut, kind) under the
// composite ordering, or nil when the employee has no such history.
// The input slice is not mutated.
func Head(decrees []*Decree, rut string, kind Kind, excludeID string) *Decree {
	want := NormalizeRUT(rut)
	var head *Decree
	for _, d := range decrees {
		if NormalizeRUT(d.RUT) != want || d.Kind != kind || d.ID == excludeID {
			continue
		}
		if head == nil || laterInLedger(d, head) {
			head = d
		}
	}
	return head
}

func laterInLedger(a, b *Decree) bool {
	if !a.FechaInicio.Equal(b.FechaInicio) {
		return a.FechaInicio.After(b.FechaInicio)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// ResolveBalance returns the authoritative current balance for
// (rut, kind): the head decree's closing balance, or the kind's
// default when no history exists. Pure over the supplied collection.
func ResolveBalance(decrees []*Decree, rut string, kind Kind, opts ResolveOptions) decimal.Decimal {
	head := Head(decrees, rut, kind, opts.ExcludeID)
	if head == nil {
		if kind == KindPA {
			if opts.BaseDaysPA.IsZero() {
				return DefaultBaseDaysPA
			}
			return opts.BaseDaysPA
		}
		return decimal.Zero
	}
	return head.ClosingBalance()
}

// SuggestFL prefills the tranche fields for a new FL decree from the
// employee's head FL decree. With history, the carried period is the
// head's surviving tranche; without, everything opens blank at zero.
type FLSuggestion struct {
	Periodo string
	Saldo   decimal.Decimal
}

func SuggestFL(decrees []*Decree, rut string, excludeID string) FLSuggestion {
	head := Head(decrees, rut, KindFL, excludeID)
	if head == nil || head.FL == nil {
		return FLSuggestion{}
	}
	f := head.FL
	if f.HasPeriod2() {
		return FLSuggestion{Periodo: f.Periodo2, Saldo: f.CloseP2()}
	}
	return FLSuggestion{Periodo: f.Periodo1, Saldo: f.CloseP1()}
}
