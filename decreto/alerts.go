/*
alerts.go - Low-balance alerting

PURPOSE:
  Surface employees whose current balance on either entitlement has
  dropped below the warning threshold. The scan reuses the exact head
  selection of balance.go so the alert and the form always agree on
  which decree is "current".

THRESHOLDS:
  - Warning:  balance < 2 days
  - Critical: balance <= 0 days (PA overdraft, or exhausted FL)
*/
package decreto

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LowBalanceThreshold is the warning cutoff.
var LowBalanceThreshold = decimal.NewFromInt(2)

// LowBalance is one employee/entitlement pair under the threshold.
type LowBalance struct {
	RUT         string
	Funcionario string
	Kind        Kind
	Balance     decimal.Decimal
}

// Critical reports whether the balance is exhausted or overdrawn.
func (lb LowBalance) Critical() bool {
	return !lb.Balance.IsPositive()
}

// LowBalances scans the ledger and returns every (employee, kind) whose
// resolved balance falls under the threshold, most depleted first.
// Employees with no history of a kind are not alerted for it: an unused
// entitlement is not a shortage.
func LowBalances(decrees []*Decree, opts ResolveOptions) []LowBalance {
	type seenKey struct {
		rut  string
		kind Kind
	}
	seen := make(map[seenKey]bool)
	names := make(map[string]string)

	var out []LowBalance
	for _, d := range decrees {
		rut := NormalizeRUT(d.RUT)
		if names[rut] == "" {
			names[rut] = d.Funcionario
		}
		k := seenKey{rut, d.Kind}
		if seen[k] {
			continue
		}
		seen[k] = true

		bal := ResolveBalance(decrees, d.RUT, d.Kind, opts)
		if bal.GreaterThanOrEqual(LowBalanceThreshold) {
			continue
		}
		out = append(out, LowBalance{
			RUT:         d.RUT,
			Funcionario: names[rut],
			Kind:        d.Kind,
			Balance:     bal,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Balance.Equal(out[j].Balance) {
			return out[i].Balance.LessThan(out[j].Balance)
		}
		return out[i].RUT < out[j].RUT
	})
	return out
}

// CriticalCount returns how many alerts are at or below zero.
func CriticalCount(alerts []LowBalance) int {
	n := 0
	for _, a := range alerts {
		if a.Critical() {
			n++
		}
	}
	return n
}
