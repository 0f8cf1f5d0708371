package decreto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// =============================================================================
// LOW-BALANCE ALERTS
// =============================================================================

func TestLowBalances_UnderThreshold_Alerted(t *testing.T) {
	// GIVEN: An employee whose PA ledger closes at 1 day
	// WHEN: Scanning for low balances
	// THEN: A warning (not critical) alert is raised

	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 5),
	}
	alerts := decreto.LowBalances(decrees, decreto.ResolveOptions{})

	require.Len(t, alerts, 1)
	assert.Equal(t, decreto.KindPA, alerts[0].Kind)
	assert.True(t, alerts[0].Balance.Equal(dec(1)))
	assert.False(t, alerts[0].Critical())
}

func TestLowBalances_Overdraft_Critical(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 1, 3),
	}
	alerts := decreto.LowBalances(decrees, decreto.ResolveOptions{})

	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].Critical())
	assert.Equal(t, 1, decreto.CriticalCount(alerts))
}

func TestLowBalances_HealthyBalance_NoAlert(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2), // closes at 4
	}
	assert.Empty(t, decreto.LowBalances(decrees, decreto.ResolveOptions{}))
}

func TestLowBalances_NoHistory_NotAlerted(t *testing.T) {
	// An employee with PA history but no FL history is not alerted for
	// FL even though its resolved balance would be zero.
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 5),
	}
	alerts := decreto.LowBalances(decrees, decreto.ResolveOptions{})

	require.Len(t, alerts, 1)
	assert.Equal(t, decreto.KindPA, alerts[0].Kind)
}

func TestLowBalances_SortedMostDepletedFirst(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 5),  // closes at 1
		paDecree("d2", rutB, "2025-03-10", 1, 3),  // closes at -2
	}
	alerts := decreto.LowBalances(decrees, decreto.ResolveOptions{})

	require.Len(t, alerts, 2)
	assert.True(t, alerts[0].Balance.Equal(dec(-2)))
	assert.True(t, alerts[1].Balance.Equal(dec(1)))
}

func TestLowBalances_OnlyHeadCounts(t *testing.T) {
	// GIVEN: An old depleted decree superseded by a replenished one
	// WHEN: Scanning
	// THEN: Only the head's closing balance matters

	old := paDecree("d1", rutA, "2025-02-03", 1, 1) // closed at 0
	cur := paDecree("d2", rutA, "2025-03-10", 6, 1) // closes at 5
	assert.Empty(t, decreto.LowBalances([]*decreto.Decree{old, cur}, decreto.ResolveOptions{}))
}

// =============================================================================
// DASHBOARD STATS
// =============================================================================

func TestMonthlyStats_CountsPerKind(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2),
		paDecree("d2", rutB, "2025-03-17", 6, 1),
		flDecree("d3", rutA, "2025-03-03", "2025-03-07", 5, &decreto.FLDetail{
			Periodo1: "2025", SaldoDisponibleP1: dec(15), SolicitadoP1: dec(5),
		}),
		paDecree("d4", rutA, "2025-04-07", 4, 1), // different month
	}
	s := decreto.MonthlyStats(decrees, 2025, 3)

	assert.Equal(t, 2, s.DecreesPA)
	assert.Equal(t, 1, s.DecreesFL)
	assert.True(t, s.DaysPA.Equal(dec(3)))
	assert.True(t, s.DaysFL.Equal(dec(5)))
}

func TestYearlyStats_RollsUpMonths(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2),
		paDecree("d2", rutA, "2025-04-07", 4, 1),
	}
	ys := decreto.YearlyStats(decrees, 2025)

	assert.Equal(t, 2, ys.TotalDecrees)
	assert.True(t, ys.DaysPA.Equal(dec(3)))
	assert.Equal(t, 1, ys.Months[2].DecreesPA) // March
	assert.Equal(t, 1, ys.Months[3].DecreesPA) // April
}

func TestOnLeave_CoveringIntervals(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 3), // Mar 10..12
		flDecree("d2", rutB, "2025-03-12", "2025-03-14", 3, &decreto.FLDetail{
			Periodo1: "2025", SaldoDisponibleP1: dec(15), SolicitadoP1: dec(3),
		}),
	}

	away := decreto.OnLeave(decrees, decreto.MustDate("2025-03-12"))
	assert.Len(t, away, 2)

	away = decreto.OnLeave(decrees, decreto.MustDate("2025-03-13"))
	require.Len(t, away, 1)
	assert.Equal(t, "d2", away[0].ID)
}
