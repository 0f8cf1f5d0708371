package decreto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func roster() []decreto.Employee {
	return []decreto.Employee{
		{
			ID: "emp-1", FirstName: "Maria", LastNamePaternal: "Perez", RUT: rutA,
			TotalVacationDays: dec(15), TotalAdminDays: dec(6), TotalSickDays: dec(30),
		},
		{
			ID: "emp-2", FirstName: "Juan", LastNamePaternal: "Soto", RUT: rutB,
			TotalVacationDays: dec(15), TotalAdminDays: dec(6), TotalSickDays: dec(30),
		},
	}
}

func approved(id, employeeID string, lt decreto.LeaveType, start, end string, shift decreto.Shift) *decreto.LeaveRequest {
	return &decreto.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		Type:       lt,
		StartDate:  decreto.MustDate(start),
		EndDate:    decreto.MustDate(end),
		Status:     decreto.StatusApproved,
		Shift:      shift,
	}
}

func usageFor(t *testing.T, employees []decreto.Employee, id string) decreto.Employee {
	t.Helper()
	for _, e := range employees {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("no employee %q in result", id)
	return decreto.Employee{}
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReconcileUsage_DecreesFeedCounters(t *testing.T) {
	// GIVEN: A 2-day PA decree and a 5-business-day FL decree in 2025
	// WHEN: Reconciling for 2025
	// THEN: PA lands on the admin counter, FL on the vacation counter

	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2),
		flDecree("d2", rutA, "2025-04-07", "2025-04-11", 5, &decreto.FLDetail{
			Periodo1: "2025", SaldoDisponibleP1: dec(15), SolicitadoP1: dec(5),
		}),
	}
	out := decreto.ReconcileUsage(roster(), nil, decrees, 2025, decreto.ChileanHolidays())

	e := usageFor(t, out, "emp-1")
	assert.True(t, e.UsedAdminDays.Equal(dec(2)), "admin: want 2, got %s", e.UsedAdminDays)
	assert.True(t, e.UsedVacationDays.Equal(dec(5)), "vacation: want 5, got %s", e.UsedVacationDays)
	assert.True(t, e.UsedSickDays.IsZero())
}

func TestReconcileUsage_YearBoundary_ClipsToWindow(t *testing.T) {
	// GIVEN: An FL leave 2025-12-28 .. 2026-01-03 crossing the year line
	// WHEN: Reconciling 2025 and 2026 separately
	// THEN: 2025 counts only Dec 29-31 (3 business days), 2026 only
	//       Jan 2 (Jan 1 is a holiday, Jan 3 a Saturday)

	decrees := []*decreto.Decree{
		flDecree("d1", rutA, "2025-12-28", "2026-01-03", 4, &decreto.FLDetail{
			Periodo1: "2025", SaldoDisponibleP1: dec(15), SolicitadoP1: dec(4),
		}),
	}
	cal := decreto.ChileanHolidays()

	in2025 := usageFor(t, decreto.ReconcileUsage(roster(), nil, decrees, 2025, cal), "emp-1")
	assert.True(t, in2025.UsedVacationDays.Equal(dec(3)), "2025: want 3, got %s", in2025.UsedVacationDays)

	in2026 := usageFor(t, decreto.ReconcileUsage(roster(), nil, decrees, 2026, cal), "emp-1")
	assert.True(t, in2026.UsedVacationDays.Equal(dec(1)), "2026: want 1, got %s", in2026.UsedVacationDays)
}

func TestReconcileUsage_DecreeSupersedesRequest(t *testing.T) {
	// GIVEN: An approved request and the decree it produced, same
	//        employee, kind and start date
	// WHEN: Reconciling
	// THEN: The days are counted once; the decree wins

	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2),
	}
	requests := []*decreto.LeaveRequest{
		approved("r1", "emp-1", decreto.LeaveAdministrative, "2025-03-10", "2025-03-11", decreto.ShiftFull),
	}
	out := decreto.ReconcileUsage(roster(), requests, decrees, 2025, decreto.ChileanHolidays())

	e := usageFor(t, out, "emp-1")
	assert.True(t, e.UsedAdminDays.Equal(dec(2)), "want 2 counted once, got %s", e.UsedAdminDays)
}

func TestReconcileUsage_RequestWithDifferentStart_Counted(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2),
	}
	requests := []*decreto.LeaveRequest{
		approved("r1", "emp-1", decreto.LeaveAdministrative, "2025-03-17", "2025-03-17", decreto.ShiftFull),
	}
	out := decreto.ReconcileUsage(roster(), requests, decrees, 2025, decreto.ChileanHolidays())

	e := usageFor(t, out, "emp-1")
	assert.True(t, e.UsedAdminDays.Equal(dec(3)), "want 2+1, got %s", e.UsedAdminDays)
}

func TestReconcileUsage_PendingAndRejected_Ignored(t *testing.T) {
	pending := approved("r1", "emp-1", decreto.LeaveAdministrative, "2025-03-10", "2025-03-10", decreto.ShiftFull)
	pending.Status = decreto.StatusPending
	rejected := approved("r2", "emp-1", decreto.LeaveAdministrative, "2025-03-17", "2025-03-17", decreto.ShiftFull)
	rejected.Status = decreto.StatusRejected

	out := decreto.ReconcileUsage(roster(), []*decreto.LeaveRequest{pending, rejected}, nil, 2025, decreto.ChileanHolidays())
	assert.True(t, usageFor(t, out, "emp-1").UsedAdminDays.IsZero())
}

func TestReconcileUsage_SickLeave_CalendarDays(t *testing.T) {
	// Sick leave Fri Mar 7 .. Mon Mar 10 counts all 4 calendar days.
	requests := []*decreto.LeaveRequest{
		approved("r1", "emp-1", decreto.LeaveSick, "2025-03-07", "2025-03-10", decreto.ShiftFull),
	}
	out := decreto.ReconcileUsage(roster(), requests, nil, 2025, decreto.ChileanHolidays())
	assert.True(t, usageFor(t, out, "emp-1").UsedSickDays.Equal(dec(4)))
}

func TestReconcileUsage_HalfShift_CountsHalf(t *testing.T) {
	requests := []*decreto.LeaveRequest{
		approved("r1", "emp-1", decreto.LeaveAdministrative, "2025-03-10", "2025-03-10", decreto.ShiftMorning),
	}
	out := decreto.ReconcileUsage(roster(), requests, nil, 2025, decreto.ChileanHolidays())
	assert.True(t, usageFor(t, out, "emp-1").UsedAdminDays.Equal(dec(0.5)))
}

func TestReconcileUsage_HalfShiftDecree_CountsFullDays(t *testing.T) {
	// GIVEN: A 2-day PA decree issued with a morning shift
	// WHEN: Reconciling
	// THEN: Decree days always count in full; the shift only shapes the
	//       decree text, unlike requests

	d := paDecree("d1", rutA, "2025-03-10", 6, 2)
	d.TipoJornada = decreto.ShiftMorning

	out := decreto.ReconcileUsage(roster(), nil, []*decreto.Decree{d}, 2025, decreto.ChileanHolidays())
	e := usageFor(t, out, "emp-1")
	assert.True(t, e.UsedAdminDays.Equal(dec(2)), "want 2 full days, got %s", e.UsedAdminDays)
}

func TestReconcileUsage_UnpaidLeave_NoCounter(t *testing.T) {
	// Unpaid permits occupy the calendar but consume no tracked entitlement.
	requests := []*decreto.LeaveRequest{
		approved("r1", "emp-1", decreto.LeaveWithoutPay, "2025-03-10", "2025-03-21", decreto.ShiftFull),
	}
	out := decreto.ReconcileUsage(roster(), requests, nil, 2025, decreto.ChileanHolidays())

	e := usageFor(t, out, "emp-1")
	assert.True(t, e.UsedVacationDays.IsZero())
	assert.True(t, e.UsedAdminDays.IsZero())
	assert.True(t, e.UsedSickDays.IsZero())
}

func TestReconcileUsage_Idempotent(t *testing.T) {
	// GIVEN: A fixed snapshot
	// WHEN: Reconciling twice
	// THEN: Results are identical; totals are never touched

	decrees := []*decreto.Decree{
		paDecree("d1", rutA, "2025-03-10", 6, 2),
	}
	first := decreto.ReconcileUsage(roster(), nil, decrees, 2025, decreto.ChileanHolidays())
	second := decreto.ReconcileUsage(first, nil, decrees, 2025, decreto.ChileanHolidays())

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].UsedAdminDays.Equal(second[i].UsedAdminDays))
		assert.True(t, first[i].TotalAdminDays.Equal(second[i].TotalAdminDays))
	}
}

func TestReconcileUsage_UnknownRUT_Skipped(t *testing.T) {
	decrees := []*decreto.Decree{
		paDecree("d1", rutC, "2025-03-10", 6, 2), // not on the roster
	}
	out := decreto.ReconcileUsage(roster(), nil, decrees, 2025, decreto.ChileanHolidays())
	for _, e := range out {
		assert.True(t, e.UsedAdminDays.IsZero())
	}
}
