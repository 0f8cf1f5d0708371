package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdpcloud/decreto-engine/decreto"
	"github.com/gdpcloud/decreto-engine/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func testDecree(id string, start string) *decreto.Decree {
	return &decreto.Decree{
		ID:           id,
		Kind:         decreto.KindPA,
		Acto:         "1/2025",
		Funcionario:  "Maria Perez",
		RUT:          "12.345.678-5",
		CantidadDias: dec(2),
		FechaInicio:  decreto.MustDate(start),
		TipoJornada:  decreto.ShiftFull,
		PA:           &decreto.PADetail{DiasHaber: dec(6)},
	}
}

// =============================================================================
// SNAPSHOT PUSH
// =============================================================================

func TestMemory_SubscribeAll_DeliversInitialSnapshot(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })

	var got []store.Snapshot
	cancel := m.SubscribeAll(func(s store.Snapshot) { got = append(got, s) })
	defer cancel()

	require.Len(t, got, 1, "the current snapshot is delivered on subscribe")
	assert.Empty(t, got[0].Decrees)
}

func TestMemory_Mutations_PublishNewSnapshots(t *testing.T) {
	// GIVEN: A subscriber watching the store
	// WHEN: A decree is added
	// THEN: A fresh snapshot with a higher version is pushed

	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	var got []store.Snapshot
	cancel := m.SubscribeAll(func(s store.Snapshot) { got = append(got, s) })
	defer cancel()

	require.NoError(t, m.AddDecree(ctx, testDecree("", "2025-03-10")))

	require.Len(t, got, 2)
	assert.Greater(t, got[1].Version, got[0].Version)
	assert.Len(t, got[1].Decrees, 1)
}

func TestMemory_Snapshot_IsIsolatedFromLaterWrites(t *testing.T) {
	// A published snapshot must never observe a later mutation.
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	d := testDecree("d1", "2025-03-10")
	require.NoError(t, m.AddDecree(ctx, d))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decrees, 1)

	edit := testDecree("d1", "2025-03-10")
	edit.CantidadDias = dec(5)
	require.NoError(t, m.UpdateDecree(ctx, edit))

	assert.True(t, snap.Decrees[0].CantidadDias.Equal(dec(2)),
		"older snapshot must keep the older record")
}

func TestMemory_AddDecree_AssignsIDAndCreatedAt(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })

	d := testDecree("", "2025-03-10")
	require.NoError(t, m.AddDecree(context.Background(), d))

	assert.NotEmpty(t, d.ID, "generated id is written back to the caller")
	assert.False(t, d.CreatedAt.IsZero())
}

func TestMemory_UpdateDecree_PreservesCreatedAt(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	d := testDecree("d1", "2025-03-10")
	require.NoError(t, m.AddDecree(ctx, d))
	created := d.CreatedAt

	edit := testDecree("d1", "2025-03-10")
	edit.CantidadDias = dec(3)
	require.NoError(t, m.UpdateDecree(ctx, edit))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decrees, 1)
	assert.Equal(t, created, snap.Decrees[0].CreatedAt,
		"edits keep the original ingestion timestamp")
	assert.True(t, snap.Decrees[0].CantidadDias.Equal(dec(3)))
}

func TestMemory_UpdateDecree_Missing_NotFound(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })

	err := m.UpdateDecree(context.Background(), testDecree("ghost", "2025-03-10"))
	assert.ErrorIs(t, err, decreto.ErrDecreeNotFound)
}

func TestMemory_SnapshotOrdering_LedgerComposite(t *testing.T) {
	// Snapshots come pre-sorted: fechaInicio desc, createdAt desc.
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	require.NoError(t, m.AddDecree(ctx, testDecree("old", "2025-03-03")))
	require.NoError(t, m.AddDecree(ctx, testDecree("new", "2025-03-17")))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decrees, 2)
	assert.Equal(t, "new", snap.Decrees[0].ID)
	assert.Equal(t, "old", snap.Decrees[1].ID)
}

// =============================================================================
// UNDO JOURNAL
// =============================================================================

func TestMemory_Undo_Add_Deletes(t *testing.T) {
	// GIVEN: A freshly added decree
	// WHEN: Undoing
	// THEN: The add is compensated by a delete

	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	require.NoError(t, m.AddDecree(ctx, testDecree("d1", "2025-03-10")))
	require.NoError(t, m.Undo(ctx))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Decrees)
}

func TestMemory_Undo_Update_RestoresPrevious(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	require.NoError(t, m.AddDecree(ctx, testDecree("d1", "2025-03-10")))
	edit := testDecree("d1", "2025-03-10")
	edit.CantidadDias = dec(5)
	require.NoError(t, m.UpdateDecree(ctx, edit))

	require.NoError(t, m.Undo(ctx))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decrees, 1)
	assert.True(t, snap.Decrees[0].CantidadDias.Equal(dec(2)))
}

func TestMemory_Undo_Delete_Reinserts(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	require.NoError(t, m.AddDecree(ctx, testDecree("d1", "2025-03-10")))
	require.NoError(t, m.DeleteDecree(ctx, "d1"))
	require.NoError(t, m.Undo(ctx))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Decrees, 1)
	assert.Equal(t, "d1", snap.Decrees[0].ID)
}

func TestMemory_Undo_EmptyJournal(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })

	err := m.Undo(context.Background())
	assert.ErrorIs(t, err, decreto.ErrNothingToUndo)
}

func TestMemory_Undo_IsNotRedo(t *testing.T) {
	// Undoing twice after one add: the first undo deletes, the second
	// finds nothing (the compensation itself was not journaled).
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	require.NoError(t, m.AddDecree(ctx, testDecree("d1", "2025-03-10")))
	require.NoError(t, m.Undo(ctx))
	assert.ErrorIs(t, m.Undo(ctx), decreto.ErrNothingToUndo)
}

func TestMemory_Journal_BoundedDepth(t *testing.T) {
	// GIVEN: More mutations than the journal keeps
	// WHEN: Undoing everything
	// THEN: Only the last JournalDepth mutations unwind

	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	total := store.JournalDepth + 3
	for i := 0; i < total; i++ {
		d := testDecree(fmt.Sprintf("d%02d", i), "2025-03-10")
		require.NoError(t, m.AddDecree(ctx, d))
	}

	undone := 0
	for {
		if err := m.Undo(ctx); err != nil {
			assert.ErrorIs(t, err, decreto.ErrNothingToUndo)
			break
		}
		undone++
	}
	assert.Equal(t, store.JournalDepth, undone)

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Decrees, total-store.JournalDepth)
}

// =============================================================================
// REQUESTS AND EMPLOYEES
// =============================================================================

func TestMemory_Requests_Lifecycle(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	r := &decreto.LeaveRequest{
		EmployeeID: "emp-1",
		Type:       decreto.LeaveAdministrative,
		StartDate:  decreto.MustDate("2025-03-10"),
		Status:     decreto.StatusPending,
	}
	require.NoError(t, m.AddRequest(ctx, r))
	require.NotEmpty(t, r.ID)

	r.Status = decreto.StatusApproved
	require.NoError(t, m.UpdateRequest(ctx, r))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Requests, 1)
	assert.Equal(t, decreto.StatusApproved, snap.Requests[0].Status)

	require.NoError(t, m.DeleteRequest(ctx, r.ID))
	assert.ErrorIs(t, m.DeleteRequest(ctx, r.ID), decreto.ErrRequestNotFound)
}

func TestMemory_Employees_SortedByName(t *testing.T) {
	m := store.NewMemory()
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()

	require.NoError(t, m.SaveEmployee(ctx, decreto.Employee{
		ID: "e2", FirstName: "Zoe", LastNamePaternal: "Vera", RUT: "11.111.111-1",
	}))
	require.NoError(t, m.SaveEmployee(ctx, decreto.Employee{
		ID: "e1", FirstName: "Ana", LastNamePaternal: "Rojas", RUT: "12.345.678-5",
	}))

	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Employees, 2)
	assert.Equal(t, "e1", snap.Employees[0].ID)
}

func TestMemory_Closed_RejectsOperations(t *testing.T) {
	m := store.NewMemory()
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.AddDecree(context.Background(), testDecree("d1", "2025-03-10")), decreto.ErrStoreClosed)
	_, err := m.Snapshot(context.Background())
	assert.ErrorIs(t, err, decreto.ErrStoreClosed)
}
