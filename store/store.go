/*
Package store defines the record store adapter the decree engine reads
from and writes through.

PURPOSE:
  The engine never holds authoritative state. All reads arrive as
  whole-collection snapshots pushed through SubscribeAll; all writes go
  through Add/Update/Delete and only become visible in the next
  snapshot. There is no read-after-write guarantee at the adapter
  boundary: callers recompute from the latest snapshot they were given.

IMPLEMENTATIONS:
  store.Memory:  In-memory (testing/dev)
  sqlite.Store:  SQLite-backed (production)

UNDO:
  A bounded journal of the last 10 mutations supports Undo as a
  compensating write: undoing an add deletes, undoing a delete
  re-inserts the old record, undoing an update restores the previous
  version. The journal is local to the adapter instance and
  non-authoritative once remote state has advanced.

SEE ALSO:
  - memory.go: In-memory implementation
  - sqlite/sqlite.go: SQLite implementation
*/
package store

import (
	"context"
	"sort"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// Snapshot is one internally consistent view of every collection. The
// engine always recomputes from a whole snapshot, never from deltas.
type Snapshot struct {
	// Version increases with every published snapshot. Gaps never occur
	// within one adapter instance.
	Version uint64

	Decrees   []*decreto.Decree
	Requests  []*decreto.LeaveRequest
	Employees []decreto.Employee
}

// SubscribeFunc receives each published snapshot. The slices are owned
// by the receiver; the adapter never mutates a published snapshot.
type SubscribeFunc func(Snapshot)

// CancelFunc detaches a subscriber.
type CancelFunc func()

// RecordStore is the adapter contract. Writes are validated by the
// caller before they reach the store; the store only enforces
// existence and identity.
type RecordStore interface {
	// SubscribeAll registers fn and immediately delivers the current
	// snapshot to it. Every later mutation publishes a fresh snapshot
	// to all subscribers.
	SubscribeAll(fn SubscribeFunc) CancelFunc

	// Snapshot returns the current snapshot without subscribing.
	Snapshot(ctx context.Context) (Snapshot, error)

	AddDecree(ctx context.Context, d *decreto.Decree) error
	// UpdateDecree replaces the stored record whole; partial patches
	// are not supported.
	UpdateDecree(ctx context.Context, d *decreto.Decree) error
	// DeleteDecree is the explicit "baja": a hard delete, out of
	// ledger-history scope.
	DeleteDecree(ctx context.Context, id string) error

	AddRequest(ctx context.Context, r *decreto.LeaveRequest) error
	UpdateRequest(ctx context.Context, r *decreto.LeaveRequest) error
	DeleteRequest(ctx context.Context, id string) error

	SaveEmployee(ctx context.Context, e decreto.Employee) error
	DeleteEmployee(ctx context.Context, id string) error

	// Undo reverses the most recent decree mutation as a compensating
	// write. Returns decreto.ErrNothingToUndo when the journal is empty.
	Undo(ctx context.Context) error

	Close() error
}

// =============================================================================
// UNDO JOURNAL
// =============================================================================

// JournalDepth caps how many mutations can be unwound.
const JournalDepth = 10

type UndoKind int

const (
	UndoAdd    UndoKind = iota // compensate by deleting
	UndoUpdate                 // compensate by restoring the previous record
	UndoDelete                 // compensate by re-inserting the deleted record
)

// UndoEntry records how to reverse one decree mutation. Prev holds the
// displaced record for UndoUpdate/UndoDelete.
type UndoEntry struct {
	Kind UndoKind
	ID   string
	Prev *decreto.Decree
}

// Journal is a bounded LIFO of compensating entries shared by the
// store implementations. Not safe for concurrent use on its own;
// callers hold the store lock.
type Journal struct {
	entries []UndoEntry
}

func (j *Journal) Push(e UndoEntry) {
	j.entries = append(j.entries, e)
	if len(j.entries) > JournalDepth {
		j.entries = j.entries[len(j.entries)-JournalDepth:]
	}
}

func (j *Journal) Pop() (UndoEntry, bool) {
	if len(j.entries) == 0 {
		return UndoEntry{}, false
	}
	e := j.entries[len(j.entries)-1]
	j.entries = j.entries[:len(j.entries)-1]
	return e, true
}

func (j *Journal) Len() int { return len(j.entries) }

func (j *Journal) Clear() {
	j.entries = nil
}

// =============================================================================
// SNAPSHOT HELPERS
// =============================================================================

// cloneDecree deep-copies a decree so stored and published records
// never alias caller memory.
func cloneDecree(d *decreto.Decree) *decreto.Decree {
	cp := *d
	if d.PA != nil {
		pa := *d.PA
		cp.PA = &pa
	}
	if d.FL != nil {
		fl := *d.FL
		cp.FL = &fl
	}
	return &cp
}

// Requests and employees have no ledger ordering; snapshots sort them
// by stable secondary keys so iteration order is deterministic.
func sortRequests(rs []*decreto.LeaveRequest) {
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].StartDate.Equal(rs[j].StartDate) {
			return rs[i].StartDate.After(rs[j].StartDate)
		}
		return rs[i].ID < rs[j].ID
	})
}

func sortEmployees(es []decreto.Employee) {
	sort.SliceStable(es, func(i, j int) bool {
		if es[i].FullName() != es[j].FullName() {
			return es[i].FullName() < es[j].FullName()
		}
		return es[i].ID < es[j].ID
	})
}
