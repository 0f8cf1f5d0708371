package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	decrees   map[string]*decreto.Decree
	requests  map[string]*decreto.LeaveRequest
	employees map[string]decreto.Employee

	journal Journal
	version uint64
	closed  bool

	subMu   sync.Mutex
	subs    map[int]SubscribeFunc
	nextSub int

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		decrees:   make(map[string]*decreto.Decree),
		requests:  make(map[string]*decreto.LeaveRequest),
		employees: make(map[string]decreto.Employee),
		subs:      make(map[int]SubscribeFunc),
		now:       time.Now,
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.journal.Clear()
	m.mu.Unlock()

	m.subMu.Lock()
	m.subs = make(map[int]SubscribeFunc)
	m.subMu.Unlock()
	return nil
}

// =============================================================================
// SUBSCRIPTION
// =============================================================================

func (m *Memory) SubscribeAll(fn SubscribeFunc) CancelFunc {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	m.mu.RLock()
	snap := m.snapshotLocked()
	m.mu.RUnlock()
	fn(snap)

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Memory) Snapshot(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Snapshot{}, decreto.ErrStoreClosed
	}
	return m.snapshotLocked(), nil
}

// snapshotLocked builds a fresh, internally consistent snapshot. Every
// record is cloned so a published snapshot can never observe a later
// mutation.
func (m *Memory) snapshotLocked() Snapshot {
	snap := Snapshot{Version: m.version}

	snap.Decrees = make([]*decreto.Decree, 0, len(m.decrees))
	for _, d := range m.decrees {
		snap.Decrees = append(snap.Decrees, cloneDecree(d))
	}
	decreto.SortLedger(snap.Decrees)

	snap.Requests = make([]*decreto.LeaveRequest, 0, len(m.requests))
	for _, r := range m.requests {
		cp := *r
		snap.Requests = append(snap.Requests, &cp)
	}
	sortRequests(snap.Requests)

	snap.Employees = make([]decreto.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		snap.Employees = append(snap.Employees, e)
	}
	sortEmployees(snap.Employees)

	return snap
}

// publishLocked bumps the version and fans the new snapshot out. The
// caller still holds the write lock; delivery happens after release so
// a subscriber can call back into the store.
func (m *Memory) publishLocked() func() {
	m.version++
	snap := m.snapshotLocked()
	return func() {
		m.subMu.Lock()
		fns := make([]SubscribeFunc, 0, len(m.subs))
		for _, fn := range m.subs {
			fns = append(fns, fn)
		}
		m.subMu.Unlock()
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// =============================================================================
// DECREES
// =============================================================================

func (m *Memory) AddDecree(_ context.Context, d *decreto.Decree) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	stored := cloneDecree(d)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now().UTC()
	}
	m.decrees[stored.ID] = stored
	d.ID = stored.ID
	d.CreatedAt = stored.CreatedAt
	m.journal.Push(UndoEntry{Kind: UndoAdd, ID: stored.ID})
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

func (m *Memory) UpdateDecree(_ context.Context, d *decreto.Decree) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	prev, ok := m.decrees[d.ID]
	if !ok {
		m.mu.Unlock()
		return decreto.ErrDecreeNotFound
	}
	stored := cloneDecree(d)
	stored.CreatedAt = prev.CreatedAt
	m.decrees[d.ID] = stored
	m.journal.Push(UndoEntry{Kind: UndoUpdate, ID: d.ID, Prev: prev})
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

func (m *Memory) DeleteDecree(_ context.Context, id string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	prev, ok := m.decrees[id]
	if !ok {
		m.mu.Unlock()
		return decreto.ErrDecreeNotFound
	}
	delete(m.decrees, id)
	m.journal.Push(UndoEntry{Kind: UndoDelete, ID: id, Prev: prev})
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

// Undo pops the latest journal entry and applies the compensating
// write. The compensation itself is not journaled: undo is not redo.
func (m *Memory) Undo(_ context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	e, ok := m.journal.Pop()
	if !ok {
		m.mu.Unlock()
		return decreto.ErrNothingToUndo
	}
	switch e.Kind {
	case UndoAdd:
		delete(m.decrees, e.ID)
	case UndoUpdate, UndoDelete:
		m.decrees[e.ID] = e.Prev
	}
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (m *Memory) AddRequest(_ context.Context, r *decreto.LeaveRequest) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	cp := *r
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.requests[cp.ID] = &cp
	r.ID = cp.ID
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

func (m *Memory) UpdateRequest(_ context.Context, r *decreto.LeaveRequest) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if _, ok := m.requests[r.ID]; !ok {
		m.mu.Unlock()
		return decreto.ErrRequestNotFound
	}
	cp := *r
	m.requests[r.ID] = &cp
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

func (m *Memory) DeleteRequest(_ context.Context, id string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if _, ok := m.requests[id]; !ok {
		m.mu.Unlock()
		return decreto.ErrRequestNotFound
	}
	delete(m.requests, id)
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, e decreto.Employee) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.employees[e.ID] = e
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if _, ok := m.employees[id]; !ok {
		m.mu.Unlock()
		return decreto.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	deliver := m.publishLocked()
	m.mu.Unlock()

	deliver()
	return nil
}
