/*
Package sqlite provides the SQLite-backed record store.

PURPOSE:
  Implements store.RecordStore on a single SQLite file. The adapter
  keeps the snapshot-push contract: every successful write re-reads the
  collections and fans a fresh snapshot out to subscribers.

KEY TABLES:
  decrees:   The decree ledger. One row per issued decree; PA-only and
             FL-only columns are NULL for the other kind.
  requests:  Pre-decree leave requests.
  employees: The roster with entitlement totals and usage counters.

INDEXES:
  idx_decrees_rut_kind: Balance resolution head scan (hot path)
  idx_decrees_rut:      Conflict detection across both kinds
  idx_decrees_inicio:   Monthly/book listings

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/decretos.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - store/store.go: Interface definition and undo journal
  - store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/gdpcloud/decreto-engine/decreto"
	"github.com/gdpcloud/decreto-engine/store"
)

// Store implements store.RecordStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	journal store.Journal
	version uint64
	closed  bool

	subMu   sync.Mutex
	subs    map[int]store.SubscribeFunc
	nextSub int
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, subs: make(map[int]store.SubscribeFunc)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.journal.Clear()
	s.mu.Unlock()

	s.subMu.Lock()
	s.subs = make(map[int]store.SubscribeFunc)
	s.subMu.Unlock()
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Decree ledger
	CREATE TABLE IF NOT EXISTS decrees (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		kind TEXT NOT NULL,
		acto TEXT,
		materia TEXT,
		funcionario TEXT NOT NULL,
		rut TEXT NOT NULL,
		periodo TEXT,
		cantidad_dias TEXT NOT NULL,
		fecha_inicio TEXT,
		fecha_decreto TEXT,
		tipo_jornada TEXT,
		ra TEXT,
		emite TEXT,
		observacion TEXT,

		-- PA only
		dias_haber TEXT,

		-- FL only
		fecha_termino TEXT,
		periodo1 TEXT,
		saldo_disponible_p1 TEXT,
		solicitado_p1 TEXT,
		periodo2 TEXT,
		saldo_disponible_p2 TEXT,
		solicitado_p2 TEXT
	);

	-- Balance resolution head scan (hot path)
	CREATE INDEX IF NOT EXISTS idx_decrees_rut_kind
		ON decrees(rut, kind, fecha_inicio DESC, created_at DESC);
	-- Conflict detection across both kinds
	CREATE INDEX IF NOT EXISTS idx_decrees_rut
		ON decrees(rut);
	CREATE INDEX IF NOT EXISTS idx_decrees_inicio
		ON decrees(fecha_inicio);

	-- Leave requests (pre-decree workflow)
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT,
		days_count TEXT NOT NULL,
		status TEXT NOT NULL,
		shift TEXT,
		reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);

	-- Roster
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name_paternal TEXT,
		last_name_maternal TEXT,
		rut TEXT NOT NULL,
		position TEXT,
		department TEXT,
		hire_date TEXT,
		email TEXT,
		total_vacation TEXT NOT NULL DEFAULT '0',
		used_vacation TEXT NOT NULL DEFAULT '0',
		total_admin TEXT NOT NULL DEFAULT '0',
		used_admin TEXT NOT NULL DEFAULT '0',
		total_sick TEXT NOT NULL DEFAULT '0',
		used_sick TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_employees_rut
		ON employees(rut);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SUBSCRIPTION
// =============================================================================

func (s *Store) SubscribeAll(fn store.SubscribeFunc) store.CancelFunc {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	if snap, err := s.Snapshot(context.Background()); err == nil {
		fn(snap)
	}

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) Snapshot(ctx context.Context) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return store.Snapshot{}, decreto.ErrStoreClosed
	}
	return s.snapshotLocked(ctx)
}

func (s *Store) snapshotLocked(ctx context.Context) (store.Snapshot, error) {
	snap := store.Snapshot{Version: s.version}

	decrees, err := s.queryDecrees(ctx, selectDecrees+`
		ORDER BY fecha_inicio DESC, created_at DESC`)
	if err != nil {
		return snap, err
	}
	snap.Decrees = decrees

	requests, err := s.queryRequests(ctx, `
		SELECT id, employee_id, type, start_date, end_date, days_count, status, shift, reason
		FROM requests
		ORDER BY start_date DESC, id ASC`)
	if err != nil {
		return snap, err
	}
	snap.Requests = requests

	employees, err := s.queryEmployees(ctx, `
		SELECT id, first_name, last_name_paternal, last_name_maternal, rut,
		       position, department, hire_date, email,
		       total_vacation, used_vacation, total_admin, used_admin, total_sick, used_sick
		FROM employees
		ORDER BY first_name, last_name_paternal, id`)
	if err != nil {
		return snap, err
	}
	snap.Employees = employees

	return snap, nil
}

// publishLocked bumps the version and prepares the fan-out. Delivery
// runs after the write lock is released so subscribers can call back
// into the store.
func (s *Store) publishLocked(ctx context.Context) func() {
	s.version++
	snap, err := s.snapshotLocked(ctx)
	if err != nil {
		return func() {}
	}
	return func() {
		s.subMu.Lock()
		fns := make([]store.SubscribeFunc, 0, len(s.subs))
		for _, fn := range s.subs {
			fns = append(fns, fn)
		}
		s.subMu.Unlock()
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// =============================================================================
// DECREES
// =============================================================================

const selectDecrees = `
	SELECT id, created_at, kind, acto, materia, funcionario, rut, periodo,
	       cantidad_dias, fecha_inicio, fecha_decreto, tipo_jornada, ra, emite, observacion,
	       dias_haber,
	       fecha_termino, periodo1, saldo_disponible_p1, solicitado_p1,
	       periodo2, saldo_disponible_p2, solicitado_p2
	FROM decrees`

func (s *Store) AddDecree(ctx context.Context, d *decreto.Decree) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if err := s.insertDecree(ctx, d); err != nil {
		s.mu.Unlock()
		return err
	}
	s.journal.Push(store.UndoEntry{Kind: store.UndoAdd, ID: d.ID})
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) insertDecree(ctx context.Context, d *decreto.Decree) error {
	query := `
		INSERT INTO decrees
		(id, created_at, kind, acto, materia, funcionario, rut, periodo,
		 cantidad_dias, fecha_inicio, fecha_decreto, tipo_jornada, ra, emite, observacion,
		 dias_haber,
		 fecha_termino, periodo1, saldo_disponible_p1, solicitado_p1,
		 periodo2, saldo_disponible_p2, solicitado_p2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var diasHaber sql.NullString
	var fechaTermino, periodo1, saldoP1, soliP1, periodo2, saldoP2, soliP2 sql.NullString
	if d.PA != nil {
		diasHaber = nullString(d.PA.DiasHaber.String())
	}
	if d.FL != nil {
		fechaTermino = nullString(d.FL.FechaTermino.String())
		periodo1 = nullString(d.FL.Periodo1)
		saldoP1 = nullString(d.FL.SaldoDisponibleP1.String())
		soliP1 = nullString(d.FL.SolicitadoP1.String())
		periodo2 = nullString(d.FL.Periodo2)
		saldoP2 = nullString(d.FL.SaldoDisponibleP2.String())
		soliP2 = nullString(d.FL.SolicitadoP2.String())
	}

	_, err := s.db.ExecContext(ctx, query,
		d.ID,
		d.CreatedAt.Format(time.RFC3339Nano),
		string(d.Kind),
		d.Acto, d.Materia, d.Funcionario, d.RUT, d.Periodo,
		d.CantidadDias.String(),
		d.FechaInicio.String(),
		d.FechaDecreto.String(),
		string(d.TipoJornada),
		d.RA, d.Emite, d.Observacion,
		diasHaber,
		fechaTermino, periodo1, saldoP1, soliP1, periodo2, saldoP2, soliP2,
	)
	if err != nil {
		return fmt.Errorf("failed to insert decree: %w", err)
	}
	return nil
}

func (s *Store) UpdateDecree(ctx context.Context, d *decreto.Decree) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	prev, err := s.getDecree(ctx, d.ID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if prev == nil {
		s.mu.Unlock()
		return decreto.ErrDecreeNotFound
	}
	// Whole-record replace; the ingestion timestamp survives the edit.
	d.CreatedAt = prev.CreatedAt
	if _, err := s.db.ExecContext(ctx, "DELETE FROM decrees WHERE id = ?", d.ID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to update decree: %w", err)
	}
	if err := s.insertDecree(ctx, d); err != nil {
		s.mu.Unlock()
		return err
	}
	s.journal.Push(store.UndoEntry{Kind: store.UndoUpdate, ID: d.ID, Prev: prev})
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) DeleteDecree(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	prev, err := s.getDecree(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if prev == nil {
		s.mu.Unlock()
		return decreto.ErrDecreeNotFound
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM decrees WHERE id = ?", id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete decree: %w", err)
	}
	s.journal.Push(store.UndoEntry{Kind: store.UndoDelete, ID: id, Prev: prev})
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

// Undo applies the compensating write for the latest journal entry.
// The compensation itself is not journaled: undo is not redo.
func (s *Store) Undo(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	e, ok := s.journal.Pop()
	if !ok {
		s.mu.Unlock()
		return decreto.ErrNothingToUndo
	}

	var err error
	switch e.Kind {
	case store.UndoAdd:
		_, err = s.db.ExecContext(ctx, "DELETE FROM decrees WHERE id = ?", e.ID)
	case store.UndoUpdate:
		if _, err = s.db.ExecContext(ctx, "DELETE FROM decrees WHERE id = ?", e.ID); err == nil {
			err = s.insertDecree(ctx, e.Prev)
		}
	case store.UndoDelete:
		err = s.insertDecree(ctx, e.Prev)
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to undo: %w", err)
	}
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) getDecree(ctx context.Context, id string) (*decreto.Decree, error) {
	decrees, err := s.queryDecrees(ctx, selectDecrees+` WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(decrees) == 0 {
		return nil, nil
	}
	return decrees[0], nil
}

func (s *Store) queryDecrees(ctx context.Context, query string, args ...any) ([]*decreto.Decree, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decrees: %w", err)
	}
	defer rows.Close()

	var decrees []*decreto.Decree
	for rows.Next() {
		d, err := scanDecree(rows)
		if err != nil {
			return nil, err
		}
		decrees = append(decrees, d)
	}
	return decrees, rows.Err()
}

func scanDecree(rows *sql.Rows) (*decreto.Decree, error) {
	var (
		d            decreto.Decree
		createdAt    string
		kind         string
		acto         sql.NullString
		materia      sql.NullString
		periodo      sql.NullString
		cantidadDias string
		fechaInicio  sql.NullString
		fechaDecreto sql.NullString
		tipoJornada  sql.NullString
		ra           sql.NullString
		emite        sql.NullString
		observacion  sql.NullString

		diasHaber sql.NullString

		fechaTermino sql.NullString
		periodo1     sql.NullString
		saldoP1      sql.NullString
		soliP1       sql.NullString
		periodo2     sql.NullString
		saldoP2      sql.NullString
		soliP2       sql.NullString
	)

	err := rows.Scan(
		&d.ID, &createdAt, &kind, &acto, &materia, &d.Funcionario, &d.RUT, &periodo,
		&cantidadDias, &fechaInicio, &fechaDecreto, &tipoJornada, &ra, &emite, &observacion,
		&diasHaber,
		&fechaTermino, &periodo1, &saldoP1, &soliP1, &periodo2, &saldoP2, &soliP2,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan decree: %w", err)
	}

	d.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	d.Kind = decreto.Kind(kind)
	d.Acto = acto.String
	d.Materia = materia.String
	d.Periodo = periodo.String
	d.CantidadDias = parseDecimal(cantidadDias)
	d.FechaInicio, _ = decreto.ParseDate(fechaInicio.String)
	d.FechaDecreto, _ = decreto.ParseDate(fechaDecreto.String)
	d.TipoJornada = decreto.Shift(tipoJornada.String)
	d.RA = ra.String
	d.Emite = emite.String
	d.Observacion = observacion.String

	switch d.Kind {
	case decreto.KindPA:
		d.PA = &decreto.PADetail{DiasHaber: parseDecimal(diasHaber.String)}
	case decreto.KindFL:
		fl := &decreto.FLDetail{
			Periodo1:          periodo1.String,
			SaldoDisponibleP1: parseDecimal(saldoP1.String),
			SolicitadoP1:      parseDecimal(soliP1.String),
			Periodo2:          periodo2.String,
			SaldoDisponibleP2: parseDecimal(saldoP2.String),
			SolicitadoP2:      parseDecimal(soliP2.String),
		}
		fl.FechaTermino, _ = decreto.ParseDate(fechaTermino.String)
		d.FL = fl
	}

	return &d, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (s *Store) AddRequest(ctx context.Context, r *decreto.LeaveRequest) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.upsertRequest(ctx, r, false); err != nil {
		s.mu.Unlock()
		return err
	}
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) UpdateRequest(ctx context.Context, r *decreto.LeaveRequest) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if err := s.upsertRequest(ctx, r, true); err != nil {
		s.mu.Unlock()
		return err
	}
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) upsertRequest(ctx context.Context, r *decreto.LeaveRequest, mustExist bool) error {
	if mustExist {
		var count int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM requests WHERE id = ?", r.ID).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			return decreto.ErrRequestNotFound
		}
	}

	query := `
		INSERT INTO requests (id, employee_id, type, start_date, end_date, days_count, status, shift, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			type = excluded.type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days_count = excluded.days_count,
			status = excluded.status,
			shift = excluded.shift,
			reason = excluded.reason
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, string(r.Type),
		r.StartDate.String(), r.EndDate.String(),
		r.DaysCount.String(), string(r.Status), string(r.Shift), r.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM requests WHERE id = ?", id)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.mu.Unlock()
		return decreto.ErrRequestNotFound
	}
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]*decreto.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*decreto.LeaveRequest
	for rows.Next() {
		var (
			r          decreto.LeaveRequest
			typ        string
			start, end sql.NullString
			days       string
			status     string
			shift      sql.NullString
			reason     sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.EmployeeID, &typ, &start, &end, &days, &status, &shift, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		r.Type = decreto.LeaveType(typ)
		r.StartDate, _ = decreto.ParseDate(start.String)
		r.EndDate, _ = decreto.ParseDate(end.String)
		r.DaysCount = parseDecimal(days)
		r.Status = decreto.RequestStatus(status)
		r.Shift = decreto.Shift(shift.String)
		r.Reason = reason.String
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e decreto.Employee) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query := `
		INSERT INTO employees (id, first_name, last_name_paternal, last_name_maternal, rut,
			position, department, hire_date, email,
			total_vacation, used_vacation, total_admin, used_admin, total_sick, used_sick)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name_paternal = excluded.last_name_paternal,
			last_name_maternal = excluded.last_name_maternal,
			rut = excluded.rut,
			position = excluded.position,
			department = excluded.department,
			hire_date = excluded.hire_date,
			email = excluded.email,
			total_vacation = excluded.total_vacation,
			used_vacation = excluded.used_vacation,
			total_admin = excluded.total_admin,
			used_admin = excluded.used_admin,
			total_sick = excluded.total_sick,
			used_sick = excluded.used_sick
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.FirstName, e.LastNamePaternal, e.LastNameMaternal, e.RUT,
		e.Position, e.Department, e.HireDate.String(), e.Email,
		e.TotalVacationDays.String(), e.UsedVacationDays.String(),
		e.TotalAdminDays.String(), e.UsedAdminDays.String(),
		e.TotalSickDays.String(), e.UsedSickDays.String(),
	)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save employee: %w", err)
	}
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return decreto.ErrStoreClosed
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.mu.Unlock()
		return decreto.ErrEmployeeNotFound
	}
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func (s *Store) queryEmployees(ctx context.Context, query string, args ...any) ([]decreto.Employee, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []decreto.Employee
	for rows.Next() {
		var (
			e        decreto.Employee
			hireDate sql.NullString

			totalVac, usedVac, totalAdm, usedAdm, totalSick, usedSick string
		)
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastNamePaternal, &e.LastNameMaternal,
			&e.RUT, &e.Position, &e.Department, &hireDate, &e.Email,
			&totalVac, &usedVac, &totalAdm, &usedAdm, &totalSick, &usedSick); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.HireDate, _ = decreto.ParseDate(hireDate.String)
		e.TotalVacationDays = parseDecimal(totalVac)
		e.UsedVacationDays = parseDecimal(usedVac)
		e.TotalAdminDays = parseDecimal(totalAdm)
		e.UsedAdminDays = parseDecimal(usedAdm)
		e.TotalSickDays = parseDecimal(totalSick)
		e.UsedSickDays = parseDecimal(usedSick)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	for _, table := range []string{"decrees", "requests", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.journal.Clear()
	deliver := s.publishLocked(ctx)
	s.mu.Unlock()

	deliver()
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
