/*
Package decreto implements the decree ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking the
  two leave entitlements of institutional employees:

    PA (Permiso Administrativo) - a discretionary day-bank with a single
        running balance carried decree to decree.
    FL (Feriado Legal) - the statutory vacation entitlement, tracked across
        up to two carry-over periods ("tramos").

  Every consumption of days is recorded as an immutable administrative
  record (a "decreto"). Balances are never stored as mutable counters:
  they are resolved from the decree history.

KEY CONCEPTS IN THIS FILE (types.go):
  - Decree: the immutable administrative record, a tagged union over its
    kind (PA-only and FL-only fields live in their own detail structs)
  - LeaveRequest: the pre-decree workflow item feeding the usage reconciler
  - Employee: roster entry with per-entitlement usage counters

DESIGN PRINCIPLES:
  1. Immutability: decrees are replaced whole on edit, never patched
  2. Precision: decimal.Decimal for all day quantities (half-day steps)
  3. Type safety: the Kind discriminant decides which detail struct is
     valid; PA fields cannot leak into an FL record or vice versa

SEE ALSO:
  - balance.go: balance resolution from the decree history
  - periods.go: the FL dual-period allocator
  - conflict.go: date-range conflict detection
  - usage.go: yearly usage reconciliation
*/
package decreto

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - The tagged-union discriminant
// =============================================================================

// Kind identifies which entitlement a decree consumes.
type Kind string

const (
	KindPA Kind = "PA" // Permiso Administrativo
	KindFL Kind = "FL" // Feriado Legal
)

func (k Kind) Valid() bool { return k == KindPA || k == KindFL }

// Label returns the human-readable name used in validation messages.
func (k Kind) Label() string {
	if k == KindPA {
		return "Permiso Administrativo"
	}
	return "Feriado Legal"
}

// =============================================================================
// SHIFTS AND LEAVE TYPES (request-side vocabulary)
// =============================================================================

// Shift is the work shift a leave occupies. Half-day shifts count 0.5.
type Shift string

const (
	ShiftFull      Shift = "Jornada Completa"
	ShiftMorning   Shift = "Jornada Manana"
	ShiftAfternoon Shift = "Jornada Tarde"
)

// IsHalf reports whether the shift consumes half days.
func (s Shift) IsHalf() bool { return s == ShiftMorning || s == ShiftAfternoon }

// LeaveType categorizes a leave request. FL and PA types count business
// days only; the remaining types count calendar days.
type LeaveType string

const (
	LeaveLegalHoliday   LeaveType = "Feriado Legal"
	LeaveAdministrative LeaveType = "Permiso Administrativo"
	LeaveSick           LeaveType = "Licencia Medica"
	LeaveWithoutPay     LeaveType = "Permiso Sin Goce de Sueldo"
	LeaveParental       LeaveType = "Permiso Post Natal Parental"
)

// Kind maps a request leave type onto the decree kind it would become.
// Types with no decree equivalent (sick leave and the unpaid/parental
// permits) return false.
func (lt LeaveType) Kind() (Kind, bool) {
	switch lt {
	case LeaveLegalHoliday:
		return KindFL, true
	case LeaveAdministrative:
		return KindPA, true
	default:
		return "", false
	}
}

// CountsCalendarDays reports whether the leave type consumes every
// calendar day in its range rather than business days only.
func (lt LeaveType) CountsCalendarDays() bool {
	switch lt {
	case LeaveSick, LeaveWithoutPay, LeaveParental:
		return true
	default:
		return false
	}
}

// RequestStatus is the approval lifecycle of a leave request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pendiente"
	StatusApproved RequestStatus = "Aprobado"
	StatusRejected RequestStatus = "Rechazado"
)

// =============================================================================
// DECREE - Immutable administrative record (tagged union)
// =============================================================================

// PADetail holds the fields only valid on a PA decree.
type PADetail struct {
	// DiasHaber is the balance BEFORE this decree's consumption, carried
	// from the prior decree's closing balance or the configured base.
	DiasHaber decimal.Decimal
}

// FLDetail holds the fields only valid on an FL decree. The second tranche
// is optional: when Periodo2 is blank, both P2 amounts must be zero.
type FLDetail struct {
	FechaTermino Date

	Periodo1          string
	SaldoDisponibleP1 decimal.Decimal
	SolicitadoP1      decimal.Decimal

	Periodo2          string
	SaldoDisponibleP2 decimal.Decimal
	SolicitadoP2      decimal.Decimal
}

// Decree is one issued administrative act consuming leave days.
//
// INVARIANTS:
//   - Exactly one of PA / FL is non-nil, matching Kind.
//   - Append-only: edits replace the whole record after re-validation;
//     there is no partial mutation.
//   - Closing balances are computed (SaldoFinal, ClosingBalance), never
//     taken from input.
type Decree struct {
	ID        string
	CreatedAt time.Time // ingestion timestamp, used only to break ordering ties

	Kind         Kind
	Acto         string // correlative decree number, e.g. "12/2025"
	Materia      string
	Funcionario  string
	RUT          string
	Periodo      string
	CantidadDias decimal.Decimal
	FechaInicio  Date
	FechaDecreto Date
	TipoJornada  Shift
	RA           string
	Emite        string
	Observacion  string

	PA *PADetail
	FL *FLDetail
}

// SaldoFinal returns the PA closing balance (diasHaber - cantidadDias).
// It may be negative: PA overdrafts are tolerated once issued and are
// surfaced through the low-balance alerts instead of being rejected.
func (d *Decree) SaldoFinal() decimal.Decimal {
	if d.PA == nil {
		return decimal.Zero
	}
	return d.PA.DiasHaber.Sub(d.CantidadDias)
}

// ClosingBalance returns the balance left after this decree, whichever
// kind it is. For FL this follows the dual-period rule (periods.go).
func (d *Decree) ClosingBalance() decimal.Decimal {
	if d.Kind == KindPA {
		return d.SaldoFinal()
	}
	return d.FL.FinalBalance()
}

// =============================================================================
// LEAVE REQUEST - Pre-decree workflow item
// =============================================================================

// LeaveRequest is a leave petition submitted on behalf of an employee.
// Only approved requests feed the usage reconciler, and only when no
// decree already covers the same (rut, kind, start date).
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	StartDate  Date
	EndDate    Date
	DaysCount  decimal.Decimal
	Status     RequestStatus
	Shift      Shift
	Reason     string
}

// =============================================================================
// EMPLOYEE - Roster entry with usage counters
// =============================================================================

// Employee is a funcionario in the institution. Totals are entitlement
// caps; the Used* counters are recomputed by the usage reconciler and
// never adjusted in place.
type Employee struct {
	ID                string
	FirstName         string
	LastNamePaternal  string
	LastNameMaternal  string
	RUT               string
	Position          string
	Department        string
	HireDate          Date
	Email             string
	TotalVacationDays decimal.Decimal
	UsedVacationDays  decimal.Decimal
	TotalAdminDays    decimal.Decimal
	UsedAdminDays     decimal.Decimal
	TotalSickDays     decimal.Decimal
	UsedSickDays      decimal.Decimal
}

// FullName joins the employee's name parts.
func (e Employee) FullName() string {
	name := e.FirstName + " " + e.LastNamePaternal
	if e.LastNameMaternal != "" {
		name += " " + e.LastNameMaternal
	}
	return name
}
