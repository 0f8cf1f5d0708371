/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

FIELD NAMES:
  Decree fields keep the Spanish ledger vocabulary (acto, funcionario,
  cantidadDias, saldoFinal) because they mirror the printed decree book.

VALIDATION:
  Validation is done by the domain package, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - decreto/types.go: The domain model behind them
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// DecreeDTO represents a decree in API responses. Closing balances are
// computed, never stored.
type DecreeDTO struct {
	ID            string  `json:"id"`
	CreatedAt     string  `json:"created_at,omitempty"`
	SolicitudType string  `json:"solicitudType"`
	Acto          string  `json:"acto,omitempty"`
	Materia       string  `json:"materia,omitempty"`
	Funcionario   string  `json:"funcionario"`
	RUT           string  `json:"rut"`
	Periodo       string  `json:"periodo,omitempty"`
	CantidadDias  float64 `json:"cantidadDias"`
	FechaInicio   string  `json:"fechaInicio,omitempty"`
	FechaDecreto  string  `json:"fechaDecreto,omitempty"`
	TipoJornada   string  `json:"tipoJornada,omitempty"`
	RA            string  `json:"ra,omitempty"`
	Emite         string  `json:"emite,omitempty"`
	Observacion   string  `json:"observacion,omitempty"`

	// PA only
	DiasHaber  *float64 `json:"diasHaber,omitempty"`
	SaldoFinal *float64 `json:"saldoFinal,omitempty"`

	// FL only
	FechaTermino      string   `json:"fechaTermino,omitempty"`
	Periodo1          string   `json:"periodo1,omitempty"`
	SaldoDisponibleP1 *float64 `json:"saldoDisponibleP1,omitempty"`
	SolicitadoP1      *float64 `json:"solicitadoP1,omitempty"`
	SaldoFinalP1      *float64 `json:"saldoFinalP1,omitempty"`
	Periodo2          string   `json:"periodo2,omitempty"`
	SaldoDisponibleP2 *float64 `json:"saldoDisponibleP2,omitempty"`
	SolicitadoP2      *float64 `json:"solicitadoP2,omitempty"`
	SaldoFinalP2      *float64 `json:"saldoFinalP2,omitempty"`
}

// SubmitDecreeRequest is the request to create or replace a decree.
type SubmitDecreeRequest struct {
	SolicitudType string  `json:"solicitudType"`
	Acto          string  `json:"acto"`
	Materia       string  `json:"materia"`
	Funcionario   string  `json:"funcionario"`
	RUT           string  `json:"rut"`
	Periodo       string  `json:"periodo"`
	CantidadDias  float64 `json:"cantidadDias"`
	FechaInicio   string  `json:"fechaInicio"`
	FechaDecreto  string  `json:"fechaDecreto"`
	TipoJornada   string  `json:"tipoJornada"`
	RA            string  `json:"ra"`
	Emite         string  `json:"emite"`
	Observacion   string  `json:"observacion"`

	DiasHaber *float64 `json:"diasHaber,omitempty"`

	FechaTermino      string   `json:"fechaTermino,omitempty"`
	Periodo1          string   `json:"periodo1,omitempty"`
	SaldoDisponibleP1 *float64 `json:"saldoDisponibleP1,omitempty"`
	SolicitadoP1      *float64 `json:"solicitadoP1,omitempty"`
	Periodo2          string   `json:"periodo2,omitempty"`
	SaldoDisponibleP2 *float64 `json:"saldoDisponibleP2,omitempty"`
	SolicitadoP2      *float64 `json:"solicitadoP2,omitempty"`
}

// BalanceDTO is the resolved balance for one employee and kind.
type BalanceDTO struct {
	RUT     string  `json:"rut"`
	Kind    string  `json:"kind"`
	Balance float64 `json:"balance"`
	// Suggested prefill for a new FL decree.
	Periodo string `json:"periodo,omitempty"`
}

// LowBalanceDTO is one low-balance alert row.
type LowBalanceDTO struct {
	RUT         string  `json:"rut"`
	Funcionario string  `json:"funcionario"`
	Kind        string  `json:"kind"`
	Balance     float64 `json:"balance"`
	Critical    bool    `json:"critical"`
}

// CorrelativesDTO carries the next decree numbers for a year.
type CorrelativesDTO struct {
	Year   int    `json:"year"`
	NextPA string `json:"nextPA"`
	NextFL string `json:"nextFL"`
}

// EmployeeDTO represents a roster entry with usage counters.
type EmployeeDTO struct {
	ID                string  `json:"id"`
	FirstName         string  `json:"firstName"`
	LastNamePaternal  string  `json:"lastNamePaternal,omitempty"`
	LastNameMaternal  string  `json:"lastNameMaternal,omitempty"`
	RUT               string  `json:"rut"`
	Position          string  `json:"position,omitempty"`
	Department        string  `json:"department,omitempty"`
	HireDate          string  `json:"hireDate,omitempty"`
	Email             string  `json:"email,omitempty"`
	TotalVacationDays float64 `json:"totalVacationDays"`
	UsedVacationDays  float64 `json:"usedVacationDays"`
	TotalAdminDays    float64 `json:"totalAdminDays"`
	UsedAdminDays     float64 `json:"usedAdminDays"`
	TotalSickDays     float64 `json:"totalSickDays"`
	UsedSickDays      float64 `json:"usedSickDays"`
}

// LeaveRequestDTO represents a pre-decree leave request.
type LeaveRequestDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Type       string  `json:"type"`
	StartDate  string  `json:"startDate,omitempty"`
	EndDate    string  `json:"endDate,omitempty"`
	DaysCount  float64 `json:"daysCount"`
	Status     string  `json:"status"`
	Shift      string  `json:"shift,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// MonthStatsDTO aggregates one month of issuance.
type MonthStatsDTO struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	DecreesPA int     `json:"decreesPA"`
	DecreesFL int     `json:"decreesFL"`
	DaysPA    float64 `json:"daysPA"`
	DaysFL    float64 `json:"daysFL"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func f64p(d decimal.Decimal) *float64 {
	f := f64(d)
	return &f
}

func toDecreeDTO(d *decreto.Decree) DecreeDTO {
	dto := DecreeDTO{
		ID:            d.ID,
		SolicitudType: string(d.Kind),
		Acto:          d.Acto,
		Materia:       d.Materia,
		Funcionario:   d.Funcionario,
		RUT:           d.RUT,
		Periodo:       d.Periodo,
		CantidadDias:  f64(d.CantidadDias),
		FechaInicio:   d.FechaInicio.String(),
		FechaDecreto:  d.FechaDecreto.String(),
		TipoJornada:   string(d.TipoJornada),
		RA:            d.RA,
		Emite:         d.Emite,
		Observacion:   d.Observacion,
	}
	if !d.CreatedAt.IsZero() {
		dto.CreatedAt = d.CreatedAt.Format(time.RFC3339)
	}
	if d.PA != nil {
		dto.DiasHaber = f64p(d.PA.DiasHaber)
		dto.SaldoFinal = f64p(d.SaldoFinal())
	}
	if d.FL != nil {
		dto.FechaTermino = d.FL.FechaTermino.String()
		dto.Periodo1 = d.FL.Periodo1
		dto.SaldoDisponibleP1 = f64p(d.FL.SaldoDisponibleP1)
		dto.SolicitadoP1 = f64p(d.FL.SolicitadoP1)
		dto.SaldoFinalP1 = f64p(d.FL.CloseP1())
		if d.FL.HasPeriod2() {
			dto.Periodo2 = d.FL.Periodo2
			dto.SaldoDisponibleP2 = f64p(d.FL.SaldoDisponibleP2)
			dto.SolicitadoP2 = f64p(d.FL.SolicitadoP2)
			dto.SaldoFinalP2 = f64p(d.FL.CloseP2())
		}
	}
	return dto
}

func toDecreeDTOs(ds []*decreto.Decree) []DecreeDTO {
	dtos := make([]DecreeDTO, len(ds))
	for i, d := range ds {
		dtos[i] = toDecreeDTO(d)
	}
	return dtos
}

// fromSubmitRequest builds the domain record; date parse failures
// surface as validation errors downstream via a zero Date.
func fromSubmitRequest(req SubmitDecreeRequest) *decreto.Decree {
	d := &decreto.Decree{
		Kind:         decreto.Kind(req.SolicitudType),
		Acto:         req.Acto,
		Materia:      req.Materia,
		Funcionario:  req.Funcionario,
		RUT:          req.RUT,
		Periodo:      req.Periodo,
		CantidadDias: decimal.NewFromFloat(req.CantidadDias),
		TipoJornada:  decreto.Shift(req.TipoJornada),
		RA:           req.RA,
		Emite:        req.Emite,
		Observacion:  req.Observacion,
	}
	d.FechaInicio, _ = decreto.ParseDate(req.FechaInicio)
	d.FechaDecreto, _ = decreto.ParseDate(req.FechaDecreto)

	switch d.Kind {
	case decreto.KindPA:
		pa := &decreto.PADetail{}
		if req.DiasHaber != nil {
			pa.DiasHaber = decimal.NewFromFloat(*req.DiasHaber)
		}
		d.PA = pa
	case decreto.KindFL:
		fl := &decreto.FLDetail{
			Periodo1: req.Periodo1,
			Periodo2: req.Periodo2,
		}
		fl.FechaTermino, _ = decreto.ParseDate(req.FechaTermino)
		if req.SaldoDisponibleP1 != nil {
			fl.SaldoDisponibleP1 = decimal.NewFromFloat(*req.SaldoDisponibleP1)
		}
		if req.SolicitadoP1 != nil {
			fl.SolicitadoP1 = decimal.NewFromFloat(*req.SolicitadoP1)
		}
		if req.SaldoDisponibleP2 != nil {
			fl.SaldoDisponibleP2 = decimal.NewFromFloat(*req.SaldoDisponibleP2)
		}
		if req.SolicitadoP2 != nil {
			fl.SolicitadoP2 = decimal.NewFromFloat(*req.SolicitadoP2)
		}
		d.FL = fl
	}
	return d
}

func toEmployeeDTO(e decreto.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:                e.ID,
		FirstName:         e.FirstName,
		LastNamePaternal:  e.LastNamePaternal,
		LastNameMaternal:  e.LastNameMaternal,
		RUT:               e.RUT,
		Position:          e.Position,
		Department:        e.Department,
		HireDate:          e.HireDate.String(),
		Email:             e.Email,
		TotalVacationDays: f64(e.TotalVacationDays),
		UsedVacationDays:  f64(e.UsedVacationDays),
		TotalAdminDays:    f64(e.TotalAdminDays),
		UsedAdminDays:     f64(e.UsedAdminDays),
		TotalSickDays:     f64(e.TotalSickDays),
		UsedSickDays:      f64(e.UsedSickDays),
	}
}

func toRequestDTO(r *decreto.LeaveRequest) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Type:       string(r.Type),
		StartDate:  r.StartDate.String(),
		EndDate:    r.EndDate.String(),
		DaysCount:  f64(r.DaysCount),
		Status:     string(r.Status),
		Shift:      string(r.Shift),
		Reason:     r.Reason,
	}
}

func toMonthStatsDTO(s decreto.MonthStats) MonthStatsDTO {
	return MonthStatsDTO{
		Year:      s.Year,
		Month:     int(s.Month),
		DecreesPA: s.DecreesPA,
		DecreesFL: s.DecreesFL,
		DaysPA:    f64(s.DaysPA),
		DaysFL:    f64(s.DaysFL),
	}
}
