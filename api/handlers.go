/*
handlers.go - HTTP API handlers for the decree ledger engine

PURPOSE:
  Exposes the decree engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Decrees:
    GET    /api/decrees                 Decree book (filters: rut, kind, year)
    POST   /api/decrees                 Submit a decree (full validation)
    GET    /api/decrees/{id}            Get one decree
    PUT    /api/decrees/{id}            Replace a decree (re-validated whole)
    DELETE /api/decrees/{id}            Hard delete ("baja")
    POST   /api/decrees/undo            Undo the latest decree mutation

  Balances:
    GET    /api/balances/{rut}          Resolved PA and FL balances
    GET    /api/alerts/low-balance      Employees under the warning threshold
    GET    /api/correlatives            Next decree numbers for a year

  Reporting:
    GET    /api/usage                   Roster with reconciled usage counters
    GET    /api/stats                   Monthly issuance aggregates
    GET    /api/on-leave                Who is away on a date

  Employees / Requests:
    GET/POST       /api/employees
    DELETE         /api/employees/{id}
    GET/POST       /api/requests
    POST           /api/requests/{id}/approve
    POST           /api/requests/{id}/reject
    DELETE         /api/requests/{id}

ARCHITECTURE:
  The handler subscribes to the record store and serves every read from
  the latest pushed snapshot; the snapshot reference is swapped whole,
  never patched. Writes go through the store and become visible with
  the next snapshot.

ERROR HANDLING:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Date conflict, nothing to undo
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gdpcloud/decreto-engine/decreto"
	"github.com/gdpcloud/decreto-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    store.RecordStore
	Calendar decreto.HolidayCalendar

	// BaseDaysPA is the PA entitlement for employees with no history.
	BaseDaysPA decimal.Decimal

	mu   sync.RWMutex
	snap store.Snapshot

	cancel store.CancelFunc
}

// NewHandler creates a handler and subscribes it to the store. The
// initial snapshot is delivered synchronously before NewHandler returns.
func NewHandler(st store.RecordStore, cal decreto.HolidayCalendar) *Handler {
	h := &Handler{
		Store:      st,
		Calendar:   cal,
		BaseDaysPA: decreto.DefaultBaseDaysPA,
	}
	h.cancel = st.SubscribeAll(func(s store.Snapshot) {
		h.mu.Lock()
		h.snap = s
		h.mu.Unlock()
	})
	return h
}

// Close detaches the handler from the store.
func (h *Handler) Close() {
	if h.cancel != nil {
		h.cancel()
	}
}

// snapshot returns the latest pushed snapshot.
func (h *Handler) snapshot() store.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

func (h *Handler) resolveOpts(excludeID string) decreto.ResolveOptions {
	return decreto.ResolveOptions{ExcludeID: excludeID, BaseDaysPA: h.BaseDaysPA}
}

// =============================================================================
// DECREE HANDLERS
// =============================================================================

// ListDecrees returns the decree book, newest first. Optional filters:
// ?rut=, ?kind=PA|FL, ?year=.
func (h *Handler) ListDecrees(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()

	rut := decreto.NormalizeRUT(r.URL.Query().Get("rut"))
	kind := decreto.Kind(r.URL.Query().Get("kind"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	var out []*decreto.Decree
	for _, d := range snap.Decrees {
		if rut != "" && decreto.NormalizeRUT(d.RUT) != rut {
			continue
		}
		if kind.Valid() && d.Kind != kind {
			continue
		}
		if year != 0 && (d.FechaInicio.IsZero() || d.FechaInicio.Year() != year) {
			continue
		}
		out = append(out, d)
	}

	writeJSON(w, http.StatusOK, toDecreeDTOs(out))
}

// GetDecree returns a single decree.
func (h *Handler) GetDecree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, d := range h.snapshot().Decrees {
		if d.ID == id {
			writeJSON(w, http.StatusOK, toDecreeDTO(d))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Decree not found", nil)
}

// CreateDecree validates and stores a new decree. Unset balance fields
// are prefilled from the ledger: PA's diasHaber from the head closing
// balance, FL's tranche draws from the dual-period allocation.
func (h *Handler) CreateDecree(w http.ResponseWriter, r *http.Request) {
	var req SubmitDecreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap := h.snapshot()
	d := fromSubmitRequest(req)
	h.prefill(snap.Decrees, d, "", req)

	if err := decreto.ValidateSubmission(snap.Decrees, d, "", h.Calendar); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.Store.AddDecree(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store decree", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDecreeDTO(d))
}

// UpdateDecree replaces a decree whole after re-running every
// validation as if it were newly created. The record is excluded from
// conflict checks against itself.
func (h *Handler) UpdateDecree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SubmitDecreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	snap := h.snapshot()
	d := fromSubmitRequest(req)
	d.ID = id
	h.prefill(snap.Decrees, d, id, req)

	if err := decreto.ValidateSubmission(snap.Decrees, d, id, h.Calendar); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.Store.UpdateDecree(r.Context(), d); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDecreeDTO(d))
}

// prefill fills the balance fields the client left unset.
func (h *Handler) prefill(decrees []*decreto.Decree, d *decreto.Decree, excludeID string, req SubmitDecreeRequest) {
	opts := h.resolveOpts(excludeID)
	switch d.Kind {
	case decreto.KindPA:
		if d.PA != nil && req.DiasHaber == nil {
			d.PA.DiasHaber = decreto.ResolveBalance(decrees, d.RUT, decreto.KindPA, opts)
		}
	case decreto.KindFL:
		if d.FL == nil {
			return
		}
		if req.Periodo1 == "" && req.SaldoDisponibleP1 == nil {
			sug := decreto.SuggestFL(decrees, d.RUT, excludeID)
			d.FL.Periodo1 = sug.Periodo
			d.FL.SaldoDisponibleP1 = sug.Saldo
		}
		if req.SolicitadoP1 == nil && req.SolicitadoP2 == nil {
			alloc := decreto.AllocateFL(d.CantidadDias, d.FL.SaldoDisponibleP1, d.FL.HasPeriod2())
			d.FL.SolicitadoP1 = alloc.SolicitadoP1
			d.FL.SolicitadoP2 = alloc.SolicitadoP2
		}
	}
}

// DeleteDecree is the explicit "baja": hard delete, no soft state.
func (h *Handler) DeleteDecree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteDecree(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UndoDecree reverses the latest decree mutation.
func (h *Handler) UndoDecree(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Undo(r.Context()); err != nil {
		if errors.Is(err, decreto.ErrNothingToUndo) {
			writeError(w, http.StatusConflict, "Nothing to undo", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to undo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// GetBalances resolves the current PA and FL balances for one RUT.
// ?kind=PA|FL narrows to one entitlement.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	rut := chi.URLParam(r, "rut")
	snap := h.snapshot()
	opts := h.resolveOpts(r.URL.Query().Get("excluding"))

	kinds := []decreto.Kind{decreto.KindPA, decreto.KindFL}
	if k := decreto.Kind(r.URL.Query().Get("kind")); k.Valid() {
		kinds = []decreto.Kind{k}
	}

	out := make([]BalanceDTO, 0, len(kinds))
	for _, k := range kinds {
		dto := BalanceDTO{
			RUT:     rut,
			Kind:    string(k),
			Balance: f64(decreto.ResolveBalance(snap.Decrees, rut, k, opts)),
		}
		if k == decreto.KindFL {
			dto.Periodo = decreto.SuggestFL(snap.Decrees, rut, opts.ExcludeID).Periodo
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetLowBalances returns the low-balance alerts, most depleted first.
func (h *Handler) GetLowBalances(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()
	alerts := decreto.LowBalances(snap.Decrees, h.resolveOpts(""))

	out := make([]LowBalanceDTO, len(alerts))
	for i, a := range alerts {
		out[i] = LowBalanceDTO{
			RUT:         a.RUT,
			Funcionario: a.Funcionario,
			Kind:        string(a.Kind),
			Balance:     f64(a.Balance),
			Critical:    a.Critical(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCorrelatives returns the next free decree numbers. ?year= defaults
// to the current year.
func (h *Handler) GetCorrelatives(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if year == 0 {
		year = time.Now().Year()
	}
	c := decreto.NextCorrelatives(h.snapshot().Decrees, year)
	writeJSON(w, http.StatusOK, CorrelativesDTO{Year: c.Year, NextPA: c.NextPA, NextFL: c.NextFL})
}

// =============================================================================
// REPORTING HANDLERS
// =============================================================================

// GetUsage returns the roster with usage counters reconciled for the
// reference year (?year=, default current).
func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if year == 0 {
		year = time.Now().Year()
	}
	snap := h.snapshot()
	employees := decreto.ReconcileUsage(snap.Employees, snap.Requests, snap.Decrees, year, h.Calendar)

	out := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		out[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStats returns issuance aggregates. With ?month= a single month,
// otherwise all twelve months of ?year=.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	if year == 0 {
		year = time.Now().Year()
	}
	snap := h.snapshot()

	if m, _ := strconv.Atoi(r.URL.Query().Get("month")); m >= 1 && m <= 12 {
		writeJSON(w, http.StatusOK, toMonthStatsDTO(decreto.MonthlyStats(snap.Decrees, year, time.Month(m))))
		return
	}

	ys := decreto.YearlyStats(snap.Decrees, year)
	out := make([]MonthStatsDTO, len(ys.Months))
	for i, ms := range ys.Months {
		out[i] = toMonthStatsDTO(ms)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOnLeave lists everyone away on ?date= (default today).
func (h *Handler) GetOnLeave(w http.ResponseWriter, r *http.Request) {
	day, err := decreto.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	if day.IsZero() {
		day = decreto.Today()
	}
	writeJSON(w, http.StatusOK, toDecreeDTOs(decreto.OnLeave(h.snapshot().Decrees, day)))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the roster.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot()
	out := make([]EmployeeDTO, len(snap.Employees))
	for i, e := range snap.Employees {
		out[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// SaveEmployee creates or updates a roster entry.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !decreto.ValidRUT(req.RUT) {
		writeError(w, http.StatusBadRequest, "Invalid RUT", decreto.ErrInvalidRUT)
		return
	}

	e := decreto.Employee{
		ID:                req.ID,
		FirstName:         req.FirstName,
		LastNamePaternal:  req.LastNamePaternal,
		LastNameMaternal:  req.LastNameMaternal,
		RUT:               req.RUT,
		Position:          req.Position,
		Department:        req.Department,
		Email:             req.Email,
		TotalVacationDays: decimal.NewFromFloat(req.TotalVacationDays),
		TotalAdminDays:    decimal.NewFromFloat(req.TotalAdminDays),
		TotalSickDays:     decimal.NewFromFloat(req.TotalSickDays),
	}
	e.HireDate, _ = decreto.ParseDate(req.HireDate)

	if err := h.Store.SaveEmployee(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(e))
}

// DeleteEmployee removes a roster entry.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE REQUEST HANDLERS
// =============================================================================

// ListRequests returns leave requests, optionally filtered by ?status=.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := decreto.RequestStatus(r.URL.Query().Get("status"))
	snap := h.snapshot()

	var out []LeaveRequestDTO
	for _, req := range snap.Requests {
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, toRequestDTO(req))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateRequest stores a new leave request as pending.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req LeaveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	lr := &decreto.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Type:       decreto.LeaveType(req.Type),
		DaysCount:  decimal.NewFromFloat(req.DaysCount),
		Status:     decreto.StatusPending,
		Shift:      decreto.Shift(req.Shift),
		Reason:     req.Reason,
	}
	lr.StartDate, _ = decreto.ParseDate(req.StartDate)
	lr.EndDate, _ = decreto.ParseDate(req.EndDate)

	if lr.StartDate.IsZero() {
		writeError(w, http.StatusBadRequest, "Start date is required", decreto.ErrValidation)
		return
	}
	if err := h.Store.AddRequest(r.Context(), lr); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(lr))
}

// ApproveRequest marks a pending request approved.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.setRequestStatus(w, r, decreto.StatusApproved)
}

// RejectRequest marks a pending request rejected.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.setRequestStatus(w, r, decreto.StatusRejected)
}

func (h *Handler) setRequestStatus(w http.ResponseWriter, r *http.Request, status decreto.RequestStatus) {
	id := chi.URLParam(r, "id")
	var target *decreto.LeaveRequest
	for _, req := range h.snapshot().Requests {
		if req.ID == id {
			target = req
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "Request not found", decreto.ErrRequestNotFound)
		return
	}

	updated := *target
	updated.Status = status
	if err := h.Store.UpdateRequest(r.Context(), &updated); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(&updated))
}

// DeleteRequest removes a leave request.
func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeValidationError maps domain validation failures onto HTTP codes:
// conflicts are 409 with the competing decree attached, everything else
// is 400 with per-field details.
func writeValidationError(w http.ResponseWriter, err error) {
	var conflict *decreto.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "Date range conflicts with an existing decree",
			Code:    "date_conflict",
			Details: toDecreeDTO(conflict.Conflicting),
		})
		return
	}

	var verrs decreto.ValidationErrors
	if errors.As(err, &verrs) {
		type fieldError struct {
			Field   string `json:"field"`
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		details := make([]fieldError, len(verrs))
		for i, ve := range verrs {
			details[i] = fieldError{Field: ve.Field, Code: ve.Code, Message: ve.Message}
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "validation",
			Details: details,
		})
		return
	}

	writeError(w, http.StatusBadRequest, "Validation failed", err)
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case decreto.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case decreto.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Store operation failed", err)
	}
}
