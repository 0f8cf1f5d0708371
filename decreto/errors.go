/*
errors.go - Centralized error types for the decree engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is() on the sentinels; structured errors
  carry the detail needed for API responses.

ERROR CATEGORIES:
  1. Validation errors - Submission rule violations
  2. Conflict errors - Overlapping leave intervals
  3. Store errors - Persistence-level failures

SEE ALSO:
  - validate.go: Produces ValidationError
  - conflict.go: Produces ConflictError
  - store/: Wraps ErrDecreeNotFound and friends
*/
package decreto

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDecreeNotFound is returned when a referenced decree doesn't exist.
	ErrDecreeNotFound = errors.New("decree not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced leave request doesn't exist.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrValidation is the base of every submission rule violation.
	ErrValidation = errors.New("validation failed")

	// ErrDateConflict is returned when a decree's interval overlaps an
	// already registered one for the same person.
	ErrDateConflict = errors.New("date range conflicts with existing decree")

	// ErrInvalidRUT is returned when a RUT fails the mod-11 check.
	ErrInvalidRUT = errors.New("invalid RUT")

	// ErrInvalidKind is returned for an unrecognized decree kind.
	ErrInvalidKind = errors.New("invalid decree kind")

	// ErrInvalidRange is returned when an interval ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrNothingToUndo is returned when the undo journal is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrStoreClosed is returned by store operations after shutdown.
	ErrStoreClosed = errors.New("store is closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a field-level submission failure.
type ValidationError struct {
	Field   string // e.g., "cantidadDias", "rut", "fechaInicio"
	Code    string // e.g., "required", "out_of_range", "weekend"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s (%s): %s", e.Field, e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationErrors aggregates every failure found in one submission so
// the caller can surface all of them at once.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("validation failed: %d errors (first: %s)", len(e), e[0].Message)
}

func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}

// ConflictError reports the concrete decree a candidate interval collides with.
type ConflictError struct {
	RUT         string
	Conflicting *Decree
	Candidate   Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("date range %s..%s conflicts with decree %s (%s..%s)",
		e.Candidate.Start, e.Candidate.End,
		e.Conflicting.ID, e.Conflicting.Interval().Start, e.Conflicting.Interval().End)
}

func (e *ConflictError) Unwrap() error {
	return ErrDateConflict
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDateConflict) ||
		errors.Is(err, ErrInvalidRUT) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidRange)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDecreeNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}
