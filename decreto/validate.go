/*
validate.go - Submission validation and correlative numbering

PURPOSE:
  Every decree is validated in full before any write is attempted:
  required fields, RUT check digit, date sanity, day-count bounds,
  FL period consistency, and the cross-decree date conflict. A failed
  submission is rejected whole - there is no partial save.

KEY CONCEPTS:
  - RUT: Chilean national id, validated with the mod-11 check digit.
  - Correlatives: decree numbers are issued per kind per year as
    "N/yyyy"; the next number is one past the highest already used.
  - Weekend starts are rejected: leave never begins on a Saturday or
    Sunday.

SEE ALSO:
  - periods.go: FL-specific consistency rules
  - conflict.go: Overlap check run as the last gate
*/
package decreto

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxCantidadDias caps a single decree's day count.
var MaxCantidadDias = decimal.NewFromInt(30)

// =============================================================================
// RUT VALIDATION
// =============================================================================

var rutClean = regexp.MustCompile(`[^0-9kK]`)

// NormalizeRUT strips dots and dashes and upper-cases the check digit:
// "12.345.678-9" -> "123456789".
func NormalizeRUT(rut string) string {
	return strings.ToUpper(rutClean.ReplaceAllString(rut, ""))
}

// ValidRUT reports whether a RUT passes the mod-11 check digit.
// Accepts formatted ("12.345.678-9") and bare ("123456789") input.
func ValidRUT(rut string) bool {
	clean := NormalizeRUT(rut)
	if len(clean) < 2 {
		return false
	}
	body, dv := clean[:len(clean)-1], clean[len(clean)-1:]
	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}
	rem := 11 - sum%11
	var expected string
	switch rem {
	case 11:
		expected = "0"
	case 10:
		expected = "K"
	default:
		expected = strconv.Itoa(rem)
	}
	return dv == expected
}

// =============================================================================
// SUBMISSION VALIDATION
// =============================================================================

// ValidateSubmission runs every submission rule against a candidate
// decree, including the conflict scan over existing decrees. When the
// candidate is an edit, set excludeID to its own id so it doesn't
// collide with itself. Returns nil when the submission is acceptable.
func ValidateSubmission(existing []*Decree, d *Decree, excludeID string, cal HolidayCalendar) error {
	var errs ValidationErrors

	if !d.Kind.Valid() {
		errs = append(errs, &ValidationError{
			Field: "solicitudType", Code: "invalid",
			Message: fmt.Sprintf("unknown decree kind %q", d.Kind),
		})
	}
	if strings.TrimSpace(d.Funcionario) == "" {
		errs = append(errs, &ValidationError{
			Field: "funcionario", Code: "required",
			Message: "employee name is required",
		})
	}
	if strings.TrimSpace(d.RUT) == "" {
		errs = append(errs, &ValidationError{
			Field: "rut", Code: "required",
			Message: "RUT is required",
		})
	} else if !ValidRUT(d.RUT) {
		errs = append(errs, &ValidationError{
			Field: "rut", Code: "invalid",
			Message: fmt.Sprintf("RUT %q fails the check digit", d.RUT),
		})
	}

	if d.FechaInicio.IsZero() {
		errs = append(errs, &ValidationError{
			Field: "fechaInicio", Code: "required",
			Message: "start date is required",
		})
	} else if d.FechaInicio.IsWeekend() {
		errs = append(errs, &ValidationError{
			Field: "fechaInicio", Code: "weekend",
			Message: "leave cannot start on a weekend",
		})
	} else if cal != nil && cal.IsHoliday(d.FechaInicio) {
		errs = append(errs, &ValidationError{
			Field: "fechaInicio", Code: "holiday",
			Message: "leave cannot start on a holiday",
		})
	}

	if !d.CantidadDias.IsPositive() {
		errs = append(errs, &ValidationError{
			Field: "cantidadDias", Code: "out_of_range",
			Message: "day count must be greater than zero",
		})
	} else if d.CantidadDias.GreaterThan(MaxCantidadDias) {
		errs = append(errs, &ValidationError{
			Field: "cantidadDias", Code: "out_of_range",
			Message: fmt.Sprintf("day count exceeds the maximum of %s", MaxCantidadDias),
		})
	}

	switch d.Kind {
	case KindPA:
		if d.PA == nil {
			errs = append(errs, &ValidationError{
				Field: "diasHaber", Code: "required",
				Message: "administrative decree is missing its opening balance",
			})
		}
		// PA may close negative: overdraws are tolerated at issuance
		// and surfaced as a standing alert instead.
	case KindFL:
		errs = append(errs, ValidateFL(d)...)
	}

	if len(errs) > 0 {
		return errs
	}

	if candidate := d.Interval(); candidate.Valid() {
		if err := CheckConflict(existing, candidate, d.RUT, excludeID); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// CORRELATIVE NUMBERING
// =============================================================================

var correlativeRe = regexp.MustCompile(`^(\d+)/(\d{4})$`)

// Correlatives holds the next decree number per kind for one year.
type Correlatives struct {
	Year   int
	NextPA string
	NextFL string
}

// NextCorrelatives scans the ledger for "N/yyyy" decree numbers of the
// given year and returns the next free number per kind. Numbers outside
// the year, or in other formats, don't advance the sequence.
func NextCorrelatives(decrees []*Decree, year int) Correlatives {
	maxN := map[Kind]int{}
	for _, d := range decrees {
		m := correlativeRe.FindStringSubmatch(strings.TrimSpace(d.Acto))
		if m == nil {
			continue
		}
		y, _ := strconv.Atoi(m[2])
		if y != year {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		if n > maxN[d.Kind] {
			maxN[d.Kind] = n
		}
	}
	return Correlatives{
		Year:   year,
		NextPA: fmt.Sprintf("%d/%d", maxN[KindPA]+1, year),
		NextFL: fmt.Sprintf("%d/%d", maxN[KindFL]+1, year),
	}
}
