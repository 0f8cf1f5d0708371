/*
conflict.go - Overlap detection across an employee's decrees

PURPOSE:
  One employee cannot hold two leaves on the same calendar day, whether
  the leaves are of the same kind or not: an administrative permit and a
  legal holiday on the same date are mutually exclusive.

KEY CONCEPTS:
  - The candidate's interval comes from the same derivation every other
    consumer uses (interval.go). No valid start date means no conflict
    can be determined, so the check fails closed.
  - The returned conflict is deterministic: among all colliding decrees
    the one with the earliest start date wins; same start date, lowest
    id wins. Callers always see the same competing decree regardless of
    store iteration order.

SEE ALSO:
  - interval.go: The single definition of occupied days
  - validate.go: Runs this as part of submission validation
*/
package decreto

// FindConflict scans decrees for one whose interval overlaps the
// candidate interval for the same RUT. excludeID skips the decree
// being edited. Returns nil when there is no collision or when the
// candidate interval is invalid.
func FindConflict(decrees []*Decree, candidate Interval, rut string, excludeID string) *Decree {
	if !candidate.Valid() {
		return nil
	}
	want := NormalizeRUT(rut)
	var found *Decree
	for _, d := range decrees {
		if NormalizeRUT(d.RUT) != want || d.ID == excludeID {
			continue
		}
		iv := d.Interval()
		if !iv.Valid() || !candidate.Overlaps(iv) {
			continue
		}
		if found == nil || earlierConflict(d, found) {
			found = d
		}
	}
	return found
}

// earlierConflict orders colliding decrees: earliest start first,
// lowest id on ties.
func earlierConflict(a, b *Decree) bool {
	if !a.FechaInicio.Equal(b.FechaInicio) {
		return a.FechaInicio.Before(b.FechaInicio)
	}
	return a.ID < b.ID
}

// CheckConflict is the error-returning form used by submission
// validation: a collision becomes a *ConflictError.
func CheckConflict(decrees []*Decree, candidate Interval, rut string, excludeID string) error {
	if c := FindConflict(decrees, candidate, rut, excludeID); c != nil {
		return &ConflictError{RUT: rut, Conflicting: c, Candidate: candidate}
	}
	return nil
}
