package decreto_test

import (
	"testing"
	"time"

	"github.com/gdpcloud/decreto-engine/decreto"
)

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate_Empty_IsZeroWithoutError(t *testing.T) {
	d, err := decreto.ParseDate("")
	if err != nil {
		t.Fatalf("empty input should not error, got %v", err)
	}
	if !d.IsZero() {
		t.Fatalf("empty input should yield the zero date, got %s", d)
	}
}

func TestParseDate_Malformed_Errors(t *testing.T) {
	for _, in := range []string{"10-03-2025", "2025/03/10", "not-a-date"} {
		if _, err := decreto.ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q) should fail", in)
		}
	}
}

func TestDate_Weekend(t *testing.T) {
	if decreto.MustDate("2025-03-10").IsWeekend() { // Monday
		t.Error("2025-03-10 is a Monday, not a weekend")
	}
	if !decreto.MustDate("2025-03-08").IsWeekend() { // Saturday
		t.Error("2025-03-08 is a Saturday")
	}
	if !decreto.MustDate("2025-03-09").IsWeekend() { // Sunday
		t.Error("2025-03-09 is a Sunday")
	}
}

// =============================================================================
// DAY COUNTING
// =============================================================================

func TestCountDays_BusinessDays_SkipsWeekend(t *testing.T) {
	// GIVEN: An FL leave spanning Mon Mar 10 through Mon Mar 17 2025
	// WHEN: Counting its consumed days
	// THEN: The weekend in between is skipped: 6 business days

	got := decreto.CountDays(
		decreto.MustDate("2025-03-10"), decreto.MustDate("2025-03-17"),
		decreto.LeaveLegalHoliday, decreto.ShiftFull, decreto.NoHolidays{})
	if !got.Equal(dec(6)) {
		t.Fatalf("want 6 business days, got %s", got)
	}
}

func TestCountDays_BusinessDays_SkipsHolidays(t *testing.T) {
	// GIVEN: A PA leave covering May 1 2025 (Labor Day)
	// WHEN: Counting with the Chilean calendar
	// THEN: The holiday does not count

	got := decreto.CountDays(
		decreto.MustDate("2025-04-30"), decreto.MustDate("2025-05-02"),
		decreto.LeaveAdministrative, decreto.ShiftFull, decreto.ChileanHolidays())
	if !got.Equal(dec(2)) {
		t.Fatalf("want 2 days (May 1 excluded), got %s", got)
	}
}

func TestCountDays_SickLeave_CountsCalendarDays(t *testing.T) {
	// Sick leave runs through weekends: Mar 7 (Fri) .. Mar 10 (Mon) = 4 days.
	got := decreto.CountDays(
		decreto.MustDate("2025-03-07"), decreto.MustDate("2025-03-10"),
		decreto.LeaveSick, decreto.ShiftFull, decreto.ChileanHolidays())
	if !got.Equal(dec(4)) {
		t.Fatalf("want 4 calendar days, got %s", got)
	}
}

func TestCountDays_HalfShift_CountsHalf(t *testing.T) {
	got := decreto.CountDays(
		decreto.MustDate("2025-03-10"), decreto.MustDate("2025-03-10"),
		decreto.LeaveAdministrative, decreto.ShiftMorning, decreto.NoHolidays{})
	if !got.Equal(dec(0.5)) {
		t.Fatalf("want 0.5 for a morning shift, got %s", got)
	}
}

func TestCountDays_InvertedRange_IsZero(t *testing.T) {
	got := decreto.CountDays(
		decreto.MustDate("2025-03-17"), decreto.MustDate("2025-03-10"),
		decreto.LeaveAdministrative, decreto.ShiftFull, nil)
	if !got.IsZero() {
		t.Fatalf("inverted range should count zero, got %s", got)
	}
}

func TestDaysBetween(t *testing.T) {
	from := decreto.MustDate("2025-03-10")
	if n := decreto.DaysBetween(from, decreto.MustDate("2025-03-14")); n != 4 {
		t.Errorf("want 4, got %d", n)
	}
	if n := decreto.DaysBetween(from, from); n != 0 {
		t.Errorf("want 0, got %d", n)
	}
	if n := decreto.DaysBetween(from, decreto.MustDate("2025-03-08")); n != -2 {
		t.Errorf("want -2, got %d", n)
	}
}

func TestDate_AddDays_CrossesMonth(t *testing.T) {
	d := decreto.MustDate("2025-03-30").AddDays(3)
	if d.Month() != time.April || d.Day() != 2 {
		t.Fatalf("want 2025-04-02, got %s", d)
	}
}
