package calendar

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return d
}

func TestEligibleDays(t *testing.T) {
	today := mustParse(t, "2025-03-01")
	exam := mustParse(t, "2025-03-06")
	skip := NewDaySet(mustParse(t, "2025-03-03"))

	var got []string
	for _, d := range EligibleDays(today, exam, skip) {
		got = append(got, Key(d))
	}
	want := []string{"2025-03-02", "2025-03-04", "2025-03-05"}
	if len(got) != len(want) {
		t.Fatalf("EligibleDays = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEligibleDays_NoHorizon(t *testing.T) {
	today := mustParse(t, "2025-03-01")
	for _, exam := range []string{"2025-02-20", "2025-03-01", "2025-03-02"} {
		if days := EligibleDays(today, mustParse(t, exam), nil); len(days) != 0 {
			t.Errorf("exam %s: got %d days, want 0", exam, len(days))
		}
	}
}

func TestEligibleDays_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	exam := time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)
	if n := len(EligibleDays(today, exam, nil)); n != 2 {
		t.Errorf("got %d days, want 2", n)
	}
}

func TestEligibleDays_AcrossMonthEnd(t *testing.T) {
	days := EligibleDays(mustParse(t, "2024-02-27"), mustParse(t, "2024-03-02"), nil)
	if len(days) != 3 || Key(days[1]) != "2024-02-29" {
		t.Errorf("leap-year span wrong: %v", days)
	}
}

func TestDaysBetween(t *testing.T) {
	a := mustParse(t, "2025-03-01")
	if got := DaysBetween(a, mustParse(t, "2025-03-15")); got != 14 {
		t.Errorf("DaysBetween = %d, want 14", got)
	}
	if got := DaysBetween(mustParse(t, "2025-03-15"), a); got != -14 {
		t.Errorf("DaysBetween reversed = %d, want -14", got)
	}
}

func TestSortDays(t *testing.T) {
	in := []time.Time{
		mustParse(t, "2025-03-03"),
		mustParse(t, "2025-03-01"),
		mustParse(t, "2025-03-03").Add(5 * time.Hour),
	}
	out := SortDays(in)
	if len(out) != 2 || Key(out[0]) != "2025-03-01" || Key(out[1]) != "2025-03-03" {
		t.Errorf("SortDays = %v", out)
	}
}

func TestDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	d := Date(time.Date(2025, 3, 1, 2, 0, 0, 0, loc))
	if Key(d) != "2025-03-01" || d.Location() != time.UTC || d.Hour() != 0 {
		t.Errorf("Date = %v", d)
	}
}
