// Package calendar turns an exam date and a set of excluded dates into the
// ordered list of days a study plan may use.
package calendar

import (
	"sort"
	"time"
)

// DateLayout is the canonical calendar-date format used for keys,
// persistence and input files.
const DateLayout = "2006-01-02"

// Normalize truncates t to midnight in its own location. Callers are
// expected to pass dates already normalized in a consistent zone; this
// only strips a stray time-of-day.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Date returns the calendar day of t, in t's own zone, as midnight UTC.
// Dates read from input files and the database use this form.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key returns the YYYY-MM-DD form of the calendar day containing t.
func Key(t time.Time) string {
	return t.Format(DateLayout)
}

// Parse parses a YYYY-MM-DD date at midnight UTC.
func Parse(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// AddDays returns the calendar day n days after t.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = Normalize(a), Normalize(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// DaySet is a set of calendar days keyed by Key.
type DaySet map[string]struct{}

// NewDaySet builds a set from the given days.
func NewDaySet(days ...time.Time) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[Key(d)] = struct{}{}
	}
	return s
}

// Has reports whether the calendar day containing t is in the set.
func (s DaySet) Has(t time.Time) bool {
	_, ok := s[Key(t)]
	return ok
}

// EligibleDays returns every day from today+1 up to but excluding
// examDate, minus any day in skip. The result is ascending with no
// duplicates. An empty result means no plan is possible; it is not an
// error.
func EligibleDays(today, examDate time.Time, skip DaySet) []time.Time {
	today, examDate = Normalize(today), Normalize(examDate)
	if !examDate.After(today) {
		return nil
	}

	var days []time.Time
	for d := AddDays(today, 1); d.Before(examDate); d = AddDays(d, 1) {
		if skip.Has(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// SortDays sorts days ascending and drops duplicate calendar days.
func SortDays(days []time.Time) []time.Time {
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, Normalize(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	uniq := out[:0]
	for i, d := range out {
		if i > 0 && Key(d) == Key(out[i-1]) {
			continue
		}
		uniq = append(uniq, d)
	}
	return uniq
}
