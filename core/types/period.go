// Package types defines the domain model for the costing engine.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies a reporting month. Every input record carries one.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// Key returns the canonical period key, e.g. "2025-01"
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is unset
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// ParseMonth parses a month given as a name ("January"), an abbreviation
// ("Jan") or a number ("1", "01"). Returns false when it cannot be derived.
func ParseMonth(s string) (time.Month, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if m, ok := monthNames[s]; ok {
		return m, true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), true
	}
	return 0, false
}

// NewPeriod builds a Period from a month string and a year
func NewPeriod(month string, year int) (Period, bool) {
	m, ok := ParseMonth(month)
	if !ok || year < 1900 || year > 9999 {
		return Period{}, false
	}
	return Period{Month: m, Year: year}, true
}

// Filter restricts engine input to a period and optional dimensions.
// Zero values mean "no restriction".
type Filter struct {
	Month       string `json:"month,omitempty"`
	Year        int    `json:"year,omitempty"`
	Department  string `json:"department,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	PatientType string `json:"patient_type,omitempty"`
}

// MatchesPeriod reports whether a period passes the filter
func (f Filter) MatchesPeriod(p Period) bool {
	if f.Year != 0 && p.Year != f.Year {
		return false
	}
	if f.Month != "" {
		m, ok := ParseMonth(f.Month)
		if !ok || p.Month != m {
			return false
		}
	}
	return true
}
