// Package holiday holds the region-keyed holiday definitions, the date
// computation engine that expands them over the compilation window, and the
// persistent identifier store embedded in each definition.
package holiday

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"holcal/internal/easter"
)

// Fixed is a holiday that falls on the same month/day every year.
type Fixed struct {
	// Date is the "MMDD" calendar date, e.g. "0101" for January 1st.
	Date string
	// IDs is the persisted identifier store for this holiday.
	IDs Store
}

// Movable is a holiday computed as a signed day offset from the per-year
// anchor, the Saturday preceding Easter Sunday.
type Movable struct {
	// Diff is the offset encoded as "P<n>D" / "P-<n>D", e.g. "P-1D".
	Diff string
	// IDs is the persisted identifier store for this holiday.
	IDs Store
}

// Region groups the holiday definitions of one region. Holiday names are
// unique keys within each map. Fields are declared in sorted-key order so
// the saved JSON matches the original file's sorted formatting.
type Region struct {
	Easter map[string]*Movable `json:"easter,omitempty"`
	Repeat map[string]*Fixed   `json:"repeat,omitempty"`
}

// Definitions is the full region-keyed definitions document.
type Definitions map[string]*Region

// ParseOffset parses the restricted ISO-8601-like day offset used by
// movable holidays: "P" followed by an optionally-signed integer day count
// followed by "D". Week/month/year components are not supported.
func ParseOffset(s string) (int, error) {
	rest, ok := strings.CutPrefix(s, "P")
	if !ok {
		return 0, fmt.Errorf("malformed day offset %q: missing P prefix", s)
	}
	num, ok := strings.CutSuffix(rest, "D")
	if !ok {
		return 0, fmt.Errorf("malformed day offset %q: missing D suffix", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, fmt.Errorf("malformed day offset %q: %w", s, err)
	}
	return n, nil
}

// MonthDay parses and validates the fixed holiday's "MMDD" date. Validity
// is checked against a non-leap year, so February 29th is rejected.
func (f *Fixed) MonthDay() (time.Month, int, error) {
	if len(f.Date) != 4 {
		return 0, 0, fmt.Errorf("malformed fixed date %q: want MMDD", f.Date)
	}
	m, err := strconv.Atoi(f.Date[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed fixed date %q: %w", f.Date, err)
	}
	d, err := strconv.Atoi(f.Date[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed fixed date %q: %w", f.Date, err)
	}
	probe := time.Date(2001, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if int(probe.Month()) != m || probe.Day() != d {
		return 0, 0, fmt.Errorf("invalid fixed date %q", f.Date)
	}
	return time.Month(m), d, nil
}

// Dates expands the fixed holiday over the inclusive year window, one date
// per year at midnight UTC.
func (f *Fixed) Dates(startYear, endYear int) ([]time.Time, error) {
	m, d, err := f.MonthDay()
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		dates = append(dates, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	return dates, nil
}

// Dates expands the movable holiday over the inclusive year window. For
// each year the anchor is Easter Sunday minus one day; the offset is applied
// to the anchor and may cross month or year boundaries without clamping.
func (mv *Movable) Dates(startYear, endYear int) ([]time.Time, error) {
	off, err := ParseOffset(mv.Diff)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, endYear-startYear+1)
	for y := startYear; y <= endYear; y++ {
		anchor := easter.Sunday(y).AddDate(0, 0, -1)
		dates = append(dates, anchor.AddDate(0, 0, off))
	}
	return dates, nil
}
