// Package period implements the calendar month used to key caps and reports.
package period

import (
	"fmt"
	"regexp"
	"time"
)

var idPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}$`)

// Month is a calendar month, always anchored at the first instant of the month in UTC.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// Of returns the Month in which t occurs, evaluated in UTC.
func Of(t time.Time) Month {
	year, month, _ := t.UTC().Date()
	return NewMonth(year, month)
}

// Parse parses a "YYYY-MM" period identifier.
func Parse(s string) (Month, error) {
	if !idPattern.MatchString(s) {
		return Month{}, fmt.Errorf("period %q does not match YYYY-MM", s)
	}

	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("period %q: %w", s, err)
	}

	return Of(t), nil
}

// Valid reports whether s is a well-formed period identifier.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// String returns the identifier formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year(), m.Month())
}

// DisplayName returns the human readable name, e.g. "January 2025".
func (m Month) DisplayName() string {
	return fmt.Sprintf("%s %d", m.Month(), m.Year())
}

// Label returns the short chart label, e.g. "01/2025".
func (m Month) Label() string {
	return fmt.Sprintf("%02d/%d", int(m.Month()), m.Year())
}

func (m Month) Year() int { return time.Time(m).Year() }

func (m Month) Month() time.Month { return time.Time(m).Month() }

// AddMonths moves the month by n calendar months, n may be negative.
func (m Month) AddMonths(n int) Month {
	return Month(time.Time(m).AddDate(0, n, 0))
}

// Start is the first instant of the month.
func (m Month) Start() time.Time {
	return time.Time(m)
}

// End is the first instant of the following month, exclusive.
func (m Month) End() time.Time {
	return time.Time(m).AddDate(0, 1, 0)
}

// Bounds returns the half-open range [start, end) covering the month.
func (m Month) Bounds() (time.Time, time.Time) {
	return m.Start(), m.End()
}

// Contains reports whether the time instant is in the month.
func (m Month) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && t.Before(m.End())
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// MarshalText encodes the month as YYYY-MM.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a YYYY-MM identifier.
func (m *Month) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
