// Package month provides the calendar year-month key used as the aggregation
// and cache granularity for budgets and transactions.
package month

import (
	"fmt"
	"time"
)

// Layout is the canonical string form of a month key.
const Layout = "2006-01"

// Key identifies a calendar month. The zero Key is invalid.
type Key struct {
	Year  int
	Month time.Month
}

// Parse parses a "YYYY-MM" string.
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Key{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return Key{Year: t.Year(), Month: t.Month()}, nil
}

// Of returns the month containing t in UTC. Stored dates are UTC midnight,
// so the location a driver attaches on read does not move them.
func Of(t time.Time) Key {
	t = t.UTC()
	return Key{Year: t.Year(), Month: t.Month()}
}

// Current returns the month containing now in UTC.
func Current() Key {
	return Of(time.Now().UTC())
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// String returns the "YYYY-MM" form of k.
func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Add returns the month n months after k. n may be negative.
func (k Key) Add(n int) Key {
	return Of(k.Start().AddDate(0, n, 0))
}

// Start returns midnight UTC on the first day of k.
func (k Key) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of k in UTC.
func (k Key) End() time.Time {
	return k.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Contains reports whether t falls within k in UTC. Zero times are never
// contained.
func (k Key) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return Of(t) == k
}
