// Package filter narrows the launch table for the two dashboard charts.
//
// Filters are pure functions over row slices. They never mutate their input,
// preserve original row order, and treat an empty result as a normal value.
package filter

import (
	"fmt"

	"github.com/roach88/launchdash/internal/dataset"
)

// AllSites is the site selector sentinel meaning "do not filter by site".
const AllSites = "all"

// PayloadRange is a closed payload interval [Lo, Hi] in kilograms.
type PayloadRange struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Valid reports whether Lo <= Hi.
func (r PayloadRange) Valid() bool {
	return r.Lo <= r.Hi
}

// Contains reports whether Lo <= kg <= Hi. Both ends are inclusive.
func (r PayloadRange) Contains(kg float64) bool {
	return r.Lo <= kg && kg <= r.Hi
}

func (r PayloadRange) String() string {
	return fmt.Sprintf("[%g, %g]", r.Lo, r.Hi)
}

// BySite returns the rows launched from site.
//
// For AllSites the input slice itself is returned, without copying. Any other
// value, including one that names no known site, yields a new slice holding
// exactly the matching rows in order (possibly empty, never nil).
func BySite(rows []dataset.LaunchRecord, site string) []dataset.LaunchRecord {
	if site == AllSites {
		return rows
	}
	out := make([]dataset.LaunchRecord, 0, len(rows)/4)
	for _, r := range rows {
		if r.Site == site {
			out = append(out, r)
		}
	}
	return out
}

// ByPayload returns the rows with payload in r, in order.
//
// Precondition: r.Valid(). An inverted range matches nothing.
func ByPayload(rows []dataset.LaunchRecord, r PayloadRange) []dataset.LaunchRecord {
	out := make([]dataset.LaunchRecord, 0, len(rows))
	for _, row := range rows {
		if r.Contains(row.PayloadMassKg) {
			out = append(out, row)
		}
	}
	return out
}

// ForProportion applies the proportion chart's filters: site only.
// The payload range does not affect that chart.
func ForProportion(t *dataset.Table, site string) []dataset.LaunchRecord {
	return BySite(t.Rows(), site)
}

// ForScatter applies the scatter chart's filters: site, then payload range.
func ForScatter(t *dataset.Table, site string, r PayloadRange) []dataset.LaunchRecord {
	return ByPayload(BySite(t.Rows(), site), r)
}
