package dataset

import "fmt"

// PayloadBounds is the dataset-wide payload interval, computed once at load time.
type PayloadBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Table is the immutable in-memory launch table.
//
// Thread-safety: a Table is never mutated after NewTable returns, so it is
// safe to share across any number of sessions and goroutines.
type Table struct {
	rows   []LaunchRecord
	sites  []string
	bounds PayloadBounds
}

// NewTable validates rows and builds a Table.
//
// The rows slice is copied so later mutation by the caller cannot leak in.
// Returns an error if rows is empty or any row violates LaunchRecord.Validate.
func NewTable(rows []LaunchRecord) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	owned := make([]LaunchRecord, len(rows))
	copy(owned, rows)

	t := &Table{
		rows: owned,
		bounds: PayloadBounds{
			Min: owned[0].PayloadMassKg,
			Max: owned[0].PayloadMassKg,
		},
	}

	seen := make(map[string]bool)
	for i, r := range owned {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if !seen[r.Site] {
			seen[r.Site] = true
			t.sites = append(t.sites, r.Site)
		}
		if r.PayloadMassKg < t.bounds.Min {
			t.bounds.Min = r.PayloadMassKg
		}
		if r.PayloadMassKg > t.bounds.Max {
			t.bounds.Max = r.PayloadMassKg
		}
	}

	return t, nil
}

// Rows returns the table rows in load order.
//
// The returned slice is shared, not copied. Callers must treat it as read-only.
func (t *Table) Rows() []LaunchRecord {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Sites returns the distinct launch sites in first-appearance order.
func (t *Table) Sites() []string {
	out := make([]string, len(t.sites))
	copy(out, t.sites)
	return out
}

// HasSite reports whether any row carries the given site identifier.
func (t *Table) HasSite(site string) bool {
	for _, s := range t.sites {
		if s == site {
			return true
		}
	}
	return false
}

// Bounds returns the dataset-wide payload bounds.
func (t *Table) Bounds() PayloadBounds {
	return t.bounds
}
