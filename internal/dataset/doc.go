// Package dataset provides the immutable launch record table the dashboard reads.
//
// The table is loaded exactly once at process start, from either a CSV file or a
// SQLite database, and is shared read-only by every session for the lifetime of
// the process. Nothing in the repository mutates rows after NewTable returns;
// only the derived views (filtered subsets, aggregates, chart descriptions) change.
//
// # Required columns
//
//   - "Launch Site"              launch site identifier
//   - "Payload Mass (kg)"        non-negative payload mass
//   - "class"                    launch outcome, 1 = success, 0 = failure
//   - "Booster Version Category" grouping label used by the scatter chart
//
// "Flight Number" and "Booster Version" are read when present.
//
// All text values are trimmed and NFC-normalized so that visually identical site
// identifiers compare equal regardless of how the file was produced.
package dataset
