// Package control defines the dashboard's two input controls.
//
// The controls own input coercion: whatever a client sends, the range slider
// only ever emits an ordered pair inside its bounds on its step grid, and the
// site selector only offers known sites plus the all-sites sentinel. The
// filters downstream rely on these guarantees.
package control
