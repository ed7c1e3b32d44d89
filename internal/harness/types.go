package harness

import (
	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/engine"
	"github.com/roach88/launchdash/internal/filter"
)

// TraceEvent records one step and the update it produced.
type TraceEvent struct {
	Seq      int64                `json:"seq"`
	Input    string               `json:"input"` // "site", "payload" or "snapshot"
	Site     string               `json:"site,omitempty"`
	Payload  *filter.PayloadRange `json:"payload,omitempty"`
	Revision int64                `json:"revision"`
	Outputs  []OutputTrace        `json:"outputs"`
	Error    string               `json:"error,omitempty"`
}

// OutputTrace summarizes one recomputed chart.
type OutputTrace struct {
	Slot   chart.Slot    `json:"slot"`
	Title  string        `json:"title"`
	Empty  bool          `json:"empty"`
	Slices []chart.Slice `json:"slices,omitempty"`
	Points int           `json:"points,omitempty"`
}

// traceOutputs summarizes every description of an update.
func traceOutputs(charts []chart.Description) []OutputTrace {
	out := make([]OutputTrace, len(charts))
	for i, d := range charts {
		out[i] = OutputTrace{
			Slot:   d.Slot,
			Title:  d.Title,
			Empty:  d.Empty(),
			Slices: d.Slices,
			Points: len(d.Points),
		}
	}
	return out
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the session's selection after the last step.
	Final engine.Selection `json:"final"`

	// Revision is the session's revision after the last step.
	Revision int64 `json:"revision"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
