package engine

import (
	"fmt"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/filter"
)

// Input names one of the dashboard's input channels.
type Input string

const (
	// InputSite is the launch site selector.
	InputSite Input = "site"
	// InputPayload is the payload range slider.
	InputPayload Input = "payload"
)

// Inputs lists every input channel in a fixed order.
var Inputs = []Input{InputSite, InputPayload}

// Selection is the per-session value of both inputs.
type Selection struct {
	Site    string              `json:"site"`
	Payload filter.PayloadRange `json:"payload"`
}

// DefaultSelection is the initial state of every session: all sites, and the
// slider's full extent.
func DefaultSelection(s control.RangeSlider) Selection {
	return Selection{Site: filter.AllSites, Payload: s.Full()}
}

// ComputeFunc derives one chart from the table and the current selection.
// It must be a pure function of its arguments.
type ComputeFunc func(t *dataset.Table, sel Selection) chart.Description

// Binding declares one output channel and the inputs it depends on.
type Binding struct {
	Output    chart.Slot
	DependsOn []Input
	Compute   ComputeFunc
}

// dependsOn reports whether the binding must be recomputed when in changes.
func (b Binding) dependsOn(in Input) bool {
	for _, d := range b.DependsOn {
		if d == in {
			return true
		}
	}
	return false
}

// DefaultBindings returns the dashboard's dependency table:
//
//	success-pie-chart              <- site
//	success-payload-scatter-chart  <- site, payload
func DefaultBindings() []Binding {
	return []Binding{
		{
			Output:    chart.SlotProportion,
			DependsOn: []Input{InputSite},
			Compute:   ComputeProportion,
		},
		{
			Output:    chart.SlotScatter,
			DependsOn: []Input{InputSite, InputPayload},
			Compute:   ComputeScatter,
		},
	}
}

// ComputeProportion filters by site only and aggregates outcomes.
func ComputeProportion(t *dataset.Table, sel Selection) chart.Description {
	return chart.Proportion(filter.ForProportion(t, sel.Site), sel.Site)
}

// ComputeScatter filters by site, then by payload range, and plots each row.
func ComputeScatter(t *dataset.Table, sel Selection) chart.Description {
	return chart.Scatter(filter.ForScatter(t, sel.Site, sel.Payload), sel.Site, sel.Payload)
}

// validateBindings checks that outputs are unique and every binding is usable.
func validateBindings(bindings []Binding) error {
	if len(bindings) == 0 {
		return fmt.Errorf("no bindings declared")
	}
	known := make(map[Input]bool, len(Inputs))
	for _, in := range Inputs {
		known[in] = true
	}
	seen := make(map[chart.Slot]bool, len(bindings))
	for i, b := range bindings {
		if b.Output == "" {
			return fmt.Errorf("binding[%d]: output is required", i)
		}
		if seen[b.Output] {
			return fmt.Errorf("binding[%d]: duplicate output %q", i, b.Output)
		}
		seen[b.Output] = true
		if b.Compute == nil {
			return fmt.Errorf("binding[%d] %q: compute function is required", i, b.Output)
		}
		if len(b.DependsOn) == 0 {
			return fmt.Errorf("binding[%d] %q: must depend on at least one input", i, b.Output)
		}
		for _, in := range b.DependsOn {
			if !known[in] {
				return fmt.Errorf("binding[%d] %q: unknown input %q", i, b.Output, in)
			}
		}
	}
	return nil
}
