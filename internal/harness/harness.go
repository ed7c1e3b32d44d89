package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/launchdash/internal/control"
	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/engine"
)

// Harness holds the per-scenario execution state.
type Harness struct {
	slider  control.RangeSlider
	session *engine.Session
	seq     int64
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the table from the dataset file or inline rows
//  2. Size the slider and create an engine with a fixed session ID
//  3. Apply each step, recording the update and checking its expect clause
//  4. Evaluate assertions against the final state and the trace
//
// A returned error means the scenario could not run at all; failed
// expectations are reported through Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	tbl, err := buildTable(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build table: %w", err)
	}

	slider := control.NewRangeSlider(tbl.Bounds(), scenario.Step)

	sessionID := scenario.Session
	if sessionID == "" {
		sessionID = DefaultSession
	}
	eng, err := engine.New(tbl, engine.DefaultSelection(slider), engine.NewFixedGenerator(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{
		slider:  slider,
		session: eng.NewSession(),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		event := h.apply(step)
		result.Trace = append(result.Trace, event)
		if step.Expect != nil {
			for _, msg := range checkExpect(event, step.Expect) {
				result.AddError(fmt.Sprintf("step %d: %s", i+1, msg))
			}
		}
	}

	result.Final = h.session.Selection()
	result.Revision = h.session.Revision()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func buildTable(ctx context.Context, scenario *Scenario) (*dataset.Table, error) {
	if scenario.Dataset != "" {
		return dataset.Load(ctx, scenario.Dataset, dataset.LoadOptions{})
	}
	rows := make([]dataset.LaunchRecord, len(scenario.Rows))
	for i, r := range scenario.Rows {
		rows[i] = r.Record()
	}
	return dataset.NewTable(rows)
}

// apply executes one step against the session and records it.
func (h *Harness) apply(step Step) TraceEvent {
	h.seq++
	event := TraceEvent{Seq: h.seq}

	var u engine.Update
	switch {
	case step.Site != nil:
		event.Input = string(engine.InputSite)
		event.Site = *step.Site
		u = h.session.SetSite(*step.Site)

	case step.Payload != nil:
		event.Input = string(engine.InputPayload)
		r := step.Payload.Range()
		if step.Coerce {
			r = h.slider.Coerce(r.Lo, r.Hi)
		}
		event.Payload = &r

		var err error
		u, err = h.session.SetPayload(r)
		if err != nil {
			event.Error = errorCode(err)
			event.Revision = h.session.Revision()
			event.Outputs = []OutputTrace{}
			return event
		}

	default:
		event.Input = "snapshot"
		u = h.session.Snapshot()
	}

	event.Revision = u.Revision
	event.Outputs = traceOutputs(u.Charts)
	return event
}

func errorCode(err error) string {
	var ie *engine.InputError
	if errors.As(err, &ie) {
		return string(ie.Code)
	}
	return err.Error()
}
