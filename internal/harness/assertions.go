package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/launchdash/internal/chart"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Input)
		switch {
		case event.Site != "":
			fmt.Fprintf(&buf, " %q", event.Site)
		case event.Payload != nil:
			fmt.Fprintf(&buf, " %s", event.Payload)
		}
		fmt.Fprintf(&buf, " -> %s\n", strings.Join(outputSlots(event), ", "))
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against a finished result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertFinalSelection:
			err = assertFinalSelection(result, a)
		case AssertRecomputeCount:
			err = assertRecomputeCount(result, a)
		case AssertFinalRevision:
			err = assertFinalRevision(result, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func assertFinalSelection(result *Result, a Assertion) error {
	got := result.Final
	if a.Site != "" && got.Site != a.Site {
		return &AssertionError{
			Type:     AssertFinalSelection,
			Expected: fmt.Sprintf("site %q", a.Site),
			Actual:   fmt.Sprintf("site %q", got.Site),
			Trace:    result.Trace,
		}
	}
	if a.Payload != nil && got.Payload != a.Payload.Range() {
		return &AssertionError{
			Type:     AssertFinalSelection,
			Expected: fmt.Sprintf("payload %s", a.Payload.Range()),
			Actual:   fmt.Sprintf("payload %s", got.Payload),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertRecomputeCount counts the steps whose update included the slot.
func assertRecomputeCount(result *Result, a Assertion) error {
	count := 0
	for _, event := range result.Trace {
		for _, o := range event.Outputs {
			if string(o.Slot) == a.Slot {
				count++
			}
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertRecomputeCount,
			Expected: fmt.Sprintf("%s recomputed %d time(s)", a.Slot, a.Count),
			Actual:   fmt.Sprintf("recomputed %d time(s)", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertFinalRevision(result *Result, a Assertion) error {
	if result.Revision != int64(a.Count) {
		return &AssertionError{
			Type:     AssertFinalRevision,
			Expected: fmt.Sprintf("revision %d", a.Count),
			Actual:   fmt.Sprintf("revision %d", result.Revision),
			Trace:    result.Trace,
		}
	}
	return nil
}

// checkExpect compares one step's event with its expect clause.
func checkExpect(event TraceEvent, expect *ExpectClause) []string {
	var errs []string

	if event.Error != "" || expect.Error != "" {
		if event.Error != expect.Error {
			errs = append(errs, fmt.Sprintf("expected error %q, got %q", expect.Error, event.Error))
		}
		return errs
	}

	if expect.Outputs != nil {
		got := outputSlots(event)
		if strings.Join(got, ",") != strings.Join(expect.Outputs, ",") {
			errs = append(errs, fmt.Sprintf("expected outputs %v, got %v", expect.Outputs, got))
		}
	}

	if expect.Slices != nil {
		o, ok := findOutput(event, chart.SlotProportion)
		if !ok {
			errs = append(errs, "expected slices but proportion chart was not recomputed")
		} else {
			got := make(map[string]float64, len(o.Slices))
			for _, s := range o.Slices {
				got[s.Label] = s.Value
			}
			if !equalWeights(got, expect.Slices) {
				errs = append(errs, fmt.Sprintf("expected slices %s, got %s", formatWeights(expect.Slices), formatWeights(got)))
			}
		}
	}

	if expect.Points != nil {
		o, ok := findOutput(event, chart.SlotScatter)
		if !ok {
			errs = append(errs, "expected points but scatter chart was not recomputed")
		} else if o.Points != *expect.Points {
			errs = append(errs, fmt.Sprintf("expected %d points, got %d", *expect.Points, o.Points))
		}
	}

	for slot, title := range expect.Titles {
		o, ok := findOutput(event, chart.Slot(slot))
		if !ok {
			errs = append(errs, fmt.Sprintf("expected title for %s but it was not recomputed", slot))
		} else if o.Title != title {
			errs = append(errs, fmt.Sprintf("expected %s title %q, got %q", slot, title, o.Title))
		}
	}

	for _, slot := range expect.Empty {
		o, ok := findOutput(event, chart.Slot(slot))
		if !ok || !o.Empty {
			errs = append(errs, fmt.Sprintf("expected %s to be empty", slot))
		}
	}

	sort.Strings(errs) // map iteration above
	return errs
}

func outputSlots(event TraceEvent) []string {
	slots := make([]string, len(event.Outputs))
	for i, o := range event.Outputs {
		slots[i] = string(o.Slot)
	}
	return slots
}

func findOutput(event TraceEvent, slot chart.Slot) (OutputTrace, bool) {
	for _, o := range event.Outputs {
		if o.Slot == slot {
			return o, true
		}
	}
	return OutputTrace{}, false
}

func equalWeights(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func formatWeights(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
