package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/filter"
)

// DefaultSession is the session ID used when a scenario names none.
const DefaultSession = "scenario-session"

// Scenario defines one replayable dashboard interaction.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is a CSV or SQLite path, relative to the scenario file.
	// Exactly one of Dataset and Rows must be set.
	Dataset string `yaml:"dataset,omitempty"`

	// Rows is an inline table.
	Rows []RowSpec `yaml:"rows,omitempty"`

	// Step is the payload slider granularity. Zero means the default.
	Step float64 `yaml:"step,omitempty"`

	// Session is the fixed session ID.
	Session string `yaml:"session,omitempty"`

	// Steps are the control changes, applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and the trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// RowSpec is one inline launch record.
type RowSpec struct {
	Site    string  `yaml:"site"`
	Payload float64 `yaml:"payload"`
	Class   int     `yaml:"class"`
	Booster string  `yaml:"booster"`
	Flight  int     `yaml:"flight,omitempty"`
}

// Record converts the row into a launch record.
func (r RowSpec) Record() dataset.LaunchRecord {
	return dataset.LaunchRecord{
		Site:            r.Site,
		PayloadMassKg:   r.Payload,
		Outcome:         dataset.Outcome(r.Class),
		BoosterCategory: r.Booster,
		FlightNumber:    r.Flight,
	}
}

// Step is one control change.
type Step struct {
	// Site selects a launch site, or "all".
	Site *string `yaml:"site,omitempty"`

	// Payload sets the payload range.
	Payload *RangeSpec `yaml:"payload,omitempty"`

	// Snapshot recomputes every output without changing the selection.
	Snapshot bool `yaml:"snapshot,omitempty"`

	// Coerce passes Payload through the range slider first.
	Coerce bool `yaml:"coerce,omitempty"`

	// Expect validates the resulting update. If nil, no validation is done.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// RangeSpec is a payload range as written in YAML.
type RangeSpec struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// Range converts r into a filter range.
func (r RangeSpec) Range() filter.PayloadRange {
	return filter.PayloadRange{Lo: r.Lo, Hi: r.Hi}
}

// ExpectClause specifies the expected update for one step.
// Only the fields that are set are checked.
type ExpectClause struct {
	// Outputs is the exact list of recomputed slots, in order.
	Outputs []string `yaml:"outputs,omitempty"`

	// Slices are the expected proportion slices, by label.
	Slices map[string]float64 `yaml:"slices,omitempty"`

	// Points is the expected number of scatter points.
	Points *int `yaml:"points,omitempty"`

	// Titles are the expected chart titles, by slot.
	Titles map[string]string `yaml:"titles,omitempty"`

	// Empty lists slots expected to have nothing to draw.
	Empty []string `yaml:"empty,omitempty"`

	// Error is the expected input error code, e.g. INVALID_RANGE.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state or the trace.
type Assertion struct {
	// Type is one of final_selection, recompute_count, final_revision.
	Type string `yaml:"type"`

	// Site and Payload are the expected selection (final_selection).
	Site    string     `yaml:"site,omitempty"`
	Payload *RangeSpec `yaml:"payload,omitempty"`

	// Slot is the output counted (recompute_count).
	Slot string `yaml:"slot,omitempty"`

	// Count is the expected number (recompute_count, final_revision).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalSelection = "final_selection"
	AssertRecomputeCount = "recompute_count"
	AssertFinalRevision  = "final_revision"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative dataset path is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Dataset != "" && !filepath.IsAbs(scenario.Dataset) {
		scenario.Dataset = filepath.Join(filepath.Dir(path), scenario.Dataset)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Dataset paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Dataset == "") == (len(s.Rows) == 0) {
		return fmt.Errorf("exactly one of dataset and rows is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		set := 0
		if step.Site != nil {
			set++
		}
		if step.Payload != nil {
			set++
		}
		if step.Snapshot {
			set++
		}
		if set != 1 {
			return fmt.Errorf("step %d: exactly one of site, payload and snapshot is required", i+1)
		}
		if step.Coerce && step.Payload == nil {
			return fmt.Errorf("step %d: coerce applies to payload steps only", i+1)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertFinalSelection:
			if a.Site == "" && a.Payload == nil {
				return fmt.Errorf("assertion %d: final_selection needs site or payload", i+1)
			}
		case AssertRecomputeCount:
			if a.Slot == "" {
				return fmt.Errorf("assertion %d: recompute_count needs slot", i+1)
			}
		case AssertFinalRevision:
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i+1, a.Type)
		}
	}

	return nil
}
