package dataset

import (
	"fmt"
	"math"
)

// Column names recognized in tabular input.
const (
	ColumnSite            = "Launch Site"
	ColumnPayload         = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
	ColumnFlightNumber    = "Flight Number"
	ColumnBoosterVersion  = "Booster Version"
)

// RequiredColumns lists the columns every dataset must carry, in the order
// they are reported when missing.
var RequiredColumns = []string{
	ColumnSite,
	ColumnPayload,
	ColumnClass,
	ColumnBoosterCategory,
}

// Outcome is the binary launch classification.
type Outcome int

const (
	// Failure is a failed launch (class 0).
	Failure Outcome = 0
	// Success is a successful launch (class 1).
	Success Outcome = 1
)

// String returns "success" or "failure".
func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failure"
}

// LaunchRecord is one row of the dataset table.
type LaunchRecord struct {
	Site            string  `json:"site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Outcome         Outcome `json:"outcome"`
	BoosterCategory string  `json:"booster_category"`

	// Optional columns; zero when absent from the input.
	FlightNumber   int    `json:"flight_number,omitempty"`
	BoosterVersion string `json:"booster_version,omitempty"`
}

// Validate checks the per-row invariants enforced at load time.
func (r LaunchRecord) Validate() error {
	if r.Site == "" {
		return fmt.Errorf("empty %q", ColumnSite)
	}
	if math.IsNaN(r.PayloadMassKg) || math.IsInf(r.PayloadMassKg, 0) {
		return fmt.Errorf("%q is not a finite number", ColumnPayload)
	}
	if r.PayloadMassKg < 0 {
		return fmt.Errorf("negative %q: %v", ColumnPayload, r.PayloadMassKg)
	}
	if r.Outcome != Success && r.Outcome != Failure {
		return fmt.Errorf("%q must be 0 or 1, got %d", ColumnClass, r.Outcome)
	}
	if r.BoosterCategory == "" {
		return fmt.Errorf("empty %q", ColumnBoosterCategory)
	}
	return nil
}
