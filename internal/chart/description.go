// Package chart builds the chart descriptions handed to the renderer.
//
// A Description is created fresh on every recomputation and never mutated
// afterwards. Building the same description twice from the same rows and
// selection yields equal values and equal hashes.
package chart

import "github.com/roach88/launchdash/internal/dataset"

// Kind selects how a description is drawn.
type Kind string

const (
	// KindProportion is a pie-style chart of relative weights.
	KindProportion Kind = "proportion"
	// KindScatter plots individual launches.
	KindScatter Kind = "scatter"
)

// Slot identifies one of the dashboard's chart outputs.
type Slot string

const (
	// SlotProportion holds the launch success proportion chart.
	SlotProportion Slot = "success-pie-chart"
	// SlotScatter holds the payload vs. outcome scatter chart.
	SlotScatter Slot = "success-payload-scatter-chart"
)

// Grouping keys, named after the dataset column each chart groups by.
const (
	GroupBySite    = dataset.ColumnSite
	GroupByClass   = dataset.ColumnClass
	GroupByBooster = dataset.ColumnBoosterCategory
)

// Slice is one weighted category of a proportion chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Point is one launch plotted on the scatter chart.
type Point struct {
	Site            string          `json:"site"`
	PayloadMassKg   float64         `json:"payload_mass_kg"`
	Outcome         dataset.Outcome `json:"outcome"`
	BoosterCategory string          `json:"booster_category"`
	FlightNumber    int             `json:"flight_number,omitempty"`
}

// Description is the renderer-independent content of one chart.
type Description struct {
	Slot        Slot    `json:"slot"`
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	GroupingKey string  `json:"grouping_key"`
	Slices      []Slice `json:"slices,omitempty"`
	Points      []Point `json:"points,omitempty"`

	// XRange is the payload axis extent of a scatter chart.
	XRange *[2]float64 `json:"x_range,omitempty"`
}

// Empty reports whether there is nothing to draw: a proportion chart whose
// weights sum to zero, or a scatter chart without points.
func (d Description) Empty() bool {
	switch d.Kind {
	case KindProportion:
		for _, s := range d.Slices {
			if s.Value > 0 {
				return false
			}
		}
		return true
	case KindScatter:
		return len(d.Points) == 0
	default:
		return true
	}
}

// Groups returns the distinct scatter grouping labels in first-appearance order.
func (d Description) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, p := range d.Points {
		if !seen[p.BoosterCategory] {
			seen[p.BoosterCategory] = true
			groups = append(groups, p.BoosterCategory)
		}
	}
	return groups
}
