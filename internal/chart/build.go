package chart

import (
	"fmt"

	"github.com/roach88/launchdash/internal/aggregate"
	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/filter"
)

// Slice labels of a single-site proportion chart.
const (
	LabelSuccess = "Success"
	LabelFailure = "Failure"
)

// Proportion builds the outcome proportion chart from site-filtered rows.
//
// With site == filter.AllSites each site becomes a slice weighted by its
// number of successful launches. For a single site the chart splits that
// site's launches into Success and Failure. An unknown site produces a
// zero-weight chart that renders blank.
func Proportion(rows []dataset.LaunchRecord, site string) Description {
	if site == filter.AllSites {
		bySite := aggregate.OutcomesBySite(rows)
		slices := make([]Slice, 0, len(bySite))
		for _, s := range bySite {
			slices = append(slices, Slice{Label: s.Site, Value: float64(s.Successes)})
		}
		return Description{
			Slot:        SlotProportion,
			Kind:        KindProportion,
			Title:       "All sites launch success rates",
			GroupingKey: GroupBySite,
			Slices:      slices,
		}
	}

	split := aggregate.SingleSite(rows)
	return Description{
		Slot:        SlotProportion,
		Kind:        KindProportion,
		Title:       fmt.Sprintf("Launch success rates for %s", site),
		GroupingKey: GroupByClass,
		Slices: []Slice{
			{Label: LabelSuccess, Value: float64(split.Successes)},
			{Label: LabelFailure, Value: float64(split.Failures)},
		},
	}
}

// Scatter builds the payload vs. outcome chart from site- and payload-filtered
// rows. No aggregation happens: each row becomes one point, grouped by booster
// category.
func Scatter(rows []dataset.LaunchRecord, site string, r filter.PayloadRange) Description {
	points := make([]Point, len(rows))
	for i, row := range rows {
		points[i] = Point{
			Site:            row.Site,
			PayloadMassKg:   row.PayloadMassKg,
			Outcome:         row.Outcome,
			BoosterCategory: row.BoosterCategory,
			FlightNumber:    row.FlightNumber,
		}
	}

	scope := "all sites"
	if site != filter.AllSites {
		scope = site
	}
	return Description{
		Slot:        SlotScatter,
		Kind:        KindScatter,
		Title:       fmt.Sprintf("Payload vs. launch outcome for %s", scope),
		GroupingKey: GroupByBooster,
		Points:      points,
		XRange:      &[2]float64{r.Lo, r.Hi},
	}
}
