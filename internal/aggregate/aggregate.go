// Package aggregate derives chart-ready outcome counts from filtered rows.
package aggregate

import "github.com/roach88/launchdash/internal/dataset"

// SiteOutcomes holds the outcome counts of one launch site.
type SiteOutcomes struct {
	Site      string `json:"site"`
	Successes int    `json:"successes"`
	Total     int    `json:"total"`
}

// OutcomesBySite counts successes and launches per site, one entry per
// distinct site in first-appearance order.
//
// The all-sites proportion chart weights each site by Successes alone, so the
// chart reads as "share of all successful launches per site", not as a
// success/failure split. Sites with no successes still appear with weight 0.
func OutcomesBySite(rows []dataset.LaunchRecord) []SiteOutcomes {
	out := []SiteOutcomes{}
	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.Site]
		if !ok {
			i = len(out)
			index[r.Site] = i
			out = append(out, SiteOutcomes{Site: r.Site})
		}
		out[i].Total++
		if r.Outcome == dataset.Success {
			out[i].Successes++
		}
	}
	return out
}

// OutcomeSplit is the success/failure breakdown of a single site.
type OutcomeSplit struct {
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Total returns Successes + Failures.
func (s OutcomeSplit) Total() int {
	return s.Successes + s.Failures
}

// SingleSite counts rows by outcome. An empty input yields the zero split.
func SingleSite(rows []dataset.LaunchRecord) OutcomeSplit {
	var s OutcomeSplit
	for _, r := range rows {
		if r.Outcome == dataset.Success {
			s.Successes++
		} else {
			s.Failures++
		}
	}
	return s
}
