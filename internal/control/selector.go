package control

import "github.com/roach88/launchdash/internal/filter"

// AllSitesLabel is the display label of the all-sites option.
const AllSitesLabel = "All sites"

// SiteOption is one entry of the site selector.
type SiteOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SiteSelector is the launch site drop-down.
type SiteSelector struct {
	Options []SiteOption `json:"options"`
	Default string       `json:"default"`
}

// NewSiteSelector builds options for the configured sites first, in
// configuration order, then for sites found only in the dataset, in the order
// given, and finally the all-sites sentinel. Configured sites the dataset does
// not contain are left out. Sites without a configured label are shown by
// identifier.
func NewSiteSelector(sites []string, configured []SiteOption) SiteSelector {
	present := make(map[string]bool, len(sites))
	for _, s := range sites {
		present[s] = true
	}

	opts := make([]SiteOption, 0, len(sites)+1)
	listed := make(map[string]bool, len(sites))
	for _, c := range configured {
		if !present[c.Value] || listed[c.Value] {
			continue
		}
		label := c.Label
		if label == "" {
			label = c.Value
		}
		opts = append(opts, SiteOption{Label: label, Value: c.Value})
		listed[c.Value] = true
	}
	for _, s := range sites {
		if listed[s] {
			continue
		}
		opts = append(opts, SiteOption{Label: s, Value: s})
		listed[s] = true
	}
	opts = append(opts, SiteOption{Label: AllSitesLabel, Value: filter.AllSites})
	return SiteSelector{Options: opts, Default: filter.AllSites}
}

// Known reports whether value is one of the selector's options.
func (s SiteSelector) Known(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Label returns the display label for value, or value itself when unknown.
func (s SiteSelector) Label(value string) string {
	for _, o := range s.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
