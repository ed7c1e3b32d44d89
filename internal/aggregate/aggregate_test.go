package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchdash/internal/aggregate"
	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/filter"
	"github.com/roach88/launchdash/internal/testutil"
)

func TestOutcomesBySite_SuccessWeights(t *testing.T) {
	got := aggregate.OutcomesBySite(testutil.TwoSiteRows())

	assert.Equal(t, []aggregate.SiteOutcomes{
		{Site: "X", Successes: 2, Total: 3},
		{Site: "Y", Successes: 1, Total: 2},
	}, got)
}

func TestOutcomesBySite_KeepsZeroSuccessSites(t *testing.T) {
	rows := []dataset.LaunchRecord{
		testutil.Record("A", 100, false, "FT"),
		testutil.Record("B", 100, true, "FT"),
	}

	got := aggregate.OutcomesBySite(rows)

	require.Len(t, got, 2)
	assert.Equal(t, aggregate.SiteOutcomes{Site: "A", Successes: 0, Total: 1}, got[0])
}

func TestOutcomesBySite_Empty(t *testing.T) {
	got := aggregate.OutcomesBySite(nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSingleSite_Counts(t *testing.T) {
	rows := filter.BySite(testutil.TwoSiteRows(), "X")

	got := aggregate.SingleSite(rows)

	assert.Equal(t, aggregate.OutcomeSplit{Successes: 2, Failures: 1}, got)
}

func TestSingleSite_TotalsAddUp(t *testing.T) {
	inputs := [][]dataset.LaunchRecord{
		nil,
		{},
		testutil.TwoSiteRows(),
		filter.BySite(testutil.TwoSiteRows(), "Y"),
		filter.BySite(testutil.TwoSiteRows(), "nowhere"),
	}
	for _, rows := range inputs {
		s := aggregate.SingleSite(rows)
		assert.Equal(t, len(rows), s.Total())
		assert.Equal(t, s.Total(), s.Successes+s.Failures)
	}
}

func TestSingleSite_Empty(t *testing.T) {
	assert.Equal(t, aggregate.OutcomeSplit{}, aggregate.SingleSite(nil))
}
