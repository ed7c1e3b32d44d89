package chart_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/filter"
	"github.com/roach88/launchdash/internal/testutil"
)

func assertGolden(t *testing.T, name string, d chart.Description) {
	t.Helper()
	data, err := json.MarshalIndent(d, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, append(data, '\n'))
}

func TestProportion_AllSitesWeightsBySuccessCount(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)

	d := chart.Proportion(filter.ForProportion(tbl, filter.AllSites), filter.AllSites)

	assert.Equal(t, chart.KindProportion, d.Kind)
	assert.Equal(t, chart.GroupBySite, d.GroupingKey)
	assert.Equal(t, []chart.Slice{{Label: "X", Value: 2}, {Label: "Y", Value: 1}}, d.Slices)
	assertGolden(t, "proportion_all_sites", d)
}

func TestProportion_SingleSiteSplit(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)

	d := chart.Proportion(filter.ForProportion(tbl, "X"), "X")

	assert.Equal(t, "Launch success rates for X", d.Title)
	assert.Equal(t, chart.GroupByClass, d.GroupingKey)
	assert.Equal(t, []chart.Slice{
		{Label: chart.LabelSuccess, Value: 2},
		{Label: chart.LabelFailure, Value: 1},
	}, d.Slices)
	assert.False(t, d.Empty())
}

func TestProportion_UnknownSiteIsEmpty(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)

	d := chart.Proportion(filter.ForProportion(tbl, "nowhere"), "nowhere")

	assert.True(t, d.Empty())
	assert.Equal(t, []chart.Slice{
		{Label: chart.LabelSuccess, Value: 0},
		{Label: chart.LabelFailure, Value: 0},
	}, d.Slices)
}

func TestProportion_EmptyRowsAllSites(t *testing.T) {
	d := chart.Proportion(nil, filter.AllSites)

	assert.True(t, d.Empty())
	assert.Empty(t, d.Slices)
}

func TestScatter_SiteAndRange(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)
	r := filter.PayloadRange{Lo: 0, Hi: 5000}

	d := chart.Scatter(filter.ForScatter(tbl, "X", r), "X", r)

	assert.Equal(t, chart.GroupByBooster, d.GroupingKey)
	assert.Equal(t, []string{"v1.0", "v1.1"}, d.Groups())
	assertGolden(t, "scatter_site_x", d)
}

func TestScatter_AllSitesTitle(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)
	r := filter.PayloadRange{Lo: 0, Hi: 10000}

	d := chart.Scatter(filter.ForScatter(tbl, filter.AllSites, r), filter.AllSites, r)

	assert.Equal(t, "Payload vs. launch outcome for all sites", d.Title)
	assert.Len(t, d.Points, 5)
	assert.Equal(t, []string{"v1.0", "FT", "v1.1", "B4"}, d.Groups())
}

func TestScatter_ZeroWidthRangeIsEmpty(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)
	r := filter.PayloadRange{Lo: 2000, Hi: 2000}

	d := chart.Scatter(filter.ForScatter(tbl, filter.AllSites, r), filter.AllSites, r)

	assert.True(t, d.Empty())
	require.NotNil(t, d.XRange)
	assert.Equal(t, [2]float64{2000, 2000}, *d.XRange)
}

func TestBuild_Idempotent(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)
	r := filter.PayloadRange{Lo: 1000, Hi: 9000}

	for _, site := range []string{filter.AllSites, "X", "Y"} {
		a := chart.Scatter(filter.ForScatter(tbl, site, r), site, r)
		b := chart.Scatter(filter.ForScatter(tbl, site, r), site, r)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("scatter %q mismatch (-first +second):\n%s", site, diff)
		}

		p := chart.Proportion(filter.ForProportion(tbl, site), site)
		q := chart.Proportion(filter.ForProportion(tbl, site), site)
		if diff := cmp.Diff(p, q); diff != "" {
			t.Errorf("proportion %q mismatch (-first +second):\n%s", site, diff)
		}
	}
}

func TestHash_StableAndContentSensitive(t *testing.T) {
	tbl := testutil.TwoSiteTable(t)

	a, err := chart.Proportion(filter.ForProportion(tbl, "X"), "X").Hash()
	require.NoError(t, err)
	b, err := chart.Proportion(filter.ForProportion(tbl, "X"), "X").Hash()
	require.NoError(t, err)
	c, err := chart.Proportion(filter.ForProportion(tbl, "Y"), "Y").Hash()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestEmpty_UnknownKind(t *testing.T) {
	assert.True(t, chart.Description{}.Empty())
}
