package layout

import (
	"math"
	"testing"

	"github.com/conejocapital/cascadeflow/agg"
	"github.com/conejocapital/cascadeflow/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBandStacking(t *testing.T) {
	events := []flow.Event{
		{Timestamp: 0, Asset: "BTC", NotionalUSD: 100},
		{Timestamp: 600, Asset: "BTC", NotionalUSD: 100},
	}
	series := agg.Series(events, flow.Range{Start: 0, End: 1000}, 4)
	g := Stream(series, 400, 200)

	require.Len(t, g.Bands, 1)
	band := g.Bands[0]
	require.Len(t, band.Mid, 4)
	require.Len(t, band.Top, 4)

	for i := range band.Mid {
		// ADL stacks immediately above the liquidated component.
		assert.GreaterOrEqual(t, band.Mid[i].Y, 0.0)
		assert.GreaterOrEqual(t, band.Top[i].Y, band.Mid[i].Y)
		assert.Equal(t, band.Mid[i].X, band.Top[i].X)
	}

	// Final bucket reaches the full height (this band is the maximum).
	assert.InDelta(t, 200.0, band.Top[3].Y, 1e-9)
	assert.InDelta(t, 100.0, band.Mid[3].Y, 1e-9)
	assert.InDelta(t, 400.0, band.Top[3].X, 1e-9)
}

func TestStreamBandsOrderedLargestFirst(t *testing.T) {
	events := []flow.Event{
		{Timestamp: 0, Asset: "ETH", NotionalUSD: 10},
		{Timestamp: 0, Asset: "BTC", NotionalUSD: 500},
	}
	series := agg.Series(events, flow.Range{Start: 0, End: 1000}, 4)
	g := Stream(series, 400, 200)

	require.Len(t, g.Bands, 2)
	assert.Equal(t, "BTC", g.Bands[0].Asset)
	assert.Greater(t, g.Bands[0].Final, g.Bands[1].Final)
}

func TestStreamSharedScale(t *testing.T) {
	events := []flow.Event{
		{Timestamp: 0, Asset: "ETH", NotionalUSD: 50},
		{Timestamp: 0, Asset: "BTC", NotionalUSD: 100},
	}
	series := agg.Series(events, flow.Range{Start: 0, End: 1000}, 2)
	g := Stream(series, 400, 200)

	require.Len(t, g.Bands, 2)
	assert.InDelta(t, 200.0, g.MaxValue, 1e-9) // BTC books 100 on each component
	// ETH band tops out at half the height of BTC's.
	assert.InDelta(t, g.Bands[0].Top[1].Y/2, g.Bands[1].Top[1].Y, 1e-9)
}

func TestStreamMonotoneCurves(t *testing.T) {
	events := []flow.Event{
		{Timestamp: 0, Asset: "BTC", NotionalUSD: 100},
		{Timestamp: 900, Asset: "BTC", NotionalUSD: 300},
	}
	series := agg.Series(events, flow.Range{Start: 0, End: 1000}, 8)
	g := Stream(series, 400, 200)

	require.Len(t, g.Bands, 1)
	band := g.Bands[0]
	assert.Len(t, band.TopCurve, 7) // one segment per bucket pair
	for _, seg := range band.TopCurve {
		// Cumulative input: control points never dip below the segment
		// start nor above its end.
		assert.GreaterOrEqual(t, seg.C1.Y+1e-9, seg.P0.Y)
		assert.LessOrEqual(t, seg.C2.Y-1e-9, seg.P1.Y)
	}
}

func TestStreamSingleBucket(t *testing.T) {
	series := []agg.AssetSeries{{
		Asset:  "BTC",
		Points: []agg.SeriesPoint{{Time: 0, Liquidated: 10, ADL: 10}},
	}}
	g := Stream(series, 400, 200)
	require.Len(t, g.Bands, 1)
	assert.Empty(t, g.Bands[0].TopCurve) // a single point has no spline
	assert.False(t, math.IsNaN(g.Bands[0].Top[0].Y))
}

func TestStreamEmpty(t *testing.T) {
	g := Stream(nil, 400, 200)
	assert.Empty(t, g.Bands)
	assert.Equal(t, 0.0, g.MaxValue)
}
