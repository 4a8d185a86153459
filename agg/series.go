package agg

import (
	"sort"

	"github.com/conejocapital/cascadeflow/flow"
)

const DefaultBuckets = 120

// SeriesPoint is one fixed-width bucket of an asset's cumulative
// series. Both components are running sums carried bucket-to-bucket
// and never reset, so each is non-decreasing in time.
type SeriesPoint struct {
	Time       int64 // bucket start, epoch ms
	Liquidated float64
	ADL        float64
}

func (p SeriesPoint) Total() float64 {
	return p.Liquidated + p.ADL
}

// AssetSeries is one asset's cumulative series over the dataset range.
type AssetSeries struct {
	Asset  string
	Points []SeriesPoint
}

// FinalTotal is the last bucket's combined cumulative value.
func (s AssetSeries) FinalTotal() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Total()
}

// Series buckets the visible events across the dataset range and
// produces one cumulative series per asset. Every series spans every
// bucket (the stream layout needs aligned columns), assets are ordered
// by final cumulative total descending for back-to-front drawing, and
// zero-total assets are dropped.
//
// The source dataset books each fill's notional on both the liquidated
// and the ADL'd side of the same asset, so the two components advance
// together; the split is kept because the exported data carries it.
func Series(events []flow.Event, rng flow.Range, buckets int) []AssetSeries {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	if len(events) == 0 {
		return nil
	}

	duration := rng.DurationMs()
	width := duration / int64(buckets)
	if width <= 0 {
		width = 1
	}

	bucketOf := func(ts int64) int {
		b := int((ts - rng.Start) / width)
		if b < 0 {
			b = 0
		}
		if b >= buckets {
			b = buckets - 1
		}
		return b
	}

	// Per-asset, per-bucket notional increments.
	perAsset := map[string][]float64{}
	for _, e := range events {
		inc := perAsset[e.Asset]
		if inc == nil {
			inc = make([]float64, buckets)
			perAsset[e.Asset] = inc
		}
		inc[bucketOf(e.Timestamp)] += e.NotionalUSD
	}

	series := make([]AssetSeries, 0, len(perAsset))
	for asset, inc := range perAsset {
		s := AssetSeries{Asset: asset, Points: make([]SeriesPoint, buckets)}
		var liq, adl float64
		for b := 0; b < buckets; b++ {
			liq += inc[b]
			adl += inc[b]
			s.Points[b] = SeriesPoint{
				Time:       rng.Start + int64(b)*width,
				Liquidated: liq,
				ADL:        adl,
			}
		}
		if s.FinalTotal() <= 0 {
			continue
		}
		series = append(series, s)
	}

	sort.Slice(series, func(i, j int) bool {
		if series[i].FinalTotal() != series[j].FinalTotal() {
			return series[i].FinalTotal() > series[j].FinalTotal()
		}
		return series[i].Asset < series[j].Asset
	})
	return series
}
