package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/conejocapital/cascadeflow/agg"
	"github.com/conejocapital/cascadeflow/flow"
)

// FlowReport is the whole-dataset aggregate file consumed by the
// rendering layer (adl_flow_data.json). It is derived once from the
// full log, not per frame.
type FlowReport struct {
	Metadata     ReportMetadata   `json:"metadata"`
	AssetFlows   []ReportFlow     `json:"assetFlows"`
	AssetStats   []AssetStat      `json:"assetStats"`
	AssetSplit   []AssetSplitStat `json:"assetLiquidationStats"`
	AccountFlows []ReportFlow     `json:"accountFlows"`
	TopAccounts  TopAccounts      `json:"topAccounts"`
	TimeBuckets  []TimeBucket     `json:"timeBuckets"`
}

type ReportMetadata struct {
	EventCount       int       `json:"eventCount"`
	TimeRange        TimeRange `json:"timeRange"`
	DurationMinutes  float64   `json:"durationMinutes"`
	TotalNotionalUSD float64   `json:"totalNotionalUsd"`
	UniqueAssets     int       `json:"uniqueAssets"`
	UniqueAccounts   int       `json:"uniqueAccounts"`
}

type ReportFlow struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Notional float64 `json:"notional"`
	Count    int     `json:"count,omitempty"`
}

type AssetStat struct {
	Asset         string  `json:"asset"`
	TotalNotional float64 `json:"totalNotional"`
	EventCount    int     `json:"eventCount"`
}

// AssetSplitStat carries the per-asset liquidated-vs-ADL'd split. The
// upstream data books every fill's notional on both sides of the same
// asset, so the two figures match; the split is preserved because the
// consumers chart the components separately.
type AssetSplitStat struct {
	Asset              string  `json:"asset"`
	LiquidatedNotional float64 `json:"liquidatedNotional"`
	ADLNotional        float64 `json:"adldNotional"`
	TotalNotional      float64 `json:"totalNotional"`
}

type TopAccounts struct {
	Liquidated     []AccountTotal `json:"liquidated"`
	Counterparties []AccountTotal `json:"counterparties"`
}

type AccountTotal struct {
	Account       string  `json:"account"`
	TotalNotional float64 `json:"totalNotional"`
}

// TimeBucket is one second of the cascade with running totals.
type TimeBucket struct {
	Time                 int64   `json:"time"`
	TimeISO              string  `json:"timeISO"`
	EventCount           int     `json:"eventCount"`
	NotionalInBucket     float64 `json:"notionalInBucket"`
	CumulativeNotional   float64 `json:"cumulativeNotional"`
	CumulativeLiquidated float64 `json:"cumulativeLiquidated"`
	CumulativeADL        float64 `json:"cumulativeAdld"`
}

// ReportOptions bound the account-level sections.
type ReportOptions struct {
	TopAccounts int // per side, 0 = 50
}

func (o ReportOptions) topAccounts() int {
	if o.TopAccounts <= 0 {
		return 50
	}
	return o.TopAccounts
}

// BuildFlowReport aggregates the full log into the report shape.
func BuildFlowReport(log *flow.Log, opts ReportOptions) FlowReport {
	events := log.Events()
	rng := log.Range()

	var r FlowReport
	r.Metadata = ReportMetadata{
		EventCount:       log.Len(),
		TimeRange:        TimeRange{Start: rng.Start, End: rng.End},
		DurationMinutes:  float64(rng.DurationMs()) / float64(60*1000),
		TotalNotionalUSD: log.TotalNotional(),
		UniqueAssets:     log.Assets(),
		UniqueAccounts:   log.Accounts(),
	}

	assetNodes, assetEdges := agg.Pairwise(events, agg.PairwiseOptions{Mode: agg.ByAsset})
	for _, e := range assetEdges {
		r.AssetFlows = append(r.AssetFlows, ReportFlow(e))
	}
	for _, n := range assetNodes {
		count := 0
		for _, e := range assetEdges {
			if e.Source == n.ID {
				count += e.Count
			}
		}
		r.AssetStats = append(r.AssetStats, AssetStat{
			Asset:         n.ID,
			TotalNotional: n.Total(),
			EventCount:    count,
		})
		r.AssetSplit = append(r.AssetSplit, AssetSplitStat{
			Asset:              n.ID,
			LiquidatedNotional: n.Outflow,
			ADLNotional:        n.Inflow,
			TotalNotional:      n.Outflow + n.Inflow,
		})
	}
	sort.Slice(r.AssetSplit, func(i, j int) bool {
		return r.AssetSplit[i].TotalNotional > r.AssetSplit[j].TotalNotional
	})

	_, accountEdges := agg.Pairwise(events, agg.PairwiseOptions{
		Mode:        agg.ByAccount,
		TopAccounts: opts.topAccounts() * 2, // both sides share one cut
	})
	for _, e := range accountEdges {
		r.AccountFlows = append(r.AccountFlows, ReportFlow{
			Source:   e.Source,
			Target:   e.Target,
			Notional: e.Notional,
		})
	}

	rank := agg.RankSankey(events, opts.topAccounts())
	for _, n := range rank.Sources {
		r.TopAccounts.Liquidated = append(r.TopAccounts.Liquidated, AccountTotal{
			Account:       n.ID,
			TotalNotional: n.Total(),
		})
	}
	for _, n := range rank.Targets {
		r.TopAccounts.Counterparties = append(r.TopAccounts.Counterparties, AccountTotal{
			Account:       n.ID,
			TotalNotional: n.Total(),
		})
	}

	r.TimeBuckets = buildTimeBuckets(events)
	return r
}

// buildTimeBuckets rolls events into one-second buckets with running
// cumulative sums, matching the upstream export granularity.
func buildTimeBuckets(events []flow.Event) []TimeBucket {
	byTime := map[int64]*TimeBucket{}
	for _, e := range events {
		t := e.Timestamp / 1000 * 1000
		b := byTime[t]
		if b == nil {
			b = &TimeBucket{Time: t}
			byTime[t] = b
		}
		b.EventCount++
		b.NotionalInBucket += e.NotionalUSD
	}

	times := make([]int64, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	out := make([]TimeBucket, 0, len(times))
	var cum float64
	for _, t := range times {
		b := *byTime[t]
		cum += b.NotionalInBucket
		b.CumulativeNotional = cum
		b.CumulativeLiquidated = cum
		b.CumulativeADL = cum
		b.TimeISO = time.UnixMilli(t).UTC().Format(time.RFC3339)
		out = append(out, b)
	}
	return out
}

// WriteFlowReport builds the report and writes it as indented JSON.
func WriteFlowReport(log *flow.Log, path string, opts ReportOptions) error {
	report := BuildFlowReport(log, opts)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal flow report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write flow report: %w", err)
	}
	return nil
}
