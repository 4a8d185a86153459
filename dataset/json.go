// Package dataset loads the exported ADL event files and writes the
// aggregate flow report. It is the boundary where malformed records
// are dropped, so the engine core never observes them.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/conejocapital/cascadeflow/flow"
)

// Metadata mirrors the exporter's header block.
type Metadata struct {
	EventCount       int       `json:"eventCount"`
	TimeRange        TimeRange `json:"timeRange"`
	TotalNotionalUSD float64   `json:"totalNotionalUsd"`
	UniqueAssets     int       `json:"uniqueAssets"`
	UniqueAccounts   int       `json:"uniqueAccounts"`
}

type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type eventRecord struct {
	Timestamp        int64   `json:"timestamp"`
	Asset            string  `json:"asset"`
	NotionalUSD      float64 `json:"notionalUsd"`
	Side             string  `json:"side"`
	LiquidatedUserID string  `json:"liquidatedUserId"`
	TargetUserID     string  `json:"targetUserId"`
}

type eventFile struct {
	Metadata Metadata      `json:"metadata"`
	Events   []eventRecord `json:"events"`
}

// Load reads an adl_events.json file into a canonical log. Records
// without a timestamp or with a non-positive notional are dropped;
// notionals are taken as absolute magnitude. The time range comes from
// the file metadata when present (an empty-at-start period is
// meaningful), otherwise from the event extremes.
func Load(path string) (*flow.Log, Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("read dataset: %w", err)
	}

	var file eventFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, Metadata{}, fmt.Errorf("parse dataset: %w", err)
	}

	events := make([]flow.Event, 0, len(file.Events))
	for _, r := range file.Events {
		n := math.Abs(r.NotionalUSD)
		if r.Timestamp <= 0 || n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			continue
		}
		asset := r.Asset
		if asset == "" {
			asset = "UNKNOWN"
		}
		events = append(events, flow.Event{
			Timestamp:     r.Timestamp,
			Asset:         asset,
			NotionalUSD:   n,
			Side:          flow.ParseSide(r.Side),
			SourceAccount: r.LiquidatedUserID,
			TargetAccount: r.TargetUserID,
		})
	}

	rng := flow.Range{Start: file.Metadata.TimeRange.Start, End: file.Metadata.TimeRange.End}
	if rng.DurationMs() == 0 {
		rng = flow.Range{}
	}
	return flow.NewLog(events, rng), file.Metadata, nil
}
