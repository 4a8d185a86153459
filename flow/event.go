package flow

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// ParseSide maps the loose side/direction strings found in the export
// data ("B", "buy", "long", "A", "sell", "short") onto a Side.
// Unrecognized values default to Long, matching the upstream exporter.
func ParseSide(raw string) Side {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "b"), strings.Contains(v, "buy"), strings.Contains(v, "long"):
		return Long
	case strings.Contains(v, "a"), strings.Contains(v, "sell"), strings.Contains(v, "short"):
		return Short
	}
	return Long
}

// Event is one ADL/liquidation fill. Immutable once ingested.
//
// SourceAccount is the liquidated party, TargetAccount the counterparty
// whose position absorbed the fill. Either may be empty when the upstream
// data did not carry account IDs; such events still count toward
// asset-level aggregation but are excluded from account-level views.
type Event struct {
	Timestamp     int64 // epoch milliseconds
	Asset         string
	NotionalUSD   float64 // absolute magnitude, never negative
	Side          Side
	SourceAccount string
	TargetAccount string
}

func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// HasAccounts reports whether both endpoints are known.
func (e Event) HasAccounts() bool {
	return e.SourceAccount != "" && e.TargetAccount != ""
}

// Range is the dataset's virtual time span in epoch milliseconds.
// It is carried explicitly because an empty-at-start period can be
// meaningful and is not derivable from event timestamps alone.
type Range struct {
	Start int64
	End   int64
}

func (r Range) DurationMs() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Log is the canonical, sorted event sequence plus its time range.
// It is the sole source of truth for the engine's lifetime; every
// derived structure is recomputed from it on demand.
type Log struct {
	events []Event
	rng    Range
}

// NewLog copies events, forces notionals to absolute magnitude, and
// stable-sorts ascending by timestamp (ties keep ingestion order).
// A zero range is derived from the min/max event timestamps.
func NewLog(events []Event, rng Range) *Log {
	es := make([]Event, len(events))
	copy(es, events)
	for i := range es {
		es[i].NotionalUSD = math.Abs(es[i].NotionalUSD)
	}
	sort.SliceStable(es, func(i, j int) bool {
		return es[i].Timestamp < es[j].Timestamp
	})

	if rng == (Range{}) && len(es) > 0 {
		rng = Range{Start: es[0].Timestamp, End: es[len(es)-1].Timestamp}
	}
	return &Log{events: es, rng: rng}
}

func (l *Log) Len() int {
	return len(l.events)
}

// Events returns the full sorted log. Callers must not mutate it.
func (l *Log) Events() []Event {
	return l.events
}

func (l *Log) Range() Range {
	return l.rng
}

// TotalNotional is the notional sum over the whole log.
func (l *Log) TotalNotional() float64 {
	var sum float64
	for _, e := range l.events {
		sum += e.NotionalUSD
	}
	return sum
}

// Assets returns the count of distinct assets in the log.
func (l *Log) Assets() int {
	seen := map[string]struct{}{}
	for _, e := range l.events {
		seen[e.Asset] = struct{}{}
	}
	return len(seen)
}

// Accounts returns the count of distinct known accounts (either side).
func (l *Log) Accounts() int {
	seen := map[string]struct{}{}
	for _, e := range l.events {
		if e.SourceAccount != "" {
			seen[e.SourceAccount] = struct{}{}
		}
		if e.TargetAccount != "" {
			seen[e.TargetAccount] = struct{}{}
		}
	}
	return len(seen)
}
