// Package agg holds the pure reducers that turn a visible-event set
// into drawable aggregates. Every function here is referentially
// transparent: same input set, same output, no state between calls.
package agg

import (
	"sort"

	"github.com/conejocapital/cascadeflow/flow"
)

// Mode selects the grouping key for pairwise aggregation.
type Mode uint8

const (
	// ByAsset groups flows reflexively on the asset ticker. The source
	// data books the liquidated and ADL'd side against the same asset
	// field, so source==target==asset and an edge represents total
	// volume moved through that asset. Kept as a named simplification
	// rather than inventing a split the data does not carry.
	ByAsset Mode = iota

	// ByAccount groups on (liquidated account, counterparty account).
	// Self-flows and events with unknown accounts are dropped.
	ByAccount
)

func (m Mode) String() string {
	if m == ByAccount {
		return "account"
	}
	return "asset"
}

// Edge is the aggregate of all visible events between one source and
// one target key.
type Edge struct {
	Source   string
	Target   string
	Notional float64
	Count    int
}

// Node is the per-key aggregate. In asset mode inflow and outflow are
// the same total volume; in account mode outflow accrues to the
// liquidated side and inflow to the counterparty.
type Node struct {
	ID      string
	Inflow  float64
	Outflow float64
}

// Total is the node's flow used for ranking and arc sizing. Asset-mode
// nodes carry the same volume on both sides, so this is the outflow.
func (n Node) Total() float64 {
	if n.Outflow >= n.Inflow {
		return n.Outflow
	}
	return n.Inflow
}

// PairwiseOptions bound the pairwise aggregation.
type PairwiseOptions struct {
	Mode Mode

	// TopAccounts pre-restricts account mode to the N accounts with the
	// largest total notional before edges are built. Accounts outside
	// the cut never appear as either endpoint; this is a deliberate
	// bound on visualization cost, not a bug. 0 means the default 100.
	TopAccounts int

	// MinNotional drops edges below this value after aggregation.
	MinNotional float64
}

const DefaultTopAccounts = 100

func (o PairwiseOptions) topAccounts() int {
	if o.TopAccounts <= 0 {
		return DefaultTopAccounts
	}
	return o.TopAccounts
}

// Pairwise reduces the visible events to a node/edge set under the
// given grouping mode. Nodes are returned in descending total order,
// edges in descending notional order (key order breaks ties) so the
// output is deterministic for a given input set.
func Pairwise(events []flow.Event, opts PairwiseOptions) ([]Node, []Edge) {
	if opts.Mode == ByAccount {
		events = restrictTopAccounts(events, opts.topAccounts())
	}

	type key struct{ src, tgt string }
	flows := map[key]*Edge{}
	for _, e := range events {
		var k key
		switch opts.Mode {
		case ByAccount:
			if !e.HasAccounts() || e.SourceAccount == e.TargetAccount {
				continue
			}
			k = key{e.SourceAccount, e.TargetAccount}
		default:
			k = key{e.Asset, e.Asset}
		}
		edge := flows[k]
		if edge == nil {
			edge = &Edge{Source: k.src, Target: k.tgt}
			flows[k] = edge
		}
		edge.Notional += e.NotionalUSD
		edge.Count++
	}

	edges := make([]Edge, 0, len(flows))
	for _, e := range flows {
		if e.Notional < opts.MinNotional {
			continue
		}
		edges = append(edges, *e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Notional != edges[j].Notional {
			return edges[i].Notional > edges[j].Notional
		}
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	// Only keys touched by a surviving edge become nodes.
	byID := map[string]*Node{}
	node := func(id string) *Node {
		n := byID[id]
		if n == nil {
			n = &Node{ID: id}
			byID[id] = n
		}
		return n
	}
	for _, e := range edges {
		if e.Source == e.Target {
			n := node(e.Source)
			n.Outflow += e.Notional
			n.Inflow += e.Notional
			continue
		}
		node(e.Source).Outflow += e.Notional
		node(e.Target).Inflow += e.Notional
	}

	nodes := make([]Node, 0, len(byID))
	for _, n := range byID {
		nodes = append(nodes, *n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Total() != nodes[j].Total() {
			return nodes[i].Total() > nodes[j].Total()
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes, edges
}

// restrictTopAccounts keeps only events whose endpoints are both inside
// the top-N accounts ranked by total notional over the input set.
func restrictTopAccounts(events []flow.Event, n int) []flow.Event {
	totals := map[string]float64{}
	for _, e := range events {
		if !e.HasAccounts() {
			continue
		}
		totals[e.SourceAccount] += e.NotionalUSD
		totals[e.TargetAccount] += e.NotionalUSD
	}
	if len(totals) <= n {
		return events
	}

	type rank struct {
		id    string
		total float64
	}
	ranked := make([]rank, 0, len(totals))
	for id, t := range totals {
		ranked = append(ranked, rank{id, t})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return ranked[i].id < ranked[j].id
	})

	keep := make(map[string]struct{}, n)
	for _, r := range ranked[:n] {
		keep[r.id] = struct{}{}
	}

	kept := make([]flow.Event, 0, len(events))
	for _, e := range events {
		if _, ok := keep[e.SourceAccount]; !ok {
			continue
		}
		if _, ok := keep[e.TargetAccount]; !ok {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
