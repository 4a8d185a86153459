package agg

import (
	"sort"

	"github.com/conejocapital/cascadeflow/flow"
)

const DefaultSankeyTopN = 20

// SankeyRank is the two-column node/link set feeding the Sankey layout:
// liquidated accounts on the source side, ADL counterparties on the
// target side, each independently ranked and truncated.
type SankeyRank struct {
	Sources []Node
	Targets []Node
	Links   []Edge
}

// RankSankey ranks source-side and target-side account keys by total
// notional, keeps the top N of each, and retains a link only when both
// endpoints survived their column's cut. A heavy source can therefore
// lose every link if none of its counterparties made the target cut;
// that asymmetry is expected.
func RankSankey(events []flow.Event, topN int) SankeyRank {
	if topN <= 0 {
		topN = DefaultSankeyTopN
	}

	srcTotals := map[string]float64{}
	tgtTotals := map[string]float64{}
	type key struct{ src, tgt string }
	links := map[key]*Edge{}
	for _, e := range events {
		if !e.HasAccounts() || e.SourceAccount == e.TargetAccount {
			continue
		}
		srcTotals[e.SourceAccount] += e.NotionalUSD
		tgtTotals[e.TargetAccount] += e.NotionalUSD
		k := key{e.SourceAccount, e.TargetAccount}
		l := links[k]
		if l == nil {
			l = &Edge{Source: k.src, Target: k.tgt}
			links[k] = l
		}
		l.Notional += e.NotionalUSD
		l.Count++
	}

	sources := topAccountNodes(srcTotals, topN, false)
	targets := topAccountNodes(tgtTotals, topN, true)

	srcSet := make(map[string]struct{}, len(sources))
	for _, n := range sources {
		srcSet[n.ID] = struct{}{}
	}
	tgtSet := make(map[string]struct{}, len(targets))
	for _, n := range targets {
		tgtSet[n.ID] = struct{}{}
	}

	kept := make([]Edge, 0, len(links))
	for _, l := range links {
		if _, ok := srcSet[l.Source]; !ok {
			continue
		}
		if _, ok := tgtSet[l.Target]; !ok {
			continue
		}
		kept = append(kept, *l)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Notional != kept[j].Notional {
			return kept[i].Notional > kept[j].Notional
		}
		if kept[i].Source != kept[j].Source {
			return kept[i].Source < kept[j].Source
		}
		return kept[i].Target < kept[j].Target
	})

	return SankeyRank{Sources: sources, Targets: targets, Links: kept}
}

func topAccountNodes(totals map[string]float64, n int, inflow bool) []Node {
	nodes := make([]Node, 0, len(totals))
	for id, t := range totals {
		node := Node{ID: id}
		if inflow {
			node.Inflow = t
		} else {
			node.Outflow = t
		}
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Total() != nodes[j].Total() {
			return nodes[i].Total() > nodes[j].Total()
		}
		return nodes[i].ID < nodes[j].ID
	})
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	return nodes
}
