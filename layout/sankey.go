package layout

import (
	"github.com/conejocapital/cascadeflow/agg"
)

// SankeyOptions size the two-column figure. Zero fields take defaults.
type SankeyOptions struct {
	Width     float64 // full figure width
	Height    float64 // full figure height
	NodeWidth float64 // band rectangle width
	Gap       float64 // vertical gap between stacked bands
	MaxStroke float64 // stroke width of the largest link
}

func (o SankeyOptions) withDefaults() SankeyOptions {
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = 18
	}
	if o.Gap < 0 {
		o.Gap = 0
	} else if o.Gap == 0 {
		o.Gap = 6
	}
	if o.MaxStroke <= 0 {
		o.MaxStroke = 24
	}
	return o
}

// SankeyNode is one account band. X is the band's left edge; bands in a
// column stack top to bottom in descending notional order.
type SankeyNode struct {
	ID       string
	X        float64
	Y        float64
	Height   float64
	Notional float64
}

// SankeyLink is a cubic curve between the midpoints of its endpoint
// bands; StrokeWidth is proportional to notional relative to the
// largest link in view.
type SankeyLink struct {
	Source      string
	Target      string
	Notional    float64
	StrokeWidth float64
	Path        CubicSegment
}

// SankeyDiagram is the two-column flow figure: liquidated accounts on
// the left, ADL counterparties on the right.
type SankeyDiagram struct {
	Sources []SankeyNode
	Targets []SankeyNode
	Links   []SankeyLink
}

// Sankey lays out the ranked two-column aggregate. Each band's height
// is its share of its column's total notional applied to the height
// remaining after fixed gaps; a zero-total column yields zero-height
// bands rather than NaN. Empty input yields an empty diagram.
func Sankey(r agg.SankeyRank, opts SankeyOptions) SankeyDiagram {
	o := opts.withDefaults()

	var d SankeyDiagram
	d.Sources = column(r.Sources, 0, o)
	d.Targets = column(r.Targets, o.Width-o.NodeWidth, o)

	mid := func(ns []SankeyNode, id string) (Point, bool) {
		for _, n := range ns {
			if n.ID == id {
				return Point{X: n.X, Y: n.Y + n.Height/2}, true
			}
		}
		return Point{}, false
	}

	var maxLink float64
	for _, l := range r.Links {
		if l.Notional > maxLink {
			maxLink = l.Notional
		}
	}

	for _, l := range r.Links {
		s, ok := mid(d.Sources, l.Source)
		if !ok {
			continue
		}
		t, ok := mid(d.Targets, l.Target)
		if !ok {
			continue
		}
		s.X += o.NodeWidth // leave band from its right edge
		var stroke float64
		if maxLink > 0 {
			stroke = l.Notional / maxLink * o.MaxStroke
		}
		mx := (s.X + t.X) / 2
		d.Links = append(d.Links, SankeyLink{
			Source:      l.Source,
			Target:      l.Target,
			Notional:    l.Notional,
			StrokeWidth: stroke,
			Path: CubicSegment{
				P0: s,
				C1: Point{X: mx, Y: s.Y},
				C2: Point{X: mx, Y: t.Y},
				P1: t,
			},
		})
	}
	return d
}

func column(nodes []agg.Node, x float64, o SankeyOptions) []SankeyNode {
	if len(nodes) == 0 {
		return nil
	}

	var total float64
	for _, n := range nodes {
		total += n.Total()
	}

	avail := o.Height - o.Gap*float64(len(nodes)-1)
	if avail < 0 {
		avail = 0
	}

	out := make([]SankeyNode, 0, len(nodes))
	y := 0.0
	for _, n := range nodes {
		var h float64
		if total > 0 {
			h = n.Total() / total * avail
		}
		out = append(out, SankeyNode{
			ID:       n.ID,
			X:        x,
			Y:        y,
			Height:   h,
			Notional: n.Total(),
		})
		y += h + o.Gap
	}
	return out
}
