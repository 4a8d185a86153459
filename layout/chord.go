package layout

import (
	"math"

	"github.com/conejocapital/cascadeflow/agg"
)

const DefaultChordPad = 0.04 // radians between adjacent arcs

// ChordArc is one node's slice of the circle. Angles are radians from
// 12 o'clock, clockwise.
type ChordArc struct {
	ID         string
	StartAngle float64
	EndAngle   float64
	Total      float64
}

// ChordRibbon connects a sub-band of the source arc to a sub-band of
// the target arc. Thickness is derived from the matrix cell, never
// re-measured from the events.
type ChordRibbon struct {
	Source      string
	Target      string
	Notional    float64
	SourceStart float64
	SourceEnd   float64
	TargetStart float64
	TargetEnd   float64
}

// ChordDiagram is the circular flow figure for asset-mode output.
type ChordDiagram struct {
	IDs     []string
	Matrix  [][]float64
	Arcs    []ChordArc
	Ribbons []ChordRibbon
}

// Chord builds the N×N matrix from the pairwise node/edge set and lays
// out proportional arcs with a fixed pad between groups. Node order is
// preserved from the aggregator (descending total). Each arc's angular
// span is proportional to its matrix row sum; ribbons occupy sub-bands
// allocated within the arcs in index order.
//
// A zero total flow produces arcs of zero span at their pad positions
// and no ribbons, never NaN angles.
func Chord(nodes []agg.Node, edges []agg.Edge, pad float64) ChordDiagram {
	if pad <= 0 {
		pad = DefaultChordPad
	}

	n := len(nodes)
	d := ChordDiagram{
		IDs:    make([]string, n),
		Matrix: make([][]float64, n),
	}
	index := make(map[string]int, n)
	for i, node := range nodes {
		d.IDs[i] = node.ID
		index[node.ID] = i
		d.Matrix[i] = make([]float64, n)
	}
	for _, e := range edges {
		i, iok := index[e.Source]
		j, jok := index[e.Target]
		if !iok || !jok {
			continue
		}
		d.Matrix[i][j] += e.Notional
	}

	if n == 0 {
		return d
	}

	rowTotal := make([]float64, n)
	var total float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rowTotal[i] += d.Matrix[i][j]
		}
		total += rowTotal[i]
	}

	free := 2*math.Pi - float64(n)*pad
	if free < 0 {
		free = 0
	}
	var k float64 // radians per unit of notional
	if total > 0 {
		k = free / total
	}

	// Arcs laid out sequentially; sub-band angles allocated per cell in
	// index order so ribbon ends are reproducible from the matrix alone.
	subStart := make([][]float64, n)
	d.Arcs = make([]ChordArc, n)
	angle := 0.0
	for i := 0; i < n; i++ {
		start := angle
		subStart[i] = make([]float64, n+1)
		a := start
		for j := 0; j < n; j++ {
			subStart[i][j] = a
			a += d.Matrix[i][j] * k
		}
		subStart[i][n] = a
		d.Arcs[i] = ChordArc{
			ID:         d.IDs[i],
			StartAngle: start,
			EndAngle:   start + rowTotal[i]*k,
			Total:      rowTotal[i],
		}
		angle = d.Arcs[i].EndAngle + pad
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if d.Matrix[i][j] <= 0 {
				continue
			}
			d.Ribbons = append(d.Ribbons, ChordRibbon{
				Source:      d.IDs[i],
				Target:      d.IDs[j],
				Notional:    d.Matrix[i][j],
				SourceStart: subStart[i][j],
				SourceEnd:   subStart[i][j] + d.Matrix[i][j]*k,
				TargetStart: subStart[j][i],
				TargetEnd:   subStart[j][i] + d.Matrix[j][i]*k,
			})
		}
	}
	return d
}
