package layout

import (
	"math"
	"testing"

	"github.com/conejocapital/cascadeflow/agg"
	"github.com/conejocapital/cascadeflow/flow"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assetAggregate(notionals map[string]float64) ([]agg.Node, []agg.Edge) {
	var events []flow.Event
	i := 0
	for asset, n := range notionals {
		events = append(events, flow.Event{Timestamp: int64(i), Asset: asset, NotionalUSD: n})
		i++
	}
	return agg.Pairwise(events, agg.PairwiseOptions{Mode: agg.ByAsset})
}

func TestChordRowSumsMatchArcTotals(t *testing.T) {
	nodes, edges := assetAggregate(map[string]float64{"BTC": 300, "ETH": 100, "SOL": 50})
	d := Chord(nodes, edges, 0.05)

	require.Len(t, d.Arcs, 3)
	for i, arc := range d.Arcs {
		var rowSum float64
		for j := range d.Matrix[i] {
			rowSum += d.Matrix[i][j]
		}
		assert.InDelta(t, rowSum, arc.Total, 1e-9)
	}
}

func TestChordAnglesProportionalAndPadded(t *testing.T) {
	pad := 0.05
	nodes, edges := assetAggregate(map[string]float64{"BTC": 300, "ETH": 100})
	d := Chord(nodes, edges, pad)

	require.Len(t, d.Arcs, 2)
	span0 := d.Arcs[0].EndAngle - d.Arcs[0].StartAngle
	span1 := d.Arcs[1].EndAngle - d.Arcs[1].StartAngle
	assert.InDelta(t, 3.0, span0/span1, 1e-9) // proportional to totals

	// Arcs plus pads cover the full circle.
	total := span0 + span1 + 2*pad
	assert.InDelta(t, 2*math.Pi, total, 1e-9)

	// Descending order: BTC first.
	assert.Equal(t, "BTC", d.Arcs[0].ID)
	assert.Equal(t, 0.0, d.Arcs[0].StartAngle)
}

func TestChordRibbonThicknessFromMatrix(t *testing.T) {
	nodes, edges := assetAggregate(map[string]float64{"BTC": 200, "ETH": 100})
	d := Chord(nodes, edges, 0.05)

	require.Len(t, d.Ribbons, 2)
	for _, r := range d.Ribbons {
		// Reflexive dataset: ribbons sit on the diagonal and span the
		// whole arc.
		assert.Equal(t, r.Source, r.Target)
		i := indexOf(d.IDs, r.Source)
		assert.InDelta(t, d.Matrix[i][i], r.Notional, 1e-9)
		arc := d.Arcs[i]
		assert.InDelta(t, arc.StartAngle, r.SourceStart, 1e-9)
		assert.InDelta(t, arc.EndAngle, r.SourceEnd, 1e-9)
	}
}

func TestChordEmptyInput(t *testing.T) {
	d := Chord(nil, nil, 0.05)
	assert.Empty(t, d.Arcs)
	assert.Empty(t, d.Ribbons)
	assert.Empty(t, d.Matrix)
}

func TestChordZeroTotalNoNaN(t *testing.T) {
	nodes := []agg.Node{{ID: "BTC"}, {ID: "ETH"}}
	d := Chord(nodes, nil, 0.05)

	require.Len(t, d.Arcs, 2)
	for _, arc := range d.Arcs {
		assert.False(t, math.IsNaN(arc.StartAngle))
		assert.False(t, math.IsNaN(arc.EndAngle))
		assert.InDelta(t, arc.StartAngle, arc.EndAngle, 1e-9) // zero span
	}
}

// Layout consistency for arbitrary totals: each matrix row sum equals
// the arc total used for its angle.
func TestProperty_ChordLayoutConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	assets := []string{"BTC", "ETH", "SOL", "DOGE", "XRP"}

	properties.Property("row sums equal arc totals", prop.ForAll(
		func(notionals []float64) bool {
			m := map[string]float64{}
			for i, n := range notionals {
				m[assets[i%len(assets)]] += n
			}
			nodes, edges := assetAggregate(m)
			d := Chord(nodes, edges, 0.04)
			for i, arc := range d.Arcs {
				var rowSum float64
				for j := range d.Matrix[i] {
					rowSum += d.Matrix[i][j]
				}
				if math.Abs(rowSum-arc.Total) > 1e-6 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.01, 1e6)),
	))

	properties.TestingRun(t)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
