package layout

import (
	"github.com/conejocapital/cascadeflow/agg"
)

// StreamBand is one asset's stacked band. Within the band the
// liquidated component occupies [0, Mid] and the ADL component stacks
// immediately above at [Mid, Top], both in the same per-bucket frame.
// Y grows upward from the baseline; callers flip for screen space.
type StreamBand struct {
	Asset    string
	Mid      []Point // top of the liquidated region
	Top      []Point // top of the ADL region
	MidCurve []CubicSegment
	TopCurve []CubicSegment
	Final    float64 // final cumulative total, drives draw order
}

// StreamGraph is the stacked-area figure. Bands are ordered largest
// final total first so rendering back-to-front is a straight iteration.
type StreamGraph struct {
	Bands    []StreamBand
	MaxValue float64
	Width    float64
	Height   float64
}

// Stream scales each asset's cumulative series into a width×height
// frame, monotone-interpolated across buckets. All bands share one
// value scale (the largest final total) so their heights compare
// directly. Empty series yield an empty graph; a zero maximum yields
// flat zero-height bands, never NaN.
func Stream(series []agg.AssetSeries, width, height float64) StreamGraph {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 240
	}
	g := StreamGraph{Width: width, Height: height}
	if len(series) == 0 {
		return g
	}

	for _, s := range series {
		if t := s.FinalTotal(); t > g.MaxValue {
			g.MaxValue = t
		}
	}

	scaleY := func(v float64) float64 {
		if g.MaxValue <= 0 {
			return 0
		}
		return v / g.MaxValue * height
	}

	for _, s := range series {
		n := len(s.Points)
		if n == 0 {
			continue
		}
		step := width
		if n > 1 {
			step = width / float64(n-1)
		}
		band := StreamBand{
			Asset: s.Asset,
			Mid:   make([]Point, n),
			Top:   make([]Point, n),
			Final: s.FinalTotal(),
		}
		for i, p := range s.Points {
			x := float64(i) * step
			if n == 1 {
				x = 0
			}
			band.Mid[i] = Point{X: x, Y: scaleY(p.Liquidated)}
			band.Top[i] = Point{X: x, Y: scaleY(p.Liquidated + p.ADL)}
		}
		band.MidCurve = MonotoneSpline(band.Mid)
		band.TopCurve = MonotoneSpline(band.Top)
		g.Bands = append(g.Bands, band)
	}
	return g
}
