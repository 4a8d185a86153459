// Package layout turns aggregated flow structures into drawable
// geometry. Every generator is a pure function: identical aggregates
// in, identical geometry out, and an empty aggregate yields an empty
// but valid figure.
package layout

// Point is a 2D coordinate in the caller's drawing frame.
type Point struct {
	X float64
	Y float64
}

// CubicSegment is one cubic Bezier piece: P0 to P1 with control points
// C1 and C2.
type CubicSegment struct {
	P0 Point
	C1 Point
	C2 Point
	P1 Point
}

// MonotoneSpline fits cubic segments through the points using
// Fritsch-Carlson tangents, so the curve never overshoots between
// samples. Monotone input stays monotone, which keeps cumulative
// series visually honest. Fewer than two points yields no segments.
func MonotoneSpline(pts []Point) []CubicSegment {
	n := len(pts)
	if n < 2 {
		return nil
	}

	// Secant slopes between consecutive points.
	dx := make([]float64, n-1)
	slope := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx[i] = pts[i+1].X - pts[i].X
		if dx[i] == 0 {
			slope[i] = 0
			continue
		}
		slope[i] = (pts[i+1].Y - pts[i].Y) / dx[i]
	}

	// Tangent at each point; flatten where the secants disagree in sign
	// or vanish, so no segment overshoots.
	tan := make([]float64, n)
	tan[0] = slope[0]
	tan[n-1] = slope[n-2]
	for i := 1; i < n-1; i++ {
		if slope[i-1]*slope[i] <= 0 {
			tan[i] = 0
			continue
		}
		tan[i] = (slope[i-1] + slope[i]) / 2
		// Fritsch-Carlson limiter.
		for _, s := range []float64{slope[i-1], slope[i]} {
			if s != 0 {
				if r := tan[i] / s; r > 3 {
					tan[i] = 3 * s
				}
			}
		}
	}

	segs := make([]CubicSegment, 0, n-1)
	for i := 0; i < n-1; i++ {
		h := dx[i] / 3
		segs = append(segs, CubicSegment{
			P0: pts[i],
			C1: Point{X: pts[i].X + h, Y: pts[i].Y + tan[i]*h},
			C2: Point{X: pts[i+1].X - h, Y: pts[i+1].Y - tan[i+1]*h},
			P1: pts[i+1],
		})
	}
	return segs
}
