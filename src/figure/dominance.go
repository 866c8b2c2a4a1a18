package figure

import (
	"math"
	"time"
)

// Side says which of the two series dominates at a point.
type Side string

const (
	// SideA: value_a > value_b.
	SideA Side = "a"
	// SideB: value_a <= value_b, ties included.
	SideB Side = "b"
)

// Dominant classifies one point. NaN compares false, so a missing value counts as B.
func Dominant(a, b float64) Side {
	if a > b {
		return SideA
	}
	return SideB
}

// Run is a maximal index range [Start, End] with the same dominant side.
type Run struct {
	Side  Side
	Start int
	End   int
}

// DominanceRuns splits the points into maximal same-side runs. The runs cover every index
// from 0 to n-1 exactly once, in order, with alternating sides. n is the shorter length.
func DominanceRuns(a, b []float64) []Run {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var runs []Run
	for i := 0; i < n; i++ {
		s := Dominant(a[i], b[i])
		if len(runs) > 0 && runs[len(runs)-1].Side == s {
			runs[len(runs)-1].End = i
			continue
		}
		runs = append(runs, Run{Side: s, Start: i, End: i})
	}
	return runs
}

// crossing returns where the two curves meet between point i and i+1, assuming the sides
// differ there. On a tie point the crossing is the point itself.
func crossing(times []time.Time, a, b []float64, i int) Point {
	d0 := a[i] - b[i]
	d1 := a[i+1] - b[i+1]
	frac := d0 / (d0 - d1)
	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		frac = 0.5
	}
	frac = math.Max(0, math.Min(1, frac))
	span := times[i+1].Sub(times[i])
	t := times[i].Add(time.Duration(float64(span) * frac))
	v := a[i] + frac*(a[i+1]-a[i])
	if math.IsNaN(v) {
		v = b[i] + frac*(b[i+1]-b[i])
	}
	return Point{Time: t, Value: v}
}

// BandPolygons returns one closed polygon per run: along series A from the left boundary to
// the right boundary, then back along series B. Boundaries between runs are the interpolated
// crossings, so neighbouring polygons share an edge and leave no gap.
func BandPolygons(times []time.Time, a, b []float64, runs []Run) [][]Point {
	n := len(times)
	if len(a) < n {
		n = len(a)
	}
	if len(b) < n {
		n = len(b)
	}
	out := make([][]Point, 0, len(runs))
	for _, r := range runs {
		if r.Start < 0 || r.End >= n || r.Start > r.End {
			continue
		}
		poly := make([]Point, 0, 2*(r.End-r.Start+1)+2)
		if r.Start > 0 {
			poly = append(poly, crossing(times, a, b, r.Start-1))
		}
		for i := r.Start; i <= r.End; i++ {
			poly = append(poly, Point{Time: times[i], Value: a[i]})
		}
		if r.End < n-1 {
			poly = append(poly, crossing(times, a, b, r.End))
		}
		for i := r.End; i >= r.Start; i-- {
			poly = append(poly, Point{Time: times[i], Value: b[i]})
		}
		out = append(out, poly)
	}
	return out
}
