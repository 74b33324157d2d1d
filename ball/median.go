package ball

import (
	"math"

	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/psrs"
	"github.com/habedi/ballteam/team"
)

// Center returns the median point of proj (the team's projected point set)
// along the projection line: for an odd global count, the single middle
// element; for an even count, the midpoint of the two elements straddling
// the middle. sorted is the outcome of a prior psrs.Sort over proj.
func Center(ctx *team.Context, sorted psrs.Result) geom.Point {
	nGlobal := globalCount(sorted)
	mid := nGlobal / 2

	if nGlobal%2 == 1 {
		return elementAt(ctx, sorted, mid)
	}
	lo := elementAt(ctx, sorted, mid-1)
	hi := elementAt(ctx, sorted, mid)
	return geom.Midpoint(lo, hi)
}

// Radius returns the distance from center to the point in the team's
// original (unprojected) point set that is furthest from it.
func Radius(ctx *team.Context, pts []geom.Point, center geom.Point) float64 {
	far := FurthestFrom(ctx, pts, center)
	return math.Sqrt(geom.Distance(center, far))
}

func globalCount(sorted psrs.Result) int {
	if sorted.Replicated {
		return len(sorted.Sorted)
	}
	return team.GlobalSize(sorted.Counts)
}

// elementAt addresses the k-th element of the distributed sorted sequence,
// reading straight out of the local replica under the naive fallback or
// using GlobalElement's owner-then-broadcast otherwise.
func elementAt(ctx *team.Context, sorted psrs.Result, k int) geom.Point {
	if sorted.Replicated {
		return sorted.Sorted[k]
	}
	return GlobalElement(ctx, sorted.Sorted, sorted.Counts, k)
}
