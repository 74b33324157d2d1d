package ball

import (
	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

// FurthestFrom returns the point in the team's global point set that is
// furthest from p. Ties are broken by lowest rank, then lowest local index:
// each rank keeps the first local point that strictly improves on its
// running maximum, and every rank then scans the gathered candidates in
// ascending rank order, only replacing its pick on a strictly greater
// distance. Because every rank performs that same deterministic scan over
// the same gathered data, all ranks agree on the result without a further
// collective.
func FurthestFrom(ctx *team.Context, pts []geom.Point, p geom.Point) geom.Point {
	local := p
	localMax := -1.0
	for _, pt := range pts {
		d := geom.Distance(p, pt)
		if d > localMax {
			localMax = d
			local = pt
		}
	}

	gathered := ctx.AllGather(team.Msg{Floats: []float64(local)})

	best := p
	bestDist := -1.0
	for _, m := range gathered {
		cand := geom.Point(m.Floats)
		d := geom.Distance(p, cand)
		if d > bestDist {
			bestDist = d
			best = cand
		}
	}
	return best
}
