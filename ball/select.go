package ball

import (
	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

// GlobalElement addresses the k-th element of the sequence formed by
// concatenating every rank's local slice in rank order, using counts (as
// refreshed by team.Context.GatherCounts) to find the owning rank and then
// broadcasting that rank's element to the whole team.
func GlobalElement(ctx *team.Context, local []geom.Point, counts []int, k int) geom.Point {
	owner, offset := team.OwnerOf(counts, k)

	var payload team.Msg
	if ctx.Rank() == owner {
		payload = team.Msg{Floats: []float64(local[offset])}
	}
	result := ctx.Broadcast(owner, payload)
	return geom.Point(result.Floats)
}
