package ball

import (
	"github.com/rs/zerolog/log"

	"github.com/habedi/ballteam/fatal"
	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/psrs"
	"github.com/habedi/ballteam/redistribute"
	"github.com/habedi/ballteam/team"
)

// NodeRecord is one row of the tree's flat serialization. LeftID and RightID
// are -1 for a leaf, and Radius is 0.
type NodeRecord struct {
	ID      int
	Center  geom.Point
	Radius  float64
	LeftID  int
	RightID int
}

// NodeSink receives the node records a rank creates as it participates in
// the recursion. An internal node's record is emitted only by its team's
// team-local rank 0, and a leaf's record only by the rank holding the leaf's
// single point; every other rank's Emit is simply never called for that node.
type NodeSink interface {
	Emit(NodeRecord)
}

// BuildTree runs the recursion state machine over ctx's current point set:
// refresh counts, handle the leaf case, otherwise find the splitting
// endpoints, project, sort, select the center and radius, emit this node's
// record, partition, redistribute, and recurse into whichever subteam this
// rank now belongs to (or, for a lone rank, into both halves in turn).
func BuildTree(ctx *team.Context, pts []geom.Point, nodeID int, sink NodeSink) {
	log.Debug().Int("node_id", nodeID).Int("team_size", ctx.Size()).Int("local", len(pts)).
		Msg("ENTERED")

	counts := ctx.GatherCounts(len(pts))
	nGlobal := team.GlobalSize(counts)
	fatal.Invariant(nGlobal > 0, "build: empty team point set on entry")
	log.Debug().Int("node_id", nodeID).Int("n_global", nGlobal).Msg("COUNTS_KNOWN")

	if nGlobal == 1 {
		if len(pts) == 1 {
			sink.Emit(NodeRecord{ID: nodeID, Center: pts[0].Clone(), Radius: 0, LeftID: -1, RightID: -1})
			log.Debug().Int("node_id", nodeID).Msg("leaf emitted")
		}
		return
	}

	first := GlobalElement(ctx, pts, counts, 0)
	a := FurthestFrom(ctx, pts, first)
	b := FurthestFrom(ctx, pts, a)
	dim := len(a)
	log.Debug().Int("node_id", nodeID).Msg("ENDPOINTS_FOUND")

	proj := Project(pts, a, b)
	log.Debug().Int("node_id", nodeID).Msg("PROJECTED")
	sorted := psrs.Sort(ctx, proj, dim)
	log.Debug().Int("node_id", nodeID).Msg("SORTED")
	center := Center(ctx, sorted)
	radius := Radius(ctx, pts, center)
	log.Debug().Int("node_id", nodeID).Float64("radius", radius).Msg("CENTER_KNOWN")

	leftID := 2*nodeID + 1
	rightID := 2*nodeID + 2
	if ctx.Rank() == 0 {
		sink.Emit(NodeRecord{ID: nodeID, Center: center, Radius: radius, LeftID: leftID, RightID: rightID})
	}

	left, right := Partition(pts, proj, center)
	log.Debug().Int("node_id", nodeID).Int("n_left", len(left)).Int("n_right", len(right)).
		Msg("PARTITIONED")

	if ctx.Size() == 1 {
		BuildTree(ctx, left, leftID, sink)
		BuildTree(ctx, right, rightID, sink)
		return
	}

	leftSize := ctx.Size() / 2
	newLocal := redistribute.Redistribute(ctx, left, right, leftSize, dim)
	log.Debug().Int("node_id", nodeID).Int("n_local_after", len(newLocal)).Msg("REDISTRIBUTED")
	leftCtx, rightCtx, inLeft := ctx.Split(leftSize)
	log.Debug().Int("node_id", nodeID).Bool("in_left", inLeft).Msg("SPLIT")
	if inLeft {
		BuildTree(leftCtx, newLocal, leftID, sink)
	} else {
		BuildTree(rightCtx, newLocal, rightID, sink)
	}
}
