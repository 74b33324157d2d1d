// Package points implements the pseudo-random point generator treated as an
// external collaborator: it produces the initial dataset deterministically
// from a seed and hands each rank its block-decomposed slice.
package points

import (
	"math/rand"

	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

// Generate returns rank's block-decomposed slice of nPoints pseudo-random
// points of dimension nDims, deterministic for a given (seed, nDims,
// nPoints) triple regardless of how many ranks or processes are involved:
// every coordinate of every point is drawn from the same global sequence,
// so a rank's slice never depends on team size, only on its position within
// the global order.
func Generate(seed int64, nDims, nPoints, rank, size int) []geom.Point {
	return GenerateWithProgress(seed, nDims, nPoints, rank, size, nil)
}

// GenerateWithProgress is Generate with an optional onPoint hook, called
// once for every point drawn from the shared global sequence (including
// points that land on other ranks), so a caller on rank 0 can drive a
// progress indicator over the whole run's generation, not just its own
// shard.
func GenerateWithProgress(seed int64, nDims, nPoints, rank, size int, onPoint func()) []geom.Point {
	lo := team.BlockLow(rank, size, nPoints)
	hi := lo + team.BlockSize(rank, size, nPoints)

	rng := rand.New(rand.NewSource(seed))
	out := make([]geom.Point, 0, hi-lo)
	for i := 0; i < nPoints; i++ {
		p := make(geom.Point, nDims)
		for d := 0; d < nDims; d++ {
			p[d] = rng.Float64()
		}
		if i >= lo && i < hi {
			out = append(out, p)
		}
		if onPoint != nil {
			onPoint()
		}
	}
	return out
}
