// Package redistribute moves points across a team when it splits in two:
// after every rank locally partitions its points into a left and a right
// half, the halves must be reshuffled so that each half ends up
// block-decomposed across its own future subteam, rather than scattered
// arbitrarily across the parent team's ranks.
package redistribute

import (
	"github.com/rs/zerolog/log"

	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

// Redistribute exchanges every rank's left/right partition halves across the
// full (pre-split) team so that each rank ends up holding a block-decomposed
// shard of whichever half its post-split subteam rank belongs to:
// team-local ranks [0, leftSize) receive shards of the left half's global
// sequence, ranks [leftSize, ctx.Size()) receive shards of the right half's.
// dim is the point dimensionality, needed to split each received flat
// payload back into points even on a rank whose own local halves are empty.
func Redistribute(ctx *team.Context, localLeft, localRight []geom.Point, leftSize, dim int) []geom.Point {
	size := ctx.Size()
	rightSize := size - leftSize

	counts := ctx.AllGather(team.Msg{Ints: []int{len(localLeft), len(localRight)}})
	leftCounts := make([]int, size)
	rightCounts := make([]int, size)
	leftOffset, rightOffset := 0, 0
	for r, m := range counts {
		leftCounts[r] = m.Ints[0]
		rightCounts[r] = m.Ints[1]
		if r < ctx.Rank() {
			leftOffset += leftCounts[r]
			rightOffset += rightCounts[r]
		}
	}
	nLeftGlobal := team.GlobalSize(leftCounts)
	nRightGlobal := team.GlobalSize(rightCounts)
	log.Debug().Int("rank", ctx.Rank()).Int("n_left_global", nLeftGlobal).
		Int("n_right_global", nRightGlobal).Int("left_size", leftSize).Int("right_size", rightSize).
		Msg("redistribute")

	send := make([]team.Msg, size)
	bucketInto(send, localLeft, leftOffset, 0, leftSize, nLeftGlobal)
	bucketInto(send, localRight, rightOffset, leftSize, rightSize, nRightGlobal)

	received := ctx.Exchange(send)

	var out []geom.Point
	for _, m := range received {
		out = append(out, unflatten(m.Floats, dim)...)
	}
	return out
}

// bucketInto appends each point in pts to send[destLo+r], where r is the
// block-decomposition owner, among destSize ranks sharing nGlobal points,
// of that point's position in the half's global sequence (startOffset is
// this rank's own starting position in that sequence).
func bucketInto(send []team.Msg, pts []geom.Point, startOffset, destLo, destSize, nGlobal int) {
	pos := startOffset
	for _, p := range pts {
		r := destLo + ownerOfBlock(pos, destSize, nGlobal)
		send[r].Floats = append(send[r].Floats, []float64(p)...)
		pos++
	}
}

// ownerOfBlock returns which of destSize block-decomposed ranks owns global
// position pos out of nGlobal elements.
func ownerOfBlock(pos, destSize, nGlobal int) int {
	for r := 0; r < destSize; r++ {
		if pos < team.BlockLow(r+1, destSize, nGlobal) {
			return r
		}
	}
	return destSize - 1
}

func unflatten(flat []float64, dim int) []geom.Point {
	n := len(flat) / dim
	out := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		out[i] = geom.Point(flat[i*dim : (i+1)*dim]).Clone()
	}
	return out
}
