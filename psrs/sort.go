// Package psrs implements the distributed sort by regular sampling used to
// find the median projection without materializing every projection on one
// rank: local sort, regular sampling, pivot selection, and a redistribution
// that leaves each rank holding a sorted, roughly equal-sized shard of the
// team's globally sorted sequence. Below the N_global < P_team^2 threshold
// it falls back to a naive gather instead.
package psrs

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/habedi/ballteam/geom"
	"github.com/habedi/ballteam/team"
)

// Result is the outcome of a distributed sort by the first coordinate of
// each point (the sort key installed by the projection engine).
//
// When Replicated is false, Sorted is this rank's shard and Counts gives
// every rank's shard size, so the k-th global element is found with
// team.OwnerOf + Context.Broadcast. When Replicated is true (the naive
// fallback path), every rank already holds the complete sorted sequence
// locally and Sorted can be indexed directly with no further collective.
type Result struct {
	Sorted     []geom.Point
	Counts     []int
	Replicated bool
}

// Sort sorts local (by local[i][0]) as a single sequence distributed across
// the team, returning each rank's resulting shard (or, under the fallback
// threshold, the complete sequence replicated on every rank).
func Sort(ctx *team.Context, local []geom.Point, dim int) Result {
	counts := ctx.GatherCounts(len(local))
	nGlobal := team.GlobalSize(counts)
	p := ctx.Size()

	if nGlobal < p*p {
		log.Debug().Int("n_global", nGlobal).Int("team_size", p).Msg("psrs: naive-gather fallback")
		return naiveSort(ctx, local, counts, nGlobal, dim)
	}
	log.Debug().Int("n_global", nGlobal).Int("team_size", p).Msg("psrs: regular-sampling sort")
	return regularSamplingSort(ctx, local, p, dim)
}

func byFirstCoord(pts []geom.Point) {
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i][0] < pts[j][0]
	})
}

// naiveSort is the below-threshold fallback: every rank all-gathers every
// other rank's local points (in rank order, so the concatenation matches
// the team's global order before sorting), sorts the full sequence locally,
// and ends up holding an identical, complete, sorted copy - no further
// message passing is needed to address any element of it.
func naiveSort(ctx *team.Context, local []geom.Point, counts []int, nGlobal, dim int) Result {
	gathered := ctx.AllGather(team.Msg{Floats: flatten(local)})

	all := make([]geom.Point, 0, nGlobal)
	for r, m := range gathered {
		all = append(all, unflatten(m.Floats, dim, counts[r])...)
	}
	byFirstCoord(all)

	return Result{Sorted: all, Replicated: true}
}

// regularSamplingSort implements the four PSRS phases: local sort, regular
// sampling, pivot selection, and segment exchange.
func regularSamplingSort(ctx *team.Context, local []geom.Point, p, dim int) Result {
	sorted := append([]geom.Point(nil), local...)
	byFirstCoord(sorted)

	// Phase 2: regular sampling.
	localSamples := regularSamples(sorted, p)
	gathered := ctx.AllGather(team.Msg{Floats: localSamples})
	allSamples := make([]float64, 0, p*p)
	for _, m := range gathered {
		allSamples = append(allSamples, m.Floats...)
	}
	sort.Float64s(allSamples)

	// Phase 3: pivot selection, identical on every rank.
	pivots := make([]float64, p-1)
	for i := 0; i < p-1; i++ {
		pivots[i] = allSamples[(i+1)*p]
	}

	// Phase 4: redistribution.
	segments := splitBySortedPivots(sorted, pivots)
	send := make([]team.Msg, p)
	for j, seg := range segments {
		send[j] = team.Msg{Floats: flatten(seg)}
	}
	recvCounts := ctx.Exchange(countsOf(segments))
	received := ctx.Exchange(send)

	merged := make([]geom.Point, 0, len(local))
	for r, m := range received {
		n := recvCounts[r].Ints[0]
		merged = append(merged, unflatten(m.Floats, dim, n)...)
	}
	byFirstCoord(merged)

	counts := ctx.GatherCounts(len(merged))
	return Result{Sorted: merged, Counts: counts}
}

// regularSamples picks p equally spaced keys from a sorted local array, at
// indices 0, n/p, 2n/p, ....
func regularSamples(sorted []geom.Point, p int) []float64 {
	samples := make([]float64, p)
	n := len(sorted)
	step := n / p
	for i := 0; i < p; i++ {
		idx := i * step
		if idx >= n {
			idx = n - 1
		}
		samples[i] = sorted[idx][0]
	}
	return samples
}

// splitBySortedPivots partitions a sorted array into len(pivots)+1
// contiguous segments: a value equal to a pivot flows to the lower-indexed
// (earlier) segment, keeping the redistribution stable under ties.
func splitBySortedPivots(sorted []geom.Point, pivots []float64) [][]geom.Point {
	segments := make([][]geom.Point, len(pivots)+1)
	start := 0
	seg := 0
	for i, p := range sorted {
		for seg < len(pivots) && p[0] > pivots[seg] {
			segments[seg] = sorted[start:i]
			start = i
			seg++
		}
	}
	segments[seg] = sorted[start:]
	for seg++; seg < len(segments); seg++ {
		segments[seg] = sorted[len(sorted):]
	}
	return segments
}

func countsOf(segments [][]geom.Point) []team.Msg {
	out := make([]team.Msg, len(segments))
	for i, seg := range segments {
		out[i] = team.Msg{Ints: []int{len(seg)}}
	}
	return out
}

func flatten(pts []geom.Point) []float64 {
	if len(pts) == 0 {
		return nil
	}
	dim := len(pts[0])
	out := make([]float64, 0, len(pts)*dim)
	for _, p := range pts {
		out = append(out, []float64(p)...)
	}
	return out
}

func unflatten(flat []float64, dim, n int) []geom.Point {
	out := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		out[i] = geom.Point(flat[i*dim : (i+1)*dim]).Clone()
	}
	return out
}
