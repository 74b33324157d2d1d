// Package ball implements the distributed ball-tree recursion: finding the
// two splitting extrema, projecting the local point set onto their line,
// selecting the median, partitioning around it, and driving the recursion
// state machine that ties those steps together.
package ball

import "github.com/habedi/ballteam/geom"

// Project computes, for every local point, its orthogonal projection onto
// the line through a with direction b-a. It touches no other rank.
func Project(pts []geom.Point, a, b geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Project(a, b, p)
	}
	return out
}
