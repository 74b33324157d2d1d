package ball

import "github.com/habedi/ballteam/geom"

// Partition splits a rank's local point set into the points whose
// projection's first coordinate is strictly less than center's, and those
// whose first coordinate is equal or greater. pts and proj must be parallel slices (proj[i] is
// the projection of pts[i]); both are produced locally and no collective is
// needed to split them.
func Partition(pts, proj []geom.Point, center geom.Point) (left, right []geom.Point) {
	for i, p := range proj {
		if p[0] < center[0] {
			left = append(left, pts[i])
		} else {
			right = append(right, pts[i])
		}
	}
	return left, right
}
