package routing

import (
	"math"

	"github.com/paulmach/orb"
)

// coordEps is the tolerance for coordinate comparisons during graph
// construction. Visibility tests are strict-interior tests, so a sight line
// running exactly along an obstacle boundary stays clear.
const coordEps = 1e-9

// sameCoord reports whether two coordinates are equal within coordEps.
func sameCoord(a, b float64) bool {
	return math.Abs(a-b) < coordEps
}

// paddedBound expands the obstacle rectangle by the clearance margin on all
// sides and returns it as an orb.Bound.
func paddedBound(r Rect, padding float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.X - padding, r.Y - padding},
		Max: orb.Point{r.X + r.Width + padding, r.Y + r.Height + padding},
	}
}

// corners returns the four corners of a bound in a fixed order
// (min, right-of-min, max, left-of-max).
func corners(b orb.Bound) [4]Point {
	return [4]Point{
		{X: b.Min[0], Y: b.Min[1]},
		{X: b.Max[0], Y: b.Min[1]},
		{X: b.Max[0], Y: b.Max[1]},
		{X: b.Min[0], Y: b.Max[1]},
	}
}

// pointStrictlyInside reports whether p lies in the open interior of b.
// Points on the boundary are not inside.
func pointStrictlyInside(p Point, b orb.Bound) bool {
	return p.X > b.Min[0]+coordEps && p.X < b.Max[0]-coordEps &&
		p.Y > b.Min[1]+coordEps && p.Y < b.Max[1]-coordEps
}

// segmentCrossesBound reports whether the axis-aligned segment a-b passes
// through the interior of the bound. Touching the boundary does not count.
func segmentCrossesBound(a, b Point, bound orb.Bound) bool {
	if sameCoord(a.Y, b.Y) {
		// Horizontal run at y = a.Y.
		y := a.Y
		lo, hi := math.Min(a.X, b.X), math.Max(a.X, b.X)
		return y > bound.Min[1]+coordEps && y < bound.Max[1]-coordEps &&
			hi > bound.Min[0]+coordEps && lo < bound.Max[0]-coordEps
	}
	if sameCoord(a.X, b.X) {
		// Vertical run at x = a.X.
		x := a.X
		lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		return x > bound.Min[0]+coordEps && x < bound.Max[0]-coordEps &&
			hi > bound.Min[1]+coordEps && lo < bound.Max[1]-coordEps
	}
	// Diagonal segments are never generated; treat a conservative bbox
	// overlap as a crossing so they can't sneak through an obstacle.
	seg := orb.Bound{
		Min: orb.Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: orb.Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
	return seg.Intersects(bound)
}

// isSightLineClear checks if a straight axis-aligned line between two points
// is collision-free against every padded obstacle bound.
func isSightLineClear(a, b Point, bounds []orb.Bound) bool {
	for _, bound := range bounds {
		if segmentCrossesBound(a, b, bound) {
			return false
		}
	}
	return true
}

// boundContainedIn reports whether bound a is fully contained in bound b.
func boundContainedIn(a, b orb.Bound) bool {
	return b.Contains(a.Min) && b.Contains(a.Max)
}
