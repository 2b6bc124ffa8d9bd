package geom

import "sort"

// ConvexHull computes the convex hull of the given points using a Graham
// scan and returns its vertices in counter-clockwise order.
//
// Fewer than three points are returned unchanged (a copy): the caller is
// expected to special-case one or two points with a rectangular fallback
// rather than asking for a hull that cannot exist.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	pts := make([]Point, len(points))
	copy(pts, points)

	// Anchor: lowest Y, tie-break lowest X.
	anchor := 0
	for i, p := range pts {
		a := pts[anchor]
		if p.Y < a.Y || (p.Y == a.Y && p.X < a.X) {
			anchor = i
		}
	}
	pts[0], pts[anchor] = pts[anchor], pts[0]
	start := pts[0]

	// Sort the remainder by polar angle around the anchor; closer points
	// first on ties so collinear runs collapse cleanly in the scan.
	sort.Slice(pts[1:], func(i, j int) bool {
		a, b := pts[1+i], pts[1+j]
		c := cross(start, a, b)
		if c == 0 {
			return SqDist(start, a) < SqDist(start, b)
		}
		return c > 0
	})

	stack := make([]Point, 0, len(pts))
	for _, p := range pts {
		// Pop while the last three points turn clockwise or are collinear.
		for len(stack) >= 2 && cross(stack[len(stack)-2], stack[len(stack)-1], p) <= 0 {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, p)
	}
	return stack
}

// cross returns the z component of (b-a) x (c-a). Positive means the turn
// a->b->c is counter-clockwise.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
