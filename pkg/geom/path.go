package geom

// paddingDamping keeps the expanded outline close to the hull; expanding by
// the full nominal padding overshoots visually on small hulls.
const paddingDamping = 0.3

// PathSegment is one quadratic Bézier segment of a smoothed outline.
// The segment runs from the previous segment's end point to End, bending
// toward Ctrl.
type PathSegment struct {
	Ctrl Point
	End  Point
}

// SmoothPath is a closed, rounded outline around a hull. Start is the first
// on-curve point; Segments close the loop back to Start.
type SmoothPath struct {
	Start    Point
	Segments []PathSegment
	// Outline is a flattened polygon approximation of the curve used for
	// point-in-polygon hit testing.
	Outline []Point
}

// SmoothClosedPath expands the hull outward from its centroid by a damped
// padding and returns a closed path of quadratic Bézier segments whose
// control points are pulled 20% back toward each vertex's predecessor,
// producing the rounded organic blob shape used for cluster hulls.
//
// The hull must have at least three vertices; smaller inputs yield an empty
// path (callers draw rectangles for those).
func SmoothClosedPath(hull []Point, padding float64) SmoothPath {
	if len(hull) < 3 {
		return SmoothPath{}
	}

	center := Centroid(hull)
	pad := padding * paddingDamping

	expanded := make([]Point, len(hull))
	for i, p := range hull {
		d := Dist(p, center)
		if d == 0 {
			expanded[i] = p
			continue
		}
		expanded[i] = Point{
			X: p.X + (p.X-center.X)/d*pad,
			Y: p.Y + (p.Y-center.Y)/d*pad,
		}
	}

	path := SmoothPath{Start: expanded[0]}
	for i := 1; i <= len(expanded); i++ {
		curr := expanded[i%len(expanded)]
		prev := expanded[i-1]
		ctrl := Point{
			X: curr.X + (prev.X-curr.X)*0.2,
			Y: curr.Y + (prev.Y-curr.Y)*0.2,
		}
		path.Segments = append(path.Segments, PathSegment{Ctrl: ctrl, End: curr})
	}
	path.Outline = flatten(path)
	return path
}

// flatten samples each quadratic segment at fixed parameter steps. Four
// samples per segment is plenty for hit testing.
func flatten(p SmoothPath) []Point {
	const steps = 4
	out := make([]Point, 0, len(p.Segments)*steps)
	prev := p.Start
	for _, seg := range p.Segments {
		for s := 1; s <= steps; s++ {
			t := float64(s) / steps
			out = append(out, quadAt(prev, seg.Ctrl, seg.End, t))
		}
		prev = seg.End
	}
	return out
}

func quadAt(p0, c, p1 Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
		Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
	}
}
