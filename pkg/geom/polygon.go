package geom

// PointInPolygon reports whether (x, y) lies inside the polygon using the
// standard ray-casting parity test. Polygons with fewer than three vertices
// contain nothing.
func PointInPolygon(x, y float64, poly []Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
