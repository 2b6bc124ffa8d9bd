// Package layout provides the world-to-screen transform math: coordinate
// mapping, content bounds, and the optimal-fit transform used by auto-fit
// and animated navigation. Pure functions; the viewport package owns the
// one mutable Transform instance.
package layout

import "github.com/patzerworks/openinglens/pkg/graph"

// Scale bounds for user interaction. An initial auto-fit may go below
// MinScale so oversized graphs still fit; wheel zoom cannot.
const (
	MinScale = 0.01
	MaxScale = 5.0
)

// Transform maps world coordinates to screen pixels: X and Y are the
// translation in pixels at the given scale, Scale is linear.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the degenerate transform used when there is nothing to fit.
func Identity() Transform {
	return Transform{X: 0, Y: 0, Scale: 1}
}

// Valid reports whether the transform can be inverted.
func (t Transform) Valid() bool {
	return t.Scale > 0
}

// WorldToScreen maps a world point to screen pixels.
func (t Transform) WorldToScreen(x, y float64) (float64, float64) {
	return x*t.Scale + t.X, y*t.Scale + t.Y
}

// ScreenToWorld is the inverse mapping. Calling it on an invalid transform
// returns the input unchanged; hit testing treats that as "no hit" anyway.
func (t Transform) ScreenToWorld(x, y float64) (float64, float64) {
	if !t.Valid() {
		return x, y
	}
	return (x - t.X) / t.Scale, (y - t.Y) / t.Scale
}

// ClampScale bounds a scale to the interactive range.
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Bounds is an axis-aligned rectangle in world coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// NodeBounds computes the bounding box over node rectangles (center ± half
// extent). The second return is false when there are no nodes.
func NodeBounds(nodes []*graph.PositionNode) (Bounds, bool) {
	if len(nodes) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinX: nodes[0].X - nodes[0].Width/2,
		MinY: nodes[0].Y - nodes[0].Height/2,
		MaxX: nodes[0].X + nodes[0].Width/2,
		MaxY: nodes[0].Y + nodes[0].Height/2,
	}
	for _, n := range nodes[1:] {
		if v := n.X - n.Width/2; v < b.MinX {
			b.MinX = v
		}
		if v := n.Y - n.Height/2; v < b.MinY {
			b.MinY = v
		}
		if v := n.X + n.Width/2; v > b.MaxX {
			b.MaxX = v
		}
		if v := n.Y + n.Height/2; v > b.MaxY {
			b.MaxY = v
		}
	}
	return b, true
}
