package layout

import "github.com/patzerworks/openinglens/pkg/graph"

// minFitScale floors the fit scale so it never collapses to zero or goes
// negative; the upper bound is intentionally unclamped so dense graphs
// always fit, even below the interactive MinScale.
const minFitScale = 0.001

// OptimalTransform computes the transform that fits every node inside the
// viewport with the given padding. Degenerate content — no nodes, or all
// node centers coincident (a lone root) — falls back to the identity
// transform rather than zooming onto a zero-extent box.
func OptimalTransform(nodes []*graph.PositionNode, width, height, padding float64) Transform {
	b, ok := NodeBounds(nodes)
	if !ok {
		return Identity()
	}
	if degenerateCenters(nodes) {
		return Identity()
	}
	return FitBounds(b, width, height, padding)
}

// degenerateCenters reports whether every node center coincides, which
// makes a fit scale meaningless.
func degenerateCenters(nodes []*graph.PositionNode) bool {
	for _, n := range nodes[1:] {
		if n.X != nodes[0].X || n.Y != nodes[0].Y {
			return false
		}
	}
	return true
}

// FitBounds fits a world-space bounding box into the viewport.
func FitBounds(b Bounds, width, height, padding float64) Transform {
	contentW := b.Width()
	contentH := b.Height()
	if contentW <= 0 || contentH <= 0 || width <= 0 || height <= 0 {
		return Identity()
	}

	scaleX := (width - 2*padding) / contentW
	scaleY := (height - 2*padding) / contentH
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale < minFitScale {
		scale = minFitScale
	}

	// Center the content.
	cx := (b.MinX + b.MaxX) / 2
	cy := (b.MinY + b.MaxY) / 2
	t := Transform{
		X:     width/2 - cx*scale,
		Y:     height/2 - cy*scale,
		Scale: scale,
	}

	// Safety correction for rounding: if an edge of the content box ended
	// up inside the padding margin, shift the translation out of it. This
	// handles floating-point drift after the centering math, not a second
	// centering pass.
	left, top := t.WorldToScreen(b.MinX, b.MinY)
	right, bottom := t.WorldToScreen(b.MaxX, b.MaxY)
	if left < padding && right <= width-padding {
		t.X += padding - left
	} else if right > width-padding && left >= padding {
		t.X -= right - (width - padding)
	}
	if top < padding && bottom <= height-padding {
		t.Y += padding - top
	} else if bottom > height-padding && top >= padding {
		t.Y -= bottom - (height - padding)
	}
	return t
}
