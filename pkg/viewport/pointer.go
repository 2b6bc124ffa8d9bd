package viewport

import (
	"math"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

// MouseDown starts tracking a potential drag. The drag only arms once
// cumulative movement exceeds DragThreshold, so a twitchy click stays a
// click.
func (e *Engine) MouseDown(x, y float64, now time.Time) {
	if e.closed {
		return
	}
	e.mouseDown = true
	e.dragging = false
	e.dragAccum = 0
	e.lastMouseX, e.lastMouseY = x, y
}

// MouseMove updates hover state and, while the button is held, pans the
// view once the drag threshold is crossed. Hover detection stays active
// even while interactions are blocked; panning does not.
func (e *Engine) MouseMove(x, y float64, now time.Time) {
	if e.closed {
		return
	}
	dx := x - e.lastMouseX
	dy := y - e.lastMouseY
	e.lastMouseX, e.lastMouseY = x, y

	if e.mouseDown {
		e.dragAccum += math.Abs(dx) + math.Abs(dy)
		if e.dragAccum > DragThreshold {
			e.dragging = true
		}
		if e.dragging && !e.interactionsBlocked() {
			e.cancelAnimation()
			e.transform.X += dx
			e.transform.Y += dy
		}
		return
	}

	e.updateHover(x, y)
}

// MouseUp completes a click or a drag. A click that follows a drag is
// suppressed; the drag flag resets either way.
func (e *Engine) MouseUp(x, y float64, now time.Time) {
	if e.closed {
		return
	}
	wasDragging := e.dragging
	e.mouseDown = false
	e.dragging = false
	e.dragAccum = 0

	if wasDragging || e.interactionsBlocked() {
		return
	}

	node, _ := e.HitTest(x, y)
	if node != nil {
		e.lastNavAt = now
		if e.cb.OnNodeClick != nil {
			e.cb.OnNodeClick(node)
		}
	}
}

// Wheel applies one zoom tick pivoted at the cursor. delta > 0 zooms in.
func (e *Engine) Wheel(x, y, delta float64, now time.Time) {
	if e.interactionsBlocked() {
		return
	}
	factor := WheelZoomOut
	if delta > 0 {
		factor = WheelZoomIn
	}
	e.cancelAnimation()

	oldScale := e.transform.Scale
	newScale := layout.ClampScale(oldScale * factor)
	if newScale == oldScale {
		return
	}
	ratio := newScale / oldScale
	e.transform.X = x - (x-e.transform.X)*ratio
	e.transform.Y = y - (y-e.transform.Y)*ratio
	e.transform.Scale = newScale
	CurrentScale.Set(newScale)
}

// updateHover re-runs the hit test and fires hover callbacks on changes.
func (e *Engine) updateHover(x, y float64) {
	node, cluster := e.HitTest(x, y)

	if node != e.hoveredNode {
		if e.hoveredNode != nil && e.cb.OnNodeHoverEnd != nil {
			e.cb.OnNodeHoverEnd()
		}
		e.hoveredNode = node
		if node != nil && e.cb.OnNodeHover != nil {
			e.cb.OnNodeHover(node)
		}
	}

	if cluster != e.hoveredCluster {
		if e.hoveredCluster != nil && e.cb.OnClusterHoverEnd != nil {
			e.cb.OnClusterHoverEnd()
		}
		e.hoveredCluster = cluster
		if cluster != nil && e.cb.OnClusterHover != nil {
			e.cb.OnClusterHover(cluster.Label, cluster.ColorIndex)
		}
	}
}

// HoveredCluster returns the cluster under the pointer when no node is.
func (e *Engine) HoveredCluster() *graph.Cluster { return e.hoveredCluster }
