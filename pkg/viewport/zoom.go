package viewport

import (
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

type zoomAnimation struct {
	from, to layout.Transform
	start    time.Time
	duration time.Duration
}

// FitView animates to a transform showing every node. Exposed to hosts as
// an imperative control.
func (e *Engine) FitView(now time.Time) {
	e.ZoomTo(ZoomTarget{Kind: ZoomAll}, ZoomOptions{}, now)
}

// ZoomToClusters animates to the active position's clusters, falling back
// to a full fit when there are none.
func (e *Engine) ZoomToClusters(now time.Time) {
	e.ZoomTo(ZoomTarget{Kind: ZoomClusters}, ZoomOptions{}, now)
}

// Reset animates back to the identity transform.
func (e *Engine) Reset(now time.Time) {
	e.ZoomTo(ZoomTarget{Kind: ZoomReset}, ZoomOptions{}, now)
}

// ZoomTo starts an animated transition to the target. Any in-flight
// animation is canceled first. User-initiated calls are rejected while
// interactions are blocked; the auto-fit scheduler passes Force so it can
// zoom while its own pending flag is raised.
func (e *Engine) ZoomTo(target ZoomTarget, opts ZoomOptions, now time.Time) {
	if e.closed {
		return
	}
	if !opts.Force && e.interactionsBlocked() {
		return
	}
	to, ok := e.targetTransform(target, opts)
	if !ok {
		return
	}
	e.startAnimation(to, opts, now)
}

func (e *Engine) startAnimation(to layout.Transform, opts ZoomOptions, now time.Time) {
	e.cancelAnimation()

	dur := opts.Duration
	if dur <= 0 {
		dur = ZoomDuration
	}
	e.anim = &zoomAnimation{
		from:     e.transform,
		to:       to,
		start:    now,
		duration: dur,
	}
}

func (e *Engine) cancelAnimation() {
	e.anim = nil
}

// Animating reports whether a zoom animation is in flight.
func (e *Engine) Animating() bool { return e.anim != nil }

// stepAnimation advances the current animation; called from Tick.
func (e *Engine) stepAnimation(now time.Time) {
	a := e.anim
	if a == nil {
		return
	}
	t := float64(now.Sub(a.start)) / float64(a.duration)
	if t >= 1 {
		e.transform = a.to
		e.anim = nil
		e.lastNavAt = now
		CurrentScale.Set(e.transform.Scale)
		e.animationLanded(now)
		return
	}
	if t < 0 {
		t = 0
	}
	// Cubic ease-out, each component interpolated independently.
	k := 1 - (1-t)*(1-t)*(1-t)
	e.transform = layout.Transform{
		X:     a.from.X + (a.to.X-a.from.X)*k,
		Y:     a.from.Y + (a.to.Y-a.from.Y)*k,
		Scale: a.from.Scale + (a.to.Scale-a.from.Scale)*k,
	}
	CurrentScale.Set(e.transform.Scale)
}

// targetTransform resolves a zoom target into a destination transform.
func (e *Engine) targetTransform(target ZoomTarget, opts ZoomOptions) (layout.Transform, bool) {
	padding := opts.Padding
	if padding <= 0 {
		padding = FitPadding
	}

	switch target.Kind {
	case ZoomReset:
		return layout.Identity(), true
	case ZoomAll:
		return e.fitFor(e.data.Nodes, padding), true
	case ZoomClusters:
		nodes := e.positionClusterNodes()
		if len(nodes) == 0 {
			nodes = e.data.Nodes // fall back to everything
		}
		return e.fitFor(nodes, padding), true
	case ZoomNodeIDs:
		byID := make(map[string]*graph.PositionNode, len(e.data.Nodes))
		for _, n := range e.data.Nodes {
			byID[n.ID] = n
		}
		var nodes []*graph.PositionNode
		for _, id := range target.IDs {
			if n, ok := byID[id]; ok {
				nodes = append(nodes, n)
			}
		}
		if len(nodes) == 0 {
			return layout.Transform{}, false
		}
		return e.fitFor(nodes, padding), true
	case ZoomNodes:
		if len(target.Nodes) == 0 {
			return layout.Transform{}, false
		}
		return e.fitFor(target.Nodes, padding), true
	}
	return layout.Transform{}, false
}

// fitFor computes the fit transform for a node subset. A subset whose
// centers all coincide centers that point at scale 1 instead of using the
// degenerate identity fallback, so zooming to a single node is meaningful.
func (e *Engine) fitFor(nodes []*graph.PositionNode, padding float64) layout.Transform {
	if len(nodes) == 0 {
		return layout.Identity()
	}
	t := layout.OptimalTransform(nodes, e.width, e.height, padding)
	if t == layout.Identity() && (nodes[0].X != 0 || nodes[0].Y != 0) {
		return layout.Transform{
			X:     e.width/2 - nodes[0].X,
			Y:     e.height/2 - nodes[0].Y,
			Scale: 1,
		}
	}
	return t
}

func (e *Engine) positionClusterNodes() []*graph.PositionNode {
	var nodes []*graph.PositionNode
	seen := make(map[string]bool)
	for _, h := range e.positionHulls {
		for _, n := range h.cluster.Nodes {
			if !seen[n.ID] {
				seen[n.ID] = true
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}
