package viewport

import (
	"github.com/patzerworks/openinglens/pkg/geom"
	"github.com/patzerworks/openinglens/pkg/graph"
)

// HitTest maps a screen point to the topmost node, or failing that the
// topmost cluster hull, under it. Nodes take priority over clusters.
// Without a valid transform there is no hit; never an error.
func (e *Engine) HitTest(x, y float64) (*graph.PositionNode, *graph.Cluster) {
	if !e.hasTransform || !e.transform.Valid() {
		return nil, nil
	}
	wx, wy := e.transform.ScreenToWorld(x, y)

	// Nodes draw in slice order, so the topmost is the last match.
	for i := len(e.data.Nodes) - 1; i >= 0; i-- {
		if n := e.data.Nodes[i]; n.Contains(wx, wy) {
			return n, nil
		}
	}

	// Cluster hulls, topmost first: position clusters draw above opening
	// clusters, and within each list later entries draw on top.
	if c := hitHulls(e.positionHulls, wx, wy); c != nil {
		return nil, c
	}
	if c := hitHulls(e.openingHulls, wx, wy); c != nil {
		return nil, c
	}
	return nil, nil
}

func hitHulls(hulls []clusterHull, wx, wy float64) *graph.Cluster {
	for i := len(hulls) - 1; i >= 0; i-- {
		if geom.PointInPolygon(wx, wy, hulls[i].Outline()) {
			return hulls[i].cluster
		}
	}
	return nil
}
