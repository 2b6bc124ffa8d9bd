// Package render is the draw side of the visualization: it consumes
// positioned nodes, edges, and cluster outlines together with the current
// transform and produces raster (PNG) or vector (SVG) output. It holds no
// interaction state and mutates nothing it is handed; everything that
// varies per frame arrives in a Scene.
package render

import (
	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
	"github.com/patzerworks/openinglens/pkg/viewport"
)

// Mode selects the visual emphasis of edges and node fills.
type Mode string

const (
	// ModeOpening emphasizes the move tree: main-line edges solid,
	// side lines dashed, nodes tinted by opening family.
	ModeOpening Mode = "opening"
	// ModePerformance colors nodes and edges by win rate.
	ModePerformance Mode = "performance"
)

// Scene is one frame's worth of draw input, assembled by the host from the
// viewport engine. The pipeline reads it once and never retains it.
type Scene struct {
	Data      graph.GraphData
	Transform layout.Transform

	Width      float64
	Height     float64
	PixelRatio float64 // 0 means 1

	Mode Mode

	PositionHulls []viewport.ClusterOutline
	OpeningHulls  []viewport.ClusterOutline

	// Hover and selection state, by id.
	HoveredClusterID string
	SelectedNodeID   string
	// NextMoveIDs marks continuations of the selected node; they share the
	// selection glow at reduced intensity.
	NextMoveIDs map[string]bool
	// MainLine marks edges on the most-played line, keyed by EdgeKey.
	MainLine map[string]bool
}

// EdgeKey is the MainLine lookup key for an edge.
func EdgeKey(e graph.Edge) string {
	return e.Source + ">" + e.Target
}

func (s Scene) ratio() float64 {
	if s.PixelRatio <= 0 {
		return 1
	}
	return s.PixelRatio
}

// cullRect is the expanded visible region in world coordinates. Nodes
// completely outside it are skipped.
type cullRect struct {
	minX, minY, maxX, maxY float64
}

func viewCull(t layout.Transform, width, height, margin float64) cullRect {
	x0, y0 := t.ScreenToWorld(0, 0)
	x1, y1 := t.ScreenToWorld(width, height)
	return cullRect{
		minX: x0 - margin,
		minY: y0 - margin,
		maxX: x1 + margin,
		maxY: y1 + margin,
	}
}

func (r cullRect) visible(n *graph.PositionNode) bool {
	return n.X+n.Width/2 >= r.minX &&
		n.X-n.Width/2 <= r.maxX &&
		n.Y+n.Height/2 >= r.minY &&
		n.Y-n.Height/2 <= r.maxY
}

// nodeLines builds the centered text block for a node: move label, then
// win rate and game count, or a single "No Data" line for missing nodes.
func nodeLines(n *graph.PositionNode) []string {
	label := "Start"
	if !n.IsRoot && len(n.Moves) > 0 {
		label = n.Moves[len(n.Moves)-1]
	}
	if n.IsMissing {
		return []string{label, "No Data"}
	}
	lines := []string{label}
	if n.WinRate != nil {
		lines = append(lines, percent(*n.WinRate))
	}
	if n.GameCount > 0 {
		lines = append(lines, games(n.GameCount))
	}
	return lines
}
