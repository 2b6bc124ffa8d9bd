// Package graph holds the opening-graph domain model: position nodes laid
// out in world coordinates, the edges between them, and the cluster objects
// overlaid on top. It is the producer side of the visualization; the
// viewport and render packages consume GraphData and never mutate it.
package graph

import "github.com/patzerworks/openinglens/pkg/geom"

// NodeSize is the fixed square extent of a position node in world units.
const NodeSize = 180.0

// PositionNode is one chess position reached in the player's games.
// Transpositions produce distinct nodes that share a FEN.
type PositionNode struct {
	ID    string   `json:"id"`
	FEN   string   `json:"fen"`
	Moves []string `json:"moves"` // SAN sequence from the root

	// World coordinates, center based.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	WinRate   *float64 `json:"win_rate,omitempty"` // percent, nil when unknown
	GameCount int      `json:"game_count"`
	Depth     int      `json:"depth"`
	IsRoot    bool     `json:"is_root"`
	IsMissing bool     `json:"is_missing"` // no statistical data

	// Derived display flags; the only mutable state after layout.
	IsSelected bool `json:"-"`
}

// Center returns the node center as a geometry point.
func (n *PositionNode) Center() geom.Point {
	return geom.Point{X: n.X, Y: n.Y}
}

// Contains reports whether the world point lies inside the node box.
func (n *PositionNode) Contains(x, y float64) bool {
	return x >= n.X-n.Width/2 && x <= n.X+n.Width/2 &&
		y >= n.Y-n.Height/2 && y <= n.Y+n.Height/2
}

// Edge connects a position to one of its continuations. Statistics are
// copied from the target node so the renderer never chases pointers.
type Edge struct {
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	WinRate   *float64 `json:"win_rate,omitempty"`
	GameCount int      `json:"game_count"`
	IsMissing bool     `json:"is_missing"`
}

// GraphData is the complete node/edge set handed to the visualization.
// Rebuilt whole whenever the underlying game set or filters change.
type GraphData struct {
	Nodes []*PositionNode `json:"nodes"`
	Edges []Edge          `json:"edges"`
}

// ClusterType identifies how a cluster was formed.
type ClusterType string

const (
	ClusterOpening  ClusterType = "opening"
	ClusterPosition ClusterType = "position"
	ClusterDBSCAN   ClusterType = "dbscan"
	ClusterKMeans   ClusterType = "kmeans"
)

// ClusterStats summarizes the nodes of one cluster.
type ClusterStats struct {
	Count      int     `json:"count"`
	AvgWinRate float64 `json:"avg_win_rate"`
	TotalGames int     `json:"total_games"`
	AvgDepth   float64 `json:"avg_depth"`
	// Density is 1000 / mean pairwise feature distance; zero for
	// single-node clusters. Only set by density clustering.
	Density float64 `json:"density,omitempty"`
	// Family is the dominant opening family by keyword match.
	Family string `json:"family,omitempty"`
}

// Cluster is one computed grouping of nodes. Clusters are recomputed whole
// whenever their triggering input changes and never outlive one pass.
type Cluster struct {
	ID    string      `json:"id"`
	Type  ClusterType `json:"type"`
	Label string      `json:"label"`
	Nodes []*PositionNode

	// Centroid is in render space for opening/position clusters and in
	// feature space for dbscan/kmeans clusters.
	Centroid   []float64    `json:"centroid,omitempty"`
	Stats      ClusterStats `json:"stats"`
	ColorIndex int          `json:"color_index"`
}
