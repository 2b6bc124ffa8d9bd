package graph

import (
	"fmt"
	"sort"
)

// PositionClusters groups nodes that share a position key (transpositions
// and their continuations). Only keys reached by at least two nodes form a
// cluster; the rest are not interesting to highlight.
func PositionClusters(data GraphData) []*Cluster {
	byFEN := make(map[string][]*PositionNode)
	for _, n := range data.Nodes {
		if n.FEN == "" {
			continue
		}
		byFEN[n.FEN] = append(byFEN[n.FEN], n)
	}

	keys := make([]string, 0, len(byFEN))
	for fen, nodes := range byFEN {
		if len(nodes) >= 2 {
			keys = append(keys, fen)
		}
	}
	sort.Strings(keys)

	clusters := make([]*Cluster, 0, len(keys))
	for i, fen := range keys {
		nodes := byFEN[fen]
		c := &Cluster{
			ID:         fmt.Sprintf("position-%d", i),
			Type:       ClusterPosition,
			Label:      fmt.Sprintf("Transposition ×%d", len(nodes)),
			Nodes:      nodes,
			Centroid:   renderCentroid(nodes),
			Stats:      summarize(nodes),
			ColorIndex: i,
		}
		clusters = append(clusters, c)
	}
	return clusters
}

// OpeningClusters groups nodes by opening family. Families with a single
// node are skipped; a hull around one box is drawn as a rectangle anyway
// and labeling it adds noise.
func OpeningClusters(data GraphData) []*Cluster {
	byFamily := make(map[string][]*PositionNode)
	for _, n := range data.Nodes {
		if n.IsRoot {
			continue
		}
		byFamily[FamilyForMoves(n.Moves)] = append(byFamily[FamilyForMoves(n.Moves)], n)
	}

	names := make([]string, 0, len(byFamily))
	for name, nodes := range byFamily {
		if len(nodes) >= 2 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	clusters := make([]*Cluster, 0, len(names))
	for i, name := range names {
		nodes := byFamily[name]
		stats := summarize(nodes)
		stats.Family = name
		clusters = append(clusters, &Cluster{
			ID:         "opening-" + name,
			Type:       ClusterOpening,
			Label:      name,
			Nodes:      nodes,
			Centroid:   renderCentroid(nodes),
			Stats:      stats,
			ColorIndex: i,
		})
	}
	return clusters
}

// ClustersForFEN filters position clusters down to those containing the
// active position. Drives the "zoom to current position's cluster" path.
func ClustersForFEN(clusters []*Cluster, fen string) []*Cluster {
	if fen == "" {
		return nil
	}
	var out []*Cluster
	for _, c := range clusters {
		for _, n := range c.Nodes {
			if n.FEN == fen {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func renderCentroid(nodes []*PositionNode) []float64 {
	if len(nodes) == 0 {
		return nil
	}
	var cx, cy float64
	for _, n := range nodes {
		cx += n.X
		cy += n.Y
	}
	return []float64{cx / float64(len(nodes)), cy / float64(len(nodes))}
}

func summarize(nodes []*PositionNode) ClusterStats {
	stats := ClusterStats{Count: len(nodes)}
	var wrSum float64
	var wrCount int
	for _, n := range nodes {
		stats.TotalGames += n.GameCount
		stats.AvgDepth += float64(n.Depth)
		if n.WinRate != nil {
			wrSum += *n.WinRate
			wrCount++
		}
	}
	if len(nodes) > 0 {
		stats.AvgDepth /= float64(len(nodes))
	}
	if wrCount > 0 {
		stats.AvgWinRate = wrSum / float64(wrCount)
	}
	return stats
}
