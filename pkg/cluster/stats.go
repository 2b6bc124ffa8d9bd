package cluster

import (
	"fmt"

	"github.com/patzerworks/openinglens/pkg/graph"
)

func summarizeNodes(nodes []*graph.PositionNode) graph.ClusterStats {
	stats := graph.ClusterStats{Count: len(nodes)}
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

func dbscanInsights(clusters []*graph.Cluster, noiseCount int) []string {
	var out []string
	for _, c := range clusters {
		out = append(out, fmt.Sprintf(
			"%s: %d positions averaging %.0f%% over %d games (density %.0f)",
			c.Label, c.Stats.Count, c.Stats.AvgWinRate, c.Stats.TotalGames, c.Stats.Density))
	}
	switch {
	case noiseCount == 1:
		out = append(out, "1 unique or experimental line did not fit any group")
	case noiseCount > 1:
		out = append(out, fmt.Sprintf(
			"%d unique or experimental lines did not fit any group", noiseCount))
	}
	if len(clusters) == 0 && noiseCount > 0 {
		out = append(out, "no dense groups found; try a larger eps or lower minPts")
	}
	return out
}

func kmeansInsights(clusters []*graph.Cluster, k int, autoK bool) []string {
	var out []string
	if autoK {
		out = append(out, fmt.Sprintf("selected k=%d by entropy/silhouette score", k))
	}
	for _, c := range clusters {
		line := fmt.Sprintf("%s: %d positions averaging %.0f%% over %d games",
			c.Label, c.Stats.Count, c.Stats.AvgWinRate, c.Stats.TotalGames)
		if c.Stats.Family != "" && c.Stats.Family != "Irregular" {
			line += ", mostly " + c.Stats.Family
		}
		out = append(out, line)
	}
	return out
}

func insufficientInsight(valid int) []string {
	return []string{fmt.Sprintf(
		"not enough positions to cluster: %d valid nodes, need at least %d (a valid node has coordinates and at least one game)",
		valid, MinClusterNodes)}
}
