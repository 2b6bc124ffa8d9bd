package cluster

import (
	"fmt"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
)

// dbscan runs density-based clustering over the feature points. Points
// whose eps-neighborhood is smaller than minPts and that are not density
// reachable from a core point are noise: excluded from every cluster. That
// is a valid outcome — noise points are the player's unique or
// experimental lines — not an error.
func dbscan(points []point, eps float64, minPts int) (clusters [][]int, noise []int) {
	const (
		unvisited = 0
		inNoise   = -1
	)
	// labels: 0 unvisited, -1 noise, >0 cluster id.
	labels := make([]int, len(points))
	next := 0

	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		neighbors := regionQuery(points, i, eps)
		if len(neighbors) < minPts {
			labels[i] = inNoise
			continue
		}

		next++
		labels[i] = next
		// Breadth-first expansion over density-reachable points.
		queue := append([]int{}, neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == inNoise {
				labels[j] = next // border point, reachable from a core
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = next
			jn := regionQuery(points, j, eps)
			if len(jn) >= minPts {
				queue = append(queue, jn...)
			}
		}
	}

	clusters = make([][]int, next)
	for i, label := range labels {
		switch {
		case label > 0:
			clusters[label-1] = append(clusters[label-1], i)
		default:
			noise = append(noise, i)
		}
	}
	return clusters, noise
}

// regionQuery returns the indices of every point within eps of points[i],
// including i itself.
func regionQuery(points []point, i int, eps float64) []int {
	var out []int
	for j := range points {
		if dist(points[i].vec, points[j].vec) <= eps {
			out = append(out, j)
		}
	}
	return out
}

// runDBSCAN executes density clustering and assembles graph clusters with
// summary statistics and insights.
func runDBSCAN(points []point, opts Options) Result {
	start := time.Now()
	memberSets, noise := dbscan(points, opts.Eps, opts.MinPts)

	var res Result
	for i, members := range memberSets {
		nodes := make([]*graph.PositionNode, len(members))
		for j, idx := range members {
			nodes[j] = points[idx].node
		}
		stats := summarizeNodes(nodes)
		stats.Density = density(points, members)
		stats.Family = graph.DominantFamily(nodes)

		label := stats.Family
		if label == "" || label == "Irregular" {
			label = fmt.Sprintf("Group %d", i+1)
		}
		res.Clusters = append(res.Clusters, &graph.Cluster{
			ID:         fmt.Sprintf("dbscan-%d", i),
			Type:       graph.ClusterDBSCAN,
			Label:      label,
			Nodes:      nodes,
			Centroid:   featureCentroid(points, members),
			Stats:      stats,
			ColorIndex: i,
		})
	}

	res.Insights = dbscanInsights(res.Clusters, len(noise))
	observeRun(string(MethodDBSCAN), len(res.Clusters), time.Since(start))
	return res
}

// density is 1000 over the mean pairwise feature distance; tight groups
// score high. Single-point clusters have no pairwise distance and score 0.
func density(points []point, members []int) float64 {
	if len(members) < 2 {
		return 0
	}
	var sum float64
	var count int
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += dist(points[members[i]].vec, points[members[j]].vec)
			count++
		}
	}
	mean := sum / float64(count)
	if mean == 0 {
		return 0
	}
	return 1000 / mean
}

func featureCentroid(points []point, members []int) []float64 {
	c := make([]float64, featureDim)
	for _, idx := range members {
		for d, v := range points[idx].vec {
			c[d] += v
		}
	}
	for d := range c {
		c[d] /= float64(len(members))
	}
	return c
}
