package cluster

import (
	"fmt"
	"math"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
)

const (
	kmeansMaxIterations = 100
	kmeansConvergence   = 0.001
)

// seedOffsets are the three deterministic initialization variants tried by
// the K optimizer. There is no randomness anywhere: identical input must
// yield identical clusters across runs.
var seedOffsets = [3]float64{0, 0.25, 0.5}

type kmeansRun struct {
	assignment []int // point index -> cluster index
	centroids  [][]float64
	sizes      []int
	iterations int
}

// kmeans iterates nearest-centroid assignment and centroid recomputation
// until centroid movement falls below the convergence threshold.
func kmeans(points []point, k, seed int) kmeansRun {
	centroids := initCentroids(points, k, seed)
	assignment := make([]int, len(points))

	run := kmeansRun{}
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		run.iterations = iter + 1

		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c := range centroids {
				if d := dist(p.vec, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			assignment[i] = best
		}

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, featureDim)
		}
		for i, p := range points {
			c := assignment[i]
			counts[c]++
			for d, v := range p.vec {
				next[c][d] += v
			}
		}
		var moved float64
		claimed := make(map[int]bool)
		for c := range next {
			if counts[c] == 0 {
				// Reseed an empty cluster to the unclaimed point farthest
				// from its assigned centroid. Deterministic: on equal
				// distances the first-seen point wins.
				far, farDist := -1, -1.0
				for i, p := range points {
					if claimed[i] {
						continue
					}
					if d := dist(p.vec, centroids[assignment[i]]); d > farDist {
						far, farDist = i, d
					}
				}
				if far >= 0 {
					claimed[far] = true
					copy(next[c], points[far].vec)
				} else {
					next[c] = centroids[c]
				}
				if m := dist(centroids[c], next[c]); m > moved {
					moved = m
				}
				continue
			}
			for d := range next[c] {
				next[c][d] /= float64(counts[c])
			}
			if m := dist(centroids[c], next[c]); m > moved {
				moved = m
			}
		}
		centroids = next
		run.sizes = counts
		if moved < kmeansConvergence {
			break
		}
	}

	run.assignment = assignment
	run.centroids = centroids
	return run
}

// initCentroids spaces the k initial centroids evenly between the
// per-dimension min and max, indexed by cluster index. The seed shifts the
// spacing fraction, giving the optimizer distinct deterministic attempts.
func initCentroids(points []point, k, seed int) [][]float64 {
	mins := make([]float64, featureDim)
	maxs := make([]float64, featureDim)
	for d := 0; d < featureDim; d++ {
		mins[d] = math.Inf(1)
		maxs[d] = math.Inf(-1)
	}
	for _, p := range points {
		for d, v := range p.vec {
			mins[d] = math.Min(mins[d], v)
			maxs[d] = math.Max(maxs[d], v)
		}
	}

	offset := seedOffsets[seed%len(seedOffsets)]
	centroids := make([][]float64, k)
	for i := range centroids {
		frac := 0.5
		if k > 1 {
			frac = (float64(i) + offset) / (float64(k-1) + 2*offset)
		}
		c := make([]float64, featureDim)
		for d := 0; d < featureDim; d++ {
			c[d] = mins[d] + (maxs[d]-mins[d])*frac
		}
		centroids[i] = c
	}
	return centroids
}

// runKMeans executes K-means with the requested (or optimized) K and
// assembles labeled graph clusters.
func runKMeans(points []point, opts Options) Result {
	start := time.Now()

	k := opts.K
	seed := 0
	var score float64
	if k <= 0 {
		best := optimizeK(points, opts)
		k, seed, score = best.k, best.seed, best.score
	}
	if k > len(points) {
		k = len(points)
	}

	run := kmeans(points, k, seed)

	members := make([][]int, k)
	for i, c := range run.assignment {
		members[c] = append(members[c], i)
	}

	res := Result{K: k, Score: score}
	colorIndex := 0
	for c, idx := range members {
		if len(idx) == 0 {
			continue
		}
		nodes := make([]*graph.PositionNode, len(idx))
		for j, i := range idx {
			nodes[j] = points[i].node
		}
		stats := summarizeNodes(nodes)
		stats.Family = graph.DominantFamily(nodes)
		res.Clusters = append(res.Clusters, &graph.Cluster{
			ID:         fmt.Sprintf("kmeans-%d", c),
			Type:       graph.ClusterKMeans,
			Label:      "", // assigned below once averages are known
			Nodes:      nodes,
			Centroid:   run.centroids[c],
			Stats:      stats,
			ColorIndex: colorIndex,
		})
		colorIndex++
	}
	labelKMeansClusters(res.Clusters, k)
	res.Insights = kmeansInsights(res.Clusters, k, opts.K <= 0)

	observeRun(string(MethodKMeans), len(res.Clusters), time.Since(start))
	return res
}

// labelKMeansClusters applies the interpretable naming scheme: k=2 splits
// strong from weak, k=3 maps to the win/loss/draw profile, larger k falls
// back to win-rate buckets.
func labelKMeansClusters(clusters []*graph.Cluster, k int) {
	switch k {
	case 2:
		strong := 0
		for i, c := range clusters {
			if c.Stats.AvgWinRate > clusters[strong].Stats.AvgWinRate {
				strong = i
			}
		}
		for i, c := range clusters {
			if i == strong {
				c.Label = "Strong"
			} else {
				c.Label = "Weak"
			}
		}
	case 3:
		// Highest win rate is win-focused, lowest is loss-prone, the
		// remaining one draw-heavy.
		hi, lo := 0, 0
		for i, c := range clusters {
			if c.Stats.AvgWinRate > clusters[hi].Stats.AvgWinRate {
				hi = i
			}
			if c.Stats.AvgWinRate < clusters[lo].Stats.AvgWinRate {
				lo = i
			}
		}
		for i, c := range clusters {
			switch i {
			case hi:
				c.Label = "Win-Focused"
			case lo:
				c.Label = "Loss-Prone"
			default:
				c.Label = "Draw-Heavy"
			}
		}
	default:
		for _, c := range clusters {
			c.Label = winRateBucket(c.Stats.AvgWinRate)
		}
	}
}

func winRateBucket(avg float64) string {
	switch {
	case avg >= 65:
		return "Dominant"
	case avg >= 55:
		return "Favorable"
	case avg >= 45:
		return "Balanced"
	case avg >= 35:
		return "Difficult"
	default:
		return "Losing"
	}
}
