package cluster

import "math"

// Optimizer score blend. Silhouette and feature importance reward cohesive,
// well-separated clusters on the dimensions the user weighted; entropy
// penalizes lopsided or internally mixed clusterings.
const (
	scoreSilhouette = 0.4
	scoreImportance = 0.4
	scoreEntropy    = 0.2
)

// Reference variances used to normalize intra-cluster variance per feature.
// A cluster whose win-rate variance reaches the reference is considered as
// mixed as no clustering at all.
var referenceVariance = map[int]float64{
	fWin:         0.09, // std 0.3 in win-probability space
	fReliability: 0.04,
	fDepth:       0.05,
}

type kAttempt struct {
	k     int
	seed  int
	score float64
}

// optimizeK tries every candidate k in [2, min(maxK, n/2)], running K-means
// three times per k with distinct deterministic seeds, and returns the
// attempt with the best combined score. Ties keep the first-seen attempt,
// both across seeds and across k, so the result is reproducible even when
// floating-point scores collide.
func optimizeK(points []point, opts Options) kAttempt {
	maxK := opts.MaxK
	if maxK <= 0 {
		maxK = DefaultOptions().MaxK
	}
	if half := len(points) / 2; maxK > half {
		maxK = half
	}

	best := kAttempt{k: 2, seed: 0, score: math.Inf(-1)}
	for k := 2; k <= maxK; k++ {
		for seed := range seedOffsets {
			run := kmeans(points, k, seed)
			score := combinedScore(points, run, opts.Weights)
			if score > best.score {
				best = kAttempt{k: k, seed: seed, score: score}
			}
		}
	}
	if math.IsInf(best.score, -1) {
		best.score = 0
	}
	return best
}

func combinedScore(points []point, run kmeansRun, w Weights) float64 {
	sil := weightedSilhouette(points, run)
	imp := featureImportanceScore(points, run, w)
	ent := weightedEntropy(points, run, w)
	return scoreSilhouette*sil + scoreImportance*imp - scoreEntropy*ent
}

// weightedSilhouette is the standard mean (b-a)/max(a,b) silhouette over
// the weighted feature metric, with each node's contribution scaled by its
// statistical importance so reliable and extreme nodes dominate the score.
func weightedSilhouette(points []point, run kmeansRun) float64 {
	k := len(run.centroids)
	if k < 2 {
		return 0
	}

	var total, weightSum float64
	for i, p := range points {
		own := run.assignment[i]
		if run.sizes[own] < 2 {
			continue // silhouette undefined for singleton clusters
		}

		// a: mean distance to own cluster, b: to nearest other cluster.
		var a float64
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if run.sizes[c] == 0 {
				continue
			}
			var sum float64
			var count int
			for j, q := range points {
				if run.assignment[j] != c || j == i {
					continue
				}
				sum += dist(p.vec, q.vec)
				count++
			}
			if count == 0 {
				continue
			}
			mean := sum / float64(count)
			if c == own {
				a = mean
			} else if mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		s := 0.0
		if m := math.Max(a, b); m > 0 {
			s = (b - a) / m
		}
		imp := importance(p.node)
		total += s * imp
		weightSum += imp
	}
	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

// featureImportanceScore rewards clusterings whose clusters are internally
// tight on the high-weight features, normalized against fixed reference
// variances and the configured weights.
func featureImportanceScore(points []point, run kmeansRun, w Weights) float64 {
	norm := normalizedWeights(w)
	dims := []struct {
		dim    int
		weight float64
	}{
		{fWin, norm[0]},
		{fReliability, norm[1]},
		{fDepth, norm[2]},
	}

	var score float64
	for _, d := range dims {
		v := meanIntraClusterVariance(points, run, d.dim)
		ref := referenceVariance[d.dim]
		cohesion := 1 - math.Min(v/ref, 1)
		score += d.weight * cohesion
	}
	return score
}

func meanIntraClusterVariance(points []point, run kmeansRun, dim int) float64 {
	k := len(run.centroids)
	var total float64
	var counted int
	for c := 0; c < k; c++ {
		var sum, sumSq float64
		var n float64
		for i, p := range points {
			if run.assignment[i] != c {
				continue
			}
			v := p.vec[dim]
			sum += v
			sumSq += v * v
			n++
		}
		if n < 2 {
			continue
		}
		mean := sum / n
		total += sumSq/n - mean*mean
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// weightedEntropy blends cluster-size entropy with bucketed win-rate,
// game-count, and depth distribution entropies, each scaled by the
// normalized feature weight. Lower is better: a good clustering has skewed
// (informative) bucket distributions inside each cluster.
func weightedEntropy(points []point, run kmeansRun, w Weights) float64 {
	sizeEnt := sizeEntropy(run.sizes, len(points))

	norm := normalizedWeights(w)
	featEnt := norm[0]*bucketedEntropy(points, run, fWin) +
		norm[1]*bucketedEntropy(points, run, fReliability) +
		norm[2]*bucketedEntropy(points, run, fDepth)

	return 0.5*sizeEnt + 0.5*featEnt
}

func sizeEntropy(sizes []int, total int) float64 {
	if total == 0 {
		return 0
	}
	var ent float64
	var nonEmpty int
	for _, s := range sizes {
		if s == 0 {
			continue
		}
		nonEmpty++
		p := float64(s) / float64(total)
		ent -= p * math.Log2(p)
	}
	if nonEmpty < 2 {
		return 0
	}
	return ent / math.Log2(float64(nonEmpty)) // normalize to [0,1]
}

// bucketedEntropy averages, over clusters, the entropy of the feature's
// five-bucket distribution inside the cluster, weighted by cluster size.
func bucketedEntropy(points []point, run kmeansRun, dim int) float64 {
	const buckets = 5

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.vec[dim])
		hi = math.Max(hi, p.vec[dim])
	}
	if hi <= lo {
		return 0
	}

	k := len(run.centroids)
	var total float64
	for c := 0; c < k; c++ {
		var counts [buckets]int
		var n int
		for i, p := range points {
			if run.assignment[i] != c {
				continue
			}
			b := int((p.vec[dim] - lo) / (hi - lo) * buckets)
			if b >= buckets {
				b = buckets - 1
			}
			counts[b]++
			n++
		}
		if n == 0 {
			continue
		}
		var ent float64
		for _, cnt := range counts {
			if cnt == 0 {
				continue
			}
			p := float64(cnt) / float64(n)
			ent -= p * math.Log2(p)
		}
		total += ent / math.Log2(buckets) * float64(n) / float64(len(points))
	}
	return total
}

// normalizedWeights returns the win-rate, game-count, and depth weights
// scaled to sum to one.
func normalizedWeights(w Weights) [3]float64 {
	sum := w.WinRate + w.GameCount + w.Depth
	if sum <= 0 {
		return [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	}
	return [3]float64{w.WinRate / sum, w.GameCount / sum, w.Depth / sum}
}
