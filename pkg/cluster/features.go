package cluster

import (
	"math"

	"github.com/patzerworks/openinglens/pkg/graph"
)

// Feature vector layout. Win, loss, and draw probabilities carry the win
// rate weight; reliability the game count weight; depth its own; x/y the
// fixed position weight.
const (
	fWin = iota
	fLoss
	fDraw
	fReliability
	fDepth
	fX
	fY
)

// extract builds weighted feature vectors for every valid node. A valid
// node has finite coordinates and at least one game behind it.
func extract(nodes []*graph.PositionNode, w Weights) []point {
	points := make([]point, 0, len(nodes))
	for _, n := range nodes {
		if !validNode(n) {
			continue
		}
		points = append(points, point{node: n, vec: featureVector(n, w)})
	}
	return points
}

func validNode(n *graph.PositionNode) bool {
	if n == nil || n.GameCount <= 0 {
		return false
	}
	if math.IsNaN(n.X) || math.IsInf(n.X, 0) || math.IsNaN(n.Y) || math.IsInf(n.Y, 0) {
		return false
	}
	return true
}

func featureVector(n *graph.PositionNode, w Weights) []float64 {
	winProb := 0.5
	if n.WinRate != nil {
		winProb = *n.WinRate / 100
	}

	vec := make([]float64, featureDim)
	vec[fWin] = winProb * w.WinRate
	vec[fLoss] = (1 - winProb) * w.WinRate
	vec[fDraw] = 0.5 * w.WinRate
	vec[fReliability] = reliability(n.GameCount) * w.GameCount
	vec[fDepth] = depthScaled(n.Depth) * w.Depth
	vec[fX] = n.X / 1000 * positionWeight
	vec[fY] = n.Y / 1000 * positionWeight
	return vec
}

// reliability maps game counts to [0,1] on a log scale; 100 games is
// treated as fully reliable.
func reliability(games int) float64 {
	r := math.Log(float64(games)+1) / math.Log(101)
	return math.Min(r, 1)
}

func depthScaled(depth int) float64 {
	return math.Min(float64(depth)/20, 1)
}

// importance weighs a node's influence on the silhouette score: extreme
// win rates, well-sampled lines, and deeper positions say more about
// performance than 50% one-off lines.
func importance(n *graph.PositionNode) float64 {
	winProb := 0.5
	if n.WinRate != nil {
		winProb = *n.WinRate / 100
	}
	extremity := math.Abs(winProb-0.5) * 2
	return 0.4*extremity + 0.4*reliability(n.GameCount) + 0.2*depthScaled(n.Depth)
}

func dist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
