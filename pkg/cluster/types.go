// Package cluster groups opening-graph nodes by feature-space density
// (DBSCAN) or performance profile (K-means), with automatic selection of
// the cluster count. Every function here is pure and deterministic: the
// same nodes, weights, and options always produce the same clusters, which
// the hosts rely on for reproducible output.
package cluster

import "github.com/patzerworks/openinglens/pkg/graph"

// Method selects the clustering algorithm.
type Method string

const (
	MethodDBSCAN Method = "dbscan"
	MethodKMeans Method = "kmeans"
)

// MinClusterNodes is the smallest node set worth clustering. Below this the
// engine returns an explanatory insight instead of clusters.
const MinClusterNodes = 3

// featureDim is the width of the extracted feature vector.
const featureDim = 7

// positionWeight scales the x/y dimensions; it is fixed, unlike the
// configurable statistical weights.
const positionWeight = 0.3

// Weights scale the statistical feature dimensions.
type Weights struct {
	WinRate   float64 `json:"win_rate"`
	GameCount float64 `json:"game_count"`
	Depth     float64 `json:"depth"`
}

// DefaultWeights favors performance over volume and depth.
func DefaultWeights() Weights {
	return Weights{WinRate: 1.0, GameCount: 0.8, Depth: 0.5}
}

// Options configures one clustering pass.
type Options struct {
	Method Method
	Eps    float64 // DBSCAN neighborhood radius in feature space
	MinPts int     // DBSCAN core-point threshold
	K      int     // K-means cluster count; 0 selects K automatically
	MaxK   int     // upper bound for automatic K selection
	Weights Weights
}

// DefaultOptions returns the values the hosts start from.
func DefaultOptions() Options {
	return Options{
		Method:  MethodDBSCAN,
		Eps:     0.35,
		MinPts:  2,
		MaxK:    8,
		Weights: DefaultWeights(),
	}
}

// Result is the outcome of one clustering pass. A result with no clusters
// and a populated Insights slice is a valid degraded outcome, not an error.
type Result struct {
	Clusters []*graph.Cluster
	Insights []string
	// K is the cluster count used (K-means only); Score the combined
	// optimizer score when K was selected automatically.
	K     int
	Score float64
}

// point pairs a node with its weighted feature vector.
type point struct {
	node *graph.PositionNode
	vec  []float64
}
