package cluster

import "github.com/patzerworks/openinglens/pkg/graph"

// Run executes one clustering pass over the graph nodes. It never fails:
// with too few valid nodes it returns an empty cluster list and an
// explanatory insight. Computation is synchronous and completes within the
// call; callers bound the node count or accept the latency.
func Run(nodes []*graph.PositionNode, opts Options) Result {
	points := extract(nodes, opts.Weights)
	if len(points) < MinClusterNodes {
		return Result{Insights: insufficientInsight(len(points))}
	}

	switch opts.Method {
	case MethodKMeans:
		return runKMeans(points, opts)
	default:
		return runDBSCAN(points, opts)
	}
}
