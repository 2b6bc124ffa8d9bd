package graph

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// Signature digests the identity of a graph: node count, edge count, and
// the stable-sorted id sets. Hosts compare signatures to tell a real graph
// change (navigation, filter change) from a cosmetic rebuild that carries
// the same nodes.
func Signature(data GraphData) string {
	ids := make([]string, 0, len(data.Nodes))
	for _, n := range data.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	pairs := make([]string, 0, len(data.Edges))
	for _, e := range data.Edges {
		pairs = append(pairs, e.Source+"->"+e.Target)
	}
	sort.Strings(pairs)

	h := fnv.New64a()
	fmt.Fprintf(h, "n=%d;e=%d;", len(data.Nodes), len(data.Edges))
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	for _, p := range pairs {
		h.Write([]byte(p))
		h.Write([]byte{1})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
