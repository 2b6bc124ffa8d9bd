package graph

// MainLine walks from the root along the most-played continuation at each
// step and returns the edges of that line. Ties break toward the earlier
// edge, matching child ordering in the layout.
func MainLine(data GraphData) []Edge {
	bySource := make(map[string][]Edge)
	for _, e := range data.Edges {
		bySource[e.Source] = append(bySource[e.Source], e)
	}

	var line []Edge
	seen := map[string]bool{"root": true}
	current := "root"
	for {
		candidates := bySource[current]
		if len(candidates) == 0 {
			return line
		}
		best := candidates[0]
		for _, e := range candidates[1:] {
			if e.GameCount > best.GameCount {
				best = e
			}
		}
		if seen[best.Target] {
			return line // transposition loop guard
		}
		seen[best.Target] = true
		line = append(line, best)
		current = best.Target
	}
}
