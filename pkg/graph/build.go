package graph

import (
	"fmt"
	"sort"
	"strings"
)

// GameResult is the outcome of a game from the tracked player's perspective.
type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// Ply is one recorded half-move: the SAN text and the position key reached
// after it. Position keys come from the imported game data; nothing here
// validates chess rules.
type Ply struct {
	SAN string
	FEN string
}

// Game is one imported game, trimmed to its opening moves.
type Game struct {
	Result GameResult
	Plies  []Ply
}

// BuildOptions filter the move tree before layout.
type BuildOptions struct {
	MaxDepth     int        // plies; 0 means DefaultMaxDepth
	MinGameCount int        // drop lines played fewer times than this
	WinRateFilter [2]float64 // [min,max] percent; zero value means no filter
}

// DefaultMaxDepth bounds the opening tree when the caller does not.
const DefaultMaxDepth = 12

const (
	hSpacing = 220.0
	vSpacing = 260.0
)

type treeNode struct {
	moves    []string
	fen      string
	depth    int
	games    int
	wins     int
	draws    int
	children []*treeNode

	x, y    float64
	missing bool
	keep    bool
}

// Build aggregates the games into a move tree, filters it, lays out every
// node in world coordinates, and returns the node/edge arrays consumed by
// the viewport. Nodes excluded by the win-rate filter but needed to keep
// the tree connected survive as "missing" nodes without statistics.
func Build(games []Game, opts BuildOptions) GraphData {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	root := &treeNode{}
	index := map[string]*treeNode{"": root}

	for _, g := range games {
		root.games++
		countResult(root, g.Result)

		key := ""
		parent := root
		for i, ply := range g.Plies {
			if i >= maxDepth {
				break
			}
			key = joinKey(key, ply.SAN)
			node, ok := index[key]
			if !ok {
				node = &treeNode{
					moves: append(append([]string{}, parent.moves...), ply.SAN),
					fen:   ply.FEN,
					depth: i + 1,
				}
				index[key] = node
				parent.children = append(parent.children, node)
			}
			node.games++
			countResult(node, g.Result)
			parent = node
		}
	}

	markKept(root, opts)
	orderChildren(root)
	layoutTree(root)

	var data GraphData
	collect(root, "", &data)
	return data
}

func countResult(n *treeNode, r GameResult) {
	switch r {
	case ResultWin:
		n.wins++
	case ResultDraw:
		n.draws++
	}
}

func joinKey(key, san string) string {
	if key == "" {
		return san
	}
	return key + " " + san
}

// markKept decides which nodes survive filtering. A node excluded by the
// win-rate filter is kept as missing when a descendant survives, so the
// tree never disconnects.
func markKept(n *treeNode, opts BuildOptions) bool {
	kept := false
	for _, c := range n.children {
		if markKept(c, opts) {
			kept = true
		}
	}

	if n.depth == 0 {
		n.keep = true
		return true
	}
	if n.games < opts.MinGameCount && !kept {
		return false
	}

	lo, hi := opts.WinRateFilter[0], opts.WinRateFilter[1]
	filtered := hi > lo
	wr := n.winRate()
	inRange := !filtered || (wr >= lo && wr <= hi)

	switch {
	case n.games >= opts.MinGameCount && inRange:
		n.keep = true
	case kept:
		n.keep = true
		n.missing = true
	default:
		return false
	}
	// Drop filtered-out children entirely.
	var pruned []*treeNode
	for _, c := range n.children {
		if c.keep {
			pruned = append(pruned, c)
		}
	}
	n.children = pruned
	return true
}

func (n *treeNode) winRate() float64 {
	if n.games == 0 {
		return 0
	}
	return (float64(n.wins) + 0.5*float64(n.draws)) / float64(n.games) * 100
}

// orderChildren sorts siblings by popularity so the main line lays out
// leftmost and the layout is stable across rebuilds.
func orderChildren(n *treeNode) {
	sort.SliceStable(n.children, func(i, j int) bool {
		a, b := n.children[i], n.children[j]
		if a.games != b.games {
			return a.games > b.games
		}
		return strings.Join(a.moves, " ") < strings.Join(b.moves, " ")
	})
	for _, c := range n.children {
		if c.keep {
			orderChildren(c)
		}
	}
}

// layoutTree assigns world coordinates: depth maps to Y, leaf ordering to X,
// parents centered over their children.
func layoutTree(root *treeNode) {
	var nextLeafX float64
	var place func(n *treeNode)
	place = func(n *treeNode) {
		n.y = float64(n.depth) * vSpacing
		kept := keptChildren(n)
		if len(kept) == 0 {
			n.x = nextLeafX
			nextLeafX += hSpacing
			return
		}
		for _, c := range kept {
			place(c)
		}
		n.x = (kept[0].x + kept[len(kept)-1].x) / 2
	}
	place(root)
}

func keptChildren(n *treeNode) []*treeNode {
	out := n.children[:0:0]
	for _, c := range n.children {
		if c.keep {
			out = append(out, c)
		}
	}
	return out
}

func collect(n *treeNode, parentID string, data *GraphData) {
	if !n.keep {
		return
	}
	id := nodeID(n)
	pn := &PositionNode{
		ID:        id,
		FEN:       n.fen,
		Moves:     n.moves,
		X:         n.x,
		Y:         n.y,
		Width:     NodeSize,
		Height:    NodeSize,
		GameCount: n.games,
		Depth:     n.depth,
		IsRoot:    n.depth == 0,
		IsMissing: n.missing || n.games == 0,
	}
	if !pn.IsMissing {
		wr := n.winRate()
		pn.WinRate = &wr
	}
	data.Nodes = append(data.Nodes, pn)

	if parentID != "" || n.depth > 0 {
		data.Edges = append(data.Edges, Edge{
			Source:    parentID,
			Target:    id,
			WinRate:   pn.WinRate,
			GameCount: pn.GameCount,
			IsMissing: pn.IsMissing,
		})
	}
	for _, c := range n.children {
		collect(c, id, data)
	}
}

func nodeID(n *treeNode) string {
	if n.depth == 0 {
		return "root"
	}
	return fmt.Sprintf("n:%s", strings.Join(n.moves, " "))
}
