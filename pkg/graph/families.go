package graph

import "strings"

// familyPrefixes maps opening move prefixes to family names. Longest match
// wins. The table covers the families the cluster insights talk about; it
// is a display aid, not an opening book.
var familyPrefixes = []struct {
	prefix string
	name   string
}{
	{"e4 c5", "Sicilian"},
	{"e4 e6", "French"},
	{"e4 c6", "Caro-Kann"},
	{"e4 d5", "Scandinavian"},
	{"e4 e5 Nf3 Nc6 Bb5", "Ruy Lopez"},
	{"e4 e5 Nf3 Nc6 Bc4", "Italian"},
	{"e4 e5", "Open Game"},
	{"d4 d5 c4", "Queen's Gambit"},
	{"d4 Nf6 c4 g6", "King's Indian"},
	{"d4 Nf6 c4 e6", "Nimzo/Queen's Indian"},
	{"d4 d5 Bf4", "London"},
	{"d4 Nf6 Bf4", "London"},
	{"d4 d5", "Queen's Pawn"},
	{"d4 Nf6", "Indian Defence"},
	{"c4", "English"},
	{"Nf3", "Reti"},
}

// FamilyForMoves returns the opening family for a SAN move sequence, or
// "Irregular" when nothing matches.
func FamilyForMoves(moves []string) string {
	if len(moves) == 0 {
		return "Start"
	}
	line := strings.Join(moves, " ")
	best := ""
	bestLen := -1
	for _, f := range familyPrefixes {
		if strings.HasPrefix(line, f.prefix) && len(f.prefix) > bestLen {
			best = f.name
			bestLen = len(f.prefix)
		}
	}
	if best == "" {
		return "Irregular"
	}
	return best
}

// DominantFamily returns the most common family among the nodes, ties
// broken alphabetically for stable output.
func DominantFamily(nodes []*PositionNode) string {
	if len(nodes) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[FamilyForMoves(n.Moves)]++
	}
	best, bestCount := "", -1
	for name, c := range counts {
		if c > bestCount || (c == bestCount && name < best) {
			best, bestCount = name, c
		}
	}
	return best
}
