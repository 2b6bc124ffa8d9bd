package graph

import "testing"

func wr(v float64) *float64 { return &v }

func TestPositionClusters(t *testing.T) {
	data := GraphData{Nodes: []*PositionNode{
		{ID: "a", FEN: "pos1", X: 0, Y: 0, WinRate: wr(60), GameCount: 10, Depth: 4},
		{ID: "b", FEN: "pos1", X: 100, Y: 0, WinRate: wr(40), GameCount: 6, Depth: 4},
		{ID: "c", FEN: "pos2", X: 50, Y: 100, WinRate: wr(50), GameCount: 3, Depth: 2},
	}}

	clusters := PositionClusters(data)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 transposition cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Type != ClusterPosition || len(c.Nodes) != 2 {
		t.Errorf("cluster %+v", c)
	}
	if c.Centroid[0] != 50 || c.Centroid[1] != 0 {
		t.Errorf("centroid = %v, want [50 0]", c.Centroid)
	}
	if c.Stats.AvgWinRate != 50 || c.Stats.TotalGames != 16 {
		t.Errorf("stats = %+v", c.Stats)
	}
}

func TestOpeningClusters(t *testing.T) {
	data := GraphData{Nodes: []*PositionNode{
		{ID: "root", IsRoot: true},
		{ID: "1", Moves: []string{"e4", "c5"}, GameCount: 5},
		{ID: "2", Moves: []string{"e4", "c5", "Nf3"}, GameCount: 3},
		{ID: "3", Moves: []string{"d4", "d5"}, GameCount: 2},
	}}

	clusters := OpeningClusters(data)
	if len(clusters) != 1 {
		t.Fatalf("expected only the Sicilian pair to cluster, got %d", len(clusters))
	}
	if clusters[0].Stats.Family != "Sicilian" {
		t.Errorf("family = %q, want Sicilian", clusters[0].Stats.Family)
	}
}

func TestClustersForFEN(t *testing.T) {
	nodes := []*PositionNode{{ID: "a", FEN: "x"}, {ID: "b", FEN: "x"}}
	clusters := []*Cluster{{ID: "c0", Nodes: nodes}}

	if got := ClustersForFEN(clusters, "x"); len(got) != 1 {
		t.Errorf("expected 1 match, got %d", len(got))
	}
	if got := ClustersForFEN(clusters, "y"); got != nil {
		t.Errorf("expected no match, got %v", got)
	}
	if got := ClustersForFEN(clusters, ""); got != nil {
		t.Errorf("empty fen should match nothing, got %v", got)
	}
}

func TestFamilyForMoves(t *testing.T) {
	cases := []struct {
		moves []string
		want  string
	}{
		{[]string{"e4", "c5", "Nf3", "d6"}, "Sicilian"},
		{[]string{"e4", "e5", "Nf3", "Nc6", "Bb5"}, "Ruy Lopez"},
		{[]string{"e4", "e5", "Nf3"}, "Open Game"},
		{[]string{"d4", "d5", "c4"}, "Queen's Gambit"},
		{[]string{"c4"}, "English"},
		{[]string{"g3"}, "Irregular"},
		{nil, "Start"},
	}
	for _, tc := range cases {
		if got := FamilyForMoves(tc.moves); got != tc.want {
			t.Errorf("FamilyForMoves(%v) = %q, want %q", tc.moves, got, tc.want)
		}
	}
}

func TestSignature(t *testing.T) {
	a := GraphData{
		Nodes: []*PositionNode{{ID: "1"}, {ID: "2"}},
		Edges: []Edge{{Source: "1", Target: "2"}},
	}
	b := GraphData{
		Nodes: []*PositionNode{{ID: "2"}, {ID: "1"}}, // order differs only
		Edges: []Edge{{Source: "1", Target: "2"}},
	}
	if Signature(a) != Signature(b) {
		t.Error("signature should be order independent")
	}

	c := GraphData{
		Nodes: []*PositionNode{{ID: "1"}, {ID: "3"}},
		Edges: []Edge{{Source: "1", Target: "3"}},
	}
	if Signature(a) == Signature(c) {
		t.Error("different id sets must produce different signatures")
	}
}
