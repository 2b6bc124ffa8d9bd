package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

func rate(v float64) *float64 { return &v }

func sampleScene() Scene {
	nodes := []*graph.PositionNode{
		{ID: "root", X: 0, Y: 0, Width: graph.NodeSize, Height: graph.NodeSize, IsRoot: true, GameCount: 12},
		{ID: "e4", Moves: []string{"e4"}, X: -220, Y: 260, Width: graph.NodeSize, Height: graph.NodeSize, WinRate: rate(58), GameCount: 8, Depth: 1, FEN: "f1"},
		{ID: "d4", Moves: []string{"d4"}, X: 220, Y: 260, Width: graph.NodeSize, Height: graph.NodeSize, WinRate: rate(42), GameCount: 4, Depth: 1, FEN: "f1"},
		{ID: "gap", Moves: []string{"e4", "c5"}, X: -220, Y: 520, Width: graph.NodeSize, Height: graph.NodeSize, IsMissing: true, Depth: 2},
	}
	return Scene{
		Data: graph.GraphData{
			Nodes: nodes,
			Edges: []graph.Edge{
				{Source: "root", Target: "e4", WinRate: rate(58), GameCount: 8},
				{Source: "root", Target: "d4", WinRate: rate(42), GameCount: 4},
				{Source: "e4", Target: "gap", IsMissing: true},
			},
		},
		Transform:  layout.Transform{X: 400, Y: 100, Scale: 0.8},
		Width:      800,
		Height:     600,
		PixelRatio: 2,
		Mode:       ModePerformance,
	}
}

func TestWinRateColor_Gradient(t *testing.T) {
	if winRateColor(0) != rateLow {
		t.Errorf("0%% = %v, want %v", winRateColor(0), rateLow)
	}
	if winRateColor(50) != rateMid {
		t.Errorf("50%% = %v, want %v", winRateColor(50), rateMid)
	}
	if winRateColor(100) != rateHigh {
		t.Errorf("100%% = %v, want %v", winRateColor(100), rateHigh)
	}
	// Out-of-range input pins to the ends.
	if winRateColor(-10) != rateLow || winRateColor(140) != rateHigh {
		t.Error("out-of-range rates must pin to the gradient ends")
	}
	// Monotonic green channel on the upper half.
	if winRateColor(75).G <= winRateColor(55).G && winRateColor(75).R >= winRateColor(55).R {
		t.Error("gradient not moving toward green above 50%")
	}
}

func TestEdgeWidth_ScalesAndCaps(t *testing.T) {
	if edgeWidth(0) != 2 {
		t.Errorf("width(0) = %f", edgeWidth(0))
	}
	if edgeWidth(10) <= edgeWidth(1) {
		t.Error("width must grow with game count")
	}
	if edgeWidth(1000) != 8 {
		t.Errorf("width(1000) = %f, want capped at 8", edgeWidth(1000))
	}
}

func TestNodeLines(t *testing.T) {
	cases := []struct {
		name string
		node *graph.PositionNode
		want []string
	}{
		{
			name: "root",
			node: &graph.PositionNode{IsRoot: true, GameCount: 3},
			want: []string{"Start", "3 games"},
		},
		{
			name: "full stats",
			node: &graph.PositionNode{Moves: []string{"e4", "c5"}, WinRate: rate(61), GameCount: 1},
			want: []string{"c5", "61%", "1 game"},
		},
		{
			name: "missing",
			node: &graph.PositionNode{Moves: []string{"e4"}, IsMissing: true},
			want: []string{"e4", "No Data"},
		},
	}
	for _, tc := range cases {
		got := nodeLines(tc.node)
		if len(got) != len(tc.want) {
			t.Errorf("%s: lines = %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: line %d = %q, want %q", tc.name, i, got[i], tc.want[i])
			}
		}
	}
}

func TestViewCull(t *testing.T) {
	tr := layout.Transform{X: 0, Y: 0, Scale: 1}
	cull := viewCull(tr, 800, 600, graph.NodeSize)

	in := &graph.PositionNode{X: 400, Y: 300, Width: graph.NodeSize, Height: graph.NodeSize}
	edge := &graph.PositionNode{X: 800 + graph.NodeSize, Y: 300, Width: graph.NodeSize, Height: graph.NodeSize}
	out := &graph.PositionNode{X: 800 + 3*graph.NodeSize, Y: 300, Width: graph.NodeSize, Height: graph.NodeSize}

	if !cull.visible(in) {
		t.Error("center node culled")
	}
	if !cull.visible(edge) {
		t.Error("node within the expansion margin culled")
	}
	if cull.visible(out) {
		t.Error("far offscreen node not culled")
	}
}

func TestPipeline_SurfaceReuseAndResize(t *testing.T) {
	p := NewPipeline()
	s := sampleScene()

	p.Frame(s)
	first := p.dc
	b := first.Image().Bounds()
	if b.Dx() != 1600 || b.Dy() != 1200 {
		t.Fatalf("surface = %dx%d, want 1600x1200 at ratio 2", b.Dx(), b.Dy())
	}

	p.Frame(s)
	if p.dc != first {
		t.Error("same-size frame reallocated the surface")
	}

	s.Width = 1000
	p.Frame(s)
	if p.dc == first {
		t.Error("resized frame kept the old surface")
	}
}

func TestPipeline_WritePNG(t *testing.T) {
	p := NewPipeline()
	s := sampleScene()
	s.SelectedNodeID = "e4"
	s.NextMoveIDs = map[string]bool{"gap": true}
	p.Frame(s)

	var buf bytes.Buffer
	if err := p.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty png")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a png")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	s := sampleScene()
	s.Mode = ModeOpening
	s.MainLine = map[string]bool{EdgeKey(s.Data.Edges[0]): true}
	if err := WriteSVG(&buf, s); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("not an svg document")
	}
	if !strings.Contains(out, "No Data") {
		t.Error("missing-node text absent")
	}
	if !strings.Contains(out, "stroke-dasharray") {
		t.Error("side-line edges should be dashed in opening mode")
	}
	if got := strings.Count(out, "dasharray"); got != 2 {
		t.Errorf("dashed edges = %d, want 2 (one side line, one missing)", got)
	}
}

func TestWriteSVG_RejectsInvalidSize(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, Scene{}); err == nil {
		t.Fatal("expected an error for a zero-size scene")
	}
}
