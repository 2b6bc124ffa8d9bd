package viewport

import (
	"testing"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testGraph() graph.GraphData {
	wr := func(v float64) *float64 { return &v }
	nodes := []*graph.PositionNode{
		{ID: "root", X: 0, Y: 0, Width: graph.NodeSize, Height: graph.NodeSize, IsRoot: true, GameCount: 10},
		{ID: "a", X: -220, Y: 260, Width: graph.NodeSize, Height: graph.NodeSize, WinRate: wr(60), GameCount: 6, Depth: 1},
		{ID: "b", X: 220, Y: 260, Width: graph.NodeSize, Height: graph.NodeSize, WinRate: wr(40), GameCount: 4, Depth: 1},
	}
	return graph.GraphData{
		Nodes: nodes,
		Edges: []graph.Edge{
			{Source: "root", Target: "a", GameCount: 6},
			{Source: "root", Target: "b", GameCount: 4},
		},
	}
}

func readyEngine(t *testing.T, cb Callbacks) *Engine {
	t.Helper()
	e := New(cb, nil, t0)
	e.SetSize(800, 600, t0)
	e.SetGraph(testGraph(), t0)
	if e.State() != StateReady {
		t.Fatalf("engine state = %v, want ready", e.State())
	}
	return e
}

func TestLifecycle_SizeThenGraph(t *testing.T) {
	e := New(Callbacks{}, nil, t0)
	if e.State() != StateUninitialized {
		t.Fatalf("fresh engine state = %v", e.State())
	}

	e.SetSize(800, 600, t0)
	if e.State() != StatePositioning {
		t.Fatalf("after size, state = %v, want positioning", e.State())
	}

	e.SetGraph(testGraph(), t0)
	if e.State() != StateReady {
		t.Fatalf("after graph, state = %v, want ready", e.State())
	}
	tr, ok := e.Transform()
	if !ok {
		t.Fatal("expected a transform after initialization")
	}
	if tr.Scale <= 0 {
		t.Errorf("scale = %f", tr.Scale)
	}
}

func TestLifecycle_GraphThenSize(t *testing.T) {
	e := New(Callbacks{}, nil, t0)
	e.SetGraph(testGraph(), t0)
	if e.State() != StateUninitialized {
		t.Fatalf("graph without size should stay uninitialized, got %v", e.State())
	}
	e.SetSize(800, 600, t0)
	if e.State() != StateReady {
		t.Fatalf("state = %v, want ready", e.State())
	}
}

func TestLifecycle_EmptyGraphCompletes(t *testing.T) {
	e := New(Callbacks{}, nil, t0)
	e.SetSize(800, 600, t0)
	e.SetGraph(graph.GraphData{}, t0)
	if e.State() != StateReady {
		t.Fatalf("empty graph must still complete, state = %v", e.State())
	}
	tr, _ := e.Transform()
	if tr != layout.Identity() {
		t.Errorf("empty graph transform = %+v, want identity", tr)
	}
}

func TestLifecycle_InvalidSizeIgnored(t *testing.T) {
	e := New(Callbacks{}, nil, t0)
	e.SetSize(0, 600, t0)
	e.SetSize(-10, -10, t0)
	if e.State() != StateUninitialized {
		t.Errorf("invalid sizes must not advance the lifecycle, state = %v", e.State())
	}
}

func TestLiveness_PositioningTimeout(t *testing.T) {
	e := New(Callbacks{}, nil, t0)
	e.SetSize(800, 600, t0)
	// No graph ever arrives.
	e.Tick(t0.Add(PositioningTimeout - time.Millisecond))
	if e.State() != StatePositioning {
		t.Fatalf("timed out early: %v", e.State())
	}
	e.Tick(t0.Add(PositioningTimeout))
	if e.State() != StateReady {
		t.Fatalf("3s fallback must force ready, state = %v", e.State())
	}
	if tr, ok := e.Transform(); !ok || tr != layout.Identity() {
		t.Errorf("forced transform = %+v, want identity", tr)
	}
}

func TestLiveness_MeasureTimeout(t *testing.T) {
	e := New(Callbacks{}, nil, t0)
	// No size ever arrives.
	e.Tick(t0.Add(MeasureTimeout))
	if w, h := e.Size(); w != FallbackWidth || h != FallbackHeight {
		t.Errorf("forced size = %gx%g, want %gx%g", w, h, FallbackWidth, FallbackHeight)
	}
	if e.State() != StatePositioning {
		t.Errorf("state = %v, want positioning after forced size", e.State())
	}
}

func TestSetGraph_CosmeticRebuildDoesNotSchedule(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	e.SetGraph(testGraph(), t0.Add(time.Second)) // same signature
	if e.pendingFit != nil {
		t.Error("cosmetic rebuild must not schedule an auto-fit")
	}
}

func TestSetGraph_RealChangeSchedules(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	data := testGraph()
	data.Nodes = append(data.Nodes, &graph.PositionNode{
		ID: "c", X: 0, Y: 520, Width: graph.NodeSize, Height: graph.NodeSize, GameCount: 2, Depth: 2,
	})
	e.SetGraph(data, t0.Add(time.Second))
	if e.pendingFit == nil {
		t.Fatal("graph change must schedule an auto-fit")
	}
	if e.pendingFit.source != SourceData {
		t.Errorf("source = %s, want data", e.pendingFit.source)
	}
}

func TestClose_CancelsEverything(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	e.ScheduleAutoFit(SourceData, t0)
	e.FitView(t0)
	e.Close()

	e.Tick(t0.Add(time.Minute))
	if e.Animating() || e.pendingFit != nil {
		t.Error("Close must cancel pending work")
	}
	// Post-close input is a no-op.
	e.Wheel(100, 100, 1, t0.Add(time.Minute))
	e.MouseDown(1, 1, t0.Add(time.Minute))
}
