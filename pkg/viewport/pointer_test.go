package viewport

import (
	"testing"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

// screenAt maps a node's world center to screen pixels under the current
// transform.
func screenAt(t *testing.T, e *Engine, id string) (float64, float64) {
	t.Helper()
	tr, ok := e.Transform()
	if !ok {
		t.Fatal("no transform")
	}
	for _, n := range e.Data().Nodes {
		if n.ID == id {
			x, y := tr.WorldToScreen(n.X, n.Y)
			return x, y
		}
	}
	t.Fatalf("no node %q", id)
	return 0, 0
}

func TestClick_TwoQuickClicksBothRegister(t *testing.T) {
	var clicked []string
	e := readyEngine(t, Callbacks{
		OnNodeClick: func(n *graph.PositionNode) { clicked = append(clicked, n.ID) },
	})

	ax, ay := screenAt(t, e, "a")
	bx, by := screenAt(t, e, "b")

	t1 := t0.Add(time.Second)
	e.MouseDown(ax, ay, t1)
	e.MouseUp(ax, ay, t1.Add(20*time.Millisecond))

	t2 := t1.Add(100 * time.Millisecond)
	e.MouseDown(bx, by, t2)
	e.MouseUp(bx, by, t2.Add(20*time.Millisecond))

	if len(clicked) != 2 || clicked[0] != "a" || clicked[1] != "b" {
		t.Errorf("clicked = %v, want [a b]", clicked)
	}
}

func TestClick_SuppressedAfterDrag(t *testing.T) {
	var clicks int
	e := readyEngine(t, Callbacks{
		OnNodeClick: func(*graph.PositionNode) { clicks++ },
	})
	before, _ := e.Transform()

	ax, ay := screenAt(t, e, "a")
	t1 := t0.Add(time.Second)
	e.MouseDown(ax, ay, t1)
	e.MouseMove(ax+10, ay, t1.Add(30*time.Millisecond))
	e.MouseUp(ax+10, ay, t1.Add(60*time.Millisecond))

	if clicks != 0 {
		t.Errorf("drag must suppress the click, got %d clicks", clicks)
	}
	after, _ := e.Transform()
	if after.X != before.X+10 {
		t.Errorf("pan X = %f, want %f", after.X, before.X+10)
	}
}

func TestClick_SubThresholdJitterStaysAClick(t *testing.T) {
	var clicks int
	e := readyEngine(t, Callbacks{
		OnNodeClick: func(*graph.PositionNode) { clicks++ },
	})
	before, _ := e.Transform()

	ax, ay := screenAt(t, e, "a")
	t1 := t0.Add(time.Second)
	e.MouseDown(ax, ay, t1)
	e.MouseMove(ax+1, ay+1, t1.Add(10*time.Millisecond)) // 2 px cumulative
	e.MouseUp(ax+1, ay+1, t1.Add(20*time.Millisecond))

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if after, _ := e.Transform(); after != before {
		t.Errorf("sub-threshold movement must not pan: %+v != %+v", after, before)
	}
}

func TestWheel_ScaleNeverLeavesBounds(t *testing.T) {
	e := readyEngine(t, Callbacks{})

	for i := 0; i < 100; i++ {
		e.Wheel(400, 300, 1, t0.Add(time.Duration(i)*time.Millisecond))
		tr, _ := e.Transform()
		if tr.Scale > layout.MaxScale {
			t.Fatalf("wheel-in pushed scale to %f", tr.Scale)
		}
	}
	if tr, _ := e.Transform(); tr.Scale != layout.MaxScale {
		t.Errorf("scale after repeated wheel-in = %f, want %f", tr.Scale, layout.MaxScale)
	}

	for i := 0; i < 300; i++ {
		e.Wheel(400, 300, -1, t0.Add(time.Duration(i)*time.Millisecond))
		tr, _ := e.Transform()
		if tr.Scale < layout.MinScale {
			t.Fatalf("wheel-out pushed scale to %f", tr.Scale)
		}
	}
	if tr, _ := e.Transform(); tr.Scale != layout.MinScale {
		t.Errorf("scale after repeated wheel-out = %f, want %f", tr.Scale, layout.MinScale)
	}
}

func TestWheel_PivotsAtCursor(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	tr, _ := e.Transform()
	// World point under the cursor before the zoom.
	wx, wy := tr.ScreenToWorld(200, 150)

	e.Wheel(200, 150, 1, t0.Add(time.Second))

	tr, _ = e.Transform()
	sx, sy := tr.WorldToScreen(wx, wy)
	if diff := sx - 200; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("pivot drifted: screen X = %f", sx)
	}
	if diff := sy - 150; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("pivot drifted: screen Y = %f", sy)
	}
}

func TestWheel_BlockedWhileAutoFitPending(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	e.ScheduleAutoFit(SourceData, t0.Add(time.Second))
	if !e.AutoFitPending() {
		t.Fatal("expected pending flag")
	}
	before, _ := e.Transform()
	e.Wheel(400, 300, 1, t0.Add(time.Second))
	if after, _ := e.Transform(); after != before {
		t.Errorf("wheel during pending auto-fit must be ignored: %+v", after)
	}
}

func TestHover_CallbacksOnEnterAndLeave(t *testing.T) {
	var entered []string
	var left int
	e := readyEngine(t, Callbacks{
		OnNodeHover:    func(n *graph.PositionNode) { entered = append(entered, n.ID) },
		OnNodeHoverEnd: func() { left++ },
	})

	bx, by := screenAt(t, e, "b")
	e.MouseMove(bx, by, t0.Add(time.Second))
	if len(entered) != 1 || entered[0] != "b" {
		t.Fatalf("entered = %v, want [b]", entered)
	}
	if e.HoveredNode() == nil || e.HoveredNode().ID != "b" {
		t.Errorf("hovered = %v", e.HoveredNode())
	}

	// Same node again: no duplicate callback.
	e.MouseMove(bx+1, by+1, t0.Add(2*time.Second))
	if len(entered) != 1 {
		t.Errorf("re-hover fired again: %v", entered)
	}

	e.MouseMove(-5000, -5000, t0.Add(3*time.Second))
	if left != 1 {
		t.Errorf("hover-end count = %d, want 1", left)
	}
	if e.HoveredNode() != nil {
		t.Errorf("hovered = %v, want nil", e.HoveredNode())
	}
}
