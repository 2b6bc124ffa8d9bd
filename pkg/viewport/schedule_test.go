package viewport

import (
	"testing"
	"time"

	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

func TestAutoFit_DebounceFireAnimateSettle(t *testing.T) {
	var completions int
	e := readyEngine(t, Callbacks{
		OnAutoFitComplete: func() { completions++ },
	})

	data := testGraph()
	data.Nodes = append(data.Nodes, &graph.PositionNode{
		ID: "c", X: 0, Y: 520, Width: graph.NodeSize, Height: graph.NodeSize, GameCount: 2, Depth: 2,
	})
	t1 := t0.Add(time.Second)
	e.SetGraph(data, t1)
	if !e.AutoFitPending() {
		t.Fatal("graph change should raise the pending flag")
	}

	// Not due yet.
	e.Tick(t1.Add(AutoFitDelay - time.Millisecond))
	if e.Animating() {
		t.Fatal("auto-fit fired before its delay")
	}

	// Debounce elapses: the fit animation starts.
	fire := t1.Add(AutoFitDelay)
	e.Tick(fire)
	if !e.Animating() {
		t.Fatal("auto-fit did not start an animation")
	}

	// Animation lands.
	land := fire.Add(ZoomDuration)
	e.Tick(land)
	if e.Animating() {
		t.Fatal("animation still running past its duration")
	}
	want := layout.OptimalTransform(data.Nodes, 800, 600, FitPadding)
	if got, _ := e.Transform(); got != want {
		t.Errorf("landed transform = %+v, want %+v", got, want)
	}
	if completions != 0 {
		t.Fatal("completion fired before the settle delay")
	}

	// Settle delay clears the flag and notifies.
	e.Tick(land.Add(AutoFitSettle))
	if e.AutoFitPending() {
		t.Error("pending flag still raised after settle")
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
}

func TestAutoFit_ReplacementRestartsDebounce(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	t1 := t0.Add(time.Second)
	e.ScheduleAutoFit(SourceData, t1)
	t2 := t1.Add(150 * time.Millisecond)
	e.ScheduleAutoFit(SourceResize, t2) // higher priority replaces

	// The first request's deadline passes without firing.
	e.Tick(t1.Add(AutoFitDelay))
	if e.Animating() {
		t.Fatal("replaced request must not fire on the old deadline")
	}
	e.Tick(t2.Add(AutoFitDelay))
	if !e.Animating() {
		t.Error("replacement request never fired")
	}
}

func TestAutoFit_LowerPriorityCannotReplace(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	t1 := t0.Add(time.Second)
	e.ScheduleAutoFit(SourceClick, t1)
	e.ScheduleAutoFit(SourceData, t1.Add(50*time.Millisecond))

	if e.pendingFit == nil || e.pendingFit.source != SourceClick {
		t.Fatalf("pending source = %v, want click", e.pendingFit)
	}
	if want := t1.Add(AutoFitDelay); !e.pendingFit.fireAt.Equal(want) {
		t.Errorf("fireAt = %v, want %v (unchanged)", e.pendingFit.fireAt, want)
	}
}

func TestResize_SchedulesFitAfterSettle(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	t1 := t0.Add(time.Second)
	e.SetSize(1000, 700, t1)
	if !e.Resizing() {
		t.Fatal("size change should open a resize window")
	}

	e.Tick(t1.Add(ResizeSettle - time.Millisecond))
	if e.pendingFit != nil {
		t.Fatal("fit scheduled before the resize settled")
	}
	e.Tick(t1.Add(ResizeSettle))
	if e.Resizing() {
		t.Error("resize window still open after settle")
	}
	if e.pendingFit == nil || e.pendingFit.source != SourceResize {
		t.Fatalf("pending = %v, want a resize-sourced fit", e.pendingFit)
	}
}

func TestResize_RepeatedEventsExtendTheWindow(t *testing.T) {
	e := readyEngine(t, Callbacks{})
	t1 := t0.Add(time.Second)
	e.SetSize(900, 650, t1)
	t2 := t1.Add(200 * time.Millisecond)
	e.SetSize(1000, 700, t2)

	e.Tick(t1.Add(ResizeSettle))
	if !e.Resizing() || e.pendingFit != nil {
		t.Fatal("second resize must push the settle deadline out")
	}
	e.Tick(t2.Add(ResizeSettle))
	if e.pendingFit == nil {
		t.Error("fit never scheduled after the window settled")
	}
}

func TestResize_RecentClickSuppressesFit(t *testing.T) {
	e := readyEngine(t, Callbacks{
		OnNodeClick: func(*graph.PositionNode) {},
	})

	// Click a node: the user navigated somewhere on purpose.
	ax, ay := screenAt(t, e, "a")
	t1 := t0.Add(time.Second)
	e.MouseDown(ax, ay, t1)
	e.MouseUp(ax, ay, t1)

	e.SetSize(1000, 700, t1.Add(50*time.Millisecond))
	e.Tick(t1.Add(50*time.Millisecond + ResizeSettle)) // 350ms after the click

	if e.pendingFit != nil {
		t.Error("resize fit within the nav window must yield to the click")
	}
	if e.Resizing() {
		t.Error("resize window should still have closed")
	}
}

func TestSchedule_NoOverlayWithinNavWindow(t *testing.T) {
	e := readyEngine(t, Callbacks{
		OnNodeClick: func(*graph.PositionNode) {},
	})
	ax, ay := screenAt(t, e, "a")
	t1 := t0.Add(time.Second)
	e.MouseDown(ax, ay, t1)
	e.MouseUp(ax, ay, t1)

	e.ScheduleAutoFit(SourceClick, t1.Add(100*time.Millisecond))
	if e.pendingFit == nil {
		t.Fatal("fit should still be scheduled")
	}
	if e.AutoFitPending() {
		t.Error("overlay flag must stay down right after a click")
	}
}
