package viewport

import (
	"log/slog"
	"time"

	"github.com/patzerworks/openinglens/pkg/geom"
	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/layout"
)

// Engine is the interaction state machine. It is the single owner of the
// current transform and all interaction flags; the render pipeline reads a
// Frame snapshot once per frame and mutates nothing.
//
// Not safe for concurrent use: the concurrency model is cooperative and
// single threaded, driven by the host's frame loop.
type Engine struct {
	cb  Callbacks
	log *slog.Logger

	state  State
	width  float64
	height float64

	transform    layout.Transform
	hasTransform bool

	data      graph.GraphData
	signature string
	graphSet  bool

	positionHulls []clusterHull
	openingHulls  []clusterHull
	currentFEN    string

	// Pointer state.
	mouseDown  bool
	dragging   bool
	dragAccum  float64
	lastMouseX float64
	lastMouseY float64

	hoveredNode    *graph.PositionNode
	hoveredCluster *graph.Cluster

	// Flags and deadlines. Zero time means "not armed".
	resizing       bool
	autoFitPending bool
	resizeSettleAt time.Time
	measureDeadline     time.Time
	positioningDeadline time.Time

	pendingFit   *scheduledAutoFit
	settleAt     time.Time // pending-flag clear after an auto-fit lands
	activeFitSrc Source

	lastNavAt time.Time // last click or completed programmatic navigation

	anim   *zoomAnimation
	closed bool
}

// New creates an engine. The measurement liveness timer arms immediately:
// if no valid size arrives within MeasureTimeout, Tick forces a default.
func New(cb Callbacks, logger *slog.Logger, now time.Time) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cb:              cb,
		log:             logger,
		state:           StateUninitialized,
		measureDeadline: now.Add(MeasureTimeout),
	}
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Transform returns the current transform; the second result is false
// until a transform has been computed.
func (e *Engine) Transform() (layout.Transform, bool) {
	return e.transform, e.hasTransform
}

// Size returns the current viewport dimensions.
func (e *Engine) Size() (float64, float64) { return e.width, e.height }

// AutoFitPending reports whether an auto-fit is scheduled or settling.
func (e *Engine) AutoFitPending() bool { return e.autoFitPending }

// Resizing reports whether a resize window is open.
func (e *Engine) Resizing() bool { return e.resizing }

// Data returns the current graph data.
func (e *Engine) Data() graph.GraphData { return e.data }

// HoveredNode returns the node under the pointer, if any.
func (e *Engine) HoveredNode() *graph.PositionNode { return e.hoveredNode }

// SetSize records a container measurement. Zero or negative dimensions are
// ignored: layout stays a no-op until a real measurement arrives (or the
// liveness timer forces one). During ready state a size change opens a
// debounced resize window.
func (e *Engine) SetSize(width, height float64, now time.Time) {
	if e.closed || width <= 0 || height <= 0 {
		return
	}
	changed := width != e.width || height != e.height
	e.width, e.height = width, height

	switch e.state {
	case StateUninitialized:
		e.enterPositioning(now)
	case StateReady:
		if changed {
			e.resizing = true
			e.resizeSettleAt = now.Add(ResizeSettle) // cancel-and-replace
		}
	}
}

// SetGraph installs new graph data. A change of signature (node/edge id
// sets) is a real graph change: hulls recompute and, once ready, an
// auto-fit is scheduled. Cosmetic rebuilds with the same signature only
// swap the slices.
func (e *Engine) SetGraph(data graph.GraphData, now time.Time) {
	if e.closed {
		return
	}
	sig := graph.Signature(data)
	same := e.graphSet && sig == e.signature
	e.data = data
	e.signature = sig
	e.graphSet = true
	if same {
		return
	}

	e.rebuildOpeningHulls()
	e.hoveredNode = nil
	e.hoveredCluster = nil

	switch e.state {
	case StateUninitialized:
		// waiting for a size measurement
	case StatePositioning:
		e.completePositioning(now)
	case StateReady:
		e.scheduleAutoFit(SourceData, now)
	}
}

// SetPositionClusters installs the active position's clusters, driving the
// "zoom to current position's cluster" auto-fit path.
func (e *Engine) SetPositionClusters(clusters []*graph.Cluster, fen string, now time.Time) {
	if e.closed {
		return
	}
	e.currentFEN = fen
	e.positionHulls = buildHulls(clusters)
}

// PositionHulls and OpeningHulls expose the precomputed outlines to the
// render pipeline.
func (e *Engine) PositionHulls() []ClusterOutline { return outlines(e.positionHulls) }
func (e *Engine) OpeningHulls() []ClusterOutline  { return outlines(e.openingHulls) }

// Close cancels every pending timer and animation. Further calls on the
// engine are no-ops; hosts call this on teardown so nothing fires against
// a detached surface.
func (e *Engine) Close() {
	e.closed = true
	e.anim = nil
	e.pendingFit = nil
	e.resizeSettleAt = time.Time{}
	e.settleAt = time.Time{}
	e.measureDeadline = time.Time{}
	e.positioningDeadline = time.Time{}
}

// enterPositioning moves from uninitialized once a valid size exists.
func (e *Engine) enterPositioning(now time.Time) {
	e.state = StatePositioning
	e.measureDeadline = time.Time{}
	e.positioningDeadline = now.Add(PositioningTimeout)
	if e.graphSet {
		e.completePositioning(now)
	}
}

// completePositioning computes the initial transform and reaches ready.
// An empty graph still completes with the identity transform: the engine
// never stalls waiting for data that may never arrive.
func (e *Engine) completePositioning(now time.Time) {
	e.transform = layout.OptimalTransform(e.data.Nodes, e.width, e.height, FitPadding)
	e.hasTransform = true
	e.state = StateReady
	e.positioningDeadline = time.Time{}
	CurrentScale.Set(e.transform.Scale)
}

// interactionsBlocked gates user-driven pan/zoom/click/keyboard. Hover
// stays live regardless; it mutates nothing the render loop depends on.
func (e *Engine) interactionsBlocked() bool {
	return e.closed ||
		e.state != StateReady ||
		e.width <= 0 || e.height <= 0 ||
		!e.hasTransform ||
		e.autoFitPending
}

func (e *Engine) rebuildOpeningHulls() {
	e.openingHulls = buildHulls(graph.OpeningClusters(e.data))
}

// buildHulls precomputes the padded outline for each cluster. One- and
// two-node clusters get an explicit rectangular fallback instead of a
// degenerate hull.
func buildHulls(clusters []*graph.Cluster) []clusterHull {
	hulls := make([]clusterHull, 0, len(clusters))
	for _, c := range clusters {
		hulls = append(hulls, clusterHull{
			cluster: c,
			path:    clusterPath(c),
			rect:    clusterRect(c),
		})
	}
	return hulls
}

func clusterPath(c *graph.Cluster) geom.SmoothPath {
	if len(c.Nodes) < 3 {
		return geom.SmoothPath{}
	}
	pts := make([]geom.Point, len(c.Nodes))
	for i, n := range c.Nodes {
		pts[i] = n.Center()
	}
	hull := geom.ConvexHull(pts)
	if len(hull) < 3 {
		return geom.SmoothPath{} // collinear centers; rectangle fallback
	}
	return geom.SmoothClosedPath(hull, hullPadding)
}

// hullPadding expands cluster outlines past the node boxes.
const hullPadding = graph.NodeSize * 0.9

func clusterRect(c *graph.Cluster) []geom.Point {
	if len(c.Nodes) == 0 {
		return nil
	}
	first := c.Nodes[0]
	minX, minY := first.X, first.Y
	maxX, maxY := first.X, first.Y
	for _, n := range c.Nodes[1:] {
		if n.X < minX {
			minX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}
	pad := graph.NodeSize/2 + hullPadding*0.3
	return []geom.Point{
		{X: minX - pad, Y: minY - pad},
		{X: maxX + pad, Y: minY - pad},
		{X: maxX + pad, Y: maxY + pad},
		{X: minX - pad, Y: maxY + pad},
	}
}

// ClusterOutline is the render-facing view of a cluster hull.
type ClusterOutline struct {
	Cluster *graph.Cluster
	Path    geom.SmoothPath
	Rect    []geom.Point
}

func outlines(hulls []clusterHull) []ClusterOutline {
	out := make([]ClusterOutline, len(hulls))
	for i, h := range hulls {
		out[i] = ClusterOutline{Cluster: h.cluster, Path: h.path, Rect: h.rect}
	}
	return out
}
