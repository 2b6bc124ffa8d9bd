// Package viewport owns all mutable interaction state of the
// visualization: the current transform, the positioned nodes and cluster
// hulls, pan/zoom/drag handling, hit testing, auto-fit scheduling, and
// animated navigation.
//
// The engine is deliberately free of goroutines, wall-clock reads, and
// timers: every entry point that depends on time takes an explicit now,
// and hosts call Tick once per frame to fire due work. Scheduled actions
// are cancel-and-replace and carry a source and timestamp, so the "recent
// click beats resize auto-fit" rule is an explicit priority table instead
// of scattered timestamp comparisons.
package viewport

import (
	"time"

	"github.com/patzerworks/openinglens/pkg/geom"
	"github.com/patzerworks/openinglens/pkg/graph"
)

// State is the engine lifecycle.
type State int

const (
	StateUninitialized State = iota
	StatePositioning
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePositioning:
		return "positioning"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Source identifies what asked for a scheduled action. Higher priority
// sources replace pending lower-priority ones; never the reverse.
type Source string

const (
	SourceClick  Source = "click"
	SourceNav    Source = "nav"
	SourceResize Source = "resize"
	SourceData   Source = "data"
	SourceInit   Source = "init"
)

var sourcePriority = map[Source]int{
	SourceClick:  3,
	SourceNav:    3,
	SourceResize: 2,
	SourceData:   1,
	SourceInit:   1,
}

// Timing constants for the debounce and liveness machinery.
const (
	DragThreshold = 3.0 // px of cumulative movement before a drag arms

	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9

	AutoFitDelay      = 200 * time.Millisecond
	ResizeSettle      = 300 * time.Millisecond
	NavSuppressWindow = 500 * time.Millisecond
	AutoFitSettle     = 100 * time.Millisecond

	PositioningTimeout = 3 * time.Second
	MeasureTimeout     = 1 * time.Second

	ZoomDuration = 300 * time.Millisecond
	FitPadding   = 50.0
)

// Fallback size forced when no valid measurement ever arrives.
const (
	FallbackWidth  = 800.0
	FallbackHeight = 600.0
)

// Callbacks are the host-facing event surface. Nil members are skipped.
type Callbacks struct {
	OnNodeClick       func(node *graph.PositionNode)
	OnNodeHover       func(node *graph.PositionNode)
	OnNodeHoverEnd    func()
	OnClusterHover    func(name string, colorIndex int)
	OnClusterHoverEnd func()
	OnAutoFitComplete func()
}

// ZoomKind selects a zoom target.
type ZoomKind int

const (
	ZoomAll ZoomKind = iota
	ZoomClusters
	ZoomReset
	ZoomNodeIDs
	ZoomNodes
)

// ZoomTarget names what to zoom to.
type ZoomTarget struct {
	Kind  ZoomKind
	IDs   []string
	Nodes []*graph.PositionNode
}

// ZoomOptions tunes one ZoomTo call. Force bypasses interaction blocking
// and is used only by the auto-fit scheduler so it cannot deadlock against
// its own pending flag; direct user input never sets it.
type ZoomOptions struct {
	Force    bool
	Duration time.Duration // 0 means ZoomDuration
	Padding  float64       // 0 means FitPadding
}

// clusterHull is a cluster with its precomputed hit/render outline. For
// clusters of one or two nodes the smooth hull degenerates; Rect carries
// the rectangular fallback polygon instead.
type clusterHull struct {
	cluster *graph.Cluster
	path    geom.SmoothPath
	rect    []geom.Point
}

// Outline returns the polygon used for hit testing.
func (h *clusterHull) Outline() []geom.Point {
	if len(h.path.Outline) > 0 {
		return h.path.Outline
	}
	return h.rect
}

type scheduledAutoFit struct {
	source Source
	at     time.Time // when it was requested
	fireAt time.Time
}
