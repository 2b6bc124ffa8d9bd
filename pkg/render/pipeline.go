package render

import (
	"image"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"

	"github.com/patzerworks/openinglens/pkg/geom"
	"github.com/patzerworks/openinglens/pkg/graph"
	"github.com/patzerworks/openinglens/pkg/viewport"
)

const (
	nodeCorner = 16.0 // rounded rect corner radius in world units
	glowLayers = 8
	cullMargin = graph.NodeSize
	baseFontPx = 24.0 // world-unit font size for the move label
	lineHeight = 30.0
)

// Pipeline owns the raster backing surface. The surface is reallocated
// only when the device-pixel dimensions change; every other frame reuses
// it. Not safe for concurrent use, same as the engine it draws.
type Pipeline struct {
	dc   *gg.Context
	w, h int
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) ensureSurface(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if p.dc != nil && w == p.w && h == p.h {
		return
	}
	p.dc = gg.NewContext(w, h)
	p.w, p.h = w, h
}

// Frame draws one complete frame and returns the backing image. Draw
// order: position hulls, opening hulls, edges, nodes, indicator glyphs.
func (p *Pipeline) Frame(s Scene) image.Image {
	done := observeFrame()
	defer done()

	ratio := s.ratio()
	p.ensureSurface(int(s.Width*ratio), int(s.Height*ratio))

	f := &frame{dc: p.dc, s: s, ratio: ratio, k: s.Transform.Scale * ratio}

	f.dc.SetColor(bgDark)
	f.dc.Clear()

	f.drawHulls(s.PositionHulls, s.HoveredClusterID)
	f.drawHulls(s.OpeningHulls, s.HoveredClusterID)
	f.drawEdges()
	f.drawNodes()

	return p.dc.Image()
}

// WritePNG encodes the last drawn frame.
func (p *Pipeline) WritePNG(w io.Writer) error {
	return p.dc.EncodePNG(w)
}

// frame bundles per-frame draw state. All coordinates are converted from
// world to device pixels explicitly; the gg matrix stays untouched so
// text renders at true size instead of being scaled as outlines.
type frame struct {
	dc    *gg.Context
	s     Scene
	ratio float64
	k     float64 // world units to device pixels
}

func (f *frame) pt(x, y float64) (float64, float64) {
	sx, sy := f.s.Transform.WorldToScreen(x, y)
	return sx * f.ratio, sy * f.ratio
}

func (f *frame) drawHulls(hulls []viewport.ClusterOutline, hoveredID string) {
	for _, h := range hulls {
		c := clusterColor(h.Cluster.ColorIndex)
		fillAlpha := uint8(0x20)
		lineWidth := 2.5
		if h.Cluster.ID == hoveredID {
			fillAlpha = 0x38
			lineWidth = 4.0
		}

		if len(h.Path.Segments) > 0 {
			f.tracePath(h.Path)
		} else if len(h.Rect) >= 3 {
			f.tracePolygon(h.Rect)
		} else {
			continue
		}
		f.dc.SetColor(withAlpha(c, fillAlpha))
		f.dc.FillPreserve()
		f.dc.SetColor(withAlpha(c, 0xb0))
		f.dc.SetLineWidth(lineWidth * f.k)
		f.dc.Stroke()
	}
}

func (f *frame) tracePath(p geom.SmoothPath) {
	sx, sy := f.pt(p.Start.X, p.Start.Y)
	f.dc.MoveTo(sx, sy)
	for _, seg := range p.Segments {
		cx, cy := f.pt(seg.Ctrl.X, seg.Ctrl.Y)
		ex, ey := f.pt(seg.End.X, seg.End.Y)
		f.dc.QuadraticTo(cx, cy, ex, ey)
	}
	f.dc.ClosePath()
}

func (f *frame) tracePolygon(pts []geom.Point) {
	sx, sy := f.pt(pts[0].X, pts[0].Y)
	f.dc.MoveTo(sx, sy)
	for _, p := range pts[1:] {
		x, y := f.pt(p.X, p.Y)
		f.dc.LineTo(x, y)
	}
	f.dc.ClosePath()
}

func (f *frame) drawEdges() {
	byID := nodeIndex(f.s.Data.Nodes)
	for _, e := range f.s.Data.Edges {
		from, to := byID[e.Source], byID[e.Target]
		if from == nil || to == nil {
			continue
		}

		x1, y1 := f.pt(from.X, from.Y)
		x2, y2 := f.pt(to.X, to.Y)

		f.dc.SetColor(edgeColor(f.s.Mode, e))
		f.dc.SetLineWidth(edgeWidth(e.GameCount) * f.k)
		if f.s.Mode == ModeOpening && !f.s.MainLine[EdgeKey(e)] {
			f.dc.SetDash(8*f.k, 6*f.k)
		}
		f.dc.MoveTo(x1, y1)
		f.dc.LineTo(x2, y2)
		f.dc.Stroke()
		f.dc.SetDash()
	}
}

func (f *frame) drawNodes() {
	cull := viewCull(f.s.Transform, f.s.Width, f.s.Height, cullMargin)
	shared := sharedFENs(f.s.Data.Nodes)

	nextIndex := 0
	for _, n := range f.s.Data.Nodes {
		if !cull.visible(n) {
			continue
		}

		selected := n.ID == f.s.SelectedNodeID || n.IsSelected
		next := f.s.NextMoveIDs[n.ID]

		if selected {
			f.drawGlow(n, rateHigh, 1.0)
		} else if next {
			f.drawGlow(n, clusterColor(nextIndex), 0.6)
		}

		f.drawNodeBox(n, selected)
		f.drawNodeText(n)

		if shared[n.FEN] > 1 && n.FEN != "" {
			f.drawLinkGlyph(n)
		}
		if next {
			f.drawOriginDot(n, clusterColor(nextIndex))
			nextIndex++
		}
	}
}

// drawGlow stacks translucent rounded rects of growing extent; eight
// layers read as a soft shadow blur without an actual blur pass.
func (f *frame) drawGlow(n *graph.PositionNode, c color.RGBA, intensity float64) {
	x, y := f.pt(n.X, n.Y)
	for i := glowLayers; i >= 1; i-- {
		pad := float64(i) * 4.0 * f.k
		alpha := uint8(float64(6*(glowLayers-i+1)) * intensity)
		f.dc.SetColor(withAlpha(c, alpha))
		f.dc.DrawRoundedRectangle(
			x-(n.Width/2)*f.k-pad,
			y-(n.Height/2)*f.k-pad,
			n.Width*f.k+2*pad,
			n.Height*f.k+2*pad,
			(nodeCorner+4)*f.k,
		)
		f.dc.Fill()
	}
}

func (f *frame) drawNodeBox(n *graph.PositionNode, selected bool) {
	x, y := f.pt(n.X, n.Y)
	w, h := n.Width*f.k, n.Height*f.k

	fill := nodeCard
	switch {
	case n.IsMissing:
		fill = nodeCardMuted
	case n.IsRoot:
		fill = nodeRoot
	}
	f.dc.SetColor(fill)
	f.dc.DrawRoundedRectangle(x-w/2, y-h/2, w, h, nodeCorner*f.k)
	f.dc.Fill()

	stroke := textMuted
	strokeW := 2.0
	switch {
	case selected:
		stroke = rateHigh
		strokeW = 3.5
	case n.IsMissing:
		stroke = withAlpha(textMuted, 0x80)
	case f.s.Mode == ModePerformance && n.WinRate != nil:
		stroke = winRateColor(*n.WinRate)
		strokeW = 3.0
	}
	f.dc.SetColor(stroke)
	f.dc.SetLineWidth(strokeW * f.k)
	f.dc.DrawRoundedRectangle(x-w/2, y-h/2, w, h, nodeCorner*f.k)
	f.dc.Stroke()
}

func (f *frame) drawNodeText(n *graph.PositionNode) {
	if baseFontPx*f.k < 5 {
		return // unreadable at this zoom, skip the text pass
	}
	x, y := f.pt(n.X, n.Y)
	lines := nodeLines(n)
	lh := lineHeight * f.k
	startY := y - lh*float64(len(lines)-1)/2

	for i, line := range lines {
		size := baseFontPx * f.k
		c := textPrimary
		if i > 0 {
			size = baseFontPx * 0.75 * f.k
			c = textSecondary
			if line == "No Data" {
				c = textMuted
			}
		}
		f.dc.SetFontFace(faceFor(size))
		f.dc.SetColor(c)
		f.dc.DrawStringAnchored(line, x, startY+lh*float64(i), 0.5, 0.5)
	}
}

// drawLinkGlyph marks a transposition: another node reaches the same FEN.
func (f *frame) drawLinkGlyph(n *graph.PositionNode) {
	x, y := f.pt(n.X+n.Width/2-14, n.Y-n.Height/2+14)
	f.dc.SetColor(withAlpha(clusterPalette[1], 0xe0))
	f.dc.DrawCircle(x, y, 6*f.k)
	f.dc.Fill()
	f.dc.SetColor(bgDark)
	f.dc.SetLineWidth(1.5 * f.k)
	f.dc.DrawCircle(x, y, 3*f.k)
	f.dc.Stroke()
}

// drawOriginDot anchors a colored dot below the node matching the arrow
// color of its continuation.
func (f *frame) drawOriginDot(n *graph.PositionNode, c color.RGBA) {
	x, y := f.pt(n.X, n.Y+n.Height/2+16)
	f.dc.SetColor(c)
	f.dc.DrawCircle(x, y, 7*f.k)
	f.dc.Fill()
}

func nodeIndex(nodes []*graph.PositionNode) map[string]*graph.PositionNode {
	m := make(map[string]*graph.PositionNode, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func sharedFENs(nodes []*graph.PositionNode) map[string]int {
	m := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.FEN != "" {
			m[n.FEN]++
		}
	}
	return m
}

func edgeWidth(gameCount int) float64 {
	w := 2 + float64(gameCount)*0.3
	if w > 8 {
		return 8
	}
	return w
}

func edgeColor(mode Mode, e graph.Edge) color.RGBA {
	if e.IsMissing {
		return withAlpha(textMuted, 0x50)
	}
	if mode == ModePerformance && e.WinRate != nil {
		return withAlpha(winRateColor(*e.WinRate), 0xa0)
	}
	return edgeNeutral
}
