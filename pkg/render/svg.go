package render

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/patzerworks/openinglens/pkg/geom"
	"github.com/patzerworks/openinglens/pkg/viewport"
)

// WriteSVG mirrors the raster scene as vector output. The world-to-screen
// transform becomes a group transform, so element coordinates stay in
// world units and the exported file scales losslessly.
func WriteSVG(w io.Writer, s Scene) error {
	width, height := int(s.Width), int(s.Height)
	if width < 1 || height < 1 {
		return fmt.Errorf("render: invalid svg size %dx%d", width, height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+cssColor(bgDark))

	canvas.Gtransform(fmt.Sprintf("translate(%.2f,%.2f) scale(%.4f)",
		s.Transform.X, s.Transform.Y, s.Transform.Scale))

	svgHulls(canvas, s.PositionHulls, s.HoveredClusterID)
	svgHulls(canvas, s.OpeningHulls, s.HoveredClusterID)
	svgEdges(canvas, s)
	svgNodes(canvas, s)

	canvas.Gend()
	canvas.End()
	return nil
}

func svgHulls(canvas *svg.SVG, hulls []viewport.ClusterOutline, hoveredID string) {
	for _, h := range hulls {
		c := clusterColor(h.Cluster.ColorIndex)
		fillOpacity, lineWidth := 0.12, 2.5
		if h.Cluster.ID == hoveredID {
			fillOpacity, lineWidth = 0.22, 4.0
		}
		style := fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-opacity:0.7;stroke-width:%.1f",
			cssColor(c), fillOpacity, cssColor(c), lineWidth)

		if len(h.Path.Segments) > 0 {
			canvas.Path(hullPathData(h.Path), style)
		} else if len(h.Rect) >= 3 {
			canvas.Path(polygonPathData(h.Rect), style)
		}
	}
}

func hullPathData(p geom.SmoothPath) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %.1f %.1f", p.Start.X, p.Start.Y)
	for _, seg := range p.Segments {
		fmt.Fprintf(&b, " Q %.1f %.1f %.1f %.1f", seg.Ctrl.X, seg.Ctrl.Y, seg.End.X, seg.End.Y)
	}
	b.WriteString(" Z")
	return b.String()
}

func polygonPathData(pts []geom.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %.1f %.1f", pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		fmt.Fprintf(&b, " L %.1f %.1f", p.X, p.Y)
	}
	b.WriteString(" Z")
	return b.String()
}

func svgEdges(canvas *svg.SVG, s Scene) {
	byID := nodeIndex(s.Data.Nodes)
	for _, e := range s.Data.Edges {
		from, to := byID[e.Source], byID[e.Target]
		if from == nil || to == nil {
			continue
		}
		c := edgeColor(s.Mode, e)
		style := fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f",
			cssColor(c), cssOpacity(c), edgeWidth(e.GameCount))
		if s.Mode == ModeOpening && !s.MainLine[EdgeKey(e)] {
			style += ";stroke-dasharray:8,6"
		}
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y), style)
	}
}

func svgNodes(canvas *svg.SVG, s Scene) {
	shared := sharedFENs(s.Data.Nodes)
	for _, n := range s.Data.Nodes {
		selected := n.ID == s.SelectedNodeID || n.IsSelected

		fill := nodeCard
		switch {
		case n.IsMissing:
			fill = nodeCardMuted
		case n.IsRoot:
			fill = nodeRoot
		}
		stroke := textMuted
		strokeW := 2.0
		switch {
		case selected:
			stroke = rateHigh
			strokeW = 3.5
		case s.Mode == ModePerformance && n.WinRate != nil:
			stroke = winRateColor(*n.WinRate)
			strokeW = 3.0
		}

		canvas.Roundrect(
			int(n.X-n.Width/2), int(n.Y-n.Height/2),
			int(n.Width), int(n.Height),
			int(nodeCorner), int(nodeCorner),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", cssColor(fill), cssColor(stroke), strokeW),
		)

		lines := nodeLines(n)
		startY := n.Y - lineHeight*float64(len(lines)-1)/2
		for i, line := range lines {
			size, c := baseFontPx, textPrimary
			if i > 0 {
				size, c = baseFontPx*0.75, textSecondary
				if line == "No Data" {
					c = textMuted
				}
			}
			canvas.Text(int(n.X), int(startY+lineHeight*float64(i)), line,
				fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:system-ui,sans-serif;text-anchor:middle;dominant-baseline:middle", cssColor(c), size))
		}

		if shared[n.FEN] > 1 && n.FEN != "" {
			canvas.Circle(int(n.X+n.Width/2-14), int(n.Y-n.Height/2+14), 6,
				"fill:"+cssColor(clusterPalette[1]))
		}
	}
}
