package render

import (
	"fmt"
	"image/color"
)

// Dark theme palette.
var (
	bgDark        = color.RGBA{0x1e, 0x1e, 0x2e, 0xff}
	nodeCard      = color.RGBA{0x2a, 0x2a, 0x3e, 0xff}
	nodeCardMuted = color.RGBA{0x24, 0x24, 0x30, 0xff}
	nodeRoot      = color.RGBA{0x3a, 0x3a, 0x55, 0xff}

	textPrimary   = color.RGBA{0xf8, 0xf8, 0xf2, 0xff}
	textSecondary = color.RGBA{0xa0, 0xa0, 0xb0, 0xff}
	textMuted     = color.RGBA{0x62, 0x72, 0xa4, 0xff}

	edgeNeutral = color.RGBA{0x6b, 0x80, 0xbf, 0x80}

	rateLow  = color.RGBA{0xff, 0x55, 0x55, 0xff} // losing
	rateMid  = color.RGBA{0xf1, 0xfa, 0x8c, 0xff} // even
	rateHigh = color.RGBA{0x50, 0xfa, 0x7b, 0xff} // winning
)

// clusterPalette is the fixed cycle of hull colors; Cluster.ColorIndex
// indexes into it modulo its length.
var clusterPalette = []color.RGBA{
	{0x50, 0xfa, 0x7b, 0xff}, // green
	{0x8b, 0xe9, 0xfd, 0xff}, // cyan
	{0xff, 0x79, 0xc6, 0xff}, // pink
	{0xbd, 0x93, 0xf9, 0xff}, // purple
	{0xff, 0xb8, 0x6c, 0xff}, // orange
	{0xf1, 0xfa, 0x8c, 0xff}, // yellow
	{0xff, 0x55, 0x55, 0xff}, // red
	{0x62, 0x72, 0xa4, 0xff}, // slate
}

func clusterColor(index int) color.RGBA {
	if index < 0 {
		index = -index
	}
	return clusterPalette[index%len(clusterPalette)]
}

// winRateColor maps a percentage to the red/yellow/green gradient, pinned
// at the ends for out-of-range input.
func winRateColor(rate float64) color.RGBA {
	switch {
	case rate <= 0:
		return rateLow
	case rate >= 100:
		return rateHigh
	case rate < 50:
		return lerpColor(rateLow, rateMid, rate/50)
	default:
		return lerpColor(rateMid, rateHigh, (rate-50)/50)
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: uint8(float64(a.A) + t*(float64(b.A)-float64(a.A))),
	}
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func cssOpacity(c color.RGBA) float64 {
	return float64(c.A) / 255
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate)
}

func games(n int) string {
	if n == 1 {
		return "1 game"
	}
	return fmt.Sprintf("%d games", n)
}
