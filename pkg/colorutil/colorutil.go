// Package colorutil provides the colors used to draw circles and sources.
package colorutil

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Overlay colors for plots.
var (
	Circle     = colornames.Red
	Highlight  = colornames.Blue
	Unassigned = colornames.Gray
	Grid       = colornames.Lightgray
)

// Palette is the cycle of cluster colors.
var Palette = []color.RGBA{
	colornames.Crimson,
	colornames.Royalblue,
	colornames.Forestgreen,
	colornames.Darkorange,
	colornames.Darkviolet,
	colornames.Teal,
	colornames.Goldenrod,
	colornames.Deeppink,
	colornames.Saddlebrown,
	colornames.Slategray,
}

// ClusterColor returns the palette color of cluster i. Negative indices
// mean the circle has no cluster.
func ClusterColor(i int) color.RGBA {
	if i < 0 {
		return Unassigned
	}
	return Palette[i%len(Palette)]
}

// WithAlpha returns c at opacity a, keeping the premultiplied form.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(a) / 255)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: a}
}
