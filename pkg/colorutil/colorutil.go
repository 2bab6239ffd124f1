// Package colorutil provides the overlay palette and pixel helpers shared by
// the renderer, the filters and the UI theme.
package colorutil

import "image/color"

// Overlay colors.
var (
	Landmark    = color.NRGBA{R: 0xFF, G: 0x57, B: 0x22, A: 0xFF}
	Guide       = color.NRGBA{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}
	Calibration = color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	White       = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black       = color.NRGBA{A: 0xFF}
	Grey        = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// Mean returns the unweighted mean of the three channels, 0-255.
func Mean(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}
