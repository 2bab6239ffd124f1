package filter

import (
	"image"

	"golang.org/x/image/draw"
)

// Apply runs the pipeline on a copy of src and returns the result.
// The stages run in a fixed order: color adjust, gamma, then Sobel when
// sketch mode is on. src is never modified.
func Apply(src image.Image, p Params) *image.NRGBA {
	p = p.Clamped()
	out := Clone(src)
	AdjustColor(out, p)
	ApplyGamma(out, p.Gamma)
	if p.Sketch {
		out = Sobel(out)
	}
	return out
}

// Clone copies src into a new NRGBA bitmap anchored at the origin.
// NRGBA sources are copied row by row so translucent pixels keep their
// exact values.
func Clone(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()*4], n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
