package filter

import (
	"image"
	"math"

	"ceph-tracer/pkg/colorutil"
)

var (
	kernelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	kernelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// Sobel returns an inverted edge map of src: dark lines on white.
//
// Only interior pixels are computed. The one-pixel border is left as
// transparent black, the zero value of a new bitmap.
func Sobel(src *image.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w < 3 || h < 3 {
		return dst
	}

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			p := src.Pix[off : off+3 : off+3]
			gray[y*w+x] = colorutil.Mean(p[0], p[1], p[2])
		}
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var gx, gy float64
			for i := -1; i <= 1; i++ {
				for j := -1; j <= 1; j++ {
					g := gray[(y+i)*w+x+j]
					gx += g * kernelX[i+1][j+1]
					gy += g * kernelY[i+1][j+1]
				}
			}
			edge := math.Min(255, math.Sqrt(gx*gx+gy*gy))
			v := toByte(255 - edge)

			off := dst.PixOffset(x, y)
			dst.Pix[off] = v
			dst.Pix[off+1] = v
			dst.Pix[off+2] = v
			dst.Pix[off+3] = 255
		}
	}
	return dst
}
