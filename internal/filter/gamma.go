package filter

import (
	"image"
	"math"
)

// GammaTable returns the lookup table for 255*(v/255)^gamma.
func GammaTable(gamma float64) [256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = toByte(255 * math.Pow(float64(i)/255, gamma))
	}
	return lut
}

// ApplyGamma corrects the RGB channels in place. Gamma 1 leaves the image
// untouched; alpha is never changed.
func ApplyGamma(img *image.NRGBA, gamma float64) {
	if gamma == 1 {
		return
	}
	lut := GammaTable(gamma)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i] = lut[row[i]]
			row[i+1] = lut[row[i+1]]
			row[i+2] = lut[row[i+2]]
		}
	}
}
