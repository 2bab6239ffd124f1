package filter

import "image"

// Luminance weights of the saturation matrix.
const (
	lumR = 0.213
	lumG = 0.715
	lumB = 0.072
)

// AdjustColor applies brightness, contrast and saturation in place, in that
// order, clamping after each step. A step at 100% is skipped. Alpha is left
// untouched.
func AdjustColor(img *image.NRGBA, p Params) {
	if p.ColorIdentity() {
		return
	}
	b := p.BrightnessPct / 100
	c := p.ContrastPct / 100
	s := p.SaturationPct / 100

	// Saturation matrix rows.
	m := [3][3]float64{
		{lumR + (1-lumR)*s, lumG - lumG*s, lumB - lumB*s},
		{lumR - lumR*s, lumG + (1-lumG)*s, lumB - lumB*s},
		{lumR - lumR*s, lumG - lumG*s, lumB + (1-lumB)*s},
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):img.PixOffset(bounds.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			var v [3]float64
			for ch := 0; ch < 3; ch++ {
				x := float64(row[i+ch]) / 255
				if b != 1 {
					x = clampF(x*b, 0, 1)
				}
				if c != 1 {
					x = clampF((x-0.5)*c+0.5, 0, 1)
				}
				v[ch] = x
			}
			if s != 1 {
				v = [3]float64{
					clampF(m[0][0]*v[0]+m[0][1]*v[1]+m[0][2]*v[2], 0, 1),
					clampF(m[1][0]*v[0]+m[1][1]*v[1]+m[1][2]*v[2], 0, 1),
					clampF(m[2][0]*v[0]+m[2][1]*v[1]+m[2][2]*v[2], 0, 1),
				}
			}
			for ch := 0; ch < 3; ch++ {
				row[i+ch] = toByte(v[ch] * 255)
			}
		}
	}
}
