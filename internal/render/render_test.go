package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"ceph-tracer/internal/angle"
	"ceph-tracer/internal/calibration"
	"ceph-tracer/internal/catalog"
	"ceph-tracer/pkg/geometry"
)

func whiteImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}

func rgba(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func TestComposeOverlays(t *testing.T) {
	base := whiteImage(640, 640)
	pts := []geometry.Point2D{{X: 300, Y: 300}, {X: 500, Y: 300}, {X: 500, Y: 500}}
	scene := Scene{
		Calibration: calibration.DefaultLine(),
		Points:      pts,
		Labels:      []string{"N", "S", "Or"},
		Angles: []angle.Angle{{
			Operands: [3]geometry.Point2D{pts[0], pts[1], pts[2]},
			Value:    90,
			Name:     "test",
		}},
	}

	out := Compose(base, scene)
	assert.Equal(t, base.Bounds(), out.Bounds())

	// Base image is untouched.
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, base.NRGBAAt(150, 100))

	// Calibration line and handles.
	assert.Equal(t, rgba(CalibrationColor), out.RGBAAt(150, 100))
	assert.Equal(t, rgba(CalibrationColor), out.RGBAAt(104, 100))

	// Point fill and white border ring, below the guide line.
	assert.Equal(t, rgba(PointColor), out.RGBAAt(300, 303))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(296, 297))

	// Translucent guide line over white.
	assert.Equal(t, color.RGBA{99, 181, 247, 255}, out.RGBAAt(400, 300))
	assert.Equal(t, color.RGBA{99, 181, 247, 255}, out.RGBAAt(500, 400))

	// The label box above the point holds dark glyph pixels.
	var dark int
	for y := 272; y < 292; y++ {
		for x := 290; x < 310; x++ {
			if out.RGBAAt(x, y).R < 64 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0)
}

func TestComposeHideGuides(t *testing.T) {
	pts := []geometry.Point2D{{X: 300, Y: 300}, {X: 500, Y: 300}, {X: 500, Y: 500}}
	out := Compose(whiteImage(640, 640), Scene{
		Calibration: calibration.DefaultLine(),
		Points:      pts,
		Angles:      []angle.Angle{{Operands: [3]geometry.Point2D{pts[0], pts[1], pts[2]}}},
		HideGuides:  true,
	})
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(400, 300))
}

func TestOverlaysClipAtEdges(t *testing.T) {
	out := Compose(whiteImage(20, 20), Scene{
		Calibration: calibration.Line{Start: geometry.NewPoint2D(-50, 5), End: geometry.NewPoint2D(50, 5)},
		Points:      []geometry.Point2D{{X: 0, Y: 0}, {X: 19, Y: 19}},
		Labels:      []string{"N", "S"},
	})
	assert.Equal(t, rgba(CalibrationColor), out.RGBAAt(10, 5))
	assert.Equal(t, rgba(PointColor), out.RGBAAt(19, 19))
}

func TestBlend(t *testing.T) {
	out := image.NewRGBA(image.Rect(0, 0, 1, 1))
	blend(out, 0, 0, color.NRGBA{R: 255, A: 128})
	assert.Equal(t, color.RGBA{R: 128, A: 128}, out.RGBAAt(0, 0))

	// Outside the bounds nothing happens.
	blend(out, 5, 5, PointColor)
}

func TestLabels(t *testing.T) {
	cat := catalog.Default()
	assert.Equal(t, []string{"N", "S", "Or"}, Labels(cat, 3))
	assert.Empty(t, Labels(cat, 0))
}
