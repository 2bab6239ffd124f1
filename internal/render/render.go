// Package render draws the measurement overlays on top of a filtered image.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"ceph-tracer/internal/angle"
	"ceph-tracer/internal/calibration"
	"ceph-tracer/internal/catalog"
	"ceph-tracer/pkg/colorutil"
	"ceph-tracer/pkg/geometry"
)

// Overlay colors.
var (
	CalibrationColor = colorutil.Calibration
	PointColor       = colorutil.Landmark
	PointBorderColor = colorutil.White
	LabelBackground  = colorutil.WithAlpha(colorutil.White, 0xE6)
	GuideColor       = colorutil.WithAlpha(colorutil.Guide, 179)
	TextColor        = colorutil.Black
)

// Overlay geometry in bitmap pixels.
const (
	CalibrationWidth  = 2
	CalibrationRadius = 5
	PointRadius       = 4
	GuideWidth        = 2
	labelOffset       = 20
	labelPadding      = 3
)

// Scene is everything drawn over the image.
type Scene struct {
	Calibration calibration.Line
	Points      []geometry.Point2D
	Labels      []string // Labels[i] names Points[i]
	Angles      []angle.Angle
	HideGuides  bool
}

// Labels returns the landmark names for the first n points.
func Labels(cat *catalog.Catalog, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = cat.Label(i)
	}
	return labels
}

// Compose draws scene over base and returns a new image; base is not changed.
// Layers are painted in order: calibration, points, angle guide lines.
func Compose(base image.Image, scene Scene) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)

	drawCalibration(out, scene.Calibration)
	for i, p := range scene.Points {
		label := ""
		if i < len(scene.Labels) {
			label = scene.Labels[i]
		}
		drawPoint(out, p, label)
	}
	if !scene.HideGuides {
		for _, a := range scene.Angles {
			drawPolyline(out, a.Operands[:], GuideColor, GuideWidth)
		}
	}
	return out
}

func drawCalibration(out *image.RGBA, line calibration.Line) {
	drawLine(out, round(line.Start.X), round(line.Start.Y), round(line.End.X), round(line.End.Y), CalibrationColor, CalibrationWidth)
	for _, end := range []struct {
		p     geometry.Point2D
		label string
	}{{line.Start, calibration.StartLabel}, {line.End, calibration.EndLabel}} {
		fillCircle(out, end.p, CalibrationRadius, CalibrationColor)
		// Text sits above the handle, bottom edge 8px over its centre.
		drawText(out, end.label, round(end.p.X), round(end.p.Y)-8-basicfont.Face7x13.Descent, TextColor)
	}
}

func drawPoint(out *image.RGBA, p geometry.Point2D, label string) {
	fillCircle(out, p, PointRadius+1.5, PointBorderColor)
	fillCircle(out, p, PointRadius, PointColor)
	if label == "" {
		return
	}

	face := basicfont.Face7x13
	w := font.MeasureString(face, label).Ceil()
	cx, cy := round(p.X), round(p.Y)-labelOffset
	box := image.Rect(cx-w/2-labelPadding, cy-8-labelPadding, cx+w-w/2+labelPadding, cy+8+labelPadding)
	fillRect(out, box, LabelBackground)

	// Vertically centre the glyphs on cy.
	baseline := cy + (face.Ascent-face.Descent)/2
	drawText(out, label, cx, baseline, TextColor)
}

func drawPolyline(out *image.RGBA, pts []geometry.Point2D, col color.NRGBA, thickness int) {
	for i := 1; i < len(pts); i++ {
		drawLine(out, round(pts[i-1].X), round(pts[i-1].Y), round(pts[i].X), round(pts[i].Y), col, thickness)
	}
}

// drawText draws label horizontally centred on x with its baseline at y.
func drawText(out *image.RGBA, label string, x, baseline int, col color.NRGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, label)
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x) - w/2, Y: fixed.I(baseline)},
	}
	d.DrawString(label)
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(out *image.RGBA, x1, y1, x2, y2 int, col color.NRGBA, thickness int) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	// Thick lines are stamped as squares, so track what was painted to keep
	// translucent colors from compounding.
	var seen map[image.Point]bool
	if col.A != 0xFF {
		seen = make(map[image.Point]bool)
	}

	err := dx - dy
	lo, hi := -(thickness-1)/2, thickness/2
	for {
		for t := lo; t <= hi; t++ {
			for s := lo; s <= hi; s++ {
				pt := image.Pt(x1+s, y1+t)
				if seen != nil {
					if seen[pt] {
						continue
					}
					seen[pt] = true
				}
				blend(out, pt.X, pt.Y, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func fillCircle(out *image.RGBA, c geometry.Point2D, r float64, col color.NRGBA) {
	minX, maxX := int(math.Floor(c.X-r)), int(math.Ceil(c.X+r))
	minY, maxY := int(math.Floor(c.Y-r)), int(math.Ceil(c.Y+r))
	r2 := r * r
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) - c.X
			dy := float64(y) - c.Y
			if dx*dx+dy*dy <= r2 {
				blend(out, x, y, col)
			}
		}
	}
}

func fillRect(out *image.RGBA, r image.Rectangle, col color.NRGBA) {
	r = r.Intersect(out.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blend(out, x, y, col)
		}
	}
}

// blend paints col over the pixel at x, y. Out-of-bounds pixels are ignored.
func blend(out *image.RGBA, x, y int, col color.NRGBA) {
	if !image.Pt(x, y).In(out.Bounds()) {
		return
	}
	i := out.PixOffset(x, y)
	if col.A == 0xFF {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = col.R, col.G, col.B, 0xFF
		return
	}
	a := uint32(col.A)
	inv := 255 - a
	px := out.Pix[i : i+4 : i+4]
	px[0] = uint8((uint32(col.R)*a + uint32(px[0])*inv + 127) / 255)
	px[1] = uint8((uint32(col.G)*a + uint32(px[1])*inv + 127) / 255)
	px[2] = uint8((uint32(col.B)*a + uint32(px[2])*inv + 127) / 255)
	px[3] = uint8((255*a + uint32(px[3])*inv + 127) / 255)
}

func round(v float64) int {
	return int(math.Round(v))
}
