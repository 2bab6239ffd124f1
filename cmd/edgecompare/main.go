// Command edgecompare runs the sketch filter and OpenCV's Sobel operator on
// the same radiograph and reports how far the two edge maps differ.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ceph-tracer/internal/filter"
	cephimage "ceph-tracer/internal/image"
	"ceph-tracer/pkg/colorutil"
)

func main() {
	imagePath := flag.String("image", "", "Path to radiograph (PNG, JPEG, TIFF, BMP, WebP)")
	maxWidth := flag.Int("max-width", 1200, "Downscale wider images to this width (0 keeps size)")
	tolerance := flag.Float64("tolerance", 2, "Per-pixel difference counted as a mismatch")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: edgecompare -image <path> [-max-width 1200] [-tolerance 2]")
		os.Exit(1)
	}

	layer, err := cephimage.Load(*imagePath, *maxWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	w, h := layer.Width(), layer.Height()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", layer.Format, w, h)
	if w < 3 || h < 3 {
		fmt.Fprintln(os.Stderr, "Image too small for a 3x3 kernel")
		os.Exit(1)
	}

	ours := filter.Sobel(layer.Image)

	theirs, err := opencvSketch(layer.Image.Pix, layer.Image.Stride, w, h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenCV Sobel failed: %v\n", err)
		os.Exit(1)
	}

	// Interior pixels only; the filter leaves the border transparent.
	diffs := make([]float64, 0, (w-2)*(h-2))
	mismatches := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			a := float64(ours.Pix[ours.PixOffset(x, y)])
			d := math.Abs(a - theirs[y*w+x])
			diffs = append(diffs, d)
			if d > *tolerance {
				mismatches++
			}
		}
	}

	mean, std := stat.MeanStdDev(diffs, nil)
	fmt.Printf("\nCompared %d interior pixels:\n", len(diffs))
	fmt.Printf("  Mean abs difference: %.3f\n", mean)
	fmt.Printf("  Std deviation:       %.3f\n", std)
	fmt.Printf("  Max difference:      %.1f\n", floats.Max(diffs))
	fmt.Printf("  Over tolerance:      %d (%.2f%%)\n", mismatches, 100*float64(mismatches)/float64(len(diffs)))
}

// opencvSketch returns 255 minus the clamped gradient magnitude for every
// pixel, using the same channel mean as the sketch filter for its gray input.
func opencvSketch(pix []uint8, stride, w, h int) ([]float64, error) {
	gray := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*stride + x*4
			gray[y*w+x] = uint8(math.Round(colorutil.Mean(pix[off], pix[off+1], pix[off+2])))
		}
	}

	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, gray)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	f32 := gocv.NewMat()
	defer f32.Close()
	src.ConvertTo(&f32, gocv.MatTypeCV32F)

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(f32, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(f32, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	mag := gocv.NewMat()
	defer mag.Close()
	gocv.Magnitude(gx, gy, &mag)

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			edge := math.Min(255, float64(mag.GetFloatAt(y, x)))
			out[y*w+x] = math.Round(255 - edge)
		}
	}
	return out, nil
}
