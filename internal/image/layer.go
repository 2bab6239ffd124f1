// Package image provides image decoding, display downscaling and the
// asynchronous decode used when an image is selected for measurement.
package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ceph-tracer/pkg/geometry"
)

// DefaultMaxWidth is the widest working bitmap; larger images are scaled down.
const DefaultMaxWidth = 800

// ErrDecode is returned when image bytes cannot be decoded.
var ErrDecode = errors.New("failed to decode image")

// Layer is a decoded image ready for measurement. Image is the working
// bitmap that points are placed on; it may be smaller than the original.
type Layer struct {
	Name     string        // Display name or file path
	Format   string        // Decoder name: png, jpeg, gif, tiff, bmp, webp
	Image    *image.NRGBA  // Working bitmap
	Original geometry.Size // Size before downscaling
	DPI      float64       // From TIFF metadata, 0 if unknown
}

// Decode decodes data and scales the result to at most maxWidth pixels wide.
// A non-positive maxWidth keeps the original size.
func Decode(data []byte, name string, maxWidth int) (*Layer, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, name, err)
	}

	b := img.Bounds()
	layer := &Layer{
		Name:     name,
		Format:   format,
		Original: geometry.NewSize(float64(b.Dx()), float64(b.Dy())),
	}
	layer.Image = fit(img, maxWidth)

	if format == "tiff" {
		if dpi, err := extractTIFFDPI(bytes.NewReader(data)); err == nil {
			layer.DPI = dpi
		}
	}
	return layer, nil
}

// Load reads and decodes the image at path.
func Load(path string, maxWidth int) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return Decode(data, path, maxWidth)
}

// fit converts img to NRGBA, scaling it down when it is wider than maxWidth.
func fit(img image.Image, maxWidth int) *image.NRGBA {
	b := img.Bounds()
	src := geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	size := geometry.FitWidth(src, float64(maxWidth))

	dst := image.NewNRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
	if size == src {
		if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
			copy(dst.Pix, n.Pix)
			return dst
		}
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Width returns the working bitmap width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the working bitmap height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the working bitmap dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// Downscaled reports whether the working bitmap is smaller than the original.
func (l *Layer) Downscaled() bool {
	return l.Size() != l.Original
}

// extractTIFFDPI reads the resolution tags of the first IFD.
func extractTIFFDPI(r io.ReadSeeker) (float64, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}

	var byteOrder binary.ByteOrder
	if header[0] == 'I' && header[1] == 'I' {
		byteOrder = binary.LittleEndian
	} else if header[0] == 'M' && header[1] == 'M' {
		byteOrder = binary.BigEndian
	} else {
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(header[4:8])
	if _, err := r.Seek(int64(ifdOffset), io.SeekStart); err != nil {
		return 0, err
	}

	var numEntries uint16
	if err := binary.Read(r, byteOrder, &numEntries); err != nil {
		return 0, err
	}

	var xRes, yRes float64
	var resUnit uint16 = 2 // inches

	entry := make([]byte, 12)
	for i := uint16(0); i < numEntries; i++ {
		if _, err := io.ReadFull(r, entry); err != nil {
			return 0, err
		}

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		valueOffset := byteOrder.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 {
				xRes = readTIFFRational(r, int64(valueOffset), byteOrder)
			}
		case 283: // YResolution
			if fieldType == 5 {
				yRes = readTIFFRational(r, int64(valueOffset), byteOrder)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 {
				resUnit = byteOrder.Uint16(entry[8:10])
			}
		}
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}
	if dpi == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}
	if resUnit == 3 {
		dpi *= 2.54
	}
	return dpi, nil
}

// readTIFFRational reads a RATIONAL value and restores the read position.
func readTIFFRational(r io.ReadSeeker, offset int64, byteOrder binary.ByteOrder) float64 {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	defer r.Seek(pos, io.SeekStart)

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0
	}
	var num, denom uint32
	if binary.Read(r, byteOrder, &num) != nil || binary.Read(r, byteOrder, &denom) != nil {
		return 0
	}
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

// SupportedFormats returns the file extensions that can be opened.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// SniffType returns the MIME type of image bytes, e.g. "image/png".
func SniffType(data []byte) string {
	return mimetype.Detect(data).String()
}
