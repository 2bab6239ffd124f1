package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeKeepsSmallImages(t *testing.T) {
	data := encodePNG(t, 40, 30)

	l, err := Decode(data, "small.png", DefaultMaxWidth)
	require.NoError(t, err)
	assert.Equal(t, "png", l.Format)
	assert.Equal(t, 40, l.Width())
	assert.Equal(t, 30, l.Height())
	assert.False(t, l.Downscaled())
	assert.Equal(t, color.NRGBA{R: 5, G: 6, B: 7, A: 255}, l.Image.NRGBAAt(5, 6))
}

func TestDecodeDownscales(t *testing.T) {
	data := encodePNG(t, 200, 100)

	l, err := Decode(data, "wide.png", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, l.Width())
	assert.Equal(t, 25, l.Height())
	assert.True(t, l.Downscaled())
	assert.Equal(t, 200.0, l.Original.Width)
}

func TestDecodeFailure(t *testing.T) {
	_, err := Decode([]byte("not an image"), "junk.png", DefaultMaxWidth)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeTIFF(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, img, nil))

	l, err := Decode(buf.Bytes(), "scan.tif", DefaultMaxWidth)
	require.NoError(t, err)
	assert.Equal(t, "tiff", l.Format)
	assert.Equal(t, 8, l.Width())
	assert.Equal(t, "image/tiff", SniffType(buf.Bytes()))
}

func TestSniffType(t *testing.T) {
	assert.Equal(t, "image/png", SniffType(encodePNG(t, 2, 2)))
	assert.NotContains(t, SniffType([]byte("hello")), "image/")
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("ceph.PNG"))
	assert.True(t, IsSupportedFormat("/tmp/x.tif"))
	assert.False(t, IsSupportedFormat("notes.txt"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 3, 3), 0o644))

	l, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Width())

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"), 0)
	assert.Error(t, err)
}

type memSource map[string][]byte

func (m memSource) Fetch(ctx context.Context, handle string) (string, []byte, error) {
	data, ok := m[handle]
	if !ok {
		return "", nil, errors.New("no such image")
	}
	return handle, data, nil
}

func TestDecodeAsync(t *testing.T) {
	src := memSource{"a": encodePNG(t, 10, 10), "bad": []byte("xx")}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := DecodeAsync(ctx, src, "a", DefaultMaxWidth)
	l, err := f.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, l.Width())
	assert.Equal(t, "a", f.Handle)

	_, err = DecodeAsync(ctx, src, "bad", DefaultMaxWidth).Wait(ctx)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeAsync(ctx, src, "missing", DefaultMaxWidth).Wait(ctx)
	assert.Error(t, err)
}

func TestDecodeAsyncCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := DecodeAsync(ctx, FileSource{}, "whatever.png", DefaultMaxWidth)
	<-f.Done()
	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}
