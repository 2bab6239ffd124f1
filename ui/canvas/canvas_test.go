package canvas

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceph-tracer/internal/app"
	ceph "ceph-tracer/internal/image"
	"ceph-tracer/internal/landmark"
	"ceph-tracer/pkg/geometry"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	path := filepath.Join(t.TempDir(), "ceph.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func newLoadedCanvas(t *testing.T) (*ImageCanvas, *app.State) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	state := app.NewState(app.Options{Logger: zerolog.Nop()})
	ic := NewImageCanvas(state, zerolog.Nop())
	require.NoError(t, state.LoadImage(context.Background(), ceph.FileSource{}, writePNG(t, 200, 100)))
	return ic, state
}

func press(pos fyne.Position) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: pos},
		Button:     desktop.MouseButtonPrimary,
	}
}

func TestSurfaceFollowsZoom(t *testing.T) {
	ic, _ := newLoadedCanvas(t)

	assert.Equal(t, geometry.NewSize(200, 100), ic.IntrinsicSize())
	assert.Equal(t, geometry.NewSize(200, 100), ic.DisplayedSize())

	ic.SetZoom(2)
	assert.Equal(t, geometry.NewSize(400, 200), ic.DisplayedSize())

	ic.SetZoom(100)
	assert.Equal(t, maxZoom, ic.GetZoom())
}

func TestMouseDownPlacesPointInBitmapSpace(t *testing.T) {
	ic, state := newLoadedCanvas(t)
	ic.SetZoom(2)

	ic.content.MouseDown(press(fyne.NewPos(100, 60)))
	ic.content.MouseUp(press(fyne.NewPos(100, 60)))

	require.Len(t, state.Points(), 1)
	assert.Equal(t, geometry.NewPoint2D(50, 30), state.Points()[0])
}

func TestMouseDragMovesPoint(t *testing.T) {
	ic, state := newLoadedCanvas(t)

	ic.content.MouseDown(press(fyne.NewPos(20, 20)))
	ic.content.MouseUp(press(fyne.NewPos(20, 20)))

	ic.content.MouseDown(press(fyne.NewPos(22, 21)))
	ic.content.MouseMoved(press(fyne.NewPos(40, 50)))
	ic.content.MouseOut()
	ic.content.MouseMoved(press(fyne.NewPos(90, 90)))

	require.Len(t, state.Points(), 1)
	assert.Equal(t, geometry.NewPoint2D(40, 50), state.Points()[0])
}

func TestCapacityErrorReported(t *testing.T) {
	ic, state := newLoadedCanvas(t)

	var got error
	ic.OnError(func(err error) { got = err })

	n := state.Catalog().Len()
	for i := 0; i < n; i++ {
		ic.content.MouseDown(press(fyne.NewPos(float32(5+i*12), 60)))
		ic.content.MouseUp(press(fyne.NewPos(float32(5+i*12), 60)))
	}
	require.NoError(t, got)

	ic.content.MouseDown(press(fyne.NewPos(195, 5)))
	assert.ErrorIs(t, got, landmark.ErrCapacityExceeded)
	assert.Len(t, state.Points(), n)
}

func TestDrawWithoutImage(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)

	ic := NewImageCanvas(app.NewState(app.Options{Logger: zerolog.Nop()}), zerolog.Nop())
	out := ic.draw(4, 3)
	assert.Equal(t, image.Rect(0, 0, 4, 3), out.Bounds())
	assert.Equal(t, color.RGBAModel.Convert(placeholderColor), out.At(1, 1))
}
