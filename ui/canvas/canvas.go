// Package canvas provides the measurement canvas: the filtered image with
// calibration, landmark and angle overlays, zoom, and pointer input.
package canvas

import (
	"errors"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/interact"
	"ceph-tracer/internal/render"
	"ceph-tracer/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

var placeholderColor = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}

// ImageCanvas displays the session image and turns mouse input into
// pointer events on the session.
type ImageCanvas struct {
	widget.BaseWidget

	state  *app.State
	logger zerolog.Logger

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Container
	scroll  *zoomScroll
	content *pointerContent
	imgSize fyne.Size // Current image display size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	hideGuides bool

	// Last rendered output
	lastOutput *image.RGBA

	// Callbacks
	onZoomChange func(zoom float64)
	onError      func(err error)
}

var _ interact.Surface = (*ImageCanvas)(nil)

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pointerContent wraps the raster and forwards mouse input to the session.
// It must not implement fyne.Draggable: motion with the button held has to
// arrive through MouseMoved.
type pointerContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

var (
	_ desktop.Mouseable = (*pointerContent)(nil)
	_ desktop.Hoverable = (*pointerContent)(nil)
)

func newPointerContent(ic *ImageCanvas, raster *fynecanvas.Raster) *pointerContent {
	pc := &pointerContent{
		canvas: ic,
		raster: raster,
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *pointerContent) CreateRenderer() fyne.WidgetRenderer {
	return &pointerContentRenderer{content: pc}
}

func (pc *pointerContent) MinSize() fyne.Size {
	return pc.raster.MinSize()
}

// screenPoint converts an event position to a point on the displayed image.
func (pc *pointerContent) screenPoint(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
}

// MouseDown places a point or starts a drag.
func (pc *pointerContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || pc.canvas.state.Layer() == nil {
		return
	}
	if err := pc.canvas.state.PointerDown(pc.screenPoint(ev.Position), pc.canvas); err != nil {
		pc.canvas.reportError(err)
	}
}

// MouseUp ends a drag.
func (pc *pointerContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pc.canvas.state.PointerUp()
}

func (pc *pointerContent) MouseIn(*desktop.MouseEvent) {}

// MouseMoved drags the held element, if any.
func (pc *pointerContent) MouseMoved(ev *desktop.MouseEvent) {
	if err := pc.canvas.state.PointerMove(pc.screenPoint(ev.Position), pc.canvas); err != nil {
		pc.canvas.reportError(err)
	}
}

// MouseOut ends a drag when the pointer leaves the image.
func (pc *pointerContent) MouseOut() {
	pc.canvas.state.PointerLeave()
}

func (pc *pointerContent) Scrolled(ev *fyne.ScrollEvent) {
	// Use mouse wheel for zooming
	if ev.Scrolled.DY > 0 {
		pc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		pc.canvas.ZoomOut()
	}
}

type pointerContentRenderer struct {
	content *pointerContent
}

func (r *pointerContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *pointerContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *pointerContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *pointerContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *pointerContentRenderer) Destroy() {}

// NewImageCanvas creates a canvas bound to state. It refreshes itself on
// every session event that changes what is drawn.
func NewImageCanvas(state *app.State, logger zerolog.Logger) *ImageCanvas {
	ic := &ImageCanvas{
		state:   state,
		logger:  logger,
		zoom:    1.0,
		imgSize: fyne.NewSize(400, 300),
	}

	// Create the raster for drawing
	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newPointerContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)

	refresh := func(interface{}) { ic.Refresh() }
	state.On(app.EventImageLoaded, func(interface{}) { ic.updateContentSize() })
	state.On(app.EventPointsChanged, refresh)
	state.On(app.EventCalibrationChanged, refresh)
	state.On(app.EventFiltersChanged, refresh)
	return ic
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// IntrinsicSize returns the working bitmap size.
func (ic *ImageCanvas) IntrinsicSize() geometry.Size {
	if layer := ic.state.Layer(); layer != nil {
		return layer.Size()
	}
	return geometry.Size{}
}

// DisplayedSize returns the on-screen size of the bitmap.
func (ic *ImageCanvas) DisplayedSize() geometry.Size {
	return geometry.NewSize(float64(ic.imgSize.Width), float64(ic.imgSize.Height))
}

// SetGuidesVisible shows or hides the angle guide lines.
func (ic *ImageCanvas) SetGuidesVisible(visible bool) {
	ic.hideGuides = !visible
	ic.Refresh()
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ic.zoom = zoom
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ic *ImageCanvas) GetZoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the image in the visible area.
func (ic *ImageCanvas) FitToWindow() {
	size := ic.IntrinsicSize()
	if size.Empty() {
		return
	}

	viewSize := ic.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / size.Width
	zoomY := float64(viewSize.Height) / size.Height

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}

	ic.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// GetFitToWindow returns the current fit-to-window state.
func (ic *ImageCanvas) GetFitToWindow() bool {
	return ic.fitToWindow
}

// CheckResize checks if scroll container was resized and auto-fits if enabled.
func (ic *ImageCanvas) CheckResize(size fyne.Size) {
	if !ic.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ic.lastScrollSize {
		ic.lastScrollSize = size
		ic.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// OnError sets a callback for pointer errors, e.g. placing a point when
// every landmark is already placed.
func (ic *ImageCanvas) OnError(callback func(err error)) {
	ic.onError = callback
}

func (ic *ImageCanvas) reportError(err error) {
	ic.logger.Debug().Err(err).Msg("pointer input rejected")
	if ic.onError != nil {
		ic.onError(err)
	}
}

// GetRenderedOutput returns the last rendered canvas output.
func (ic *ImageCanvas) GetRenderedOutput() *image.RGBA {
	return ic.lastOutput
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

// updateContentSize updates the content size based on image and zoom.
func (ic *ImageCanvas) updateContentSize() {
	size := ic.IntrinsicSize()
	if size.Empty() {
		ic.imgSize = fyne.NewSize(400, 300)
	} else {
		ic.imgSize = fyne.NewSize(float32(size.Width*ic.zoom), float32(size.Height*ic.zoom))
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// Scene returns the overlays for the current session state.
func (ic *ImageCanvas) Scene() render.Scene {
	points := ic.state.Points()
	return render.Scene{
		Calibration: ic.state.Calibration(),
		Points:      points,
		Labels:      render.Labels(ic.state.Catalog(), len(points)),
		Angles:      ic.state.Angles(),
		HideGuides:  ic.hideGuides,
	}
}

// draw is the raster drawing function. The result is composed at bitmap
// resolution and scaled to the displayed size by the raster.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	currentSize := fyne.NewSize(float32(w), float32(h))
	if ic.fitToWindow && currentSize != ic.lastScrollSize && w > 0 && h > 0 {
		ic.lastScrollSize = currentSize
		go ic.FitToWindow()
	}

	base, err := ic.state.Filtered()
	if err != nil {
		if !errors.Is(err, app.ErrNoImage) {
			ic.logger.Error().Err(err).Msg("filter failed")
		}
		out := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
		draw.Draw(out, out.Bounds(), image.NewUniform(placeholderColor), image.Point{}, draw.Src)
		return out
	}

	output := render.Compose(base, ic.Scene())
	ic.lastOutput = output
	return output
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *imageCanvasRenderer) Destroy() {}
