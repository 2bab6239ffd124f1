// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/gallery"
	"ceph-tracer/internal/landmark"
	"ceph-tracer/internal/render"
	"ceph-tracer/internal/version"
	"ceph-tracer/ui/canvas"
	"ceph-tracer/ui/panels"
	"ceph-tracer/ui/prefs"
)

const capacityMessage = "All landmarks are placed; drag a point to adjust it."

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	ctx       context.Context
	state     *app.State
	prefs     *prefs.Prefs
	logger    zerolog.Logger
	canvas    *canvas.ImageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	store     *gallery.Store

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
	guidesItem      *fyne.MenuItem
}

// New creates a new main window. store may be nil.
func New(ctx context.Context, fyneApp fyne.App, state *app.State, store *gallery.Store, p *prefs.Prefs, logger zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow("Ceph Tracer")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		ctx:    ctx,
		state:  state,
		prefs:  p,
		logger: logger,
		store:  store,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreView()

	mw.SetCloseIntercept(func() {
		mw.savePrefs()
		mw.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas(mw.state, mw.logger)
	mw.canvas.OnError(mw.onPointerError)

	mw.sidePanel = panels.NewSidePanel(mw.ctx, mw.state, mw.canvas, mw.store, mw.prefs, mw.logger)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Select or upload an image")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,               // top
		nil,                   // bottom
		nil,                   // left
		nil,                   // right
		mw.canvas.Container(), // center
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.3)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.sidePanel.Gallery().OpenFile),
		fyne.NewMenuItem("Upload to Gallery...", mw.sidePanel.Gallery().UploadFile),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Image...", mw.onExportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.savePrefs()
			mw.app.Quit()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Reset Points", mw.state.ResetPoints),
		fyne.NewMenuItem("Reset Filters", mw.state.ResetFilters),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("Fit to Window", mw.onToggleFitToWindow)
	mw.guidesItem = fyne.NewMenuItem("Angle Guides", mw.onToggleGuides)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		mw.guidesItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoading, func(data interface{}) {
		mw.updateStatus("Loading image...")
	})

	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		if mw.canvas.GetFitToWindow() {
			mw.canvas.FitToWindow()
		}
		mw.updateStatus(mw.summary())
	})

	mw.state.On(app.EventDecodeFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Image could not be loaded")
			dialog.ShowError(err, mw.Window)
		}
	})

	update := func(interface{}) { mw.updateStatus(mw.summary()) }
	mw.state.On(app.EventPointsChanged, update)
	mw.state.On(app.EventCalibrationChanged, update)
}

func (mw *MainWindow) summary() string {
	return fmt.Sprintf("%d/%d landmarks | %s | zoom %.0f%%",
		len(mw.state.Points()), mw.state.Catalog().Len(), mw.state.Calibration(), mw.canvas.GetZoom()*100)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onPointerError(err error) {
	if errors.Is(err, landmark.ErrCapacityExceeded) {
		dialog.ShowInformation("Landmarks", capacityMessage, mw.Window)
		return
	}
	mw.updateStatus(err.Error())
}

// restoreView applies the saved view preferences.
func (mw *MainWindow) restoreView() {
	mw.canvas.SetZoom(mw.prefs.FloatWithFallback(prefs.KeyZoom, 1.0))
	if mw.prefs.Bool(prefs.KeyFitToWindow, false) {
		mw.setFitToWindow(true)
	}
	mw.setGuides(mw.prefs.Bool(prefs.KeyShowGuides, true))
}

func (mw *MainWindow) savePrefs() {
	mw.prefs.SetFloat(prefs.KeyZoom, mw.canvas.GetZoom())
	mw.prefs.SetBool(prefs.KeyFitToWindow, mw.canvas.GetFitToWindow())
	mw.prefs.SetBool(prefs.KeyShowGuides, mw.guidesItem.Checked)
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Warn().Err(err).Str("path", mw.prefs.Path()).Msg("failed to save preferences")
	}
}

// onExportImage writes the image exactly as shown, overlays included.
func (mw *MainWindow) onExportImage() {
	if mw.state.Layer() == nil {
		dialog.ShowError(app.ErrNoImage, mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		mw.prefs.SetLastDir(writer.URI().Path())

		base, err := mw.state.Filtered()
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if err := png.Encode(writer, render.Compose(base, mw.canvas.Scene())); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("tracing.png")
	if loc := mw.prefs.LastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onZoomIn() {
	mw.setFitToWindow(false)
	mw.canvas.ZoomIn()
	mw.updateStatus(mw.summary())
}

func (mw *MainWindow) onZoomOut() {
	mw.setFitToWindow(false)
	mw.canvas.ZoomOut()
	mw.updateStatus(mw.summary())
}

func (mw *MainWindow) onToggleFitToWindow() {
	mw.setFitToWindow(!mw.canvas.GetFitToWindow())
}

func (mw *MainWindow) setFitToWindow(enabled bool) {
	if mw.canvas.GetFitToWindow() != enabled {
		mw.canvas.SetFitToWindow(enabled)
	}
	mw.fitToWindowItem.Checked = enabled
	mw.refreshMenu()
}

func (mw *MainWindow) onActualSize() {
	mw.setFitToWindow(false)
	mw.canvas.SetZoom(1.0)
	mw.updateStatus(mw.summary())
}

func (mw *MainWindow) onToggleGuides() {
	mw.setGuides(!mw.guidesItem.Checked)
}

func (mw *MainWindow) setGuides(visible bool) {
	mw.guidesItem.Checked = visible
	mw.canvas.SetGuidesVisible(visible)
	mw.refreshMenu()
}

func (mw *MainWindow) refreshMenu() {
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Ceph Tracer",
		fmt.Sprintf("%s\n\n"+
			"Cephalometric landmark tracing and angle measurement.",
			version.String()),
		mw.Window)
}
