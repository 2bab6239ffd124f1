// Package panels provides UI panels for the application.
package panels

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/rs/zerolog"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/gallery"
	"ceph-tracer/ui/canvas"
	"ceph-tracer/ui/prefs"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	canvas    *canvas.ImageCanvas
	container *container.AppTabs

	// Tab content
	galleryPanel   *GalleryPanel
	filtersPanel   *FiltersPanel
	landmarksPanel *LandmarksPanel
	anglesPanel    *AnglesPanel
}

// NewSidePanel creates a new side panel. store may be nil when no gallery
// database is configured.
func NewSidePanel(ctx context.Context, state *app.State, cvs *canvas.ImageCanvas, store *gallery.Store, p *prefs.Prefs, logger zerolog.Logger) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	sp.galleryPanel = NewGalleryPanel(ctx, state, store, p, logger)
	sp.filtersPanel = NewFiltersPanel(state)
	sp.landmarksPanel = NewLandmarksPanel(state)
	sp.anglesPanel = NewAnglesPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Image", sp.galleryPanel.Container()),
		container.NewTabItem("Filters", sp.filtersPanel.Container()),
		container.NewTabItem("Landmarks", sp.landmarksPanel.Container()),
		container.NewTabItem("Angles", sp.anglesPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.galleryPanel.SetWindow(w)
}

// Gallery returns the image tab.
func (sp *SidePanel) Gallery() *GalleryPanel {
	return sp.galleryPanel
}
