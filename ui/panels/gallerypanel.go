package panels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/gallery"
	cephimage "ceph-tracer/internal/image"
	"ceph-tracer/ui/prefs"
)

// GalleryPanel lists stored images and selects one for measurement.
type GalleryPanel struct {
	ctx       context.Context
	state     *app.State
	store     *gallery.Store
	prefs     *prefs.Prefs
	logger    zerolog.Logger
	window    fyne.Window
	container fyne.CanvasObject

	items    []gallery.Summary
	selected int

	list       *widget.List
	imageLabel *widget.Label
	deleteBtn  *widget.Button
}

// NewGalleryPanel creates a new gallery panel.
func NewGalleryPanel(ctx context.Context, state *app.State, store *gallery.Store, p *prefs.Prefs, logger zerolog.Logger) *GalleryPanel {
	gp := &GalleryPanel{
		ctx:      ctx,
		state:    state,
		store:    store,
		prefs:    p,
		logger:   logger,
		selected: -1,
	}

	gp.imageLabel = widget.NewLabel("No image selected")
	gp.imageLabel.Wrapping = fyne.TextWrapWord

	gp.list = widget.NewList(
		func() int {
			return len(gp.items)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("image.png")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(gp.items) {
				obj.(*widget.Label).SetText(describe(gp.items[id]))
			}
		},
	)
	gp.list.OnSelected = func(id widget.ListItemID) {
		if id >= len(gp.items) {
			return
		}
		gp.selected = id
		gp.deleteBtn.Enable()
		gp.state.SelectImage(gp.ctx, gp.store, gallery.Handle(gp.items[id].ID))
	}
	gp.list.OnUnselected = func(widget.ListItemID) {
		gp.selected = -1
		gp.deleteBtn.Disable()
	}

	uploadBtn := widget.NewButton("Upload...", gp.UploadFile)
	openBtn := widget.NewButton("Open File...", gp.OpenFile)
	gp.deleteBtn = widget.NewButton("Delete", gp.onDelete)
	gp.deleteBtn.Disable()

	state.On(app.EventImageLoaded, func(data interface{}) {
		if layer, ok := data.(*cephimage.Layer); ok {
			gp.imageLabel.SetText(layerInfo(layer))
		}
	})

	if store == nil {
		uploadBtn.Disable()
		gp.container = container.NewVBox(
			widget.NewCard("Current Image", "", gp.imageLabel),
			widget.NewLabel("Gallery unavailable"),
			openBtn,
		)
		return gp
	}

	gp.Reload()
	gp.container = container.NewBorder(
		container.NewVBox(
			widget.NewCard("Current Image", "", gp.imageLabel),
			container.NewHBox(uploadBtn, openBtn, gp.deleteBtn),
		),
		nil, nil, nil,
		gp.list,
	)
	return gp
}

// Container returns the panel container.
func (gp *GalleryPanel) Container() fyne.CanvasObject {
	return gp.container
}

// SetWindow sets the parent window for dialogs.
func (gp *GalleryPanel) SetWindow(w fyne.Window) {
	gp.window = w
}

// Reload refreshes the list from the store.
func (gp *GalleryPanel) Reload() {
	if gp.store == nil {
		return
	}
	items, err := gp.store.List(gp.ctx)
	if err != nil {
		gp.logger.Error().Err(err).Msg("failed to list gallery")
		gp.showError(err)
		return
	}
	gp.items = items
	gp.list.UnselectAll()
	gp.list.Refresh()
}

func describe(s gallery.Summary) string {
	return fmt.Sprintf("%s (%s, %s, %s)", s.Name, s.Type, humanize.Bytes(uint64(s.Size)), humanize.Time(s.Date))
}

func layerInfo(l *cephimage.Layer) string {
	text := fmt.Sprintf("%s\n%dx%d pixels", l.Name, l.Width(), l.Height())
	if l.Downscaled() {
		text += fmt.Sprintf(" (from %.0fx%.0f)", l.Original.Width, l.Original.Height)
	}
	if l.DPI > 0 {
		text += fmt.Sprintf("\nDPI: %.0f", l.DPI)
	}
	return text
}

// Upload stores data in the gallery and selects it.
func (gp *GalleryPanel) Upload(name string, data []byte) error {
	if gp.store == nil {
		return errors.New("gallery unavailable")
	}
	rec, err := gp.store.Add(gp.ctx, name, cephimage.SniffType(data), data)
	if err != nil {
		return err
	}
	gp.Reload()
	for i, item := range gp.items {
		if item.ID == rec.ID {
			gp.list.Select(i)
			break
		}
	}
	return nil
}

// UploadFile asks for an image file and uploads it to the gallery.
func (gp *GalleryPanel) UploadFile() {
	if gp.store == nil {
		gp.showError(errors.New("gallery unavailable"))
		return
	}
	gp.openDialog(func(path string, data []byte) {
		if err := gp.Upload(filepath.Base(path), data); err != nil {
			gp.showError(err)
		}
	})
}

// OpenFile asks for an image file and measures it without storing it.
func (gp *GalleryPanel) OpenFile() {
	gp.openDialog(func(path string, _ []byte) {
		gp.list.UnselectAll()
		gp.state.SelectImage(gp.ctx, cephimage.FileSource{}, path)
	})
}

func (gp *GalleryPanel) openDialog(onRead func(path string, data []byte)) {
	if gp.window == nil {
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		gp.prefs.SetLastDir(path)

		data, err := io.ReadAll(reader)
		if err != nil {
			gp.showError(err)
			return
		}
		onRead(path, data)
	}, gp.window)

	fd.SetFilter(storage.NewExtensionFileFilter(cephimage.SupportedFormats()))
	if loc := gp.prefs.LastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (gp *GalleryPanel) onDelete() {
	if gp.selected < 0 || gp.selected >= len(gp.items) {
		return
	}
	item := gp.items[gp.selected]
	confirm := func(ok bool) {
		if !ok {
			return
		}
		if err := gp.store.Delete(gp.ctx, item.ID); err != nil {
			gp.showError(err)
		}
		gp.Reload()
	}
	if gp.window == nil {
		confirm(true)
		return
	}
	dialog.ShowConfirm("Delete Image", fmt.Sprintf("Delete %s from the gallery?", item.Name), confirm, gp.window)
}

func (gp *GalleryPanel) showError(err error) {
	if gp.window != nil {
		dialog.ShowError(err, gp.window)
	}
}
