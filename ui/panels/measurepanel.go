package panels

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"ceph-tracer/internal/angle"
	"ceph-tracer/internal/app"
	"ceph-tracer/internal/catalog"
)

// LandmarksPanel lists every landmark with its placement status.
type LandmarksPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list   *widget.List
	status *widget.Label
	placed int
}

// NewLandmarksPanel creates a new landmarks panel.
func NewLandmarksPanel(state *app.State) *LandmarksPanel {
	lp := &LandmarksPanel{state: state}
	cat := state.Catalog()

	lp.status = widget.NewLabel("")
	lp.list = widget.NewList(
		func() int {
			return cat.Len()
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("00. Landmark")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < cat.Len() {
				obj.(*widget.Label).SetText(LandmarkLine(cat, cat.Landmarks[id], id < lp.placed))
			}
		},
	)

	resetBtn := widget.NewButton("Reset Points", func() {
		state.ResetPoints()
	})

	state.On(app.EventPointsChanged, func(interface{}) { lp.refresh() })
	lp.refresh()

	lp.container = container.NewBorder(
		container.NewVBox(lp.status, resetBtn),
		nil, nil, nil,
		lp.list,
	)
	return lp
}

// Container returns the panel container.
func (lp *LandmarksPanel) Container() fyne.CanvasObject {
	return lp.container
}

func (lp *LandmarksPanel) refresh() {
	cat := lp.state.Catalog()
	lp.placed = len(lp.state.Points())
	if lp.placed < cat.Len() {
		next := cat.Landmarks[lp.placed]
		lp.status.SetText(fmt.Sprintf("%d of %d placed. Next: %s (%s)", lp.placed, cat.Len(), next.Name, next.Description))
	} else {
		lp.status.SetText(fmt.Sprintf("All %d landmarks placed", cat.Len()))
	}
	lp.list.Refresh()
}

// LandmarkLine renders one landmark row: ordinal, name, description, a
// placed marker and the angles that use it.
func LandmarkLine(cat *catalog.Catalog, l catalog.Landmark, placed bool) string {
	mark := "○"
	if placed {
		mark = "●"
	}
	line := fmt.Sprintf("%s %2d. %s - %s", mark, l.Ordinal, l.Name, l.Description)
	if used := cat.Usage(l.Ordinal); len(used) > 0 {
		line += " [" + strings.Join(used, ", ") + "]"
	}
	return line
}

// AnglesPanel shows the measured angles and the calibration scale.
type AnglesPanel struct {
	state     *app.State
	container fyne.CanvasObject

	angles []angle.Angle
	list   *widget.List
	scale  *widget.Label
}

// NewAnglesPanel creates a new angles panel.
func NewAnglesPanel(state *app.State) *AnglesPanel {
	ap := &AnglesPanel{state: state}

	ap.scale = widget.NewLabel(state.Calibration().String())
	ap.list = widget.NewList(
		func() int {
			return len(ap.angles)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Angle: 000.0°")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ap.angles) {
				obj.(*widget.Label).SetText(AngleLine(ap.angles[id]))
			}
		},
	)

	state.On(app.EventPointsChanged, func(interface{}) {
		ap.angles = state.Angles()
		ap.list.Refresh()
	})
	state.On(app.EventCalibrationChanged, func(interface{}) {
		ap.scale.SetText(state.Calibration().String())
	})

	ap.container = container.NewBorder(
		widget.NewCard("Scale", "", ap.scale),
		nil, nil, nil,
		ap.list,
	)
	return ap
}

// Container returns the panel container.
func (ap *AnglesPanel) Container() fyne.CanvasObject {
	return ap.container
}

// AngleLine renders a measured angle, e.g. "Kąt SNA: 84.0° (norm 82±2, +2.0)".
func AngleLine(a angle.Angle) string {
	line := fmt.Sprintf("%s: %.1f°", a.Name, a.Value)
	if a.Norm != nil && a.Deviation != nil {
		line += fmt.Sprintf(" (norm %s, %+.1f)", a.Norm, *a.Deviation)
		if !a.WithinNorm() {
			line += " !"
		}
	}
	return line
}
