package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"ceph-tracer/internal/app"
	"ceph-tracer/internal/filter"
)

// FiltersPanel holds the brightness, contrast, saturation and gamma sliders
// and the sketch toggle.
type FiltersPanel struct {
	state     *app.State
	container fyne.CanvasObject

	brightness *widget.Slider
	contrast   *widget.Slider
	saturation *widget.Slider
	gamma      *widget.Slider
	sketch     *widget.Check
	summary    *widget.Label

	syncing bool
}

// NewFiltersPanel creates a new filters panel.
func NewFiltersPanel(state *app.State) *FiltersPanel {
	fp := &FiltersPanel{state: state}

	fp.summary = widget.NewLabel("")
	fp.summary.Wrapping = fyne.TextWrapWord

	fp.brightness = percentSlider()
	fp.contrast = percentSlider()
	fp.saturation = percentSlider()

	fp.gamma = widget.NewSlider(filter.MinGamma, filter.MaxGamma)
	fp.gamma.Step = 0.05

	fp.sketch = widget.NewCheck("Sketch (edge detection)", nil)

	fp.sync(state.Filters())

	fp.brightness.OnChanged = func(float64) { fp.apply() }
	fp.contrast.OnChanged = func(float64) { fp.apply() }
	fp.saturation.OnChanged = func(float64) { fp.apply() }
	fp.gamma.OnChanged = func(float64) { fp.apply() }
	fp.sketch.OnChanged = func(bool) { fp.apply() }

	resetBtn := widget.NewButton("Reset Filters", func() {
		state.ResetFilters()
	})

	state.On(app.EventFiltersChanged, func(data interface{}) {
		if p, ok := data.(filter.Params); ok {
			fp.sync(p)
		}
	})

	fp.container = container.NewVBox(
		widget.NewCard("Adjustments", "", container.NewVBox(
			widget.NewLabel("Brightness (%):"),
			fp.brightness,
			widget.NewLabel("Contrast (%):"),
			fp.contrast,
			widget.NewLabel("Saturation (%):"),
			fp.saturation,
			widget.NewLabel("Gamma:"),
			fp.gamma,
		)),
		widget.NewCard("Edges", "", fp.sketch),
		fp.summary,
		resetBtn,
	)

	return fp
}

func percentSlider() *widget.Slider {
	s := widget.NewSlider(filter.MinPercent, filter.MaxPercent)
	s.Step = 1
	return s
}

// Container returns the panel container.
func (fp *FiltersPanel) Container() fyne.CanvasObject {
	return fp.container
}

// Params returns the settings shown by the controls.
func (fp *FiltersPanel) Params() filter.Params {
	return filter.Params{
		BrightnessPct: fp.brightness.Value,
		ContrastPct:   fp.contrast.Value,
		SaturationPct: fp.saturation.Value,
		Gamma:         fp.gamma.Value,
		Sketch:        fp.sketch.Checked,
	}
}

func (fp *FiltersPanel) apply() {
	if fp.syncing {
		return
	}
	fp.state.SetFilters(fp.Params())
}

// sync moves the controls to p without feeding the change back.
func (fp *FiltersPanel) sync(p filter.Params) {
	fp.syncing = true
	defer func() { fp.syncing = false }()

	fp.brightness.SetValue(p.BrightnessPct)
	fp.contrast.SetValue(p.ContrastPct)
	fp.saturation.SetValue(p.SaturationPct)
	fp.gamma.SetValue(p.Gamma)
	fp.sketch.SetChecked(p.Sketch)
	fp.summary.SetText(fmt.Sprintf("Current: %s", p))
}
