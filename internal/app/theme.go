package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"ceph-tracer/pkg/colorutil"
)

// CephTracerTheme tints the default theme with the overlay colours so that
// slider handles and selections match what is drawn on the radiograph.
type CephTracerTheme struct{}

var _ fyne.Theme = (*CephTracerTheme)(nil)

func (t *CephTracerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.Guide
	case theme.ColorNameSelection:
		return colorutil.WithAlpha(colorutil.Landmark, 0x80)
	case theme.ColorNameScrollBar:
		return colorutil.Grey
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *CephTracerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CephTracerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *CephTracerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for easier grabbing
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
