// Package filter provides the non-destructive image filter pipeline:
// color adjustment, gamma correction and Sobel sketch mode.
//
// Every call starts again from the unmodified source bitmap, so parameter
// changes never accumulate.
package filter

import (
	"fmt"
	"math"
)

// Parameter ranges.
const (
	MinPercent = 0
	MaxPercent = 200
	MinGamma   = 0.1
	MaxGamma   = 2.5
)

// Params holds the user's filter settings.
type Params struct {
	BrightnessPct float64 `json:"brightness"`
	ContrastPct   float64 `json:"contrast"`
	SaturationPct float64 `json:"saturation"`
	Gamma         float64 `json:"gamma"`
	Sketch        bool    `json:"sketch"`
}

// DefaultParams returns the identity settings.
func DefaultParams() Params {
	return Params{
		BrightnessPct: 100,
		ContrastPct:   100,
		SaturationPct: 100,
		Gamma:         1,
	}
}

// Clamped returns p with every value forced into its range.
func (p Params) Clamped() Params {
	p.BrightnessPct = clampF(p.BrightnessPct, MinPercent, MaxPercent)
	p.ContrastPct = clampF(p.ContrastPct, MinPercent, MaxPercent)
	p.SaturationPct = clampF(p.SaturationPct, MinPercent, MaxPercent)
	if math.IsNaN(p.Gamma) {
		p.Gamma = 1
	}
	p.Gamma = clampF(p.Gamma, MinGamma, MaxGamma)
	return p
}

// ColorIdentity reports whether the color adjust stage would leave pixels alone.
func (p Params) ColorIdentity() bool {
	return p.BrightnessPct == 100 && p.ContrastPct == 100 && p.SaturationPct == 100
}

// Identity reports whether the whole pipeline is a no-op.
func (p Params) Identity() bool {
	return p.ColorIdentity() && p.Gamma == 1 && !p.Sketch
}

func (p Params) String() string {
	return fmt.Sprintf("brightness=%g%% contrast=%g%% saturation=%g%% gamma=%g sketch=%t",
		p.BrightnessPct, p.ContrastPct, p.SaturationPct, p.Gamma, p.Sketch)
}

func clampF(x, min, max float64) float64 {
	if math.IsNaN(x) {
		return min
	}
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// toByte converts a 0-255 value to a byte the way a clamped byte buffer does:
// clamp, then round half to even.
func toByte(v float64) uint8 {
	return uint8(math.RoundToEven(clampF(v, 0, 255)))
}
