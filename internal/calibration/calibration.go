// Package calibration provides the reference segment that fixes the image scale.
package calibration

import (
	"fmt"

	"ceph-tracer/pkg/geometry"
)

// Endpoint labels drawn next to the calibration handles.
const (
	StartLabel = "0"
	EndLabel   = "1cm"
)

// Endpoint identifies one end of the calibration line.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

func (e Endpoint) String() string {
	switch e {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Line is a segment whose on-screen length is declared to be one centimetre.
// Both endpoints are always defined.
type Line struct {
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
}

// DefaultLine returns the session default: (100,100) to (200,100).
func DefaultLine() Line {
	return Line{
		Start: geometry.NewPoint2D(100, 100),
		End:   geometry.NewPoint2D(200, 100),
	}
}

// Scale returns the line length in pixels, i.e. pixels per centimetre.
func (l Line) Scale() float64 {
	return l.Start.Distance(l.End)
}

// Endpoint returns the position of the given end.
func (l Line) Endpoint(e Endpoint) geometry.Point2D {
	if e == End {
		return l.End
	}
	return l.Start
}

// WithEndpoint returns a copy of the line with one end moved.
func (l Line) WithEndpoint(e Endpoint, p geometry.Point2D) Line {
	if e == End {
		l.End = p
	} else {
		l.Start = p
	}
	return l
}

// PixelsToCentimetres converts a pixel distance using the line's scale.
// A zero-length line yields 0.
func (l Line) PixelsToCentimetres(d float64) float64 {
	s := l.Scale()
	if s == 0 {
		return 0
	}
	return d / s
}

// String renders the scale readout, e.g. "1 cm = 100.00 px".
func (l Line) String() string {
	return fmt.Sprintf("1 cm = %.2f px", l.Scale())
}
