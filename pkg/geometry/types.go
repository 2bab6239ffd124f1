// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point2D represents a 2D point in bitmap pixel coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Vec returns the point as a gonum vector.
func (p Point2D) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// FromVec converts a gonum vector to a Point2D.
func FromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.Vec(), other.Vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return FromVec(r2.Add(p.Vec(), other.Vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return FromVec(r2.Sub(p.Vec(), other.Vec()))
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return FromVec(r2.Scale(factor, p.Vec()))
}

// Heading returns the direction of the vector from p to other, in radians,
// measured with atan2(dy, dx).
func (p Point2D) Heading(other Point2D) float64 {
	d := r2.Sub(other.Vec(), p.Vec())
	return math.Atan2(d.Y, d.X)
}

// Equal reports whether two points have identical coordinates.
func (p Point2D) Equal(other Point2D) bool {
	return p.X == other.X && p.Y == other.Y
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize creates a new Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// MapPoint rescales a point from one coordinate space to another, per axis:
// out = p * to / from. A degenerate source size returns p unchanged.
func MapPoint(p Point2D, from, to Size) Point2D {
	if from.Empty() {
		return p
	}
	return Point2D{
		X: p.X * to.Width / from.Width,
		Y: p.Y * to.Height / from.Height,
	}
}

// FitWidth returns a size no wider than maxWidth, preserving aspect ratio.
// Sizes already within the limit, or a non-positive limit, are returned as is.
func FitWidth(s Size, maxWidth float64) Size {
	if maxWidth <= 0 || s.Width <= maxWidth || s.Empty() {
		return s
	}
	ratio := maxWidth / s.Width
	return Size{Width: maxWidth, Height: math.Round(s.Height * ratio)}
}
