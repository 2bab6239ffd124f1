// Package landmark provides the ordered store of placed landmark points.
//
// Index i of the store always holds the landmark with catalog ordinal i+1.
// The store only grows by appending at the next free ordinal; placed points
// can be moved but never removed individually.
package landmark

import (
	"errors"
	"fmt"

	"ceph-tracer/pkg/geometry"
)

// ErrCapacityExceeded is returned when every landmark has already been placed.
var ErrCapacityExceeded = errors.New("all landmarks are placed")

// ErrIndexOutOfRange is returned when moving a point that was never placed.
var ErrIndexOutOfRange = errors.New("point index out of range")

// Store is the sequence of placed points, capped at the catalog length.
// Store is not safe for concurrent use; the session serializes access.
type Store struct {
	points   []geometry.Point2D
	capacity int
}

// NewStore creates an empty store that accepts up to capacity points.
func NewStore(capacity int) *Store {
	return &Store{
		points:   make([]geometry.Point2D, 0, capacity),
		capacity: capacity,
	}
}

// Len returns the number of placed points.
func (s *Store) Len() int { return len(s.points) }

// Cap returns the maximum number of points.
func (s *Store) Cap() int { return s.capacity }

// Full reports whether every landmark has been placed.
func (s *Store) Full() bool { return len(s.points) >= s.capacity }

// Add appends p as the next landmark and returns its index.
func (s *Store) Add(p geometry.Point2D) (int, error) {
	if s.Full() {
		return 0, ErrCapacityExceeded
	}
	s.points = append(s.points, p)
	return len(s.points) - 1, nil
}

// Move overwrites the point at index. It reports whether the position changed.
func (s *Store) Move(index int, p geometry.Point2D) (bool, error) {
	if index < 0 || index >= len(s.points) {
		return false, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if s.points[index].Equal(p) {
		return false, nil
	}
	s.points[index] = p
	return true, nil
}

// At returns the point at index.
func (s *Store) At(index int) (geometry.Point2D, bool) {
	if index < 0 || index >= len(s.points) {
		return geometry.Point2D{}, false
	}
	return s.points[index], true
}

// Ordinal returns the point placed for the 1-based landmark ordinal.
func (s *Store) Ordinal(ordinal int) (geometry.Point2D, bool) {
	return s.At(ordinal - 1)
}

// Points returns a copy of the placed points.
func (s *Store) Points() []geometry.Point2D {
	out := make([]geometry.Point2D, len(s.points))
	copy(out, s.points)
	return out
}

// Reset removes every placed point.
func (s *Store) Reset() {
	s.points = s.points[:0]
}

// Replace loads a full point list in ordinal order.
// Lists longer than the capacity are rejected without changing the store.
func (s *Store) Replace(points []geometry.Point2D) error {
	if len(points) > s.capacity {
		return fmt.Errorf("%w: %d points for %d landmarks", ErrCapacityExceeded, len(points), s.capacity)
	}
	s.points = append(s.points[:0], points...)
	return nil
}
