// Package app provides the measurement session: points, calibration, filters
// and the current image, with events for the UI.
package app

import (
	"context"
	"errors"
	"fmt"
	goimage "image"
	"sync"

	"github.com/rs/zerolog"

	"ceph-tracer/internal/angle"
	"ceph-tracer/internal/calibration"
	"ceph-tracer/internal/catalog"
	"ceph-tracer/internal/filter"
	"ceph-tracer/internal/image"
	"ceph-tracer/internal/interact"
	"ceph-tracer/internal/landmark"
	"ceph-tracer/pkg/geometry"
)

// ErrStale is returned by Selection.Wait when a newer selection replaced it
// before its decode finished.
var ErrStale = errors.New("image selection superseded")

// ErrNoImage is returned by operations that need a decoded image.
var ErrNoImage = errors.New("no image selected")

// EventType identifies different session events.
type EventType int

const (
	EventImageLoading EventType = iota
	EventImageLoaded
	EventDecodeFailed
	EventPointsChanged
	EventCalibrationChanged
	EventFiltersChanged
	EventCapacityExceeded
	EventDragChanged
)

func (e EventType) String() string {
	switch e {
	case EventImageLoading:
		return "ImageLoading"
	case EventImageLoaded:
		return "ImageLoaded"
	case EventDecodeFailed:
		return "DecodeFailed"
	case EventPointsChanged:
		return "PointsChanged"
	case EventCalibrationChanged:
		return "CalibrationChanged"
	case EventFiltersChanged:
		return "FiltersChanged"
	case EventCapacityExceeded:
		return "CapacityExceeded"
	case EventDragChanged:
		return "DragChanged"
	default:
		return "Unknown"
	}
}

// EventListener is called when an event occurs. Listeners run on the
// goroutine that caused the event, which for image decodes is a background
// goroutine.
type EventListener func(data interface{})

type event struct {
	kind EventType
	data interface{}
}

// Options configures a new State.
type Options struct {
	Catalog     *catalog.Catalog
	Calibration calibration.Line // zero value selects calibration.DefaultLine
	HitRadius   float64
	MaxWidth    int
	Logger      zerolog.Logger
}

// State is one measurement session. All methods are safe for concurrent use.
type State struct {
	mu sync.RWMutex

	catalog     *catalog.Catalog
	engine      *angle.Engine
	store       *landmark.Store
	line        calibration.Line
	defaultLine calibration.Line
	ctrl        *interact.Controller
	maxWidth    int
	logger      zerolog.Logger

	// Image
	source   image.Source
	handle   string
	layer    *image.Layer
	filters  filter.Params
	filtered *goimage.NRGBA

	// Derived
	angles []angle.Angle

	// Decode bookkeeping
	generation uint64
	cancel     context.CancelFunc

	listeners map[EventType][]EventListener
}

// NewState creates a session with no image, no points and the default
// calibration line.
func NewState(opts Options) *State {
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	line := opts.Calibration
	if line == (calibration.Line{}) {
		line = calibration.DefaultLine()
	}
	maxWidth := opts.MaxWidth
	if maxWidth == 0 {
		maxWidth = image.DefaultMaxWidth
	}

	s := &State{
		catalog:     cat,
		engine:      angle.NewEngine(cat),
		store:       landmark.NewStore(cat.Len()),
		line:        line,
		defaultLine: line,
		maxWidth:    maxWidth,
		logger:      opts.Logger,
		filters:     filter.DefaultParams(),
		listeners:   make(map[EventType][]EventListener),
	}
	s.ctrl = interact.NewController(s.store, &s.line, opts.HitRadius)
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

func (s *State) emitAll(events []event) {
	for _, e := range events {
		s.Emit(e.kind, e.data)
	}
}

// Catalog returns the session catalog.
func (s *State) Catalog() *catalog.Catalog {
	return s.catalog
}

// recompute refreshes derived angles. Caller holds the write lock.
func (s *State) recompute() {
	s.angles = s.engine.Compute(s.store.Points())
}

// Points returns a copy of the placed points.
func (s *State) Points() []geometry.Point2D {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Points()
}

// Angles returns the angles measured from the current points.
func (s *State) Angles() []angle.Angle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]angle.Angle, len(s.angles))
	copy(out, s.angles)
	return out
}

// Calibration returns the calibration line.
func (s *State) Calibration() calibration.Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.line
}

// Scale returns pixels per centimetre from the calibration line.
func (s *State) Scale() float64 {
	return s.Calibration().Scale()
}

// Layer returns the current image, or nil before the first decode.
func (s *State) Layer() *image.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layer
}

// Handle returns the handle of the current image.
func (s *State) Handle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handle
}

// Drag returns the controller's drag state.
func (s *State) Drag() (interact.State, interact.Target) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl.State()
}

// HitRadius returns the pointer pick distance in bitmap pixels.
func (s *State) HitRadius() float64 {
	return s.ctrl.HitRadius()
}

// SetPoints replaces every placed point, e.g. with points given on the command line.
func (s *State) SetPoints(points []geometry.Point2D) error {
	s.mu.Lock()
	if err := s.store.Replace(points); err != nil {
		s.mu.Unlock()
		return err
	}
	s.ctrl.Cancel()
	s.recompute()
	s.mu.Unlock()

	s.Emit(EventPointsChanged, len(points))
	return nil
}

// ResetPoints removes every placed point. Calibration and filters are kept.
func (s *State) ResetPoints() {
	s.mu.Lock()
	s.store.Reset()
	s.ctrl.Cancel()
	s.recompute()
	s.mu.Unlock()

	s.logger.Debug().Msg("points reset")
	s.Emit(EventPointsChanged, 0)
}

// SetCalibration moves both calibration endpoints.
func (s *State) SetCalibration(line calibration.Line) {
	s.mu.Lock()
	s.line = line
	s.mu.Unlock()
	s.Emit(EventCalibrationChanged, line)
}

// PointerDown handles a press at a screen position on surface.
func (s *State) PointerDown(screen geometry.Point2D, surface interact.Surface) error {
	s.mu.Lock()
	res, err := s.ctrl.PointerDown(screen, surface)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, landmark.ErrCapacityExceeded) {
			s.Emit(EventCapacityExceeded, err)
		}
		return err
	}
	events := s.apply(res)
	s.mu.Unlock()

	s.emitAll(events)
	return nil
}

// PointerMove handles pointer motion; it only has an effect while dragging.
func (s *State) PointerMove(screen geometry.Point2D, surface interact.Surface) error {
	s.mu.Lock()
	res, err := s.ctrl.PointerMove(screen, surface)
	if err != nil {
		s.mu.Unlock()
		s.Emit(EventDragChanged, interact.Result{Action: interact.DragEnded})
		return err
	}
	events := s.apply(res)
	s.mu.Unlock()

	s.emitAll(events)
	return nil
}

// PointerUp ends a drag.
func (s *State) PointerUp() {
	s.mu.Lock()
	events := s.apply(s.ctrl.PointerUp())
	s.mu.Unlock()
	s.emitAll(events)
}

// PointerLeave ends a drag when the pointer leaves the surface.
func (s *State) PointerLeave() {
	s.mu.Lock()
	events := s.apply(s.ctrl.PointerLeave())
	s.mu.Unlock()
	s.emitAll(events)
}

// apply turns a controller result into events. Caller holds the write lock.
func (s *State) apply(res interact.Result) []event {
	switch res.Action {
	case interact.PointAdded, interact.PointMoved:
		s.recompute()
		if res.Action == interact.PointAdded {
			s.logger.Debug().
				Int("ordinal", catalog.IndexToOrdinal(res.Target.Index)).
				Str("landmark", s.catalog.Label(res.Target.Index)).
				Msg("point placed")
		}
		return []event{{EventPointsChanged, s.store.Len()}}
	case interact.CalibrationMoved:
		return []event{{EventCalibrationChanged, s.line}}
	case interact.DragStarted, interact.DragEnded:
		return []event{{EventDragChanged, res}}
	}
	return nil
}

// Filters returns the current filter settings.
func (s *State) Filters() filter.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters changes the filter settings. Values are clamped to range.
func (s *State) SetFilters(p filter.Params) {
	p = p.Clamped()
	s.mu.Lock()
	if p == s.filters {
		s.mu.Unlock()
		return
	}
	s.filters = p
	s.filtered = nil
	s.mu.Unlock()
	s.Emit(EventFiltersChanged, p)
}

// ResetFilters restores the identity filter settings.
func (s *State) ResetFilters() {
	s.SetFilters(filter.DefaultParams())
}

// Filtered returns the current image run through the filter pipeline. The
// result is recomputed from the unmodified image whenever the image or the
// filters change, and shared until then; callers must not modify it.
func (s *State) Filtered() (*goimage.NRGBA, error) {
	s.mu.RLock()
	if s.filtered != nil {
		out := s.filtered
		s.mu.RUnlock()
		return out, nil
	}
	layer, params := s.layer, s.filters
	s.mu.RUnlock()

	if layer == nil {
		return nil, ErrNoImage
	}
	out := filter.Apply(layer.Image, params)

	s.mu.Lock()
	if s.layer == layer && s.filters == params {
		s.filtered = out
	}
	s.mu.Unlock()
	return out, nil
}

// Selection is a pending image selection.
type Selection struct {
	Generation uint64
	Handle     string

	done chan struct{}
	err  error
}

// Wait blocks until the selection was applied, discarded as stale, or
// failed to decode.
func (sel *Selection) Wait(ctx context.Context) error {
	select {
	case <-sel.done:
		return sel.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the selection has been resolved.
func (sel *Selection) Done() <-chan struct{} {
	return sel.done
}

// SelectImage starts decoding handle from src. Any earlier selection still
// decoding is cancelled and its result discarded.
//
// When the decode succeeds and src or handle differs from the current image,
// points and calibration are reset; re-selecting the current image keeps them.
// src must be comparable.
// Filters always carry over. A failed decode leaves the session untouched.
func (s *State) SelectImage(ctx context.Context, src image.Source, handle string) *Selection {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	s.cancel = cancel
	maxWidth := s.maxWidth
	s.mu.Unlock()

	s.logger.Info().Str("handle", handle).Uint64("generation", gen).Msg("decoding image")
	s.Emit(EventImageLoading, handle)

	sel := &Selection{Generation: gen, Handle: handle, done: make(chan struct{})}
	future := image.DecodeAsync(ctx, src, handle, maxWidth)
	go func() {
		defer close(sel.done)
		defer cancel()
		<-future.Done()
		layer, err := future.Wait(context.Background())
		sel.err = s.resolve(gen, src, handle, layer, err)
	}()
	return sel
}

// resolve applies a finished decode unless a newer selection exists.
func (s *State) resolve(gen uint64, src image.Source, handle string, layer *image.Layer, err error) error {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug().Str("handle", handle).Uint64("generation", gen).Msg("discarding stale decode")
		return ErrStale
	}
	s.cancel = nil

	if err != nil {
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("handle", handle).Msg("image decode failed")
		s.Emit(EventDecodeFailed, err)
		return err
	}

	changed := handle != s.handle || src != s.source
	s.source = src
	s.handle = handle
	s.layer = layer
	s.filtered = nil
	if changed {
		s.store.Reset()
		s.line = s.defaultLine
		s.ctrl.Cancel()
		s.recompute()
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("handle", handle).
		Str("format", layer.Format).
		Int("width", layer.Width()).
		Int("height", layer.Height()).
		Bool("reset", changed).
		Msg("image loaded")

	s.Emit(EventImageLoaded, layer)
	if changed {
		s.Emit(EventPointsChanged, 0)
		s.Emit(EventCalibrationChanged, s.Calibration())
	}
	return nil
}

// LoadImage selects handle and waits for the decode to finish.
func (s *State) LoadImage(ctx context.Context, src image.Source, handle string) error {
	if err := s.SelectImage(ctx, src, handle).Wait(ctx); err != nil {
		return fmt.Errorf("failed to load %s: %w", handle, err)
	}
	return nil
}
