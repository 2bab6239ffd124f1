// Package interact provides the pointer controller that places and drags
// landmark points and calibration endpoints.
//
// Pointer positions arrive in screen coordinates of the displayed image and
// are mapped to bitmap coordinates before hit-testing:
//
//	bitmap = screen * intrinsic / displayed
//
// Hit-testing checks the calibration start, the calibration end and then the
// points in ascending order; the first element strictly closer than the hit
// radius wins.
package interact

import (
	"ceph-tracer/internal/calibration"
	"ceph-tracer/internal/landmark"
	"ceph-tracer/pkg/geometry"
)

// DefaultHitRadius is the pick distance in bitmap pixels.
const DefaultHitRadius = 10.0

// Surface reports how the bitmap is currently presented.
type Surface interface {
	IntrinsicSize() geometry.Size
	DisplayedSize() geometry.Size
}

// Controller is the drag state machine. It mutates the point store and the
// calibration line it was created with. It is not safe for concurrent use.
type Controller struct {
	store     *landmark.Store
	line      *calibration.Line
	hitRadius float64

	state  State
	target Target
}

// NewController creates an idle controller. A non-positive radius selects
// DefaultHitRadius.
func NewController(store *landmark.Store, line *calibration.Line, hitRadius float64) *Controller {
	if hitRadius <= 0 {
		hitRadius = DefaultHitRadius
	}
	return &Controller{store: store, line: line, hitRadius: hitRadius}
}

// State returns the current drag state and, when dragging, its target.
func (c *Controller) State() (State, Target) {
	return c.state, c.target
}

// HitRadius returns the pick distance.
func (c *Controller) HitRadius() float64 { return c.hitRadius }

// ToBitmap maps a screen position to bitmap coordinates.
func ToBitmap(screen geometry.Point2D, s Surface) geometry.Point2D {
	return geometry.MapPoint(screen, s.DisplayedSize(), s.IntrinsicSize())
}

// HitTest returns the element under p, a bitmap position.
func (c *Controller) HitTest(p geometry.Point2D) (Target, bool) {
	if p.Distance(c.line.Start) < c.hitRadius {
		return Calibration(false), true
	}
	if p.Distance(c.line.End) < c.hitRadius {
		return Calibration(true), true
	}
	for i, pt := range c.store.Points() {
		if p.Distance(pt) < c.hitRadius {
			return Point(i), true
		}
	}
	return Target{}, false
}

// PointerDown starts a drag on the element under the pointer, or places the
// next landmark when nothing is hit. With every landmark placed it returns
// landmark.ErrCapacityExceeded and stays idle.
func (c *Controller) PointerDown(screen geometry.Point2D, s Surface) (Result, error) {
	p := ToBitmap(screen, s)
	if t, ok := c.HitTest(p); ok {
		c.state = Dragging
		c.target = t
		return Result{Action: DragStarted, Target: t}, nil
	}

	c.state = Idle
	idx, err := c.store.Add(p)
	if err != nil {
		return Result{}, err
	}
	return Result{Action: PointAdded, Target: Point(idx)}, nil
}

// PointerMove moves the dragged element to the pointer. It does nothing
// when idle or when the position is unchanged.
func (c *Controller) PointerMove(screen geometry.Point2D, s Surface) (Result, error) {
	if c.state != Dragging {
		return Result{}, nil
	}
	p := ToBitmap(screen, s)

	switch c.target.Kind {
	case CalibrationStart, CalibrationEnd:
		end := calibration.Start
		if c.target.Kind == CalibrationEnd {
			end = calibration.End
		}
		if c.line.Endpoint(end).Equal(p) {
			return Result{Target: c.target}, nil
		}
		*c.line = c.line.WithEndpoint(end, p)
		return Result{Action: CalibrationMoved, Target: c.target}, nil
	default:
		changed, err := c.store.Move(c.target.Index, p)
		if err != nil {
			// The store was reset under the drag.
			c.state = Idle
			return Result{}, err
		}
		if !changed {
			return Result{Target: c.target}, nil
		}
		return Result{Action: PointMoved, Target: c.target}, nil
	}
}

// PointerUp ends any drag.
func (c *Controller) PointerUp() Result {
	if c.state != Dragging {
		return Result{}
	}
	t := c.target
	c.state = Idle
	c.target = Target{}
	return Result{Action: DragEnded, Target: t}
}

// PointerLeave behaves like PointerUp.
func (c *Controller) PointerLeave() Result {
	return c.PointerUp()
}

// Cancel drops any drag without reporting it, used when the state under the
// controller is replaced.
func (c *Controller) Cancel() {
	c.state = Idle
	c.target = Target{}
}
