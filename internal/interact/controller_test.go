package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceph-tracer/internal/calibration"
	"ceph-tracer/internal/landmark"
	"ceph-tracer/pkg/geometry"
)

type fakeSurface struct {
	intrinsic, displayed geometry.Size
}

func (f fakeSurface) IntrinsicSize() geometry.Size { return f.intrinsic }
func (f fakeSurface) DisplayedSize() geometry.Size { return f.displayed }

var unscaled = fakeSurface{intrinsic: geometry.NewSize(800, 600), displayed: geometry.NewSize(800, 600)}

func newController(capacity int) (*Controller, *landmark.Store, *calibration.Line) {
	store := landmark.NewStore(capacity)
	line := calibration.DefaultLine()
	return NewController(store, &line, 0), store, &line
}

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestPointerDownAddsPoint(t *testing.T) {
	c, store, _ := newController(3)

	res, err := c.PointerDown(pt(400, 300), unscaled)
	require.NoError(t, err)
	assert.Equal(t, PointAdded, res.Action)
	assert.Equal(t, Point(0), res.Target)
	assert.True(t, res.Mutated())

	state, _ := c.State()
	assert.Equal(t, Idle, state)
	assert.Equal(t, 1, store.Len())
}

func TestPointerDownScalesToBitmap(t *testing.T) {
	c, store, _ := newController(3)
	half := fakeSurface{intrinsic: geometry.NewSize(800, 600), displayed: geometry.NewSize(400, 300)}

	_, err := c.PointerDown(pt(200, 150), half)
	require.NoError(t, err)
	p, _ := store.At(0)
	assert.Equal(t, pt(400, 300), p)
}

func TestHitPriorityCalibrationFirst(t *testing.T) {
	c, store, _ := newController(3)
	_, err := store.Add(pt(102, 100))
	require.NoError(t, err)

	res, err := c.PointerDown(pt(101, 100), unscaled)
	require.NoError(t, err)
	assert.Equal(t, DragStarted, res.Action)
	assert.Equal(t, Calibration(false), res.Target)
	assert.False(t, res.Mutated())

	state, target := c.State()
	assert.Equal(t, Dragging, state)
	assert.Equal(t, CalibrationStart, target.Kind)
}

func TestHitPriorityLowestPointIndex(t *testing.T) {
	c, store, _ := newController(3)
	_, _ = store.Add(pt(300, 300))
	_, _ = store.Add(pt(302, 300))

	target, ok := c.HitTest(pt(301, 300))
	require.True(t, ok)
	assert.Equal(t, Point(0), target)
}

func TestHitRadiusIsStrict(t *testing.T) {
	c, _, _ := newController(1)

	_, ok := c.HitTest(pt(110, 100))
	assert.False(t, ok)
	target, ok := c.HitTest(pt(109.9, 100))
	assert.True(t, ok)
	assert.Equal(t, CalibrationStart, target.Kind)

	target, ok = c.HitTest(pt(200, 95))
	assert.True(t, ok)
	assert.Equal(t, CalibrationEnd, target.Kind)
}

func TestCapacityExceeded(t *testing.T) {
	c, store, _ := newController(1)
	_, err := c.PointerDown(pt(400, 400), unscaled)
	require.NoError(t, err)

	res, err := c.PointerDown(pt(500, 500), unscaled)
	assert.ErrorIs(t, err, landmark.ErrCapacityExceeded)
	assert.Equal(t, NoAction, res.Action)
	assert.Equal(t, 1, store.Len())
	state, _ := c.State()
	assert.Equal(t, Idle, state)
}

func TestDragPoint(t *testing.T) {
	c, store, _ := newController(2)
	_, _ = store.Add(pt(400, 400))

	_, err := c.PointerDown(pt(405, 400), unscaled)
	require.NoError(t, err)

	res, err := c.PointerMove(pt(450, 420), unscaled)
	require.NoError(t, err)
	assert.Equal(t, PointMoved, res.Action)
	p, _ := store.At(0)
	assert.Equal(t, pt(450, 420), p)

	// Same position again is a no-op.
	res, err = c.PointerMove(pt(450, 420), unscaled)
	require.NoError(t, err)
	assert.Equal(t, NoAction, res.Action)
	assert.False(t, res.Mutated())

	res = c.PointerUp()
	assert.Equal(t, DragEnded, res.Action)
	assert.Equal(t, Point(0), res.Target)

	// Moves after release do nothing.
	res, err = c.PointerMove(pt(10, 10), unscaled)
	require.NoError(t, err)
	assert.Equal(t, NoAction, res.Action)
	p, _ = store.At(0)
	assert.Equal(t, pt(450, 420), p)
}

func TestDragCalibration(t *testing.T) {
	c, _, line := newController(2)

	_, err := c.PointerDown(pt(200, 100), unscaled)
	require.NoError(t, err)
	res, err := c.PointerMove(pt(100, 200), unscaled)
	require.NoError(t, err)
	assert.Equal(t, CalibrationMoved, res.Action)
	assert.Equal(t, pt(100, 200), line.End)
	assert.Equal(t, 100.0, line.Scale())

	res = c.PointerLeave()
	assert.Equal(t, DragEnded, res.Action)
	assert.Equal(t, NoAction, c.PointerLeave().Action)
}

func TestDragAfterResetReturnsToIdle(t *testing.T) {
	c, store, _ := newController(2)
	_, _ = store.Add(pt(400, 400))
	_, err := c.PointerDown(pt(400, 400), unscaled)
	require.NoError(t, err)

	store.Reset()
	_, err = c.PointerMove(pt(410, 400), unscaled)
	assert.ErrorIs(t, err, landmark.ErrIndexOutOfRange)
	state, _ := c.State()
	assert.Equal(t, Idle, state)
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "Point(3)", Point(3).String())
	assert.Equal(t, "CalibrationEnd", Calibration(true).String())
	assert.True(t, Point(0).IsPoint())
	assert.False(t, Calibration(false).IsPoint())
}
