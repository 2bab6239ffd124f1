package interact

import "fmt"

// TargetKind distinguishes what a drag holds on to.
type TargetKind int

const (
	CalibrationStart TargetKind = iota
	CalibrationEnd
	PointTarget
)

func (k TargetKind) String() string {
	switch k {
	case CalibrationStart:
		return "CalibrationStart"
	case CalibrationEnd:
		return "CalibrationEnd"
	case PointTarget:
		return "Point"
	default:
		return "Unknown"
	}
}

// Target is a draggable element. Index is meaningful only for PointTarget.
type Target struct {
	Kind  TargetKind
	Index int
}

// Point returns the target for the point at index.
func Point(index int) Target {
	return Target{Kind: PointTarget, Index: index}
}

// Calibration returns the target for one calibration endpoint.
func Calibration(end bool) Target {
	if end {
		return Target{Kind: CalibrationEnd}
	}
	return Target{Kind: CalibrationStart}
}

// IsPoint reports whether the target is a landmark point.
func (t Target) IsPoint() bool { return t.Kind == PointTarget }

func (t Target) String() string {
	if t.Kind == PointTarget {
		return fmt.Sprintf("Point(%d)", t.Index)
	}
	return t.Kind.String()
}

// State is the drag state of the controller.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Dragging:
		return "Dragging"
	default:
		return "Unknown"
	}
}

// Action describes what a pointer event did.
type Action int

const (
	NoAction Action = iota
	PointAdded
	PointMoved
	CalibrationMoved
	DragStarted
	DragEnded
)

func (a Action) String() string {
	switch a {
	case NoAction:
		return "none"
	case PointAdded:
		return "point added"
	case PointMoved:
		return "point moved"
	case CalibrationMoved:
		return "calibration moved"
	case DragStarted:
		return "drag started"
	case DragEnded:
		return "drag ended"
	default:
		return "unknown"
	}
}

// Result reports the outcome of one pointer event.
type Result struct {
	Action Action
	Target Target
}

// Mutated reports whether points or calibration changed, which means
// angles and the scale must be recomputed.
func (r Result) Mutated() bool {
	switch r.Action {
	case PointAdded, PointMoved, CalibrationMoved:
		return true
	}
	return false
}
