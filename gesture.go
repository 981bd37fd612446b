package arview

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Default gesture tuning.
const (
	DefaultMinScale        = 0.5
	DefaultMaxScale        = 3.0
	DefaultDragSensitivity = 0.01
)

// TouchPoint is one active touch in viewport coordinates.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// distance returns the euclidean distance between two touches.
func distance(a, b TouchPoint) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// GestureMode is the interpreter's current gesture.
type GestureMode uint8

const (
	GestureIdle     GestureMode = iota // no recognized gesture
	GestureDragging                    // one finger moves the target
	GesturePinching                    // two fingers scale the target
)

// String returns the mode name.
func (m GestureMode) String() string {
	switch m {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GesturePinching:
		return "pinching"
	default:
		return "unknown"
	}
}

// GestureConfig tunes a GestureInterpreter.
type GestureConfig struct {
	// MinScale and MaxScale bound the pinch ratio applied to the baseline scale.
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	// DragSensitivity converts viewport pixels to world units. The y axis is
	// inverted because screen y grows downward while world y grows upward.
	DragSensitivity float64 `yaml:"drag_sensitivity"`
}

// DefaultGestureConfig returns the stock pinch and drag tuning.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		MinScale:        DefaultMinScale,
		MaxScale:        DefaultMaxScale,
		DragSensitivity: DefaultDragSensitivity,
	}
}

// GestureInterpreter turns raw touch lists into scale and position updates
// for one Transformable.
//
// Pinch scale is computed from the baseline captured at pinch start on every
// move, so repeated moves never accumulate drift. Drag position is applied
// incrementally because an open-ended pan has no stable baseline.
//
// Modes change only in TouchStart and TouchEnd. TouchMove never switches
// mode; a move whose touch count does not match the mode is ignored.
type GestureInterpreter struct {
	target Transformable
	cfg    GestureConfig

	mode          GestureMode
	activeTouches []TouchPoint

	// Valid only while Pinching.
	baselineDistance float64
	baselineScale    Vec3

	// Valid only while Dragging.
	lastDragPoint TouchPoint

	initialScale    Vec3
	initialPosition Vec3
}

// NewGestureInterpreter creates an interpreter that controls target. The
// target's current scale and position are remembered for Reset.
func NewGestureInterpreter(target Transformable, cfg GestureConfig) *GestureInterpreter {
	return &GestureInterpreter{
		target:          target,
		cfg:             cfg,
		activeTouches:   make([]TouchPoint, 0, 2),
		initialScale:    target.Scale(),
		initialPosition: target.Position(),
	}
}

// Mode returns the current gesture mode.
func (g *GestureInterpreter) Mode() GestureMode {
	return g.mode
}

// Target returns the controlled transform.
func (g *GestureInterpreter) Target() Transformable {
	return g.target
}

// Config returns the interpreter's tuning.
func (g *GestureInterpreter) Config() GestureConfig {
	return g.cfg
}

// ActiveTouches returns the touches seen by the last event. The returned
// slice MUST NOT be mutated and is only valid until the next event.
func (g *GestureInterpreter) ActiveTouches() []TouchPoint {
	return g.activeTouches
}

// TouchStart is called with the full set of active touches whenever a new
// touch lands. Two touches begin a pinch, one begins a drag, any other count
// leaves the current state untouched.
func (g *GestureInterpreter) TouchStart(points []TouchPoint) {
	g.setTouches(points)

	switch len(points) {
	case 2:
		g.mode = GesturePinching
		g.baselineDistance = distance(points[0], points[1])
		g.baselineScale = g.target.Scale()
	case 1:
		g.mode = GestureDragging
		g.lastDragPoint = points[0]
	}
}

// TouchMove is called with the full set of active touches whenever any of
// them moves.
func (g *GestureInterpreter) TouchMove(points []TouchPoint) {
	g.setTouches(points)
	if len(points) == 0 {
		// Every finger is gone; a later move must not resume the drag.
		g.mode = GestureIdle
		return
	}

	switch {
	case len(points) == 2 && g.mode == GesturePinching:
		f := g.clampScale(g.pinchRatio(points[0], points[1]))
		g.target.SetScale(g.baselineScale.Scale(f))

	case len(points) == 1 && g.mode == GestureDragging:
		p := points[0]
		delta := Vec3{
			X: (p.X - g.lastDragPoint.X) * g.cfg.DragSensitivity,
			Y: -(p.Y - g.lastDragPoint.Y) * g.cfg.DragSensitivity,
		}
		g.target.SetPosition(g.target.Position().Add(delta))
		g.lastDragPoint = p
	}
}

// TouchEnd is called with the touches that remain after one lifts. With
// fewer than two remaining the interpreter returns to Idle; a lone finger
// left on the screen must start a fresh drag with TouchStart.
func (g *GestureInterpreter) TouchEnd(points []TouchPoint) {
	g.setTouches(points)
	if len(points) < 2 {
		g.mode = GestureIdle
	}
}

// Cancel drops any gesture in progress without touching the target.
func (g *GestureInterpreter) Cancel() {
	g.activeTouches = g.activeTouches[:0]
	g.mode = GestureIdle
}

// Reset cancels any gesture and restores the target's initial scale and position.
func (g *GestureInterpreter) Reset() {
	g.Cancel()
	g.target.SetScale(g.initialScale)
	g.target.SetPosition(g.initialPosition)
}

// ResetAnimated cancels any gesture and tweens a node target back to its
// initial scale and position. Returns nil if the target is not a *Node.
// Call Update on both groups each frame until Done.
func (g *GestureInterpreter) ResetAnimated(duration float32, fn ease.TweenFunc) (scale, position *TweenGroup) {
	n, ok := g.target.(*Node)
	if !ok {
		return nil, nil
	}
	g.Cancel()
	return TweenScale(n, g.initialScale, duration, fn), TweenPosition(n, g.initialPosition, duration, fn)
}

// pinchRatio returns current/baseline distance. A zero or non-finite
// baseline yields 1 so a degenerate pinch leaves the scale unchanged.
func (g *GestureInterpreter) pinchRatio(a, b TouchPoint) float64 {
	if !(g.baselineDistance > 0) || math.IsInf(g.baselineDistance, 0) {
		return 1
	}
	r := distance(a, b) / g.baselineDistance
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

func (g *GestureInterpreter) clampScale(f float64) float64 {
	return math.Max(g.cfg.MinScale, math.Min(g.cfg.MaxScale, f))
}

// setTouches copies points into the reusable activeTouches buffer.
func (g *GestureInterpreter) setTouches(points []TouchPoint) {
	g.activeTouches = append(g.activeTouches[:0], points...)
}
