package arview

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector in screen (viewport) space.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector used for world positions and per-axis scale.
// It is a value type: assigning a Vec3 replaces all three components at once.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Scale returns v with every component multiplied by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// whitePixel is a 1x1 white image used for solid fills. Created lazily so
// that packages importing arview do not allocate GPU resources at init.
var whitePixel *ebiten.Image

func solidImage() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}

// EventType identifies a kind of viewer event.
type EventType uint8

const (
	EventPhaseChange  EventType = iota // bootstrap entered a new phase
	EventGestureStart                  // a gesture interpreter left Idle
	EventGesture                       // a gesture interpreter updated its target transform
	EventGestureEnd                    // a gesture interpreter returned to Idle
	EventTap                           // a single touch was pressed and released without moving
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "phase-change"
	case EventGestureStart:
		return "gesture-start"
	case EventGesture:
		return "gesture"
	case EventGestureEnd:
		return "gesture-end"
	case EventTap:
		return "tap"
	default:
		return "unknown"
	}
}
