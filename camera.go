package arview

import "math"

const (
	defaultFieldOfView = math.Pi / 3 // vertical, radians
	defaultNearPlane   = 0.05
)

// Camera is a pinhole camera looking down -Z from Position. The AR tracker
// moves the camera (or the anchor node) each frame; the viewer only needs
// it to project surfaces to the screen and to hit-test touches.
type Camera struct {
	// Position is the camera's world-space origin.
	Position Vec3
	// FieldOfView is the vertical field of view in radians.
	FieldOfView float64
	// Near is the closest depth that is still projected.
	Near float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect
}

// newCamera creates a Camera with default values and the given viewport.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		FieldOfView: defaultFieldOfView,
		Near:        defaultNearPlane,
		Viewport:    viewport,
	}
}

// focalLength returns the projection scale in pixels at unit depth.
func (c *Camera) focalLength() float64 {
	return (c.Viewport.Height / 2) / math.Tan(c.FieldOfView/2)
}

// Project converts a world-space point to screen coordinates. ok is false
// when the point is behind the near plane.
func (c *Camera) Project(p Vec3) (sx, sy float64, ok bool) {
	rel := p.Sub(c.Position)
	depth := -rel.Z
	if depth < c.Near {
		return 0, 0, false
	}
	f := c.focalLength()
	sx = c.Viewport.X + c.Viewport.Width/2 + rel.X*f/depth
	sy = c.Viewport.Y + c.Viewport.Height/2 - rel.Y*f/depth
	return sx, sy, true
}

// projectSurface projects a node's surface corners. ok is false if any
// corner is behind the near plane.
func (c *Camera) projectSurface(n *Node) (quad [4]Vec2, ok bool) {
	corners := n.worldCorners()
	for i, w := range corners {
		x, y, visible := c.Project(w)
		if !visible {
			return quad, false
		}
		quad[i] = Vec2{x, y}
	}
	return quad, true
}

// quadContains reports whether (x, y) lies inside a convex quad using a
// cross-product sign test. Either winding order is accepted.
func quadContains(q [4]Vec2, x, y float64) bool {
	var positive, negative bool
	for i := 0; i < len(q); i++ {
		x1, y1 := q[i].X, q[i].Y
		j := (i + 1) % len(q)
		x2, y2 := q[j].X, q[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}
