package arview

// Synthetic touch IDs used by the inject helpers. They are negative so they
// never collide with hardware touch IDs.
const (
	injectTouchA = -10
	injectTouchB = -11
)

// InjectTouches queues one frame in which exactly the given touches are down.
// Screen coordinates are used, identical to hardware input. Queued frames are
// consumed one per Update, ahead of real touches.
func (s *Scene) InjectTouches(points ...TouchPoint) {
	frame := make([]TouchPoint, len(points))
	copy(frame, points)
	s.injectQueue = append(s.injectQueue, frame)
}

// InjectRelease queues a frame with no touches down, ending the contact.
func (s *Scene) InjectRelease() {
	s.injectQueue = append(s.injectQueue, nil)
}

// InjectTap queues a single-finger press at (x, y) followed by a release.
// Consumes two frames.
func (s *Scene) InjectTap(x, y float64) {
	s.InjectTouches(TouchPoint{ID: injectTouchA, X: x, Y: y})
	s.InjectRelease()
}

// InjectDrag queues a one-finger drag: frames touch-down frames linearly
// interpolated from (fromX, fromY) to (toX, toY), then a release. Minimum
// frames is 2 (press + final position).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		s.InjectTouches(TouchPoint{
			ID: injectTouchA,
			X:  fromX + (toX-fromX)*t,
			Y:  fromY + (toY-fromY)*t,
		})
	}
	s.InjectRelease()
}

// InjectPinch queues a two-finger pinch centered on (cx, cy) with the
// fingers on a horizontal line. Finger spacing goes linearly from fromDist to
// toDist over frames touch-down frames, then both lift together. Minimum
// frames is 2.
func (s *Scene) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		half := (fromDist + (toDist-fromDist)*t) / 2
		s.InjectTouches(
			TouchPoint{ID: injectTouchA, X: cx - half, Y: cy},
			TouchPoint{ID: injectTouchB, X: cx + half, Y: cy},
		)
	}
	s.InjectRelease()
}

// PendingInjections returns the number of queued synthetic frames.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}
