package arview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxTouches     = 10  // slot 0 = mouse, 1-9 = touch
	mouseTouchID   = -1  // TouchPoint.ID reported for the left mouse button
	defaultTapSlop = 4.0 // pixels a touch may travel and still count as a tap
)

// --- Per-contact state ---

// touchState tracks one contact: the span from the first finger down to the
// last finger up.
type touchState struct {
	prev     []TouchPoint
	captured *gestureBinding
	tapStart TouchPoint
	tapValid bool
}

// GestureContext carries gesture event data.
type GestureContext struct {
	Type        EventType
	Node        *Node
	Interpreter *GestureInterpreter
	Mode        GestureMode
	PrevMode    GestureMode
	Scale       Vec3
	Position    Vec3
}

// --- Handler registry ---

type phaseHandler struct {
	id uint32
	fn func(Transition)
}

type gestureHandler struct {
	id uint32
	fn func(GestureContext)
}

type tapHandler struct {
	id uint32
	fn func(TapContext)
}

type handlerRegistry struct {
	phase   []phaseHandler
	gesture []gestureHandler
	tap     []tapHandler
	nextID  uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPhaseChange:
		h.reg.phase = removeHandler(h.reg.phase, h.id, func(p phaseHandler) uint32 { return p.id })
	case EventGesture:
		h.reg.gesture = removeHandler(h.reg.gesture, h.id, func(g gestureHandler) uint32 { return g.id })
	case EventTap:
		h.reg.tap = removeHandler(h.reg.tap, h.id, func(t tapHandler) uint32 { return t.id })
	}
}

func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			var zero T
			copy(s[i:], s[i+1:])
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Scene-level event registration ---

// OnPhaseChange registers a callback for bootstrap transitions.
func (s *Scene) OnPhaseChange(fn func(Transition)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.phase = append(s.handlers.phase, phaseHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPhaseChange}
}

// OnGesture registers a callback for gesture start, update and end events.
// GestureContext.Type tells them apart.
func (s *Scene) OnGesture(fn func(GestureContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.gesture = append(s.handlers.gesture, gestureHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventGesture}
}

// OnTap registers a scene-level callback for taps. Node is nil when the tap
// hit no interactable surface.
func (s *Scene) OnTap(fn func(TapContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.tap = append(s.handlers.tap, tapHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventTap}
}

// --- Hit testing ---

// hitTest finds the topmost gesture binding whose projected surface contains
// (x, y). Bindings added later are on top.
func (s *Scene) hitTest(x, y float64) *gestureBinding {
	for i := len(s.bindings) - 1; i >= 0; i-- {
		b := s.bindings[i]
		n := b.node
		if n.disposed || !n.Visible || !n.Interactable {
			continue
		}
		quad, ok := s.camera.projectSurface(n)
		if ok && quadContains(quad, x, y) {
			return b
		}
	}
	return nil
}

// --- Input processing ---

// processInput is called from Scene.Update to handle touch input. Injected
// frames take priority over the hardware.
func (s *Scene) processInput() {
	if len(s.injectQueue) > 0 {
		frame := s.injectQueue[0]
		s.injectQueue[0] = nil
		s.injectQueue = s.injectQueue[1:]
		s.processTouches(frame)
		return
	}
	s.processTouches(s.pollTouches())
}

// pollTouches reads active touches ordered by slot, so the first finger down
// stays first. The left mouse button acts as a single touch.
func (s *Scene) pollTouches() []TouchPoint {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var slots [maxTouches]*TouchPoint
	var buf [maxTouches]TouchPoint
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		tx, ty := ebiten.TouchPosition(tid)
		buf[slot] = TouchPoint{ID: int(tid), X: float64(tx), Y: float64(ty)}
		slots[slot] = &buf[slot]
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxTouches; i++ {
		if s.touchUsed[i] && slots[i] == nil {
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}

	if len(touchIDs) == 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		buf[0] = TouchPoint{ID: mouseTouchID, X: float64(mx), Y: float64(my)}
		slots[0] = &buf[0]
	}

	var points []TouchPoint
	for _, p := range slots {
		if p != nil {
			points = append(points, *p)
		}
	}
	return points
}

// touchSlot maps an ebiten.TouchID to a slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxTouches; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxTouches; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processTouches diffs this frame's touches against the previous frame's and
// feeds the captured interpreter start, move and end calls. Ends are applied
// before starts so that a finger swap within one frame rebaselines cleanly.
func (s *Scene) processTouches(cur []TouchPoint) {
	prev := s.touch.prev
	if len(prev) == 0 && len(cur) > 0 {
		s.beginContact(cur)
	}

	ended := hasMissing(prev, cur)
	started := hasMissing(cur, prev)
	moved := !ended && !started && len(cur) > 0 && touchesMoved(prev, cur)

	if b := s.touch.captured; b != nil {
		before := b.interp.Mode()
		if ended {
			b.interp.TouchEnd(retained(cur, prev))
		}
		if started {
			b.interp.TouchStart(cur)
		}
		if moved {
			b.interp.TouchMove(cur)
		}
		s.gestureEvents(b, before, moved)
	}

	s.trackTap(cur)

	if len(cur) == 0 && len(prev) > 0 {
		s.endContact(prev)
	}
	s.touch.prev = append(s.touch.prev[:0], cur...)
}

// beginContact decides which surface owns the new contact. Touches are routed
// to gesture interpreters only while the session is ready and no overlay is
// covering the scene.
func (s *Scene) beginContact(cur []TouchPoint) {
	s.touch.captured = nil
	s.touch.tapStart = cur[0]
	s.touch.tapValid = len(cur) == 1
	if !s.inputLive() || s.Instructions.Visible {
		return
	}
	s.touch.captured = s.hitTest(cur[0].X, cur[0].Y)
	if s.touch.captured != nil {
		s.log.Debugf("contact captured by %q", s.touch.captured.node.Name)
	}
}

// trackTap invalidates the tap candidate once a second finger lands or the
// first finger travels past the slop radius.
func (s *Scene) trackTap(cur []TouchPoint) {
	if !s.touch.tapValid {
		return
	}
	if len(cur) > 1 {
		s.touch.tapValid = false
		return
	}
	if len(cur) == 1 {
		if cur[0].ID != s.touch.tapStart.ID || distance(cur[0], s.touch.tapStart) > defaultTapSlop {
			s.touch.tapValid = false
		}
	}
}

// endContact fires a tap if the contact qualified and releases the capture.
func (s *Scene) endContact(prev []TouchPoint) {
	captured := s.touch.captured
	s.touch.captured = nil
	if !s.touch.tapValid {
		return
	}
	s.touch.tapValid = false
	s.fireTap(captured, prev[0].X, prev[0].Y)
}

// fireTap dispatches a tap. While the session has failed a tap retries it;
// while instructions are showing a tap dismisses them.
func (s *Scene) fireTap(b *gestureBinding, x, y float64) {
	if s.bootstrap != nil && s.bootstrap.Phase() == PhaseFailed {
		if s.bootstrap.Retry() {
			s.log.Debugf("tap retry")
		}
		return
	}
	if s.Instructions.Visible {
		s.Instructions.Visible = false
		return
	}
	if !s.inputLive() {
		return
	}

	ctx := TapContext{X: x, Y: y}
	ev := ViewerEvent{Type: EventTap, X: x, Y: y}
	if b != nil {
		ctx.Node = b.node
		ctx.UserData = b.node.UserData
		ev.NodeID = b.node.ID
		ev.NodeName = b.node.Name
		if b.node.OnTap != nil {
			b.node.OnTap(ctx)
		}
	}
	for _, h := range s.handlers.tap {
		h.fn(ctx)
	}
	s.emit(ev)
}

// gestureEvents reports mode changes and transform updates of b.
func (s *Scene) gestureEvents(b *gestureBinding, before GestureMode, moved bool) {
	after := b.interp.Mode()
	switch {
	case before == GestureIdle && after != GestureIdle:
		s.dispatchGesture(EventGestureStart, b, before, after)
	case before != GestureIdle && after == GestureIdle:
		s.dispatchGesture(EventGestureEnd, b, before, after)
	case before != after:
		// Drag to pinch or back: one gesture ends and the next begins.
		s.dispatchGesture(EventGestureEnd, b, before, GestureIdle)
		s.dispatchGesture(EventGestureStart, b, GestureIdle, after)
	case moved && after != GestureIdle:
		s.dispatchGesture(EventGesture, b, before, after)
	}
}

func (s *Scene) dispatchGesture(t EventType, b *gestureBinding, prev, mode GestureMode) {
	ctx := GestureContext{
		Type:        t,
		Node:        b.node,
		Interpreter: b.interp,
		Mode:        mode,
		PrevMode:    prev,
		Scale:       b.node.Scale(),
		Position:    b.node.Position(),
	}
	if t != EventGesture {
		s.log.Debugf("%s %s on %q", t, mode, b.node.Name)
	}
	for _, h := range s.handlers.gesture {
		h.fn(ctx)
	}
	s.emit(ViewerEvent{
		Type:     t,
		NodeID:   b.node.ID,
		NodeName: b.node.Name,
		Mode:     mode,
		PrevMode: prev,
		Scale:    ctx.Scale,
		Position: ctx.Position,
	})
}

// --- Touch set helpers ---

// hasMissing reports whether a contains a touch ID that b does not.
func hasMissing(a, b []TouchPoint) bool {
	for _, p := range a {
		if !containsID(b, p.ID) {
			return true
		}
	}
	return false
}

func containsID(points []TouchPoint, id int) bool {
	for _, p := range points {
		if p.ID == id {
			return true
		}
	}
	return false
}

// retained returns the touches of cur that were already down last frame.
func retained(cur, prev []TouchPoint) []TouchPoint {
	var out []TouchPoint
	for _, p := range cur {
		if containsID(prev, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// touchesMoved reports whether any touch changed position. Both slices hold
// the same IDs.
func touchesMoved(prev, cur []TouchPoint) bool {
	for _, c := range cur {
		for _, p := range prev {
			if p.ID == c.ID && (p.X != c.X || p.Y != c.Y) {
				return true
			}
		}
	}
	return false
}
