package arview

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func gestureScene() (*Scene, *Node) {
	s := newTestScene()
	n := addVideo(s)
	s.EnableGestures(n, DefaultGestureConfig())
	return s, n
}

func TestInputDragMovesSurface(t *testing.T) {
	s, n := gestureScene()
	s.InjectDrag(400, 300, 450, 280, 3)
	step(s, 4)

	assertVec3(t, "position", n.Position(), Vec3{0.5, 0.2, -2})
	if got := s.Gestures(n).Mode(); got != GestureIdle {
		t.Errorf("mode after release = %v", got)
	}
}

func TestInputPinchScalesSurface(t *testing.T) {
	s, n := gestureScene()
	s.InjectPinch(400, 300, 100, 200, 3)
	step(s, 4)

	assertVec3(t, "scale", n.Scale(), Vec3{2, 2, 2})
	assertVec3(t, "position", n.Position(), Vec3{0, 0, -2})
}

func TestInputPinchClamped(t *testing.T) {
	s, n := gestureScene()
	s.InjectPinch(400, 300, 50, 400, 2)
	step(s, 3)
	assertVec3(t, "scale", n.Scale(), Vec3{DefaultMaxScale, DefaultMaxScale, DefaultMaxScale})
}

func TestInputMissIgnored(t *testing.T) {
	s, n := gestureScene()
	s.InjectDrag(10, 10, 100, 100, 3)
	step(s, 4)
	assertVec3(t, "position", n.Position(), Vec3{0, 0, -2})
}

func TestInputContactStaysCaptured(t *testing.T) {
	s, n := gestureScene()
	// Ends well outside the surface; the whole contact belongs to it.
	s.InjectDrag(400, 300, 790, 300, 2)
	step(s, 3)
	assertNear(t, "x", n.Position().X, 3.9)
}

func TestInputTopmostBindingWins(t *testing.T) {
	s, back := gestureScene()
	front := NewSurface("front", nil, 1, 1)
	front.SetPosition(Vec3{0, 0, -1.5})
	s.Root().AddChild(front)
	s.EnableGestures(front, DefaultGestureConfig())

	s.InjectDrag(400, 300, 410, 300, 2)
	step(s, 3)

	assertNear(t, "front x", front.Position().X, 0.1)
	assertNear(t, "back x", back.Position().X, 0)
}

func TestInputNonInteractableSkipped(t *testing.T) {
	s, n := gestureScene()
	n.Interactable = false
	s.InjectDrag(400, 300, 450, 300, 2)
	step(s, 3)
	assertNear(t, "x", n.Position().X, 0)
}

func TestInputFingerSwapInOneFrame(t *testing.T) {
	s, n := gestureScene()
	s.InjectTouches(TouchPoint{ID: 1, X: 400, Y: 300})
	// Finger 1 lifts and finger 2 lands far away in the same frame.
	s.InjectTouches(TouchPoint{ID: 2, X: 500, Y: 300})
	s.InjectTouches(TouchPoint{ID: 2, X: 510, Y: 300})
	s.InjectRelease()
	step(s, 4)

	// Only the 10px move of finger 2 counts; the swap itself is no jump.
	assertNear(t, "x", n.Position().X, 0.1)
}

func TestInputSecondFingerSwitchesToPinch(t *testing.T) {
	s, n := gestureScene()
	s.InjectTouches(TouchPoint{ID: 1, X: 350, Y: 300})
	s.InjectTouches(TouchPoint{ID: 1, X: 350, Y: 300}, TouchPoint{ID: 2, X: 450, Y: 300})
	s.InjectTouches(TouchPoint{ID: 1, X: 325, Y: 300}, TouchPoint{ID: 2, X: 475, Y: 300})
	step(s, 3)

	if got := s.Gestures(n).Mode(); got != GesturePinching {
		t.Fatalf("mode = %v, want pinching", got)
	}
	assertNear(t, "scale", n.Scale().X, 1.5)
}

func TestInputGatedUntilReady(t *testing.T) {
	s, n := gestureScene()
	b := attachBootstrap(s, supportedProbe, nil)
	b.Start()
	step(s, 2)
	if b.Phase() != PhaseAwaitingScene {
		t.Fatalf("phase = %v", b.Phase())
	}

	s.InjectDrag(400, 300, 450, 300, 2)
	step(s, 3)
	assertNear(t, "x while loading", n.Position().X, 0)

	b.NotifySceneReady()
	step(s, 1)
	if b.Phase() != PhaseReady {
		t.Fatalf("phase = %v", b.Phase())
	}
	s.InjectDrag(400, 300, 450, 300, 2)
	step(s, 3)
	assertNear(t, "x when ready", n.Position().X, 0.5)
}

func TestInputPhaseChangeCancelsGesture(t *testing.T) {
	s, n := gestureScene()
	var flag SceneFlag
	b := attachBootstrap(s, supportedProbe, &flag)
	b.Start()
	flag.Set()
	step(s, 2)
	if b.Phase() != PhaseReady {
		t.Fatalf("phase = %v", b.Phase())
	}

	s.InjectTouches(TouchPoint{ID: 1, X: 400, Y: 300})
	step(s, 1)
	if s.Gestures(n).Mode() != GestureDragging {
		t.Fatal("expected drag in progress")
	}

	b.transition(PhaseAwaitingScene, nil)
	if s.Gestures(n).Mode() != GestureIdle || s.touch.captured != nil {
		t.Error("phase change should cancel the captured gesture")
	}
}

func TestInputGestureEvents(t *testing.T) {
	s, n := gestureScene()
	var got []GestureContext
	s.OnGesture(func(ctx GestureContext) { got = append(got, ctx) })

	s.InjectDrag(400, 300, 420, 300, 3)
	step(s, 4)

	want := []EventType{EventGestureStart, EventGesture, EventGesture, EventGestureEnd}
	if len(got) != len(want) {
		t.Fatalf("events = %d, want %d", len(got), len(want))
	}
	for i, ctx := range got {
		if ctx.Type != want[i] {
			t.Errorf("event %d = %v, want %v", i, ctx.Type, want[i])
		}
		if ctx.Node != n {
			t.Errorf("event %d node = %v", i, ctx.Node)
		}
	}
	if got[0].Mode != GestureDragging || got[3].PrevMode != GestureDragging {
		t.Errorf("modes: start %v, end prev %v", got[0].Mode, got[3].PrevMode)
	}
	assertNear(t, "end position", got[3].Position.X, 0.2)
}

func TestInputModeSwitchEndsAndStarts(t *testing.T) {
	s, _ := gestureScene()
	var got []EventType
	s.OnGesture(func(ctx GestureContext) { got = append(got, ctx.Type) })

	s.InjectTouches(TouchPoint{ID: 1, X: 400, Y: 300})
	s.InjectTouches(TouchPoint{ID: 1, X: 400, Y: 300}, TouchPoint{ID: 2, X: 450, Y: 300})
	step(s, 2)

	want := []EventType{EventGestureStart, EventGestureEnd, EventGestureStart}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInputTapOnSurface(t *testing.T) {
	s, n := gestureScene()
	n.UserData = "video"
	var nodeTaps int
	n.OnTap = func(ctx TapContext) { nodeTaps++ }
	var sceneTap TapContext
	s.OnTap(func(ctx TapContext) { sceneTap = ctx })

	s.InjectTap(400, 300)
	step(s, 2)

	if nodeTaps != 1 {
		t.Errorf("node taps = %d", nodeTaps)
	}
	if sceneTap.Node != n || sceneTap.UserData != "video" {
		t.Errorf("scene tap = %+v", sceneTap)
	}
	if sceneTap.X != 400 || sceneTap.Y != 300 {
		t.Errorf("tap position = %v,%v", sceneTap.X, sceneTap.Y)
	}
}

func TestInputTapOnEmptySpace(t *testing.T) {
	s, _ := gestureScene()
	called := false
	var tapped *Node
	s.OnTap(func(ctx TapContext) { called = true; tapped = ctx.Node })

	s.InjectTap(20, 20)
	step(s, 2)

	if !called || tapped != nil {
		t.Errorf("called=%v node=%v, want empty-space tap", called, tapped)
	}
}

func TestInputTapSlop(t *testing.T) {
	s, _ := gestureScene()
	taps := 0
	s.OnTap(func(TapContext) { taps++ })

	s.InjectDrag(400, 300, 403, 300, 2)
	step(s, 3)
	if taps != 1 {
		t.Errorf("taps within slop = %d, want 1", taps)
	}

	s.InjectDrag(400, 300, 410, 300, 2)
	step(s, 3)
	if taps != 1 {
		t.Errorf("drag past slop should not tap, taps = %d", taps)
	}

	s.InjectPinch(400, 300, 10, 10, 2)
	step(s, 3)
	if taps != 1 {
		t.Errorf("two fingers should not tap, taps = %d", taps)
	}
}

func TestInputTapRetriesFailedSession(t *testing.T) {
	s, _ := gestureScene()
	b := attachBootstrap(s, unsupportedProbe, nil)
	taps := 0
	s.OnTap(func(TapContext) { taps++ })
	b.Start()
	step(s, 1)
	if b.Phase() != PhaseFailed {
		t.Fatalf("phase = %v", b.Phase())
	}

	s.InjectTap(400, 300)
	step(s, 2)

	if b.Phase() != PhaseCheckingSupport {
		t.Errorf("phase = %v, want checking-support after retry", b.Phase())
	}
	if taps != 0 {
		t.Error("retry tap should not reach tap handlers")
	}
}

func TestInputInstructionsBlockGesturesUntilDismissed(t *testing.T) {
	s, n := gestureScene()
	s.Instructions.Visible = true
	taps := 0
	s.OnTap(func(TapContext) { taps++ })

	s.InjectDrag(400, 300, 450, 300, 2)
	step(s, 3)
	assertNear(t, "x", n.Position().X, 0)
	if !s.Instructions.Visible {
		t.Fatal("a drag should not dismiss instructions")
	}

	s.InjectTap(400, 300)
	step(s, 2)
	if s.Instructions.Visible {
		t.Error("tap should dismiss instructions")
	}
	if taps != 0 {
		t.Error("dismissing tap should not reach tap handlers")
	}

	s.InjectDrag(400, 300, 450, 300, 2)
	step(s, 3)
	assertNear(t, "x after dismiss", n.Position().X, 0.5)
}

func TestInputEmitsToEventSink(t *testing.T) {
	s, n := gestureScene()
	sink := &eventLog{}
	s.SetEventSink(sink)

	s.InjectTap(400, 300)
	step(s, 2)

	types := sink.types()
	if len(types) == 0 || types[len(types)-1] != EventTap {
		t.Fatalf("events = %v", types)
	}
	last := sink.events[len(sink.events)-1]
	if last.NodeID != n.ID || last.NodeName != "video" {
		t.Errorf("tap event = %+v", last)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	s, _ := gestureScene()
	var a, b int
	ha := s.OnTap(func(TapContext) { a++ })
	s.OnTap(func(TapContext) { b++ })
	ha.Remove()
	ha.Remove()
	CallbackHandle{}.Remove()

	s.InjectTap(400, 300)
	step(s, 2)

	if a != 0 || b != 1 {
		t.Errorf("a=%d b=%d, want 0 and 1", a, b)
	}
}

func TestDisableGesturesMidContact(t *testing.T) {
	s, n := gestureScene()
	s.InjectTouches(TouchPoint{ID: 1, X: 400, Y: 300})
	step(s, 1)
	s.DisableGestures(n)
	s.InjectTouches(TouchPoint{ID: 1, X: 450, Y: 300})
	s.InjectRelease()
	step(s, 2)
	assertNear(t, "x", n.Position().X, 0)
}

func TestTouchSetHelpers(t *testing.T) {
	a := []TouchPoint{tp(1, 0, 0), tp(2, 5, 5)}
	b := []TouchPoint{tp(2, 5, 5)}

	if !hasMissing(a, b) || hasMissing(b, a) {
		t.Error("hasMissing")
	}
	if got := retained(b, a); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("retained = %v", got)
	}
	if touchesMoved(b, []TouchPoint{tp(2, 5, 5)}) {
		t.Error("unchanged touches reported as moved")
	}
	if !touchesMoved(b, []TouchPoint{tp(2, 6, 5)}) {
		t.Error("moved touch not reported")
	}
}

func TestTouchSlot(t *testing.T) {
	s := newTestScene()
	first := s.touchSlot(100)
	second := s.touchSlot(200)
	if first != 1 || second != 2 {
		t.Errorf("slots = %d, %d", first, second)
	}
	if again := s.touchSlot(100); again != first {
		t.Errorf("existing touch moved to slot %d", again)
	}
	for id := 300; id < 300+maxTouches; id++ {
		s.touchSlot(ebiten.TouchID(id))
	}
	if got := s.touchSlot(999); got != -1 {
		t.Errorf("full table returned slot %d", got)
	}
}
