package arview

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/arview/store"
	"github.com/tanema/gween/ease"
)

const frame = time.Second / 60

func newTestScene() *Scene {
	s := NewScene()
	s.log = NewLogger(io.Discard)
	s.camera.Viewport = testViewport
	return s
}

// addVideo adds a 2x2 surface two units in front of the camera. With the
// test viewport it covers roughly (140,40)-(660,560) on screen.
func addVideo(s *Scene) *Node {
	n := NewSurface("video", nil, 2, 2)
	n.SetPosition(Vec3{0, 0, -2})
	s.Root().AddChild(n)
	return n
}

func step(s *Scene, frames int) {
	for i := 0; i < frames; i++ {
		s.update(frame)
	}
}

func attachBootstrap(s *Scene, probe CapabilityProbe, signal SceneSignal) *Bootstrap {
	b := NewBootstrap(testBootstrapConfig(), probe, grantCamera, signal,
		WithLauncher(syncLauncher), WithLogger(NewLogger(io.Discard)))
	s.SetBootstrap(b)
	return b
}

var unsupportedProbe = ProbeFunc(func(context.Context) (Capability, error) {
	return Capability{Reason: ReasonBrowser}, nil
})

func TestSceneUpdateRunsNodeCallbacks(t *testing.T) {
	s := newTestScene()
	var got float64
	s.Root().OnUpdate = func(dt float64) { got = dt }
	s.update(frame)
	assertNear(t, "dt", got, frame.Seconds())
}

func TestSceneTweensAdvanceAndDrop(t *testing.T) {
	s := newTestScene()
	v := 1.0
	s.AddTween(tweenFloat(&v, 0, 0.1, ease.Linear))
	s.AddTween(nil)
	if len(s.tweens) != 1 {
		t.Fatalf("tweens = %d, want 1", len(s.tweens))
	}
	step(s, 10)
	if len(s.tweens) != 0 {
		t.Errorf("finished tweens should be dropped, %d left", len(s.tweens))
	}
	if v != 0 {
		t.Errorf("v = %v, want 0", v)
	}
}

func TestSceneLoadingMessage(t *testing.T) {
	tests := []struct {
		st   SessionState
		want string
	}{
		{SessionState{Phase: PhaseIdle}, "Starting AR..."},
		{SessionState{Phase: PhaseCheckingSupport}, "Checking AR support..."},
		{SessionState{Phase: PhaseRequestingPermission}, "Waiting for camera permission..."},
		{SessionState{Phase: PhaseAwaitingScene}, "Loading AR scene..."},
		{SessionState{Phase: PhaseAwaitingScene, RetryCount: 2}, "Loading AR scene (retry 2)..."},
	}
	for _, tt := range tests {
		if got := loadingMessage(tt.st); got != tt.want {
			t.Errorf("loadingMessage(%v) = %q, want %q", tt.st.Phase, got, tt.want)
		}
	}
}

func TestSceneLoadingOverlayFadesWhenReady(t *testing.T) {
	s := newTestScene()
	var flag SceneFlag
	flag.Set()
	b := attachBootstrap(s, supportedProbe, &flag)
	b.Start()

	if !s.Loading.Visible || s.Loading.Message != "Checking AR support..." {
		t.Fatalf("loading overlay: visible=%v message=%q", s.Loading.Visible, s.Loading.Message)
	}

	step(s, 2)
	if b.Phase() != PhaseReady {
		t.Fatalf("phase = %v, want ready", b.Phase())
	}
	if !s.Loading.Fading() {
		t.Fatal("loading overlay should fade out once ready")
	}

	step(s, 40)
	if s.Loading.Visible {
		t.Errorf("loading overlay still visible, alpha %v", s.Loading.Alpha)
	}
}

func TestSceneFailureOverlay(t *testing.T) {
	s := newTestScene()
	b := attachBootstrap(s, unsupportedProbe, nil)
	b.Start()
	step(s, 1)

	if b.Phase() != PhaseFailed {
		t.Fatalf("phase = %v", b.Phase())
	}
	if s.Loading.Visible {
		t.Error("loading overlay should hide on failure")
	}
	if !s.Failure.Visible {
		t.Fatal("failure overlay should show")
	}
	if !strings.Contains(s.Failure.Message, "Requires Chrome 79+ on Android") ||
		!strings.Contains(s.Failure.Message, "Tap to retry") {
		t.Errorf("message = %q", s.Failure.Message)
	}
	if s.Failure.Image != nil {
		t.Error("no handoff code without a URL")
	}
}

func TestSceneFailureOverlayHandoff(t *testing.T) {
	s := newTestScene()
	s.HandoffURL = "https://example.com/ar"
	b := attachBootstrap(s, unsupportedProbe, nil)
	b.Start()
	step(s, 1)

	if s.Failure.Image == nil {
		t.Fatal("unsupported devices get a handoff code")
	}
	if !strings.Contains(s.Failure.Message, "Scan") {
		t.Errorf("message = %q", s.Failure.Message)
	}
}

type eventLog struct{ events []ViewerEvent }

func (l *eventLog) EmitEvent(e ViewerEvent) { l.events = append(l.events, e) }

func (l *eventLog) types() []EventType {
	out := make([]EventType, len(l.events))
	for i, e := range l.events {
		out[i] = e.Type
	}
	return out
}

func TestSceneForwardsPhaseEvents(t *testing.T) {
	s := newTestScene()
	sink := &eventLog{}
	s.SetEventSink(sink)
	b := attachBootstrap(s, unsupportedProbe, nil)
	b.Start()
	step(s, 1)

	if len(sink.events) != 2 {
		t.Fatalf("events = %+v", sink.events)
	}
	e := sink.events[1]
	if e.Type != EventPhaseChange || e.PrevPhase != PhaseCheckingSupport || e.Phase != PhaseFailed {
		t.Errorf("event = %+v", e)
	}
	if e.Failure != FailureUnsupportedDevice || e.Message == "" || e.AttemptID == "" {
		t.Errorf("failure fields = %+v", e)
	}
}

func TestSceneOnPhaseChange(t *testing.T) {
	s := newTestScene()
	b := attachBootstrap(s, supportedProbe, nil)
	var got []Phase
	h := s.OnPhaseChange(func(tr Transition) { got = append(got, tr.To) })
	b.Start()
	h.Remove()
	step(s, 2)

	if len(got) != 1 || got[0] != PhaseCheckingSupport {
		t.Errorf("got %v, want only checking-support", got)
	}
}

func TestSceneRetryWithoutBootstrap(t *testing.T) {
	if newTestScene().Retry() {
		t.Error("nothing to retry")
	}
}

func TestSceneInitInstructions(t *testing.T) {
	kv := store.NewMemory()

	s := newTestScene()
	s.InitInstructions(kv, "Drag to move")
	if !s.Instructions.Visible || s.Instructions.Message != "Drag to move" {
		t.Fatalf("instructions: %+v", s.Instructions)
	}

	s2 := newTestScene()
	s2.InitInstructions(kv, "Drag to move")
	if s2.Instructions.Visible {
		t.Error("instructions show once per store")
	}
}

func TestSceneEnableGesturesReplaces(t *testing.T) {
	s := newTestScene()
	n := addVideo(s)
	g1 := s.EnableGestures(n, DefaultGestureConfig())
	g2 := s.EnableGestures(n, DefaultGestureConfig())
	if len(s.bindings) != 1 || s.Gestures(n) != g2 || g1 == g2 {
		t.Error("second EnableGestures should replace the interpreter")
	}

	s.DisableGestures(n)
	if s.Gestures(n) != nil || len(s.bindings) != 0 {
		t.Error("DisableGestures should remove the binding")
	}
}

func TestSceneRequestExit(t *testing.T) {
	s := newTestScene()
	g := &game{scene: s}
	s.RequestExit()
	if err := g.Update(); err == nil {
		t.Error("game should terminate after RequestExit")
	}
}

func TestGameLayoutSetsViewport(t *testing.T) {
	s := NewScene()
	g := &game{scene: s}
	w, h := g.Layout(320, 240)
	if w != 320 || h != 240 {
		t.Errorf("Layout = %d,%d", w, h)
	}
	if s.Camera().Viewport != (Rect{Width: 320, Height: 240}) {
		t.Errorf("viewport = %+v", s.Camera().Viewport)
	}
}
