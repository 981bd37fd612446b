package arview

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

// loadingFadeDuration is how long the loading overlay takes to fade out
// once the scene is ready, in seconds.
const loadingFadeDuration = 0.5

// EventSink is the interface for optional ECS integration.
// When set on a Scene, viewer events are forwarded to it.
type EventSink interface {
	EmitEvent(event ViewerEvent)
}

// ViewerEvent carries phase, gesture and tap data for the event bridge.
type ViewerEvent struct {
	Type EventType
	// Phase fields (valid for EventPhaseChange)
	Phase      Phase
	PrevPhase  Phase
	RetryCount int
	AttemptID  string
	Failure    FailureKind
	Message    string
	// Node fields (valid for gesture and tap events; zero for taps that hit nothing)
	NodeID   uint32
	NodeName string
	// Gesture fields (valid for EventGestureStart, EventGesture, EventGestureEnd)
	Mode     GestureMode
	PrevMode GestureMode
	Scale    Vec3
	Position Vec3
	// Tap fields (valid for EventTap)
	X, Y float64
}

// gestureBinding attaches a GestureInterpreter to the node it controls.
type gestureBinding struct {
	node   *Node
	interp *GestureInterpreter
}

// Scene is the top-level object that owns the node tree, the camera, the
// bootstrap-driven overlays and touch routing.
type Scene struct {
	root   *Node
	camera *Camera
	store  EventSink
	log    *Logger
	debug  bool

	// ClearColor fills the screen before the scene is drawn.
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	// HandoffURL is shown as a QR code on the unsupported-device screen.
	HandoffURL string

	// Overlays, drawn in this order above the scene.
	Instructions *Overlay
	Loading      *Overlay
	Failure      *Overlay

	bootstrap *Bootstrap
	view      *ViewState
	bindings  []*gestureBinding
	tweens    []*TweenGroup

	// Input state
	handlers     handlerRegistry
	touch        touchState
	touchMap     [maxTouches]ebiten.TouchID
	touchUsed    [maxTouches]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  [][]TouchPoint

	testRunner      *TestRunner
	screenshotQueue []string
	exitRequested   bool
}

// NewScene creates a scene with an empty root, a default camera and the
// loading overlay showing.
func NewScene() *Scene {
	s := &Scene{
		root:          NewNode("root"),
		camera:        newCamera(Rect{}),
		log:           NewLogger(nil),
		ClearColor:    Color{0, 0, 0, 1},
		ScreenshotDir: "screenshots",
		Instructions:  newOverlay(Color{0, 0, 0, 0.7}),
		Loading:       newOverlay(Color{0.08, 0.08, 0.1, 1}),
		Failure:       newOverlay(Color{0.2, 0.05, 0.05, 0.92}),
		view:          NewViewState(),
	}
	s.Loading.Visible = true
	s.Loading.Message = "Starting AR..."
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// View returns the shared view state.
func (s *Scene) View() *ViewState {
	return s.view
}

// SetView replaces the shared view state.
func (s *Scene) SetView(v *ViewState) {
	s.view = v
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *Logger {
	return s.log
}

// SetEventSink sets the optional ECS bridge.
func (s *Scene) SetEventSink(sink EventSink) {
	s.store = sink
}

// SetDebugMode enables or disables debug mode. When enabled, transition and
// gesture traces are logged and disposed-node access panics.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.log.SetDebug(enabled)
	globalDebug = enabled
}

// SetBootstrap attaches the session bootstrap. Touches reach gesture
// interpreters only while it is in PhaseReady; overlays follow its phases.
func (s *Scene) SetBootstrap(b *Bootstrap) {
	s.bootstrap = b
	b.OnTransition(s.onTransition)
	s.Loading.Message = loadingMessage(b.State())
}

// Bootstrap returns the attached bootstrap, or nil.
func (s *Scene) Bootstrap() *Bootstrap {
	return s.bootstrap
}

// Retry restarts a failed bootstrap. Returns false if there is nothing to retry.
func (s *Scene) Retry() bool {
	if s.bootstrap == nil {
		return false
	}
	return s.bootstrap.Retry()
}

// InitInstructions shows the instructions overlay if this store has never
// shown it before.
func (s *Scene) InitInstructions(store KeyValueStore, text string) {
	show, err := ShowInstructionsOnce(store, s.view)
	if err != nil {
		s.log.Warnf("instructions flag: %v", err)
	}
	if show {
		s.Instructions.Message = text
		s.Instructions.Visible = true
		s.Instructions.Alpha = 1
	}
}

// EnableGestures attaches a GestureInterpreter to node and makes it
// interactable. Calling it again for the same node replaces the interpreter.
func (s *Scene) EnableGestures(node *Node, cfg GestureConfig) *GestureInterpreter {
	g := NewGestureInterpreter(node, cfg)
	node.Interactable = true
	for _, b := range s.bindings {
		if b.node == node {
			b.interp = g
			return g
		}
	}
	s.bindings = append(s.bindings, &gestureBinding{node: node, interp: g})
	return g
}

// DisableGestures detaches node's interpreter, cancelling any gesture in progress.
func (s *Scene) DisableGestures(node *Node) {
	for i, b := range s.bindings {
		if b.node == node {
			b.interp.Cancel()
			if s.touch.captured == b {
				s.touch.captured = nil
			}
			copy(s.bindings[i:], s.bindings[i+1:])
			s.bindings[len(s.bindings)-1] = nil
			s.bindings = s.bindings[:len(s.bindings)-1]
			return
		}
	}
}

// Gestures returns the interpreter attached to node, or nil.
func (s *Scene) Gestures(node *Node) *GestureInterpreter {
	for _, b := range s.bindings {
		if b.node == node {
			return b.interp
		}
	}
	return nil
}

// AddTween registers a tween to be advanced by Update until Done.
func (s *Scene) AddTween(g *TweenGroup) {
	if g != nil {
		s.tweens = append(s.tweens, g)
	}
}

// RequestExit asks Run to stop after the current frame.
func (s *Scene) RequestExit() {
	s.exitRequested = true
}

// Update advances the bootstrap, node callbacks and tweens, then processes
// touch input.
func (s *Scene) Update() {
	s.update(time.Second / time.Duration(ebiten.TPS()))
}

func (s *Scene) update(dt time.Duration) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if s.bootstrap != nil {
		s.bootstrap.Update(dt)
	}

	secs := dt.Seconds()
	updateNodes(s.root, secs)
	s.updateTweens(float32(secs))

	// Refresh world transforms so hit testing sees this frame's positions.
	updateWorldTransform(s.root, Vec3{}, identityScale, 1, false)
	s.processInput()
}

// updateTweens advances registered tweens and drops finished ones.
func (s *Scene) updateTweens(dt float32) {
	n := 0
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			s.tweens[n] = g
			n++
		}
	}
	for i := n; i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = s.tweens[:n]
}

// inputLive reports whether touches should reach gesture interpreters.
func (s *Scene) inputLive() bool {
	return s.bootstrap == nil || s.bootstrap.Phase() == PhaseReady
}

// onTransition updates overlays and forwards the phase change.
func (s *Scene) onTransition(tr Transition) {
	switch tr.To {
	case PhaseReady:
		s.Failure.Visible = false
		s.Loading.fadeOut(s, loadingFadeDuration, ease.OutQuad)
	case PhaseFailed:
		s.Loading.Visible = false
		s.showFailure(tr.Err)
	default:
		s.Failure.Visible = false
		s.Loading.show()
		s.Loading.Message = loadingMessage(s.bootstrap.State())
	}

	// A phase change invalidates any touch sequence in progress.
	if s.touch.captured != nil {
		s.touch.captured.interp.Cancel()
		s.touch.captured = nil
	}

	ev := ViewerEvent{
		Type:       EventPhaseChange,
		Phase:      tr.To,
		PrevPhase:  tr.From,
		RetryCount: tr.RetryCount,
		AttemptID:  tr.AttemptID,
	}
	if tr.Err != nil {
		ev.Failure = tr.Err.Kind
		ev.Message = tr.Err.Message
	}
	for _, h := range s.handlers.phase {
		h.fn(tr)
	}
	s.emit(ev)
}

func (s *Scene) showFailure(err *BootstrapError) {
	f := s.Failure
	f.show()
	f.Image = nil
	if err == nil {
		f.Message = "AR failed to start.\n\nTap to retry."
		return
	}
	f.Message = err.Message + "\n\nTap to retry."
	if err.Kind == FailureUnsupportedDevice && s.HandoffURL != "" {
		img, qrErr := HandoffImage(s.HandoffURL, handoffQRSize)
		if qrErr != nil {
			s.log.Warnf("handoff code: %v", qrErr)
			return
		}
		f.Image = img
		f.Message = err.Message + "\n\nScan to open on your phone."
	}
}

// loadingMessage describes the phase the bootstrap is waiting in.
func loadingMessage(st SessionState) string {
	switch st.Phase {
	case PhaseCheckingSupport:
		return "Checking AR support..."
	case PhaseRequestingPermission:
		return "Waiting for camera permission..."
	case PhaseAwaitingScene:
		if st.RetryCount > 0 {
			return fmt.Sprintf("Loading AR scene (retry %d)...", st.RetryCount)
		}
		return "Loading AR scene..."
	default:
		return "Starting AR..."
	}
}

// emit forwards an event to the ECS bridge.
func (s *Scene) emit(ev ViewerEvent) {
	if s.store == nil {
		return
	}
	s.store.EmitEvent(ev)
}
