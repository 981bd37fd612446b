package arview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is a bootstrap state.
type Phase uint8

const (
	PhaseIdle                 Phase = iota // Start has not been called
	PhaseCheckingSupport                   // waiting on the capability probe
	PhaseRequestingPermission              // waiting on camera consent
	PhaseAwaitingScene                     // waiting for the scene to load, watchdog armed
	PhaseReady                             // the scene is live
	PhaseFailed                            // terminal until Retry
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCheckingSupport:
		return "checking-support"
	case PhaseRequestingPermission:
		return "requesting-permission"
	case PhaseAwaitingScene:
		return "awaiting-scene"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Default bootstrap tuning.
const (
	DefaultSceneTimeout = 15 * time.Second
	DefaultMaxRetries   = 3
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 10
)

// BootstrapConfig tunes a Bootstrap.
type BootstrapConfig struct {
	// SceneTimeout bounds each AwaitingScene phase.
	SceneTimeout time.Duration `yaml:"scene_timeout"`
	// MaxRetries is how many scene timeouts restart the attempt before the
	// bootstrap gives up with FailureLoadTimeout.
	MaxRetries int `yaml:"max_retries"`
	// PollInterval and PollAttempts drive the readiness polling fallback.
	// After PollAttempts negative polls the scene is assumed ready.
	PollInterval time.Duration `yaml:"poll_interval"`
	PollAttempts int           `yaml:"poll_attempts"`
	// PermissionTimeout bounds the camera prompt. Zero leaves the prompt
	// unbounded.
	PermissionTimeout time.Duration `yaml:"permission_timeout"`
	// Camera is the capture hint sent with the permission request.
	Camera CameraHint `yaml:"camera"`
}

// DefaultBootstrapConfig returns the stock timeouts and retry budget.
func DefaultBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		SceneTimeout: DefaultSceneTimeout,
		MaxRetries:   DefaultMaxRetries,
		PollInterval: DefaultPollInterval,
		PollAttempts: DefaultPollAttempts,
		Camera:       DefaultCameraHint(),
	}
}

// SessionState is a snapshot of the bootstrap.
type SessionState struct {
	Phase      Phase
	RetryCount int
	// AttemptID identifies the current attempt; a new one is issued every
	// time the bootstrap (re)enters PhaseCheckingSupport.
	AttemptID string
	// Capability is the last probe result of the current attempt.
	Capability Capability
	// Error is set only in PhaseFailed.
	Error *BootstrapError
}

// Transition describes one phase change.
type Transition struct {
	From, To   Phase
	RetryCount int
	AttemptID  string
	Err        *BootstrapError
}

type resultKind uint8

const (
	resultProbe resultKind = iota
	resultPermission
)

// bootstrapResult is a collaborator outcome posted to the mailbox.
type bootstrapResult struct {
	gen        uint64
	kind       resultKind
	capability Capability
	err        error
}

// Bootstrap is the AR session state machine. All methods except the
// collaborator callbacks must be called from the update goroutine; async
// collaborator results are queued and applied in Update.
type Bootstrap struct {
	cfg    BootstrapConfig
	probe  CapabilityProbe
	perm   PermissionRequester
	signal SceneSignal
	poller ReadinessPoller
	launch func(func())
	log    *Logger
	hooks  []func(Transition)

	state      SessionState
	watchdog   Watchdog
	poll       pollState
	readyLatch bool

	// gen identifies the attempt in flight; results tagged with an older
	// generation are dropped.
	gen    uint64
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	mailbox []bootstrapResult
}

// BootstrapOption configures a Bootstrap.
type BootstrapOption func(*Bootstrap)

// WithLauncher replaces the function used to run collaborator calls. The
// default runs each call on its own goroutine; tests pass a synchronous
// launcher to make attempts deterministic.
func WithLauncher(launch func(func())) BootstrapOption {
	return func(b *Bootstrap) { b.launch = launch }
}

// WithPoller enables the readiness polling fallback.
func WithPoller(p ReadinessPoller) BootstrapOption {
	return func(b *Bootstrap) { b.poller = p }
}

// WithLogger sets the logger for transition traces and warnings.
func WithLogger(l *Logger) BootstrapOption {
	return func(b *Bootstrap) { b.log = l }
}

// WithContext sets the parent context for collaborator calls.
func WithContext(ctx context.Context) BootstrapOption {
	return func(b *Bootstrap) { b.parent = ctx }
}

// NewBootstrap creates a bootstrap in PhaseIdle. probe and perm are
// required; signal may be nil when readiness is only reported through
// NotifySceneReady or the poller.
func NewBootstrap(cfg BootstrapConfig, probe CapabilityProbe, perm PermissionRequester, signal SceneSignal, opts ...BootstrapOption) *Bootstrap {
	if probe == nil {
		panic("arview: nil capability probe")
	}
	if perm == nil {
		panic("arview: nil permission requester")
	}
	b := &Bootstrap{
		cfg:    cfg,
		probe:  probe,
		perm:   perm,
		signal: signal,
		launch: func(f func()) { go f() },
		parent: context.Background(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnTransition registers a callback fired after every phase change.
func (b *Bootstrap) OnTransition(fn func(Transition)) {
	b.hooks = append(b.hooks, fn)
}

// State returns a snapshot of the session state.
func (b *Bootstrap) State() SessionState {
	return b.state
}

// Phase returns the current phase.
func (b *Bootstrap) Phase() Phase {
	return b.state.Phase
}

// Err returns the failure of the current attempt, or nil.
func (b *Bootstrap) Err() *BootstrapError {
	return b.state.Error
}

// Config returns the bootstrap tuning.
func (b *Bootstrap) Config() BootstrapConfig {
	return b.cfg
}

// Watchdog exposes the watchdog for inspection.
func (b *Bootstrap) Watchdog() *Watchdog {
	return &b.watchdog
}

// Start begins the first attempt. It is a no-op unless the bootstrap is idle.
func (b *Bootstrap) Start() {
	if b.state.Phase != PhaseIdle {
		return
	}
	b.state.RetryCount = 0
	b.enterCheckingSupport()
}

// Retry restarts a failed bootstrap from PhaseCheckingSupport with a fresh
// retry budget. Returns false if the bootstrap has not failed.
func (b *Bootstrap) Retry() bool {
	if b.state.Phase != PhaseFailed {
		return false
	}
	b.state.RetryCount = 0
	b.enterCheckingSupport()
	return true
}

// NotifySceneReady reports the scene's "loaded" edge. A notification that
// arrives before AwaitingScene is remembered for when that phase begins.
func (b *Bootstrap) NotifySceneReady() {
	b.readyLatch = true
	if b.state.Phase == PhaseAwaitingScene {
		b.enterReady()
	}
}

// Close cancels any collaborator call in flight and disarms the watchdog.
func (b *Bootstrap) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	b.watchdog.Disarm()
}

// Update applies queued collaborator results, checks scene readiness and
// advances the watchdog by dt. A phase entered during this call starts its
// clock on the next call.
func (b *Bootstrap) Update(dt time.Duration) {
	phase := b.state.Phase
	b.drain()
	if b.state.Phase != phase {
		return
	}

	if phase == PhaseAwaitingScene {
		if b.sceneReady() {
			b.enterReady()
			return
		}
		if b.pollScene(dt) {
			return
		}
	}

	if p, fired := b.watchdog.Tick(dt); fired {
		b.onWatchdog(p)
	}
}

// post queues a collaborator result. Safe to call from any goroutine.
func (b *Bootstrap) post(r bootstrapResult) {
	b.mu.Lock()
	b.mailbox = append(b.mailbox, r)
	b.mu.Unlock()
}

func (b *Bootstrap) pop() (bootstrapResult, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.mailbox) == 0 {
		return bootstrapResult{}, false
	}
	r := b.mailbox[0]
	copy(b.mailbox, b.mailbox[1:])
	b.mailbox = b.mailbox[:len(b.mailbox)-1]
	return r, true
}

// drain handles queued results, including any posted while handling.
func (b *Bootstrap) drain() {
	for {
		r, ok := b.pop()
		if !ok {
			return
		}
		b.handle(r)
	}
}

func (b *Bootstrap) handle(r bootstrapResult) {
	if r.gen != b.gen {
		b.log.Debugf("dropping result of superseded attempt %d", r.gen)
		return
	}
	switch r.kind {
	case resultProbe:
		if b.state.Phase != PhaseCheckingSupport {
			return
		}
		if r.err != nil {
			b.fail(newUnknownError(r.err))
			return
		}
		b.state.Capability = r.capability
		if !r.capability.Supported {
			b.fail(&BootstrapError{Kind: FailureUnsupportedDevice, Message: r.capability.Message()})
			return
		}
		b.enterRequestingPermission()

	case resultPermission:
		if b.state.Phase != PhaseRequestingPermission {
			return
		}
		if r.err != nil {
			b.fail(classifyPermissionError(r.err))
			return
		}
		b.enterAwaitingScene()
	}
}

// classifyPermissionError maps a requester error onto the failure taxonomy.
func classifyPermissionError(err error) *BootstrapError {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return &BootstrapError{Kind: FailurePermissionDenied, Message: msgPermissionDenied, Err: err}
	case errors.Is(err, ErrNoCamera):
		return &BootstrapError{Kind: FailureNoCamera, Message: msgNoCamera, Err: err}
	default:
		return newUnknownError(err)
	}
}

// --- Phase entry ---

// beginAttempt cancels whatever the previous attempt left in flight and
// issues a new generation and attempt ID.
func (b *Bootstrap) beginAttempt() {
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	b.ctx, b.cancel = context.WithCancel(b.parent)
	b.state.AttemptID = uuid.NewString()
	b.state.Capability = Capability{}
}

func (b *Bootstrap) enterCheckingSupport() {
	b.beginAttempt()
	b.transition(PhaseCheckingSupport, nil)

	gen, ctx := b.gen, b.ctx
	b.launch(func() {
		c, err := b.probe.Probe(ctx)
		b.post(bootstrapResult{gen: gen, kind: resultProbe, capability: c, err: err})
	})
}

func (b *Bootstrap) enterRequestingPermission() {
	b.transition(PhaseRequestingPermission, nil)
	if b.cfg.PermissionTimeout > 0 {
		b.watchdog.Arm(PhaseRequestingPermission, b.cfg.PermissionTimeout)
	}

	gen, ctx, hint := b.gen, b.ctx, b.cfg.Camera
	b.launch(func() {
		err := b.perm.RequestCamera(ctx, hint)
		b.post(bootstrapResult{gen: gen, kind: resultPermission, err: err})
	})
}

func (b *Bootstrap) enterAwaitingScene() {
	b.transition(PhaseAwaitingScene, nil)
	b.watchdog.Arm(PhaseAwaitingScene, b.cfg.SceneTimeout)
	b.poll = pollState{}
	if b.sceneReady() {
		b.enterReady()
	}
}

func (b *Bootstrap) enterReady() {
	if b.state.Phase == PhaseReady {
		return
	}
	b.transition(PhaseReady, nil)
}

func (b *Bootstrap) fail(err *BootstrapError) {
	if b.cancel != nil {
		b.cancel()
	}
	b.log.Warnf("bootstrap failed (attempt %s): %v", b.state.AttemptID, err)
	b.transition(PhaseFailed, err)
}

// transition disarms the previous phase's watchdog and notifies hooks.
// Callers arm the new phase's watchdog afterwards.
func (b *Bootstrap) transition(to Phase, err *BootstrapError) {
	from := b.state.Phase
	b.watchdog.Disarm()
	b.state.Phase = to
	b.state.Error = err

	b.log.Debugf("bootstrap %s -> %s (retry %d, attempt %s)", from, to, b.state.RetryCount, b.state.AttemptID)
	tr := Transition{From: from, To: to, RetryCount: b.state.RetryCount, AttemptID: b.state.AttemptID, Err: err}
	for _, fn := range b.hooks {
		fn(tr)
	}
}

// --- Readiness and timeouts ---

func (b *Bootstrap) sceneReady() bool {
	return b.readyLatch || (b.signal != nil && b.signal.Ready())
}

// pollScene runs the polling fallback. It reports whether the phase changed.
func (b *Bootstrap) pollScene(dt time.Duration) bool {
	if b.poller == nil || b.cfg.PollInterval <= 0 {
		return false
	}
	b.poll.elapsed += dt
	for b.poll.elapsed >= b.cfg.PollInterval {
		b.poll.elapsed -= b.cfg.PollInterval
		b.poll.attempts++
		if b.poller() {
			b.enterReady()
			return true
		}
		if b.poll.attempts >= b.cfg.PollAttempts {
			b.log.Warnf("scene readiness unconfirmed after %d polls, proceeding", b.poll.attempts)
			b.enterReady()
			return true
		}
	}
	return false
}

// onWatchdog handles an elapsed deadline. A deadline armed for a phase that
// is no longer current is ignored.
func (b *Bootstrap) onWatchdog(p Phase) {
	if p != b.state.Phase {
		b.log.Debugf("ignoring stale watchdog for %s", p)
		return
	}
	switch p {
	case PhaseAwaitingScene:
		if b.state.RetryCount < b.cfg.MaxRetries {
			b.state.RetryCount++
			b.log.Warnf("scene not ready after %v, retrying (%d/%d)", b.cfg.SceneTimeout, b.state.RetryCount, b.cfg.MaxRetries)
			b.enterCheckingSupport()
			return
		}
		b.fail(&BootstrapError{Kind: FailureLoadTimeout, Message: msgLoadTimeout})
	case PhaseRequestingPermission:
		b.fail(&BootstrapError{Kind: FailureLoadTimeout, Message: msgPermissionTimeout})
	}
}
