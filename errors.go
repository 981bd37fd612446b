package arview

import "fmt"

// FailureKind classifies why a bootstrap attempt failed.
type FailureKind uint8

const (
	FailureNone              FailureKind = iota
	FailureUnsupportedDevice             // device or browser cannot run an AR session
	FailurePermissionDenied              // the user refused camera access
	FailureNoCamera                      // no suitable camera exists
	FailureLoadTimeout                   // the watchdog expired with no retries left
	FailureUnknown                       // anything else; carries the raw message
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureUnsupportedDevice:
		return "unsupported-device"
	case FailurePermissionDenied:
		return "permission-denied"
	case FailureNoCamera:
		return "no-camera"
	case FailureLoadTimeout:
		return "load-timeout"
	case FailureUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("FailureKind(%d)", uint8(k))
	}
}

// User-facing messages for failures that carry no extra detail.
const (
	msgPermissionDenied  = "Camera access required for AR. Please allow camera permissions and retry."
	msgNoCamera          = "No camera found. AR needs a rear-facing camera."
	msgLoadTimeout       = "The AR scene took too long to load. Please check your connection and retry."
	msgPermissionTimeout = "Camera access taking too long. Please refresh and allow permissions."
	msgUnknownPrefix     = "Error initializing AR: "
)

// BootstrapError is the terminal error of a failed bootstrap attempt.
// Message is suitable for display; Err is the underlying cause, if any.
type BootstrapError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *BootstrapError) Error() string {
	if e.Err != nil && e.Kind != FailureUnknown {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// newUnknownError wraps an unclassified failure, carrying its raw message.
func newUnknownError(err error) *BootstrapError {
	return &BootstrapError{Kind: FailureUnknown, Message: msgUnknownPrefix + err.Error(), Err: err}
}
