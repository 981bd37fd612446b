package arview

import (
	"context"
	"errors"
	"io"
)

// Classified camera permission failures. Requesters wrap these so the
// bootstrap can tell them apart with errors.Is; anything else is reported
// as FailureUnknown.
var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoCamera         = errors.New("no camera found")
)

// CameraHint is the preferred capture configuration sent with the request.
type CameraHint struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Facing string `yaml:"facing"`
}

// DefaultCameraHint asks for a 720p rear camera.
func DefaultCameraHint() CameraHint {
	return CameraHint{Width: 1280, Height: 720, Facing: "environment"}
}

// PermissionRequester asks the host for camera access. A nil return means
// permission was granted; implementations must release any stream they
// opened before returning.
type PermissionRequester interface {
	RequestCamera(ctx context.Context, hint CameraHint) error
}

// PermissionFunc adapts a function to PermissionRequester.
type PermissionFunc func(ctx context.Context, hint CameraHint) error

// RequestCamera calls f.
func (f PermissionFunc) RequestCamera(ctx context.Context, hint CameraHint) error {
	return f(ctx, hint)
}

// StreamPermission grants permission by opening a capture stream and closing
// it straight away. Only the permission is needed, never the footage.
type StreamPermission struct {
	Open func(ctx context.Context, hint CameraHint) (io.Closer, error)
	// Log receives stream close failures. Optional.
	Log *Logger
}

// RequestCamera implements PermissionRequester.
func (p StreamPermission) RequestCamera(ctx context.Context, hint CameraHint) error {
	stream, err := p.Open(ctx, hint)
	if err != nil {
		return err
	}
	if stream != nil {
		if err := stream.Close(); err != nil {
			p.Log.Warnf("close camera stream: %v", err)
		}
	}
	return nil
}
