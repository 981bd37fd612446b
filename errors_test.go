package arview

import (
	"errors"
	"testing"
)

func TestBootstrapErrorMessage(t *testing.T) {
	cause := errors.New("NotAllowedError")
	tests := []struct {
		name string
		err  *BootstrapError
		want string
	}{
		{
			"with cause",
			&BootstrapError{Kind: FailurePermissionDenied, Message: msgPermissionDenied, Err: cause},
			"permission-denied: " + msgPermissionDenied + ": NotAllowedError",
		},
		{
			"no cause",
			&BootstrapError{Kind: FailureLoadTimeout, Message: msgLoadTimeout},
			"load-timeout: " + msgLoadTimeout,
		},
		{
			"unknown carries cause in message",
			newUnknownError(cause),
			"unknown: Error initializing AR: NotAllowedError",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBootstrapErrorUnwrap(t *testing.T) {
	err := classifyPermissionError(ErrNoCamera)
	if !errors.Is(err, ErrNoCamera) {
		t.Error("errors.Is should see the cause")
	}
	var be *BootstrapError
	if !errors.As(error(err), &be) || be.Kind != FailureNoCamera {
		t.Errorf("errors.As = %+v", be)
	}
}

func TestFailureKindString(t *testing.T) {
	tests := []struct {
		kind FailureKind
		want string
	}{
		{FailureNone, "none"},
		{FailureUnsupportedDevice, "unsupported-device"},
		{FailurePermissionDenied, "permission-denied"},
		{FailureNoCamera, "no-camera"},
		{FailureLoadTimeout, "load-timeout"},
		{FailureUnknown, "unknown"},
		{FailureKind(77), "FailureKind(77)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
