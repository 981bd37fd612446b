package arview

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrXRUnavailable is returned by native XR checks when the host exposes no
// XR API at all.
var ErrXRUnavailable = errors.New("xr api unavailable")

// UnsupportedReason explains a negative capability result.
type UnsupportedReason uint8

const (
	ReasonNone       UnsupportedReason = iota
	ReasonOSVersion                    // the OS is older than the minimum
	ReasonBrowser                      // the browser cannot run AR
	ReasonXRDisabled                   // the XR API is present on the OS but switched off
)

// Version is a dotted platform version such as iOS 14.2.1.
type Version struct {
	Major, Minor, Patch int
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// String formats the version without a trailing zero patch, e.g. "11.3".
func (v Version) String() string {
	if v.Patch == 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion parses "major[.minor[.patch]]".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Version{}, fmt.Errorf("parse version %q: expected major[.minor[.patch]]", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("parse version %q: bad component %q", s, p)
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, nil
}

// DefaultMinIOSVersion is the oldest iOS release with usable camera access
// from the browser.
var DefaultMinIOSVersion = Version{Major: 11, Minor: 3}

// Platform describes the host as far as the capability probe cares.
type Platform struct {
	IOS       bool
	Version   Version // iOS version; zero when unknown or not iOS
	UserAgent string
}

var (
	iosDeviceRe  = regexp.MustCompile(`iPad|iPhone|iPod`)
	iosVersionRe = regexp.MustCompile(`OS (\d+)_(\d+)(?:_(\d+))?`)
)

// DetectPlatform extracts the iOS flag and version from a user agent string.
func DetectPlatform(userAgent string) Platform {
	p := Platform{UserAgent: userAgent}
	if !iosDeviceRe.MatchString(userAgent) {
		return p
	}
	p.IOS = true
	m := iosVersionRe.FindStringSubmatch(userAgent)
	if m == nil {
		return p
	}
	p.Version.Major, _ = strconv.Atoi(m[1])
	p.Version.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		p.Version.Patch, _ = strconv.Atoi(m[3])
	}
	return p
}

// Capability is the result of a capability probe.
type Capability struct {
	Supported bool
	Reason    UnsupportedReason
	Platform  Platform
	// MinVersion is the gate that was applied to iOS hosts.
	MinVersion Version
}

// Message returns an actionable explanation for an unsupported result.
func (c Capability) Message() string {
	if c.Supported {
		return ""
	}
	if c.Reason == ReasonXRDisabled {
		return "WebXR not enabled. To use AR:\n" +
			"1. Open Settings > Safari > Advanced\n" +
			"2. Enable \"Experimental Features\"\n" +
			"3. Turn on \"WebXR Device API\" and \"WebXR Augmented Reality Mode\"\n" +
			"4. Restart Safari and reload this page"
	}
	msg := "AR not supported. "
	if c.Platform.IOS {
		msg += fmt.Sprintf("Detected iOS %s. ", c.Platform.Version)
		if c.Reason == ReasonOSVersion {
			return msg + fmt.Sprintf("Requires iOS %s+", c.MinVersion)
		}
		return msg + "Try enabling WebXR in Safari Experimental Features"
	}
	return msg + "Requires Chrome 79+ on Android"
}

// CapabilityProbe reports whether the host can run an AR session. Probe must
// be idempotent; the bootstrap calls it again on every attempt.
type CapabilityProbe interface {
	Probe(ctx context.Context) (Capability, error)
}

// ProbeFunc adapts a function to CapabilityProbe.
type ProbeFunc func(ctx context.Context) (Capability, error)

// Probe calls f.
func (f ProbeFunc) Probe(ctx context.Context) (Capability, error) {
	return f(ctx)
}

// UserAgentProbe decides support from a native XR check when one is
// available and from user-agent heuristics otherwise.
type UserAgentProbe struct {
	// UserAgent is the host's user agent string.
	UserAgent string
	// MinIOSVersion gates iOS hosts; zero means DefaultMinIOSVersion.
	MinIOSVersion Version
	// XRSupport asks the host whether an immersive AR session is supported.
	// Nil means the host exposes no XR API.
	XRSupport func(ctx context.Context) (bool, error)
	// RequireXROnIOS fails iOS hosts without an XR API with ReasonXRDisabled
	// instead of falling back to heuristics.
	RequireXROnIOS bool
	// Log receives fallback notices. May be nil.
	Log *Logger
}

// Probe implements CapabilityProbe. Errors from the native check are logged
// and fall through to the heuristics, so Probe itself only fails when ctx is
// done.
func (p *UserAgentProbe) Probe(ctx context.Context) (Capability, error) {
	if err := ctx.Err(); err != nil {
		return Capability{}, err
	}
	minVersion := p.MinIOSVersion
	if minVersion == (Version{}) {
		minVersion = DefaultMinIOSVersion
	}
	c := Capability{Platform: DetectPlatform(p.UserAgent), MinVersion: minVersion}
	ios := c.Platform.IOS

	if ios && p.RequireXROnIOS && p.XRSupport == nil {
		c.Reason = ReasonXRDisabled
		return c, nil
	}
	if ios && c.Platform.Version.Less(minVersion) {
		c.Reason = ReasonOSVersion
		return c, nil
	}

	if p.XRSupport != nil {
		ok, err := p.XRSupport(ctx)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Capability{}, ctxErr
			}
			if ios && p.RequireXROnIOS && errors.Is(err, ErrXRUnavailable) {
				c.Reason = ReasonXRDisabled
				return c, nil
			}
			p.Log.Debugf("native XR check failed, falling back to heuristics: %v", err)
		case ok:
			c.Supported = true
			return c, nil
		}
	}

	switch {
	case ios:
		c.Supported = true
	case strings.Contains(p.UserAgent, "Chrome"):
		c.Supported = true
	default:
		c.Reason = ReasonBrowser
	}
	return c, nil
}
