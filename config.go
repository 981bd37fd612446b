package arview

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the viewer configuration.
type Config struct {
	Gesture   GestureConfig   `yaml:"gesture"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`

	// MinIOSVersion is the oldest supported iOS release, e.g. "11.3".
	MinIOSVersion string `yaml:"min_ios_version"`
	// HandoffURL is encoded as a QR code on the unsupported-device screen so
	// desktop users can open the viewer on a phone. Empty disables it.
	HandoffURL string `yaml:"handoff_url"`
	// StorePath is the SQLite file that keeps the instructions flag.
	StorePath string `yaml:"store_path"`
	// ScreenshotDir receives PNGs captured with Scene.Screenshot.
	ScreenshotDir string `yaml:"screenshot_dir"`
	// Debug enables transition traces on stderr.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Gesture:       DefaultGestureConfig(),
		Bootstrap:     DefaultBootstrapConfig(),
		MinIOSVersion: DefaultMinIOSVersion.String(),
		StorePath:     "arview.db",
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads a YAML file over the defaults. Durations are written as
// Go duration strings ("15s", "500ms").
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ARVIEW_* environment variables.
func (c *Config) ApplyEnv() error {
	var errs []error
	c.HandoffURL = envStr("ARVIEW_HANDOFF_URL", c.HandoffURL)
	c.StorePath = envStr("ARVIEW_STORE_PATH", c.StorePath)
	c.ScreenshotDir = envStr("ARVIEW_SCREENSHOT_DIR", c.ScreenshotDir)
	c.MinIOSVersion = envStr("ARVIEW_MIN_IOS_VERSION", c.MinIOSVersion)
	c.Debug = envBool("ARVIEW_DEBUG", c.Debug, &errs)
	c.Bootstrap.SceneTimeout = envDuration("ARVIEW_SCENE_TIMEOUT", c.Bootstrap.SceneTimeout, &errs)
	c.Bootstrap.PermissionTimeout = envDuration("ARVIEW_PERMISSION_TIMEOUT", c.Bootstrap.PermissionTimeout, &errs)
	c.Bootstrap.MaxRetries = envInt("ARVIEW_MAX_RETRIES", c.Bootstrap.MaxRetries, &errs)
	return errors.Join(errs...)
}

// Validate reports configuration values the viewer cannot run with.
func (c Config) Validate() error {
	var errs []error
	g := c.Gesture
	if g.MinScale <= 0 {
		errs = append(errs, fmt.Errorf("gesture.min_scale must be positive, got %v", g.MinScale))
	}
	if g.MaxScale < g.MinScale {
		errs = append(errs, fmt.Errorf("gesture.max_scale %v is below min_scale %v", g.MaxScale, g.MinScale))
	}
	b := c.Bootstrap
	if b.SceneTimeout <= 0 {
		errs = append(errs, fmt.Errorf("bootstrap.scene_timeout must be positive, got %v", b.SceneTimeout))
	}
	if b.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("bootstrap.max_retries must not be negative, got %d", b.MaxRetries))
	}
	if b.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("bootstrap.poll_interval must be positive, got %v", b.PollInterval))
	}
	if b.PollAttempts < 1 {
		errs = append(errs, fmt.Errorf("bootstrap.poll_attempts must be at least 1, got %d", b.PollAttempts))
	}
	if b.PermissionTimeout < 0 {
		errs = append(errs, fmt.Errorf("bootstrap.permission_timeout must not be negative, got %v", b.PermissionTimeout))
	}
	if _, err := ParseVersion(c.MinIOSVersion); err != nil {
		errs = append(errs, fmt.Errorf("min_ios_version: %w", err))
	}
	return errors.Join(errs...)
}

// MinIOS returns the parsed minimum iOS version, falling back to the default.
func (c Config) MinIOS() Version {
	v, err := ParseVersion(c.MinIOSVersion)
	if err != nil {
		return DefaultMinIOSVersion
	}
	return v
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func envInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
