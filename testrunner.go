package arview

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a viewer script.
type scriptStep struct {
	Action   string  `yaml:"action"`
	Label    string  `yaml:"label,omitempty"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	FromX    float64 `yaml:"fromX,omitempty"`
	FromY    float64 `yaml:"fromY,omitempty"`
	ToX      float64 `yaml:"toX,omitempty"`
	ToY      float64 `yaml:"toY,omitempty"`
	FromDist float64 `yaml:"fromDist,omitempty"`
	ToDist   float64 `yaml:"toDist,omitempty"`
	Frames   int     `yaml:"frames,omitempty"`
}

// script is the top-level structure of a viewer script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

var knownActions = map[string]bool{
	"screenshot": true,
	"tap":        true,
	"drag":       true,
	"pinch":      true,
	"wait":       true,
	"ready":      true,
	"retry":      true,
	"reset":      true,
}

// TestRunner sequences injected touches, bootstrap signals and screenshots
// across frames for automated runs. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a YAML (or JSON) script and returns a TestRunner
// ready to be attached to a Scene via SetTestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range sc.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: sc.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called at the start of Scene.Update each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. Called from Scene.Update.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "tap":
		s.InjectTap(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "pinch":
		s.InjectPinch(st.X, st.Y, st.FromDist, st.ToDist, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "ready":
		if s.bootstrap != nil {
			s.bootstrap.NotifySceneReady()
		}
	case "retry":
		s.Retry()
	case "reset":
		for _, b := range s.bindings {
			b.interp.Reset()
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
