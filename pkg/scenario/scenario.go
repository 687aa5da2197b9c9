// Package scenario plays scripted input sequences against a runtime
// under a fake clock, capturing settled snapshots after every step.
//
// Scenarios are YAML files: a name and a list of steps, where each step
// performs at most one action (set, key, pointer, tick, invoke, focus)
// and may carry expectations checked after the action settles. The
// resulting transcript renders as stable text, consumed by golden tests
// and the command line runner.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted input sequence.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one scripted action with optional expectations. A step
// without an action only observes.
type Step struct {
	Set     *SetStep       `yaml:"set,omitempty"`
	Key     string         `yaml:"key,omitempty"`
	Pointer *PointerStep   `yaml:"pointer,omitempty"`
	Tick    string         `yaml:"tick,omitempty"`
	Invoke  string         `yaml:"invoke,omitempty"`
	Focus   *string        `yaml:"focus,omitempty"`
	Expect  map[string]any `yaml:"expect,omitempty"`
}

// SetStep writes a property. The path may descend into children
// ("input.text"); the value is coerced to the property's kind.
type SetStep struct {
	Prop  string `yaml:"prop"`
	Value any    `yaml:"value"`
}

// PointerStep delivers a pointer event entering at the target
// component ("" targets the root). Phase defaults to down.
type PointerStep struct {
	Target string  `yaml:"target,omitempty"`
	Phase  string  `yaml:"phase,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario document and validates its steps.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario needs a name")
	}
	for i, step := range sc.Steps {
		actions := 0
		if step.Set != nil {
			actions++
		}
		if step.Key != "" {
			actions++
		}
		if step.Pointer != nil {
			actions++
		}
		if step.Tick != "" {
			actions++
		}
		if step.Invoke != "" {
			actions++
		}
		if step.Focus != nil {
			actions++
		}
		if actions > 1 {
			return nil, fmt.Errorf("step %d has more than one action", i+1)
		}
		if actions == 0 && len(step.Expect) == 0 {
			return nil, fmt.Errorf("step %d does nothing", i+1)
		}
		if step.Tick != "" && step.Tick != "settle" {
			if _, err := time.ParseDuration(step.Tick); err != nil {
				return nil, fmt.Errorf("step %d: bad tick %q", i+1, step.Tick)
			}
		}
		if step.Pointer != nil {
			if _, err := parsePhase(step.Pointer.Phase); err != nil {
				return nil, fmt.Errorf("step %d: %v", i+1, err)
			}
		}
	}
	return &sc, nil
}

// label names the step in transcripts.
func (s Step) label() string {
	switch {
	case s.Set != nil:
		return fmt.Sprintf("set %s = %v", s.Set.Prop, s.Set.Value)
	case s.Key != "":
		return "key " + s.Key
	case s.Pointer != nil:
		phase := s.Pointer.Phase
		if phase == "" {
			phase = "down"
		}
		if s.Pointer.Target != "" {
			return fmt.Sprintf("pointer %s %s (%g,%g)", phase, s.Pointer.Target, s.Pointer.X, s.Pointer.Y)
		}
		return fmt.Sprintf("pointer %s (%g,%g)", phase, s.Pointer.X, s.Pointer.Y)
	case s.Tick != "":
		return "tick " + s.Tick
	case s.Invoke != "":
		return "invoke " + s.Invoke
	case s.Focus != nil:
		if *s.Focus == "" {
			return "focus"
		}
		return "focus " + *s.Focus
	default:
		return "expect"
	}
}
