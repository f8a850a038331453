package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pdscatter/internal/animation"
)

// Script is a scripted user session.
type Script struct {
	// Name identifies the script and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the script exercises.
	Description string `yaml:"description,omitempty"`

	// Steps are applied in order after the initial frame is drawn.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated against the state after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one user input. Exactly one field must be set.
type Step struct {
	SetYear        *int    `yaml:"set_year,omitempty"`
	SelectCountry  *string `yaml:"select_country,omitempty"`
	SelectCategory *string `yaml:"select_category,omitempty"`
	Toggle         bool    `yaml:"toggle,omitempty"`

	// Tick fires the playback timer this many times.
	Tick int `yaml:"tick,omitempty"`
}

// Event returns the session event for a non-tick step.
func (s Step) Event() (animation.Event, bool) {
	switch {
	case s.SetYear != nil:
		return animation.SetYear(*s.SetYear), true
	case s.SelectCountry != nil:
		return animation.SelectCountry(*s.SelectCountry), true
	case s.SelectCategory != nil:
		return animation.SelectCategory(*s.SelectCategory), true
	case s.Toggle:
		return animation.Toggle(), true
	default:
		return animation.Event{}, false
	}
}

func (s Step) String() string {
	if ev, ok := s.Event(); ok {
		return ev.String()
	}
	return fmt.Sprintf("tick x%d", s.Tick)
}

func (s Step) validate() error {
	set := 0
	if s.SetYear != nil {
		set++
	}
	if s.SelectCountry != nil {
		set++
	}
	if s.SelectCategory != nil {
		set++
	}
	if s.Toggle {
		set++
	}
	if s.Tick != 0 {
		set++
	}
	switch {
	case s.Tick < 0:
		return fmt.Errorf("tick count must be positive, got %d", s.Tick)
	case set == 0:
		return errors.New("step has no action")
	case set > 1:
		return fmt.Errorf("step has %d actions, want exactly one", set)
	}
	return nil
}

// Assertion checks one property of the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	Year     int    `yaml:"year,omitempty"`     // AssertYear
	Mode     string `yaml:"mode,omitempty"`     // AssertMode
	Country  string `yaml:"country,omitempty"`  // AssertCountry
	Category string `yaml:"category,omitempty"` // AssertCategory

	// Count is the expected value of every counting assertion.
	Count int `yaml:"count,omitempty"`
}

// Assertion types.
const (
	AssertYear         = "year"
	AssertMode         = "mode"
	AssertCountry      = "country"
	AssertCategory     = "category"
	AssertOverlayCount = "overlay_count"
	AssertPointCount   = "point_count"
	AssertGroupCount   = "group_count"
	AssertActiveTimers = "active_timers"
	AssertFrames       = "frames"
)

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}

// ParseScript parses a script, rejecting unknown fields.
func ParseScript(data []byte) (*Script, error) {
	var script Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&script); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks the script's structure.
func (s *Script) Validate() error {
	if s.Name == "" {
		return errors.New("missing required field: name")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case AssertYear, AssertMode, AssertCountry, AssertCategory,
			AssertOverlayCount, AssertPointCount, AssertGroupCount,
			AssertActiveTimers, AssertFrames:
		case "":
			return fmt.Errorf("assertion %d: missing type", i+1)
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i+1, a.Type)
		}
	}
	return nil
}
