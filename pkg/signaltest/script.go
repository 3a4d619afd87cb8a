package signaltest

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/go-tether/tether/pkg/errors"
	"github.com/go-tether/tether/pkg/signal"
)

// Script is a YAML-described scenario executed against an integer
// relay. The relay starts at Initial, the named Observers are
// registered up front (each sees the replay of Initial), and Steps run
// in order:
//
//	initial: 5
//	observers: [a, b]
//	steps:
//	  - emit: 6
//	  - cancel: a
//	  - emit: 7
//	  - expect:
//	      a: [5, 6]
//	      b: [5, 6, 7]
type Script struct {
	Initial   int      `yaml:"initial"`
	Observers []string `yaml:"observers"`
	Steps     []Step   `yaml:"steps"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	// Emit broadcasts a value.
	Emit *int `yaml:"emit,omitempty"`
	// EmitIfChanged broadcasts a value only if it differs from the
	// current one.
	EmitIfChanged *int `yaml:"emitIfChanged,omitempty"`
	// Observe registers a new named observer (replay applies).
	Observe string `yaml:"observe,omitempty"`
	// Cancel cancels a named observer's token.
	Cancel string `yaml:"cancel,omitempty"`
	// Expect asserts the full sequence each named observer has
	// received so far.
	Expect map[string][]int `yaml:"expect,omitempty"`
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &errors.TetherError{
			Op:   "signaltest.ParseScript",
			Kind: errors.KindParsing,
			Err:  err,
		}
	}
	return &s, nil
}

// RunScript parses and runs a YAML script in one call.
func RunScript(data []byte) error {
	s, err := ParseScript(data)
	if err != nil {
		return err
	}
	return s.Run()
}

// Run executes the script against a fresh relay and returns an error
// describing the first failed expectation or malformed step.
func (s *Script) Run() error {
	relay := signal.NewRelay(s.Initial)
	recorders := make(map[string]*Recorder[int])
	tokens := make(map[string]*signal.Token)

	observe := func(name string) error {
		if _, ok := recorders[name]; ok {
			return fmt.Errorf("observer %q registered twice", name)
		}
		rec := NewRecorder[int]()
		recorders[name] = rec
		tokens[name] = relay.Observe(rec.Callback())
		return nil
	}

	for _, name := range s.Observers {
		if err := observe(name); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		switch {
		case step.Emit != nil:
			relay.Emit(*step.Emit)
		case step.EmitIfChanged != nil:
			signal.EmitIfChanged(relay, *step.EmitIfChanged)
		case step.Observe != "":
			if err := observe(step.Observe); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		case step.Cancel != "":
			tok, ok := tokens[step.Cancel]
			if !ok {
				return fmt.Errorf("step %d: cancel of unknown observer %q", i, step.Cancel)
			}
			tok.Cancel()
		case step.Expect != nil:
			for name, want := range step.Expect {
				rec, ok := recorders[name]
				if !ok {
					return fmt.Errorf("step %d: expectation for unknown observer %q", i, name)
				}
				if got := rec.Values(); !slices.Equal(got, want) {
					return fmt.Errorf("step %d: observer %q received %v, want %v", i, name, got, want)
				}
			}
		default:
			return fmt.Errorf("step %d: no action set", i)
		}
	}
	return nil
}
