package param

import (
	"errors"
	"fmt"
)

// ErrUnknownParameter is returned when a name does not match any parameter
// in a Set.
var ErrUnknownParameter = errors.New("unknown parameter")

// Set is an ordered parameter collection with name lookup.
//
// Add belongs to setup; SetTarget, Snapshot and Restore are safe from
// control goroutines once setup is done, since they only touch atomic
// targets.
type Set struct {
	ordered []*Parameter
	byName  map[string]*Parameter
}

// NewSet creates an empty parameter set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Parameter)}
}

// Add appends a parameter. Duplicate names are rejected.
func (s *Set) Add(p *Parameter) error {
	if p == nil {
		return fmt.Errorf("parameter must not be nil")
	}

	if _, exists := s.byName[p.Name()]; exists {
		return fmt.Errorf("duplicate parameter name: %q", p.Name())
	}

	s.ordered = append(s.ordered, p)
	s.byName[p.Name()] = p

	return nil
}

// ByName returns the named parameter.
func (s *Set) ByName(name string) (*Parameter, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return p, nil
}

// List returns the parameters in insertion order. The returned slice is
// shared; callers must not modify it.
func (s *Set) List() []*Parameter { return s.ordered }

// Len returns the parameter count.
func (s *Set) Len() int { return len(s.ordered) }

// SetTarget publishes a target for the named parameter, clamped into its
// range.
func (s *Set) SetTarget(name string, value float64) error {
	p, err := s.ByName(name)
	if err != nil {
		return err
	}

	p.SetTarget(value)

	return nil
}

// Snapshot returns every parameter's published target keyed by name.
func (s *Set) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.ordered))
	for _, p := range s.ordered {
		out[p.Name()] = p.Target()
	}

	return out
}

// Restore publishes targets from values. Unknown keys are ignored, missing
// keys leave their parameters untouched, and values clamp into each range.
func (s *Set) Restore(values map[string]float64) {
	for name, v := range values {
		if p, ok := s.byName[name]; ok {
			p.SetTarget(v)
		}
	}
}

// SetSampleRate re-derives every parameter's ramp for a new sample rate.
func (s *Set) SetSampleRate(sampleRate float64) error {
	for _, p := range s.ordered {
		if err := p.SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	return nil
}
