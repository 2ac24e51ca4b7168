package param

import (
	"fmt"
	"math"
	"sync/atomic"
)

// logRatioFloor guards the logarithmic law's ratio computation against zero
// or negative endpoints.
const logRatioFloor = 1e-12

// SmoothingLaw selects how a smoothed value approaches its target.
type SmoothingLaw int

const (
	// SmoothLinear ramps with a constant per-sample increment.
	SmoothLinear SmoothingLaw = iota
	// SmoothLogarithmic ramps with a constant per-sample ratio, so gain-like
	// values change at a constant perceived rate. Endpoints are floored to a
	// small positive constant for the ratio computation.
	SmoothLogarithmic
)

// String returns the law name.
func (l SmoothingLaw) String() string {
	if l == SmoothLogarithmic {
		return "logarithmic"
	}

	return "linear"
}

// Smoother ramps a value toward an atomically published target, one step per
// audio frame.
//
// SetTarget and Target are safe from any goroutine; Next, Value, Reset and
// SetSampleRate belong to the audio goroutine.
type Smoother struct {
	target atomic.Uint64

	rng        Range
	law        SmoothingLaw
	timeMs     float64
	sampleRate float64

	planned   float64
	current   float64
	step      float64
	stepsLeft int
}

// NewSmoother creates a smoother resting at initial, clamped into rng.
func NewSmoother(sampleRate, initial float64, rng Range, law SmoothingLaw, timeMs float64) (*Smoother, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}

	if !isFinite(initial) {
		return nil, fmt.Errorf("smoother initial value must be finite: %f", initial)
	}

	if law != SmoothLinear && law != SmoothLogarithmic {
		return nil, fmt.Errorf("smoother law must be linear or logarithmic: %d", law)
	}

	if timeMs < 0 || !isFinite(timeMs) {
		return nil, fmt.Errorf("smoother time must be >= 0 and finite: %f", timeMs)
	}

	if err := rng.validate(); err != nil {
		return nil, err
	}

	s := &Smoother{
		rng:        rng,
		law:        law,
		timeMs:     timeMs,
		sampleRate: sampleRate,
	}
	s.Reset(initial)

	return s, nil
}

// SetTarget publishes a new target, clamped into range. NaN is ignored.
// Safe to call from any goroutine.
func (s *Smoother) SetTarget(v float64) {
	if math.IsNaN(v) {
		return
	}

	s.target.Store(math.Float64bits(s.rng.Clamp(v)))
}

// Target returns the published target value. Safe from any goroutine.
func (s *Smoother) Target() float64 {
	return math.Float64frombits(s.target.Load())
}

// Value returns the current smoothed value without advancing it.
func (s *Smoother) Value() float64 { return s.current }

// Next advances one step toward the target and returns the smoothed value.
// Once the ramp is exhausted it returns the target exactly and stays there.
func (s *Smoother) Next() float64 {
	target := math.Float64frombits(s.target.Load())
	if target != s.planned {
		s.plan(target)
	}

	switch {
	case s.stepsLeft > 1:
		s.stepsLeft--
		if s.law == SmoothLogarithmic {
			s.current *= s.step
		} else {
			s.current += s.step
		}
	case s.stepsLeft == 1:
		s.stepsLeft = 0
		s.current = target
	}

	return s.current
}

// Reset snaps the value and target to v, clamped into range, ending any
// ramp. NaN is ignored.
func (s *Smoother) Reset(v float64) {
	if math.IsNaN(v) {
		return
	}

	v = s.rng.Clamp(v)
	s.target.Store(math.Float64bits(v))
	s.planned = v
	s.current = v
	s.step = 0
	s.stepsLeft = 0
}

// SetSampleRate re-derives the ramp length for a new sample rate. An active
// ramp is replanned from the current value.
func (s *Smoother) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate
	if s.stepsLeft > 0 {
		s.plan(math.Float64frombits(s.target.Load()))
	}

	return nil
}

// Range returns the value range.
func (s *Smoother) Range() Range { return s.rng }

// Law returns the smoothing law.
func (s *Smoother) Law() SmoothingLaw { return s.law }

// SmoothingTimeMs returns the ramp time constant in milliseconds.
func (s *Smoother) SmoothingTimeMs() float64 { return s.timeMs }

// SampleRate returns the sample rate in Hz.
func (s *Smoother) SampleRate() float64 { return s.sampleRate }

func (s *Smoother) plan(target float64) {
	s.planned = target

	steps := int(math.Round(s.timeMs / 1000 * s.sampleRate))
	if steps < 1 || target == s.current {
		s.stepsLeft = 1
		s.step = 0

		return
	}

	s.stepsLeft = steps
	if s.law == SmoothLogarithmic {
		from := max(s.current, logRatioFloor)
		to := max(target, logRatioFloor)
		s.step = mathPow(to/from, 1/float64(steps))

		return
	}

	s.step = (target - s.current) / float64(steps)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
