// Package signal provides probe sources for exercising the console
// processor, such as phase-continuous sine oscillators for listening
// tests and distortion measurements.
package signal

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Oscillator is a phase-continuous sine source. It renders one sample
// per Next call, so successive buffers join without phase jumps.
type Oscillator struct {
	sampleRate float64
	freq       float64
	level      float64
	phase      float64
	step       float64
}

// NewOscillator creates an oscillator producing level*sin at freqHz.
// The frequency must lie strictly between 0 and the Nyquist limit.
func NewOscillator(sampleRate, freqHz, level float64) (*Oscillator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("oscillator sample rate must be > 0 and finite: %f", sampleRate)
	}
	if freqHz <= 0 || math.IsNaN(freqHz) || freqHz >= sampleRate/2 {
		return nil, fmt.Errorf("oscillator frequency must be > 0 and below Nyquist %f: %f", sampleRate/2, freqHz)
	}
	if level < 0 || math.IsNaN(level) || math.IsInf(level, 0) {
		return nil, fmt.Errorf("oscillator level must be >= 0 and finite: %f", level)
	}

	return &Oscillator{
		sampleRate: sampleRate,
		freq:       freqHz,
		level:      level,
		step:       twoPi * freqHz / sampleRate,
	}, nil
}

// Next returns the current sample and advances the phase.
func (o *Oscillator) Next() float64 {
	v := o.level * math.Sin(o.phase)
	o.phase += o.step
	if o.phase >= twoPi {
		o.phase -= twoPi
	}

	return v
}

// Fill renders len(out) consecutive samples into out.
func (o *Oscillator) Fill(out []float64) {
	for i := range out {
		out[i] = o.Next()
	}
}

// Reset rewinds the phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}

// SampleRate returns the configured sample rate in Hz.
func (o *Oscillator) SampleRate() float64 {
	return o.sampleRate
}

// Freq returns the configured frequency in Hz.
func (o *Oscillator) Freq() float64 {
	return o.freq
}

// Level returns the configured peak level.
func (o *Oscillator) Level() float64 {
	return o.level
}
