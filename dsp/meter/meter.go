package meter

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	defaultDecayTimeMs = 100.0

	// decayRatio is the amplitude ratio reached after one full decay
	// interval of silence: 0.25 is a 12 dB drop.
	decayRatio = 0.25
)

// MeterOption mutates meter construction parameters.
type MeterOption func(*meterConfig) error

type meterConfig struct {
	decayMs float64
}

func defaultMeterConfig() meterConfig {
	return meterConfig{decayMs: defaultDecayTimeMs}
}

// WithDecayTime sets the decay interval in milliseconds.
func WithDecayTime(decayMs float64) MeterOption {
	return func(cfg *meterConfig) error {
		if decayMs <= 0 || math.IsNaN(decayMs) || math.IsInf(decayMs, 0) {
			return fmt.Errorf("meter decay time must be > 0 and finite: %f", decayMs)
		}
		cfg.decayMs = decayMs
		return nil
	}
}

// Meter is a peak meter with instantaneous attack and one-pole decay.
//
// Update belongs to the audio goroutine. Level is a lock-free atomic read,
// safe from any goroutine, which makes a Meter usable as the shared handle
// between a processing pipeline and a display poller.
type Meter struct {
	level atomic.Uint64

	sampleRate  float64
	decayMs     float64
	decayWeight float64
}

// NewMeter creates a peak meter resting at zero.
func NewMeter(sampleRate float64, opts ...MeterOption) (*Meter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("meter sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultMeterConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &Meter{
		sampleRate: sampleRate,
		decayMs:    cfg.decayMs,
	}
	m.updateDecayWeight()

	return m, nil
}

// Update feeds one amplitude observation. Negative values are rectified.
// A value above the current reading replaces it immediately; anything else
// decays the reading one step toward the fed value.
func (m *Meter) Update(amplitude float64) {
	amplitude = math.Abs(amplitude)

	current := math.Float64frombits(m.level.Load())
	next := amplitude
	if amplitude <= current {
		next = current*m.decayWeight + amplitude*(1-m.decayWeight)
	}

	m.level.Store(math.Float64bits(next))
}

// Level returns the current reading as linear amplitude. Safe from any
// goroutine.
func (m *Meter) Level() float64 {
	return math.Float64frombits(m.level.Load())
}

// Reset zeroes the reading.
func (m *Meter) Reset() {
	m.level.Store(0)
}

// SetSampleRate recomputes the decay weight for a new sample rate.
func (m *Meter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("meter sample rate must be > 0 and finite: %f", sampleRate)
	}

	m.sampleRate = sampleRate
	m.updateDecayWeight()

	return nil
}

// SetDecayTime sets the decay interval in milliseconds.
func (m *Meter) SetDecayTime(decayMs float64) error {
	if decayMs <= 0 || math.IsNaN(decayMs) || math.IsInf(decayMs, 0) {
		return fmt.Errorf("meter decay time must be > 0 and finite: %f", decayMs)
	}

	m.decayMs = decayMs
	m.updateDecayWeight()

	return nil
}

// SampleRate returns the sample rate in Hz.
func (m *Meter) SampleRate() float64 { return m.sampleRate }

// DecayTimeMs returns the decay interval in milliseconds.
func (m *Meter) DecayTimeMs() float64 { return m.decayMs }

// DecayWeight returns the per-update decay coefficient.
func (m *Meter) DecayWeight() float64 { return m.decayWeight }

// After one decay interval of silence the reading has fallen to
// decayRatio of its starting value.
func (m *Meter) updateDecayWeight() {
	m.decayWeight = math.Pow(decayRatio, 1/(m.sampleRate*m.decayMs/1000))
}
