package param

import (
	"fmt"
	"strconv"

	"github.com/ardura/GladeDesk/dsp/core"
)

const defaultSmoothingMs = 30.0

// Formatter renders a plain parameter value for display.
type Formatter func(value float64) string

// ParameterOption mutates parameter construction settings.
type ParameterOption func(*parameterConfig) error

type parameterConfig struct {
	unit      string
	law       SmoothingLaw
	timeMs    float64
	formatter Formatter
}

func defaultParameterConfig() parameterConfig {
	return parameterConfig{
		law:    SmoothLinear,
		timeMs: defaultSmoothingMs,
	}
}

// WithUnit sets the display unit suffix.
func WithUnit(unit string) ParameterOption {
	return func(cfg *parameterConfig) error {
		cfg.unit = unit
		return nil
	}
}

// WithSmoothing sets the smoothing law and time constant in milliseconds.
func WithSmoothing(law SmoothingLaw, timeMs float64) ParameterOption {
	return func(cfg *parameterConfig) error {
		if law != SmoothLinear && law != SmoothLogarithmic {
			return fmt.Errorf("parameter smoothing law must be linear or logarithmic: %d", law)
		}
		if timeMs < 0 || !isFinite(timeMs) {
			return fmt.Errorf("parameter smoothing time must be >= 0 and finite: %f", timeMs)
		}
		cfg.law = law
		cfg.timeMs = timeMs
		return nil
	}
}

// WithFormatter sets the display formatter.
func WithFormatter(f Formatter) ParameterOption {
	return func(cfg *parameterConfig) error {
		cfg.formatter = f
		return nil
	}
}

// Parameter is a named, ranged, smoothed value.
type Parameter struct {
	*Smoother

	name      string
	unit      string
	def       float64
	formatter Formatter
}

// NewParameter creates a parameter resting at its default value.
func NewParameter(sampleRate float64, name string, def float64, rng Range, opts ...ParameterOption) (*Parameter, error) {
	if name == "" {
		return nil, fmt.Errorf("parameter name must not be empty")
	}

	cfg := defaultParameterConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s, err := NewSmoother(sampleRate, def, rng, cfg.law, cfg.timeMs)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}

	return &Parameter{
		Smoother:  s,
		name:      name,
		unit:      cfg.unit,
		def:       rng.Clamp(def),
		formatter: cfg.formatter,
	}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Unit returns the display unit suffix.
func (p *Parameter) Unit() string { return p.unit }

// Default returns the default value.
func (p *Parameter) Default() float64 { return p.def }

// Format renders a value with the configured formatter and appends the
// display unit. Without a formatter it falls back to a compact numeric form.
func (p *Parameter) Format(v float64) string {
	if p.formatter != nil {
		return p.formatter(v) + p.unit
	}

	return strconv.FormatFloat(v, 'g', 6, 64) + p.unit
}

// String renders the parameter name and its published target.
func (p *Parameter) String() string {
	return p.name + ": " + p.Format(p.Target())
}

// GainDBFormatter renders a linear amplitude value as a dB figure with the
// given number of decimals. The unit suffix stays with the parameter.
func GainDBFormatter(decimals int) Formatter {
	return func(v float64) string {
		return strconv.FormatFloat(core.LinearToDB(v), 'f', decimals, 64)
	}
}

// PercentFormatter renders a [0, 1] fraction as a percentage figure.
func PercentFormatter(decimals int) Formatter {
	return func(v float64) string {
		return strconv.FormatFloat(v*100, 'f', decimals, 64)
	}
}

// RoundedFormatter renders a value with a fixed number of decimals.
func RoundedFormatter(decimals int) Formatter {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', decimals, 64)
	}
}
