package param

import (
	"fmt"
	"math"

	"github.com/ardura/GladeDesk/dsp/core"
)

type rangeKind int

const (
	rangeLinear rangeKind = iota
	rangeSkewed
)

// Range maps between plain parameter values and normalized [0, 1] positions.
// The zero value is not usable; build ranges with LinearRange, SkewedRange
// or GainRange.
type Range struct {
	kind   rangeKind
	min    float64
	max    float64
	factor float64
}

// LinearRange returns a range with a proportional normalized mapping.
func LinearRange(min, max float64) Range {
	return Range{kind: rangeLinear, min: min, max: max, factor: 1}
}

// SkewedRange returns a range whose normalized position is warped by factor.
// Factors below 1 devote more of the normalized travel to values near min,
// factors above 1 to values near max. Factor 1 behaves like LinearRange.
func SkewedRange(min, max, factor float64) Range {
	return Range{kind: rangeSkewed, min: min, max: max, factor: factor}
}

// GainRange returns a skewed range over linear amplitude covering
// [minDB, maxDB], warped so the dB midpoint sits at the center of the
// normalized travel. Gain knobs built on it feel linear in dB.
func GainRange(minDB, maxDB float64) Range {
	return Range{
		kind:   rangeSkewed,
		min:    core.DBToLinear(minDB),
		max:    core.DBToLinear(maxDB),
		factor: GainSkewFactor(minDB, maxDB),
	}
}

// GainSkewFactor computes the skew factor that places the dB midpoint of
// [minDB, maxDB] at normalized position 0.5.
func GainSkewFactor(minDB, maxDB float64) float64 {
	minLin := core.DBToLinear(minDB)
	maxLin := core.DBToLinear(maxDB)
	midLin := core.DBToLinear((minDB + maxDB) / 2)

	fraction := (midLin - minLin) / (maxLin - minLin)

	return math.Log(0.5) / math.Log(fraction)
}

// Min returns the lower bound.
func (r Range) Min() float64 { return r.min }

// Max returns the upper bound.
func (r Range) Max() float64 { return r.max }

// Clamp limits v to the range bounds.
func (r Range) Clamp(v float64) float64 {
	return core.Clamp(v, r.min, r.max)
}

// Contains reports whether v lies inside the range bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.min && v <= r.max
}

// Normalize maps a plain value to its normalized [0, 1] position. Values
// outside the range clamp to the nearest end.
func (r Range) Normalize(v float64) float64 {
	span := r.max - r.min
	if span <= 0 {
		return 0
	}

	fraction := core.Clamp((r.Clamp(v)-r.min)/span, 0, 1)
	if r.kind == rangeSkewed && r.factor != 1 && fraction > 0 {
		fraction = mathPow(fraction, r.factor)
	}

	return fraction
}

// Denormalize maps a normalized [0, 1] position back to a plain value.
func (r Range) Denormalize(pos float64) float64 {
	pos = core.Clamp(pos, 0, 1)
	if r.kind == rangeSkewed && r.factor != 1 && pos > 0 {
		pos = mathPow(pos, 1/r.factor)
	}

	return r.min + (r.max-r.min)*pos
}

func (r Range) validate() error {
	if !isFinite(r.min) || !isFinite(r.max) {
		return fmt.Errorf("range bounds must be finite: [%f, %f]", r.min, r.max)
	}

	if r.min >= r.max {
		return fmt.Errorf("range min must be below max: [%f, %f]", r.min, r.max)
	}

	if r.kind == rangeSkewed && (r.factor <= 0 || !isFinite(r.factor)) {
		return fmt.Errorf("range skew factor must be > 0 and finite: %f", r.factor)
	}

	return nil
}
