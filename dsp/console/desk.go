package console

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ardura/GladeDesk/dsp/core"
	"github.com/ardura/GladeDesk/dsp/meter"
	"github.com/ardura/GladeDesk/dsp/param"
)

const (
	defaultTapCount = 8
	minTapCount     = 1
	maxTapCount     = 64

	minGainDB = -12.0
	maxGainDB = 12.0

	minMultiplier     = 1.0
	maxMultiplier     = 10.0
	multiplierSkew    = 0.5
	defaultMultiplier = 1.0

	tapCoeffLimit = 0.5

	controlSmoothingMs = 30.0
	outputSmoothingMs  = 50.0
)

// Parameter names, stable across saved state.
const (
	ParamInputGain  = "free_gain"
	ParamPush       = "Push"
	ParamMultiplier = "Multiplier"
	ParamOutputGain = "output_gain"
	ParamDryWet     = "dry_wet"
)

// TapCoeffName returns the coefficient parameter name of tap i (0-based).
func TapCoeffName(i int) string {
	return strconv.Itoa(i+1) + "_Coeff"
}

// TapSkewName returns the skew parameter name of tap i (0-based).
func TapSkewName(i int) string {
	return strconv.Itoa(i+1) + "_Skew"
}

// DeskOption mutates desk construction parameters.
type DeskOption func(*deskConfig) error

type deskConfig struct {
	tapCount int
	drive    float64
	driveSet bool
	pre      *meter.Meter
	post     *meter.Meter
}

func defaultDeskConfig() deskConfig {
	return deskConfig{tapCount: defaultTapCount}
}

// WithTapCount sets how many history taps the desk mixes: 8 for the full
// desk voicing, 2 for the duo voicing (which also drops the multiplier
// control and drives the sine stage at DriveTwo).
func WithTapCount(n int) DeskOption {
	return func(cfg *deskConfig) error {
		if n < minTapCount || n > maxTapCount {
			return fmt.Errorf("desk tap count must be in [%d, %d]: %d", minTapCount, maxTapCount, n)
		}
		cfg.tapCount = n
		return nil
	}
}

// WithDrive overrides the sine drive of the push stage.
func WithDrive(drive float64) DeskOption {
	return func(cfg *deskConfig) error {
		if drive <= 0 || math.IsNaN(drive) || math.IsInf(drive, 0) {
			return fmt.Errorf("desk drive must be > 0 and finite: %f", drive)
		}
		cfg.drive = drive
		cfg.driveSet = true
		return nil
	}
}

// WithMeters attaches pre and post peak meters as the shared handles a
// display layer polls. Metering work is skipped entirely when no meters are
// attached.
func WithMeters(pre, post *meter.Meter) DeskOption {
	return func(cfg *deskConfig) error {
		if pre == nil || post == nil {
			return fmt.Errorf("desk meters must not be nil")
		}
		cfg.pre = pre
		cfg.post = post
		return nil
	}
}

// Desk is the console coloration pipeline.
//
// ProcessFrame and friends belong to one audio goroutine. Parameter targets
// and meter levels cross goroutines through atomics, so a control surface
// may write targets and a display may poll meters concurrently with
// processing.
type Desk struct {
	sampleRate float64
	tapCount   int
	drive      float64

	params     *param.Set
	inGain     *param.Parameter
	push       *param.Parameter
	multiplier *param.Parameter // nil in the two-tap voicing
	outGain    *param.Parameter
	dryWet     *param.Parameter
	tapCoeffs  []*param.Parameter
	tapSkews   []*param.Parameter

	bank  *TapBank
	left  *History
	right *History

	preMeter  *meter.Meter
	postMeter *meter.Meter
}

// NewDesk creates a desk with the default eight-tap voicing and all
// parameters at rest.
func NewDesk(sampleRate float64, opts ...DeskOption) (*Desk, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("desk sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultDeskConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	drive := DriveEight
	if cfg.tapCount == 2 {
		drive = DriveTwo
	}
	if cfg.driveSet {
		drive = cfg.drive
	}

	d := &Desk{
		sampleRate: sampleRate,
		tapCount:   cfg.tapCount,
		drive:      drive,
		preMeter:   cfg.pre,
		postMeter:  cfg.post,
	}

	if err := d.buildParams(); err != nil {
		return nil, err
	}

	bank, err := NewTapBank(cfg.tapCount)
	if err != nil {
		return nil, err
	}
	left, err := NewHistory(cfg.tapCount)
	if err != nil {
		return nil, err
	}
	right, err := NewHistory(cfg.tapCount)
	if err != nil {
		return nil, err
	}

	d.bank = bank
	d.left = left
	d.right = right

	return d, nil
}

// ProcessFrame runs one stereo frame through the desk and returns the
// processed pair.
func (d *Desk) ProcessFrame(left, right float64) (float64, float64) {
	gain := d.inGain.Next()
	push := d.push.Next()
	mult := 1.0
	if d.multiplier != nil {
		mult = d.multiplier.Next()
	}
	for i, c := range d.tapCoeffs {
		d.bank.coeffs[i] = c.Next()
	}
	for i, s := range d.tapSkews {
		d.bank.skews[i] = s.Next()
	}
	outGain := d.outGain.Next()
	wet := d.dryWet.Next()

	gainedL := left * gain
	gainedR := right * gain

	metering := d.preMeter != nil

	var preAmp float64
	if metering {
		preAmp = (gainedL + gainedR) / 2
	}

	inL := core.GuardDenormal(gainedL)
	inR := core.GuardDenormal(gainedR)

	shapedL := Shape(inL, push, d.drive)
	shapedR := Shape(inR, push, d.drive)

	d.left.Push(shapedL)
	d.right.Push(shapedR)

	sumL := d.bank.Sum(d.left, mult)
	sumR := d.bank.Sum(d.right, mult)

	// Additive blend: the tap mix rides on top of the gained dry signal.
	outL := (inL + sumL*wet) * outGain
	outR := (inR + sumR*wet) * outGain

	if metering {
		d.preMeter.Update(preAmp)
		d.postMeter.Update((outL + outR) / 2)
	}

	return outL, outR
}

// ProcessInPlace processes matching stereo buffers in place.
func (d *Desk) ProcessInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("desk channel buffers must match: %d != %d", len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = d.ProcessFrame(left[i], right[i])
	}

	return nil
}

// ProcessMonoFrame feeds one sample through both channels and returns the
// left output.
func (d *Desk) ProcessMonoFrame(sample float64) float64 {
	l, _ := d.ProcessFrame(sample, sample)
	return l
}

// ProcessMonoInPlace processes a mono buffer in place.
func (d *Desk) ProcessMonoInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessMonoFrame(buf[i])
	}
}

// SetSampleRate reconfigures the desk for a new sample rate: parameter
// ramps and meter decay weights are re-derived and both histories are
// cleared.
func (d *Desk) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("desk sample rate must be > 0 and finite: %f", sampleRate)
	}

	if err := d.params.SetSampleRate(sampleRate); err != nil {
		return err
	}
	if d.preMeter != nil {
		if err := d.preMeter.SetSampleRate(sampleRate); err != nil {
			return err
		}
		if err := d.postMeter.SetSampleRate(sampleRate); err != nil {
			return err
		}
	}

	d.sampleRate = sampleRate
	d.left.Reset()
	d.right.Reset()

	return nil
}

// Reset clears histories and meters without touching parameter state.
func (d *Desk) Reset() {
	d.left.Reset()
	d.right.Reset()

	if d.preMeter != nil {
		d.preMeter.Reset()
		d.postMeter.Reset()
	}
}

// Parameters returns the desk's parameter set.
func (d *Desk) Parameters() *param.Set { return d.params }

// Meters returns the attached pre and post meters, or nil when detached.
func (d *Desk) Meters() (pre, post *meter.Meter) {
	return d.preMeter, d.postMeter
}

// SampleRate returns the sample rate in Hz.
func (d *Desk) SampleRate() float64 { return d.sampleRate }

// TapCount returns the number of history taps.
func (d *Desk) TapCount() int { return d.tapCount }

// Drive returns the sine drive of the push stage.
func (d *Desk) Drive() float64 { return d.drive }

func (d *Desk) buildParams() error {
	inGain, err := param.NewParameter(d.sampleRate, ParamInputGain, 1,
		param.GainRange(minGainDB, maxGainDB),
		param.WithUnit(" In Gain"),
		param.WithSmoothing(param.SmoothLogarithmic, controlSmoothingMs),
		param.WithFormatter(param.GainDBFormatter(1)),
	)
	if err != nil {
		return err
	}

	push, err := param.NewParameter(d.sampleRate, ParamPush, 0,
		param.LinearRange(0, 1),
		param.WithUnit("% Pushed"),
		param.WithSmoothing(param.SmoothLinear, controlSmoothingMs),
		param.WithFormatter(param.PercentFormatter(2)),
	)
	if err != nil {
		return err
	}

	if d.tapCount != 2 {
		mult, err := param.NewParameter(d.sampleRate, ParamMultiplier, defaultMultiplier,
			param.SkewedRange(minMultiplier, maxMultiplier, multiplierSkew),
			param.WithUnit(" x Mult"),
			param.WithSmoothing(param.SmoothLinear, controlSmoothingMs),
			param.WithFormatter(param.RoundedFormatter(4)),
		)
		if err != nil {
			return err
		}
		d.multiplier = mult
	}

	d.tapCoeffs = make([]*param.Parameter, d.tapCount)
	d.tapSkews = make([]*param.Parameter, d.tapCount)
	for i := range d.tapCount {
		coeff, err := param.NewParameter(d.sampleRate, TapCoeffName(i), 0,
			param.LinearRange(-tapCoeffLimit, tapCoeffLimit),
			param.WithSmoothing(param.SmoothLinear, controlSmoothingMs),
			param.WithFormatter(param.RoundedFormatter(6)),
		)
		if err != nil {
			return err
		}
		skew, err := param.NewParameter(d.sampleRate, TapSkewName(i), 0,
			param.LinearRange(-tapCoeffLimit, tapCoeffLimit),
			param.WithSmoothing(param.SmoothLinear, controlSmoothingMs),
			param.WithFormatter(param.RoundedFormatter(6)),
		)
		if err != nil {
			return err
		}

		d.tapCoeffs[i] = coeff
		d.tapSkews[i] = skew
	}

	outGain, err := param.NewParameter(d.sampleRate, ParamOutputGain, 1,
		param.GainRange(minGainDB, maxGainDB),
		param.WithUnit(" Out Gain"),
		param.WithSmoothing(param.SmoothLogarithmic, outputSmoothingMs),
		param.WithFormatter(param.GainDBFormatter(1)),
	)
	if err != nil {
		return err
	}

	dryWet, err := param.NewParameter(d.sampleRate, ParamDryWet, 1,
		param.LinearRange(0, 1),
		param.WithUnit("% Wet"),
		param.WithSmoothing(param.SmoothLinear, outputSmoothingMs),
		param.WithFormatter(param.PercentFormatter(2)),
	)
	if err != nil {
		return err
	}

	ordered := []*param.Parameter{inGain, push}
	if d.multiplier != nil {
		ordered = append(ordered, d.multiplier)
	}
	for i := range d.tapCount {
		ordered = append(ordered, d.tapCoeffs[i], d.tapSkews[i])
	}
	ordered = append(ordered, outGain, dryWet)

	set := param.NewSet()
	for _, p := range ordered {
		if err := set.Add(p); err != nil {
			return err
		}
	}

	d.inGain = inGain
	d.push = push
	d.outGain = outGain
	d.dryWet = dryWet
	d.params = set

	return nil
}
