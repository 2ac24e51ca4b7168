package harmonics

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultMaxHarmonic = 9
	defaultCaptureBins = 2
)

// Errors returned by harmonic analysis.
var (
	ErrEmptySignal        = errors.New("harmonics: signal is empty")
	ErrInvalidSampleRate  = errors.New("harmonics: sample rate must be positive")
	ErrInvalidFundamental = errors.New("harmonics: fundamental must be positive and below Nyquist")
	ErrNoFundamental      = errors.New("harmonics: no fundamental energy found")
)

// Result holds the harmonic decomposition of an analyzed tone.
type Result struct {
	FundamentalFreq  float64   // fundamental bin frequency in Hz
	FundamentalLevel float64   // windowed linear magnitude of the fundamental
	Harmonics        []float64 // Harmonics[i] is the level of order i+2 relative to the fundamental
	THD              float64   // RMS sum of the harmonic ratios
	THDdB            float64   // THD in dB, -Inf for a clean tone
}

// Analyzer measures harmonic content from time-domain signals.
type Analyzer struct {
	SampleRate  float64 // sample rate in Hz
	Fundamental float64 // probe tone frequency in Hz; 0 locks onto the strongest bin
	MaxHarmonic int     // highest harmonic order analyzed (default 9)
	CaptureBins int     // bins integrated on each side of a peak (default 2, the Hann main lobe)
}

// NewAnalyzer creates a harmonic analyzer with default capture settings.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{
		SampleRate:  sampleRate,
		MaxHarmonic: defaultMaxHarmonic,
		CaptureBins: defaultCaptureBins,
	}
}

// Analyze is a one-shot harmonic analysis with default capture settings.
func Analyze(signal []float64, sampleRate, fundamental float64) (Result, error) {
	a := NewAnalyzer(sampleRate)
	a.Fundamental = fundamental

	return a.Analyze(signal)
}

// Validate checks that the analyzer parameters are usable.
func (a *Analyzer) Validate() error {
	if a.SampleRate <= 0 || math.IsNaN(a.SampleRate) || math.IsInf(a.SampleRate, 0) {
		return ErrInvalidSampleRate
	}

	if a.Fundamental < 0 || a.Fundamental >= a.SampleRate/2 || math.IsNaN(a.Fundamental) {
		return ErrInvalidFundamental
	}

	return nil
}

// Analyze windows the signal, takes an FFT, and reads the level of each
// harmonic relative to the fundamental.
//
// The signal is zero-padded to the next power of two. With Fundamental set,
// the fundamental bin is forced to that frequency; otherwise the strongest
// bin wins. Each level integrates CaptureBins neighbours on both sides so
// window spread does not split peak energy across bins.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, err
	}

	if len(signal) == 0 {
		return Result{}, ErrEmptySignal
	}

	fftSize := nextPowerOfTwo(len(signal))

	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	applyHann(windowed)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, err
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, err
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)
	for i := range binCount {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, binCount)
	vecmath.Magnitude(mag, re, im)

	binHz := a.SampleRate / float64(fftSize)
	maxBin := binCount - 1

	fundamentalBin := a.findFundamentalBin(mag, binHz, maxBin)

	capture := a.CaptureBins
	if capture <= 0 {
		capture = defaultCaptureBins
	}
	if capture*2 > fundamentalBin {
		capture = fundamentalBin / 2
	}

	fundamentalLevel := peakLevel(mag, fundamentalBin, capture)
	if fundamentalLevel <= 0 {
		return Result{}, ErrNoFundamental
	}

	maxHarmonic := a.MaxHarmonic
	if maxHarmonic < 2 {
		maxHarmonic = defaultMaxHarmonic
	}

	ratios := make([]float64, 0, maxHarmonic-1)
	sumSquares := 0.0
	for k := 2; k <= maxHarmonic; k++ {
		bin := k * fundamentalBin
		if bin > maxBin {
			break
		}

		ratio := peakLevel(mag, bin, capture) / fundamentalLevel
		ratios = append(ratios, ratio)
		sumSquares += ratio * ratio
	}

	thd := math.Sqrt(sumSquares)

	return Result{
		FundamentalFreq:  float64(fundamentalBin) * binHz,
		FundamentalLevel: fundamentalLevel,
		Harmonics:        ratios,
		THD:              thd,
		THDdB:            ratioToDB(thd),
	}, nil
}

func (a *Analyzer) findFundamentalBin(mag []float64, binHz float64, maxBin int) int {
	if a.Fundamental > 0 {
		bin := int(math.Round(a.Fundamental / binHz))
		if bin < 1 {
			bin = 1
		}
		if bin > maxBin {
			bin = maxBin
		}

		return bin
	}

	bestBin := 1
	bestVal := -1.0
	for i := 1; i <= maxBin; i++ {
		if mag[i] > bestVal {
			bestVal = mag[i]
			bestBin = i
		}
	}

	return bestBin
}

// peakLevel integrates the magnitude neighbourhood around a bin.
func peakLevel(mag []float64, bin, capture int) float64 {
	if bin < 0 || bin >= len(mag) {
		return 0
	}

	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(mag)-1)

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mag[i]
	}

	return sum
}

// applyHann tapers the buffer with a symmetric Hann window.
func applyHann(buf []float64) {
	n := len(buf)
	if n < 2 {
		return
	}

	coeffs := make([]float64, n)
	den := float64(n - 1)
	for i := range coeffs {
		coeffs[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/den)
	}

	vecmath.MulBlockInPlace(buf, coeffs)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
