package harmonics

import (
	"errors"
	"math"
	"testing"

	"github.com/ardura/GladeDesk/dsp/console"
)

const testSampleRate = 48000.0

// toneAt renders n samples of a sine at freq Hz plus an optional partial.
func toneAt(n int, freq, level, partialFreq, partialLevel float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / testSampleRate
		out[i] = level * math.Sin(2*math.Pi*freq*t)
		if partialLevel != 0 {
			out[i] += partialLevel * math.Sin(2*math.Pi*partialFreq*t)
		}
	}

	return out
}

func TestAnalyzerValidation(t *testing.T) {
	tests := []struct {
		name        string
		sampleRate  float64
		fundamental float64
		wantErr     error
	}{
		{"zero sample rate", 0, 750, ErrInvalidSampleRate},
		{"negative sample rate", -48000, 750, ErrInvalidSampleRate},
		{"NaN sample rate", math.NaN(), 750, ErrInvalidSampleRate},
		{"negative fundamental", 48000, -1, ErrInvalidFundamental},
		{"fundamental at Nyquist", 48000, 24000, ErrInvalidFundamental},
		{"NaN fundamental", 48000, math.NaN(), ErrInvalidFundamental},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze([]float64{0.5}, tt.sampleRate, tt.fundamental)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Analyze() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnalyzeEmptySignal(t *testing.T) {
	if _, err := Analyze(nil, testSampleRate, 750); !errors.Is(err, ErrEmptySignal) {
		t.Errorf("Analyze(nil) error = %v, want ErrEmptySignal", err)
	}
}

func TestAnalyzeSilence(t *testing.T) {
	if _, err := Analyze(make([]float64, 1024), testSampleRate, 750); !errors.Is(err, ErrNoFundamental) {
		t.Error("Analyze() on silence expected ErrNoFundamental")
	}
}

func TestAnalyzePureSine(t *testing.T) {
	// 750 Hz sits exactly on bin 64 of a 4096-point FFT at 48 kHz.
	signal := toneAt(4096, 750, 0.8, 0, 0)

	r, err := Analyze(signal, testSampleRate, 750)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if r.FundamentalFreq != 750 {
		t.Errorf("FundamentalFreq = %v, want 750", r.FundamentalFreq)
	}
	if r.FundamentalLevel <= 0 {
		t.Errorf("FundamentalLevel = %v, want > 0", r.FundamentalLevel)
	}
	if len(r.Harmonics) != 8 {
		t.Fatalf("len(Harmonics) = %d, want 8 (orders 2 through 9)", len(r.Harmonics))
	}
	for i, h := range r.Harmonics {
		if h > 1e-3 {
			t.Errorf("Harmonics[%d] = %v, want below leakage floor", i, h)
		}
	}
	if r.THD > 1e-3 {
		t.Errorf("THD = %v, want near zero for a pure tone", r.THD)
	}
	if !math.IsInf(r.THDdB, -1) && r.THDdB > -60 {
		t.Errorf("THDdB = %v, want far below -60", r.THDdB)
	}
}

func TestAnalyzeLocksOntoStrongestBin(t *testing.T) {
	signal := toneAt(4096, 750, 0.8, 0, 0)

	r, err := Analyze(signal, testSampleRate, 0)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if r.FundamentalFreq != 750 {
		t.Errorf("auto-detected FundamentalFreq = %v, want 750", r.FundamentalFreq)
	}
}

func TestAnalyzeThirdHarmonic(t *testing.T) {
	// A third harmonic 20 dB down: bin 192, also exactly centered.
	signal := toneAt(4096, 750, 1, 2250, 0.1)

	r, err := Analyze(signal, testSampleRate, 750)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if math.Abs(r.Harmonics[1]-0.1) > 0.005 {
		t.Errorf("third harmonic ratio = %v, want 0.1", r.Harmonics[1])
	}
	if r.Harmonics[0] > 0.01 {
		t.Errorf("second harmonic ratio = %v, want near zero", r.Harmonics[0])
	}
	if math.Abs(r.THD-0.1) > 0.005 {
		t.Errorf("THD = %v, want 0.1", r.THD)
	}
	if math.Abs(r.THDdB+20) > 0.5 {
		t.Errorf("THDdB = %v, want -20", r.THDdB)
	}
}

func TestAnalyzeCustomOrderSpan(t *testing.T) {
	a := NewAnalyzer(testSampleRate)
	a.Fundamental = 750
	a.MaxHarmonic = 5

	r, err := a.Analyze(toneAt(4096, 750, 0.5, 0, 0))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if len(r.Harmonics) != 4 {
		t.Errorf("len(Harmonics) = %d, want 4 (orders 2 through 5)", len(r.Harmonics))
	}
}

func TestAnalyzeShaperAddsOnlyOddHarmonics(t *testing.T) {
	clean := make([]float64, 4096)
	driven := make([]float64, 4096)
	for i := range clean {
		x := 0.9 * math.Sin(2*math.Pi*750*float64(i)/testSampleRate)
		clean[i] = console.Shape(x, 0, console.DriveEight)
		driven[i] = console.Shape(x, 1, console.DriveEight)
	}

	cleanR, err := Analyze(clean, testSampleRate, 750)
	if err != nil {
		t.Fatalf("Analyze(clean) error = %v", err)
	}
	drivenR, err := Analyze(driven, testSampleRate, 750)
	if err != nil {
		t.Fatalf("Analyze(driven) error = %v", err)
	}

	if cleanR.THD > 1e-3 {
		t.Errorf("clean THD = %v, want near zero at zero push", cleanR.THD)
	}
	if drivenR.THD < 0.03 {
		t.Errorf("driven THD = %v, want audible distortion at full push", drivenR.THD)
	}

	// The sine stage is an odd function, so it must add odd overtones only.
	if drivenR.Harmonics[1] < 0.03 {
		t.Errorf("third harmonic = %v, want the dominant overtone", drivenR.Harmonics[1])
	}
	if drivenR.Harmonics[0] > 1e-3 {
		t.Errorf("second harmonic = %v, want absent", drivenR.Harmonics[0])
	}
	if drivenR.Harmonics[2] > 1e-3 {
		t.Errorf("fourth harmonic = %v, want absent", drivenR.Harmonics[2])
	}
}

func TestAnalyzeShortSignal(t *testing.T) {
	// 100 samples zero-pad to a 128-point FFT; 3 kHz sits on bin 8.
	signal := toneAt(100, 3000, 0.5, 0, 0)

	r, err := Analyze(signal, testSampleRate, 3000)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if r.FundamentalFreq != 3000 {
		t.Errorf("FundamentalFreq = %v, want 3000", r.FundamentalFreq)
	}
}
