package console

import (
	"fmt"
	"math"
)

// TapBank weights a History into a single coloration sample.
//
// Tap i contributes sign(i) * h[i] * (coeff[i]*mult + skew[i]*mult*|h[i]|).
// The sign pattern is positive for the first two taps and alternates from
// there, negative on even indices: + + - + - + - + for eight taps, + + for
// two.
type TapBank struct {
	signs  []float64
	coeffs []float64
	skews  []float64
}

// NewTapBank creates a bank of depth taps with zeroed coefficients and
// skews.
func NewTapBank(depth int) (*TapBank, error) {
	if depth < 1 {
		return nil, fmt.Errorf("tap bank depth must be >= 1: %d", depth)
	}

	b := &TapBank{
		signs:  make([]float64, depth),
		coeffs: make([]float64, depth),
		skews:  make([]float64, depth),
	}
	for i := range b.signs {
		b.signs[i] = tapSign(i)
	}

	return b, nil
}

// SetTap sets the coefficient and skew of tap i. Out-of-range indices are
// ignored.
func (b *TapBank) SetTap(i int, coeff, skew float64) {
	if i < 0 || i >= len(b.coeffs) {
		return
	}

	b.coeffs[i] = coeff
	b.skews[i] = skew
}

// Sign returns the sign of tap i as +1 or -1.
func (b *TapBank) Sign(i int) float64 {
	if i < 0 || i >= len(b.signs) {
		return 0
	}

	return b.signs[i]
}

// Len returns the tap count.
func (b *TapBank) Len() int { return len(b.coeffs) }

// Sum weights h through the bank. mult scales coefficient and skew of every
// tap alike.
func (b *TapBank) Sum(h *History, mult float64) float64 {
	sum := 0.0
	for i := range b.coeffs {
		s := h.At(i)
		sum += b.signs[i] * s * (b.coeffs[i]*mult + b.skews[i]*mult*math.Abs(s))
	}

	return sum
}

func tapSign(i int) float64 {
	if i >= 2 && i%2 == 0 {
		return -1
	}

	return 1
}
