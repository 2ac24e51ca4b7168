//go:build !fastmath

package param

import "math"

// mathPow computes base^exp using standard library math.
func mathPow(base, exp float64) float64 {
	return math.Pow(base, exp)
}
