//go:build fastmath

package param

import (
	"github.com/meko-christian/algo-approx"
)

// mathPow computes base^exp using fast approximations.
// Uses the identity: base^exp = e^(exp * ln(base)), valid for base > 0.
// All call sites guard the base to be positive before calling.
func mathPow(base, exp float64) float64 {
	return approx.FastExp(exp * approx.FastLog(base))
}
