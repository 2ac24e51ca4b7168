package console

import "math"

// Sine drive constants, one per shipped voicing.
const (
	// DriveEight is the push-stage drive of the eight-tap desk voicing.
	DriveEight = 1.2
	// DriveTwo is the push-stage drive of the two-tap voicing.
	DriveTwo = 1.0
)

// Shape blends a sample with its sine-warmed image:
//
//	(1-amount)*x + amount*sin(drive*x)
//
// amount 0 is the identity, amount 1 the pure sine stage.
func Shape(x, amount, drive float64) float64 {
	return (1-amount)*x + amount*math.Sin(drive*x)
}
