package core

import "math"

const defaultEpsilon = 1e-12

// Denormal guard constants for the per-sample signal path.
const (
	// DenormalThreshold is the magnitude below which samples are floored.
	DenormalThreshold = 1.18e-23
	// DenormalFloor replaces sub-threshold samples. The floor is a small
	// positive constant rather than exact zero so downstream feedback terms
	// stay out of the denormal range without going fully silent.
	DenormalFloor = 0.1 * 1.18e-17
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// GuardDenormal replaces values with magnitude below DenormalThreshold by
// DenormalFloor. This avoids denormal-related CPU slowdowns in hot DSP loops.
func GuardDenormal(x float64) float64 {
	if math.Abs(x) < DenormalThreshold {
		return DenormalFloor
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
