// Package console implements the desk coloration effect: input trim, a sine
// "push" stage, a weighted tap sum over recently shaped samples, additive
// dry/wet blending, output trim and peak metering, one stereo frame at a
// time.
//
//   - History: fixed-depth, newest-first record of shaped samples
//   - TapBank: signed, skew-weighted sum over a History
//   - Shape: the sine waveshaper
//   - Desk: the full per-frame pipeline with smoothed parameters
//
// The eight-tap desk voicing drives the sine stage at 1.2 and alternates
// tap signs beyond the first pair; the two-tap voicing drives at 1.0 with
// both taps positive and no multiplier control.
package console
