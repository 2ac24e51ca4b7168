// Package harmonics measures the harmonic series a nonlinear stage imprints
// on a pure probe tone.
//
// A windowed FFT locates the fundamental and integrates the magnitude around
// each harmonic bin, yielding per-order levels relative to the fundamental
// and an RMS total harmonic distortion figure. The typical use is feeding a
// sine through a saturation stage and reading back how much of each overtone
// the stage added.
package harmonics
