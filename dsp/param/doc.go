// Package param provides the parameter model shared by the desk processors:
//
//   - Range: linear, skewed, and gain (dB-centered) value ranges with a
//     normalized [0, 1] mapping for control surfaces
//   - Smoother: per-sample ramping toward lock-free published targets,
//     with linear and logarithmic laws
//   - Parameter: a named, ranged, formatted smoother
//   - Set: an ordered parameter collection with snapshot and restore
//
// Control goroutines publish targets at any time; the audio goroutine
// advances each parameter exactly once per frame and reads smoothed values.
package param
