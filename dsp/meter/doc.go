// Package meter provides the peak meter used on the desk's input and output
// stages:
//
//   - instantaneous attack, one-pole exponential decay
//   - decay time calibrated so pure silence drops the reading by 12 dB per
//     interval (100 ms by default)
//   - lock-free Level reads, so a display goroutine can poll while the
//     audio goroutine writes
package meter
