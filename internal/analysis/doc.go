// Package analysis inspects recorded tracking runs.
//
//   - [AmplitudeSpectrum]: one-sided spectrum of a uniformly sampled signal,
//     used to spot steering oscillation
//   - [ErrorPortrait]: lateral error against heading error
//   - [ZeroCrossings]: sign changes of a signal, a cheap overshoot count
//
// A well-tuned controller shows a portrait that spirals into the origin
// and a spectrum without a sharp peak:
//
//	sp, err := analysis.AmplitudeSpectrum(steer, 0.1)
//	f, amp := sp.Dominant()
package analysis
