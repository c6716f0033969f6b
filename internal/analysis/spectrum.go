package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: signal too short")

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freqs     []float64 // [Hz]
	Amplitude []float64
}

// AmplitudeSpectrum removes the mean of data and returns |X_k|/n for
// k in [0, n/2]. dt is the sample period in seconds.
func AmplitudeSpectrum(data []float64, dt float64) (*Spectrum, error) {
	n := len(data)
	if n < 4 || dt <= 0 {
		return nil, ErrTooShort
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n/2 + 1
	sp := &Spectrum{
		Freqs:     make([]float64, half),
		Amplitude: make([]float64, half),
	}
	for k := 0; k < half; k++ {
		sp.Freqs[k] = float64(k) / (float64(n) * dt)
		sp.Amplitude[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return sp, nil
}

// Dominant returns the frequency and amplitude of the strongest non-DC bin.
func (s *Spectrum) Dominant() (float64, float64) {
	best := 0
	for k := 1; k < len(s.Amplitude); k++ {
		if best == 0 || s.Amplitude[k] > s.Amplitude[best] {
			best = k
		}
	}
	if best == 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Amplitude[best]
}
