// Package spectral estimates the power spectral density of a photon count
// sequence and reports its dominant period.
package spectral

import (
	"errors"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DefaultPeriodScale converts the dominant frequency into the source
// instrument's period units. The value is fixed at 3.241 for compatibility
// with the observatory's reduction pipeline.
const DefaultPeriodScale = 3.241

// ErrUndefinedSpectrum is returned when the input has fewer than two samples
// and no periodogram exists.
var ErrUndefinedSpectrum = errors.New("spectral: periodogram undefined for fewer than two samples")

// Periodogram computes a one-sided, mean-detrended periodogram of counts at
// unit sampling frequency. Frequencies run from 0 to 0.5 cycles per sample;
// the returned slices have len(counts)/2+1 entries.
func Periodogram(counts []float64) (freqs, power []float64, err error) {
	n := len(counts)
	if n < 2 {
		return nil, nil, ErrUndefinedSpectrum
	}

	// Remove the mean so the DC bin does not swamp the spectrum.
	mean := 0.0
	for _, v := range counts {
		mean += v
	}
	mean /= float64(n)

	detrended := make([]float64, n)
	for i, v := range counts {
		detrended[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, detrended)

	freqs = make([]float64, len(coeffs))
	power = make([]float64, len(coeffs))
	for i, c := range coeffs {
		freqs[i] = fft.Freq(i)
		p := (real(c)*real(c) + imag(c)*imag(c)) / float64(n)
		// One-sided spectrum: interior bins fold in the negative frequencies.
		// DC never folds; the Nyquist bin exists only for even n and does not
		// fold either.
		if i != 0 && !(n%2 == 0 && i == len(coeffs)-1) {
			p *= 2
		}
		power[i] = p
	}
	return freqs, power, nil
}

// DominantPeriod returns (1 / frequency of maximum power) * scale, where
// scale carries the instrument's time units (DefaultPeriodScale for Chandra).
// The DC bin is excluded from the peak search.
func DominantPeriod(counts []float64, scale float64) (float64, error) {
	freqs, power, err := Periodogram(counts)
	if err != nil {
		return 0, err
	}

	maxIdx := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[maxIdx] {
			maxIdx = i
		}
	}
	return (1 / freqs[maxIdx]) * scale, nil
}
