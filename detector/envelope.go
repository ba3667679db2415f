// Package detector extracts loudness and spectral features from sample
// streams: a running RMS/peak envelope and a rolling-window FFT.
//
// Detectors never allocate after construction; they are fed from the render
// thread one sample at a time.
package detector

import "math"

const (
	DefaultSampleRate = 44100
	// RMSTime is the time constant of the mean-square smoother, in seconds.
	RMSTime = 0.05
	// PeakAttack and PeakRelease are the time constants of the peak
	// follower, in seconds. Generally attack << release.
	PeakAttack  = 1.5e-3
	PeakRelease = 1.5
)

// EnvDetector tracks the running RMS and peak amplitude of a sample stream
// with causal one-pole smoothers. The zero value never moves; use
// NewEnvDetector.
type EnvDetector struct {
	alphaRMS, alphaAttack, alphaRelease float32
	meanSquare, peak                    float32
}

// NewEnvDetector returns a detector tuned for the given sample rate.
func NewEnvDetector(sampleRate float64) EnvDetector {
	return EnvDetector{
		alphaRMS:     smoothing(RMSTime, sampleRate),
		alphaAttack:  smoothing(PeakAttack, sampleRate),
		alphaRelease: smoothing(PeakRelease, sampleRate),
	}
}

// from https://en.wikipedia.org/wiki/Exponential_smoothing
func smoothing(tau, sampleRate float64) float32 {
	return 1 - float32(math.Exp(-1.0/(tau*sampleRate)))
}

// Next feeds one sample into the detector.
func (d *EnvDetector) Next(sample float32) {
	if sample != sample { // NaN
		sample = 0
	}
	d.meanSquare += (sample*sample - d.meanSquare) * d.alphaRMS
	a := float32(math.Abs(float64(sample)))
	alpha := d.alphaAttack
	if a < d.peak {
		alpha = d.alphaRelease
	}
	d.peak += (a - d.peak) * alpha
}

// Current returns the running RMS and peak without resetting them.
func (d *EnvDetector) Current() (rms, peak float32) {
	return float32(math.Sqrt(float64(max(d.meanSquare, 0)))), d.peak
}

func (d *EnvDetector) Reset() {
	d.meanSquare, d.peak = 0, 0
}
