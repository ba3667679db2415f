package detector_test

import (
	"math"
	"testing"

	"github.com/soundscape-lab/audioserver/detector"
)

func TestEnvDetectorConverges(t *testing.T) {
	d := detector.NewEnvDetector(detector.DefaultSampleRate)
	for range 5 * detector.DefaultSampleRate {
		d.Next(0.5)
		d.Next(-0.5)
	}
	rms, peak := d.Current()
	if math.Abs(float64(rms)-0.5) > 1e-3 {
		t.Errorf("rms = %v, want 0.5", rms)
	}
	if math.Abs(float64(peak)-0.5) > 1e-3 {
		t.Errorf("peak = %v, want 0.5", peak)
	}
	// reading does not reset
	if rms2, peak2 := d.Current(); rms2 != rms || peak2 != peak {
		t.Errorf("second Current() = (%v, %v), want (%v, %v)", rms2, peak2, rms, peak)
	}
}

func TestEnvDetectorPeakReleases(t *testing.T) {
	d := detector.NewEnvDetector(detector.DefaultSampleRate)
	for range detector.DefaultSampleRate {
		d.Next(1)
	}
	_, high := d.Current()
	for range detector.DefaultSampleRate / 10 {
		d.Next(0)
	}
	_, low := d.Current()
	if !(low < high) || low <= 0 {
		t.Errorf("peak after silence = %v, want in (0, %v)", low, high)
	}
}

func TestEnvDetectorIgnoresNaN(t *testing.T) {
	d := detector.NewEnvDetector(detector.DefaultSampleRate)
	d.Next(float32(math.NaN()))
	rms, peak := d.Current()
	if rms != 0 || peak != 0 {
		t.Errorf("Current() after NaN = (%v, %v), want (0, 0)", rms, peak)
	}
}

func TestNewPlannerRejectsNonPowerOfTwo(t *testing.T) {
	if _, err := detector.NewPlanner(1000); err == nil {
		t.Error("NewPlanner(1000) succeeded, want error")
	}
}

func TestFftDetectorFindsSine(t *testing.T) {
	const n = 1024
	const bin = 32
	p, err := detector.NewPlanner(n)
	if err != nil {
		t.Fatalf("NewPlanner failed: %v", err)
	}
	d := detector.NewFftDetector(n)
	for i := range 3 * n {
		d.Push(float32(math.Sin(2 * math.Pi * bin * float64(i) / n)))
	}
	out := make([]float32, n/2)
	d.CalcFFT(p, out)
	best := 0
	for k := range out {
		if out[k] > out[best] {
			best = k
		}
	}
	if best != bin {
		t.Errorf("strongest bin = %d, want %d", best, bin)
	}
	// the Hann window keeps leakage out of distant bins
	if far := out[bin*4]; far > out[bin]*1e-6 {
		t.Errorf("|X[%d]|² = %v leaks into bin %d", bin, out[bin], bin*4)
	}
}

func TestFftDetectorWindowMismatchIsSilent(t *testing.T) {
	p, err := detector.NewPlanner(64)
	if err != nil {
		t.Fatalf("NewPlanner failed: %v", err)
	}
	d := detector.NewFftDetector(128)
	d.Push(1)
	out := []float32{1, 1, 1}
	d.CalcFFT(p, out)
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestBandsCoverSpectrum(t *testing.T) {
	const n = 1024
	b := detector.NewBands(44100, n)
	ones := make([]float32, n/2)
	for i := range ones {
		ones[i] = 1
	}
	l, m, h := b.LMH(ones)
	if got := l + m + h; got != n/2-1 {
		t.Errorf("low+mid+high = %v, want %v (all bins but DC)", got, n/2-1)
	}
	if !(l > 0 && m > 0 && h > 0) {
		t.Errorf("empty band in (%v, %v, %v)", l, m, h)
	}
	var mel [detector.NumMelBands]float32
	b.Mel(ones, &mel)
	var total float32
	for i, v := range mel {
		total += v
		if i > 0 && v < mel[i-1] {
			t.Errorf("mel band %d narrower than band %d: %v < %v", i, i-1, v, mel[i-1])
		}
	}
	if total > n/2 {
		t.Errorf("mel bands sum to %v, more than the %v bins", total, n/2)
	}
}

func TestNormalize(t *testing.T) {
	if got := detector.Normalize(256*256, 512); got != 1 {
		t.Errorf("Normalize = %v, want 1", got)
	}
}
