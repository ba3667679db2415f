package detector

import (
	"math"

	"github.com/viterin/vek/vek32"
)

const (
	// NumMelBands is the number of bands in the mel-style summary.
	NumMelBands = 8
	// LowMidCrossover and MidHighCrossover split the spectrum for the
	// low/mid/high summary, in Hz.
	LowMidCrossover  = 250
	MidHighCrossover = 4000
	melMinFrequency  = 20
)

// Bands holds the bin ranges of the band summaries for one sample rate and
// window length. Computing them is done once; summarising a spectrum with
// them does not allocate.
type Bands struct {
	lmh [4]int
	mel [NumMelBands + 1]int
}

// NewBands computes the band edges (in bins) for spectra produced by a
// Planner of windowLen points at the given sample rate.
func NewBands(sampleRate float64, windowLen int) Bands {
	var b Bands
	nbins := windowLen / 2
	bin := func(freq float64) int {
		k := int(math.Round(freq * float64(windowLen) / sampleRate))
		return min(max(k, 1), nbins) // skip DC
	}
	b.lmh = [4]int{1, bin(LowMidCrossover), bin(MidHighCrossover), nbins}
	lo, hi := hzToMel(melMinFrequency), hzToMel(sampleRate/2)
	for i := range b.mel {
		b.mel[i] = bin(melToHz(lo + (hi-lo)*float64(i)/NumMelBands))
	}
	b.mel[NumMelBands] = nbins
	return b
}

// LMH sums the squared magnitudes of bins into low, mid and high bands.
func (b *Bands) LMH(bins []float32) (l, m, h float32) {
	return sumRange(bins, b.lmh[0], b.lmh[1]), sumRange(bins, b.lmh[1], b.lmh[2]), sumRange(bins, b.lmh[2], b.lmh[3])
}

// Mel sums the squared magnitudes of bins into NumMelBands mel-spaced bands.
func (b *Bands) Mel(bins []float32, out *[NumMelBands]float32) {
	for i := range out {
		out[i] = sumRange(bins, b.mel[i], b.mel[i+1])
	}
}

func sumRange(bins []float32, lo, hi int) float32 {
	hi = min(hi, len(bins))
	if lo >= hi {
		return 0
	}
	return vek32.Sum(bins[lo:hi])
}

// Normalize turns a summed squared magnitude into an amplitude comparable
// across window lengths.
func Normalize(amp2 float32, windowLen int) float32 {
	return float32(math.Sqrt(float64(amp2))) / float32(windowLen/2)
}

func hzToMel(f float64) float64 { return 2595 * math.Log10(1+f/700) }
func melToHz(m float64) float64 { return 700 * (math.Pow(10, m/2595) - 1) }
