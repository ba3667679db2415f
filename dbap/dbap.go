// Package dbap implements distance-based amplitude panning.
//
// Each speaker taking part in the solution gets a gain that falls off with
// its distance to the emission point, scaled by the speaker's weight and
// normalised so that the total power over all participating speakers is
// constant:
//
//	a  = R / (20 log10 2)            R = rolloff in dB per doubling of distance
//	k  = 1 / sqrt(Σ wᵢ² / dᵢ^(2a))
//	vᵢ = k wᵢ / dᵢ^a
//
// Distances are passed squared and already blurred (see BlurredDistance2),
// which keeps the gains finite when the emission point sits on a speaker.
//
// Only the speakers in the list take part in the normalisation. An output
// channel without a speaker must be left out of the list, not entered with a
// placeholder distance.
package dbap

import (
	"math"

	"github.com/soundscape-lab/audioserver"
)

// Speaker is one participant of a DBAP solution.
type Speaker struct {
	// Distance2 is the blurred squared distance to the emission point.
	Distance2 float64
	// Weight scales the speaker's share of the sound, typically the overlap
	// of the sound's and the speaker's installations.
	Weight float64
}

// BlurredDistance2 returns the squared distance between a and b plus the
// squared blur.
func BlurredDistance2(a, b audioserver.Point2, blur float64) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy + blur*blur
}

// RolloffToA converts a rolloff in decibels into the DBAP exponent a.
func RolloffToA(rolloffDB float64) float64 {
	return rolloffDB / (20 * math.Log10(2))
}

// KCoefficient returns the normalisation coefficient for the speakers, or 0
// when no speaker carries any weight.
func KCoefficient(a float64, speakers []Speaker) float64 {
	var sum float64
	for _, s := range speakers {
		sum += s.Weight * s.Weight / math.Pow(s.Distance2, a)
	}
	if sum <= 0 {
		return 0
	}
	return 1 / math.Sqrt(sum)
}

// SpeakerGain returns the gain of a single speaker given the normalisation
// coefficient k and the exponent a.
func SpeakerGain(k, a float64, s Speaker) float64 {
	return k * s.Weight / math.Pow(s.Distance2, a/2)
}

// Gains appends one gain per speaker to dst and returns the extended slice.
// It does not allocate when dst has room for len(speakers) more values.
func Gains(dst []float64, speakers []Speaker, rolloffDB float64) []float64 {
	a := RolloffToA(rolloffDB)
	k := KCoefficient(a, speakers)
	for _, s := range speakers {
		dst = append(dst, SpeakerGain(k, a, s))
	}
	return dst
}
