package source

import "math"

// Sine is an infinite sine tone, identical on every channel.
type Sine struct {
	channels  int
	amplitude float32
	step      float64 // phase increment per frame, in cycles
	phase     float64
}

func NewSine(channels int, frequency, amplitude, sampleRate float64) *Sine {
	return &Sine{
		channels:  max(channels, 1),
		amplitude: float32(amplitude),
		step:      frequency / sampleRate,
	}
}

func (s *Sine) Channels() int { return s.channels }

func (s *Sine) ReadSamples(dst []float32) int {
	frames := len(dst) / s.channels
	for f := range frames {
		v := s.amplitude * float32(math.Sin(2*math.Pi*s.phase))
		for c := range s.channels {
			dst[f*s.channels+c] = v
		}
		s.phase += s.step
		s.phase -= math.Floor(s.phase)
	}
	return frames * s.channels
}

func (s *Sine) RemainingFrames() (uint64, bool) { return 0, false }
