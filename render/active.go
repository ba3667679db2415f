package render

import (
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/detector"
)

type (
	// ActiveSound is a sound owned by the render thread, with one envelope
	// detector per channel of the sound.
	ActiveSound struct {
		sound            audioserver.Sound
		channelDetectors []detector.EnvDetector
		totalFrames      uint64
		finite           bool
		sampleRate       float64
	}

	// ActiveSpeaker is a speaker owned by the render thread, with the
	// detectors analysing the signal sent to its channel.
	ActiveSpeaker struct {
		id      audioserver.SpeakerID
		speaker audioserver.Speaker
		env     detector.EnvDetector
		fft     detector.FftDetector
	}
)

// NewActiveSound takes ownership of s. The total duration of the sound is
// captured now and never changes afterwards.
func NewActiveSound(s audioserver.Sound, sampleRate float64) *ActiveSound {
	if s.Channels < 1 {
		s.Channels = 1
	}
	a := &ActiveSound{sound: s, sampleRate: sampleRate}
	if s.Signal != nil {
		a.totalFrames, a.finite = s.Signal.RemainingFrames()
	}
	a.syncChannels()
	return a
}

// Sound returns the owned sound. It may only be modified on the render
// thread, typically through Model.UpdateSound. A channel count changed
// directly takes effect at the next buffer.
func (a *ActiveSound) Sound() *audioserver.Sound { return &a.sound }

// TotalFrames returns the duration captured at creation, or ok = false for
// an infinite sound.
func (a *ActiveSound) TotalFrames() (frames uint64, ok bool) { return a.totalFrames, a.finite }

// NormalisedProgress returns how far the sound has played, from 0 to 1. An
// infinite sound has no progress.
func (a *ActiveSound) NormalisedProgress() (float64, bool) {
	if !a.finite {
		return 0, false
	}
	if a.totalFrames == 0 || a.sound.Signal == nil {
		return 1, true
	}
	remaining, ok := a.sound.Signal.RemainingFrames()
	if !ok {
		return 0, false
	}
	remaining = min(remaining, a.totalFrames)
	return 1 - float64(remaining)/float64(a.totalFrames), true
}

func (a *ActiveSound) NumChannels() int { return len(a.channelDetectors) }

// ChannelLevel returns the running RMS and peak of channel i.
func (a *ActiveSound) ChannelLevel(i int) (rms, peak float32) {
	return a.channelDetectors[i].Current()
}

// syncChannels keeps one detector per channel. Existing detectors are kept
// when the channel count changes.
func (a *ActiveSound) syncChannels() {
	if a.sound.Channels < 1 {
		a.sound.Channels = 1
	}
	n := a.sound.Channels
	for len(a.channelDetectors) < n {
		a.channelDetectors = append(a.channelDetectors, detector.NewEnvDetector(a.sampleRate))
	}
	a.channelDetectors = a.channelDetectors[:n]
}

func newActiveSpeaker(id audioserver.SpeakerID, s audioserver.Speaker, sampleRate float64, windowLen int) *ActiveSpeaker {
	return &ActiveSpeaker{
		id:      id,
		speaker: s,
		env:     detector.NewEnvDetector(sampleRate),
		fft:     detector.NewFftDetector(windowLen),
	}
}

func (s *ActiveSpeaker) Speaker() audioserver.Speaker { return s.speaker }

// moveTo replaces the speaker. Moving to another channel resets the
// detectors, whose history belongs to the old channel.
func (s *ActiveSpeaker) moveTo(sp audioserver.Speaker) {
	if sp.Channel != s.speaker.Channel {
		s.env.Reset()
		s.fft.Reset()
	}
	s.speaker = sp
}

// Level returns the running RMS and peak of the speaker's channel.
func (s *ActiveSpeaker) Level() (rms, peak float32) { return s.env.Current() }
