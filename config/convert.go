package config

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/soundscape"
	"github.com/soundscape-lab/audioserver/source"
)

func installationSet(names []string) audioserver.InstallationSet {
	s := make(audioserver.InstallationSet, len(names))
	for _, n := range names {
		s.Insert(audioserver.Installation(n))
	}
	return s
}

// InstallationIDs returns the configured installations as render keys.
func (c *Config) InstallationIDs() []audioserver.Installation {
	ret := make([]audioserver.Installation, len(c.Installations))
	for i, n := range c.Installations {
		ret[i] = audioserver.Installation(n)
	}
	return ret
}

func (s Speaker) Speaker() (audioserver.SpeakerID, audioserver.Speaker) {
	return audioserver.SpeakerID(s.ID), audioserver.Speaker{
		Position:      audioserver.Point2{X: s.X, Y: s.Y},
		Channel:       s.Channel,
		Installations: installationSet(s.Installations),
	}
}

// Voices loads the signals of the configured sounds. WAV files are decoded
// once; every start of a voice plays a fresh cursor over the same samples.
func (c *Config) Voices(log *logrus.Entry) ([]soundscape.Voice, error) {
	voices := make([]soundscape.Voice, 0, len(c.Sounds))
	for _, s := range c.Sounds {
		v, err := c.voice(s, log)
		if err != nil {
			return nil, fmt.Errorf("sound %d: %w", s.ID, err)
		}
		voices = append(voices, v)
	}
	return voices, nil
}

func (c *Config) voice(s Sound, log *logrus.Entry) (soundscape.Voice, error) {
	snd := audioserver.Sound{
		Source:        audioserver.SourceID(s.Source),
		Position:      audioserver.Point2{X: s.X, Y: s.Y},
		Spread:        s.Spread,
		Radians:       s.Rotation,
		Volume:        1,
		Muted:         s.Muted,
		Installations: installationSet(s.Installations),
		Shared:        &audioserver.Shared{},
	}
	if snd.Spread == 0 {
		snd.Spread = c.Render.Spread
	}
	if s.Volume != nil {
		snd.Volume = *s.Volume
	}
	v := soundscape.Voice{ID: audioserver.SoundID(s.ID), Repeat: s.Repeat}
	if s.File == "" {
		snd.Channels = max(s.Channels, 1)
		sampleRate := float64(c.Device.SampleRate)
		v.NewSignal = func() audioserver.Signal { return source.NewSine(snd.Channels, s.Tone, 1, sampleRate) }
		v.Sound = snd
		return v, nil
	}
	playback, err := source.ParsePlayback(s.Playback)
	if err != nil {
		return v, err
	}
	path := s.File
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	w, err := source.LoadWav(path, playback)
	if err != nil {
		return v, err
	}
	log.WithFields(logrus.Fields{"file": path, "playback": w.Playback(), "frames": w.Frames()}).Debug("loaded wav")
	if w.SampleRate() != c.Device.SampleRate {
		log.WithFields(logrus.Fields{"file": path, "rate": w.SampleRate(), "device": c.Device.SampleRate}).Warn("wav sample rate differs from the device, it will play at the wrong speed")
	}
	snd.Channels = w.Channels()
	v.NewSignal = func() audioserver.Signal { return w.Clone() }
	v.Sound = snd
	return v, nil
}
