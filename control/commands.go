// Package control turns requests from the control path (configuration,
// MIDI, the soundscape) into Commands for the render thread.
package control

import (
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/render"
)

// Submit queues cmd for the render thread without blocking. It returns false
// if the queue is full and the command was dropped.
func Submit(b *render.Broker, cmd render.Command) bool {
	return render.TrySend(b.ToAudio, cmd)
}

func SetMasterVolume(volume float32) render.Command {
	volume = max(volume, 0)
	return func(m *render.Model) { m.MasterVolume = volume }
}

func SetRolloff(db float64) render.Command {
	return func(m *render.Model) { m.DBAPRolloffDB = db }
}

func Solo(source audioserver.SourceID) render.Command {
	return func(m *render.Model) { m.Solo(source) }
}

func Unsolo(source audioserver.SourceID) render.Command {
	return func(m *render.Model) { m.Unsolo(source) }
}

func InsertSpeaker(id audioserver.SpeakerID, s audioserver.Speaker) render.Command {
	s.Installations = s.Installations.Clone()
	return func(m *render.Model) { m.InsertSpeaker(id, s) }
}

func RemoveSpeaker(id audioserver.SpeakerID) render.Command {
	return func(m *render.Model) { m.RemoveSpeaker(id) }
}

// SetSpeakerInstallation adds the speaker to inst, or removes it if member is
// false.
func SetSpeakerInstallation(id audioserver.SpeakerID, inst audioserver.Installation, member bool) render.Command {
	return func(m *render.Model) {
		if member {
			m.InsertSpeakerInstallation(id, inst)
		} else {
			m.RemoveSpeakerInstallation(id, inst)
		}
	}
}

// PlaySound hands s over to the render thread. The caller must not touch the
// sound's signal afterwards.
func PlaySound(id audioserver.SoundID, s audioserver.Sound) render.Command {
	s.Installations = s.Installations.Clone()
	return func(m *render.Model) {
		m.InsertSound(id, render.NewActiveSound(s, m.SampleRate()))
	}
}

func StopSound(id audioserver.SoundID) render.Command {
	return func(m *render.Model) { m.RemoveSound(id) }
}

// MuteSource mutes or unmutes every sound playing from source.
func MuteSource(source audioserver.SourceID, muted bool) render.Command {
	return func(m *render.Model) {
		m.UpdateSoundsWithSource(source, func(s *audioserver.Sound) { s.Muted = muted })
	}
}

func MoveSound(id audioserver.SoundID, pos audioserver.Point2) render.Command {
	return func(m *render.Model) {
		m.UpdateSound(id, func(s *audioserver.Sound) { s.Position = pos })
	}
}

func SetSoundVolume(id audioserver.SoundID, volume float32) render.Command {
	return func(m *render.Model) {
		m.UpdateSound(id, func(s *audioserver.Sound) { s.Volume = volume })
	}
}
