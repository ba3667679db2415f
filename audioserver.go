// Package audioserver holds the entities shared by the render core of a
// multi-speaker sound installation and its collaborators: sounds, speakers,
// installations and the signals that feed them.
//
// The real-time part lives in the render package; dbap and detector hold the
// spatialisation and analysis maths it uses.
package audioserver

type (
	// SoundID identifies one playing instance of a source.
	SoundID uint64
	// SourceID identifies the source (file, generator) a sound was created
	// from. Many sounds may share one source.
	SourceID uint64
	// SpeakerID identifies a physical loudspeaker.
	SpeakerID uint64
)

const (
	// DistanceBlur is added (squared) to every speaker distance so that a
	// sound sitting exactly on a speaker does not produce infinite gain.
	DistanceBlur = 0.01
	// DefaultMasterVolume is the master volume of a freshly started server.
	DefaultMasterVolume = 0.5
	// DefaultDBAPRolloffDB is the attenuation per doubling of distance.
	DefaultDBAPRolloffDB = 6.0
	// MaxChannels bounds the number of device output channels the render
	// scratch buffers are pre-sized for.
	MaxChannels = 128
	// MaxSoundChannels bounds the channel count of a single sound for the
	// purpose of pre-sizing the unmixed sample buffer.
	MaxSoundChannels = 16
)
