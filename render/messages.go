package render

import "github.com/soundscape-lab/audioserver"

type (
	// Command is a mutation of the Model, queued by another thread and
	// applied by the render thread between two buffers.
	Command func(m *Model)

	// MsgToGUI is a monitoring message for the GUI. Messages are sent every
	// buffer, so they are not boxed: the fields used depend on Kind.
	MsgToGUI struct {
		Kind GUIMsgKind

		Speaker audioserver.SpeakerID
		Sound   audioserver.SoundID

		Source      audioserver.SourceID
		Position    audioserver.Point2
		Channels    int
		Progress    float64
		HasProgress bool // false for infinite sounds

		Index     int // channel of the sound, for GUISoundChannelUpdated
		RMS, Peak float32

		// Ended is the removed sound, for GUISoundEnded. The render thread
		// no longer touches it.
		Ended *ActiveSound
	}

	GUIMsgKind int

	// AudioFrame is the analysis of one installation for one buffer,
	// averaged over the speakers of the installation.
	AudioFrame struct {
		Installation audioserver.Installation
		AvgPeak      float32
		AvgRMS       float32
		AvgLMH       [3]float32
		AvgBands     [8]float32
		// Speakers holds the level of each contributing speaker, ordered by
		// channel.
		Speakers []SpeakerLevel
	}

	SpeakerLevel struct {
		Channel   int
		RMS, Peak float32
	}

	// Soundscape is the part of the soundscape scheduler's model the render
	// thread needs to reach.
	Soundscape interface {
		RemoveActiveSound(id audioserver.SoundID)
	}

	// SoundscapeUpdate is applied by the soundscape thread to its model.
	SoundscapeUpdate func(s Soundscape)
)

const (
	GUIMsgNone GUIMsgKind = iota
	GUISpeakerAdded
	GUISpeakerRemoved
	GUISpeakerUpdated
	GUISoundStarted
	GUISoundUpdated
	GUISoundChannelUpdated
	GUISoundEnded
	GUIMasterLevel
)

func (k GUIMsgKind) String() string {
	switch k {
	case GUISpeakerAdded:
		return "speaker added"
	case GUISpeakerRemoved:
		return "speaker removed"
	case GUISpeakerUpdated:
		return "speaker updated"
	case GUISoundStarted:
		return "sound started"
	case GUISoundUpdated:
		return "sound updated"
	case GUISoundChannelUpdated:
		return "sound channel updated"
	case GUISoundEnded:
		return "sound ended"
	case GUIMasterLevel:
		return "master level"
	}
	return "none"
}
