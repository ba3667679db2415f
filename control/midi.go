package control

import (
	"github.com/soundscape-lab/audioserver/render"
	"gitlab.com/gomidi/midi/v2"
)

// MaxRolloffDB is the rolloff reached by the highest controller value.
const MaxRolloffDB = 24

// MIDIMap maps MIDI control changes to commands. Controller values 0-127 are
// scaled to master volume 0-1 and rolloff 0-MaxRolloffDB.
type MIDIMap struct {
	// Channel is the MIDI channel listened to, 0-15, or -1 for any.
	Channel        int   `yaml:"channel"`
	MasterVolumeCC uint8 `yaml:"mastervolumecc"`
	RolloffCC      uint8 `yaml:"rolloffcc"`
}

var DefaultMIDIMap = MIDIMap{Channel: -1, MasterVolumeCC: 7, RolloffCC: 10}

// Map returns the command for msg, if msg is a mapped control change.
func (m MIDIMap) Map(msg midi.Message) (render.Command, bool) {
	var channel, controller, value uint8
	if !msg.GetControlChange(&channel, &controller, &value) {
		return nil, false
	}
	if m.Channel >= 0 && int(channel) != m.Channel {
		return nil, false
	}
	scaled := float64(value) / 127
	switch controller {
	case m.MasterVolumeCC:
		return SetMasterVolume(float32(scaled)), true
	case m.RolloffCC:
		return SetRolloff(scaled * MaxRolloffDB), true
	}
	return nil, false
}
