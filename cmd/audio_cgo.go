//go:build cgo

package cmd

import (
	"fmt"

	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/config"
	"github.com/soundscape-lab/audioserver/oto"
	"github.com/soundscape-lab/audioserver/portaudio"
)

// NewAudioContext opens the output device of the given backend. device is a
// name prefix and only applies to portaudio.
func NewAudioContext(d config.Device, device string) (audioserver.AudioContext, error) {
	switch d.Backend {
	case config.BackendPortAudio:
		return portaudio.NewContext(device, d.SampleRate, d.Channels, d.FramesPerBuffer)
	case config.BackendOto:
		return oto.NewContext(d.SampleRate, d.Channels, d.FramesPerBuffer)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, d.Backend)
}
