//go:build !cgo

package cmd

import (
	"fmt"

	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/config"
)

func NewAudioContext(d config.Device, device string) (audioserver.AudioContext, error) {
	// both portaudio and the ALSA side of oto need cgo; render to a file instead
	return nil, fmt.Errorf("%w: %q (built without cgo)", ErrUnknownBackend, d.Backend)
}
