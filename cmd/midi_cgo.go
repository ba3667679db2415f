//go:build cgo

package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver/config"
	"github.com/soundscape-lab/audioserver/control/gomidi"
	"github.com/soundscape-lab/audioserver/render"
)

// OpenMIDI opens the MIDI input named in cfg and feeds its mapped control
// changes to the render thread.
func OpenMIDI(cfg config.MIDI, broker *render.Broker, log *logrus.Entry) (io.Closer, error) {
	return gomidi.Open(cfg.Input, cfg.Map, broker, log)
}
