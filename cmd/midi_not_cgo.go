//go:build !cgo

package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver/config"
	"github.com/soundscape-lab/audioserver/render"
)

func OpenMIDI(cfg config.MIDI, broker *render.Broker, log *logrus.Entry) (io.Closer, error) {
	// with no cgo, there is no RtMidi driver, so MIDI control is off
	log.Warn("built without cgo, midi input disabled")
	return nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
