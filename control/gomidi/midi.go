// Package gomidi feeds MIDI input from an RtMidi device to the render thread
// through a control.MIDIMap.
package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver/control"
	"github.com/soundscape-lab/audioserver/render"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Input is an open MIDI input whose control changes become commands.
type Input struct {
	driver *rtmididrv.Driver
	in     drivers.In
	stop   func()
}

var ErrNoInput = errors.New("no matching MIDI input")

// Open opens the first input whose name starts with namePrefix, or the first
// input at all if namePrefix is empty.
func Open(namePrefix string, mapping control.MIDIMap, broker *render.Broker, log *logrus.Entry) (*Input, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midi driver: %w", err)
	}
	ins, err := driver.Ins()
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("listing midi inputs: %w", err)
	}
	for _, in := range ins {
		if !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		if err := in.Open(); err != nil {
			driver.Close()
			return nil, fmt.Errorf("opening midi input %q: %w", in.String(), err)
		}
		stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			if cmd, ok := mapping.Map(msg); ok && !control.Submit(broker, cmd) {
				log.Debug("render queue full, dropped midi command")
			}
		})
		if err != nil {
			in.Close()
			driver.Close()
			return nil, fmt.Errorf("listening to midi input %q: %w", in.String(), err)
		}
		log.WithField("input", in.String()).Info("listening to midi")
		return &Input{driver: driver, in: in, stop: stop}, nil
	}
	driver.Close()
	return nil, fmt.Errorf("%w: %q", ErrNoInput, namePrefix)
}

func (i *Input) Close() error {
	i.stop()
	if i.in.IsOpen() {
		i.in.Close()
	}
	return i.driver.Close()
}
