// Package portaudio plays the render output on a multichannel device through
// PortAudio.
package portaudio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/soundscape-lab/audioserver"
)

// Context is an audioserver.AudioContext on one PortAudio output device.
type Context struct {
	device          *portaudio.DeviceInfo
	sampleRate      float64
	channels        int
	framesPerBuffer int
	stream          *portaudio.Stream
	processor       audioserver.AudioProcessor
}

var ErrNoDevice = errors.New("no matching output device")

// NewContext initializes PortAudio and picks the first output device whose
// name starts with devicePrefix and has enough channels, or the default
// output device if devicePrefix is empty.
func NewContext(devicePrefix string, sampleRate, channels, framesPerBuffer int) (*Context, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("cannot initialize portaudio: %w", err)
	}
	dev, err := findDevice(devicePrefix, channels)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return &Context{
		device:          dev,
		sampleRate:      float64(sampleRate),
		channels:        channels,
		framesPerBuffer: framesPerBuffer,
	}, nil
}

func findDevice(prefix string, channels int) (*portaudio.DeviceInfo, error) {
	if prefix == "" {
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("default output device: %w", err)
		}
		if dev.MaxOutputChannels < channels {
			return nil, fmt.Errorf("%w: default device %q has %d channels, need %d", ErrNoDevice, dev.Name, dev.MaxOutputChannels, channels)
		}
		return dev, nil
	}
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	for _, dev := range devs {
		if strings.HasPrefix(dev.Name, prefix) && dev.MaxOutputChannels >= channels {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("%w: %q with %d channels", ErrNoDevice, prefix, channels)
}

func (c *Context) DeviceName() string { return c.device.Name }

// Play opens an interleaved float32 stream whose callback runs p.
func (c *Context) Play(p audioserver.AudioProcessor) error {
	if c.stream != nil {
		return errors.New("portaudio context is already playing")
	}
	c.processor = p
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   c.device,
			Channels: c.channels,
			Latency:  c.device.DefaultLowOutputLatency,
		},
		SampleRate:      c.sampleRate,
		FramesPerBuffer: c.framesPerBuffer,
	}
	stream, err := portaudio.OpenStream(params, c.process)
	if err != nil {
		return fmt.Errorf("cannot open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("cannot start stream: %w", err)
	}
	c.stream = stream
	return nil
}

// process runs on the PortAudio callback thread, once per device buffer.
func (c *Context) process(out []float32) {
	c.processor.Process(audioserver.AudioBuffer{Channels: c.channels, Samples: out})
}

// Close stops the stream and terminates PortAudio.
func (c *Context) Close() error {
	if c.stream != nil {
		if err := c.stream.Stop(); err != nil {
			return fmt.Errorf("cannot stop stream: %w", err)
		}
		if err := c.stream.Close(); err != nil {
			return fmt.Errorf("cannot close stream: %w", err)
		}
		c.stream = nil
	}
	return portaudio.Terminate()
}
