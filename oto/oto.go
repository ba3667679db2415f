// Package oto plays the render output on the default stereo device of the
// system through ebitengine/oto. It supports one or two channels; use the
// portaudio backend for more.
package oto

import (
	"errors"
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/soundscape-lab/audioserver"
)

type (
	// Context is an audioserver.AudioContext driving an AudioProcessor from
	// the oto player's read callback.
	Context struct {
		ctx             *oto.Context
		channels        int
		framesPerBuffer int
		player          *oto.Player
	}

	// reader renders one buffer at a time and hands it to oto as bytes.
	reader struct {
		processor audioserver.AudioProcessor
		buffer    audioserver.AudioBuffer
		bytes     []byte
		pending   []byte
	}
)

var ErrTooManyChannels = errors.New("oto supports at most two channels")

// NewContext opens the default output device.
func NewContext(sampleRate, channels, framesPerBuffer int) (*Context, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyChannels, channels)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, channels: channels, framesPerBuffer: framesPerBuffer}, nil
}

// Play starts pulling audio from p. Only one processor plays at a time.
func (c *Context) Play(p audioserver.AudioProcessor) error {
	if c.player != nil {
		return errors.New("oto context is already playing")
	}
	r := &reader{
		processor: p,
		buffer:    audioserver.MakeAudioBuffer(c.channels, c.framesPerBuffer),
		bytes:     make([]byte, 0, c.channels*c.framesPerBuffer*4),
	}
	c.player = c.ctx.NewPlayer(r)
	c.player.Play()
	return nil
}

func (c *Context) Close() error {
	if c.player == nil {
		return nil
	}
	if err := c.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	c.player = nil
	return nil
}

// Read implements io.Reader for the oto player.
func (r *reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			r.processor.Process(r.buffer)
			r.bytes = FloatBufferToLE(r.buffer.Samples, r.bytes[:0])
			r.pending = r.bytes
		}
		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}
	return n, nil
}
