// Package source provides the signals sounds are played from: in-memory
// sample buffers, decoded WAV files and test tones.
package source

import (
	"errors"
	"fmt"
)

// ErrSeekOutOfRange is returned when seeking past the end of a finite signal.
var ErrSeekOutOfRange = errors.New("seek beyond the end of the signal")

// Buffer is a finite signal playing interleaved samples held in memory.
// Buffers created with Clone share the samples but not the position.
type Buffer struct {
	channels int
	samples  []float32
	pos      int // in samples
}

// NewBuffer plays samples, interleaved for the given number of channels. A
// trailing incomplete frame is dropped.
func NewBuffer(channels int, samples []float32) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("buffer needs at least one channel, got %d", channels)
	}
	return &Buffer{channels: channels, samples: samples[:len(samples)/channels*channels]}, nil
}

func (b *Buffer) Channels() int { return b.channels }

// Frames returns the length of the buffer in frames.
func (b *Buffer) Frames() uint64 { return uint64(len(b.samples) / b.channels) }

func (b *Buffer) ReadSamples(dst []float32) int {
	n := copy(dst, b.samples[b.pos:])
	b.pos += n
	return n
}

func (b *Buffer) RemainingFrames() (uint64, bool) {
	return uint64((len(b.samples) - b.pos) / b.channels), true
}

// SeekFrame moves the position to the start of frame. Seeking to the end is
// allowed and leaves nothing to read.
func (b *Buffer) SeekFrame(frame uint64) error {
	if frame > b.Frames() {
		return fmt.Errorf("frame %d of %d: %w", frame, b.Frames(), ErrSeekOutOfRange)
	}
	b.pos = int(frame) * b.channels
	return nil
}

// Clone returns a buffer at the start of the same samples.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{channels: b.channels, samples: b.samples}
}
