package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/wav"
)

// Playback selects how a WAV file plays.
type Playback int

const (
	// Retrigger plays the file once from its start each time it is played.
	Retrigger Playback = iota
	// Continuous loops the file in step with the global frame count, as if
	// it had been playing since the server started.
	Continuous
)

func (p Playback) String() string {
	if p == Continuous {
		return "continuous"
	}
	return "retrigger"
}

func ParsePlayback(s string) (Playback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "retrigger":
		return Retrigger, nil
	case "continuous":
		return Continuous, nil
	}
	return Retrigger, fmt.Errorf("unknown playback %q", s)
}

// Wav is a decoded WAV file held in memory.
type Wav struct {
	Buffer
	playback   Playback
	sampleRate int
}

// LoadWav reads and decodes the WAV file at path.
func LoadWav(path string, playback Playback) (*Wav, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open wav: %w", err)
	}
	defer f.Close()
	w, err := DecodeWav(f, playback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// DecodeWav decodes a whole WAV stream into memory, converting the samples
// to floats in [-1, 1).
func DecodeWav(r io.ReadSeeker, playback Playback) (*Wav, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("invalid wav buffer")
	}
	samples := buf.AsFloat32Buffer().Data
	b, err := NewBuffer(buf.Format.NumChannels, samples)
	if err != nil {
		return nil, err
	}
	return &Wav{Buffer: *b, playback: playback, sampleRate: buf.Format.SampleRate}, nil
}

func (w *Wav) SampleRate() int    { return w.sampleRate }
func (w *Wav) Playback() Playback { return w.playback }
func (w *Wav) Continuous() bool   { return w.playback == Continuous }

// Clone returns the same file ready to play from its start.
func (w *Wav) Clone() *Wav {
	return &Wav{Buffer: *w.Buffer.Clone(), playback: w.playback, sampleRate: w.sampleRate}
}

// ReadSamples reads like a Buffer, except that a continuous file wraps
// around and never runs out.
func (w *Wav) ReadSamples(dst []float32) int {
	if w.playback != Continuous || len(w.samples) == 0 {
		return w.Buffer.ReadSamples(dst)
	}
	n := 0
	for n < len(dst) {
		if w.pos >= len(w.samples) {
			w.pos = 0
		}
		c := copy(dst[n:], w.samples[w.pos:])
		w.pos += c
		n += c
	}
	return n
}

func (w *Wav) RemainingFrames() (uint64, bool) {
	if w.playback == Continuous {
		return 0, false
	}
	return w.Buffer.RemainingFrames()
}

// SeekFrame positions a continuous file at frame modulo its length. A
// retriggered file seeks like a Buffer.
func (w *Wav) SeekFrame(frame uint64) error {
	if w.playback != Continuous {
		return w.Buffer.SeekFrame(frame)
	}
	frames := w.Frames()
	if frames == 0 {
		return fmt.Errorf("empty file: %w", ErrSeekOutOfRange)
	}
	return w.Buffer.SeekFrame(frame % frames)
}
