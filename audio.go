package audioserver

type (
	// AudioBuffer is a block of interleaved samples for a fixed number of
	// device channels.
	AudioBuffer struct {
		Channels int
		Samples  []float32
	}

	// AudioProcessor fills an AudioBuffer completely each time it is called.
	// Devices call it from their real-time callback.
	AudioProcessor interface {
		Process(buffer AudioBuffer)
	}

	// AudioContext is an output device that repeatedly asks an
	// AudioProcessor for audio until closed.
	AudioContext interface {
		Play(p AudioProcessor) error
		Close() error
	}
)

func MakeAudioBuffer(channels, frames int) AudioBuffer {
	return AudioBuffer{Channels: channels, Samples: make([]float32, channels*frames)}
}

func (b AudioBuffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Frame returns the samples of frame i, one per channel. The returned slice
// aliases the buffer.
func (b AudioBuffer) Frame(i int) []float32 {
	return b.Samples[i*b.Channels : (i+1)*b.Channels]
}
