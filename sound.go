package audioserver

import "sync/atomic"

type (
	// Signal produces interleaved audio samples lazily. Signals may be
	// finite or infinite.
	Signal interface {
		// ReadSamples fills dst with interleaved samples and returns how many
		// were written. Writing fewer than len(dst) means the signal is
		// exhausted.
		ReadSamples(dst []float32) int
		// RemainingFrames returns the number of frames left, or ok = false
		// if the signal is infinite.
		RemainingFrames() (frames uint64, ok bool)
	}

	// ContinuousSignal is a Signal that must stay seeked to the global frame
	// count of the render thread, so pausing or stalling the renderer does
	// not desynchronise it from wall-clock playback.
	ContinuousSignal interface {
		Signal
		Continuous() bool
		SeekFrame(frame uint64) error
	}

	// Sound is a playing instance of a source, owned by the render thread
	// once inserted.
	Sound struct {
		Signal        Signal
		Source        SourceID
		Position      Point2
		Channels      int
		Spread        float64 // radius of the channel circle in metres
		Radians       float32 // rotation of the first channel on the circle
		Volume        float32
		Muted         bool
		Installations InstallationSet
		// Shared is read by the render thread and written by others. A nil
		// Shared means the sound is always playing.
		Shared *Shared
	}

	// Shared is the part of a sound's state other threads may change without
	// going through the render thread's command queue.
	Shared struct {
		paused atomic.Bool
	}
)

func (s *Shared) IsPlaying() bool { return s == nil || !s.paused.Load() }
func (s *Shared) Play()           { s.paused.Store(false) }
func (s *Shared) Pause()          { s.paused.Store(true) }

// ChannelPoint returns the emission point of the given channel of the sound.
func (s *Sound) ChannelPoint(index int) Point2 {
	return ChannelPoint(s.Position, index, s.Channels, s.Spread, s.Radians)
}
