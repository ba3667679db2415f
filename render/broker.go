package render

import (
	"sync"
	"time"
)

type (
	// Broker holds the channels between the render thread and the other
	// threads of the server. Every channel has one direction and one
	// recipient:
	//
	//	ToAudio       commands applied to the Model between two buffers
	//	ToGUI         monitoring messages for the GUI
	//	ToOSC         per-installation analysis frames for the OSC output
	//	ToSoundscape  update functions for the soundscape scheduler
	//
	// The render thread only ever sends with TrySend: if a recipient is slow
	// or gone, its messages are dropped. The channels are never closed; a
	// recipient that has quit just stops receiving. Additionally, the broker has a
	// sync.Pool for *AudioFrames, so the render thread can pass analysis
	// frames to the OSC output without allocating new ones every buffer.
	Broker struct {
		ToAudio      chan Command
		ToGUI        chan MsgToGUI
		ToOSC        chan *AudioFrame
		ToSoundscape chan SoundscapeUpdate

		framePool sync.Pool
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToAudio:      make(chan Command, 1024),
		ToGUI:        make(chan MsgToGUI, 4096),
		ToOSC:        make(chan *AudioFrame, 256),
		ToSoundscape: make(chan SoundscapeUpdate, 1024),
		framePool:    sync.Pool{New: func() any { return &AudioFrame{} }},
	}
}

// GetAudioFrame returns an analysis frame from the pool. After use, it should
// be returned to the pool with PutAudioFrame.
func (b *Broker) GetAudioFrame() *AudioFrame {
	return b.framePool.Get().(*AudioFrame)
}

// PutAudioFrame returns a frame to the pool. Its speaker list is emptied but
// its capacity kept.
func (b *Broker) PutAudioFrame(f *AudioFrame) {
	f.Speakers = f.Speakers[:0]
	b.framePool.Put(f)
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
