package soundscape_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/render"
	"github.com/soundscape-lab/audioserver/soundscape"
	"github.com/soundscape-lab/audioserver/source"
)

func quietLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func shortSignal() audioserver.Signal {
	b, _ := source.NewBuffer(1, make([]float32, 100))
	return b
}

func applyCommands(m *render.Model, b *render.Broker) int {
	n := 0
	for {
		select {
		case cmd := <-b.ToAudio:
			cmd(m)
			n++
		default:
			return n
		}
	}
}

func TestSchedulerRepeatsVoices(t *testing.T) {
	b := render.NewBroker()
	m, err := render.NewModel(b, render.Config{FramesPerBuffer: 128})
	if err != nil {
		t.Fatal(err)
	}
	voices := []soundscape.Voice{
		{ID: 1, Sound: audioserver.Sound{Channels: 1, Volume: 1}, NewSignal: shortSignal, Repeat: true},
		{ID: 2, Sound: audioserver.Sound{Channels: 1, Volume: 1}, NewSignal: shortSignal},
	}
	s := soundscape.NewScheduler(b, voices, quietLog())
	s.Start()
	if n := applyCommands(m, b); n != 2 {
		t.Fatalf("Start queued %d commands, want 2", n)
	}
	if s.Model().NumActive() != 2 || m.NumSounds() != 2 {
		t.Fatalf("active = %d, playing = %d, want 2 and 2", s.Model().NumActive(), m.NumSounds())
	}
	m.Render(audioserver.MakeAudioBuffer(2, 128))
	if m.NumSounds() != 0 {
		t.Fatalf("%d sounds still playing after exhausting them", m.NumSounds())
	}
	for range 2 {
		select {
		case u := <-b.ToSoundscape:
			s.Handle(u)
		default:
			t.Fatal("render thread sent fewer than 2 updates")
		}
	}
	if n := applyCommands(m, b); n != 1 {
		t.Fatalf("queued %d commands after the sounds ended, want 1", n)
	}
	if _, ok := m.Sound(1); !ok {
		t.Error("repeating voice was not played again")
	}
	if s.Model().IsActive(2) {
		t.Error("one-shot voice still active")
	}
}

func TestSchedulerRetriesWhenQueueIsFull(t *testing.T) {
	b := render.NewBroker()
	for range cap(b.ToAudio) {
		b.ToAudio <- func(*render.Model) {}
	}
	s := soundscape.NewScheduler(b, []soundscape.Voice{{ID: 1, Sound: audioserver.Sound{Channels: 1}, NewSignal: shortSignal}}, quietLog())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()
	// free one slot; the retry ticker queues the voice
	<-b.ToAudio
	deadline := time.After(5 * time.Second)
	for len(b.ToAudio) < cap(b.ToAudio) {
		select {
		case <-deadline:
			t.Fatal("voice was never queued")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestModelIgnoresUnknownSounds(t *testing.T) {
	m := soundscape.NewModel()
	m.AddActiveSound(3)
	m.RemoveActiveSound(4)
	m.RemoveActiveSound(3)
	m.RemoveActiveSound(3)
	if ended := m.TakeEnded(); len(ended) != 1 || ended[0] != 3 {
		t.Errorf("TakeEnded() = %v, want [3]", ended)
	}
	if m.NumActive() != 0 {
		t.Errorf("NumActive() = %d, want 0", m.NumActive())
	}
}
