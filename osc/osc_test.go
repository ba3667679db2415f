package osc_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	goosc "github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/osc"
	"github.com/soundscape-lab/audioserver/render"
)

var _ osc.Sender = (*goosc.Client)(nil)

type fakeSender struct {
	mu       sync.Mutex
	messages []*goosc.Message
	fail     bool
}

func (s *fakeSender) Send(p goosc.Packet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("network down")
	}
	s.messages = append(s.messages, p.(*goosc.Message))
	return nil
}

func (s *fakeSender) received() []*goosc.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*goosc.Message(nil), s.messages...)
}

func TestAddresser(t *testing.T) {
	tests := []struct {
		pattern, inst, want string
		wantErr             bool
	}{
		{"", "Hall", "/hall/audio", false},
		{"/zones/{{ .Installation | upper }}", "foyer", "/zones/FOYER", false},
		{"{{ .Installation }}", "hall", "", true},
	}
	for _, tt := range tests {
		a, err := osc.NewAddresser(tt.pattern)
		if err != nil {
			t.Fatalf("NewAddresser(%q) failed: %v", tt.pattern, err)
		}
		got, err := a.Address(audioserver.Installation(tt.inst))
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Address(%q) with %q = (%q, %v), want %q", tt.inst, tt.pattern, got, err, tt.want)
		}
	}
	if _, err := osc.NewAddresser("{{ .Installation"); err == nil {
		t.Error("NewAddresser accepted a broken template")
	}
}

func TestMessageLayout(t *testing.T) {
	f := &render.AudioFrame{
		AvgPeak: 0.5, AvgRMS: 0.25,
		AvgLMH:   [3]float32{1, 2, 3},
		Speakers: []render.SpeakerLevel{{Channel: 0, RMS: 0.1, Peak: 0.2}, {Channel: 3, RMS: 0.3, Peak: 0.4}},
	}
	msg := osc.Message("/hall/audio", f)
	if msg.Address != "/hall/audio" {
		t.Errorf("address = %q", msg.Address)
	}
	if got, want := len(msg.Arguments), 2+3+8+2*2; got != want {
		t.Fatalf("%d arguments, want %d", got, want)
	}
	if msg.Arguments[0] != float32(0.5) || msg.Arguments[2] != float32(1) || msg.Arguments[15] != float32(0.3) {
		t.Errorf("arguments = %v", msg.Arguments)
	}
}

func TestOutputRun(t *testing.T) {
	b := render.NewBroker()
	sender := &fakeSender{}
	addr, err := osc.NewAddresser("")
	if err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	out := osc.NewOutput(b, sender, addr, logrus.NewEntry(log))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- out.Run(ctx) }()
	for _, inst := range []string{"Hall", "Foyer"} {
		f := b.GetAudioFrame()
		f.Installation = audioserver.Installation(inst)
		b.ToOSC <- f
	}
	deadline := time.Now().Add(5 * time.Second)
	for len(sender.received()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v", err)
	}
	msgs := sender.received()
	if len(msgs) != 2 || msgs[0].Address != "/hall/audio" || msgs[1].Address != "/foyer/audio" {
		t.Errorf("sent %v", msgs)
	}
}

func TestOutputFlushesQueuedFramesOnCancel(t *testing.T) {
	b := render.NewBroker()
	sender := &fakeSender{}
	addr, err := osc.NewAddresser("")
	if err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	out := osc.NewOutput(b, sender, addr, logrus.NewEntry(log))
	for range 3 {
		f := b.GetAudioFrame()
		f.Installation = "hall"
		b.ToOSC <- f
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := out.Run(ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if got := len(sender.received()); got != 3 {
		t.Errorf("sent %d messages, want the 3 queued frames", got)
	}
	if n := len(b.ToOSC); n != 0 {
		t.Errorf("%d frames left in the queue", n)
	}
}
