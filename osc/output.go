package osc

import (
	"context"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver/render"
)

type (
	// Sender delivers OSC packets. *osc.Client is a Sender.
	Sender interface {
		Send(packet osc.Packet) error
	}

	// Output forwards the analysis frames of the render thread as OSC
	// messages, one per installation per buffer.
	Output struct {
		broker  *render.Broker
		sender  Sender
		addr    *Addresser
		log     *logrus.Entry
		lastErr string
	}
)

// NewClient returns a UDP sender to host:port.
func NewClient(host string, port int) *osc.Client {
	return osc.NewClient(host, port)
}

func NewOutput(broker *render.Broker, sender Sender, addr *Addresser, log *logrus.Entry) *Output {
	return &Output{broker: broker, sender: sender, addr: addr, log: log}
}

// flushTimeout bounds how long Run keeps sending queued frames after its
// context is done.
const flushTimeout = 50 * time.Millisecond

// Run sends the frames arriving from the render thread until ctx is done,
// then flushes what is already queued.
func (o *Output) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			o.flush()
			return nil
		case f := <-o.broker.ToOSC:
			o.send(f)
			o.broker.PutAudioFrame(f)
		}
	}
}

func (o *Output) flush() {
	deadline := time.Now().Add(flushTimeout)
	for time.Now().Before(deadline) {
		f, ok := render.TimeoutReceive(o.broker.ToOSC, time.Until(deadline))
		if !ok {
			return
		}
		o.send(f)
		o.broker.PutAudioFrame(f)
	}
}

func (o *Output) send(f *render.AudioFrame) {
	addr, err := o.addr.Address(f.Installation)
	if err != nil {
		o.report(err)
		return
	}
	if err := o.sender.Send(Message(addr, f)); err != nil {
		o.report(err)
		return
	}
	o.lastErr = ""
}

// report logs err unless it repeats the previous error.
func (o *Output) report(err error) {
	if s := err.Error(); s != o.lastErr {
		o.lastErr = s
		o.log.WithError(err).Warn("could not send osc message")
	}
}

// Message lays out a frame as the arguments of one OSC message: average
// peak, average RMS, the three low/mid/high bands, the eight mel bands, then
// RMS and peak of each speaker in channel order.
func Message(addr string, f *render.AudioFrame) *osc.Message {
	msg := osc.NewMessage(addr, f.AvgPeak, f.AvgRMS)
	for _, v := range f.AvgLMH {
		msg.Append(v)
	}
	for _, v := range f.AvgBands {
		msg.Append(v)
	}
	for _, s := range f.Speakers {
		msg.Append(s.RMS, s.Peak)
	}
	return msg
}
