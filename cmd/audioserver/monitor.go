package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver/render"
)

// levelInterval is how often the master level is logged.
const levelInterval = 5 * time.Second

// monitor stands in for a GUI: it drains the monitoring messages of the
// render thread and logs the interesting ones.
type monitor struct {
	broker *render.Broker
	log    *logrus.Entry
	peak   float32 // highest master peak since the last report
}

func newMonitor(broker *render.Broker, log *logrus.Entry) *monitor {
	return &monitor{broker: broker, log: log}
}

func (m *monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(levelInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-m.broker.ToGUI:
			m.handle(msg)
		case <-ticker.C:
			m.log.WithField("peak", m.peak).Info("master level")
			if m.peak > 1 {
				m.log.WithField("peak", m.peak).Warn("output clipped")
			}
			m.peak = 0
		}
	}
}

func (m *monitor) handle(msg render.MsgToGUI) {
	switch msg.Kind {
	case render.GUIMasterLevel:
		m.peak = max(m.peak, msg.Peak)
	case render.GUISpeakerAdded, render.GUISpeakerRemoved:
		m.log.WithFields(logrus.Fields{"speaker": msg.Speaker, "x": msg.Position.X, "y": msg.Position.Y}).Debug(msg.Kind.String())
	case render.GUISoundStarted:
		m.log.WithFields(logrus.Fields{"sound": msg.Sound, "source": msg.Source}).Debug(msg.Kind.String())
	case render.GUISoundEnded:
		f := logrus.Fields{"sound": msg.Sound}
		if msg.Ended != nil {
			if frames, ok := msg.Ended.TotalFrames(); ok {
				f["frames"] = frames
			}
		}
		m.log.WithFields(f).Debug(msg.Kind.String())
	}
}
