package soundscape

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/control"
	"github.com/soundscape-lab/audioserver/render"
)

// retryInterval is how often sounds that could not be queued are retried.
const retryInterval = 100 * time.Millisecond

type (
	// Voice is a sound the scheduler plays. Each time it starts, it plays a
	// fresh signal from NewSignal under the same id.
	Voice struct {
		ID        audioserver.SoundID
		Sound     audioserver.Sound
		NewSignal func() audioserver.Signal
		// Repeat plays the voice again as soon as it ends.
		Repeat bool
	}

	Scheduler struct {
		broker  *render.Broker
		model   *Model
		voices  map[audioserver.SoundID]Voice
		order   []audioserver.SoundID
		pending []audioserver.SoundID
		log     *logrus.Entry
	}
)

func NewScheduler(broker *render.Broker, voices []Voice, log *logrus.Entry) *Scheduler {
	s := &Scheduler{
		broker: broker,
		model:  NewModel(),
		voices: make(map[audioserver.SoundID]Voice, len(voices)),
		log:    log,
	}
	for _, v := range voices {
		if _, dup := s.voices[v.ID]; !dup {
			s.order = append(s.order, v.ID)
		}
		s.voices[v.ID] = v
	}
	return s
}

func (s *Scheduler) Model() *Model { return s.model }

// Start queues every voice for playing.
func (s *Scheduler) Start() {
	s.pending = append(s.pending, s.order...)
	s.flush()
}

// Run starts the voices and then applies the updates from the render thread
// until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-s.broker.ToSoundscape:
			s.Handle(u)
		case <-ticker.C:
			s.flush()
		}
	}
}

// Handle applies an update from the render thread and replays the repeating
// voices that ended.
func (s *Scheduler) Handle(u render.SoundscapeUpdate) {
	u(s.model)
	for _, id := range s.model.TakeEnded() {
		v, ok := s.voices[id]
		if !ok {
			continue
		}
		s.log.WithField("sound", id).Debug("sound ended")
		if v.Repeat {
			s.pending = append(s.pending, id)
		}
	}
	s.flush()
}

// flush queues the pending voices, keeping those the render queue had no
// room for.
func (s *Scheduler) flush() {
	kept := s.pending[:0]
	for _, id := range s.pending {
		if s.model.IsActive(id) {
			continue
		}
		if !s.play(s.voices[id]) {
			kept = append(kept, id)
		}
	}
	s.pending = kept
}

func (s *Scheduler) play(v Voice) bool {
	snd := v.Sound
	if v.NewSignal != nil {
		snd.Signal = v.NewSignal()
	}
	if snd.Signal == nil {
		s.log.WithField("sound", v.ID).Warn("voice has no signal")
		return true
	}
	if !control.Submit(s.broker, control.PlaySound(v.ID, snd)) {
		return false
	}
	s.model.AddActiveSound(v.ID)
	return true
}
