package render

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/dbap"
	"github.com/soundscape-lab/audioserver/detector"
)

type (
	// Model is the state of the render thread: the active sounds and
	// speakers, the global parameters and the scratch buffers Render reuses
	// every buffer. Only the render thread may touch a Model; other threads
	// send Commands through the Broker.
	Model struct {
		// FrameCount is the number of frames rendered so far. Continuous
		// signals are seeked to it; it is never reset.
		FrameCount    uint64
		MasterVolume  float32
		DBAPRolloffDB float64
		// Soloed holds the sources that are audible when it is non-empty.
		Soloed map[audioserver.SourceID]struct{}

		sounds   map[audioserver.SoundID]*ActiveSound
		speakers map[audioserver.SpeakerID]*ActiveSpeaker

		// scratch, cleared at the start of every use
		unmixed         []float32
		exhausted       []audioserver.SoundID
		analyses        map[audioserver.Installation]*installationAnalysis
		channelSpeakers []*ActiveSpeaker
		dbapSpeakers    []dbap.Speaker
		dbapChannels    []int
		dbapGains       []float64
		fftBins         []float32

		planner    *detector.Planner
		bands      detector.Bands
		sampleRate float64

		broker *Broker
		log    *logrus.Entry
	}

	// Config sizes a Model. Zero fields get defaults.
	Config struct {
		SampleRate      float64
		FramesPerBuffer int
		// Channels is the expected device channel count.
		Channels      int
		FFTWindowLen  int
		Installations []audioserver.Installation
		Logger        *logrus.Entry
	}
)

const DefaultFramesPerBuffer = 512

// NewModel creates a Model sending its messages through broker, or through a
// broker nobody listens to if broker is nil. All scratch buffers are sized
// here for cfg so that rendering buffers of at most cfg.FramesPerBuffer
// frames does not allocate.
func NewModel(broker *Broker, cfg Config) (*Model, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = detector.DefaultSampleRate
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = DefaultFramesPerBuffer
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 2
	}
	cfg.Channels = min(cfg.Channels, audioserver.MaxChannels)
	if cfg.FFTWindowLen <= 0 {
		cfg.FFTWindowLen = detector.DefaultWindowLen
	}
	if broker == nil {
		broker = NewBroker()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	planner, err := detector.NewPlanner(cfg.FFTWindowLen)
	if err != nil {
		return nil, fmt.Errorf("render model: %w", err)
	}
	m := &Model{
		MasterVolume:    audioserver.DefaultMasterVolume,
		DBAPRolloffDB:   audioserver.DefaultDBAPRolloffDB,
		Soloed:          make(map[audioserver.SourceID]struct{}),
		sounds:          make(map[audioserver.SoundID]*ActiveSound),
		speakers:        make(map[audioserver.SpeakerID]*ActiveSpeaker),
		unmixed:         make([]float32, 0, cfg.FramesPerBuffer*audioserver.MaxSoundChannels),
		exhausted:       make([]audioserver.SoundID, 0, 64),
		analyses:        make(map[audioserver.Installation]*installationAnalysis, len(cfg.Installations)),
		channelSpeakers: make([]*ActiveSpeaker, 0, audioserver.MaxChannels),
		dbapSpeakers:    make([]dbap.Speaker, 0, audioserver.MaxChannels),
		dbapChannels:    make([]int, 0, audioserver.MaxChannels),
		dbapGains:       make([]float64, 0, audioserver.MaxChannels),
		fftBins:         make([]float32, cfg.FFTWindowLen/2),
		planner:         planner,
		bands:           detector.NewBands(cfg.SampleRate, cfg.FFTWindowLen),
		sampleRate:      cfg.SampleRate,
		broker:          broker,
		log:             cfg.Logger,
	}
	for _, inst := range cfg.Installations {
		m.analyses[inst] = newInstallationAnalysis(cfg.Channels)
	}
	return m, nil
}

func (m *Model) SampleRate() float64 { return m.sampleRate }
func (m *Model) NumSounds() int      { return len(m.sounds) }
func (m *Model) NumSpeakers() int    { return len(m.speakers) }

// InsertSpeaker adds the speaker or replaces the one with the same id. A
// replaced speaker keeps its detectors unless it changes channel, and the
// previous value is returned.
func (m *Model) InsertSpeaker(id audioserver.SpeakerID, s audioserver.Speaker) (prev audioserver.Speaker, ok bool) {
	if a, exists := m.speakers[id]; exists {
		prev, ok = a.speaker, true
		a.moveTo(s)
	} else {
		m.speakers[id] = newActiveSpeaker(id, s, m.sampleRate, m.planner.WindowLen())
	}
	m.sendGUI(MsgToGUI{Kind: GUISpeakerAdded, Speaker: id, Position: s.Position})
	return prev, ok
}

// RemoveSpeaker removes the speaker along with its detector history.
func (m *Model) RemoveSpeaker(id audioserver.SpeakerID) (audioserver.Speaker, bool) {
	a, ok := m.speakers[id]
	if !ok {
		return audioserver.Speaker{}, false
	}
	delete(m.speakers, id)
	m.sendGUI(MsgToGUI{Kind: GUISpeakerRemoved, Speaker: id})
	return a.speaker, true
}

// Speaker returns the speaker with the given id.
func (m *Model) Speaker(id audioserver.SpeakerID) (audioserver.Speaker, bool) {
	a, ok := m.speakers[id]
	if !ok {
		return audioserver.Speaker{}, false
	}
	return a.speaker, true
}

// SpeakerLevel returns the running RMS and peak of a speaker.
func (m *Model) SpeakerLevel(id audioserver.SpeakerID) (rms, peak float32, ok bool) {
	a, ok := m.speakers[id]
	if !ok {
		return 0, 0, false
	}
	rms, peak = a.Level()
	return rms, peak, true
}

// InsertSpeakerInstallation adds the speaker to inst. It returns false if the
// speaker is unknown or already in inst.
func (m *Model) InsertSpeakerInstallation(id audioserver.SpeakerID, inst audioserver.Installation) bool {
	a, ok := m.speakers[id]
	if !ok {
		return false
	}
	return a.speaker.Installations.Insert(inst)
}

// RemoveSpeakerInstallation removes the speaker from inst. It returns false if
// the speaker is unknown or not in inst.
func (m *Model) RemoveSpeakerInstallation(id audioserver.SpeakerID, inst audioserver.Installation) bool {
	a, ok := m.speakers[id]
	if !ok {
		return false
	}
	return a.speaker.Installations.Remove(inst)
}

// InsertSound starts playing s. A sound already playing with the same id is
// replaced and returned.
func (m *Model) InsertSound(id audioserver.SoundID, s *ActiveSound) (prev *ActiveSound, ok bool) {
	prev, ok = m.sounds[id]
	m.sounds[id] = s
	m.sendGUI(m.soundMsg(GUISoundStarted, id, s))
	return prev, ok
}

// Sound returns the active sound with the given id.
func (m *Model) Sound(id audioserver.SoundID) (*ActiveSound, bool) {
	s, ok := m.sounds[id]
	return s, ok
}

// UpdateSound applies f to the sound with the given id and reports whether
// the sound was found.
func (m *Model) UpdateSound(id audioserver.SoundID, f func(*audioserver.Sound)) bool {
	a, ok := m.sounds[id]
	if !ok {
		return false
	}
	f(&a.sound)
	a.syncChannels()
	return true
}

// UpdateSoundsWithSource applies f to every sound created from source and
// returns the number of sounds updated.
func (m *Model) UpdateSoundsWithSource(source audioserver.SourceID, f func(*audioserver.Sound)) int {
	n := 0
	for _, a := range m.sounds {
		if a.sound.Source != source {
			continue
		}
		f(&a.sound)
		a.syncChannels()
		n++
	}
	return n
}

// RemoveSound stops the sound and notifies the GUI and the soundscape that
// it ended. It returns false if the id was unknown.
func (m *Model) RemoveSound(id audioserver.SoundID) bool {
	a, ok := m.sounds[id]
	if !ok {
		return false
	}
	delete(m.sounds, id)
	m.sendGUI(MsgToGUI{Kind: GUISoundEnded, Sound: id, Source: a.sound.Source, Ended: a})
	TrySend(m.broker.ToSoundscape, SoundscapeUpdate(func(s Soundscape) { s.RemoveActiveSound(id) }))
	return true
}

// Solo makes only the given source audible, together with any source already
// soloed.
func (m *Model) Solo(source audioserver.SourceID) { m.Soloed[source] = struct{}{} }

func (m *Model) Unsolo(source audioserver.SourceID) { delete(m.Soloed, source) }

func (m *Model) audible(s *audioserver.Sound) bool {
	if s.Muted {
		return false
	}
	if len(m.Soloed) == 0 {
		return true
	}
	_, ok := m.Soloed[s.Source]
	return ok
}

func (m *Model) soundMsg(kind GUIMsgKind, id audioserver.SoundID, a *ActiveSound) MsgToGUI {
	progress, ok := a.NormalisedProgress()
	return MsgToGUI{
		Kind:        kind,
		Sound:       id,
		Source:      a.sound.Source,
		Position:    a.sound.Position,
		Channels:    a.sound.Channels,
		Progress:    progress,
		HasProgress: ok,
	}
}

func (m *Model) sendGUI(msg MsgToGUI) {
	TrySend(m.broker.ToGUI, msg)
}
