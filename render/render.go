package render

import (
	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/dbap"
	"github.com/soundscape-lab/audioserver/detector"
	"github.com/viterin/vek/vek32"
)

// Render fills buffer with the spatialised mix of all active sounds, updates
// the speaker analysis and sends the monitoring messages of this buffer.
// Render never blocks and never fails: the buffer is always filled, even if
// every sound had to be skipped.
func (m *Model) Render(buffer audioserver.AudioBuffer) {
	nch := buffer.Channels
	frames := buffer.Frames()
	if len(buffer.Samples) > 0 {
		vek32.Zeros_Into(buffer.Samples, len(buffer.Samples))
	}
	m.mapChannelSpeakers(nch)
	m.exhausted = m.exhausted[:0]
	for id, a := range m.sounds {
		m.mixSound(id, a, buffer, frames)
	}
	m.analyseSpeakers(buffer, frames)
	m.sendAnalyses()
	for _, id := range m.exhausted {
		m.RemoveSound(id)
	}
	m.exhausted = m.exhausted[:0]
	if len(buffer.Samples) > 0 {
		vek32.MulNumber_Inplace(buffer.Samples, m.MasterVolume)
	}
	m.sendGUI(MsgToGUI{Kind: GUIMasterLevel, Peak: bufferPeak(buffer.Samples)})
	m.FrameCount += uint64(frames)
}

// mapChannelSpeakers rebuilds the device channel to speaker table. When two
// speakers share a channel, the one with the lowest id is used.
func (m *Model) mapChannelSpeakers(nch int) {
	m.channelSpeakers = m.channelSpeakers[:0]
	for range nch {
		m.channelSpeakers = append(m.channelSpeakers, nil)
	}
	for id, s := range m.speakers {
		ch := s.speaker.Channel
		if ch < 0 || ch >= nch {
			continue
		}
		if cur := m.channelSpeakers[ch]; cur == nil || id < cur.id {
			m.channelSpeakers[ch] = s
		}
	}
}

func (m *Model) mixSound(id audioserver.SoundID, a *ActiveSound, buffer audioserver.AudioBuffer, frames int) {
	m.sendGUI(m.soundMsg(GUISoundUpdated, id, a))
	s := &a.sound
	if !s.Shared.IsPlaying() {
		return
	}
	if s.Signal == nil {
		// nothing will ever play, end it like an exhausted signal
		m.exhausted = append(m.exhausted, id)
		return
	}
	if s.Channels < 1 || len(a.channelDetectors) != s.Channels {
		// Channels was changed through Sound() rather than UpdateSound
		a.syncChannels()
	}
	sch := s.Channels
	numSamples := frames * sch
	m.unmixed = setSliceLength(m.unmixed, numSamples)
	if !m.audible(s) {
		// keep the signal in time, but discard what it produced
		if s.Signal.ReadSamples(m.unmixed) < numSamples {
			m.exhausted = append(m.exhausted, id)
		}
		return
	}
	if cs, ok := s.Signal.(audioserver.ContinuousSignal); ok && cs.Continuous() {
		if err := cs.SeekFrame(m.FrameCount); err != nil {
			m.log.WithFields(logrus.Fields{"sound": id, "frame": m.FrameCount}).WithError(err).Warn("cannot seek continuous signal")
			return
		}
	}
	n := s.Signal.ReadSamples(m.unmixed)
	if n < numSamples {
		clear(m.unmixed[n:])
		m.exhausted = append(m.exhausted, id)
	}
	for i, v := range m.unmixed[:n] {
		a.channelDetectors[i%sch].Next(v)
	}
	for c := range sch {
		rms, peak := a.channelDetectors[c].Current()
		m.sendGUI(MsgToGUI{Kind: GUISoundChannelUpdated, Sound: id, Index: c, RMS: rms, Peak: peak})
	}
	nch := buffer.Channels
	for c := range sch {
		m.channelGains(s, c)
		for j, ch := range m.dbapChannels {
			g := float32(m.dbapGains[j]) * s.Volume
			if g == 0 {
				continue
			}
			for f := range frames {
				buffer.Samples[f*nch+ch] += m.unmixed[f*sch+c] * g
			}
		}
	}
}

// channelGains solves DBAP for channel c of s over every device channel that
// has a speaker. Channels without a speaker are left out of the solution.
func (m *Model) channelGains(s *audioserver.Sound, c int) {
	point := s.ChannelPoint(c)
	m.dbapSpeakers = m.dbapSpeakers[:0]
	m.dbapChannels = m.dbapChannels[:0]
	for ch, spk := range m.channelSpeakers {
		if spk == nil {
			continue
		}
		m.dbapSpeakers = append(m.dbapSpeakers, dbap.Speaker{
			Distance2: dbap.BlurredDistance2(point, spk.speaker.Position, audioserver.DistanceBlur),
			Weight:    audioserver.DBAPWeight(s.Installations, spk.speaker.Installations),
		})
		m.dbapChannels = append(m.dbapChannels, ch)
	}
	m.dbapGains = dbap.Gains(m.dbapGains[:0], m.dbapSpeakers, m.DBAPRolloffDB)
}

func (m *Model) analyseSpeakers(buffer audioserver.AudioBuffer, frames int) {
	for _, a := range m.analyses {
		a.reset()
	}
	nch := buffer.Channels
	var lmh [3]float32
	var bands [detector.NumMelBands]float32
	window := m.planner.WindowLen()
	for id, s := range m.speakers {
		ch := s.speaker.Channel
		if ch < 0 || ch >= nch {
			continue
		}
		for f := range frames {
			v := buffer.Samples[f*nch+ch]
			s.env.Next(v)
			s.fft.Push(v)
		}
		rms, peak := s.env.Current()
		m.sendGUI(MsgToGUI{Kind: GUISpeakerUpdated, Speaker: id, RMS: rms, Peak: peak})
		if len(s.speaker.Installations) == 0 {
			continue
		}
		s.fft.CalcFFT(m.planner, m.fftBins)
		l, mid, h := m.bands.LMH(m.fftBins)
		lmh = [3]float32{
			detector.Normalize(l, window),
			detector.Normalize(mid, window),
			detector.Normalize(h, window),
		}
		m.bands.Mel(m.fftBins, &bands)
		for i := range bands {
			bands[i] = detector.Normalize(bands[i], window)
		}
		level := SpeakerLevel{Channel: ch, RMS: rms, Peak: peak}
		for inst := range s.speaker.Installations {
			acc, ok := m.analyses[inst]
			if !ok {
				acc = newInstallationAnalysis(nch)
				m.analyses[inst] = acc
			}
			acc.add(level, &lmh, &bands)
		}
	}
}

// sendAnalyses sends one frame per installation that had at least one
// speaker during this buffer.
func (m *Model) sendAnalyses() {
	for inst, a := range m.analyses {
		if len(a.speakers) == 0 {
			continue
		}
		f := m.broker.GetAudioFrame()
		f.Installation = inst
		a.average(f)
		if !TrySend(m.broker.ToOSC, f) {
			m.broker.PutAudioFrame(f)
		}
	}
}

func bufferPeak(samples []float32) float32 {
	if len(samples) == 0 {
		return 0
	}
	return max(vek32.Max(samples), -vek32.Min(samples), 0)
}

// setSliceLength sets the length of a slice to a given length, reallocating
// only if the capacity is not enough. The contents are not cleared.
func setSliceLength[T any](slice []T, length int) []T {
	if cap(slice) < length {
		return make([]T, length)
	}
	return slice[:length]
}
