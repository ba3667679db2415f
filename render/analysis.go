package render

import (
	"github.com/soundscape-lab/audioserver/detector"
	"golang.org/x/exp/slices"
)

// installationAnalysis accumulates the analysis of the speakers of one
// installation during one buffer.
type installationAnalysis struct {
	peak, rms float32
	lmh       [3]float32
	bands     [detector.NumMelBands]float32
	speakers  []SpeakerLevel
}

func newInstallationAnalysis(capacity int) *installationAnalysis {
	return &installationAnalysis{speakers: make([]SpeakerLevel, 0, capacity)}
}

func (a *installationAnalysis) reset() {
	a.peak, a.rms = 0, 0
	a.lmh = [3]float32{}
	a.bands = [detector.NumMelBands]float32{}
	a.speakers = a.speakers[:0]
}

func (a *installationAnalysis) add(level SpeakerLevel, lmh *[3]float32, bands *[detector.NumMelBands]float32) {
	a.peak += level.Peak
	a.rms += level.RMS
	for i := range a.lmh {
		a.lmh[i] += lmh[i]
	}
	for i := range a.bands {
		a.bands[i] += bands[i]
	}
	a.speakers = append(a.speakers, level)
}

// average writes the mean over the contributing speakers into f, with the
// speaker list ordered by channel.
func (a *installationAnalysis) average(f *AudioFrame) {
	n := float32(len(a.speakers))
	f.AvgPeak = a.peak / n
	f.AvgRMS = a.rms / n
	for i := range a.lmh {
		f.AvgLMH[i] = a.lmh[i] / n
	}
	for i := range a.bands {
		f.AvgBands[i] = a.bands[i] / n
	}
	slices.SortFunc(a.speakers, func(x, y SpeakerLevel) int { return x.Channel - y.Channel })
	f.Speakers = append(f.Speakers[:0], a.speakers...)
}
