package config_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/config"
)

const testYAML = `
device:
  backend: oto
  channels: 2
installations: [Hall, Foyer]
speakers:
  - id: 1
    x: -1
    channel: 0
    installations: [HALL]
  - id: 2
    x: 1
    channel: 1
    installations: [hall, foyer]
sounds:
  - id: 10
    source: 3
    tone: 440
    channels: 2
    volume: 0.25
    repeat: true
    installations: [Hall]
midi:
  enabled: true
  map:
    mastervolumecc: 20
`

func TestParseYAML(t *testing.T) {
	c, err := config.Parse([]byte(testYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if c.Device.Backend != config.BackendOto || c.Device.SampleRate != 44100 || c.Device.FramesPerBuffer != 512 {
		t.Errorf("device = %+v, want oto with default rate and buffer", c.Device)
	}
	if c.Render.MasterVolume != 0.5 || c.Render.RolloffDB != 6 || c.Render.FFTWindowLen != 1024 {
		t.Errorf("render = %+v, want defaults", c.Render)
	}
	if c.Installations[0] != "hall" || c.Speakers[0].Installations[0] != "hall" {
		t.Errorf("installation names not folded: %v, %v", c.Installations, c.Speakers[0].Installations)
	}
	if c.MIDI.Map.MasterVolumeCC != 20 || c.MIDI.Map.RolloffCC != 10 || c.MIDI.Map.Channel != -1 {
		t.Errorf("midi map = %+v", c.MIDI.Map)
	}
	if c.OSC.Address != "/{{ .Installation | lower }}/audio" {
		t.Errorf("osc address = %q", c.OSC.Address)
	}
	id, spk := c.Speakers[1].Speaker()
	if id != 2 || spk.Channel != 1 || !spk.Installations.Contains("foyer") {
		t.Errorf("speaker 2 = %d %+v", id, spk)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	voices, err := c.Voices(logrus.NewEntry(log))
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	v := voices[0]
	if v.ID != 10 || !v.Repeat || v.Sound.Volume != 0.25 || v.Sound.Channels != 2 || v.Sound.Spread != 1 {
		t.Errorf("voice = %+v", v)
	}
	if _, ok := v.NewSignal().RemainingFrames(); ok {
		t.Error("tone is finite")
	}
}

func TestParseJSON(t *testing.T) {
	c, err := config.Parse([]byte(`{"installations": ["a"], "speakers": [{"id": 1, "installations": ["A"]}], "render": {"rolloffdb": 3}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if c.Render.RolloffDB != 3 || c.Render.MasterVolume != 0.5 {
		t.Errorf("render = %+v", c.Render)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := config.Parse([]byte("speakers: [")); err == nil {
		t.Error("Parse accepted broken input")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *config.Config)
		want   error
	}{
		{"no speakers", func(c *config.Config) { c.Speakers = nil }, config.ErrNoSpeakers},
		{"duplicate speaker", func(c *config.Config) { c.Speakers[1].ID = 1 }, config.ErrDuplicateSpeaker},
		{"channel out of range", func(c *config.Config) { c.Speakers[1].Channel = 2 }, config.ErrChannelOutOfRange},
		{"unknown installation", func(c *config.Config) { c.Sounds[0].Installations = []string{"garden"} }, config.ErrUnknownInstallation},
		{"bad sample rate", func(c *config.Config) { c.Device.SampleRate = 0 }, config.ErrInvalidDevice},
		{"bad backend", func(c *config.Config) { c.Device.Backend = "alsa" }, config.ErrInvalidDevice},
		{"no signal", func(c *config.Config) { c.Sounds[0].Tone = 0 }, config.ErrNoSignal},
		{"duplicate sound", func(c *config.Config) { c.Sounds = append(c.Sounds, c.Sounds[0]) }, config.ErrDuplicateSound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := config.Parse([]byte(testYAML))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			tt.modify(&c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadResolvesFilesNextToConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yml")
	data := "installations: [Hall, Foyer]\nspeakers: [{id: 1}]\nsounds:\n  - id: 11\n    file: missing.wav\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, err = c.Voices(logrus.NewEntry(logrus.New()))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Voices() = %v, want a missing file error", err)
	}
	if got := c.InstallationIDs(); len(got) != 2 || got[1] != audioserver.Installation("foyer") {
		t.Errorf("InstallationIDs() = %v", got)
	}
}
