// Package config reads the server configuration: the output device, the
// render parameters, the installations with their speakers and the sounds
// the soundscape plays.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/control"
	"github.com/soundscape-lab/audioserver/detector"
	"github.com/soundscape-lab/audioserver/osc"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Device        Device
		Render        Render
		Installations []string
		Speakers      []Speaker
		Sounds        []Sound
		OSC           OSC
		MIDI          MIDI

		dir string // directory of the config file, for relative paths
	}

	Device struct {
		Backend         string // "portaudio" or "oto"
		SampleRate      int
		FramesPerBuffer int
		Channels        int
	}

	Render struct {
		MasterVolume float32
		RolloffDB    float64
		Spread       float64 // default spread of multichannel sounds, in metres
		FFTWindowLen int
	}

	Speaker struct {
		ID            uint64
		X, Y          float64
		Channel       int
		Installations []string
	}

	Sound struct {
		ID     uint64
		Source uint64
		// File is a WAV file, relative to the config file. Without a file,
		// the sound is a sine tone of frequency Tone.
		File     string
		Tone     float64
		Channels int // of the tone
		Playback string
		Repeat   bool
		X, Y     float64
		Spread   float64
		Rotation float32
		// Volume defaults to 1.
		Volume        *float32 `yaml:",omitempty" json:",omitempty"`
		Muted         bool
		Installations []string
	}

	OSC struct {
		Host    string
		Port    int
		Address string
	}

	MIDI struct {
		Input   string
		Enabled bool
		Map     control.MIDIMap
	}
)

const (
	BackendPortAudio = "portaudio"
	BackendOto       = "oto"
)

var (
	ErrNoSpeakers          = errors.New("no speakers")
	ErrDuplicateSpeaker    = errors.New("duplicate speaker id")
	ErrDuplicateSound      = errors.New("duplicate sound id")
	ErrChannelOutOfRange   = errors.New("speaker channel outside the device")
	ErrUnknownInstallation = errors.New("unknown installation")
	ErrInvalidDevice       = errors.New("invalid device")
	ErrNoSignal            = errors.New("sound has neither file nor tone")
)

// Default returns the configuration values used for anything a file leaves
// out.
func Default() Config {
	return Config{
		Device: Device{
			Backend:         BackendPortAudio,
			SampleRate:      detector.DefaultSampleRate,
			FramesPerBuffer: 512,
			Channels:        2,
		},
		Render: Render{
			MasterVolume: audioserver.DefaultMasterVolume,
			RolloffDB:    audioserver.DefaultDBAPRolloffDB,
			Spread:       1,
			FFTWindowLen: detector.DefaultWindowLen,
		},
		OSC: OSC{
			Host:    "127.0.0.1",
			Port:    9000,
			Address: osc.DefaultAddressTemplate,
		},
		MIDI: MIDI{Map: control.DefaultMIDIMap},
	}
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Parse reads a configuration from JSON or, failing that, YAML. Installation
// names are case-folded.
func Parse(data []byte) (Config, error) {
	c := Default()
	if errJSON := json.Unmarshal(data, &c); errJSON != nil {
		c = Default()
		if errYaml := yaml.Unmarshal(data, &c); errYaml != nil {
			return Config{}, fmt.Errorf("the config could not be parsed as .json (%v) or .yml (%w)", errJSON, errYaml)
		}
	}
	c.fold()
	return c, nil
}

func (c *Config) fold() {
	fold := cases.Fold()
	for i, inst := range c.Installations {
		c.Installations[i] = fold.String(inst)
	}
	for i := range c.Speakers {
		for j, inst := range c.Speakers[i].Installations {
			c.Speakers[i].Installations[j] = fold.String(inst)
		}
	}
	for i := range c.Sounds {
		for j, inst := range c.Sounds[i].Installations {
			c.Sounds[i].Installations[j] = fold.String(inst)
		}
	}
}

// Validate reports every problem found in the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.Device.SampleRate <= 0 || c.Device.FramesPerBuffer <= 0 || c.Device.Channels <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d Hz, %d frames, %d channels", ErrInvalidDevice, c.Device.SampleRate, c.Device.FramesPerBuffer, c.Device.Channels))
	}
	if c.Device.Channels > audioserver.MaxChannels {
		errs = append(errs, fmt.Errorf("%w: %d channels, at most %d", ErrInvalidDevice, c.Device.Channels, audioserver.MaxChannels))
	}
	switch c.Device.Backend {
	case BackendPortAudio, BackendOto:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown backend %q", ErrInvalidDevice, c.Device.Backend))
	}
	known := make(map[string]bool, len(c.Installations))
	for _, inst := range c.Installations {
		known[inst] = true
	}
	if len(c.Speakers) == 0 {
		errs = append(errs, ErrNoSpeakers)
	}
	speakers := make(map[uint64]bool, len(c.Speakers))
	for _, s := range c.Speakers {
		if speakers[s.ID] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateSpeaker, s.ID))
		}
		speakers[s.ID] = true
		if s.Channel < 0 || s.Channel >= c.Device.Channels {
			errs = append(errs, fmt.Errorf("%w: speaker %d on channel %d of %d", ErrChannelOutOfRange, s.ID, s.Channel, c.Device.Channels))
		}
		for _, inst := range s.Installations {
			if !known[inst] {
				errs = append(errs, fmt.Errorf("%w: %q of speaker %d", ErrUnknownInstallation, inst, s.ID))
			}
		}
	}
	sounds := make(map[uint64]bool, len(c.Sounds))
	for _, s := range c.Sounds {
		if sounds[s.ID] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateSound, s.ID))
		}
		sounds[s.ID] = true
		if s.File == "" && s.Tone <= 0 {
			errs = append(errs, fmt.Errorf("%w: sound %d", ErrNoSignal, s.ID))
		}
		for _, inst := range s.Installations {
			if !known[inst] {
				errs = append(errs, fmt.Errorf("%w: %q of sound %d", ErrUnknownInstallation, inst, s.ID))
			}
		}
	}
	return errors.Join(errs...)
}
