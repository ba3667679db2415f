package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/soundscape-lab/audioserver"
	"github.com/soundscape-lab/audioserver/cmd"
	"github.com/soundscape-lab/audioserver/config"
	"github.com/soundscape-lab/audioserver/osc"
	"github.com/soundscape-lab/audioserver/render"
	"github.com/soundscape-lab/audioserver/soundscape"
	"github.com/soundscape-lab/audioserver/version"
	"golang.org/x/sync/errgroup"
)

func main() {
	configFile := flag.String("config", "audioserver.yml", "Configuration file, YAML or JSON.")
	backend := flag.String("backend", "", "Audio backend, portaudio or oto. Overrides the configuration.")
	device := flag.String("device", "", "Output device name prefix (portaudio only). Empty means the default device.")
	renderFile := flag.String("render", "", "Render to this .wav file instead of playing.")
	seconds := flag.Float64("seconds", 10, "Length of the rendering with -render, in seconds.")
	pcm := flag.Bool("c", false, "Write 16-bit signed PCM with -render instead of 32-bit float.")
	logLevel := flag.String("loglevel", "info", "Log level: debug, info, warn or error.")
	logJSON := flag.Bool("logjson", false, "Log as JSON.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.ReadBuild())
		os.Exit(0)
	}
	log, err := newLogger(*logLevel, *logJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.WithError(err).Fatal("could not read configuration")
	}
	if isFlagPassed("backend") {
		cfg.Device.Backend = *backend
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	s, err := newServer(&cfg, log)
	if err != nil {
		log.WithError(err).Fatal("could not start")
	}
	if *renderFile != "" {
		if err := s.renderToFile(*renderFile, *seconds, *pcm); err != nil {
			log.WithError(err).Fatal("rendering failed")
		}
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := s.run(ctx, *device); err != nil {
		log.WithError(err).Fatal("audio server stopped")
	}
}

func newLogger(level string, json bool) (*logrus.Entry, error) {
	l := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l.SetLevel(lvl)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logrus.NewEntry(l), nil
}

// server ties the render thread to its producers and consumers.
type server struct {
	cfg       *config.Config
	broker    *render.Broker
	model     *render.Model
	player    *render.Player
	scheduler *soundscape.Scheduler
	monitor   *monitor
	log       *logrus.Entry
}

func newServer(cfg *config.Config, log *logrus.Entry) (*server, error) {
	broker := render.NewBroker()
	model, err := render.NewModel(broker, render.Config{
		SampleRate:      float64(cfg.Device.SampleRate),
		FramesPerBuffer: cfg.Device.FramesPerBuffer,
		Channels:        cfg.Device.Channels,
		FFTWindowLen:    cfg.Render.FFTWindowLen,
		Installations:   cfg.InstallationIDs(),
		Logger:          log.WithField("component", "render"),
	})
	if err != nil {
		return nil, err
	}
	model.MasterVolume = cfg.Render.MasterVolume
	model.DBAPRolloffDB = cfg.Render.RolloffDB
	// the device is not running yet, so the model can be filled directly
	for _, sp := range cfg.Speakers {
		id, speaker := sp.Speaker()
		model.InsertSpeaker(id, speaker)
	}
	voices, err := cfg.Voices(log.WithField("component", "config"))
	if err != nil {
		return nil, err
	}
	return &server{
		cfg:       cfg,
		broker:    broker,
		model:     model,
		player:    render.NewPlayer(broker, model),
		scheduler: soundscape.NewScheduler(broker, voices, log.WithField("component", "soundscape")),
		monitor:   newMonitor(broker, log.WithField("component", "monitor")),
		log:       log,
	}, nil
}

// run plays on the configured device until ctx is done.
func (s *server) run(ctx context.Context, device string) error {
	audioContext, err := cmd.NewAudioContext(s.cfg.Device, device)
	if err != nil {
		return fmt.Errorf("could not open the %s device: %w", s.cfg.Device.Backend, err)
	}
	defer audioContext.Close()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.scheduler.Run(gctx) })
	g.Go(func() error { return s.monitor.Run(gctx) })
	if s.cfg.OSC.Port > 0 {
		addr, err := osc.NewAddresser(s.cfg.OSC.Address)
		if err != nil {
			return err
		}
		client := osc.NewClient(s.cfg.OSC.Host, s.cfg.OSC.Port)
		out := osc.NewOutput(s.broker, client, addr, s.log.WithField("component", "osc"))
		g.Go(func() error { return out.Run(gctx) })
		s.log.WithField("target", fmt.Sprintf("%s:%d", s.cfg.OSC.Host, s.cfg.OSC.Port)).Info("sending analysis over osc")
	} else {
		g.Go(func() error { return discardFrames(gctx, s.broker) })
	}
	if s.cfg.MIDI.Enabled {
		in, err := cmd.OpenMIDI(s.cfg.MIDI, s.broker, s.log.WithField("component", "midi"))
		if err != nil {
			s.log.WithError(err).Warn("midi control unavailable")
		} else {
			defer in.Close()
		}
	}
	if err := audioContext.Play(s.player); err != nil {
		return fmt.Errorf("could not start playing: %w", err)
	}
	fields := logrus.Fields{
		"backend":  s.cfg.Device.Backend,
		"rate":     s.cfg.Device.SampleRate,
		"channels": s.cfg.Device.Channels,
		"speakers": s.model.NumSpeakers(),
	}
	if d, ok := audioContext.(interface{ DeviceName() string }); ok {
		fields["device"] = d.DeviceName()
	}
	s.log.WithFields(fields).Info("playing")
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	s.log.Info("stopped")
	return err
}

// renderToFile renders the soundscape offline, handling the messages of the
// render thread between buffers as the live goroutines would.
func (s *server) renderToFile(path string, seconds float64, pcm16 bool) error {
	rate := s.cfg.Device.SampleRate
	nch := s.cfg.Device.Channels
	total := int(seconds * float64(rate))
	if total <= 0 {
		return fmt.Errorf("nothing to render in %v seconds", seconds)
	}
	out := audioserver.MakeAudioBuffer(nch, total)
	s.scheduler.Start()
	for done := 0; done < total; {
		n := min(s.cfg.Device.FramesPerBuffer, total-done)
		buffer := audioserver.AudioBuffer{Channels: nch, Samples: out.Samples[done*nch : (done+n)*nch]}
		s.player.Process(buffer)
		done += n
	loop:
		for {
			select {
			case u := <-s.broker.ToSoundscape:
				s.scheduler.Handle(u)
			case f := <-s.broker.ToOSC:
				s.broker.PutAudioFrame(f)
			case msg := <-s.broker.ToGUI:
				s.monitor.handle(msg)
			default:
				break loop
			}
		}
	}
	data, err := audioserver.Wav(out, rate, pcm16)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"file": path, "frames": total, "peak": s.monitor.peak}).Info("rendered")
	return nil
}

// discardFrames returns analysis frames to the pool when nothing sends them.
func discardFrames(ctx context.Context, b *render.Broker) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-b.ToOSC:
			b.PutAudioFrame(f)
		}
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
