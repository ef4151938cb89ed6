// ABOUTME: Playback session orchestration for the CLI host
// ABOUTME: Wires track loading, the engine, and console reporting together
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/duotone-audio/duotone-go/internal/tonegen"
	"github.com/duotone-audio/duotone-go/internal/trackload"
	"github.com/duotone-audio/duotone-go/pkg/audio"
	"github.com/duotone-audio/duotone-go/pkg/audio/output"
	"github.com/duotone-audio/duotone-go/pkg/duotone"
)

// Demo tone parameters used when no track files are configured.
const (
	demoSeconds      = 10.0
	demoSampleRate   = 44100
	demoInstrumental = 220.0
	demoVocal        = 330.0
)

// Config holds session configuration.
type Config struct {
	// InstrumentalPath and VocalPath name the track files to play. When
	// both are empty the session plays a generated demo tone pair.
	InstrumentalPath string
	VocalPath        string

	// Monitor and Broadcast select output devices by id. An empty Monitor
	// means the system default device; an empty Broadcast means no
	// broadcast stream.
	Monitor   string
	Broadcast string

	// InstrumentalVolume and VocalVolume are applied before playback
	// starts. The engine clamps them to its allowed range.
	InstrumentalVolume float32
	VocalVolume        float32

	// Backend is the audio output backend. Defaults to the engine's
	// default backend when nil.
	Backend output.Backend

	// SeekDebounce and MonitorInterval override the engine defaults when
	// non-zero.
	SeekDebounce    time.Duration
	MonitorInterval time.Duration
}

// Session drives one playback run from load to finish.
type Session struct {
	config Config
	engine *duotone.Engine

	loaded chan duotone.LoadResult
	ended  chan struct{}
	fatal  chan error

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a session and its engine.
func New(config Config) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		config: config,
		loaded: make(chan duotone.LoadResult, 1),
		ended:  make(chan struct{}, 1),
		fatal:  make(chan error, 1),
		ctx:    ctx,
		cancel: cancel,
	}

	engine, err := duotone.New(duotone.Config{
		Backend:         config.Backend,
		SeekDebounce:    config.SeekDebounce,
		MonitorInterval: config.MonitorInterval,
		OnPosition:      s.handlePosition,
		OnEnded:         s.handleEnded,
		OnError:         s.handleError,
		OnLoadDone:      s.handleLoadDone,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// Run loads the tracks, starts playback, and blocks until the tracks run
// out or Stop is called. The engine is released before Run returns.
func (s *Session) Run() error {
	defer s.engine.Close()

	instrumental, vocal, err := s.loadBuffers()
	if err != nil {
		return err
	}

	s.engine.SetInstrumentalVolume(s.config.InstrumentalVolume)
	s.engine.SetVocalVolume(s.config.VocalVolume)
	s.engine.SetDevices(deviceID(s.config.Monitor), deviceID(s.config.Broadcast))

	loadID, err := s.engine.Load(instrumental, vocal)
	if err != nil {
		return fmt.Errorf("failed to load tracks: %w", err)
	}
	if err := s.waitLoaded(loadID); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to load tracks: %w", err)
	}

	log.Printf("Tracks ready: %s", FormatClock(s.engine.Duration()))
	if s.config.Broadcast != "" {
		log.Printf("Broadcast output: %s", s.config.Broadcast)
	}

	if err := s.engine.PlayPause(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	select {
	case <-s.ended:
		return nil
	case err := <-s.fatal:
		return fmt.Errorf("playback failed: %w", err)
	case <-s.ctx.Done():
		s.engine.Stop()
		s.engine.Seek(0)
		return nil
	}
}

// Stop requests the session end. Run tears playback down and returns.
func (s *Session) Stop() {
	s.cancel()
}

// loadBuffers reads the configured track files, or generates the demo tone
// pair when no files were given.
func (s *Session) loadBuffers() (*audio.Buffer, *audio.Buffer, error) {
	if s.config.InstrumentalPath != "" || s.config.VocalPath != "" {
		if s.config.InstrumentalPath == "" || s.config.VocalPath == "" {
			return nil, nil, errors.New("both an instrumental and a vocal file are required")
		}
		return trackload.LoadPair(s.config.InstrumentalPath, s.config.VocalPath)
	}

	log.Printf("No track files given, playing a %.0fs demo tone pair", demoSeconds)
	instrumental, err := tonegen.Sine(demoInstrumental, demoSeconds, demoSampleRate, tonegen.DefaultAmplitude)
	if err != nil {
		return nil, nil, err
	}
	vocal, err := tonegen.Sine(demoVocal, demoSeconds, demoSampleRate, tonegen.DefaultAmplitude)
	if err != nil {
		return nil, nil, err
	}
	return instrumental, vocal, nil
}

// waitLoaded blocks until the engine reports the given load finished.
func (s *Session) waitLoaded(loadID string) error {
	for {
		select {
		case result := <-s.loaded:
			if result.LoadID != loadID {
				continue
			}
			return result.Err
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}
}

// handlePosition prints the playback clock about once per second.
func (s *Session) handlePosition(seconds float64) {
	log.Printf("Playback: %s / %s", FormatClock(seconds), FormatClock(s.engine.Duration()))
}

// handleEnded wakes Run when playback finishes.
func (s *Session) handleEnded() {
	select {
	case s.ended <- struct{}{}:
	default:
	}
}

// handleError reports engine errors. A total device failure means nothing
// is playing, so it ends the session; a partial failure is logged and
// playback continues on the surviving stream.
func (s *Session) handleError(err error) {
	if errors.Is(err, duotone.ErrNoStreams) {
		select {
		case s.fatal <- err:
		default:
		}
		return
	}
	log.Printf("Playback warning: %v", err)
}

// handleLoadDone forwards the load result to Run.
func (s *Session) handleLoadDone(result duotone.LoadResult) {
	select {
	case s.loaded <- result:
	default:
	}
}

// deviceID maps a config device string to an engine device selection. The
// empty string means unset.
func deviceID(id string) *output.DeviceID {
	if id == "" {
		return nil
	}
	d := output.DeviceID(id)
	return &d
}

// FormatClock renders seconds as an hh:mm:ss playback clock, rounded to the
// nearest second.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds))
	h := total / 3600
	m := total % 3600 / 60
	sec := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}
