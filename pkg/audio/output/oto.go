// ABOUTME: Oto-based audio output backend
// ABOUTME: Default-device fallback that adapts the pull-model oto player to render callbacks
package output

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Oto backend implementation using the oto library. Oto cannot enumerate or
// select devices, so every stream plays on the system default output. It
// exists as a fallback for platforms where the malgo backend is unavailable.
type Oto struct {
	mu         sync.Mutex
	otoCtx     *oto.Context
	sampleRate int
}

// NewOto creates an Oto backend.
func NewOto() *Oto {
	return &Oto{}
}

// Devices returns the single pseudo-device oto can play on.
func (o *Oto) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{
		{ID: "", Name: "System Default Output", Default: true},
	}, nil
}

// OpenStream starts a playback stream on the system default device.
func (o *Oto) OpenStream(device DeviceID, sampleRate int, render RenderFunc) (Stream, error) {
	if device != "" {
		log.Printf("Warning: oto backend cannot select output devices, using system default")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// oto allows one context per process; reuse it and warn on a rate
	// change, matching its no-reinitialization limitation.
	if o.otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan
		o.otoCtx = ctx
		o.sampleRate = sampleRate
	} else if o.sampleRate != sampleRate {
		log.Printf("Warning: sample rate change (%dHz -> %dHz) but oto doesn't support reinitialization. Continuing with existing context.",
			o.sampleRate, sampleRate)
	}

	stream := &otoStream{
		render:  render,
		scratch: make([]float32, 8192),
	}
	stream.player = o.otoCtx.NewPlayer(stream)
	stream.player.Play()

	log.Printf("Audio output opened: %dHz stereo float32 (oto, system default)", sampleRate)
	return stream, nil
}

// Close suspends the oto context. Oto contexts cannot be destroyed.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto context suspend error: %v", err)
		}
	}
	return nil
}

// otoStream adapts the pull-model oto player to a RenderFunc: the player's
// reads are answered by invoking the render func for as many frames as the
// read can hold.
type otoStream struct {
	player  *oto.Player
	render  RenderFunc
	scratch []float32
	done    atomic.Bool

	closeMu sync.Mutex
	closed  bool
}

// Read implements io.Reader for the oto player.
func (s *otoStream) Read(p []byte) (int, error) {
	if s.done.Load() {
		return 0, io.EOF
	}

	frames := len(p) / 8 // 2 channels x 4 bytes
	if frames == 0 {
		return 0, nil
	}

	need := frames * 2
	if cap(s.scratch) < need {
		s.scratch = make([]float32, need)
	}
	buf := s.scratch[:need]

	result := s.render(buf, frames)

	for i := 0; i < need; i++ {
		bits := math.Float32bits(buf[i])
		p[4*i] = byte(bits)
		p[4*i+1] = byte(bits >> 8)
		p[4*i+2] = byte(bits >> 16)
		p[4*i+3] = byte(bits >> 24)
	}

	if result == Stop {
		s.done.Store(true)
	}
	return need * 4, nil
}

// Active reports whether the stream is still rendering audio.
func (s *otoStream) Active() bool {
	s.closeMu.Lock()
	closed := s.closed
	s.closeMu.Unlock()
	return !closed && !s.done.Load()
}

// Close stops the player. Idempotent.
func (s *otoStream) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.done.Store(true)

	if s.player != nil {
		if err := s.player.Close(); err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
		s.player = nil
	}
	return nil
}
