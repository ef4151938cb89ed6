//go:build portaudio

// ABOUTME: PortAudio output backend
// ABOUTME: Cross-platform device-selectable audio output using PortAudio
package output

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortAudio backend implementation. Devices are addressed by name.
type PortAudio struct {
	mu     sync.Mutex
	closed bool
}

// NewPortAudio initializes the PortAudio library and returns a backend.
func NewPortAudio() (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &PortAudio{}, nil
}

// Devices enumerates playback-capable PortAudio devices.
func (p *PortAudio) Devices() ([]DeviceInfo, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	def, err := portaudio.DefaultOutputDevice()
	if err != nil {
		def = nil
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for _, info := range infos {
		if info.MaxOutputChannels < 1 {
			continue
		}
		devices = append(devices, DeviceInfo{
			ID:      DeviceID(info.Name),
			Name:    info.Name,
			Default: def != nil && info == def,
		})
	}
	return devices, nil
}

// OpenStream opens a stereo float32 callback stream on the named device.
func (p *PortAudio) OpenStream(device DeviceID, sampleRate int, render RenderFunc) (Stream, error) {
	var dev *portaudio.DeviceInfo
	var err error

	if device == "" {
		dev, err = portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("no default output device: %w", err)
		}
	} else {
		infos, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}
		for _, info := range infos {
			if info.MaxOutputChannels > 0 && DeviceID(info.Name) == device {
				dev = info
				break
			}
		}
		if dev == nil {
			return nil, fmt.Errorf("output device not found: %s", device)
		}
	}

	stream := &paStream{render: render}

	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = 2
	params.SampleRate = float64(sampleRate)

	paStr, err := portaudio.OpenStream(params, stream.callback)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	if err := paStr.Start(); err != nil {
		paStr.Close()
		return nil, fmt.Errorf("failed to start stream: %w", err)
	}

	stream.stream = paStr
	log.Printf("Audio output opened: %dHz stereo float32 (portaudio, %s)", sampleRate, dev.Name)
	return stream, nil
}

// Close terminates the PortAudio library.
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return portaudio.Terminate()
}

// paStream is a single running PortAudio playback stream
type paStream struct {
	stream *portaudio.Stream
	render RenderFunc
	done   atomic.Bool

	closeMu sync.Mutex
	closed  bool
}

// callback fills the interleaved output buffer on PortAudio's realtime
// thread. The render func writes directly into out; no conversion needed.
func (s *paStream) callback(out []float32) {
	if s.done.Load() {
		fillSilence(out)
		return
	}

	frames := len(out) / 2
	if s.render(out, frames) == Stop {
		s.done.Store(true)
	}
}

// Active reports whether the stream is still rendering audio.
func (s *paStream) Active() bool {
	s.closeMu.Lock()
	closed := s.closed
	s.closeMu.Unlock()
	return !closed && !s.done.Load()
}

// Close stops and closes the stream. Idempotent.
func (s *paStream) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.stream != nil {
		if err := s.stream.Stop(); err != nil {
			log.Printf("Warning: portaudio stream stop error: %v", err)
		}
		if err := s.stream.Close(); err != nil {
			return fmt.Errorf("failed to close stream: %w", err)
		}
		s.stream = nil
	}
	return nil
}
