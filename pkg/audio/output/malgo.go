// ABOUTME: Malgo-based audio output backend with device selection
// ABOUTME: Uses miniaudio library via malgo for per-device callback streams
package output

import (
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// Malgo backend implementation using the malgo/miniaudio library
type Malgo struct {
	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
}

// NewMalgo creates a Malgo backend with its own miniaudio context.
func NewMalgo() (*Malgo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	return &Malgo{malgoCtx: ctx}, nil
}

// Devices enumerates playback devices known to miniaudio.
func (m *Malgo) Devices() ([]DeviceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil, fmt.Errorf("backend closed")
	}

	infos, err := m.malgoCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, DeviceInfo{
			ID:      DeviceID(info.ID.String()),
			Name:    info.Name(),
			Default: info.IsDefault != 0,
		})
	}
	return devices, nil
}

// OpenStream opens a stereo float32 playback stream on the given device.
func (m *Malgo) OpenStream(device DeviceID, sampleRate int, render RenderFunc) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx == nil {
		return nil, fmt.Errorf("backend closed")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 2
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	// Non-empty device id selects a specific device; the id must survive
	// until InitDevice copies the config, hence the local.
	var malgoID malgo.DeviceID
	if device != "" {
		infos, err := m.malgoCtx.Devices(malgo.Playback)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
		}
		found := false
		for _, info := range infos {
			if DeviceID(info.ID.String()) == device {
				malgoID = info.ID
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("output device not found: %s", device)
		}
		deviceConfig.Playback.DeviceID = malgoID.Pointer()
	}

	stream := &malgoStream{
		render:  render,
		scratch: make([]float32, 8192),
	}

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: stream.data,
	}

	dev, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := dev.Start(); err != nil {
		dev.Uninit()
		return nil, fmt.Errorf("failed to start device: %w", err)
	}

	stream.device = dev
	log.Printf("Audio output opened: %dHz stereo float32 (malgo)", sampleRate)
	return stream, nil
}

// Close releases the miniaudio context.
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// malgoStream is a single running playback stream on a malgo device
type malgoStream struct {
	device  *malgo.Device
	render  RenderFunc
	scratch []float32
	done    atomic.Bool

	closeMu sync.Mutex
	closed  bool
}

// data is called by miniaudio on its realtime thread to fill the output
// buffer. Once the render func returns Stop, subsequent invocations render
// silence; teardown happens later via Close, never from here.
func (s *malgoStream) data(pOutput, _ []byte, frameCount uint32) {
	if s.done.Load() {
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	frames := int(frameCount)
	need := frames * 2
	if cap(s.scratch) < need {
		// Device asked for a larger period than expected; grows once.
		s.scratch = make([]float32, need)
	}
	buf := s.scratch[:need]

	result := s.render(buf, frames)

	n := len(pOutput) / 4
	if n > need {
		n = need
	}
	for i := 0; i < n; i++ {
		bits := math.Float32bits(buf[i])
		pOutput[4*i] = byte(bits)
		pOutput[4*i+1] = byte(bits >> 8)
		pOutput[4*i+2] = byte(bits >> 16)
		pOutput[4*i+3] = byte(bits >> 24)
	}

	if result == Stop {
		s.done.Store(true)
	}
}

// Active reports whether the stream is still rendering audio.
func (s *malgoStream) Active() bool {
	s.closeMu.Lock()
	closed := s.closed
	s.closeMu.Unlock()
	return !closed && !s.done.Load()
}

// Close stops and uninitializes the device. Idempotent.
func (s *malgoStream) Close() error {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.device != nil {
		if err := s.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		s.device.Uninit()
		s.device = nil
	}
	return nil
}
