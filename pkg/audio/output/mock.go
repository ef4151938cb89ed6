// ABOUTME: In-process mock backend for tests
// ABOUTME: Scripted device failures and manually pumped render callbacks
package output

import (
	"fmt"
	"sync"
)

// Mock is a Backend for tests. Streams never touch hardware; tests drive
// rendering by calling Pump on the streams the backend hands out. Opening
// an unknown device id fails like a real backend would, and FailDevice
// scripts failures for known devices.
type Mock struct {
	mu       sync.Mutex
	devices  []DeviceInfo
	failures map[DeviceID]error
	streams  []*MockStream
	opens    int
}

// NewMock creates a mock backend. With no arguments it exposes two devices,
// "mock-0" (default) and "mock-1".
func NewMock(devices ...DeviceInfo) *Mock {
	if len(devices) == 0 {
		devices = []DeviceInfo{
			{ID: "mock-0", Name: "Mock Output 0", Default: true},
			{ID: "mock-1", Name: "Mock Output 1"},
		}
	}
	return &Mock{
		devices:  devices,
		failures: make(map[DeviceID]error),
	}
}

// FailDevice makes subsequent opens of the given device fail with err.
func (m *Mock) FailDevice(id DeviceID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[id] = err
}

// Devices returns the configured device list.
func (m *Mock) Devices() ([]DeviceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DeviceInfo, len(m.devices))
	copy(out, m.devices)
	return out, nil
}

// OpenStream opens a mock stream on the given device.
func (m *Mock) OpenStream(device DeviceID, sampleRate int, render RenderFunc) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failures[device]; ok {
		return nil, err
	}
	if device != "" && !m.knownDevice(device) {
		return nil, fmt.Errorf("output device not found: %s", device)
	}

	stream := &MockStream{
		Device:     device,
		SampleRate: sampleRate,
		render:     render,
	}
	m.streams = append(m.streams, stream)
	m.opens++
	return stream, nil
}

// knownDevice reports whether id is in the device list (m.mu held).
func (m *Mock) knownDevice(id DeviceID) bool {
	for _, d := range m.devices {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Close releases the backend.
func (m *Mock) Close() error {
	return nil
}

// OpenCount returns how many streams have been opened in total. Restart
// logic is verified by counting opens.
func (m *Mock) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// Streams returns all streams opened so far, in open order.
func (m *Mock) Streams() []*MockStream {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockStream, len(m.streams))
	copy(out, m.streams)
	return out
}

// MockStream is a stream whose rendering is driven manually by tests.
type MockStream struct {
	Device     DeviceID
	SampleRate int

	render RenderFunc

	mu         sync.Mutex
	done       bool
	closed     bool
	rendered   int
	lastResult RenderResult
}

// Pump invokes the render func for the given frame count and returns the
// rendered interleaved block. After the render func has signaled Stop, or
// after Close, Pump returns silence without invoking the render func.
func (s *MockStream) Pump(frames int) []float32 {
	out := make([]float32, frames*2)

	s.mu.Lock()
	if s.closed || s.done {
		s.mu.Unlock()
		return out
	}
	render := s.render
	s.mu.Unlock()

	result := render(out, frames)

	s.mu.Lock()
	s.rendered += frames
	s.lastResult = result
	if result == Stop {
		s.done = true
	}
	s.mu.Unlock()

	return out
}

// Active reports whether the stream is still rendering.
func (s *MockStream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.done
}

// Close marks the stream closed. Idempotent.
func (s *MockStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *MockStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// RenderedFrames returns the total frames pumped through the render func.
func (s *MockStream) RenderedFrames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

// LastResult returns the most recent render result.
func (s *MockStream) LastResult() RenderResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}
