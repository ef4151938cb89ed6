//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"fmt"
)

// PortAudio backend implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio backend
func NewPortAudio() (*PortAudio, error) {
	return &PortAudio{}, nil
}

// Devices enumerates playback devices
func (p *PortAudio) Devices() ([]DeviceInfo, error) {
	return nil, fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// OpenStream opens a playback stream
func (p *PortAudio) OpenStream(device DeviceID, sampleRate int, render RenderFunc) (Stream, error) {
	return nil, fmt.Errorf("PortAudio support not enabled (build with -tags portaudio)")
}

// Close releases resources
func (p *PortAudio) Close() error {
	return nil
}
