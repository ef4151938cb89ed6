// ABOUTME: Audio output package for device playback
// ABOUTME: Provides the Backend/Stream contract and malgo, oto, portaudio backends
// Package output provides callback-driven audio playback on output devices.
//
// A Backend enumerates playback devices and opens Streams on them; each
// stream pulls interleaved stereo float32 audio from a RenderFunc on the
// audio subsystem's schedule. The render func returns Continue or Stop;
// once it returns Stop the stream latches inactive and renders silence
// until it is closed from a control goroutine.
//
// Backends:
//   - Malgo (miniaudio): primary; full device enumeration and selection
//   - PortAudio: behind the "portaudio" build tag
//   - Oto: system-default device only, fallback
//   - Mock: in-process backend for tests
//
// Example:
//
//	backend, err := output.NewMalgo()
//	stream, err := backend.OpenStream("", 44100, render)
//	// ... later, from a control goroutine:
//	stream.Close()
package output
