// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the stereo Buffer type and sample conversion helpers
// Package audio provides fundamental audio types for dual-track playback.
//
// This package defines the core Buffer type used throughout the duotone
// library: an immutable, interleaved stereo float32 buffer with a fixed
// sample rate. Buffers are sanitized at construction (NaN/Inf samples
// become silence, mono input is expanded to stereo) so downstream realtime
// code can index them without validation.
//
// It also provides sample-level utilities:
//   - Clip: constrain a sample to [-1.0, 1.0]
//   - FrameForTime / TimeForFrame: seconds ↔ frame index conversion
//
// Example:
//
//	buf, err := audio.NewBuffer(samples, 2, 44100)
//	frames := buf.Frames()
//	seconds := buf.Duration()
package audio
