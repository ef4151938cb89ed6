// ABOUTME: Audio type definitions
// ABOUTME: Defines the stereo sample buffer and sample-level utilities
package audio

import (
	"fmt"
	"math"
)

// Buffer holds a fixed-length block of decoded stereo audio at a single
// sample rate. Samples are interleaved float32 pairs (left, right), one pair
// per frame. A Buffer is immutable after creation: NewBuffer copies its
// input, and consumers must treat Samples() as read-only.
type Buffer struct {
	samples    []float32 // interleaved stereo, 2 values per frame
	sampleRate int
}

// NewBuffer creates a Buffer from raw interleaved samples.
//
// channels must be 1 or 2. Mono input is expanded to stereo by duplicating
// each sample into both channels. NaN and infinite sample values are
// replaced with silence so the realtime path never sees them.
func NewBuffer(samples []float32, channels, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported channel count: %d (supported: 1, 2)", channels)
	}
	if len(samples)%channels != 0 {
		return nil, fmt.Errorf("sample count %d not a multiple of channel count %d", len(samples), channels)
	}

	frames := len(samples) / channels
	out := make([]float32, frames*2)

	if channels == 1 {
		for i := 0; i < frames; i++ {
			s := sanitize(samples[i])
			out[2*i] = s
			out[2*i+1] = s
		}
	} else {
		for i := range samples {
			out[i] = sanitize(samples[i])
		}
	}

	return &Buffer{samples: out, sampleRate: sampleRate}, nil
}

// sanitize clamps NaN and infinite values to silence
func sanitize(s float32) float32 {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return s
}

// Samples returns the interleaved stereo sample data. Callers must not
// modify the returned slice.
func (b *Buffer) Samples() []float32 {
	return b.samples
}

// Frames returns the number of stereo frames in the buffer.
func (b *Buffer) Frames() int {
	return len(b.samples) / 2
}

// SampleRate returns the buffer's sample rate in Hz.
func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

// Clip constrains a sample to [-1.0, 1.0] to prevent output overflow.
func Clip(s float32) float32 {
	if s > 1.0 {
		return 1.0
	}
	if s < -1.0 {
		return -1.0
	}
	return s
}

// FrameForTime converts a position in seconds to the nearest frame index.
func FrameForTime(seconds float64, sampleRate int) int {
	return int(math.Round(seconds * float64(sampleRate)))
}

// TimeForFrame converts a frame index to seconds.
func TimeForFrame(frame, sampleRate int) float64 {
	return float64(frame) / float64(sampleRate)
}
