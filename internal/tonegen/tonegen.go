// ABOUTME: Deterministic test signal generation
// ABOUTME: Builds sine and constant-value stereo buffers for demos and tests
package tonegen

import (
	"fmt"
	"math"

	"github.com/duotone-audio/duotone-go/pkg/audio"
)

// DefaultAmplitude keeps generated tones comfortably below clipping even
// after gain boost.
const DefaultAmplitude float32 = 0.3

// Sine generates a stereo sine tone of the given frequency and length.
func Sine(frequency, seconds float64, sampleRate int, amplitude float32) (*audio.Buffer, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("invalid frequency: %f", frequency)
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("invalid duration: %f", seconds)
	}

	frames := int(seconds * float64(sampleRate))
	samples := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		v := amplitude * float32(math.Sin(2*math.Pi*frequency*t))
		samples[2*i] = v
		samples[2*i+1] = v
	}
	return audio.NewBuffer(samples, 2, sampleRate)
}

// Constant generates a stereo buffer holding one fixed sample value, useful
// for verifying gain math exactly.
func Constant(value float32, seconds float64, sampleRate int) (*audio.Buffer, error) {
	if seconds <= 0 {
		return nil, fmt.Errorf("invalid duration: %f", seconds)
	}

	frames := int(seconds * float64(sampleRate))
	samples := make([]float32, frames*2)
	for i := range samples {
		samples[i] = value
	}
	return audio.NewBuffer(samples, 2, sampleRate)
}
