// ABOUTME: Tests for audio types
// ABOUTME: Tests Buffer construction, sanitization, and sample utilities
package audio

import (
	"math"
	"testing"
)

func TestNewBufferStereo(t *testing.T) {
	samples := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}

	buf, err := NewBuffer(samples, 2, 44100)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}

	if buf.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", buf.Frames())
	}
	if buf.SampleRate() != 44100 {
		t.Errorf("expected sample rate 44100, got %d", buf.SampleRate())
	}

	out := buf.Samples()
	for i, want := range samples {
		if out[i] != want {
			t.Errorf("sample %d: expected %f, got %f", i, want, out[i])
		}
	}
}

func TestNewBufferCopiesInput(t *testing.T) {
	samples := []float32{0.5, 0.5}
	buf, err := NewBuffer(samples, 2, 48000)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}

	samples[0] = -1.0
	if buf.Samples()[0] != 0.5 {
		t.Error("Buffer shares memory with its input slice")
	}
}

func TestNewBufferMonoExpansion(t *testing.T) {
	mono := []float32{0.1, 0.2, 0.3}

	buf, err := NewBuffer(mono, 1, 44100)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}

	if buf.Frames() != 3 {
		t.Fatalf("expected 3 frames, got %d", buf.Frames())
	}

	out := buf.Samples()
	for i, want := range mono {
		if out[2*i] != want || out[2*i+1] != want {
			t.Errorf("frame %d: expected (%f, %f), got (%f, %f)",
				i, want, want, out[2*i], out[2*i+1])
		}
	}
}

func TestNewBufferSanitizesNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	ninf := float32(math.Inf(-1))

	buf, err := NewBuffer([]float32{nan, inf, ninf, 0.25}, 2, 44100)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}

	out := buf.Samples()
	if out[0] != 0 || out[1] != 0 || out[2] != 0 {
		t.Errorf("non-finite samples not zeroed: %v", out[:3])
	}
	if out[3] != 0.25 {
		t.Errorf("finite sample altered: got %f", out[3])
	}
}

func TestNewBufferInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		samples    []float32
		channels   int
		sampleRate int
	}{
		{"zero sample rate", []float32{0, 0}, 2, 0},
		{"negative sample rate", []float32{0, 0}, 2, -1},
		{"zero channels", []float32{0, 0}, 0, 44100},
		{"too many channels", []float32{0, 0, 0}, 3, 44100},
		{"ragged stereo", []float32{0, 0, 0}, 2, 44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBuffer(tt.samples, tt.channels, tt.sampleRate); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBufferDuration(t *testing.T) {
	// 5 seconds at 44100Hz
	frames := 5 * 44100
	buf, err := NewBuffer(make([]float32, frames*2), 2, 44100)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}

	if buf.Duration() != 5.0 {
		t.Errorf("expected duration 5.0, got %f", buf.Duration())
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected float32
	}{
		{"zero", 0, 0},
		{"in range", 0.5, 0.5},
		{"negative in range", -0.5, -0.5},
		{"above max", 1.5, 1.0},
		{"below min", -1.5, -1.0},
		{"exactly max", 1.0, 1.0},
		{"exactly min", -1.0, -1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.input); got != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestFrameForTime(t *testing.T) {
	tests := []struct {
		name       string
		seconds    float64
		sampleRate int
		expected   int
	}{
		{"zero", 0, 44100, 0},
		{"one second", 1.0, 44100, 44100},
		{"rounds to nearest", 1.00001, 44100, 44100},
		{"half frame rounds", 0.5, 3, 2}, // 1.5 rounds to 2
		{"fractional", 2.5, 48000, 120000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameForTime(tt.seconds, tt.sampleRate); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestTimeForFrameRoundTrip(t *testing.T) {
	for _, frame := range []int{0, 1, 44100, 123456} {
		seconds := TimeForFrame(frame, 44100)
		if got := FrameForTime(seconds, 44100); got != frame {
			t.Errorf("round-trip failed: %d -> %f -> %d", frame, seconds, got)
		}
	}
}
