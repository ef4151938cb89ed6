// ABOUTME: Tests for test signal generation
// ABOUTME: Verifies tone shape, length, and validation
package tonegen

import (
	"math"
	"testing"
)

func TestSineShape(t *testing.T) {
	buf, err := Sine(440, 1.0, 44100, 0.5)
	if err != nil {
		t.Fatalf("Sine failed: %v", err)
	}
	if buf.Frames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", buf.Frames())
	}
	if buf.SampleRate() != 44100 {
		t.Errorf("expected 44100Hz, got %d", buf.SampleRate())
	}

	samples := buf.Samples()
	if samples[0] != 0 {
		t.Errorf("sine should start at zero, got %f", samples[0])
	}
	if samples[0] != samples[1] {
		t.Error("left and right channels should match")
	}

	// Peak near a quarter period should approach the amplitude.
	quarter := 44100 / 440 / 4
	peak := samples[2*quarter]
	if math.Abs(float64(peak)-0.5) > 0.05 {
		t.Errorf("expected peak near 0.5, got %f", peak)
	}

	for i, s := range samples {
		if s > 0.5 || s < -0.5 {
			t.Fatalf("sample %d exceeds amplitude: %f", i, s)
		}
	}
}

func TestSineValidation(t *testing.T) {
	if _, err := Sine(0, 1, 44100, 0.5); err == nil {
		t.Error("expected error for zero frequency")
	}
	if _, err := Sine(440, -1, 44100, 0.5); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestConstant(t *testing.T) {
	buf, err := Constant(0.25, 0.5, 8000)
	if err != nil {
		t.Fatalf("Constant failed: %v", err)
	}
	if buf.Frames() != 4000 {
		t.Errorf("expected 4000 frames, got %d", buf.Frames())
	}
	for i, s := range buf.Samples() {
		if s != 0.25 {
			t.Fatalf("sample %d: expected 0.25, got %f", i, s)
		}
	}

	if _, err := Constant(0.25, 0, 8000); err == nil {
		t.Error("expected error for zero duration")
	}
}
